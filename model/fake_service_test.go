package model

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// fakeService is an in-memory SessionService. sendHook, when set, runs inside
// SendMessage after the user message is recorded and before the reply is.
type fakeService struct {
	mu       sync.Mutex
	sessions []SessionInfo
	messages map[string][]Message
	current  string
	calls    []string
	seq      int

	sendHook func(onChunk func(string)) error
}

func newFakeService() *fakeService {
	return &fakeService{messages: make(map[string][]Message)}
}

func (f *fakeService) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeService) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeService) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func (f *fakeService) seed(id, title string, msgs ...Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, SessionInfo{ID: id, Title: title, CreatedAt: time.Now(), UpdatedAt: time.Now()})
	f.messages[id] = msgs
}

func (f *fakeService) title(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.ID == id {
			return s.Title
		}
	}
	return ""
}

func (f *fakeService) CreateSession(ctx context.Context, title, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create:" + title)
	f.sessions = append([]SessionInfo{{ID: id, Title: title, CreatedAt: time.Now(), UpdatedAt: time.Now()}}, f.sessions...)
	f.messages[id] = nil
	return id, nil
}

func (f *fakeService) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list")
	return slices.Clone(f.sessions), nil
}

func (f *fakeService) SwitchSession(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("switch:" + id)
	if _, ok := f.messages[id]; !ok {
		return fmt.Errorf("session %s not found", id)
	}
	f.current = id
	return nil
}

func (f *fakeService) GetMessages(ctx context.Context) (ChatState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("get")
	return ChatState{SessionID: f.current, Messages: slices.Clone(f.messages[f.current])}, nil
}

func (f *fakeService) DeleteSession(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete:" + id)
	f.sessions = slices.DeleteFunc(f.sessions, func(s SessionInfo) bool { return s.ID == id })
	delete(f.messages, id)
	return nil
}

func (f *fakeService) UpdateSessionTitle(ctx context.Context, id, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("title:" + title)
	for i := range f.sessions {
		if f.sessions[i].ID == id {
			f.sessions[i].Title = title
			return nil
		}
	}
	return fmt.Errorf("session %s not found", id)
}

func (f *fakeService) SendMessage(ctx context.Context, text, model string, onChunk func(string)) error {
	f.mu.Lock()
	f.record("send:" + text)
	session := f.current
	f.messages[session] = append(f.messages[session], Message{ID: f.nextID("u"), Role: RoleUser, Content: text})
	hook := f.sendHook
	f.mu.Unlock()

	reply := "echo: " + text
	if hook != nil {
		if err := hook(onChunk); err != nil {
			return err
		}
	} else {
		onChunk(reply)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[session] = append(f.messages[session], Message{ID: f.nextID("a"), Role: RoleAssistant, Content: reply})
	return nil
}
