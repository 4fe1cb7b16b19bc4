package model

import (
	"slices"
	"time"
)

// SessionInfo is the session service's view of a conversation.
type SessionInfo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatState is the in-memory state of the active session.
//
// Streaming holds the partial assistant text of the turn in flight and is
// empty whenever IsProcessing is false. A failed turn parks its partial text
// in Interrupted together with Err until the next submission or switch.
type ChatState struct {
	SessionID    string    `json:"session_id"`
	Messages     []Message `json:"messages"`
	Streaming    string    `json:"streaming,omitempty"`
	IsProcessing bool      `json:"is_processing"`
	Model        string    `json:"model"`
	Interrupted  string    `json:"interrupted,omitempty"`
	Err          error     `json:"-"`
}

// Clone returns a copy whose message slice can be handed to other goroutines.
func (s ChatState) Clone() ChatState {
	s.Messages = slices.Clone(s.Messages)
	return s
}

// LastAssistant returns the most recent assistant message.
func (s ChatState) LastAssistant() (Message, bool) {
	return LastAssistant(s.Messages)
}

// LastAssistant returns the most recent assistant message in messages.
func LastAssistant(messages []Message) (Message, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleAssistant {
			return messages[i], true
		}
	}
	return Message{}, false
}

func hasUserMessage(messages []Message) bool {
	for _, m := range messages {
		if m.Role == RoleUser {
			return true
		}
	}
	return false
}

// Snapshot is what orchestrator listeners receive after every change.
type Snapshot struct {
	State    ChatState
	Sessions []SessionInfo
}
