package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexushr/model"
	"nexushr/provider/testutil"
	"nexushr/storage"
	"nexushr/tools"
)

type fixture struct {
	store    *storage.Store
	provider *testutil.MockProvider
	service  *Service
}

func newFixture(t *testing.T, opts Options, steps ...testutil.Step) fixture {
	t.Helper()
	store, err := storage.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	p := testutil.NewScriptedProvider("test-model", steps...)
	svc := NewService(store, p, tools.NewChain(tools.NewBuiltins()), opts)
	return fixture{store: store, provider: p, service: svc}
}

func (f fixture) activeSession(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	id, err := f.service.CreateSession(ctx, model.DefaultSessionTitle, "")
	require.NoError(t, err)
	require.NoError(t, f.service.SwitchSession(ctx, id))
	return id
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})

	id, err := f.service.CreateSession(ctx, "New Chat", "fixed")
	require.NoError(t, err)
	assert.Equal(t, "fixed", id)

	_, err = f.service.GetMessages(ctx)
	assert.ErrorIs(t, err, ErrNoCurrentSession)

	require.NoError(t, f.service.SwitchSession(ctx, id))
	assert.Equal(t, id, f.service.CurrentSessionID())

	state, err := f.service.GetMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, state.SessionID)
	assert.Empty(t, state.Messages)
	assert.Equal(t, "test-model", state.Model)

	require.NoError(t, f.service.UpdateSessionTitle(ctx, id, "Benefits"))
	sessions, err := f.service.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Benefits", sessions[0].Title)

	current, err := f.store.LoadCurrentSessionID(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, current)

	assert.ErrorIs(t, f.service.SwitchSession(ctx, "missing"), storage.ErrSessionNotFound)
	assert.Equal(t, id, f.service.CurrentSessionID())

	require.NoError(t, f.service.DeleteSession(ctx, id))
	assert.Equal(t, "", f.service.CurrentSessionID())
}

func TestSendMessageWithoutSession(t *testing.T) {
	f := newFixture(t, Options{})
	err := f.service.SendMessage(context.Background(), "hi", "", nil)
	assert.ErrorIs(t, err, ErrNoCurrentSession)
	assert.Empty(t, f.provider.Requests())
}

func TestSendMessageStreamsAndPersists(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{SystemPrompt: "You are NexusHR."},
		testutil.Step{Chunks: []string{"Hello", ", Alex!"}},
	)
	id := f.activeSession(t)

	var chunks []string
	require.NoError(t, f.service.SendMessage(ctx, "Hi", "", func(c string) { chunks = append(chunks, c) }))
	assert.Equal(t, []string{"Hello", ", Alex!"}, chunks)

	messages, err := f.store.Messages(ctx, id)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, model.RoleUser, messages[0].Role)
	assert.Equal(t, "Hi", messages[0].Content)
	assert.Equal(t, model.RoleAssistant, messages[1].Role)
	assert.Equal(t, "Hello, Alex!", messages[1].Content)
	assert.Empty(t, messages[1].ToolCalls)

	reqs := f.provider.Requests()
	require.Len(t, reqs, 1)
	require.Len(t, reqs[0].Messages, 2)
	assert.Equal(t, model.RoleSystem, reqs[0].Messages[0].Role)
	assert.Equal(t, "Hi", reqs[0].Messages[1].Content)
	assert.Equal(t, []string{"start_onboarding_process", "request_pto_balance", "find_policy_document", "get_weather"}, model.ToolNames(reqs[0].Tools))
}

func TestSendMessageRunsToolLoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{},
		testutil.Step{
			Chunks: []string{"Starting onboarding."},
			ToolCalls: []model.ToolCall{{
				Name:      "start_onboarding_process",
				Arguments: map[string]any{"employee_name": "Alex Doe", "start_date": "2025-01-06"},
			}},
		},
		testutil.Step{Chunks: []string{"Done! Here is the checklist."}},
	)
	id := f.activeSession(t)

	var streamed strings.Builder
	require.NoError(t, f.service.SendMessage(ctx, "Start onboarding for Alex Doe", "", func(c string) { streamed.WriteString(c) }))
	assert.Equal(t, "Starting onboarding.\n\nDone! Here is the checklist.", streamed.String())

	messages, err := f.store.Messages(ctx, id)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	reply := messages[1]
	assert.Equal(t, streamed.String(), reply.Content)
	require.Len(t, reply.ToolCalls, 1)
	call := reply.ToolCalls[0]
	assert.NotEmpty(t, call.ID)
	assert.False(t, call.Pending())
	assert.True(t, model.HasMarker(call.Result, model.OnboardingChecklistComponent))

	checklist, err := model.ParseOnboardingChecklist(call.Result)
	require.NoError(t, err)
	assert.Equal(t, "Alex Doe", checklist.EmployeeName)
	assert.Len(t, checklist.Tasks, 5)

	// Second request carries the issued call and its result
	reqs := f.provider.Requests()
	require.Len(t, reqs, 2)
	second := reqs[1].Messages
	require.Len(t, second, 3)
	assert.Equal(t, model.RoleAssistant, second[1].Role)
	assert.Equal(t, "Starting onboarding.", second[1].Content)
	require.Len(t, second[1].ToolCalls, 1)
	assert.Nil(t, second[1].ToolCalls[0].Result)
	assert.Equal(t, model.RoleTool, second[2].Role)
	assert.Equal(t, call.ID, second[2].ToolCallID)

	var fed map[string]any
	require.NoError(t, json.Unmarshal([]byte(second[2].Content), &fed))
	assert.Equal(t, "success", fed["status"])
}

func TestSendMessageNormalizesToolFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{},
		testutil.Step{ToolCalls: []model.ToolCall{
			{ID: "c1", Name: "no_such_tool"},
			{ID: "c2", Name: "find_policy_document", Arguments: map[string]any{}},
		}},
		testutil.Step{Chunks: []string{"Sorry."}},
	)
	id := f.activeSession(t)

	require.NoError(t, f.service.SendMessage(ctx, "do it", "", nil))

	messages, err := f.store.Messages(ctx, id)
	require.NoError(t, err)
	calls := messages[1].ToolCalls
	require.Len(t, calls, 2)

	msg, failed := calls[0].Result.Failure()
	assert.True(t, failed)
	assert.Contains(t, msg, "no_such_tool")
	assert.Equal(t, map[string]any{}, calls[0].Arguments)

	_, failed = calls[1].Result.Failure()
	assert.True(t, failed, "missing required argument is reported as a tool error")
}

func TestSendMessageStopsAtIterationLimit(t *testing.T) {
	ctx := context.Background()
	loop := testutil.Step{ToolCalls: []model.ToolCall{{Name: "request_pto_balance", Arguments: map[string]any{}}}}
	f := newFixture(t, Options{MaxToolIterations: 2}, loop, loop, loop, loop)
	id := f.activeSession(t)

	require.NoError(t, f.service.SendMessage(ctx, "PTO?", "", nil))
	assert.Len(t, f.provider.Requests(), 3)

	messages, err := f.store.Messages(ctx, id)
	require.NoError(t, err)
	calls := messages[1].ToolCalls
	require.Len(t, calls, 3)

	_, failed := calls[0].Result.Failure()
	assert.False(t, failed)
	msg, failed := calls[2].Result.Failure()
	assert.True(t, failed)
	assert.Equal(t, "tool iteration limit reached", msg)
}

func TestSendMessageModelFailurePersistsOnlyUserMessage(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("upstream unavailable")
	f := newFixture(t, Options{}, testutil.Step{Chunks: []string{"partial"}, Err: boom})
	id := f.activeSession(t)

	var chunks []string
	err := f.service.SendMessage(ctx, "Hi", "", func(c string) { chunks = append(chunks, c) })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"partial"}, chunks)

	messages, err := f.store.Messages(ctx, id)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, model.RoleUser, messages[0].Role)
}

func TestSendMessageUsesRequestedModel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	id := f.activeSession(t)

	require.NoError(t, f.service.SendMessage(ctx, "Hi", "llama3.1", nil))
	assert.Equal(t, "test-model", f.provider.GetModel(), "the shared provider keeps its configured model")
	assert.Equal(t, "llama3.1", f.provider.Requests()[0].Model)

	sess, err := f.store.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "llama3.1", sess.Model)
}

func TestConcurrentTurnsKeepTheirModels(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	first := f.activeSession(t)

	second, err := f.service.CreateSession(ctx, model.DefaultSessionTitle, "")
	require.NoError(t, err)
	require.NoError(t, f.service.SwitchSession(ctx, first))

	// The second turn starts and finishes while the first is mid-stream
	var nested bool
	f.provider.ChatWithToolsFunc = func(ctx context.Context, messages []model.Message, defs []model.ToolDefinition, cb model.StreamCallback) error {
		if !nested {
			nested = true
			require.NoError(t, f.service.SwitchSession(ctx, second))
			require.NoError(t, f.service.SendMessage(ctx, "other question", "qwen2.5", nil))
		}
		return cb("answer", nil)
	}

	require.NoError(t, f.service.SendMessage(ctx, "question", "llama3.1", nil))

	requests := f.provider.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, "llama3.1", requests[0].Model)
	assert.Equal(t, "qwen2.5", requests[1].Model)

	sess, err := f.store.GetSession(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "llama3.1", sess.Model)
	sess, err = f.store.GetSession(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "qwen2.5", sess.Model)
}

func TestSendMessageTargetsSessionCurrentAtStart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	first := f.activeSession(t)

	second, err := f.service.CreateSession(ctx, model.DefaultSessionTitle, "")
	require.NoError(t, err)

	// Switch away while the model is still answering
	f.provider.ChatWithToolsFunc = func(ctx context.Context, messages []model.Message, defs []model.ToolDefinition, cb model.StreamCallback) error {
		require.NoError(t, f.service.SwitchSession(ctx, second))
		return cb("answer", nil)
	}

	require.NoError(t, f.service.SendMessage(ctx, "question", "", nil))

	firstMsgs, err := f.store.Messages(ctx, first)
	require.NoError(t, err)
	assert.Len(t, firstMsgs, 2)

	secondMsgs, err := f.store.Messages(ctx, second)
	require.NoError(t, err)
	assert.Empty(t, secondMsgs)
}

func TestRequestMessagesReplaysPastToolRounds(t *testing.T) {
	svc := &Service{opts: Options{SystemPrompt: "sys"}}
	history := []model.Message{
		{Role: model.RoleUser, Content: "PTO?"},
		{Role: model.RoleAssistant, Content: "You have 40 hours.", ToolCalls: []model.ToolCall{
			{ID: "c1", Name: "request_pto_balance", Arguments: map[string]any{}, Result: model.ToolResult{"pto_balance_hours": "40.0"}},
		}},
	}

	convo := svc.requestMessages(history)
	require.Len(t, convo, 4)
	assert.Equal(t, model.RoleSystem, convo[0].Role)
	assert.Equal(t, model.RoleAssistant, convo[2].Role)
	assert.Equal(t, model.RoleTool, convo[3].Role)
	assert.Equal(t, "c1", convo[3].ToolCallID)
	assert.JSONEq(t, `{"pto_balance_hours":"40.0"}`, convo[3].Content)
}

func TestOrchestratorOverService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{},
		testutil.Step{ToolCalls: []model.ToolCall{{
			Name:      "start_onboarding_process",
			Arguments: map[string]any{"employee_name": "Alex Doe", "start_date": "2025-01-06"},
		}}},
		testutil.Step{Chunks: []string{"Onboarding started."}},
	)

	orch := model.NewOrchestrator(f.service, "test-model")
	var opened []model.OnboardingChecklist
	dispatcher := model.NewDispatcher(model.RouteOnboarding(func(c model.OnboardingChecklist) {
		opened = append(opened, c)
	}))
	orch.Subscribe(dispatcher.Listener())

	require.NoError(t, orch.LoadSessions(ctx, ""))
	require.NoError(t, orch.Submit(ctx, "Start the onboarding process for 'Alex Doe'"))

	state := orch.State()
	assert.False(t, state.IsProcessing)
	assert.Empty(t, state.Streaming)
	require.Len(t, state.Messages, 2)
	assert.Equal(t, "Onboarding started.", state.Messages[1].Content)

	require.Len(t, opened, 1)
	assert.Equal(t, "Alex Doe", opened[0].EmployeeName)

	sessions := orch.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "Start the onboarding proces...", sessions[0].Title)
}
