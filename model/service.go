package model

import "context"

// SessionService owns persisted sessions and history and performs turns
// against the model. It keeps its own notion of the "current" session, set by
// SwitchSession and used by GetMessages and SendMessage.
type SessionService interface {
	CreateSession(ctx context.Context, title, id string) (string, error)
	ListSessions(ctx context.Context) ([]SessionInfo, error)
	SwitchSession(ctx context.Context, id string) error
	GetMessages(ctx context.Context) (ChatState, error)
	DeleteSession(ctx context.Context, id string) error
	UpdateSessionTitle(ctx context.Context, id, title string) error

	// SendMessage runs one turn in the current session. onChunk is called
	// zero or more times, in order, with incremental assistant text.
	SendMessage(ctx context.Context, text, model string, onChunk func(chunk string)) error
}
