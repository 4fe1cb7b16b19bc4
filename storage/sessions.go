package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"nexushr/model"
)

// Session is a stored session's metadata.
type Session struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Model        string    `json:"model,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// Info converts to the orchestrator's session list entry.
func (s Session) Info() model.SessionInfo {
	return model.SessionInfo{
		ID:        s.ID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

const currentSessionKey = "current_session"

const sessionColumns = `s.id, s.title, s.model, s.created_at, s.updated_at,
	(SELECT COUNT(*) FROM messages m WHERE m.session_id = s.id)`

func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms) }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (Session, error) {
	var (
		sess             Session
		created, updated int64
	)
	if err := row.Scan(&sess.ID, &sess.Title, &sess.Model, &created, &updated, &sess.MessageCount); err != nil {
		return Session{}, err
	}
	sess.CreatedAt = fromMillis(created)
	sess.UpdatedAt = fromMillis(updated)
	return sess, nil
}

// CreateSession inserts a new session. An empty id gets a fresh UUID.
func (s *Store) CreateSession(ctx context.Context, id, title, modelName string) (Session, error) {
	if id == "" {
		id = uuid.New().String()
	}
	now := fromMillis(toMillis(time.Now()))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, title, model, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, title, modelName, toMillis(now), toMillis(now))
	if err != nil {
		return Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	return Session{ID: id, Title: title, Model: modelName, CreatedAt: now, UpdatedAt: now}, nil
}

// ListSessions returns all sessions, most recently updated first.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions s ORDER BY s.updated_at DESC, s.created_at DESC, s.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}

	return sessions, rows.Err()
}

// GetSession loads one session's metadata.
func (s *Store) GetSession(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions s WHERE s.id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	return sess, nil
}

// RenameSession updates the title of a session
func (s *Store) RenameSession(ctx context.Context, id, title string) error {
	return s.updateSession(ctx, id, `UPDATE sessions SET title = ?, updated_at = ? WHERE id = ?`, title, toMillis(time.Now()), id)
}

// SetSessionModel records the model last used in a session.
func (s *Store) SetSessionModel(ctx context.Context, id, modelName string) error {
	return s.updateSession(ctx, id, `UPDATE sessions SET model = ? WHERE id = ?`, modelName, id)
}

func (s *Store) updateSession(ctx context.Context, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// DeleteSession removes a session and its messages.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM app_state WHERE key = ? AND value = ?`, currentSessionKey, id); err != nil {
		return fmt.Errorf("failed to clear current session: %w", err)
	}

	return tx.Commit()
}

// AppendMessage adds a message to the end of a session's history and touches
// the session's update time. A message without an ID gets a fresh UUID.
func (s *Store) AppendMessage(ctx context.Context, sessionID string, msg model.Message) (model.Message, error) {
	if err := msg.Validate(); err != nil {
		return model.Message{}, err
	}
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	var toolCalls sql.NullString
	if len(msg.ToolCalls) > 0 {
		data, err := json.Marshal(msg.ToolCalls)
		if err != nil {
			return model.Message{}, fmt.Errorf("failed to marshal tool calls: %w", err)
		}
		toolCalls = sql.NullString{String: string(data), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Message{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE sessions SET updated_at = ? WHERE id = ?`, toMillis(time.Now()), sessionID)
	if err != nil {
		return model.Message{}, fmt.Errorf("failed to touch session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Message{}, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (id, session_id, seq, role, content, tool_calls, created_at)
		 VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM messages WHERE session_id = ?), ?, ?, ?, ?)`,
		msg.ID, sessionID, sessionID, msg.Role, msg.Content, toolCalls, toMillis(msg.Timestamp))
	if err != nil {
		return model.Message{}, fmt.Errorf("failed to insert message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.Message{}, fmt.Errorf("failed to commit message: %w", err)
	}

	msg.Timestamp = fromMillis(toMillis(msg.Timestamp))
	return msg, nil
}

// Messages returns a session's history in order.
func (s *Store) Messages(ctx context.Context, sessionID string) ([]model.Message, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, content, tool_calls, created_at FROM messages WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var (
			msg       model.Message
			toolCalls sql.NullString
			created   int64
		)
		if err := rows.Scan(&msg.ID, &msg.Role, &msg.Content, &toolCalls, &created); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Timestamp = fromMillis(created)
		if toolCalls.Valid && toolCalls.String != "" {
			if err := json.Unmarshal([]byte(toolCalls.String), &msg.ToolCalls); err != nil {
				return nil, fmt.Errorf("failed to decode tool calls of message %s: %w", msg.ID, err)
			}
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// SaveCurrentSessionID saves the ID of the current session
func (s *Store) SaveCurrentSessionID(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO app_state (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		currentSessionKey, id)
	if err != nil {
		return fmt.Errorf("failed to save current session: %w", err)
	}
	return nil
}

// LoadCurrentSessionID loads the ID of the last active session, or "" if none.
func (s *Store) LoadCurrentSessionID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, currentSessionKey).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load current session: %w", err)
	}
	return strings.TrimSpace(id), nil
}
