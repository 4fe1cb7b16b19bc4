package storage

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MessageMatch is a search hit within a stored session.
type MessageMatch struct {
	SessionID    string
	SessionTitle string
	MessageID    string
	Role         string
	Preview      string
	Timestamp    time.Time
}

// previewLength caps the characters shown around a search hit.
const previewLength = 100

// SearchMessages finds user and assistant messages containing query
// (case-insensitive) across all sessions, newest first.
func (s *Store) SearchMessages(ctx context.Context, query string, limit int) ([]MessageMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []MessageMatch{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.session_id, s.title, m.id, m.role, m.content, m.created_at
		FROM messages m JOIN sessions s ON s.id = m.session_id
		WHERE m.role IN ('user', 'assistant') AND instr(lower(m.content), lower(?)) > 0
		ORDER BY m.created_at DESC, m.seq DESC
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}
	defer rows.Close()

	matches := []MessageMatch{}
	for rows.Next() {
		var (
			m       MessageMatch
			content string
			created int64
		)
		if err := rows.Scan(&m.SessionID, &m.SessionTitle, &m.MessageID, &m.Role, &content, &created); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		m.Timestamp = fromMillis(created)
		m.Preview = preview(content, query)
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

// preview returns up to previewLength runes of content starting a little
// before the first occurrence of query.
func preview(content, query string) string {
	content = strings.Join(strings.Fields(content), " ")
	runes := []rune(content)

	start := 0
	lower := strings.ToLower(content)
	if idx := strings.Index(lower, strings.ToLower(query)); idx > 0 {
		start = max(utf8.RuneCountInString(lower[:idx])-20, 0)
		start = min(start, len(runes))
	}

	end := start + previewLength
	if end >= len(runes) {
		out := string(runes[start:])
		if start > 0 {
			out = "..." + out
		}
		return out
	}

	out := string(runes[start:end]) + "..."
	if start > 0 {
		out = "..." + out
	}
	return out
}
