package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nexushr/config"
	"nexushr/model"
)

// Export is the on-disk shape of an exported session.
type Export struct {
	Session
	Messages []model.Message `json:"messages"`
}

// ExportToJSON exports a session with its messages to a JSON file at exportPath
func (s *Store) ExportToJSON(ctx context.Context, id string, exportPath string) error {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return err
	}

	messages, err := s.Messages(ctx, id)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(Export{Session: sess, Messages: messages}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// 0700 / 0600: exports contain employee conversations
	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(exportPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// SanitizeFilename removes or replaces characters that are invalid in filenames
func SanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ', '\n', '\r', '\t':
			return '-'
		}
		return r
	}, name)

	name = strings.Trim(name, "-.")

	if runes := []rune(name); len(runes) > 50 {
		name = string(runes[:50])
	}

	if name == "" {
		name = "session"
	}

	return name
}

// GenerateExportPath generates a default export path for a session in the
// user's Downloads directory.
func GenerateExportPath(sessionTitle string, now time.Time) string {
	filename := fmt.Sprintf("nexushr-session-%s-%s.json", SanitizeFilename(sessionTitle), now.Format("20060102-150405"))
	return filepath.Join(config.GetHomeDir(), "Downloads", filename)
}
