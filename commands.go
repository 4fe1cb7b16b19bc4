package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"nexushr/model"
	"nexushr/storage"
)

// listTools prints the merged registry in the order the model sees it. With
// --json it prints the function-tool envelopes sent upstream instead.
func (a *app) listTools(ctx context.Context, args []string, w io.Writer) error {
	defs, err := a.registry.ListDefinitions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tools: %w", err)
	}

	if slices.Contains(args, "--json") {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(model.AsFunctionTools(defs))
	}

	cyan := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)
	yellow := color.New(color.FgYellow)

	fmt.Fprintf(w, "%d tool(s)\n\n", len(defs))
	for _, def := range defs {
		cyan.Fprintln(w, def.Name)
		if def.Description != "" {
			fmt.Fprintf(w, "  %s\n", def.Description)
		}
		params := make([]string, 0, len(def.Parameters.Properties))
		for name := range def.Parameters.Properties {
			params = append(params, name)
		}
		sort.Strings(params)
		for _, name := range params {
			marker := ""
			if slices.Contains(def.Parameters.Required, name) {
				marker = " (required)"
			}
			dim.Fprintf(w, "    - %s%s\n", name, marker)
		}
		fmt.Fprintln(w)
	}

	if a.mcp == nil {
		return nil
	}
	failed := a.mcp.FailedServers()
	ids := make([]string, 0, len(failed))
	for id := range failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		yellow.Fprintf(w, "MCP server %s unavailable: %v\n", id, failed[id])
	}
	return nil
}

func (a *app) export(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: nexushr export <session-id> [file]")
	}
	id := args[0]

	sess, err := a.store.GetSession(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find session %s: %w", id, err)
	}

	path := storage.GenerateExportPath(sess.Title, time.Now())
	if len(args) > 1 {
		path = args[1]
	}
	if err := a.store.ExportToJSON(ctx, id, path); err != nil {
		return err
	}

	color.New(color.FgGreen).Printf("Exported %q (%d messages) to %s\n", sess.Title, sess.MessageCount, path)
	return nil
}

func (a *app) search(ctx context.Context, args []string, w io.Writer) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return errors.New("usage: nexushr search <query>")
	}

	matches, err := a.store.SearchMessages(ctx, query, 0)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Fprintf(w, "No messages match %q\n", query)
		return nil
	}

	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	dim := color.New(color.Faint)

	for _, m := range matches {
		role := cyan
		if m.Role == model.RoleUser {
			role = green
		}
		fmt.Fprintf(w, "%s  %s\n", dim.Sprint(m.Timestamp.Local().Format("2006-01-02 15:04")), m.SessionTitle)
		fmt.Fprintf(w, "  %s %s\n", role.Sprint(m.Role+":"), m.Preview)
		dim.Fprintf(w, "  session %s\n\n", m.SessionID)
	}
	return nil
}
