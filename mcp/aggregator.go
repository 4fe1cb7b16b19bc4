package mcp

import (
	"encoding/json"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Separator joins a server id and a tool name. Model APIs only accept
// [a-zA-Z0-9_-] in function names, so a dot will not do.
const Separator = "__"

// QualifiedName namespaces a tool under its server id.
func QualifiedName(serverID, tool string) string {
	return serverID + Separator + tool
}

// ParseToolName splits a qualified name into server id and tool name.
func ParseToolName(qualified string) (serverID, tool string, ok bool) {
	idx := strings.Index(qualified, Separator)
	if idx <= 0 {
		return "", qualified, false
	}
	return qualified[:idx], qualified[idx+len(Separator):], true
}

// flattenContent joins the text items of a tool result with newlines.
// Non-text items are rendered as JSON so nothing is silently dropped.
func flattenContent(content []mcptypes.Content) string {
	parts := make([]string, 0, len(content))
	for _, item := range content {
		switch c := item.(type) {
		case mcptypes.TextContent:
			parts = append(parts, c.Text)
		case *mcptypes.TextContent:
			parts = append(parts, c.Text)
		default:
			raw, err := json.Marshal(item)
			if err != nil {
				continue
			}
			parts = append(parts, string(raw))
		}
	}
	return strings.Join(parts, "\n")
}
