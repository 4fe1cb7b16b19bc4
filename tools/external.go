package tools

import (
	"context"

	"nexushr/model"
)

// ExternalSource is a pluggable tool provider, such as a set of MCP servers.
type ExternalSource interface {
	GetToolDefinitions(ctx context.Context) ([]model.ToolDefinition, error)
	ExecuteTool(ctx context.Context, name string, args map[string]any) (string, error)
}

// External is the catch-all link: it owns every name that reaches it and
// wraps the source's string output as {"content": output}. It re-queries the
// source on every ListDefinitions; wrap the chain with NewCached for caching.
type External struct {
	source ExternalSource
}

func NewExternal(source ExternalSource) *External {
	return &External{source: source}
}

func (e *External) Definitions(ctx context.Context) ([]model.ToolDefinition, error) {
	return e.source.GetToolDefinitions(ctx)
}

func (e *External) Execute(ctx context.Context, name string, args map[string]any) (model.ToolResult, bool, error) {
	out, err := e.source.ExecuteTool(ctx, name, args)
	if err != nil {
		return nil, true, err
	}
	return model.ToolResult{"content": out}, true, nil
}
