package mcp

import (
	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"nexushr/model"
)

// ToolFromMCP maps an MCP tool onto the registry's definition shape under
// the given name.
func ToolFromMCP(name string, tool mcptypes.Tool) model.ToolDefinition {
	params := model.ToolParameters{
		Type:       tool.InputSchema.Type,
		Properties: tool.InputSchema.Properties,
		Required:   tool.InputSchema.Required,
	}
	if params.Type == "" {
		params.Type = "object"
	}
	if params.Properties == nil {
		params.Properties = map[string]any{}
	}
	if params.Required == nil {
		params.Required = []string{}
	}

	return model.ToolDefinition{
		Name:        name,
		Description: tool.Description,
		Parameters:  params,
	}
}
