package model

// ToolDefinition declares an invocable tool.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  ToolParameters `json:"parameters"`
}

// ToolParameters is the JSON-schema subset tools declare their arguments with.
type ToolParameters struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Required   []string       `json:"required"`
}

// Schema returns the parameters as a plain JSON-schema document.
func (p ToolParameters) Schema() map[string]any {
	props := p.Properties
	if props == nil {
		props = map[string]any{}
	}
	required := p.Required
	if required == nil {
		required = []string{}
	}
	typ := p.Type
	if typ == "" {
		typ = "object"
	}
	return map[string]any{
		"type":       typ,
		"properties": props,
		"required":   required,
	}
}

// FunctionTool is the envelope tool definitions are exposed upstream in:
// {"type": "function", "function": {name, description, parameters}}.
type FunctionTool struct {
	Type     string         `json:"type"`
	Function ToolDefinition `json:"function"`
}

// AsFunctionTools wraps definitions in the upstream envelope, preserving order.
func AsFunctionTools(defs []ToolDefinition) []FunctionTool {
	out := make([]FunctionTool, len(defs))
	for i, d := range defs {
		out[i] = FunctionTool{Type: "function", Function: d}
	}
	return out
}

// ToolNames lists definition names in order.
func ToolNames(defs []ToolDefinition) []string {
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}
