package provider

import (
	"encoding/json"
	"strings"

	"nexushr/model"
)

// leakedCall is the shape models emit when they write a tool call into their
// text instead of using the API's tool channel.
type leakedCall struct {
	Name       string         `json:"name"`
	Arguments  map[string]any `json:"arguments"`
	Parameters map[string]any `json:"parameters"`
}

// ParseLeakedJSONToolCalls extracts tool calls written as JSON objects into the
// response text. Only objects naming one of the offered tools are returned.
func ParseLeakedJSONToolCalls(content string, tools []model.ToolDefinition) []model.ToolCall {
	if len(tools) == 0 || !strings.Contains(content, "{") {
		return nil
	}

	offered := make(map[string]bool, len(tools))
	for _, t := range tools {
		offered[t.Name] = true
	}

	var calls []model.ToolCall
	for i := 0; i < len(content); i++ {
		if content[i] != '{' {
			continue
		}

		dec := json.NewDecoder(strings.NewReader(content[i:]))
		var lc leakedCall
		if err := dec.Decode(&lc); err != nil || !offered[lc.Name] {
			continue
		}

		args := lc.Arguments
		if args == nil {
			args = lc.Parameters
		}
		if args == nil {
			args = map[string]any{}
		}
		calls = append(calls, model.ToolCall{Name: lc.Name, Arguments: args})

		// Skip past the decoded object
		i += int(dec.InputOffset()) - 1
	}

	return calls
}
