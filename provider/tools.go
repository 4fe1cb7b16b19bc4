package provider

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"

	"nexushr/model"
)

// ConvertToolsToOllama converts tool definitions to Ollama API tool format
func ConvertToolsToOllama(defs []model.ToolDefinition) []api.Tool {
	if len(defs) == 0 {
		return nil
	}

	ollamaTools := make([]api.Tool, 0, len(defs))
	for _, def := range defs {
		ollamaTools = append(ollamaTools, api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  convertParametersToOllama(def.Parameters),
			},
		})
	}

	return ollamaTools
}

func convertParametersToOllama(params model.ToolParameters) api.ToolFunctionParameters {
	schema := params.Schema()
	out := api.ToolFunctionParameters{
		Type:       schema["type"].(string),
		Required:   schema["required"].([]string),
		Properties: make(map[string]api.ToolProperty, len(params.Properties)),
	}

	for propName, propValue := range params.Properties {
		out.Properties[propName] = convertPropertyValue(propValue)
	}

	return out
}

// convertPropertyValue converts a JSON-schema property to an Ollama ToolProperty
func convertPropertyValue(propValue any) api.ToolProperty {
	toolProp := api.ToolProperty{}

	propMap, ok := propValue.(map[string]any)
	if !ok {
		// Typed schema values (e.g. from reflection) round-trip through JSON
		bytes, err := json.Marshal(propValue)
		if err != nil {
			return toolProp
		}
		var m map[string]any
		if err := json.Unmarshal(bytes, &m); err != nil {
			return toolProp
		}
		propMap = m
	}

	// type can be a string or a list of strings
	if typeVal, ok := propMap["type"]; ok {
		switch t := typeVal.(type) {
		case string:
			toolProp.Type = api.PropertyType{t}
		case []string:
			toolProp.Type = api.PropertyType(t)
		case []any:
			types := make([]string, 0, len(t))
			for _, v := range t {
				if s, ok := v.(string); ok {
					types = append(types, s)
				}
			}
			toolProp.Type = api.PropertyType(types)
		}
	}

	if desc, ok := propMap["description"].(string); ok {
		toolProp.Description = desc
	}

	if enumVal, ok := propMap["enum"]; ok {
		if enumSlice, ok := enumVal.([]any); ok {
			toolProp.Enum = enumSlice
		}
	}

	if items, ok := propMap["items"]; ok {
		toolProp.Items = items
	}

	if anyOfVal, ok := propMap["anyOf"]; ok {
		if anyOfSlice, ok := anyOfVal.([]any); ok {
			anyOfProps := make([]api.ToolProperty, 0, len(anyOfSlice))
			for _, item := range anyOfSlice {
				anyOfProps = append(anyOfProps, convertPropertyValue(item))
			}
			toolProp.AnyOf = anyOfProps
		}
	}

	return toolProp
}

// ConvertToolsToOpenAI converts tool definitions to the OpenAI chat completions
// format, {"type": "function", "function": {name, description, parameters}}.
// OpenRouter and other compatible gateways share it.
func ConvertToolsToOpenAI(defs []model.ToolDefinition) []openai.ChatCompletionToolUnionParam {
	if len(defs) == 0 {
		return nil
	}

	result := make([]openai.ChatCompletionToolUnionParam, len(defs))
	for i, def := range defs {
		result[i] = openai.ChatCompletionFunctionTool(
			openai.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters:  openai.FunctionParameters(def.Parameters.Schema()),
			},
		)
	}

	return result
}

// ConvertToolsToAnthropic converts tool definitions to Anthropic tool params.
func ConvertToolsToAnthropic(defs []model.ToolDefinition) []anthropic.ToolUnionParam {
	if len(defs) == 0 {
		return nil
	}

	result := make([]anthropic.ToolUnionParam, len(defs))
	for i, def := range defs {
		// Type defaults to "object" when omitted
		inputSchema := anthropic.ToolInputSchemaParam{
			Properties: def.Parameters.Schema()["properties"],
		}
		if len(def.Parameters.Required) > 0 {
			inputSchema.Required = def.Parameters.Required
		}

		result[i] = anthropic.ToolUnionParamOfTool(inputSchema, def.Name)
		if def.Description != "" {
			result[i].OfTool.Description = anthropic.String(def.Description)
		}
	}

	return result
}
