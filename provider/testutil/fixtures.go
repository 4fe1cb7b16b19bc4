package testutil

import (
	"time"

	"nexushr/model"
)

// TestMessages returns a sample conversation for testing
func TestMessages() []model.Message {
	return []model.Message{
		{
			Role:      model.RoleUser,
			Content:   "Hi, I start on Monday.",
			Timestamp: time.Now(),
		},
		{
			Role:      model.RoleAssistant,
			Content:   "Welcome aboard! How can I help?",
			Timestamp: time.Now(),
		},
		{
			Role:      model.RoleUser,
			Content:   "What is the remote work policy?",
			Timestamp: time.Now(),
		},
	}
}

// SingleUserMessage returns a single user message for simple tests
func SingleUserMessage(content string) []model.Message {
	return []model.Message{
		{
			Role:      model.RoleUser,
			Content:   content,
			Timestamp: time.Now(),
		},
	}
}

// TestTools returns sample tool definitions for testing
func TestTools() []model.ToolDefinition {
	return []model.ToolDefinition{
		{
			Name:        "request_pto_balance",
			Description: "Get the PTO balance for the current employee",
			Parameters: model.ToolParameters{
				Type:       "object",
				Properties: map[string]any{},
				Required:   []string{},
			},
		},
		{
			Name:        "find_policy_document",
			Description: "Search HR policy documents by keyword",
			Parameters: model.ToolParameters{
				Type: "object",
				Properties: map[string]any{
					"policy_name": map[string]any{
						"type":        "string",
						"description": "Keyword to search for",
					},
				},
				Required: []string{"policy_name"},
			},
		},
	}
}

// SystemMessage returns a system message for testing
func SystemMessage(content string) model.Message {
	return model.Message{
		Role:      model.RoleSystem,
		Content:   content,
		Timestamp: time.Now(),
	}
}
