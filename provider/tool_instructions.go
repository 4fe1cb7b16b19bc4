package provider

import (
	"strings"

	"nexushr/model"
)

// buildToolInstructions creates the brief tool-use preamble prepended to
// requests for hosted models.
func buildToolInstructions(tools []model.ToolDefinition) string {
	return strings.Join([]string{
		"TOOLS: " + strings.Join(model.ToolNames(tools), ", "),
		"",
		"When the user asks for something a tool can answer:",
		"1. Determine which tool is needed",
		"2. Check if you have all required parameters",
		"3. If yes: Call the tool IMMEDIATELY without explanation",
		"4. If no: Ask for the missing parameter ONLY",
		"",
		"DO NOT:",
		"- List available tools",
		"- Invent balances, policies or dates a tool could look up",
		"",
		"Example:",
		"User: 'How much PTO do I have left?'",
		"You: [call request_pto_balance()]",
		"NOT: 'I can check PTO balances. Would you like me to?'",
	}, "\n")
}

// shouldSkipToolInstructions checks if a model breaks with explicit tool instructions.
// Some models (like qwen) understand tools natively and get confused by explicit
// prompting, leaking tool calls into their text.
func shouldSkipToolInstructions(modelName string) bool {
	modelLower := strings.ToLower(modelName)

	skipInstructions := []string{
		"qwen",
	}

	for _, prefix := range skipInstructions {
		if strings.Contains(modelLower, prefix) {
			return true
		}
	}

	return false
}
