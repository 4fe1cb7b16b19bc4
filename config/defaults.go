package config

const (
	DefaultModelName         = "google-ai-studio/gemini-2.5-flash"
	DefaultMaxToolIterations = 5
)

func defaultConfig() *Config {
	return &Config{
		DataDirectory:     GetDefaultDataDir(),
		Provider:          "openai",
		DefaultModel:      DefaultModelName,
		MaxToolIterations: DefaultMaxToolIterations,
	}
}

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/nexushr",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Provider: ProviderConfig{
			Type:  "openai",
			Model: DefaultModelName,
		},
		Assistant: AssistantConfig{
			MaxToolIterations: DefaultMaxToolIterations,
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# NexusHR System Configuration
# Location: ~/.config/nexushr/settings.toml
# This file uses TOML format: https://toml.io

# Directory where sessions, user config and debug.log are stored
data_directory = "~/.local/share/nexushr"
`
}

func GenerateUserConfigTemplate() string {
	return `# NexusHR User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[provider]
# One of: ollama, openai, openrouter, anthropic
type = "openai"

# Leave empty for the provider default. Any OpenAI-compatible gateway works here.
base_url = ""

# Prefer NEXUSHR_API_KEY over storing the key in this file
# api_key = ""

model = "google-ai-studio/gemini-2.5-flash"

[assistant]
# system_prompt = "You are NexusHR, a helpful HR assistant."

# Model round-trips allowed per turn while the model keeps calling tools
max_tool_iterations = 5

# Seconds to cache the merged tool list (0 re-queries MCP servers every turn)
tool_cache_ttl = 0

# External tool servers (MCP). Tools appear as <id>__<tool>.
#
# [[mcp_servers]]
# id = "filesystem"
# transport = "stdio"
# command = "npx"
# args = ["-y", "@modelcontextprotocol/server-filesystem", "/tmp"]
#
# [[mcp_servers]]
# id = "directory"
# transport = "streamable-http"
# url = "http://localhost:8080/mcp"
`
}
