package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type ProviderConfig struct {
	Type    string `toml:"type"`
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key,omitempty"`
	Model   string `toml:"model"`
}

type AssistantConfig struct {
	SystemPrompt      string `toml:"system_prompt,omitempty"`
	MaxToolIterations int    `toml:"max_tool_iterations"`
	ToolCacheTTL      int    `toml:"tool_cache_ttl"`
}

type UserConfig struct {
	Provider   ProviderConfig  `toml:"provider"`
	Assistant  AssistantConfig `toml:"assistant"`
	MCPServers []MCPServer     `toml:"mcp_servers"`
}

type Config struct {
	DataDirectory     string
	Provider          string
	BaseURL           string
	APIKey            string
	DefaultModel      string
	SystemPrompt      string
	MaxToolIterations int
	ToolCacheTTL      int
	MCPServers        []MCPServer
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) Model() string {
	return c.DefaultModel
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// DatabasePath is the SQLite file holding sessions and messages.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir(), "nexushr.db")
}

func (c *Config) applyUserConfig(u *UserConfig) {
	if u.Provider.Type != "" {
		c.Provider = u.Provider.Type
	}
	if u.Provider.BaseURL != "" {
		c.BaseURL = u.Provider.BaseURL
	}
	if u.Provider.APIKey != "" {
		c.APIKey = u.Provider.APIKey
	}
	if u.Provider.Model != "" {
		c.DefaultModel = u.Provider.Model
	}
	c.SystemPrompt = u.Assistant.SystemPrompt
	if u.Assistant.MaxToolIterations > 0 {
		c.MaxToolIterations = u.Assistant.MaxToolIterations
	}
	if u.Assistant.ToolCacheTTL >= 0 {
		c.ToolCacheTTL = u.Assistant.ToolCacheTTL
	}
	c.MCPServers = u.MCPServers
}

func (c *Config) applyEnvOverrides() {
	if p := os.Getenv("NEXUSHR_PROVIDER"); p != "" {
		c.Provider = p
	}
	if url := os.Getenv("NEXUSHR_BASE_URL"); url != "" {
		c.BaseURL = url
	}
	if model := os.Getenv("NEXUSHR_MODEL"); model != "" {
		c.DefaultModel = model
	}
	if key := os.Getenv("NEXUSHR_API_KEY"); key != "" {
		c.APIKey = key
	}
	if dataDir := os.Getenv("NEXUSHR_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if n, err := strconv.Atoi(os.Getenv("NEXUSHR_MAX_TOOL_ITERATIONS")); err == nil && n > 0 {
		c.MaxToolIterations = n
	}
}

func CheckDebug() bool {
	debug := os.Getenv("NEXUSHR_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: prompts and tool arguments end up in here
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (NEXUSHR_DEBUG=%s) ===", os.Getenv("NEXUSHR_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// Load resolves the effective configuration: built-in defaults, then
// settings.toml and <data dir>/config.toml, then NEXUSHR_* environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}
	if systemCfg.DataDirectory != "" {
		cfg.DataDirectory = systemCfg.DataDirectory
	}
	if dataDir := os.Getenv("NEXUSHR_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.applyUserConfig(userCfg)
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks fields that would otherwise fail much later at first use.
func (c *Config) Validate() error {
	switch c.Provider {
	case "ollama", "openai", "openrouter", "anthropic":
	default:
		return fmt.Errorf("unknown provider %q (want ollama, openai, openrouter or anthropic)", c.Provider)
	}
	seen := make(map[string]bool, len(c.MCPServers))
	for _, s := range c.MCPServers {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate mcp server id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}
