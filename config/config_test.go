package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDirs(t *testing.T) (configDir, dataDir string) {
	t.Helper()
	root := t.TempDir()
	configDir = filepath.Join(root, "config")
	dataDir = filepath.Join(root, "data")
	t.Setenv("NEXUSHR_CONFIG_DIR", configDir)
	t.Setenv("NEXUSHR_DATA_DIR", dataDir)
	for _, k := range []string{"NEXUSHR_PROVIDER", "NEXUSHR_BASE_URL", "NEXUSHR_MODEL", "NEXUSHR_API_KEY", "NEXUSHR_MAX_TOOL_ITERATIONS"} {
		t.Setenv(k, "")
	}
	return configDir, dataDir
}

func TestLoadWritesDefaults(t *testing.T) {
	configDir, dataDir := setupDirs(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, DefaultModelName, cfg.Model())
	assert.Equal(t, DefaultMaxToolIterations, cfg.MaxToolIterations)
	assert.Empty(t, cfg.MCPServers)
	assert.Equal(t, filepath.Join(dataDir, "nexushr.db"), cfg.DatabasePath())

	assert.FileExists(t, filepath.Join(configDir, "settings.toml"))
	assert.FileExists(t, filepath.Join(dataDir, "config.toml"))

	info, err := os.Stat(dataDir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestLoadUserConfigAndEnvOverrides(t *testing.T) {
	_, dataDir := setupDirs(t)
	require.NoError(t, os.MkdirAll(dataDir, 0700))

	userCfg := `
[provider]
type = "ollama"
base_url = "http://gpu-box:11434"
model = "qwen2.5"

[assistant]
system_prompt = "Be brief."
max_tool_iterations = 3

[[mcp_servers]]
id = "files"
command = "mcp-files"
args = ["--root", "/srv"]

[[mcp_servers]]
id = "directory"
transport = "streamable-http"
url = "http://localhost:8080/mcp"
disabled = true
`
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "config.toml"), []byte(userCfg), 0600))
	t.Setenv("NEXUSHR_MODEL", "llama3.1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.Provider)
	assert.Equal(t, "http://gpu-box:11434", cfg.BaseURL)
	assert.Equal(t, "llama3.1", cfg.Model(), "environment wins over config.toml")
	assert.Equal(t, "Be brief.", cfg.SystemPrompt)
	assert.Equal(t, 3, cfg.MaxToolIterations)

	require.Len(t, cfg.MCPServers, 2)
	assert.Equal(t, TransportStdio, cfg.MCPServers[0].TransportType())
	assert.Equal(t, []string{"--root", "/srv"}, cfg.MCPServers[0].Args)

	enabled := cfg.EnabledMCPServers()
	require.Len(t, enabled, 1)
	assert.Equal(t, "files", enabled[0].ID)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  Config{Provider: "anthropic"},
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "bard"},
			wantErr: "unknown provider",
		},
		{
			name: "stdio without command",
			cfg: Config{Provider: "openai", MCPServers: []MCPServer{
				{ID: "x"},
			}},
			wantErr: "requires a command",
		},
		{
			name: "sse without url",
			cfg: Config{Provider: "openai", MCPServers: []MCPServer{
				{ID: "x", Transport: TransportSSE},
			}},
			wantErr: "requires a url",
		},
		{
			name: "separator in id",
			cfg: Config{Provider: "openai", MCPServers: []MCPServer{
				{ID: "a__b", Command: "x"},
			}},
			wantErr: "must not contain",
		},
		{
			name: "duplicate ids",
			cfg: Config{Provider: "openai", MCPServers: []MCPServer{
				{ID: "a", Command: "x"},
				{ID: "a", Command: "y"},
			}},
			wantErr: "duplicate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/hr")
	t.Setenv("NEXUSHR_TEST_DIR", "/srv/nexus")

	assert.Equal(t, "/home/hr/data", ExpandPath("~/data"))
	assert.Equal(t, "/srv/nexus/db", ExpandPath("$NEXUSHR_TEST_DIR/db"))
	assert.Equal(t, "", ExpandPath(""))
}

func TestMCPServerEnvList(t *testing.T) {
	s := MCPServer{Env: map[string]string{"TOKEN": "abc"}}
	assert.Equal(t, []string{"TOKEN=abc"}, s.EnvList())
}

func TestLoadRejectsMalformedUserConfig(t *testing.T) {
	_, dataDir := setupDirs(t)
	require.NoError(t, os.MkdirAll(dataDir, 0700))
	path := filepath.Join(dataDir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[provider\ntype = "), 0600))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)

	cfg, err := LoadUserConfig(filepath.Join(t.TempDir(), "fresh"))
	require.NoError(t, err)
	assert.Equal(t, DefaultUserConfig(), cfg)
}
