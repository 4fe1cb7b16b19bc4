package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LoadSystemConfig reads settings.toml from the config dir, seeding it from
// the commented template on first run.
func LoadSystemConfig() (*SystemConfig, error) {
	if err := EnsureDir(GetConfigDir()); err != nil {
		return nil, fmt.Errorf("failed to create nexushr config directory: %w", err)
	}
	cfg := DefaultSystemConfig()
	if err := decodeOrSeed(GetSettingsFilePath(), GenerateSystemConfigTemplate(), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadUserConfig reads <dataDir>/config.toml, which holds the provider,
// assistant and MCP server settings.
func LoadUserConfig(dataDir string) (*UserConfig, error) {
	if err := EnsureDir(dataDir); err != nil {
		return nil, fmt.Errorf("failed to create nexushr data directory: %w", err)
	}
	cfg := DefaultUserConfig()
	if err := decodeOrSeed(filepath.Join(dataDir, "config.toml"), GenerateUserConfigTemplate(), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeOrSeed decodes path into v. A missing file is written from template
// and v keeps its defaults.
func decodeOrSeed(path, template string, v any) error {
	if !FileExists(path) {
		// 0600: the user config may carry an API key
		if err := os.WriteFile(path, []byte(template), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
		}
		return nil
	}

	md, err := toml.DecodeFile(path, v)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 && DebugLog != nil {
		DebugLog.Printf("[Config] %s: ignoring unknown keys %v", filepath.Base(path), undecoded)
	}
	return nil
}
