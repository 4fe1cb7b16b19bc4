package config

import (
	"fmt"
	"strings"
)

const (
	TransportStdio          = "stdio"
	TransportSSE            = "sse"
	TransportStreamableHTTP = "streamable-http"
)

// MCPServer describes one external tool server.
type MCPServer struct {
	ID        string            `toml:"id"`
	Transport string            `toml:"transport"`
	Command   string            `toml:"command,omitempty"`
	Args      []string          `toml:"args,omitempty"`
	Env       map[string]string `toml:"env,omitempty"`
	URL       string            `toml:"url,omitempty"`
	Headers   map[string]string `toml:"headers,omitempty"`
	Disabled  bool              `toml:"disabled,omitempty"`
}

// EnvList returns Env as KEY=VALUE pairs, the form exec.Cmd expects.
func (s MCPServer) EnvList() []string {
	env := make([]string, 0, len(s.Env))
	for k, v := range s.Env {
		env = append(env, k+"="+v)
	}
	return env
}

func (s MCPServer) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("mcp server is missing an id")
	}
	if strings.Contains(s.ID, "__") {
		return fmt.Errorf("mcp server id %q must not contain \"__\"", s.ID)
	}
	switch s.transport() {
	case TransportStdio:
		if s.Command == "" {
			return fmt.Errorf("mcp server %q: stdio transport requires a command", s.ID)
		}
	case TransportSSE, TransportStreamableHTTP:
		if s.URL == "" {
			return fmt.Errorf("mcp server %q: %s transport requires a url", s.ID, s.Transport)
		}
	default:
		return fmt.Errorf("mcp server %q: unknown transport %q", s.ID, s.Transport)
	}
	return nil
}

// TransportType returns the configured transport, defaulting to stdio.
func (s MCPServer) TransportType() string {
	return s.transport()
}

func (s MCPServer) transport() string {
	if s.Transport == "" {
		return TransportStdio
	}
	return s.Transport
}

// EnabledMCPServers filters out servers marked disabled.
func (c *Config) EnabledMCPServers() []MCPServer {
	var out []MCPServer
	for _, s := range c.MCPServers {
		if !s.Disabled {
			out = append(out, s)
		}
	}
	return out
}
