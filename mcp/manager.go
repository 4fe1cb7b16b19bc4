// Package mcp is the external tool provider: it connects to configured MCP
// servers, lists their tools under "<server>__<tool>" names and runs them.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"nexushr/config"
	"nexushr/model"
)

var ErrServerNotFound = errors.New("mcp server not found")

type server struct {
	id     string
	client toolClient
	cmd    *exec.Cmd // nil for remote servers
}

// Manager owns the connected servers.
type Manager struct {
	mu      sync.RWMutex
	servers map[string]*server
	order   []string
	failed  map[string]error
}

func NewManager() *Manager {
	return &Manager{
		servers: make(map[string]*server),
		failed:  make(map[string]error),
	}
}

// StartAll connects every server. Servers that fail are recorded and skipped
// so one broken server does not take the others down.
func (m *Manager) StartAll(ctx context.Context, servers []config.MCPServer) map[string]error {
	failures := make(map[string]error)
	for _, srv := range servers {
		if err := m.Start(ctx, srv); err != nil {
			failures[srv.ID] = err
			if config.DebugLog != nil {
				config.DebugLog.Printf("[MCP] failed to start '%s': %v", srv.ID, err)
			}
		}
	}
	return failures
}

// Start connects and initializes one server.
func (m *Manager) Start(ctx context.Context, srv config.MCPServer) error {
	if err := srv.Validate(); err != nil {
		return err
	}

	m.mu.RLock()
	_, running := m.servers[srv.ID]
	m.mu.RUnlock()
	if running {
		return fmt.Errorf("mcp server %s already running", srv.ID)
	}

	c, cmd, err := connect(ctx, srv)
	if err != nil {
		m.recordFailure(srv.ID, err)
		return fmt.Errorf("failed to connect to mcp server %s: %w", srv.ID, err)
	}
	if err := m.attach(ctx, srv.ID, c, cmd); err != nil {
		_ = c.Close()
		m.recordFailure(srv.ID, err)
		return err
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[MCP] connected '%s' (%s)", srv.ID, srv.TransportType())
	}
	return nil
}

// attach initializes an open client and registers it under id.
func (m *Manager) attach(ctx context.Context, id string, c toolClient, cmd *exec.Cmd) error {
	if err := initialize(ctx, c); err != nil {
		return fmt.Errorf("failed to initialize mcp server %s: %w", id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.servers[id] = &server{id: id, client: c, cmd: cmd}
	m.order = append(m.order, id)
	delete(m.failed, id)
	return nil
}

func (m *Manager) recordFailure(id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed[id] = err
}

// FailedServers returns a copy of the startup failures by server id.
func (m *Manager) FailedServers() map[string]error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	failures := make(map[string]error, len(m.failed))
	for k, v := range m.failed {
		failures[k] = v
	}
	return failures
}

// ServerIDs lists connected servers in start order.
func (m *Manager) ServerIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}

// GetToolDefinitions asks every connected server for its current tools.
// Servers are queried in start order and tools keep the server's order.
func (m *Manager) GetToolDefinitions(ctx context.Context) ([]model.ToolDefinition, error) {
	m.mu.RLock()
	servers := make([]*server, 0, len(m.order))
	for _, id := range m.order {
		servers = append(servers, m.servers[id])
	}
	m.mu.RUnlock()

	var (
		defs []model.ToolDefinition
		errs []error
	)
	for _, s := range servers {
		res, err := s.client.ListTools(ctx, mcptypes.ListToolsRequest{})
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to list tools for %s: %w", s.id, err))
			continue
		}
		for _, tool := range res.Tools {
			defs = append(defs, ToolFromMCP(QualifiedName(s.id, tool.Name), tool))
		}
	}
	return defs, errors.Join(errs...)
}

// ExecuteTool runs a qualified tool and returns its text output. A result
// flagged isError comes back as an error carrying that text.
func (m *Manager) ExecuteTool(ctx context.Context, name string, args map[string]any) (string, error) {
	serverID, tool, ok := ParseToolName(name)
	if !ok {
		return "", fmt.Errorf("%w: no server prefix in tool name %q", ErrServerNotFound, name)
	}

	m.mu.RLock()
	s, exists := m.servers[serverID]
	m.mu.RUnlock()
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrServerNotFound, serverID)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[MCP] calling %s on '%s'", tool, serverID)
	}

	res, err := s.client.CallTool(ctx, mcptypes.CallToolRequest{
		Params: mcptypes.CallToolParams{
			Name:      tool,
			Arguments: args,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call %s: %w", name, err)
	}

	out := flattenContent(res.Content)
	if res.IsError {
		if out == "" {
			out = "tool reported an error"
		}
		return "", errors.New(out)
	}
	return out, nil
}

// Stop disconnects one server, killing its process if Close hangs.
func (m *Manager) Stop(ctx context.Context, id string) error {
	m.mu.Lock()
	s, exists := m.servers[id]
	if !exists {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrServerNotFound, id)
	}
	delete(m.servers, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	closeCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	closeDone := make(chan error, 1)
	go func() {
		closeDone <- s.client.Close()
	}()

	closed := false
	select {
	case err := <-closeDone:
		if err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[MCP] error closing '%s': %v", id, err)
		}
		closed = err == nil
	case <-closeCtx.Done():
		if config.DebugLog != nil {
			config.DebugLog.Printf("[MCP] close timeout for '%s'", id)
		}
	}

	if !closed && s.cmd != nil && s.cmd.Process != nil {
		if err := s.cmd.Process.Kill(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[MCP] error killing '%s': %v", id, err)
		}
	}
	return nil
}

// Shutdown stops every server in parallel.
func (m *Manager) Shutdown(ctx context.Context) error {
	ids := m.ServerIDs()

	var wg sync.WaitGroup
	errCh := make(chan error, len(ids))
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := m.Stop(ctx, id); err != nil {
				errCh <- err
			}
		}(id)
	}
	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
