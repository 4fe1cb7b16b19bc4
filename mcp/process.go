package mcp

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"nexushr/config"
)

// toolClient is the part of *client.Client the manager relies on.
type toolClient interface {
	Initialize(ctx context.Context, request mcptypes.InitializeRequest) (*mcptypes.InitializeResult, error)
	ListTools(ctx context.Context, request mcptypes.ListToolsRequest) (*mcptypes.ListToolsResult, error)
	CallTool(ctx context.Context, request mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error)
	Close() error
}

// connect opens a client for a configured server. cmd is non-nil for stdio
// servers so a hung server can be killed on shutdown.
func connect(ctx context.Context, srv config.MCPServer) (c *client.Client, cmd *exec.Cmd, err error) {
	switch srv.TransportType() {
	case config.TransportStdio:
		return connectStdio(srv)
	case config.TransportSSE:
		c, err = connectSSE(ctx, srv)
	case config.TransportStreamableHTTP:
		c, err = connectStreamableHTTP(ctx, srv)
	default:
		err = fmt.Errorf("unknown transport type: %s", srv.Transport)
	}
	return c, nil, err
}

func connectStdio(srv config.MCPServer) (*client.Client, *exec.Cmd, error) {
	// inherit PATH and friends, then layer the server's own variables on top
	env := append(os.Environ(), srv.EnvList()...)
	var captured *exec.Cmd

	cmdFunc := func(ctx context.Context, command string, env []string, args []string) (*exec.Cmd, error) {
		cmd := exec.CommandContext(ctx, command, args...)
		cmd.Env = env
		captured = cmd
		return cmd, nil
	}

	c, err := client.NewStdioMCPClientWithOptions(srv.Command, env, srv.Args, transport.WithCommandFunc(cmdFunc))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start %s: %w", srv.Command, err)
	}

	if captured != nil && captured.Process != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[MCP] started '%s' with PID %d", srv.ID, captured.Process.Pid)
	}
	return c, captured, nil
}

func connectSSE(ctx context.Context, srv config.MCPServer) (*client.Client, error) {
	var opts []transport.ClientOption
	if len(srv.Headers) > 0 {
		opts = append(opts, transport.WithHeaders(srv.Headers))
	}

	c, err := client.NewSSEMCPClient(srv.URL, opts...)
	if err != nil {
		return nil, err
	}

	// SSE needs the transport started before Initialize
	if err := c.GetTransport().Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start SSE transport: %w", err)
	}
	return c, nil
}

func connectStreamableHTTP(ctx context.Context, srv config.MCPServer) (*client.Client, error) {
	var opts []transport.StreamableHTTPCOption
	if len(srv.Headers) > 0 {
		opts = append(opts, transport.WithHTTPHeaders(srv.Headers))
	}

	c, err := client.NewStreamableHttpClient(srv.URL, opts...)
	if err != nil {
		return nil, err
	}

	if err := c.GetTransport().Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start HTTP transport: %w", err)
	}
	return c, nil
}

func initialize(ctx context.Context, c toolClient) error {
	_, err := c.Initialize(ctx, mcptypes.InitializeRequest{
		Params: mcptypes.InitializeParams{
			ProtocolVersion: "2025-06-18",
			Capabilities:    mcptypes.ClientCapabilities{},
			ClientInfo: mcptypes.Implementation{
				Name:    "NexusHR",
				Version: "1.0.0",
			},
		},
	})
	return err
}
