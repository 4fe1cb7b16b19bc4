package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nexushr/chat"
	"nexushr/config"
	"nexushr/mcp"
	"nexushr/model"
	"nexushr/provider"
	"nexushr/storage"
	"nexushr/tools"
	"nexushr/ui"
)

const (
	Version = "v0.1.0"
	License = "Apache-2.0"

	shutdownTimeout = 5 * time.Second
)

const usage = `NexusHR - HR assistant for the terminal

Usage:
  nexushr                          Start the chat interface
  nexushr tools [--json]           List the tools the assistant can call
  nexushr export <session-id> [file]
                                   Write a session and its messages as JSON
  nexushr search <query>           Find messages across all sessions
  nexushr version                  Print the version
`

// app holds the pieces every command shares.
type app struct {
	cfg      *config.Config
	store    *storage.Store
	mcp      *mcp.Manager
	registry tools.Registry
}

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	case "version", "--version":
		fmt.Printf("nexushr %s (%s)\n", Version, License)
		return
	case "", "tools", "export", "search":
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	config.InitDebugLog(cfg.DataDir())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, cmd != "export" && cmd != "search")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch cmd {
	case "tools":
		err = a.listTools(ctx, os.Args[2:], os.Stdout)
	case "export":
		err = a.export(ctx, os.Args[2:])
	case "search":
		err = a.search(ctx, os.Args[2:], os.Stdout)
	default:
		err = a.runChat(ctx)
	}

	a.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newApp opens storage and, when withTools is set, starts the configured MCP
// servers and builds the merged tool registry.
func newApp(ctx context.Context, cfg *config.Config, withTools bool) (*app, error) {
	store, err := storage.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open session storage: %w", err)
	}
	a := &app{cfg: cfg, store: store}
	if !withTools {
		return a, nil
	}

	a.mcp = mcp.NewManager()
	for id, err := range a.mcp.StartAll(ctx, cfg.EnabledMCPServers()) {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Main] mcp server %s failed to start: %v", id, err)
		}
	}

	var registry tools.Registry = tools.NewChain(tools.NewBuiltins(), tools.NewExternal(a.mcp))
	a.registry = tools.NewCached(registry, time.Duration(cfg.ToolCacheTTL)*time.Second)
	return a, nil
}

func (a *app) close() {
	if a.mcp != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := a.mcp.Shutdown(ctx); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[Main] mcp shutdown: %v", err)
		}
		cancel()
	}
	if err := a.store.Close(); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Main] closing storage: %v", err)
	}
}

func (a *app) runChat(ctx context.Context) error {
	prov, err := provider.NewProvider(provider.Config{
		Type:    provider.MapProviderIDToType(a.cfg.Provider),
		BaseURL: a.cfg.BaseURL,
		Model:   a.cfg.Model(),
		APIKey:  a.cfg.APIKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := prov.Ping(pingCtx); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Main] provider %s unreachable: %v", a.cfg.Provider, err)
	}
	cancel()

	service := chat.NewService(a.store, prov, a.registry, chat.Options{
		SystemPrompt:      a.cfg.SystemPrompt,
		MaxToolIterations: a.cfg.MaxToolIterations,
	})
	orch := model.NewOrchestrator(service, a.cfg.Model())

	lastSession, err := a.store.LoadCurrentSessionID(ctx)
	if err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Main] no previous session: %v", err)
	}

	if err := ui.Run(ctx, orch, ui.Options{SwitchTo: lastSession}); err != nil {
		return fmt.Errorf("failed to run nexushr: %w", err)
	}
	return nil
}
