// Package tools declares the invocable tools and executes them by name.
//
// A Chain composes Providers: the static built-in set first, then the external
// delegate. Definitions are concatenated in chain order with no
// de-duplication; execution asks each link in turn and the first one that
// owns the name runs it. Every outcome is normalized into a model.ToolResult,
// failures included, so a failing tool never aborts a turn.
package tools

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"nexushr/config"
	"nexushr/model"
)

// Registry is what the chat service needs from the tool layer.
type Registry interface {
	ListDefinitions(ctx context.Context) ([]model.ToolDefinition, error)
	Execute(ctx context.Context, name string, args map[string]any) model.ToolResult
}

// Provider is one link of the chain.
type Provider interface {
	Definitions(ctx context.Context) ([]model.ToolDefinition, error)

	// Execute runs the named tool. owned is false when the provider does
	// not know the name and the chain should try the next link.
	Execute(ctx context.Context, name string, args map[string]any) (result model.ToolResult, owned bool, err error)
}

// Chain is the merged registry.
type Chain struct {
	links []Provider
}

func NewChain(links ...Provider) *Chain {
	return &Chain{links: links}
}

// ListDefinitions returns every link's definitions in chain order. A link
// that fails discovery is skipped; its error is returned alongside whatever
// the other links reported.
func (c *Chain) ListDefinitions(ctx context.Context) ([]model.ToolDefinition, error) {
	var (
		defs []model.ToolDefinition
		errs []error
	)
	for _, link := range c.links {
		d, err := link.Definitions(ctx)
		if err != nil {
			errs = append(errs, err)
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Tools] tool discovery failed: %v", err)
			}
			continue
		}
		defs = append(defs, d...)
	}
	return defs, errors.Join(errs...)
}

// Execute runs a tool and never fails: errors and panics come back as
// {"error": message}.
func (c *Chain) Execute(ctx context.Context, name string, args map[string]any) (result model.ToolResult) {
	defer func() {
		if r := recover(); r != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Tools] panic in %s: %v\n%s", name, r, debug.Stack())
			}
			result = model.ErrorResult(fmt.Sprintf("tool %s panicked: %v", name, r))
		}
	}()

	if args == nil {
		args = map[string]any{}
	}

	for _, link := range c.links {
		res, owned, err := link.Execute(ctx, name, args)
		if !owned {
			continue
		}
		if err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Tools] %s failed: %v", name, err)
			}
			return model.ErrorResult(err.Error())
		}
		if res == nil {
			res = model.ToolResult{}
		}
		return res
	}
	return model.ErrorResult(fmt.Sprintf("%v: %s", ErrToolNotFound, name))
}
