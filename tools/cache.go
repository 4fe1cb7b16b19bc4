package tools

import (
	"context"
	"slices"
	"sync"
	"time"

	"nexushr/model"
)

// Cached memoizes ListDefinitions of a Registry for ttl. Execute passes
// through untouched. Failed discoveries are not cached.
type Cached struct {
	inner Registry
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	defs    []model.ToolDefinition
	fetched time.Time
	valid   bool
}

// NewCached wraps inner; a ttl <= 0 returns inner unchanged.
func NewCached(inner Registry, ttl time.Duration) Registry {
	if ttl <= 0 {
		return inner
	}
	return &Cached{inner: inner, ttl: ttl, now: time.Now}
}

func (c *Cached) ListDefinitions(ctx context.Context) ([]model.ToolDefinition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.now().Sub(c.fetched) < c.ttl {
		return slices.Clone(c.defs), nil
	}

	defs, err := c.inner.ListDefinitions(ctx)
	if err != nil {
		return defs, err
	}
	c.defs = slices.Clone(defs)
	c.fetched = c.now()
	c.valid = true
	return defs, nil
}

func (c *Cached) Execute(ctx context.Context, name string, args map[string]any) model.ToolResult {
	return c.inner.Execute(ctx, name, args)
}

// Invalidate drops the cached definitions.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defs = nil
	c.valid = false
}
