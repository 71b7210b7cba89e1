// Package observability provides hooks for metrics, tracing, and logging.
//
// The core packages stay free of observability framework dependencies:
// they emit events through hook interfaces with no-op defaults, and the
// application registers real implementations at startup.
//
// Register hooks once in main before any pipeline work:
//
//	observability.SetSynthesisHooks(&myHooks{})
//	observability.SetCacheHooks(&myCacheHooks{})
//
// Libraries emit events without knowing the backend:
//
//	observability.Synthesis().OnSynthesisStart(ctx, roundID, nodeCount)
package observability

import (
	"context"
	"sync"
	"time"
)

// SynthesisHooks receives events from the synthesis pipeline.
type SynthesisHooks interface {
	// OnSynthesisStart fires before layout and emission begin.
	OnSynthesisStart(ctx context.Context, roundID, nodeCount, edgeCount int)

	// OnSynthesisComplete fires after a run, successful or not.
	OnSynthesisComplete(ctx context.Context, roundID, elementCount int, duration time.Duration, err error)

	// OnEdgeDropped fires once per edge skipped for a missing endpoint.
	OnEdgeDropped(ctx context.Context, source, target string)

	// OnRenderComplete fires after an export render (dot, svg).
	OnRenderComplete(ctx context.Context, format string, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks receives events from the HTTP API.
type ServerHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// NoopSynthesisHooks is a no-op implementation of SynthesisHooks.
type NoopSynthesisHooks struct{}

func (NoopSynthesisHooks) OnSynthesisStart(context.Context, int, int, int)                 {}
func (NoopSynthesisHooks) OnSynthesisComplete(context.Context, int, int, time.Duration, error) {
}
func (NoopSynthesisHooks) OnEdgeDropped(context.Context, string, string)                  {}
func (NoopSynthesisHooks) OnRenderComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                            {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration)       {}

var (
	synthesisHooks SynthesisHooks = NoopSynthesisHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	serverHooks    ServerHooks    = NoopServerHooks{}
	hooksMu        sync.RWMutex
)

// SetSynthesisHooks registers custom synthesis hooks. Call once at
// application startup before any synthesis runs.
func SetSynthesisHooks(h SynthesisHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		synthesisHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetServerHooks registers custom server hooks.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Synthesis returns the registered synthesis hooks.
func Synthesis() SynthesisHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return synthesisHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores all hooks to their no-op defaults. Primarily for tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	synthesisHooks = NoopSynthesisHooks{}
	cacheHooks = NoopCacheHooks{}
	serverHooks = NoopServerHooks{}
}
