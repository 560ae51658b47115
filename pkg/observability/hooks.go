// Package observability provides hooks for metrics, tracing, and logging.
//
// The layout engine, the scene loader and the HTTP service report what they
// do through small hook interfaces instead of depending on a metrics backend.
// Consumers register implementations at startup; until then every hook is a
// no-op.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the engine never imports
// a backend and there are no import cycles.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEngineHooks(&myEngineHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Engine().OnUpdateStart(ctx, frameID, constraints)
//	// ... run the pass ...
//	observability.Engine().OnUpdateComplete(ctx, frameID, writes, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from layout engine passes.
type EngineHooks interface {
	// Update pass events
	OnUpdateStart(ctx context.Context, frame string, constraints int)
	OnUpdateComplete(ctx context.Context, frame string, writes int, duration time.Duration, err error)

	// OnSchedule records a dependency graph rebuild.
	OnSchedule(ctx context.Context, frame string, nodes, edges int, cyclic bool)

	// OnPrune records constraints dropped for stale references.
	OnPrune(ctx context.Context, frame string, pruned int)

	// OnDiagnostic records a non-fatal condition such as a dependency cycle.
	OnDiagnostic(ctx context.Context, frame string, code, message string)
}

// =============================================================================
// Scene Hooks
// =============================================================================

// SceneHooks receives events from scene loading and rendering.
type SceneHooks interface {
	// OnLoad records a scene decode.
	OnLoad(ctx context.Context, source string, elements, constraints int, duration time.Duration, err error)

	// OnRender records a sink producing output.
	OnRender(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the layout service.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnUpdateStart(context.Context, string, int)                          {}
func (NoopEngineHooks) OnUpdateComplete(context.Context, string, int, time.Duration, error) {}
func (NoopEngineHooks) OnSchedule(context.Context, string, int, int, bool)                  {}
func (NoopEngineHooks) OnPrune(context.Context, string, int)                                {}
func (NoopEngineHooks) OnDiagnostic(context.Context, string, string, string)                {}

// NoopSceneHooks is a no-op implementation of SceneHooks.
type NoopSceneHooks struct{}

func (NoopSceneHooks) OnLoad(context.Context, string, int, int, time.Duration, error) {}
func (NoopSceneHooks) OnRender(context.Context, string, int, time.Duration, error)    {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	engineHooks EngineHooks = NoopEngineHooks{}
	sceneHooks  SceneHooks  = NoopSceneHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup before any layout runs.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetSceneHooks registers custom scene hooks.
func SetSceneHooks(h SceneHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sceneHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before the service starts.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Scene returns the registered scene hooks.
func Scene() SceneHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sceneHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	engineHooks = NoopEngineHooks{}
	sceneHooks = NoopSceneHooks{}
	httpHooks = NoopHTTPHooks{}
}
