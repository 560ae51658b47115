package engine

import (
	"maps"
	"slices"
	"sync"
)

// Registry maps frame identities to engines. Each frame gets exactly one
// engine, created on first use and torn down explicitly when the frame goes
// away. The registry itself is safe for concurrent use; the engines it hands
// out are not.
type Registry struct {
	mu      sync.Mutex
	opts    Options
	engines map[string]*Engine
}

// NewRegistry creates an empty registry. Engines it creates use opts.
func NewRegistry(opts Options) *Registry {
	return &Registry{opts: opts, engines: make(map[string]*Engine)}
}

// For returns the engine of frame, creating it with r on first use.
// Closed engines are replaced.
func (r *Registry) For(frame Frame, rend Renderer) *Engine {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := frame.FrameID()
	if e, ok := r.engines[id]; ok && !e.Closed() {
		return e
	}
	opts := r.opts
	if opts.Properties != nil {
		opts.Properties = opts.Properties.Clone()
	}
	e := New(frame, rend, opts)
	r.engines[id] = e
	return e
}

// Get returns the engine registered for a frame ID.
func (r *Registry) Get(id string) (*Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.engines[id]
	return e, ok
}

// Remove closes and forgets the engine of a frame. It reports whether one
// was registered.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.engines[id]
	if !ok {
		return false
	}
	e.Close()
	delete(r.engines, id)
	return true
}

// Len returns the number of registered engines.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.engines)
}

// IDs returns the registered frame IDs, sorted.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.engines))
}
