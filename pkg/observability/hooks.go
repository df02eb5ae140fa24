// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. The grouping engine and the HTTP host
// call hooks on every structural change so counters or tracers can be
// attached without touching engine code.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Engines take their hooks from grouping.Options; when none are given they
// fall back to the registry here.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEngineHooks(observability.NewCounters())
//	    // ... run application
//	}
//
// The engine emits events:
//
//	observability.Engine().OnAttach(nodeID, groupID)
//	observability.Engine().OnCommit("resize", len(nodes), time.Since(start))
package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from the grouping engine.
type EngineHooks interface {
	// Membership events
	OnAttach(nodeID, groupID string)
	OnDetach(nodeID, groupID string)

	// Layout events
	OnResize(groupID string, delta float64, shifted int)
	OnPlace(nodeID, kind string, shifted int)

	// OnCommit records a committed collection for operation op.
	OnCommit(op string, nodeCount int, duration time.Duration)

	// OnAbort records an operation that degraded to no change.
	OnAbort(op string, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP host.
type HTTPHooks interface {
	// OnRequest records an incoming event request.
	OnRequest(method, path string)

	// OnResponse records the response status and latency.
	OnResponse(method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnAttach(string, string)             {}
func (NoopEngineHooks) OnDetach(string, string)             {}
func (NoopEngineHooks) OnResize(string, float64, int)       {}
func (NoopEngineHooks) OnPlace(string, string, int)         {}
func (NoopEngineHooks) OnCommit(string, int, time.Duration) {}
func (NoopEngineHooks) OnAbort(string, error)               {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(string, string)                      {}
func (NoopHTTPHooks) OnResponse(string, string, int, time.Duration) {}

// =============================================================================
// Counters
// =============================================================================

// Counters is an EngineHooks implementation that tallies events. It is safe
// for concurrent use.
type Counters struct {
	Attaches atomic.Int64
	Detaches atomic.Int64
	Resizes  atomic.Int64
	Places   atomic.Int64
	Commits  atomic.Int64
	Aborts   atomic.Int64
	Shifted  atomic.Int64 // groups moved by resizes and placements
}

// NewCounters returns zeroed counters.
func NewCounters() *Counters { return &Counters{} }

func (c *Counters) OnAttach(string, string) { c.Attaches.Add(1) }
func (c *Counters) OnDetach(string, string) { c.Detaches.Add(1) }

func (c *Counters) OnResize(_ string, _ float64, shifted int) {
	c.Resizes.Add(1)
	c.Shifted.Add(int64(shifted))
}

func (c *Counters) OnPlace(_ string, _ string, shifted int) {
	c.Places.Add(1)
	c.Shifted.Add(int64(shifted))
}

func (c *Counters) OnCommit(string, int, time.Duration) { c.Commits.Add(1) }
func (c *Counters) OnAbort(string, error)               { c.Aborts.Add(1) }

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	engineHooks EngineHooks = NoopEngineHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup before any engine is created.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before the server starts.
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
	httpHooks = NoopHTTPHooks{}
}
