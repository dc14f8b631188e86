// Package annotations provides a low-overhead event stream for tracing
// knowledge-base loading, formula validation, and query resolution.
package annotations

import (
	"sync"
	"time"
)

// Event name constants following hierarchical naming pattern
const (
	// Query resolution lifecycle
	SolveInvoked  = "solve/invoked"
	SolveConjunct = "solve/conjunct"
	SolveComplete = "solve/completed"

	// Validation
	ValidateChecked = "validate/checked"

	// Knowledge-base construction
	LoadFacts    = "load/facts"
	LoadComplete = "load/completed"

	// Errors
	ErrorSchema = "error/schema"
	ErrorParse  = "error/parse"
)

// Event represents a single annotation event.
type Event struct {
	Name    string                 // Event name using the constants above
	Start   time.Time              // Start timestamp
	End     time.Time              // End timestamp
	Latency time.Duration          // Duration (End - Start)
	Data    map[string]interface{} // Event-specific data
}

// Handler processes annotation events as they occur.
type Handler func(event Event)

// Collector accumulates events during a run and forwards them to an
// optional handler. A nil-handler collector is disabled and costs a
// single branch per call site.
type Collector struct {
	enabled bool
	handler Handler
	mu      sync.Mutex
	events  []Event
}

// NewCollector creates a collector. A nil handler disables collection.
func NewCollector(handler Handler) *Collector {
	return &Collector{
		enabled: handler != nil,
		handler: handler,
		events:  make([]Event, 0, 32),
	}
}

// Enabled reports whether events are being recorded.
func (c *Collector) Enabled() bool {
	if c == nil {
		return false
	}
	return c.enabled
}

// Add records an event and forwards it to the handler.
func (c *Collector) Add(event Event) {
	if !c.Enabled() {
		return
	}
	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()

	// Call handler outside the lock to avoid deadlocks
	if c.handler != nil {
		c.handler(event)
	}
}

// AddTiming records an event whose start time is known and whose end
// time is now.
func (c *Collector) AddTiming(name string, start time.Time, data map[string]interface{}) {
	if !c.Enabled() {
		return
	}
	end := time.Now()
	c.Add(Event{
		Name:    name,
		Start:   start,
		End:     end,
		Latency: end.Sub(start),
		Data:    data,
	})
}

// Events returns a copy of all collected events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Reset clears collected events, keeping the handler.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
}
