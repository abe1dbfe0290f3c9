// Package progress provides a lightweight tracker that keeps aggregated
// delivery counters (pages sent, acked, retried, …) for a single inbound
// message. The tracker instance lives in the handling context - every
// component that receives the context can atomically update the counters
// via the Delta helper without requiring a global registry.

package progress

import (
	"context"
	"sync"
	"time"
)

// Delta represents an incremental counter change emitted by the delivery
// loop. The fields are signed and therefore can be either positive
// (increment) or negative (decrement).
type Delta struct {
	Pages     int
	Sent      int
	Acked     int
	Retries   int
	Failed    int
	Abandoned int
}

// Snapshot is a read-only copy of the counters for one handled message.
type Snapshot struct {
	// Identification - informative only, filled when handling starts.
	NodeID    string
	StartedAt time.Time

	// Counters - modified via Update().
	Pages     int
	Sent      int
	Acked     int
	Retries   int
	Failed    int
	Abandoned int
}

// Progress keeps aggregated delivery counters for one handled message and
// its page batch. It is safe for concurrent use.
type Progress struct {
	mu       sync.Mutex
	current  Snapshot
	onChange func(Snapshot)
}

// Update applies the supplied delta to the tracker. It is safe to call
// from multiple goroutines. If an onChange callback has been registered it
// is invoked with a copy of the updated counters outside the critical
// section so that the callback can perform slow operations (e.g. JSON
// encoding, I/O) without blocking delivery.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.mu.Lock()

	p.current.Pages += d.Pages
	p.current.Sent += d.Sent
	p.current.Acked += d.Acked
	p.current.Retries += d.Retries
	p.current.Failed += d.Failed
	p.current.Abandoned += d.Abandoned

	snapshot := p.current
	cb := p.onChange

	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the counters suitable for read-only
// inspection.
func (p *Progress) Snapshot() Snapshot {
	if p == nil {
		return Snapshot{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// OnChange registers a callback that is invoked after every Update.
// Passing nil disables the callback. Only one callback can be active;
// subsequent calls overwrite the previous value.
func (p *Progress) OnChange(cb func(Snapshot)) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.onChange = cb
	p.mu.Unlock()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a new Progress tracker, embeds it in a derived
// context and returns both. The caller may optionally pass an onChange
// callback that will be invoked after every counter update.
func WithNewTracker(ctx context.Context, nodeID string, onChange func(Snapshot)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		current: Snapshot{
			NodeID:    nodeID,
			StartedAt: time.Now(),
		},
		onChange: onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the Progress tracker from ctx. It returns
// (tracker, ok); ok is false when the context carries no tracker.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// GetSnapshot is a convenience wrapper that combines FromContext and
// Snapshot. The boolean return value is false when the context does not
// carry a tracker.
func GetSnapshot(ctx context.Context) (Snapshot, bool) {
	if tr, ok := FromContext(ctx); ok {
		return tr.Snapshot(), true
	}
	return Snapshot{}, false
}

// UpdateCtx is a helper that looks up the tracker in ctx (if any) and
// applies the supplied delta.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
