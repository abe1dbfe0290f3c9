// Package memory provides an in-process loopback transport. Tests and the
// loopback example inject inbound messages and script delivery outcomes
// without any radio hardware.
package memory

import (
	"context"
	"sync"

	"github.com/viant/meshgopher/internal/clock"
	"github.com/viant/meshgopher/internal/idgen"
	"github.com/viant/meshgopher/service/transport"
)

// AckFunc decides the outcome of one delivery attempt. Implementations
// must not block; the loopback has no real ack wait.
type AckFunc func(nodeID, text string) transport.Outcome

// Config for the memory transport implementation
type Config struct {
	// QueueBuffer sizes the inbound event channel
	QueueBuffer int

	// Ack scripts delivery outcomes; nil acknowledges everything
	Ack AckFunc
}

// DefaultConfig returns a standard configuration for the memory transport
func DefaultConfig() Config {
	return Config{QueueBuffer: 100}
}

// Sent records one outbound message for test assertions
type Sent struct {
	NodeID string
	Text   string
}

// Transport implements a loopback transport.Transport
type Transport struct {
	inbound chan *transport.Event
	config  Config
	done    chan struct{}
	once    sync.Once

	mu   sync.Mutex
	sent []Sent
}

// New creates a new loopback transport
func New(config Config) *Transport {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Transport{
		inbound: make(chan *transport.Event, config.QueueBuffer),
		config:  config,
		done:    make(chan struct{}),
	}
}

// Inject queues an inbound event as if nodeID had sent text over the air.
func (t *Transport) Inject(nodeID, text string) error {
	select {
	case <-t.done:
		return transport.ErrClosed
	default:
	}
	event := &transport.Event{
		ID:         idgen.New(),
		NodeID:     nodeID,
		Text:       text,
		ReceivedAt: clock.Now(),
	}
	select {
	case <-t.done:
		return transport.ErrClosed
	case t.inbound <- event:
		return nil
	}
}

// Send records the outbound message and resolves its outcome through the
// configured ack function.
func (t *Transport) Send(ctx context.Context, nodeID, text string) (transport.Outcome, error) {
	select {
	case <-ctx.Done():
		return transport.OutcomeTimedOut, ctx.Err()
	case <-t.done:
		return transport.OutcomeTimedOut, transport.ErrClosed
	default:
	}

	t.mu.Lock()
	t.sent = append(t.sent, Sent{NodeID: nodeID, Text: text})
	t.mu.Unlock()

	if t.config.Ack == nil {
		return transport.OutcomeAcked, nil
	}
	return t.config.Ack(nodeID, text), nil
}

// Receive blocks for the next injected event.
func (t *Transport) Receive(ctx context.Context) (*transport.Event, error) {
	select {
	case event := <-t.inbound:
		return event, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.done:
		return nil, transport.ErrClosed
	}
}

// Close stops the transport; blocked Receive calls return ErrClosed.
func (t *Transport) Close() error {
	t.once.Do(func() {
		close(t.done)
	})
	return nil
}

// Sent returns a copy of every message sent so far.
func (t *Transport) Sent() []Sent {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Sent, len(t.sent))
	copy(out, t.sent)
	return out
}

// SentTo returns the texts sent to a single node, in order.
func (t *Transport) SentTo(nodeID string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []string
	for _, record := range t.sent {
		if record.NodeID == nodeID {
			out = append(out, record.Text)
		}
	}
	return out
}

// ensure Transport implements the transport contract
var _ transport.Transport = (*Transport)(nil)
