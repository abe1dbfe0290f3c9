// Package transport defines the capability contract for moving text
// messages between the server and mesh nodes.
package transport

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by transport operations after Close.
var ErrClosed = errors.New("transport: closed")

// Vendor represents the name of a transport vendor
type Vendor string

// Known transport vendors
const (
	VendorMemory Vendor = "memory"
	VendorSpool  Vendor = "spool"
)

// Outcome reports the result of a single delivery attempt
type Outcome int

const (
	// OutcomeAcked means the node acknowledged the message
	OutcomeAcked Outcome = iota

	// OutcomeTimedOut means no acknowledgment arrived within the ack wait
	OutcomeTimedOut
)

// String returns a log-friendly outcome name
func (o Outcome) String() string {
	switch o {
	case OutcomeAcked:
		return "acked"
	case OutcomeTimedOut:
		return "timedOut"
	}
	return "unknown"
}

// Event represents one inbound text message from a mesh node
type Event struct {
	// ID identifies the event across logs and spool envelopes
	ID string `json:"id"`

	// NodeID identifies the sending node
	NodeID string `json:"nodeId"`

	// Text is the raw message text as typed on the node
	Text string `json:"text"`

	// ReceivedAt records when the transport saw the event
	ReceivedAt time.Time `json:"receivedAt"`
}

// Transport bridges the server and the radio mesh.
type Transport interface {
	// Send performs exactly one delivery attempt with its own ack wait and
	// reports whether the node acknowledged it. Retry policy belongs to the
	// caller. A non-nil error means the attempt could not be made at all.
	Send(ctx context.Context, nodeID, text string) (Outcome, error)

	// Receive blocks until an inbound event arrives, the context ends, or
	// the transport closes.
	Receive(ctx context.Context) (*Event, error)

	// Close releases transport resources; pending Receive calls return
	// ErrClosed.
	Close() error
}
