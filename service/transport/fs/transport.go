// Package fs provides a transport backed by afs spool directories. An
// external radio relay bridges the spool to the mesh: it drops inbound
// envelopes under in/pending and acknowledges outbound envelopes by
// writing markers under out/acked. The server never talks to radio
// hardware directly.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/meshgopher/internal/clock"
	"github.com/viant/meshgopher/internal/idgen"
	"github.com/viant/meshgopher/service/transport"
)

// Envelope is the JSON document exchanged with the radio relay
type Envelope struct {
	// ID names the envelope file and its ack marker
	ID string `json:"id"`

	// NodeID identifies the mesh node
	NodeID string `json:"nodeId"`

	// Text is the message body
	Text string `json:"text"`

	// ReceivedAt is set by the relay on inbound envelopes
	ReceivedAt time.Time `json:"receivedAt"`

	// SentAt is set by the server on outbound envelopes
	SentAt time.Time `json:"sentAt"`
}

// Config holds configuration for the spool transport
type Config struct {
	// BaseURL is the afs URL of the spool root
	BaseURL string

	// PollInterval is the delay between spool scans
	PollInterval time.Duration

	// AckTimeout bounds how long Send waits for an ack marker
	AckTimeout time.Duration
}

// DefaultConfig returns a default spool configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:      "file:///tmp/meshgopher/spool",
		PollInterval: 500 * time.Millisecond,
		AckTimeout:   30 * time.Second,
	}
}

// Transport implements a spool-directory transport.Transport
type Transport struct {
	fs     afs.Service
	config Config

	inPendingDir    string
	inProcessedDir  string
	outPendingDir   string
	outAckedDir     string
	outCompletedDir string
	outFailedDir    string

	done chan struct{}
	once sync.Once
	mu   sync.Mutex
}

// New creates a spool transport rooted at config.BaseURL
func New(fs afs.Service, config Config) (*Transport, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("spool base URL cannot be empty")
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultConfig().PollInterval
	}
	if config.AckTimeout <= 0 {
		config.AckTimeout = DefaultConfig().AckTimeout
	}
	baseURL := url.Normalize(config.BaseURL, file.Scheme)

	t := &Transport{
		fs:              fs,
		config:          config,
		inPendingDir:    url.Join(baseURL, "in/pending"),
		inProcessedDir:  url.Join(baseURL, "in/processed"),
		outPendingDir:   url.Join(baseURL, "out/pending"),
		outAckedDir:     url.Join(baseURL, "out/acked"),
		outCompletedDir: url.Join(baseURL, "out/completed"),
		outFailedDir:    url.Join(baseURL, "out/failed"),
		done:            make(chan struct{}),
	}

	// Ensure directories exist
	dirs := []string{
		t.inPendingDir,
		t.inProcessedDir,
		t.outPendingDir,
		t.outAckedDir,
		t.outCompletedDir,
		t.outFailedDir,
	}

	ctx := context.Background()
	for _, dir := range dirs {
		exists, _ := fs.Exists(ctx, dir)
		if !exists {
			if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	return t, nil
}

// Send writes an outbound envelope and waits for the relay's ack marker.
func (t *Transport) Send(ctx context.Context, nodeID, text string) (transport.Outcome, error) {
	select {
	case <-t.done:
		return transport.OutcomeTimedOut, transport.ErrClosed
	default:
	}

	envelope := &Envelope{
		ID:     idgen.New(),
		NodeID: nodeID,
		Text:   text,
		SentAt: clock.Now(),
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return transport.OutcomeTimedOut, fmt.Errorf("failed to marshal outbound envelope: %w", err)
	}

	pendingURL := url.Join(t.outPendingDir, envelopeFilename(envelope.ID))
	if err := t.fs.Upload(ctx, pendingURL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return transport.OutcomeTimedOut, fmt.Errorf("failed to write outbound envelope: %w", err)
	}
	return t.awaitAck(ctx, envelope.ID, pendingURL, data)
}

// awaitAck polls for the relay's ack marker until it shows up or the ack
// wait runs out.
func (t *Transport) awaitAck(ctx context.Context, id, pendingURL string, data []byte) (transport.Outcome, error) {
	markerURL := url.Join(t.outAckedDir, id)
	ticker := time.NewTicker(t.config.PollInterval)
	defer ticker.Stop()
	timeout := time.NewTimer(t.config.AckTimeout)
	defer timeout.Stop()

	for {
		acked, err := t.fs.Exists(ctx, markerURL)
		if err != nil {
			return transport.OutcomeTimedOut, fmt.Errorf("failed to check ack marker %s: %w", markerURL, err)
		}
		if acked {
			if err := t.archive(ctx, pendingURL, url.Join(t.outCompletedDir, envelopeFilename(id)), data); err != nil {
				return transport.OutcomeTimedOut, err
			}
			_ = t.fs.Move(ctx, markerURL, url.Join(t.outCompletedDir, fmt.Sprintf("%s.ack", id)))
			return transport.OutcomeAcked, nil
		}

		select {
		case <-ctx.Done():
			_ = t.archive(context.Background(), pendingURL, url.Join(t.outFailedDir, envelopeFilename(id)), data)
			return transport.OutcomeTimedOut, ctx.Err()
		case <-t.done:
			return transport.OutcomeTimedOut, transport.ErrClosed
		case <-timeout.C:
			if err := t.archive(ctx, pendingURL, url.Join(t.outFailedDir, envelopeFilename(id)), data); err != nil {
				return transport.OutcomeTimedOut, err
			}
			return transport.OutcomeTimedOut, nil
		case <-ticker.C:
		}
	}
}

// Receive polls the inbound spool for the oldest pending envelope.
func (t *Transport) Receive(ctx context.Context) (*transport.Event, error) {
	ticker := time.NewTicker(t.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.done:
			return nil, transport.ErrClosed
		default:
		}

		event, err := t.nextInbound(ctx)
		if err != nil {
			return nil, err
		}
		if event != nil {
			return event, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.done:
			return nil, transport.ErrClosed
		case <-ticker.C:
		}
	}
}

// Close stops the transport; blocked Send and Receive calls return ErrClosed.
func (t *Transport) Close() error {
	t.once.Do(func() {
		close(t.done)
	})
	return nil
}

// nextInbound returns the oldest pending inbound event, or nil when the
// spool is empty.
func (t *Transport) nextInbound(ctx context.Context) (*transport.Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	objects, err := t.fs.List(ctx, t.inPendingDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbound spool: %w", err)
	}

	var pending []storage.Object
	for _, object := range objects {
		if !object.IsDir() && strings.HasSuffix(object.Name(), ".json") {
			pending = append(pending, object)
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}

	// Oldest first so per-node ordering survives the spool hop
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].ModTime().Equal(pending[j].ModTime()) {
			return pending[i].ModTime().Before(pending[j].ModTime())
		}
		return pending[i].Name() < pending[j].Name()
	})

	object := pending[0]
	data, err := t.fs.DownloadWithURL(ctx, object.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to read inbound envelope %s: %w", object.URL(), err)
	}

	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		// Park the malformed envelope so the scan can move on
		destURL := url.Join(t.inProcessedDir, fmt.Sprintf("invalid-%s", object.Name()))
		_ = t.fs.Move(ctx, object.URL(), destURL)
		log.Printf("dropped malformed inbound envelope %s: %v", object.Name(), err)
		return nil, nil
	}

	if err := t.archive(ctx, object.URL(), url.Join(t.inProcessedDir, object.Name()), data); err != nil {
		return nil, err
	}

	event := &transport.Event{
		ID:         envelope.ID,
		NodeID:     envelope.NodeID,
		Text:       envelope.Text,
		ReceivedAt: envelope.ReceivedAt,
	}
	if event.ID == "" {
		event.ID = idgen.New()
	}
	if event.ReceivedAt.IsZero() {
		event.ReceivedAt = clock.Now()
	}
	return event, nil
}

// archive moves an envelope between spool directories, writing the copy
// before removing the source so a crash duplicates rather than loses.
func (t *Transport) archive(ctx context.Context, srcURL, destURL string, data []byte) error {
	if err := t.fs.Upload(ctx, destURL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to archive envelope to %s: %w", destURL, err)
	}
	if err := t.fs.Delete(ctx, srcURL); err != nil {
		return fmt.Errorf("failed to remove archived envelope %s: %w", srcURL, err)
	}
	return nil
}

func envelopeFilename(id string) string {
	return fmt.Sprintf("%s.json", id)
}

// ensure Transport implements the transport contract
var _ transport.Transport = (*Transport)(nil)
