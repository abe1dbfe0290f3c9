package processor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/viant/meshgopher/internal/clock"
	"github.com/viant/meshgopher/internal/idgen"
	"github.com/viant/meshgopher/internal/metrics"
	"github.com/viant/meshgopher/policy"
	"github.com/viant/meshgopher/progress"
	"github.com/viant/meshgopher/service/chunker"
	"github.com/viant/meshgopher/service/content"
	"github.com/viant/meshgopher/service/session"
	"github.com/viant/meshgopher/service/transport"
	"github.com/viant/meshgopher/tracing"
)

// Config represents processor service configuration
type Config struct {
	// WorkerCount is the number of node handlers allowed to run at once
	WorkerCount int

	// AutoSendThreshold is the number of pages pushed per batch before the
	// node has to ask for more with next or all
	AutoSendThreshold int

	// AckTimeout bounds the ack wait of a single delivery attempt
	AckTimeout time.Duration

	// MaxSendAttempts is the maximum number of delivery attempts per page
	MaxSendAttempts int

	// RetryDelay is the delay between delivery attempts
	RetryDelay time.Duration
}

// DefaultConfig returns the default processor configuration
func DefaultConfig() Config {
	return Config{
		WorkerCount:       4,
		AutoSendThreshold: 3,
		AckTimeout:        30 * time.Second,
		MaxSendAttempts:   3,
		RetryDelay:        time.Second,
	}
}

// Service handles inbound node events
type Service struct {
	config     Config
	provider   content.Provider
	transport  transport.Transport
	sessions   *session.Manager
	chunker    *chunker.Service
	policy     *policy.Policy
	onProgress func(progress.Snapshot)

	dispatcher *dispatcher
	pumpWg     sync.WaitGroup
	cancelPump context.CancelFunc
	shutdownCh chan struct{}
	shutdown   sync.Once
}

// New creates a new processor service
func New(options ...Option) (*Service, error) {
	s := &Service{
		config:     DefaultConfig(),
		shutdownCh: make(chan struct{}),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.provider == nil {
		return nil, fmt.Errorf("content provider is required")
	}
	if s.transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	if s.sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if s.chunker == nil {
		return nil, fmt.Errorf("chunker is required")
	}
	if s.config.WorkerCount <= 0 {
		s.config.WorkerCount = DefaultConfig().WorkerCount
	}
	if s.config.AutoSendThreshold <= 0 {
		s.config.AutoSendThreshold = DefaultConfig().AutoSendThreshold
	}
	if s.config.AckTimeout <= 0 {
		s.config.AckTimeout = DefaultConfig().AckTimeout
	}
	if s.config.MaxSendAttempts <= 0 {
		s.config.MaxSendAttempts = DefaultConfig().MaxSendAttempts
	}
	if s.config.RetryDelay < 0 {
		s.config.RetryDelay = DefaultConfig().RetryDelay
	}
	s.dispatcher = newDispatcher(s, s.config.WorkerCount)
	return s, nil
}

// Start begins pumping inbound transport events
func (s *Service) Start(ctx context.Context) error {
	pumpCtx, cancel := context.WithCancel(ctx)
	s.cancelPump = cancel
	s.pumpWg.Add(1)
	go s.pump(pumpCtx)
	return nil
}

// pump receives transport events and hands them to the dispatcher
func (s *Service) pump(ctx context.Context) {
	defer s.pumpWg.Done()

	for {
		event, err := s.transport.Receive(ctx)
		if err != nil {
			// Context was cancelled or the transport is gone - graceful shutdown.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, transport.ErrClosed) {
				return
			}
			// Transient error; back off a bit.
			log.Printf("failed to receive event: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}

		if event == nil {
			continue
		}

		s.dispatcher.enqueue(event)
	}
}

// Welcome queues a synthetic blank event for nodeID so the node receives
// the root menu without having sent anything yet. The event goes through
// the regular per-node pipeline, keeping ordering intact when the node
// messages at the same time.
func (s *Service) Welcome(ctx context.Context, nodeID string) error {
	if nodeID == "" {
		return fmt.Errorf("node ID is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-s.shutdownCh:
		return fmt.Errorf("processor is shut down")
	default:
	}
	s.dispatcher.enqueue(&transport.Event{
		ID:         idgen.New(),
		NodeID:     nodeID,
		ReceivedAt: clock.Now(),
	})
	return nil
}

// handleEvent runs the full pipeline for a single inbound event. The
// dispatcher guarantees per-node ordering, so no other handler touches the
// same session while this one runs.
func (s *Service) handleEvent(event *transport.Event) {
	started := clock.Now()
	ctx, _ := progress.WithNewTracker(context.Background(), event.NodeID, s.onProgress)
	ctx = policy.WithPolicy(ctx, s.policy)
	ctx, span := tracing.StartSpan(ctx, "processor.Handle", "SERVER")
	span.WithAttributes(map[string]string{"node.id": event.NodeID, "event.id": event.ID})

	command := commandFor(event)
	next, pages, err := s.transition(ctx, s.sessions.GetOrCreate(event.NodeID), command)

	if dErr := s.deliver(ctx, event.NodeID, pages); dErr != nil {
		// An unconfirmed batch must not be resumable with next/all.
		next = next.ClearPagination()
		if err == nil {
			err = dErr
		}
	}

	s.sessions.Put(event.NodeID, next.Touched(clock.Now()))

	metrics.RecordCommand(command.Kind.String(), clock.Now().Sub(started))
	tracing.EndSpan(span, err)
}

// Shutdown stops the processor service. Queued events are dropped while
// handlers already running finish their delivery first.
func (s *Service) Shutdown() {
	s.shutdown.Do(func() {
		close(s.shutdownCh)
	})
	if s.cancelPump != nil {
		s.cancelPump()
	}
	s.pumpWg.Wait()
	s.dispatcher.wait()
}
