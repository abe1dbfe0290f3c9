package meshgopher

import (
	"context"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/meshgopher/policy"
	"github.com/viant/meshgopher/progress"
	"github.com/viant/meshgopher/service/chunker"
	"github.com/viant/meshgopher/service/content"
	cfs "github.com/viant/meshgopher/service/content/fs"
	cmemory "github.com/viant/meshgopher/service/content/memory"
	"github.com/viant/meshgopher/service/processor"
	"github.com/viant/meshgopher/service/session"
	"github.com/viant/meshgopher/service/sweeper"
	"github.com/viant/meshgopher/service/transport"
	tfs "github.com/viant/meshgopher/service/transport/fs"
	tmemory "github.com/viant/meshgopher/service/transport/memory"
	"github.com/viant/meshgopher/tracing"
)

// Service is the server facade: it owns the processor, the session store
// and the idle sweeper, building any collaborator not supplied explicitly
// from the configuration.
type Service struct {
	config           *Config
	provider         content.Provider
	transport        transport.Transport
	sessions         *session.Manager
	chunker          *chunker.Service
	policy           *policy.Policy
	onProgress       func(progress.Snapshot)
	workers          int
	contentRootURL   string
	contentFsOptions []storage.Option

	processor *processor.Service
	sweeper   *sweeper.Service
}

// New creates the server facade. Collaborators not supplied via options
// are built from the configuration, falling back to in-memory defaults.
func New(options ...Option) (*Service, error) {
	s := &Service{}
	for _, option := range options {
		option(s)
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) init() error {
	if s.config == nil {
		s.config = DefaultConfig()
	} else {
		s.config.normalize()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.config.Telemetry.Tracing {
		_ = tracing.Init("meshgopher", "", s.config.Telemetry.TraceFile)
	}
	if err := s.ensureBaseSetup(); err != nil {
		return err
	}

	workers := s.config.Processor.Workers
	if s.workers > 0 {
		workers = s.workers
	}
	var err error
	s.processor, err = processor.New(
		processor.WithProvider(s.provider),
		processor.WithTransport(s.transport),
		processor.WithSessionManager(s.sessions),
		processor.WithChunker(s.chunker),
		processor.WithPolicy(s.policy),
		processor.WithProgressListener(s.onProgress),
		processor.WithConfig(processor.Config{
			WorkerCount:       workers,
			AutoSendThreshold: s.config.Gopher.AutoSendThreshold,
			AckTimeout:        s.config.ackTimeout(),
			MaxSendAttempts:   s.config.Delivery.MaxSendAttempts,
			RetryDelay:        s.config.retryDelay(),
		}),
	)
	if err != nil {
		return err
	}
	s.sweeper = sweeper.New(s.sessions, sweeper.Config{Interval: s.config.sweepInterval()})
	return nil
}

func (s *Service) ensureBaseSetup() error {
	if s.provider == nil {
		rootURL := s.contentRootURL
		if rootURL == "" {
			rootURL = s.config.Gopher.RootURL
		}
		if rootURL == "" {
			s.provider = cmemory.New()
		} else {
			provider, err := cfs.New(context.Background(), rootURL, s.contentFsOptions...)
			if err != nil {
				return err
			}
			s.provider = provider
		}
	}
	if s.transport == nil {
		switch transport.Vendor(s.config.Transport.Vendor) {
		case transport.VendorSpool:
			spool, err := tfs.New(afs.New(), tfs.Config{
				BaseURL:      s.config.Transport.SpoolURL,
				PollInterval: s.config.pollInterval(),
				AckTimeout:   s.config.ackTimeout(),
			})
			if err != nil {
				return err
			}
			s.transport = spool
		default:
			s.transport = tmemory.New(tmemory.DefaultConfig())
		}
	}
	if s.sessions == nil {
		s.sessions = session.New(s.config.sessionTimeout())
	}
	if s.chunker == nil {
		pager, err := chunker.New(s.config.Gopher.MaxMessageSize)
		if err != nil {
			return err
		}
		s.chunker = pager
	}
	if s.policy == nil && s.config.Policy != nil {
		s.policy = policy.FromConfig(s.config.Policy)
	}
	return nil
}

// Start begins serving inbound node events and sweeping idle sessions.
func (s *Service) Start(ctx context.Context) error {
	if err := s.processor.Start(ctx); err != nil {
		return err
	}
	go func() {
		_ = s.sweeper.Start(ctx)
	}()
	return nil
}

// Shutdown stops the processor and the sweeper; handlers already running
// finish their delivery first.
func (s *Service) Shutdown(ctx context.Context) error {
	s.processor.Shutdown()
	s.sweeper.Shutdown()
	return nil
}

// SendWelcome pushes the root menu to a node that has not spoken yet.
func (s *Service) SendWelcome(ctx context.Context, nodeID string) error {
	return s.processor.Welcome(ctx, nodeID)
}

// SessionCount returns the number of tracked node sessions.
func (s *Service) SessionCount() int {
	return s.sessions.Count()
}

// Config returns the effective configuration.
func (s *Service) Config() *Config {
	return s.config
}
