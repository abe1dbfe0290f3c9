package processor

import (
	"github.com/viant/meshgopher/policy"
	"github.com/viant/meshgopher/progress"
	"github.com/viant/meshgopher/service/chunker"
	"github.com/viant/meshgopher/service/content"
	"github.com/viant/meshgopher/service/session"
	"github.com/viant/meshgopher/service/transport"
)

// Option customises a processor service.
type Option func(*Service)

// WithProvider sets the content provider implementation
func WithProvider(provider content.Provider) Option {
	return func(s *Service) {
		s.provider = provider
	}
}

// WithTransport sets the transport implementation
func WithTransport(t transport.Transport) Option {
	return func(s *Service) {
		s.transport = t
	}
}

// WithSessionManager sets the session store implementation
func WithSessionManager(manager *session.Manager) Option {
	return func(s *Service) {
		s.sessions = manager
	}
}

// WithChunker sets the page chunker
func WithChunker(c *chunker.Service) Option {
	return func(s *Service) {
		s.chunker = c
	}
}

// WithPolicy sets the path access policy applied to every event
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithWorkers sets the number of concurrent node handlers
func WithWorkers(count int) Option {
	return func(s *Service) {
		s.config.WorkerCount = count
	}
}

// WithProgressListener registers a callback invoked after every delivery
// counter update.
func WithProgressListener(fn func(progress.Snapshot)) Option {
	return func(s *Service) {
		s.onProgress = fn
	}
}

// WithConfig sets the configuration for the service
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}
