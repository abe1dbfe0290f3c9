// Package sweeper expires idle sessions on a timer. The expiry rule lives
// in the session manager; this service only schedules it.
package sweeper

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/viant/meshgopher/internal/clock"
	"github.com/viant/meshgopher/service/session"
)

// Config represents sweeper service configuration
type Config struct {
	// Interval is how often idle sessions are checked
	Interval time.Duration
}

// DefaultConfig returns the default sweeper configuration
func DefaultConfig() Config {
	return Config{
		Interval: time.Minute,
	}
}

// Service periodically sweeps idle sessions out of the manager
type Service struct {
	config     Config
	manager    *session.Manager
	shutdownCh chan struct{}
	once       sync.Once
}

// New creates a new sweeper service
func New(manager *session.Manager, config Config) *Service {
	if config.Interval <= 0 {
		config.Interval = DefaultConfig().Interval
	}
	return &Service{
		config:     config,
		manager:    manager,
		shutdownCh: make(chan struct{}),
	}
}

// Start begins the sweep loop and blocks until Shutdown or context end.
func (s *Service) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.shutdownCh:
			return nil
		case <-ticker.C:
			if removed := s.manager.Sweep(clock.Now()); removed > 0 {
				log.Printf("swept %d idle session(s)", removed)
			}
		}
	}
}

// Shutdown stops the sweep loop
func (s *Service) Shutdown() {
	s.once.Do(func() {
		close(s.shutdownCh)
	})
}
