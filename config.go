package meshgopher

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/meshgopher/internal/expand"
	"github.com/viant/meshgopher/policy"
	"github.com/viant/meshgopher/service/chunker"
	"github.com/viant/meshgopher/service/transport"
	"gopkg.in/yaml.v3"
)

// Config is the serialisable representation of the server configuration.
// It can be populated from YAML or JSON; zero-valued fields inherit their
// package defaults.
type Config struct {
	Gopher    GopherConfig    `json:"gopher" yaml:"gopher"`
	Transport TransportConfig `json:"transport" yaml:"transport"`
	Delivery  DeliveryConfig  `json:"delivery" yaml:"delivery"`
	Session   SessionConfig   `json:"session" yaml:"session"`
	Processor ProcessorConfig `json:"processor" yaml:"processor"`
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry"`
	Policy    *policy.Config  `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// GopherConfig shapes the served content and its paging.
type GopherConfig struct {
	// RootURL is the afs URL of the served content tree; empty keeps the
	// in-memory provider
	RootURL string `json:"rootURL" yaml:"rootURL"`
	// MaxMessageSize bounds every outbound message, indicator included
	MaxMessageSize int `json:"maxMessageSize" yaml:"maxMessageSize"`
	// AutoSendThreshold is the page count pushed per batch
	AutoSendThreshold int `json:"autoSendThreshold" yaml:"autoSendThreshold"`
}

// TransportConfig selects and tunes the radio transport.
type TransportConfig struct {
	// Vendor picks the transport implementation: memory or spool
	Vendor string `json:"vendor" yaml:"vendor"`
	// SpoolURL is the afs URL of the spool exchanged with the radio relay
	SpoolURL string `json:"spoolURL,omitempty" yaml:"spoolURL,omitempty"`
	// PollIntervalMs is the spool poll cadence in milliseconds
	PollIntervalMs int `json:"pollIntervalMs" yaml:"pollIntervalMs"`
}

// DeliveryConfig tunes the per-page delivery loop.
type DeliveryConfig struct {
	// AckTimeoutSec bounds the ack wait of one delivery attempt
	AckTimeoutSec int `json:"ackTimeoutSec" yaml:"ackTimeoutSec"`
	// MaxSendAttempts is the attempt budget per page
	MaxSendAttempts int `json:"maxSendAttempts" yaml:"maxSendAttempts"`
	// RetryDelayMs is the pause between attempts in milliseconds
	RetryDelayMs int `json:"retryDelayMs" yaml:"retryDelayMs"`
}

// SessionConfig tunes idle session expiry.
type SessionConfig struct {
	// TimeoutMinutes is the idle lifetime of a session
	TimeoutMinutes int `json:"timeoutMinutes" yaml:"timeoutMinutes"`
	// SweepIntervalSec is the sweep cadence in seconds
	SweepIntervalSec int `json:"sweepIntervalSec" yaml:"sweepIntervalSec"`
}

// ProcessorConfig tunes event handling concurrency.
type ProcessorConfig struct {
	// Workers bounds concurrent node handlers
	Workers int `json:"workers" yaml:"workers"`
}

// TelemetryConfig turns operational surfaces on.
type TelemetryConfig struct {
	// MetricsAddr is the Prometheus listen address; empty disables it
	MetricsAddr string `json:"metricsAddr,omitempty" yaml:"metricsAddr,omitempty"`
	// Tracing enables span export
	Tracing bool `json:"tracing,omitempty" yaml:"tracing,omitempty"`
	// TraceFile receives exported spans; empty writes to stdout
	TraceFile string `json:"traceFile,omitempty" yaml:"traceFile,omitempty"`
}

// DefaultConfig returns a Config populated with the stock defaults.
// Callers may modify the returned struct before passing it to New.
func DefaultConfig() *Config {
	return &Config{
		Gopher: GopherConfig{
			MaxMessageSize:    230,
			AutoSendThreshold: 3,
		},
		Transport: TransportConfig{
			Vendor:         string(transport.VendorMemory),
			PollIntervalMs: 500,
		},
		Delivery: DeliveryConfig{
			AckTimeoutSec:   30,
			MaxSendAttempts: 3,
			RetryDelayMs:    1000,
		},
		Session: SessionConfig{
			TimeoutMinutes:   30,
			SweepIntervalSec: 60,
		},
		Processor: ProcessorConfig{
			Workers: 4,
		},
	}
}

// normalize fills zero-valued fields with their defaults.
func (c *Config) normalize() {
	defaults := DefaultConfig()
	if c.Gopher.MaxMessageSize == 0 {
		c.Gopher.MaxMessageSize = defaults.Gopher.MaxMessageSize
	}
	if c.Gopher.AutoSendThreshold == 0 {
		c.Gopher.AutoSendThreshold = defaults.Gopher.AutoSendThreshold
	}
	if c.Transport.Vendor == "" {
		c.Transport.Vendor = defaults.Transport.Vendor
	}
	if c.Transport.PollIntervalMs == 0 {
		c.Transport.PollIntervalMs = defaults.Transport.PollIntervalMs
	}
	if c.Delivery.AckTimeoutSec == 0 {
		c.Delivery.AckTimeoutSec = defaults.Delivery.AckTimeoutSec
	}
	if c.Delivery.MaxSendAttempts == 0 {
		c.Delivery.MaxSendAttempts = defaults.Delivery.MaxSendAttempts
	}
	if c.Delivery.RetryDelayMs == 0 {
		c.Delivery.RetryDelayMs = defaults.Delivery.RetryDelayMs
	}
	if c.Session.TimeoutMinutes == 0 {
		c.Session.TimeoutMinutes = defaults.Session.TimeoutMinutes
	}
	if c.Session.SweepIntervalSec == 0 {
		c.Session.SweepIntervalSec = defaults.Session.SweepIntervalSec
	}
	if c.Processor.Workers == 0 {
		c.Processor.Workers = defaults.Processor.Workers
	}
}

// Validate returns an error describing the first invalid setting, or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Gopher.MaxMessageSize < chunker.MinMaxSize {
		return fmt.Errorf("gopher.maxMessageSize must be at least %d, had %d", chunker.MinMaxSize, c.Gopher.MaxMessageSize)
	}
	if c.Gopher.AutoSendThreshold < 1 {
		return fmt.Errorf("gopher.autoSendThreshold must be at least 1, had %d", c.Gopher.AutoSendThreshold)
	}
	switch transport.Vendor(c.Transport.Vendor) {
	case transport.VendorMemory:
	case transport.VendorSpool:
		if c.Transport.SpoolURL == "" {
			return fmt.Errorf("transport.spoolURL is required for the %v vendor", transport.VendorSpool)
		}
	default:
		return fmt.Errorf("unsupported transport.vendor %q", c.Transport.Vendor)
	}
	if c.Transport.PollIntervalMs <= 0 {
		return fmt.Errorf("transport.pollIntervalMs must be positive, had %d", c.Transport.PollIntervalMs)
	}
	if c.Delivery.AckTimeoutSec <= 0 {
		return fmt.Errorf("delivery.ackTimeoutSec must be positive, had %d", c.Delivery.AckTimeoutSec)
	}
	if c.Delivery.MaxSendAttempts < 1 {
		return fmt.Errorf("delivery.maxSendAttempts must be at least 1, had %d", c.Delivery.MaxSendAttempts)
	}
	if c.Delivery.RetryDelayMs < 0 {
		return fmt.Errorf("delivery.retryDelayMs cannot be negative, had %d", c.Delivery.RetryDelayMs)
	}
	if c.Session.TimeoutMinutes < 0 {
		return fmt.Errorf("session.timeoutMinutes cannot be negative, had %d", c.Session.TimeoutMinutes)
	}
	if c.Session.SweepIntervalSec <= 0 {
		return fmt.Errorf("session.sweepIntervalSec must be positive, had %d", c.Session.SweepIntervalSec)
	}
	if c.Processor.Workers < 1 {
		return fmt.Errorf("processor.workers must be at least 1, had %d", c.Processor.Workers)
	}
	return nil
}

func (c *Config) ackTimeout() time.Duration {
	return time.Duration(c.Delivery.AckTimeoutSec) * time.Second
}

func (c *Config) retryDelay() time.Duration {
	return time.Duration(c.Delivery.RetryDelayMs) * time.Millisecond
}

func (c *Config) pollInterval() time.Duration {
	return time.Duration(c.Transport.PollIntervalMs) * time.Millisecond
}

func (c *Config) sessionTimeout() time.Duration {
	return time.Duration(c.Session.TimeoutMinutes) * time.Minute
}

func (c *Config) sweepInterval() time.Duration {
	return time.Duration(c.Session.SweepIntervalSec) * time.Second
}

// LoadConfig reads a YAML configuration from an afs URL. ${env.KEY}
// references are expanded before decoding, zero fields inherit defaults
// and the result is validated.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	config := &Config{}
	if err := yaml.Unmarshal([]byte(expand.Env(string(data))), config); err != nil {
		return nil, fmt.Errorf("failed to parse config %v: %w", URL, err)
	}
	config.normalize()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
