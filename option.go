package meshgopher

import (
	"github.com/viant/afs/storage"
	"github.com/viant/meshgopher/policy"
	"github.com/viant/meshgopher/progress"
	"github.com/viant/meshgopher/service/content"
	"github.com/viant/meshgopher/service/session"
	"github.com/viant/meshgopher/service/transport"
	"github.com/viant/meshgopher/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the server facade.
type Option func(s *Service)

// WithConfig sets the configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithProvider sets the content provider implementation
func WithProvider(provider content.Provider) Option {
	return func(s *Service) {
		s.provider = provider
	}
}

// WithContentRootURL sets the afs URL served by the default filesystem
// provider, overriding gopher.rootURL from the configuration
func WithContentRootURL(URL string) Option {
	return func(s *Service) {
		s.contentRootURL = URL
	}
}

// WithContentFsOptions sets file system options passed to the default
// filesystem provider (e.g. an embedded fixture tree)
func WithContentFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.contentFsOptions = options
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

// WithPolicy sets the path access policy, overriding the policy section
// of the configuration
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithWorkers sets the number of concurrent node handlers, overriding
// processor.workers from the configuration
func WithWorkers(count int) Option {
	return func(s *Service) {
		s.workers = count
	}
}

// WithProgressListener registers a callback invoked after every delivery
// counter update.
func WithProgressListener(fn func(progress.Snapshot)) Option {
	return func(s *Service) {
		s.onProgress = fn
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path. The function is
// safe to call multiple times – the first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter. This enables
// integrations with exporters other than the built-in stdout exporter, for example OTLP, Jaeger or
// Zipkin. The function is safe to call multiple times – the first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
