// Command meshgopher runs the mesh gopher daemon: it serves a content
// tree as numbered menus to mesh radio nodes over the configured
// transport, and optionally exposes a Prometheus metrics endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/viant/meshgopher"
	"github.com/viant/meshgopher/internal/metrics"
	"github.com/viant/meshgopher/service/transport"
)

// version is overridable at link time:
//
//	go build -ldflags "-X main.version=1.2.0"
var version = "0.1.0"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "meshgopher: %v\n", err)
		os.Exit(1)
	}
}

// run parses args, assembles the service and blocks until shutdown.
func run(ctx context.Context, args []string) error {
	var (
		configURL   string
		rootURL     string
		spoolURL    string
		metricsAddr string
		verbose     bool
		showVersion bool
	)
	fs := flag.NewFlagSet("meshgopher", flag.ContinueOnError)
	fs.StringVarP(&configURL, "config", "c", "", "Config file URL (afs: file://, mem://, s3://...)")
	fs.StringVarP(&rootURL, "root", "r", "", "Content root URL, overrides gopher.rootURL")
	fs.StringVar(&spoolURL, "spool", "", "Spool URL, selects the spool transport")
	fs.StringVar(&metricsAddr, "metrics", "", "Prometheus listen address, e.g. :9090")
	fs.BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.Usage = func() { printUsage(fs) }

	if err := fs.Parse(args); err != nil {
		return err
	}
	if showVersion {
		fmt.Printf("meshgopher %s\n", version)
		return nil
	}
	if verbose {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	}

	config, err := loadConfig(ctx, configURL)
	if err != nil {
		return err
	}
	if rootURL != "" {
		config.Gopher.RootURL = rootURL
	}
	if spoolURL != "" {
		config.Transport.Vendor = string(transport.VendorSpool)
		config.Transport.SpoolURL = spoolURL
	}
	if metricsAddr != "" {
		config.Telemetry.MetricsAddr = metricsAddr
	}
	if err = config.Validate(); err != nil {
		return err
	}

	service, err := meshgopher.New(meshgopher.WithConfig(config))
	if err != nil {
		return err
	}
	if err = service.Start(ctx); err != nil {
		return err
	}
	log.Printf("meshgopher %s serving %s over %s transport",
		version, describeRoot(config), config.Transport.Vendor)

	group, groupCtx := errgroup.WithContext(ctx)
	var metricsServer *http.Server
	if addr := config.Telemetry.MetricsAddr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		metricsServer = &http.Server{Addr: addr, Handler: mux}
		group.Go(func() error {
			log.Printf("metrics listening on %v", addr)
			if serveErr := metricsServer.ListenAndServe(); !errors.Is(serveErr, http.ErrServerClosed) {
				return serveErr
			}
			return nil
		})
	}
	group.Go(func() error {
		<-groupCtx.Done()
		log.Printf("shutting down")
		if metricsServer != nil {
			stopCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			_ = metricsServer.Shutdown(stopCtx)
			stop()
		}
		stopCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
		defer stop()
		return service.Shutdown(stopCtx)
	})
	return group.Wait()
}

func loadConfig(ctx context.Context, URL string) (*meshgopher.Config, error) {
	if URL == "" {
		return meshgopher.DefaultConfig(), nil
	}
	return meshgopher.LoadConfig(ctx, URL)
}

func describeRoot(config *meshgopher.Config) string {
	if config.Gopher.RootURL == "" {
		return "an empty in-memory tree"
	}
	return config.Gopher.RootURL
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `meshgopher %s - gopher-style menu server for mesh radios

Usage:
  meshgopher -c config.yaml                    Run from a config file
  meshgopher -r file:///srv/gopher-content     Serve a tree, memory transport
  meshgopher -r ... --spool file:///var/spool/meshgopher
                                               Bridge a radio relay spool

Options:
`, version)
	fs.PrintDefaults()
}
