// Package main implements the omero-rdf command line tool. It walks the
// container hierarchy of an OMERO server and exports the metadata of every
// visited object as RDF triples.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/German-BioImaging/omero-rdf/annotation"
	"github.com/German-BioImaging/omero-rdf/config"
	"github.com/German-BioImaging/omero-rdf/errors"
	"github.com/German-BioImaging/omero-rdf/format"
	"github.com/German-BioImaging/omero-rdf/gateway"
	"github.com/German-BioImaging/omero-rdf/handler"
	"github.com/German-BioImaging/omero-rdf/metric"
	"github.com/German-BioImaging/omero-rdf/output"
	"github.com/German-BioImaging/omero-rdf/output/natspub"
)

// Build information constants
const (
	Version = "0.1.0"
	appName = "omero-rdf"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		status := errors.ExitStatus(err)
		slog.Error("export failed", "error", err, "exit_code", status)
		os.Exit(status)
	}
}

func run() error {
	cli := parseFlags()
	if err := validateFlags(cli); err != nil {
		printDetailedHelp()
		return errors.WrapInvalid(err, "main", "run", "flag validation")
	}

	if cli.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}
	if cli.ShowHelp {
		printDetailedHelp()
		return nil
	}

	logger := setupLogger(cli.LogLevel, cli.LogFormat)
	slog.SetDefault(logger)

	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	targets := make([]gateway.ObjectRef, 0, len(cli.Targets))
	for _, arg := range cli.Targets {
		ref, err := gateway.ParseTarget(arg)
		if err != nil {
			return err
		}
		targets = append(targets, ref)
	}

	if err := output.CheckExtension(cfg.Output.Destination, cfg.Export.Format,
		cfg.Output.AssumeYes, os.Stdin, os.Stderr, logger); err != nil {
		return err
	}

	ctx := context.Background()
	return export(ctx, cfg, targets, logger)
}

func loadConfig(cli *CLIConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if cli.ConfigPath != "" {
		loaded, err := config.Load(cli.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	applyFlags(cfg, cli)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func export(ctx context.Context, cfg *config.Config, targets []gateway.ObjectRef, logger *slog.Logger) error {
	gw, err := gateway.NewWebClient(gateway.WebClientConfig{
		BaseURL:    cfg.Server.BaseURL,
		Timeout:    time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		HTTPClient: sessionClient(cfg.Server),
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	f, err := format.New(cfg.Export.Format)
	if err != nil {
		return err
	}

	w, err := output.Open(cfg.Output.Destination)
	if err != nil {
		return err
	}
	defer w.Close()

	sinks := []format.Sink{format.NewWriterSink(f, w)}
	if cfg.NATS.URL != "" {
		pub, err := natspub.New(cfg.NATS, logger)
		if err != nil {
			return err
		}
		sinks = append(sinks, pub)
	}
	sink := format.NewMultiSink(sinks...)

	var metrics *metric.Metrics
	if cfg.Metrics.Port > 0 {
		metrics = metric.NewMetrics()
		registry := prometheus.NewRegistry()
		if err := metrics.Register(registry); err != nil {
			return err
		}
		go metric.Serve(registry, cfg.Metrics.Port, logger)
	}

	var extra []annotation.Handler
	if cfg.Export.IDR {
		var lookup annotation.LookupFunc
		if cfg.Export.WikidataLookups {
			wc := annotation.NewWikidataClient(annotation.DefaultSPARQLEndpoint, nil)
			lookup = wc.Lookup
		}
		extra = append(extra, annotation.NewIDRHandler(lookup, logger))
	}

	h, err := handler.New(ctx, gw, sink, handler.Options{
		Ellide:           cfg.Export.Ellide,
		TrimWhitespace:   cfg.Export.TrimWhitespace,
		FirstHandlerWins: cfg.Export.FirstHandlerWins,
		Descent:          cfg.Export.Descent,
		Format:           cfg.Export.Format,
		Logger:           logger,
		Metrics:          metrics,
	}, extra...)
	if err != nil {
		return err
	}

	logger.Info("starting export",
		"targets", len(targets),
		"format", cfg.Export.Format,
		"descent", cfg.Export.Descent,
		"destination", cfg.Output.Destination)

	if err := h.Export(ctx, targets...); err != nil {
		return err
	}
	return sink.Close()
}

// sessionClient returns an HTTP client that sends the configured session
// cookie with every API request, or nil to use the default client.
func sessionClient(server config.ServerConfig) *http.Client {
	if server.SessionKey == "" {
		return nil
	}
	timeout := time.Duration(server.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &sessionTransport{key: server.SessionKey},
	}
}

type sessionTransport struct {
	key string
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.AddCookie(&http.Cookie{Name: "sessionid", Value: t.key})
	return http.DefaultTransport.RoundTrip(clone)
}
