// Package natspub publishes triples to a NATS subject as they are generated,
// so downstream consumers can index an export while it is still running.
package natspub

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/German-BioImaging/omero-rdf/errors"
	"github.com/German-BioImaging/omero-rdf/rdf"
)

// Config holds the connection settings for the publisher.
type Config struct {
	// URL is the NATS server URL, e.g. nats://localhost:4222.
	URL string `json:"url" yaml:"url"`
	// Subject is the subject triples are published on.
	Subject string `json:"subject" yaml:"subject"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate", "url is required")
	}
	if c.Subject == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate", "subject is required")
	}
	return nil
}

// wireTriple is the published message shape: one triple per message, each
// term in its N-Triples surface form.
type wireTriple struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// Sink is a streaming format.Sink that publishes one message per triple.
type Sink struct {
	nc      *nats.Conn
	subject string
	logger  *slog.Logger
}

// New connects to the NATS server and returns the publishing sink.
func New(cfg Config, logger *slog.Logger) (*Sink, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	nc, err := nats.Connect(cfg.URL,
		nats.Name("omero-rdf"),
		nats.MaxReconnects(3),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, errors.Wrap(err, "natspub", "New", "connecting to "+cfg.URL)
	}

	logger.Info("publishing triples", "url", cfg.URL, "subject", cfg.Subject)
	return &Sink{nc: nc, subject: cfg.Subject, logger: logger}, nil
}

// Streaming implements format.Sink.
func (*Sink) Streaming() bool { return true }

// Emit implements format.Sink.
func (s *Sink) Emit(t rdf.Triple) error {
	payload, err := json.Marshal(wireTriple{
		Subject:   t.Subject.N3(),
		Predicate: t.Predicate.N3(),
		Object:    t.Object.N3(),
	})
	if err != nil {
		return errors.Wrap(err, "Sink", "Emit", "marshaling triple")
	}
	if err := s.nc.Publish(s.subject, payload); err != nil {
		return errors.Wrap(err, "Sink", "Emit", "publishing triple")
	}
	return nil
}

// Close flushes pending messages and drops the connection.
func (s *Sink) Close() error {
	defer s.nc.Close()
	if err := s.nc.FlushTimeout(5 * time.Second); err != nil {
		return errors.Wrap(err, "Sink", "Close", "flushing connection")
	}
	return nil
}
