// Package config loads and validates exporter configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/German-BioImaging/omero-rdf/errors"
	"github.com/German-BioImaging/omero-rdf/format"
	"github.com/German-BioImaging/omero-rdf/handler"
	"github.com/German-BioImaging/omero-rdf/output/natspub"
)

// Config represents the complete exporter configuration. Flags override
// whatever a config file provides.
type Config struct {
	Server  ServerConfig   `json:"server"            yaml:"server"`
	Export  ExportConfig   `json:"export"            yaml:"export"`
	Output  OutputConfig   `json:"output"            yaml:"output"`
	NATS    natspub.Config `json:"nats,omitempty"    yaml:"nats,omitempty"`
	Metrics MetricsConfig  `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// ServerConfig locates the data-management server.
type ServerConfig struct {
	// BaseURL is the root of the server's JSON API, e.g.
	// https://omero.example.org.
	BaseURL string `json:"base_url" yaml:"base_url"`
	// SessionKey authenticates API requests. Empty for public servers.
	SessionKey string `json:"session_key,omitempty" yaml:"session_key,omitempty"`
	// TimeoutSeconds bounds each API request. Zero means the default.
	TimeoutSeconds int `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
}

// ExportConfig controls triple generation.
type ExportConfig struct {
	// Format is the output serialization: ntriples, turtle, jsonld, ro-crate.
	Format string `json:"format" yaml:"format"`
	// Descent is the traversal strategy: recursive or flat.
	Descent string `json:"descent" yaml:"descent"`
	// Ellide shortens long string literals, for human preview.
	Ellide bool `json:"ellide,omitempty" yaml:"ellide,omitempty"`
	// TrimWhitespace strips leading/trailing whitespace from string values.
	TrimWhitespace bool `json:"trim_whitespace,omitempty" yaml:"trim_whitespace,omitempty"`
	// FirstHandlerWins stops the annotation chain at the first claim.
	FirstHandlerWins bool `json:"first_handler_wins,omitempty" yaml:"first_handler_wins,omitempty"`
	// IDR enables the IDR map-annotation handler.
	IDR bool `json:"idr,omitempty" yaml:"idr,omitempty"`
	// WikidataLookups resolves IDR values against the Wikidata SPARQL
	// endpoint. Only meaningful together with IDR.
	WikidataLookups bool `json:"wikidata_lookups,omitempty" yaml:"wikidata_lookups,omitempty"`
}

// OutputConfig controls where triples are written.
type OutputConfig struct {
	// Destination is a file path, "-" for stdout. A ".gz" suffix enables
	// compression.
	Destination string `json:"destination" yaml:"destination"`
	// AssumeYes skips the extension-mismatch confirmation prompt.
	AssumeYes bool `json:"assume_yes,omitempty" yaml:"assume_yes,omitempty"`
}

// MetricsConfig controls the optional prometheus endpoint.
type MetricsConfig struct {
	// Port serves /metrics during the export. Zero disables it.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`
}

// DefaultConfig returns the configuration used when no file and no flags are
// given: stream N-Triples for the full hierarchy to stdout.
func DefaultConfig() *Config {
	return &Config{
		Export: ExportConfig{
			Format:  "ntriples",
			Descent: handler.DescentRecursive,
		},
		Output: OutputConfig{
			Destination: "-",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return errors.WrapInvalid(errors.ErrMissingConfig, "Config", "Validate", "server.base_url is required")
	}
	if !strings.HasPrefix(c.Server.BaseURL, "http://") && !strings.HasPrefix(c.Server.BaseURL, "https://") {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"server.base_url must be an http(s) URL")
	}
	if c.Server.TimeoutSeconds < 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"server.timeout_seconds cannot be negative")
	}

	if _, err := format.New(c.Export.Format); err != nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("export.format must be one of %v", format.Names()))
	}
	switch c.Export.Descent {
	case handler.DescentRecursive, handler.DescentFlat:
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"export.descent must be recursive or flat")
	}
	if c.Export.WikidataLookups && !c.Export.IDR {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"export.wikidata_lookups requires export.idr")
	}

	if c.NATS.URL != "" || c.NATS.Subject != "" {
		if err := c.NATS.Validate(); err != nil {
			return err
		}
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"metrics.port must be a valid port number")
	}
	return nil
}

// Load reads a configuration file, merging it over the defaults. The format
// is decided by extension: .yaml/.yml parse as YAML, everything else as
// JSON. The raw document is checked against the embedded schema before
// decoding.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config", "Load", "reading "+path)
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		// Schema validation operates on JSON documents, so YAML configs are
		// normalized first.
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.WrapInvalid(err, "config", "Load", "parsing YAML")
		}
		jsonData, err := json.Marshal(raw)
		if err != nil {
			return nil, errors.Wrap(err, "config", "Load", "normalizing YAML")
		}
		if err := validateDocument(jsonData); err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapInvalid(err, "config", "Load", "decoding YAML")
		}
	default:
		if err := validateDocument(data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapInvalid(err, "config", "Load", "decoding JSON")
		}
	}
	return cfg, nil
}
