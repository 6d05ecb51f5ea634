package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/German-BioImaging/omero-rdf/config"
	"github.com/German-BioImaging/omero-rdf/format"
)

// CLIConfig holds command-line configuration. Flag values override the
// corresponding config-file settings.
type CLIConfig struct {
	ConfigPath string
	Server     string
	Format     string
	Pretty     bool
	Descent    string
	Ellide     bool
	TrimWS     bool
	FirstWins  bool
	IDR        bool
	Lookups    bool
	File       string
	AssumeYes  bool

	NATSURL     string
	NATSSubject string
	MetricsPort int

	LogLevel    string
	LogFormat   string
	ShowVersion bool
	ShowHelp    bool

	// Targets are the positional Type:ID arguments.
	Targets []string
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	// Define flags with environment variable fallback
	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("OMERO_RDF_CONFIG", ""),
		"Path to configuration file, JSON or YAML (env: OMERO_RDF_CONFIG)")

	flag.StringVar(&cfg.Server, "server",
		getEnv("OMERO_RDF_SERVER", ""),
		"Server base URL, e.g. https://idr.openmicroscopy.org (env: OMERO_RDF_SERVER)")

	flag.StringVar(&cfg.Format, "format", "", "Output format: ntriples, turtle, jsonld, ro-crate")
	flag.StringVar(&cfg.Format, "F", "", "Output format (shorthand)")
	flag.BoolVar(&cfg.Pretty, "pretty", false, "Shortcut for --format=turtle")

	flag.StringVar(&cfg.Descent, "descent", "", "Traversal strategy: recursive, flat")
	flag.StringVar(&cfg.Descent, "S", "", "Traversal strategy (shorthand)")

	flag.BoolVar(&cfg.Ellide, "ellide", false, "Shorten long string literals (lossy)")
	flag.BoolVar(&cfg.TrimWS, "trim-whitespace", false, "Strip leading/trailing whitespace from values")
	flag.BoolVar(&cfg.FirstWins, "first-handler-wins", false,
		"Stop the annotation handler chain at the first claim")
	flag.BoolVar(&cfg.FirstWins, "1", false, "Stop at the first handler claim (shorthand)")

	flag.BoolVar(&cfg.IDR, "idr", false, "Enable the IDR map-annotation handler")
	flag.BoolVar(&cfg.Lookups, "wikidata-lookups", false,
		"Resolve IDR values against the Wikidata SPARQL endpoint (implies --idr)")

	flag.StringVar(&cfg.File, "file", "", `Output destination, "-" for stdout, ".gz" compresses`)
	flag.BoolVar(&cfg.AssumeYes, "yes", false, "Skip the extension-mismatch confirmation prompt")

	flag.StringVar(&cfg.NATSURL, "nats-url",
		getEnv("OMERO_RDF_NATS_URL", ""),
		"Also publish triples to this NATS server (env: OMERO_RDF_NATS_URL)")
	flag.StringVar(&cfg.NATSSubject, "nats-subject",
		getEnv("OMERO_RDF_NATS_SUBJECT", ""),
		"NATS subject for published triples (env: OMERO_RDF_NATS_SUBJECT)")

	flag.IntVar(&cfg.MetricsPort, "metrics-port",
		getEnvInt("OMERO_RDF_METRICS_PORT", 0),
		"Serve prometheus metrics on this port, 0 to disable (env: OMERO_RDF_METRICS_PORT)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("OMERO_RDF_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: OMERO_RDF_LOG_LEVEL)")
	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("OMERO_RDF_LOG_FORMAT", "text"),
		"Log format: json, text (env: OMERO_RDF_LOG_FORMAT)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")

	flag.Usage = printDetailedHelp
	flag.Parse()

	cfg.Targets = flag.Args()
	if cfg.Lookups {
		cfg.IDR = true
	}
	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	if cfg.Pretty && cfg.Format != "" {
		return fmt.Errorf("--pretty and --format are mutually exclusive")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	if len(cfg.Targets) == 0 {
		return fmt.Errorf("at least one Type:ID target is required")
	}
	return nil
}

// applyFlags overlays flag values on the loaded configuration.
func applyFlags(cfg *config.Config, cli *CLIConfig) {
	if cli.Server != "" {
		cfg.Server.BaseURL = cli.Server
	}
	if cli.Pretty {
		cfg.Export.Format = "turtle"
	}
	if cli.Format != "" {
		cfg.Export.Format = cli.Format
	}
	if cli.Descent != "" {
		cfg.Export.Descent = cli.Descent
	}
	if cli.Ellide {
		cfg.Export.Ellide = true
	}
	if cli.TrimWS {
		cfg.Export.TrimWhitespace = true
	}
	if cli.FirstWins {
		cfg.Export.FirstHandlerWins = true
	}
	if cli.IDR {
		cfg.Export.IDR = true
	}
	if cli.Lookups {
		cfg.Export.WikidataLookups = true
	}
	if cli.File != "" {
		cfg.Output.Destination = cli.File
	}
	if cli.AssumeYes {
		cfg.Output.AssumeYes = true
	}
	if cli.NATSURL != "" {
		cfg.NATS.URL = cli.NATSURL
	}
	if cli.NATSSubject != "" {
		cfg.NATS.Subject = cli.NATSSubject
	}
	if cli.MetricsPort != 0 {
		cfg.Metrics.Port = cli.MetricsPort
	}
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - export microscopy metadata as RDF triples

Usage: %s [options] Target:ID [Target:ID ...]

Targets name server objects by type and id, e.g. Image:123 Dataset:4.
Supported types: Project, Dataset, Screen, Plate, Well, Image.

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Stream the full hierarchy of a dataset as N-Triples to stdout
  %s --server=https://idr.openmicroscopy.org Dataset:4

  # Write a single image as Turtle to a compressed file
  %s --server=https://idr.openmicroscopy.org --pretty --file=image.ttl.gz Image:123

  # Reshape IDR study annotations into Wikidata statements
  %s --server=https://idr.openmicroscopy.org --idr --wikidata-lookups Screen:3

Output formats: %v

Version: %s
`, os.Args[0], os.Args[0], os.Args[0], format.Names(), Version)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Utility function to check if slice contains string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
