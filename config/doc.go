// Package config loads, validates, and defaults exporter configuration.
//
// # Overview
//
// Config mirrors the CLI surface: a server section locating the JSON API, an
// export section controlling triple generation, an output section for the
// destination, plus optional nats and metrics sections. DefaultConfig gives
// a working configuration that streams N-Triples to stdout; Load merges a
// JSON or YAML file over those defaults, after checking the raw document
// against an embedded JSON schema so unknown keys are rejected instead of
// ignored. Flags are applied on top by the caller.
package config
