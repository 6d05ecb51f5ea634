// Package metric provides prometheus instrumentation for export runs.
//
// # Overview
//
// The generator and sink layers report counters for emitted and dropped
// triples, subjects expanded, visited-set short-circuits, and annotation
// payloads claimed per handler. Metrics are optional: a nil *Metrics on the
// Handler disables all accounting.
//
// # Quick Start
//
//	reg := prometheus.NewRegistry()
//	m := metric.NewMetrics()
//	if err := m.Register(reg); err != nil {
//	    return err
//	}
//	go metric.Serve(reg, cfg.Metrics.Port, logger)
package metric
