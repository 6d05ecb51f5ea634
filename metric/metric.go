// Package metric provides prometheus instrumentation for export runs.
package metric

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains the exporter-level metrics for one process.
type Metrics struct {
	TriplesEmitted     *prometheus.CounterVec
	TriplesDropped     prometheus.Counter
	ObjectsVisited     *prometheus.CounterVec
	VisitsSkipped      prometheus.Counter
	AnnotationsClaimed *prometheus.CounterVec
	ExportDuration     *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all exporter metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		TriplesEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "omero_rdf",
				Subsystem: "triples",
				Name:      "emitted_total",
				Help:      "Total number of triples forwarded to the output sink",
			},
			[]string{"format"},
		),
		TriplesDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "omero_rdf",
				Subsystem: "triples",
				Name:      "dropped_total",
				Help:      "Total number of partial triples dropped before the sink",
			},
		),
		ObjectsVisited: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "omero_rdf",
				Subsystem: "objects",
				Name:      "visited_total",
				Help:      "Total number of subjects expanded by the generator",
			},
			[]string{"type"},
		),
		VisitsSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "omero_rdf",
				Subsystem: "objects",
				Name:      "visits_skipped_total",
				Help:      "Total number of re-encounters short-circuited by the visited set",
			},
		),
		AnnotationsClaimed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "omero_rdf",
				Subsystem: "annotations",
				Name:      "claimed_total",
				Help:      "Total number of annotation payloads claimed, by handler",
			},
			[]string{"handler"},
		),
		ExportDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "omero_rdf",
				Subsystem: "export",
				Name:      "duration_seconds",
				Help:      "Wall-clock duration of one target export",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"target_type"},
		),
	}
}

// Register registers all metrics with the given registerer.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.TriplesEmitted,
		m.TriplesDropped,
		m.ObjectsVisited,
		m.VisitsSkipped,
		m.AnnotationsClaimed,
		m.ExportDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("registering collector: %w", err)
		}
	}
	return nil
}

// Serve exposes the registry on /metrics at the given port until the server
// fails. Intended to be run in a goroutine for long exports; a port of 0
// disables serving.
func Serve(reg *prometheus.Registry, port int, logger *slog.Logger) {
	if port == 0 {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("serving metrics", "port", port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server failed", "error", err)
	}
}
