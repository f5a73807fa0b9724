package handler

import (
	"fmt"
	"net/http"

	"github.com/passfinder/passfinder/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	for _, c := range snap.UpstreamRequests {
		writeMetric(w, "passfinder_upstream_requests_total{endpoint=%q,outcome=%q} %d\n", c.Name, c.Outcome, c.Count)
	}
	for _, c := range snap.SourceResults {
		writeMetric(w, "passfinder_source_results_total{source=%q,outcome=%q} %d\n", c.Name, c.Outcome, c.Count)
	}

	writeMetric(w, "passfinder_resolve_duration_seconds_count %d\n", snap.ResolveDurationCount)
	writeMetric(w, "passfinder_resolve_duration_seconds_sum %.6f\n", float64(snap.ResolveDurationTotalNs)/1e9)
	writeMetric(w, "passfinder_resolve_empty_total %d\n", snap.ResolveEmpty)

	writeMetric(w, "passfinder_result_cache_hits_total %d\n", snap.CacheHits)
	writeMetric(w, "passfinder_result_cache_misses_total %d\n", snap.CacheMisses)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
