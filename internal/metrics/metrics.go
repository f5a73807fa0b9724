// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Upstream call outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeTransportError = "transport_error"
	OutcomeStatusError    = "status_error"
	OutcomeDecodeError    = "decode_error"
)

// Source outcomes.
const (
	SourceHit    = "hit"
	SourceEmpty  = "empty"
	SourceFailed = "failed"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Upstream metrics
	IncUpstreamRequest(endpoint, outcome string)

	// Aggregation metrics
	IncSourceResult(source, outcome string)
	ObserveResolveDuration(duration time.Duration)
	IncResolveEmpty()

	// Result cache metrics
	IncCacheHit()
	IncCacheMiss()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
