package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUpstreamRequest is a no-op.
func (n *NoopRecorder) IncUpstreamRequest(endpoint, outcome string) {}

// IncSourceResult is a no-op.
func (n *NoopRecorder) IncSourceResult(source, outcome string) {}

// ObserveResolveDuration is a no-op.
func (n *NoopRecorder) ObserveResolveDuration(duration time.Duration) {}

// IncResolveEmpty is a no-op.
func (n *NoopRecorder) IncResolveEmpty() {}

// IncCacheHit is a no-op.
func (n *NoopRecorder) IncCacheHit() {}

// IncCacheMiss is a no-op.
func (n *NoopRecorder) IncCacheMiss() {}
