package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// LabeledCount is a counter value for one label pair.
type LabeledCount struct {
	Name    string
	Outcome string
	Count   uint64
}

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UpstreamRequests       []LabeledCount
	SourceResults          []LabeledCount
	ResolveDurationCount   uint64
	ResolveDurationTotalNs int64
	ResolveEmpty           uint64
	CacheHits              uint64
	CacheMisses            uint64
}

type labelKey struct {
	name    string
	outcome string
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	mu               sync.Mutex
	upstreamRequests map[labelKey]uint64
	sourceResults    map[labelKey]uint64

	resolveDurationCount   uint64
	resolveDurationTotalNs int64
	resolveEmpty           uint64
	cacheHits              uint64
	cacheMisses            uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		upstreamRequests: make(map[labelKey]uint64),
		sourceResults:    make(map[labelKey]uint64),
	}
}

// Snapshot returns a copy of the counters. Labeled counters are sorted by
// name then outcome.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	upstream := flatten(m.upstreamRequests)
	sources := flatten(m.sourceResults)
	m.mu.Unlock()

	return Snapshot{
		UpstreamRequests:       upstream,
		SourceResults:          sources,
		ResolveDurationCount:   atomic.LoadUint64(&m.resolveDurationCount),
		ResolveDurationTotalNs: atomic.LoadInt64(&m.resolveDurationTotalNs),
		ResolveEmpty:           atomic.LoadUint64(&m.resolveEmpty),
		CacheHits:              atomic.LoadUint64(&m.cacheHits),
		CacheMisses:            atomic.LoadUint64(&m.cacheMisses),
	}
}

// IncUpstreamRequest increments the upstream request counter.
func (m *InMemoryRecorder) IncUpstreamRequest(endpoint, outcome string) {
	m.mu.Lock()
	m.upstreamRequests[labelKey{endpoint, outcome}]++
	m.mu.Unlock()
}

// IncSourceResult increments the per-source outcome counter.
func (m *InMemoryRecorder) IncSourceResult(source, outcome string) {
	m.mu.Lock()
	m.sourceResults[labelKey{source, outcome}]++
	m.mu.Unlock()
}

// ObserveResolveDuration records aggregation duration.
func (m *InMemoryRecorder) ObserveResolveDuration(duration time.Duration) {
	atomic.AddUint64(&m.resolveDurationCount, 1)
	atomic.AddInt64(&m.resolveDurationTotalNs, duration.Nanoseconds())
}

// IncResolveEmpty increments the empty result counter.
func (m *InMemoryRecorder) IncResolveEmpty() {
	atomic.AddUint64(&m.resolveEmpty, 1)
}

// IncCacheHit increments cache hit counter.
func (m *InMemoryRecorder) IncCacheHit() {
	atomic.AddUint64(&m.cacheHits, 1)
}

// IncCacheMiss increments cache miss counter.
func (m *InMemoryRecorder) IncCacheMiss() {
	atomic.AddUint64(&m.cacheMisses, 1)
}

func flatten(counts map[labelKey]uint64) []LabeledCount {
	out := make([]LabeledCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, LabeledCount{Name: k.name, Outcome: k.outcome, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Outcome < out[j].Outcome
	})
	return out
}

// Count returns the value of a labeled counter, or 0 if absent.
func Count(counts []LabeledCount, name, outcome string) uint64 {
	for _, c := range counts {
		if c.Name == name && c.Outcome == outcome {
			return c.Count
		}
	}
	return 0
}
