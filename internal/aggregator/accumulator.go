package aggregator

import "github.com/passfinder/passfinder/internal/model"

// accumulator collects passes for a single Resolve call. It is not safe
// for concurrent use and must not outlive the call.
type accumulator struct {
	seen   map[uint64]struct{}
	passes []model.Gamepass
}

func newAccumulator() *accumulator {
	return &accumulator{seen: make(map[uint64]struct{})}
}

// Add appends p unless it has no positive price or its id was already seen.
func (a *accumulator) Add(p model.Gamepass) bool {
	if !p.IsForSale() {
		return false
	}
	if _, dup := a.seen[p.ID]; dup {
		return false
	}
	a.seen[p.ID] = struct{}{}
	a.passes = append(a.passes, p)
	return true
}

// Len returns the number of accepted passes.
func (a *accumulator) Len() int {
	return len(a.passes)
}

// Passes returns the accepted passes in discovery order.
func (a *accumulator) Passes() []model.Gamepass {
	out := make([]model.Gamepass, len(a.passes))
	copy(out, a.passes)
	return out
}
