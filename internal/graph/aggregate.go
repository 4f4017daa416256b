package graph

import (
	"sort"
	"sync"
)

// DefaultMaxCallSites bounds the locations list kept per CALLS edge. Hot
// call edges keep their first-seen sites; the count keeps incrementing past
// the cap.
const DefaultMaxCallSites = 32

// EdgeAggregator deduplicates draft edges by (from, to, type). It is safe
// for concurrent use; the scanner routes all draft edges through a single
// instance.
type EdgeAggregator struct {
	mu       sync.Mutex
	edges    map[string]*CodeEdge
	maxSites int
}

// NewEdgeAggregator creates an aggregator with the given cap on per-edge
// call-site locations. A cap <= 0 selects DefaultMaxCallSites.
func NewEdgeAggregator(maxSites int) *EdgeAggregator {
	if maxSites <= 0 {
		maxSites = DefaultMaxCallSites
	}
	return &EdgeAggregator{
		edges:    make(map[string]*CodeEdge),
		maxSites: maxSites,
	}
}

// Add merges one draft edge occurrence. On a key collision the count is
// incremented and, for CALLS edges, the new locations are appended in
// first-seen order up to the configured cap.
func (a *EdgeAggregator) Add(from, to string, kind EdgeKind, sites ...CallSite) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := from + "|" + to + "|" + string(kind)
	e, ok := a.edges[key]
	if !ok {
		e = &CodeEdge{From: from, To: to, Type: kind}
		a.edges[key] = e
	}
	e.Count++

	if kind != EdgeKindCalls {
		return
	}
	for _, s := range sites {
		if len(e.Locations) >= a.maxSites {
			break
		}
		e.Locations = append(e.Locations, s)
	}
}

// Edges returns the merged edge list sorted by key for reproducible output.
func (a *EdgeAggregator) Edges() []CodeEdge {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]CodeEdge, 0, len(a.edges))
	for _, e := range a.edges {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key() < out[j].Key()
	})
	return out
}

// Len returns the number of distinct edges merged so far.
func (a *EdgeAggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.edges)
}
