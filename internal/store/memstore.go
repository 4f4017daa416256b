package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/tidemark-dev/repograph/internal/graph"
)

var _ Store = (*MemStore)(nil)

// MemStore implements Store with Go maps. Thread-safe via sync.RWMutex.
type MemStore struct {
	mu    sync.RWMutex
	nodes map[string]graph.CodeNode
	edges map[string]graph.CodeEdge
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{
		nodes: make(map[string]graph.CodeNode),
		edges: make(map[string]graph.CodeEdge),
	}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

// MergeSnapshot upserts all nodes and edges from data.
func (m *MemStore) MergeSnapshot(_ context.Context, data *graph.GraphData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range data.Nodes {
		m.nodes[n.ID] = n
	}
	for _, e := range data.Edges {
		m.edges[e.Key()] = e
	}
	return nil
}

// GetNode returns the node for id, or nil when absent.
func (m *MemStore) GetNode(_ context.Context, id string) (*graph.CodeNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

// QueryNodes returns nodes whose fqname contains query, sorted by fqname
// for stable output.
func (m *MemStore) QueryNodes(_ context.Context, query string, limit int) ([]graph.CodeNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q := strings.ToLower(query)
	var out []graph.CodeNode
	for _, n := range m.nodes {
		if strings.Contains(strings.ToLower(n.FQName), q) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FQName < out[j].FQName })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Neighbors returns edges of kind touching id in the given direction.
func (m *MemStore) Neighbors(_ context.Context, id string, kind graph.EdgeKind, out bool) ([]graph.CodeEdge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []graph.CodeEdge
	for _, e := range m.edges {
		if e.Type != kind {
			continue
		}
		if (out && e.From == id) || (!out && e.To == id) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key() < result[j].Key() })
	return result, nil
}

// Stats counts held nodes and edges by kind.
func (m *MemStore) Stats(_ context.Context) (graph.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := graph.Stats{Nodes: len(m.nodes), Edges: len(m.edges)}
	for _, n := range m.nodes {
		if n.Kind == graph.NodeKindFile {
			s.Files++
		}
	}
	for _, e := range m.edges {
		switch e.Type {
		case graph.EdgeKindCalls:
			s.Calls++
		case graph.EdgeKindImports:
			s.Imports++
		}
	}
	return s, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}
