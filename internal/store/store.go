// Package store persists graph snapshots into a queryable backend.
// Ingestion is merge-by-id: loading a snapshot twice leaves one copy.
package store

import (
	"context"
	"io"

	"github.com/tidemark-dev/repograph/internal/graph"
)

// Store is the graph backend. Implementations: KuzuStore (production,
// requires cgo), MemStore (testing and cgo-less builds).
type Store interface {
	io.Closer

	// InitSchema is called once before any data is loaded.
	InitSchema(ctx context.Context) error

	// MergeSnapshot upserts every node by id and every edge by
	// (from, to, type) key. Records already present are overwritten with
	// the incoming version.
	MergeSnapshot(ctx context.Context, data *graph.GraphData) error

	// GetNode returns the node with the given id, or nil when absent.
	GetNode(ctx context.Context, id string) (*graph.CodeNode, error)

	// QueryNodes returns nodes whose fqname contains query
	// (case-insensitive), up to limit results. limit <= 0 returns all.
	QueryNodes(ctx context.Context, query string, limit int) ([]graph.CodeNode, error)

	// Neighbors returns edges of the given kind touching id. Outgoing
	// when out is true, incoming otherwise.
	Neighbors(ctx context.Context, id string, kind graph.EdgeKind, out bool) ([]graph.CodeEdge, error)

	// Stats counts what the store currently holds.
	Stats(ctx context.Context) (graph.Stats, error)
}
