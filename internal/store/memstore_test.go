package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidemark-dev/repograph/internal/graph"
)

func testSnapshot() *graph.GraphData {
	return &graph.GraphData{
		Nodes: []graph.CodeNode{
			{ID: "f1", Kind: graph.NodeKindFile, FQName: "svc.go", File: "svc.go"},
			{ID: "n1", Kind: graph.NodeKindFunction, FQName: "svc.go:Fetch", Sig: "()", Complexity: 2, File: "svc.go"},
			{ID: "n2", Kind: graph.NodeKindFunction, FQName: "svc.go:Store", Sig: "()", Complexity: 1, File: "svc.go"},
		},
		Edges: []graph.CodeEdge{
			{From: "f1", To: "n1", Type: graph.EdgeKindContains, Count: 1},
			{From: "n1", To: "n2", Type: graph.EdgeKindCalls, Count: 2,
				Locations: []graph.CallSite{{File: "svc.go", Line: 14}}},
		},
	}
}

func TestMemStoreMergeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	require.NoError(t, s.InitSchema(ctx))

	require.NoError(t, s.MergeSnapshot(ctx, testSnapshot()))
	require.NoError(t, s.MergeSnapshot(ctx, testSnapshot()))

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Nodes)
	assert.Equal(t, 2, st.Edges)
	assert.Equal(t, 1, st.Files)
	assert.Equal(t, 1, st.Calls)
}

func TestMemStoreMergeOverwritesByID(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	require.NoError(t, s.MergeSnapshot(ctx, testSnapshot()))

	update := &graph.GraphData{Nodes: []graph.CodeNode{
		{ID: "n1", Kind: graph.NodeKindFunction, FQName: "svc.go:Fetch", Sig: "()", Complexity: 7, File: "svc.go"},
	}}
	require.NoError(t, s.MergeSnapshot(ctx, update))

	n, err := s.GetNode(ctx, "n1")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, 7, n.Complexity)
}

func TestMemStoreGetNodeMissing(t *testing.T) {
	n, err := NewMemStore().GetNode(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestMemStoreQueryNodes(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	require.NoError(t, s.MergeSnapshot(ctx, testSnapshot()))

	nodes, err := s.QueryNodes(ctx, "FETCH", 0)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "svc.go:Fetch", nodes[0].FQName)

	all, err := s.QueryNodes(ctx, "svc.go", 2)
	require.NoError(t, err)
	assert.Len(t, all, 2) // limit applied after fqname sort
}

func TestMemStoreNeighbors(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	require.NoError(t, s.MergeSnapshot(ctx, testSnapshot()))

	callers, err := s.Neighbors(ctx, "n2", graph.EdgeKindCalls, false)
	require.NoError(t, err)
	require.Len(t, callers, 1)
	assert.Equal(t, "n1", callers[0].From)
	assert.Equal(t, 2, callers[0].Count)

	contains, err := s.Neighbors(ctx, "f1", graph.EdgeKindContains, true)
	require.NoError(t, err)
	require.Len(t, contains, 1)
	assert.Equal(t, "n1", contains[0].To)

	none, err := s.Neighbors(ctx, "n1", graph.EdgeKindImports, true)
	require.NoError(t, err)
	assert.Empty(t, none)
}
