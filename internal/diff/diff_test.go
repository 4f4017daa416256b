package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidemark-dev/repograph/internal/graph"
)

func fnNode(file, name, sig string) graph.CodeNode {
	fq := file + ":" + name
	return graph.CodeNode{
		ID:         graph.NodeID(fq, sig),
		Kind:       graph.NodeKindFunction,
		FQName:     fq,
		Sig:        sig,
		Complexity: 1,
		Tags:       []graph.Tag{graph.TagPure},
		File:       file,
	}
}

func snapshot(nodes []graph.CodeNode, edges []graph.CodeEdge) *graph.GraphData {
	return &graph.GraphData{Nodes: nodes, Edges: edges}
}

func TestComputeAddedUpdatedRemoved(t *testing.T) {
	a1 := fnNode("svc.go", "Alpha", "(x int)")
	b := fnNode("svc.go", "Beta", "()")
	a2 := fnNode("svc.go", "Alpha", "(x int, y int)") // signature changed, new id
	c := fnNode("svc.go", "Gamma", "()")

	// Alpha kept its fqname through a signature change, so it is updated
	// under its new id. Beta was deleted, Gamma is new.
	d := Compute(
		snapshot([]graph.CodeNode{a1, b}, nil),
		snapshot([]graph.CodeNode{a2, c}, nil),
		"abc1234", []string{"svc.go"},
	)

	assert.Equal(t, []string{c.ID}, nodeIDs(d.Added.Nodes))
	require.Len(t, d.Updated.Nodes, 1)
	assert.Equal(t, a2.ID, d.Updated.Nodes[0].ID)
	assert.Equal(t, "(x int, y int)", d.Updated.Nodes[0].Sig)
	assert.Equal(t, []string{b.ID}, d.Removed.Nodes)

	assert.Equal(t, "abc1234", d.Meta.Commit)
	assert.Equal(t, []string{"svc.go"}, d.Meta.Files)
	assert.NotEmpty(t, d.Meta.Timestamp)
}

func TestComputeUpdatedNodeSameID(t *testing.T) {
	before := fnNode("svc.go", "Alpha", "(x int)")
	after := before
	after.Complexity = 5
	after.Tags = []graph.Tag{graph.TagIO}

	d := Compute(
		snapshot([]graph.CodeNode{before}, nil),
		snapshot([]graph.CodeNode{after}, nil),
		"", []string{"svc.go"},
	)

	require.Len(t, d.Updated.Nodes, 1)
	// Full current record, not the previous one.
	assert.Equal(t, 5, d.Updated.Nodes[0].Complexity)
	assert.Empty(t, d.Added.Nodes)
	assert.Empty(t, d.Removed.Nodes)
}

func TestComputeScopeExcludesUnchangedFiles(t *testing.T) {
	inScope := fnNode("changed.go", "A", "()")
	outScope := fnNode("stable.go", "B", "()")
	outScopeDrift := outScope
	outScopeDrift.Complexity = 9

	d := Compute(
		snapshot([]graph.CodeNode{inScope, outScope}, nil),
		snapshot([]graph.CodeNode{outScopeDrift}, nil),
		"", []string{"changed.go"},
	)

	// stable.go was not re-scanned: its drift and would-be removal are
	// both invisible.
	assert.Empty(t, d.Added.Nodes)
	assert.Empty(t, d.Updated.Nodes)
	assert.Equal(t, []string{inScope.ID}, d.Removed.Nodes)
}

func TestComputeEdges(t *testing.T) {
	caller := fnNode("changed.go", "Caller", "()")
	callee := fnNode("stable.go", "Callee", "()")
	gone := fnNode("changed.go", "Gone", "()")

	callEdge := func(count int, lines ...int) graph.CodeEdge {
		e := graph.CodeEdge{From: caller.ID, To: callee.ID, Type: graph.EdgeKindCalls, Count: count}
		for _, l := range lines {
			e.Locations = append(e.Locations, graph.CallSite{File: "changed.go", Line: l})
		}
		return e
	}
	removedEdge := graph.CodeEdge{From: gone.ID, To: callee.ID, Type: graph.EdgeKindCalls, Count: 1}

	d := Compute(
		snapshot([]graph.CodeNode{caller, callee, gone}, []graph.CodeEdge{callEdge(1, 4), removedEdge}),
		snapshot([]graph.CodeNode{caller, callee}, []graph.CodeEdge{callEdge(2, 4, 9)}),
		"", []string{"changed.go"},
	)

	// A second call site makes the existing edge "updated".
	require.Len(t, d.Updated.Edges, 1)
	assert.Equal(t, 2, d.Updated.Edges[0].Count)

	// The removed edge is scoped in via its from-endpoint, which only
	// exists in the previous snapshot.
	assert.Equal(t, []string{removedEdge.Key()}, d.Removed.Edges)
	assert.Empty(t, d.Added.Edges)
}

func TestComputeDoesNotMutateInputs(t *testing.T) {
	n := fnNode("svc.go", "A", "()")
	prev := snapshot([]graph.CodeNode{n}, nil)
	cur := snapshot([]graph.CodeNode{n}, nil)

	files := []string{"svc.go"}
	d := Compute(prev, cur, "", files)
	d.Meta.Files[0] = "clobbered"

	assert.Equal(t, "svc.go", files[0])
	assert.Len(t, prev.Nodes, 1)
	assert.Len(t, cur.Nodes, 1)
}

func nodeIDs(nodes []graph.CodeNode) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
