// Package diff compares two graph snapshots restricted to a changed-file
// set and partitions the difference into added, updated, and removed.
package diff

import (
	"slices"
	"time"

	"github.com/tidemark-dev/repograph/internal/graph"
)

// Compute diffs current against previous within the changed-file set.
// Nodes are in scope when their file is in the set; edges when either
// endpoint's node is. Entities outside the set are excluded from every
// partition, because their files were not re-scanned. Neither input
// snapshot is mutated.
func Compute(previous, current *graph.GraphData, commit string, changedFiles []string) *graph.DiffData {
	changed := make(map[string]bool, len(changedFiles))
	for _, f := range changedFiles {
		changed[f] = true
	}

	// Node file lookup spans both snapshots so a removed node's edges can
	// still be scoped.
	nodeFile := make(map[string]string, len(previous.Nodes)+len(current.Nodes))
	// Nodes are paired by (kind, fqname), not id: the id hashes the
	// signature, so matching on it would turn every signature change into
	// an unrelated removed+added pair instead of an update.
	prevNodes := make(map[string]graph.CodeNode, len(previous.Nodes))
	for _, n := range previous.Nodes {
		nodeFile[n.ID] = n.File
		prevNodes[nodeKey(n)] = n
	}
	curNodes := make(map[string]graph.CodeNode, len(current.Nodes))
	for _, n := range current.Nodes {
		nodeFile[n.ID] = n.File
		curNodes[nodeKey(n)] = n
	}

	nodeInScope := func(n graph.CodeNode) bool { return changed[n.File] }
	edgeInScope := func(e graph.CodeEdge) bool {
		return changed[nodeFile[e.From]] || changed[nodeFile[e.To]]
	}

	out := &graph.DiffData{
		Meta: graph.DiffMeta{
			Commit:    commit,
			Files:     slices.Clone(changedFiles),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	for _, n := range current.Nodes {
		if !nodeInScope(n) {
			continue
		}
		prev, ok := prevNodes[nodeKey(n)]
		switch {
		case !ok:
			out.Added.Nodes = append(out.Added.Nodes, n)
		case nodeChanged(prev, n):
			out.Updated.Nodes = append(out.Updated.Nodes, n)
		}
	}
	for _, n := range previous.Nodes {
		if !nodeInScope(n) {
			continue
		}
		if _, ok := curNodes[nodeKey(n)]; !ok {
			out.Removed.Nodes = append(out.Removed.Nodes, n.ID)
		}
	}

	prevEdges := make(map[string]graph.CodeEdge, len(previous.Edges))
	for _, e := range previous.Edges {
		prevEdges[e.Key()] = e
	}
	curEdges := make(map[string]graph.CodeEdge, len(current.Edges))
	for _, e := range current.Edges {
		curEdges[e.Key()] = e
	}

	for _, e := range current.Edges {
		if !edgeInScope(e) {
			continue
		}
		prev, ok := prevEdges[e.Key()]
		switch {
		case !ok:
			out.Added.Edges = append(out.Added.Edges, e)
		case edgeChanged(prev, e):
			out.Updated.Edges = append(out.Updated.Edges, e)
		}
	}
	for _, e := range previous.Edges {
		if !edgeInScope(e) {
			continue
		}
		if _, ok := curEdges[e.Key()]; !ok {
			out.Removed.Edges = append(out.Removed.Edges, e.Key())
		}
	}

	return out
}

func nodeKey(n graph.CodeNode) string {
	return string(n.Kind) + "\x00" + n.FQName
}

// nodeChanged reports whether any normalized field differs. A signature
// change implies a new id, so updated records can carry an id the
// previous snapshot never saw.
func nodeChanged(prev, cur graph.CodeNode) bool {
	return prev.Sig != cur.Sig ||
		prev.Short != cur.Short ||
		prev.Complexity != cur.Complexity ||
		!slices.Equal(prev.Tags, cur.Tags)
}

func edgeChanged(prev, cur graph.CodeEdge) bool {
	return prev.Count != cur.Count || !slices.Equal(prev.Locations, cur.Locations)
}
