package emit

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidemark-dev/repograph/internal/graph"
)

func sampleData() *graph.GraphData {
	return &graph.GraphData{
		Nodes: []graph.CodeNode{
			{
				ID: "aaaa", Kind: graph.NodeKindFunction,
				FQName: "svc.go:Fetch", Sig: "(url string) -> []byte",
				Short:      "fetches the payload,\nwith \"retries\"",
				Complexity: 3, TokensEst: 12,
				Tags: []graph.Tag{graph.TagIO, graph.TagNetwork},
				File: "svc.go", StartLine: 10, EndLine: 30,
			},
			{
				ID: "bbbb", Kind: graph.NodeKindFile,
				FQName: "svc.go", File: "svc.go", Tags: nil,
			},
		},
		Edges: []graph.CodeEdge{
			{
				From: "bbbb", To: "aaaa", Type: graph.EdgeKindCalls, Count: 2,
				Locations: []graph.CallSite{{File: "svc.go", Line: 12}, {File: "svc.go", Line: 19}},
			},
			{From: "bbbb", To: "aaaa", Type: graph.EdgeKindContains, Count: 1},
		},
	}
}

func TestWriteBulk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteBulk(sampleData(), dir))

	nodes := readCSV(t, filepath.Join(dir, "nodes.csv"))
	require.Len(t, nodes, 3)
	assert.Equal(t, nodeColumns, nodes[0])

	fetch := nodes[1]
	assert.Equal(t, "aaaa", fetch[0])
	assert.Equal(t, "Function", fetch[1])
	// Embedded newline flattened, quotes preserved by the CSV layer.
	assert.Equal(t, `fetches the payload, with "retries"`, fetch[4])
	assert.Equal(t, "IO;NETWORK", fetch[7])
	assert.Equal(t, []graph.Tag{graph.TagIO, graph.TagNetwork}, SplitTags(fetch[7]))

	edges := readCSV(t, filepath.Join(dir, "edges.csv"))
	require.Len(t, edges, 3)
	assert.Equal(t, edgeColumns, edges[0])

	var sites []graph.CallSite
	require.NoError(t, json.Unmarshal([]byte(edges[1][4]), &sites))
	assert.Equal(t, []graph.CallSite{{File: "svc.go", Line: 12}, {File: "svc.go", Line: 19}}, sites)
	assert.Equal(t, "[]", edges[2][4])
}

func TestWriteBatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteBatch(sampleData(), dir, "nightly"))

	var doc BatchDocument
	readJSON(t, filepath.Join(dir, "batch.json"), &doc)
	assert.Equal(t, "nightly", doc.Tag)
	assert.NotEmpty(t, doc.GeneratedAt)
	assert.Len(t, doc.Nodes, 2)
	assert.Len(t, doc.Edges, 2)
}

func TestReadBatchRoundTrip(t *testing.T) {
	dir := t.TempDir()
	data := sampleData()
	require.NoError(t, WriteBatch(data, dir, "rt"))

	got, err := ReadBatch(filepath.Join(dir, "batch.json"))
	require.NoError(t, err)
	assert.Equal(t, data.Nodes, got.Nodes)
	assert.Equal(t, data.Edges, got.Edges)

	_, err = ReadBatch(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestWriteBatchDefaultTag(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteBatch(sampleData(), dir, ""))

	var doc BatchDocument
	readJSON(t, filepath.Join(dir, "batch.json"), &doc)
	assert.Equal(t, doc.GeneratedAt, doc.Tag)
}

func TestWriteDiff(t *testing.T) {
	dir := t.TempDir()
	d := &graph.DiffData{
		Meta:    graph.DiffMeta{Commit: "abc1234", Files: []string{"svc.go"}, Timestamp: "2026-01-01T00:00:00Z"},
		Added:   *sampleData(),
		Removed: graph.RemovedData{Nodes: []string{"dead"}, Edges: []string{"x|y|CALLS"}},
	}
	require.NoError(t, WriteDiff(d, dir))

	var got graph.DiffData
	readJSON(t, filepath.Join(dir, "diff.json"), &got)
	assert.Equal(t, "abc1234", got.Meta.Commit)
	assert.Equal(t, []string{"dead"}, got.Removed.Nodes)
	assert.Len(t, got.Added.Nodes, 2)
}

func TestWriteAtomicLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeAtomic(filepath.Join(dir, "out.txt"), []byte("hello")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.txt", entries[0].Name())

	// Overwrite is last-run-wins.
	require.NoError(t, writeAtomic(filepath.Join(dir, "out.txt"), []byte("bye")))
	b, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "bye", string(b))
}

func TestEmittersDoNotMutateInput(t *testing.T) {
	data := sampleData()
	short := data.Nodes[0].Short
	require.NoError(t, WriteBulk(data, t.TempDir()))
	require.NoError(t, WriteBatch(data, t.TempDir(), "t"))
	assert.Equal(t, short, data.Nodes[0].Short)
	assert.True(t, strings.Contains(short, "\n"))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return recs
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, v))
}
