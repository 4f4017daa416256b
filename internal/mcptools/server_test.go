package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidemark-dev/repograph/internal/graph"
	"github.com/tidemark-dev/repograph/internal/scan"
	"github.com/tidemark-dev/repograph/internal/store"
)

// stubParser fabricates one function declaration per file, so the MCP
// pipeline can be exercised without tree-sitter.
type stubParser struct{}

func (stubParser) Parse(_ context.Context, path string, _ []byte, lang graph.Language) (*graph.ParseResult, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &graph.ParseResult{
		Path: path,
		Lang: lang,
		Decls: []graph.DeclDraft{{
			Kind:      graph.NodeKindFunction,
			Name:      base,
			StartLine: 1,
			EndLine:   2,
		}},
	}, nil
}

func (stubParser) Languages() []graph.Language { return graph.SupportedLanguages }
func (stubParser) Close() error                { return nil }

// setupServerClient wires an MCP server and client together using in-memory
// transports and returns the connected client session plus a fixture repo.
func setupServerClient(t *testing.T) (*mcp.ClientSession, string) {
	t.Helper()

	repo := t.TempDir()
	for i, name := range []string{"alpha.go", "beta.go"} {
		content := fmt.Sprintf("package main // %d\n", i)
		require.NoError(t, os.WriteFile(filepath.Join(repo, name), []byte(content), 0o644))
	}

	scanner := scan.New(func() graph.Parser { return stubParser{} },
		slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	svc := NewGraphService(store.NewMemStore(), scanner)
	server := NewGraphMCPServer(svc)

	st, ct := mcp.NewInMemoryTransports()
	ctx := context.Background()

	_, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		session.Close()
	})

	return session, repo
}

func callTool[T any](t *testing.T, session *mcp.ClientSession, name string, args any) T {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.False(t, result.IsError, "%s should not return an error", name)
	require.NotNil(t, result.StructuredContent)

	raw, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestMCPListTools(t *testing.T) {
	session, _ := setupServerClient(t)

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)
	require.Len(t, result.Tools, 4, "expected 4 registered tools")

	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
	}
	sort.Strings(names)
	assert.Equal(t, []string{"diff_snapshots", "get_neighbors", "query_nodes", "scan_repo"}, names)
}

func TestMCPScanRepo(t *testing.T) {
	session, repo := setupServerClient(t)

	out := callTool[ScanRepoOutput](t, session, "scan_repo", ScanRepoInput{RepoPath: repo})
	assert.Equal(t, 2, out.Stats.Files)
	assert.Equal(t, 4, out.Stats.Nodes, "a file node and a function node per source file")
	assert.Equal(t, 2, out.Stats.Edges)
}

func TestMCPQueryNodes(t *testing.T) {
	session, repo := setupServerClient(t)

	callTool[ScanRepoOutput](t, session, "scan_repo", ScanRepoInput{RepoPath: repo})

	out := callTool[QueryNodesOutput](t, session, "query_nodes", QueryNodesInput{
		Query: "alpha",
		Kind:  "Function",
	})
	require.Equal(t, 1, out.Total)
	assert.Equal(t, "alpha.go:alpha", out.Nodes[0].FQName)
}

func TestMCPGetNeighbors(t *testing.T) {
	session, repo := setupServerClient(t)

	callTool[ScanRepoOutput](t, session, "scan_repo", ScanRepoInput{RepoPath: repo})

	q := callTool[QueryNodesOutput](t, session, "query_nodes", QueryNodesInput{Query: "alpha", Kind: "File"})
	require.Equal(t, 1, q.Total)

	out := callTool[GetNeighborsOutput](t, session, "get_neighbors", GetNeighborsInput{
		NodeID:   q.Nodes[0].ID,
		EdgeType: "CONTAINS",
	})
	require.Len(t, out.Edges, 1)
	assert.Equal(t, graph.EdgeKindContains, out.Edges[0].Type)
}

func TestMCPDiffWithoutBaseline(t *testing.T) {
	session, repo := setupServerClient(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "diff_snapshots",
		Arguments: DiffSnapshotsInput{RepoPath: repo},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError, "diff before any scan must fail")
}

func TestMCPScanRepoBadPath(t *testing.T) {
	session, _ := setupServerClient(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "scan_repo",
		Arguments: ScanRepoInput{RepoPath: "/does/not/exist"},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
