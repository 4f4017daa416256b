package mcptools

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tidemark-dev/repograph/internal/diff"
	"github.com/tidemark-dev/repograph/internal/gitx"
	"github.com/tidemark-dev/repograph/internal/graph"
	"github.com/tidemark-dev/repograph/internal/scan"
	"github.com/tidemark-dev/repograph/internal/store"
)

// GraphService holds the store, scanner, and last snapshot used by MCP
// tool handlers.
type GraphService struct {
	store   store.Store
	scanner *scan.Scanner

	mu   sync.Mutex
	last *graph.GraphData // most recent snapshot, diff baseline
}

// NewGraphService creates a GraphService over the given store and scanner.
func NewGraphService(st store.Store, scanner *scan.Scanner) *GraphService {
	return &GraphService{store: st, scanner: scanner}
}

// ScanRepo scans a repository, merges the snapshot into the store, and
// keeps it as the baseline for diff_snapshots.
func (s *GraphService) ScanRepo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ScanRepoInput,
) (*mcp.CallToolResult, ScanRepoOutput, error) {
	data, err := s.runScan(ctx, input.RepoPath, input.Languages, input.ExcludeDirs)
	if err != nil {
		return nil, ScanRepoOutput{}, err
	}

	if err := s.store.InitSchema(ctx); err != nil {
		return nil, ScanRepoOutput{}, fmt.Errorf("init schema: %w", err)
	}
	if err := s.store.MergeSnapshot(ctx, data); err != nil {
		return nil, ScanRepoOutput{}, fmt.Errorf("merge snapshot: %w", err)
	}

	s.mu.Lock()
	s.last = data
	s.mu.Unlock()

	return nil, ScanRepoOutput{Stats: data.ComputeStats()}, nil
}

// QueryNodes searches stored nodes by fqname substring match.
func (s *GraphService) QueryNodes(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryNodesInput,
) (*mcp.CallToolResult, QueryNodesOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	nodes, err := s.store.QueryNodes(ctx, input.Query, limit)
	if err != nil {
		return nil, QueryNodesOutput{}, fmt.Errorf("query nodes: %w", err)
	}

	if input.Kind != "" {
		kind := graph.NodeKind(input.Kind)
		filtered := nodes[:0]
		for _, n := range nodes {
			if n.Kind == kind {
				filtered = append(filtered, n)
			}
		}
		nodes = filtered
	}

	return nil, QueryNodesOutput{Nodes: nodes, Total: len(nodes)}, nil
}

// GetNeighbors returns edges of one kind touching a node.
func (s *GraphService) GetNeighbors(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetNeighborsInput,
) (*mcp.CallToolResult, GetNeighborsOutput, error) {
	if input.NodeID == "" {
		return nil, GetNeighborsOutput{}, fmt.Errorf("nodeId is required")
	}

	kind := graph.EdgeKindCalls
	if input.EdgeType != "" {
		kind = graph.EdgeKind(strings.ToUpper(input.EdgeType))
	}
	out := !strings.EqualFold(input.Direction, "in")

	edges, err := s.store.Neighbors(ctx, input.NodeID, kind, out)
	if err != nil {
		return nil, GetNeighborsOutput{}, fmt.Errorf("neighbors: %w", err)
	}
	return nil, GetNeighborsOutput{Edges: edges}, nil
}

// DiffSnapshots re-scans the repository and diffs against the baseline
// from the previous scan_repo call, scoped to the files git reports
// changed since ref. The fresh snapshot becomes the new baseline.
func (s *GraphService) DiffSnapshots(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DiffSnapshotsInput,
) (*mcp.CallToolResult, DiffSnapshotsOutput, error) {
	s.mu.Lock()
	previous := s.last
	s.mu.Unlock()
	if previous == nil {
		return nil, DiffSnapshotsOutput{}, fmt.Errorf("no baseline snapshot: call scan_repo first")
	}

	ref := input.Ref
	if ref == "" {
		ref = "HEAD"
	}
	changed, err := gitx.ChangedFiles(input.RepoPath, ref)
	if err != nil {
		return nil, DiffSnapshotsOutput{}, fmt.Errorf("changed files: %w", err)
	}
	commit, err := gitx.Head(input.RepoPath)
	if err != nil {
		return nil, DiffSnapshotsOutput{}, fmt.Errorf("resolve commit: %w", err)
	}

	current, err := s.runScan(ctx, input.RepoPath, nil, nil)
	if err != nil {
		return nil, DiffSnapshotsOutput{}, err
	}

	d := diff.Compute(previous, current, commit, changed)

	s.mu.Lock()
	s.last = current
	s.mu.Unlock()

	return nil, DiffSnapshotsOutput{Diff: *d}, nil
}

func (s *GraphService) runScan(ctx context.Context, repoPath string, languages, excludeDirs []string) (*graph.GraphData, error) {
	if repoPath == "" {
		return nil, fmt.Errorf("repoPath is required")
	}
	info, err := os.Stat(repoPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access repoPath: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("repoPath is not a directory: %s", repoPath)
	}

	var langs []graph.Language
	for _, l := range languages {
		langs = append(langs, graph.Language(strings.ToLower(l)))
	}

	data, err := s.scanner.Scan(ctx, repoPath, scan.Options{
		Languages:    langs,
		ExcludeDirs:  excludeDirs,
		UseGitignore: true,
	})
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return data, nil
}
