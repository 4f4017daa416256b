package mcptools

import "github.com/tidemark-dev/repograph/internal/graph"

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// ScanRepoInput is the input for the scan_repo MCP tool.
type ScanRepoInput struct {
	RepoPath    string   `json:"repoPath" jsonschema:"the absolute path to the repository to scan"`
	Languages   []string `json:"languages,omitempty" jsonschema:"languages to scan (default: all). Values: go, typescript, python, rust"`
	ExcludeDirs []string `json:"excludeDirs,omitempty" jsonschema:"directories to exclude from scanning (e.g. vendor, node_modules)"`
}

// ScanRepoOutput is the result of the scan_repo MCP tool.
type ScanRepoOutput struct {
	Stats graph.Stats `json:"stats"`
}

// QueryNodesInput is the input for the query_nodes MCP tool.
type QueryNodesInput struct {
	Query string `json:"query" jsonschema:"search query for qualified node names (substring match)"`
	Kind  string `json:"kind,omitempty" jsonschema:"filter by node kind: File, Function, Method, Class, Interface, Type"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results (default: 20)"`
}

// QueryNodesOutput is the result of the query_nodes MCP tool.
type QueryNodesOutput struct {
	Nodes []graph.CodeNode `json:"nodes"`
	Total int              `json:"total"`
}

// GetNeighborsInput is the input for the get_neighbors MCP tool.
type GetNeighborsInput struct {
	NodeID    string `json:"nodeId" jsonschema:"node id to look up"`
	EdgeType  string `json:"edgeType,omitempty" jsonschema:"edge kind to follow: IMPORTS, CALLS, CONTAINS, EXTENDS, IMPLEMENTS. Default: CALLS"`
	Direction string `json:"direction,omitempty" jsonschema:"out (edges leaving the node) or in (edges arriving). Default: out"`
}

// GetNeighborsOutput is the result of the get_neighbors MCP tool.
type GetNeighborsOutput struct {
	Edges []graph.CodeEdge `json:"edges"`
}

// DiffSnapshotsInput is the input for the diff_snapshots MCP tool.
type DiffSnapshotsInput struct {
	RepoPath string `json:"repoPath" jsonschema:"the absolute path to the repository to diff"`
	Ref      string `json:"ref,omitempty" jsonschema:"git reference the changed-file set is computed against (default: HEAD)"`
}

// DiffSnapshotsOutput is the result of the diff_snapshots MCP tool.
type DiffSnapshotsOutput struct {
	Diff graph.DiffData `json:"diff"`
}
