package graph

// --- Enums ---

// NodeKind classifies nodes in the code graph. The set is closed: every
// CodeNode carries exactly one kind.
type NodeKind string

const (
	NodeKindFile      NodeKind = "File"
	NodeKindModule    NodeKind = "Module"
	NodeKindFunction  NodeKind = "Function"
	NodeKindMethod    NodeKind = "Method"
	NodeKindClass     NodeKind = "Class"
	NodeKindInterface NodeKind = "Interface"
	NodeKindType      NodeKind = "Type"
)

// Executable reports whether nodes of this kind carry control flow and
// therefore a cyclomatic complexity of at least 1. Declarative kinds are
// never walked and stay at 0.
func (k NodeKind) Executable() bool {
	return k == NodeKindFunction || k == NodeKindMethod
}

// EdgeKind classifies relationships between nodes.
type EdgeKind string

const (
	EdgeKindImports    EdgeKind = "IMPORTS"
	EdgeKindCalls      EdgeKind = "CALLS"
	EdgeKindContains   EdgeKind = "CONTAINS"
	EdgeKindExtends    EdgeKind = "EXTENDS"
	EdgeKindImplements EdgeKind = "IMPLEMENTS"
)

// Tag is a side-effect/purity marker attached to a node by the heuristic
// tagger. Tags are advisory pattern matches, not verified semantics.
type Tag string

const (
	TagIO      Tag = "IO"
	TagDB      Tag = "DB"
	TagNetwork Tag = "NETWORK"
	TagAsync   Tag = "ASYNC"
	TagPure    Tag = "PURE"
)

// Language identifies a programming language for parsing.
type Language string

const (
	LangGo         Language = "go"
	LangTypeScript Language = "typescript"
	LangPython     Language = "python"
	LangRust       Language = "rust"
)

// SupportedLanguages lists every language with a registered grammar and
// declaration walker.
var SupportedLanguages = []Language{LangGo, LangTypeScript, LangPython, LangRust}

// --- Models ---

// CodeNode is one node of the code graph. All kinds share this record;
// kind-specific meaning lives in Kind, Sig, and Complexity.
type CodeNode struct {
	ID         string   `json:"id"`
	Kind       NodeKind `json:"kind"`
	FQName     string   `json:"fqname"`
	Sig        string   `json:"sig"`
	Short      string   `json:"short"`
	Complexity int      `json:"complexity"`
	TokensEst  int      `json:"tokens_est"`
	Tags       []Tag    `json:"tags"`
	Unresolved bool     `json:"unresolved"`
	File       string   `json:"file"`
	StartLine  int      `json:"start_line"`
	EndLine    int      `json:"end_line"`
}

// CallSite is one observed call/reference location on a CALLS edge.
type CallSite struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// CodeEdge is one deduplicated edge of the code graph. From and To are node
// IDs. Count is the number of distinct observed occurrences; Locations keeps
// call sites in first-seen order (CALLS edges only).
type CodeEdge struct {
	From      string     `json:"from"`
	To        string     `json:"to"`
	Type      EdgeKind   `json:"type"`
	Count     int        `json:"count"`
	Locations []CallSite `json:"locations,omitempty"`
}

// Key returns the identity of this edge: (from, to, type).
func (e CodeEdge) Key() string {
	return e.From + "|" + e.To + "|" + string(e.Type)
}

// GraphData is the complete result of one scan. A snapshot is immutable once
// emitted; the diff engine never mutates its inputs.
type GraphData struct {
	Nodes []CodeNode `json:"nodes"`
	Edges []CodeEdge `json:"edges"`
}

// Stats summarizes a snapshot for logging and CLI output.
type Stats struct {
	Files   int `json:"files"`
	Nodes   int `json:"nodes"`
	Edges   int `json:"edges"`
	Calls   int `json:"calls"`
	Imports int `json:"imports"`
}

// ComputeStats counts nodes and edges by kind.
func (g *GraphData) ComputeStats() Stats {
	s := Stats{Nodes: len(g.Nodes), Edges: len(g.Edges)}
	for _, n := range g.Nodes {
		if n.Kind == NodeKindFile {
			s.Files++
		}
	}
	for _, e := range g.Edges {
		switch e.Type {
		case EdgeKindCalls:
			s.Calls++
		case EdgeKindImports:
			s.Imports++
		}
	}
	return s
}

// DiffMeta stamps a DiffData document with its provenance.
type DiffMeta struct {
	Commit    string   `json:"commit"`
	Files     []string `json:"files"`
	Timestamp string   `json:"timestamp"`
}

// RemovedData lists entities present in the previous snapshot but absent from
// the current one, as bare identifiers.
type RemovedData struct {
	Nodes []string `json:"nodes"`
	Edges []string `json:"edges"`
}

// DiffData is the derived result of comparing two snapshots restricted to a
// changed-file set.
type DiffData struct {
	Meta    DiffMeta    `json:"meta"`
	Added   GraphData   `json:"added"`
	Updated GraphData   `json:"updated"`
	Removed RemovedData `json:"removed"`
}
