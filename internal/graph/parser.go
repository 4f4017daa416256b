package graph

import "context"

// DeclDraft is one raw declaration enumerated by a parser adapter. Walkers
// fill in everything the grammar exposes; missing type annotations leave
// Params/ReturnType as names only, which is still deterministic.
type DeclDraft struct {
	Kind       NodeKind
	Name       string
	Owner      string // enclosing class/interface name, empty for top-level
	Params     []string
	ReturnType string
	Doc        string
	Body       string
	StartLine  int
	EndLine    int

	// Superclass / implemented-interface names, raw as written.
	Extends    []string
	Implements []string
}

// CallDraft is one call expression observed inside a declaration body.
// Callee is the raw callee text; resolution to a declaration happens later
// against the scan-wide index.
type CallDraft struct {
	Caller string // name of the enclosing declaration ("Owner.Name" for members)
	Callee string
	Line   int
}

// ImportDraft is one import/include statement. Target is the raw specifier;
// the resolver maps it to a repo-relative file path or drops it.
type ImportDraft struct {
	Target string
	Line   int
}

// ParseResult holds everything a parser adapter extracted from one file.
type ParseResult struct {
	Path    string
	Lang    Language
	Decls   []DeclDraft
	Calls   []CallDraft
	Imports []ImportDraft
}

// Parser is the per-language parser adapter contract. The core never embeds
// a grammar: implementations front tree-sitter (production) or return canned
// results (tests). Failures are per-file; an adapter must not fail the whole
// run because one file does not parse.
type Parser interface {
	// Parse extracts declaration drafts, call sites, and imports from a
	// single source file. source is the file content; lang selects the
	// grammar.
	Parse(ctx context.Context, path string, source []byte, lang Language) (*ParseResult, error)

	// Languages returns the languages this parser can handle.
	Languages() []Language

	// Close releases parser resources.
	Close() error
}
