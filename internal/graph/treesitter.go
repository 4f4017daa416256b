package graph

import (
	"context"
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// declWalker walks a parsed tree and collects declaration, call, and import
// drafts into the given ParseResult.
type declWalker interface {
	Walk(root *tree_sitter.Node, source []byte, out *ParseResult)
}

// TreeSitterParser implements Parser using tree-sitter grammars. A fresh
// tree-sitter parser is created per Parse call, so the type is safe for
// sequential use but individual Parse calls are not thread-safe; the scanner
// gives each worker its own instance.
type TreeSitterParser struct {
	languages map[Language]*tree_sitter.Language
	walkers   map[Language]declWalker
}

// NewTreeSitterParser creates a TreeSitterParser with the Go, TypeScript,
// Python, and Rust grammars registered.
func NewTreeSitterParser() *TreeSitterParser {
	return &TreeSitterParser{
		languages: map[Language]*tree_sitter.Language{
			LangGo:         tree_sitter.NewLanguage(tree_sitter_go.Language()),
			LangTypeScript: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
			LangPython:     tree_sitter.NewLanguage(tree_sitter_python.Language()),
			LangRust:       tree_sitter.NewLanguage(tree_sitter_rust.Language()),
		},
		walkers: map[Language]declWalker{
			LangGo:         &goWalker{},
			LangTypeScript: &tsWalker{},
			LangPython:     &pyWalker{},
			LangRust:       &rsWalker{},
		},
	}
}

// Parse extracts declaration drafts, call sites, and imports from one file.
func (p *TreeSitterParser) Parse(_ context.Context, path string, source []byte, lang Language) (*ParseResult, error) {
	tsLang, ok := p.languages[lang]
	if !ok {
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
	walker, ok := p.walkers[lang]
	if !ok {
		return nil, fmt.Errorf("no walker for language: %s", lang)
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(tsLang); err != nil {
		return nil, fmt.Errorf("set language %s: %w", lang, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree for %s", path)
	}
	defer tree.Close()

	out := &ParseResult{Path: path, Lang: lang}
	walker.Walk(tree.RootNode(), source, out)
	return out, nil
}

// Languages returns the languages this parser can handle.
func (p *TreeSitterParser) Languages() []Language {
	langs := make([]Language, 0, len(p.languages))
	for l := range p.languages {
		langs = append(langs, l)
	}
	return langs
}

// Close is a no-op because parsers are created per Parse call.
func (p *TreeSitterParser) Close() error {
	return nil
}

// --- Shared walker helpers ---

// nodeLine returns the 1-indexed start line of a node.
func nodeLine(n *tree_sitter.Node) int {
	return int(n.StartPosition().Row) + 1
}

// nodeEndLine returns the 1-indexed end line of a node.
func nodeEndLine(n *tree_sitter.Node) int {
	return int(n.EndPosition().Row) + 1
}

// fieldText returns the text of a named field child, or "".
func fieldText(n *tree_sitter.Node, field string, source []byte) string {
	child := n.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return child.Utf8Text(source)
}

// leadingComment collects the comment block immediately preceding a
// declaration node: consecutive comment siblings with no blank line between
// the last comment and the declaration.
func leadingComment(n *tree_sitter.Node, source []byte, commentKinds ...string) string {
	isComment := func(kind string) bool {
		for _, k := range commentKinds {
			if kind == k {
				return true
			}
		}
		return false
	}

	var lines []string
	expected := int(n.StartPosition().Row)
	for prev := n.PrevSibling(); prev != nil; prev = prev.PrevSibling() {
		if !isComment(prev.Kind()) {
			break
		}
		if int(prev.EndPosition().Row) < expected-1 {
			break // blank line separates the comment from the declaration
		}
		lines = append([]string{prev.Utf8Text(source)}, lines...)
		expected = int(prev.StartPosition().Row)
	}
	if len(lines) == 0 {
		// Exported/decorated declarations are wrapped; the comment sits
		// before the wrapper node.
		if parent := n.Parent(); parent != nil {
			switch parent.Kind() {
			case "export_statement", "decorated_definition":
				return leadingComment(parent, source, commentKinds...)
			}
		}
		return ""
	}
	joined := lines[0]
	for _, l := range lines[1:] {
		joined += "\n" + l
	}
	return joined
}

// calleeText extracts the callee text from a call expression's function
// child, accepting only simple identifiers and member/selector accesses.
func calleeText(fn *tree_sitter.Node, source []byte, memberKinds ...string) string {
	kind := fn.Kind()
	if kind == "identifier" {
		return fn.Utf8Text(source)
	}
	for _, k := range memberKinds {
		if kind == k {
			return fn.Utf8Text(source)
		}
	}
	return ""
}
