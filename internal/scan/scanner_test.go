package scan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidemark-dev/repograph/internal/graph"
)

// stubParser fabricates one function declaration per parsed file so the
// scanner pipeline can be exercised without tree-sitter.
type stubParser struct {
	failPath string
}

func (p *stubParser) Parse(_ context.Context, path string, _ []byte, lang graph.Language) (*graph.ParseResult, error) {
	if p.failPath != "" && path == p.failPath {
		return nil, fmt.Errorf("stub parse failure")
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &graph.ParseResult{
		Path: path,
		Lang: lang,
		Decls: []graph.DeclDraft{{
			Kind:      graph.NodeKindFunction,
			Name:      base,
			StartLine: 1,
			EndLine:   3,
		}},
	}, nil
}

func (p *stubParser) Languages() []graph.Language {
	return graph.SupportedLanguages
}

func (p *stubParser) Close() error { return nil }

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestScanner(fail string) *Scanner {
	return New(func() graph.Parser { return &stubParser{failPath: fail} },
		slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func nodeNames(data *graph.GraphData) []string {
	var names []string
	for _, n := range data.Nodes {
		if n.Kind != graph.NodeKindFile {
			names = append(names, n.FQName)
		}
	}
	return names
}

func TestScanCollectsSupportedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "lib/util.ts", "export {}\n")
	writeFile(t, root, "README.md", "docs\n")

	data, err := newTestScanner("").Scan(context.Background(), root, Options{})
	require.NoError(t, err)

	names := nodeNames(data)
	assert.ElementsMatch(t, []string{"main.go:main", "lib/util.ts:util"}, names)

	// One File node per source file, each containing its function.
	stats := data.ComputeStats()
	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, 2, stats.Edges)
}

func TestScanSkipsExcludedDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "node_modules/dep/index.ts", "export {}\n")
	writeFile(t, root, "gen/out.go", "package gen\n")

	data, err := newTestScanner("").Scan(context.Background(), root, Options{
		ExcludeDirs: []string{"gen"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go:main"}, nodeNames(data))
}

func TestScanHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "ignored/\n*.gen.go\n")
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "api.gen.go", "package main\n")
	writeFile(t, root, "ignored/hidden.py", "pass\n")

	data, err := newTestScanner("").Scan(context.Background(), root, Options{UseGitignore: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go:main"}, nodeNames(data))
}

func TestScanLanguageFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "script.py", "pass\n")

	data, err := newTestScanner("").Scan(context.Background(), root, Options{
		Languages: []graph.Language{graph.LangPython},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"script.py:script"}, nodeNames(data))
}

func TestScanContinuesPastParseFailure(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "good.go", "package main\n")
	writeFile(t, root, "bad.go", "package main\n")

	data, err := newTestScanner("bad.go").Scan(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"good.go:good"}, nodeNames(data))
}

func TestScanCancelledContextReturnsPartial(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	data, err := newTestScanner("").Scan(ctx, root, Options{})
	require.NoError(t, err)
	require.NotNil(t, data)
	// Cancelled before any worker ran: empty but well-formed snapshot.
	assert.Empty(t, nodeNames(data))
}
