// Package scan walks a repository, drives the per-language parser adapters
// across a bounded worker pool, and assembles the extracted drafts into one
// normalized GraphData snapshot.
package scan

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	gitignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"

	"github.com/tidemark-dev/repograph/internal/graph"
)

// extToLanguage maps file extensions to languages.
var extToLanguage = map[string]graph.Language{
	".go":  graph.LangGo,
	".ts":  graph.LangTypeScript,
	".tsx": graph.LangTypeScript,
	".py":  graph.LangPython,
	".rs":  graph.LangRust,
}

// defaultExcludes are directory names never descended into.
var defaultExcludes = []string{
	"node_modules", "vendor", "dist", "build", "target",
	"__pycache__", ".venv", "venv",
}

// Options configures one scan.
type Options struct {
	// Languages restricts the scan; empty means every supported language.
	Languages []graph.Language

	// ExcludeDirs are directory names skipped in addition to the defaults.
	ExcludeDirs []string

	// UseGitignore honors the repository's root .gitignore.
	UseGitignore bool

	// Workers bounds parallel file parsing; <= 0 means GOMAXPROCS.
	Workers int

	// MaxCallSites caps the per-edge location list; <= 0 uses the default.
	MaxCallSites int
}

// Scanner runs full scans of a repository.
type Scanner struct {
	newParser func() graph.Parser
	log       *slog.Logger
}

// New creates a Scanner. newParser is called once per worker, because a
// parser adapter instance is not safe for concurrent Parse calls.
func New(newParser func() graph.Parser, log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{newParser: newParser, log: log}
}

// sourceFile is one unit of parse work.
type sourceFile struct {
	relPath string
	absPath string
	lang    graph.Language
}

// Scan walks root, parses every matching source file, and builds the
// snapshot. Per-file parse failures are logged and skipped. When ctx is
// cancelled mid-run, outstanding work is abandoned and whatever was
// collected so far is still assembled and returned.
func (s *Scanner) Scan(ctx context.Context, root string, opts Options) (*graph.GraphData, error) {
	files, err := s.enumerate(root, opts)
	if err != nil {
		return nil, err
	}

	known := make([]string, len(files))
	for i, f := range files {
		known[i] = f.relPath
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Workers fan out over the file list; one collector goroutine owns the
	// result slice.
	results := make(chan *graph.ParseResult, workers)
	collected := make([]*graph.ParseResult, 0, len(files))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for res := range results {
			collected = append(collected, res)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, f := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil // run cancelled: keep partial results
			}
			parser := s.newParser()
			defer parser.Close()

			source, err := os.ReadFile(f.absPath)
			if err != nil {
				s.log.Warn("skipping unreadable file", "file", f.relPath, "err", err)
				return nil
			}
			res, err := parser.Parse(gctx, f.relPath, source, f.lang)
			if err != nil {
				s.log.Warn("parse failed, file excluded", "file", f.relPath, "err", err)
				return nil
			}
			results <- res
			return nil
		})
	}

	err = g.Wait()
	close(results)
	<-done

	builder := graph.NewBuilder(graph.NewResolver(root, known), opts.MaxCallSites)
	data := builder.Build(collected)

	stats := data.ComputeStats()
	s.log.Info("scan complete",
		"files", stats.Files, "nodes", stats.Nodes, "edges", stats.Edges,
		"calls", stats.Calls, "imports", stats.Imports)

	if err != nil && err != context.Canceled {
		return data, err
	}
	return data, nil
}

// enumerate walks the tree and selects files by extension, exclusion set,
// requested languages, and (optionally) the root .gitignore. Languages the
// parser does not support are disabled with a warning instead of failing
// the run.
func (s *Scanner) enumerate(root string, opts Options) ([]sourceFile, error) {
	supported := make(map[graph.Language]bool)
	probe := s.newParser()
	for _, l := range probe.Languages() {
		supported[l] = true
	}
	probe.Close()

	wanted := make(map[graph.Language]bool)
	langs := opts.Languages
	if len(langs) == 0 {
		langs = graph.SupportedLanguages
	}
	for _, l := range langs {
		if !supported[l] {
			s.log.Warn("language unavailable for this run", "lang", l)
			continue
		}
		wanted[l] = true
	}

	excluded := make(map[string]bool)
	for _, d := range defaultExcludes {
		excluded[d] = true
	}
	for _, d := range opts.ExcludeDirs {
		excluded[d] = true
	}

	var ignore *gitignore.GitIgnore
	if opts.UseGitignore {
		if gi, err := gitignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			ignore = gi
		}
	}

	var files []sourceFile
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			name := d.Name()
			if rel != "." && (name == ".git" || excluded[name]) {
				return filepath.SkipDir
			}
			if ignore != nil && rel != "." && ignore.MatchesPath(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		lang, ok := extToLanguage[filepath.Ext(path)]
		if !ok || !wanted[lang] {
			return nil
		}
		if ignore != nil && ignore.MatchesPath(rel) {
			return nil
		}
		files = append(files, sourceFile{relPath: rel, absPath: path, lang: lang})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return files, nil
}
