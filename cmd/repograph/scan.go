package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/tidemark-dev/repograph/internal/config"
	"github.com/tidemark-dev/repograph/internal/emit"
	"github.com/tidemark-dev/repograph/internal/scan"
)

func runScan(args []string) error {
	fs := flag.NewFlagSet("repograph scan", flag.ContinueOnError)
	root := fs.String("root", ".", "repository root to scan")
	out := fs.String("out", "", "output directory (default: <root>/.repograph)")
	format := fs.String("format", "bulk", "output format: bulk (nodes.csv/edges.csv), batch (batch.json), or mermaid (graph.mmd)")
	tag := fs.String("tag", "", "batch tag (batch format only; default: timestamp)")
	langs := fs.String("langs", "", "comma-separated languages (default: all)")
	exclude := fs.String("exclude", "", "comma-separated extra directory names to skip")
	workers := fs.Int("workers", 0, "parse workers (default: GOMAXPROCS)")
	maxSites := fs.Int("max-call-sites", 0, "per-edge call site cap (default: 32)")
	noGitignore := fs.Bool("no-gitignore", false, "do not honor .gitignore")
	verbose := fs.Bool("verbose", false, "enable verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	opts, err := scanOptions(cfg, *langs, *exclude, *workers, *maxSites, *noGitignore)
	if err != nil {
		return err
	}
	outDir := *out
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	if outDir == "" {
		outDir = filepath.Join(*root, ".repograph")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := newLogger(*verbose || cfg.Verbose)
	data, err := scan.New(newParser, log).Scan(ctx, *root, opts)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	switch *format {
	case "bulk":
		err = emit.WriteBulk(data, outDir)
	case "batch":
		err = emit.WriteBatch(data, outDir, *tag)
	case "mermaid":
		err = emit.WriteMermaid(data, outDir)
	default:
		return fmt.Errorf("unknown format: %s", *format)
	}
	if err != nil {
		return err
	}

	log.Info("snapshot written", "dir", outDir, "format", *format)
	return nil
}

// scanOptions merges project config with flag overrides. Flags win.
func scanOptions(cfg *config.ProjectConfig, langs, exclude string, workers, maxSites int, noGitignore bool) (scan.Options, error) {
	langNames := cfg.Languages
	if langs != "" {
		langNames = splitList(langs)
	}
	parsed, err := parseLanguages(langNames)
	if err != nil {
		return scan.Options{}, err
	}

	excludeDirs := cfg.ExcludeDirs
	if exclude != "" {
		excludeDirs = append(excludeDirs, splitList(exclude)...)
	}
	if workers == 0 {
		workers = cfg.MaxWorkers
	}
	if maxSites == 0 {
		maxSites = cfg.MaxCallSites
	}

	return scan.Options{
		Languages:    parsed,
		ExcludeDirs:  excludeDirs,
		UseGitignore: cfg.GitignoreEnabled() && !noGitignore,
		Workers:      workers,
		MaxCallSites: maxSites,
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
