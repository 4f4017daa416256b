package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/tidemark-dev/repograph/internal/config"
	"github.com/tidemark-dev/repograph/internal/diff"
	"github.com/tidemark-dev/repograph/internal/emit"
	"github.com/tidemark-dev/repograph/internal/gitx"
	"github.com/tidemark-dev/repograph/internal/scan"
)

func runDiff(args []string) error {
	fs := flag.NewFlagSet("repograph diff", flag.ContinueOnError)
	root := fs.String("root", ".", "repository root to scan")
	baseline := fs.String("baseline", "", "path to the baseline batch.json (required)")
	ref := fs.String("ref", "HEAD", "git reference the changed-file set is computed against")
	out := fs.String("out", "", "output directory (default: <root>/.repograph)")
	verbose := fs.Bool("verbose", false, "enable verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *baseline == "" {
		return fmt.Errorf("-baseline is required")
	}

	previous, err := emit.ReadBatch(*baseline)
	if err != nil {
		return err
	}

	changed, err := gitx.ChangedFiles(*root, *ref)
	if err != nil {
		return fmt.Errorf("changed files: %w", err)
	}
	commit, err := gitx.Head(*root)
	if err != nil {
		return fmt.Errorf("resolve commit: %w", err)
	}

	cfg, err := config.Load(*root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	opts, err := scanOptions(cfg, "", "", 0, 0, false)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := newLogger(*verbose || cfg.Verbose)
	current, err := scan.New(newParser, log).Scan(ctx, *root, opts)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	d := diff.Compute(previous, current, commit, changed)

	outDir := *out
	if outDir == "" {
		outDir = filepath.Join(*root, ".repograph")
	}
	if err := emit.WriteDiff(d, outDir); err != nil {
		return err
	}

	log.Info("diff written", "dir", outDir, "commit", commit,
		"added", len(d.Added.Nodes), "updated", len(d.Updated.Nodes), "removed", len(d.Removed.Nodes))
	return nil
}
