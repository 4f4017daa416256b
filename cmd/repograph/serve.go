package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/tidemark-dev/repograph/internal/mcptools"
	"github.com/tidemark-dev/repograph/internal/scan"
	"github.com/tidemark-dev/repograph/internal/store"
)

// runServe exposes the graph tools over MCP, backed by an in-memory store
// repopulated by each scan_repo call.
func runServe(args []string) error {
	fs := flag.NewFlagSet("repograph serve", flag.ContinueOnError)
	addr := fs.String("addr", "localhost:8934", "listen address for the MCP HTTP server")
	verbose := fs.Bool("verbose", false, "enable verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := newLogger(*verbose)
	scanner := scan.New(newParser, log)
	svc := mcptools.NewGraphService(store.NewMemStore(), scanner)

	log.Info("mcp server listening", "addr", *addr)
	return mcptools.RunMCPServer(ctx, svc, *addr)
}
