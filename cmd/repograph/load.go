//go:build cgo

package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/tidemark-dev/repograph/internal/emit"
	"github.com/tidemark-dev/repograph/internal/store"
)

// runLoad ingests a batch snapshot into a file-based KuzuDB graph. Merge is
// by id, so reloading the same batch is idempotent.
func runLoad(args []string) error {
	fs := flag.NewFlagSet("repograph load", flag.ContinueOnError)
	batch := fs.String("batch", "", "path to the batch.json to load (required)")
	db := fs.String("db", ".repograph/graph", "KuzuDB database directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *batch == "" {
		return fmt.Errorf("-batch is required")
	}

	data, err := emit.ReadBatch(*batch)
	if err != nil {
		return err
	}

	st, err := store.NewKuzuFileStore(*db)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.InitSchema(ctx); err != nil {
		return err
	}
	if err := st.MergeSnapshot(ctx, data); err != nil {
		return err
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("loaded %d nodes, %d edges into %s\n", stats.Nodes, stats.Edges, *db)
	return nil
}
