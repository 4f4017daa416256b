package emit

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/tidemark-dev/repograph/internal/graph"
)

// WriteDiff emits a snapshot diff under dir as diff.json. The document
// already carries its commit identifier and triggering file list in meta.
func WriteDiff(d *graph.DiffData, dir string) error {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal diff document: %w", err)
	}
	return writeAtomic(filepath.Join(dir, "diff.json"), append(b, '\n'))
}
