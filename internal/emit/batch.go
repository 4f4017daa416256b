package emit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidemark-dev/repograph/internal/graph"
)

// BatchDocument is one self-describing snapshot for incremental
// merge-by-id ingestion.
type BatchDocument struct {
	Tag         string           `json:"tag"`
	GeneratedAt string           `json:"generated_at"`
	Nodes       []graph.CodeNode `json:"nodes"`
	Edges       []graph.CodeEdge `json:"edges"`
}

// ReadBatch loads a batch document back into a snapshot, for use as a
// diff baseline or for store ingestion.
func ReadBatch(path string) (*graph.GraphData, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch document: %w", err)
	}
	var doc BatchDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode batch document: %w", err)
	}
	return &graph.GraphData{Nodes: doc.Nodes, Edges: doc.Edges}, nil
}

// WriteBatch emits one batch document under dir. An empty tag defaults to
// the generation timestamp.
func WriteBatch(data *graph.GraphData, dir, tag string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if tag == "" {
		tag = now
	}
	doc := BatchDocument{
		Tag:         tag,
		GeneratedAt: now,
		Nodes:       data.Nodes,
		Edges:       data.Edges,
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal batch document: %w", err)
	}
	return writeAtomic(filepath.Join(dir, "batch.json"), append(b, '\n'))
}
