package emit

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidemark-dev/repograph/internal/graph"
)

// tagDelim joins tags inside one CSV cell. It must stay distinct from the
// record delimiter so tag lists survive a round trip.
const tagDelim = ";"

var nodeColumns = []string{
	"id", "kind", "fqname", "sig", "short", "complexity",
	"tokens_est", "tags", "file", "start_line", "end_line",
}

var edgeColumns = []string{"start_id", "end_id", "type", "count", "locations"}

// WriteBulk emits nodes.csv and edges.csv under dir, suitable for one-shot
// bulk import.
func WriteBulk(data *graph.GraphData, dir string) error {
	nodes, err := renderNodesCSV(data.Nodes)
	if err != nil {
		return err
	}
	edges, err := renderEdgesCSV(data.Edges)
	if err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(dir, "nodes.csv"), nodes); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(dir, "edges.csv"), edges)
}

func renderNodesCSV(nodes []graph.CodeNode) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(nodeColumns); err != nil {
		return nil, err
	}
	for _, n := range nodes {
		rec := []string{
			n.ID,
			string(n.Kind),
			n.FQName,
			n.Sig,
			singleLine(n.Short),
			strconv.Itoa(n.Complexity),
			strconv.Itoa(n.TokensEst),
			joinTags(n.Tags),
			n.File,
			strconv.Itoa(n.StartLine),
			strconv.Itoa(n.EndLine),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func renderEdgesCSV(edges []graph.CodeEdge) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(edgeColumns); err != nil {
		return nil, err
	}
	for _, e := range edges {
		locs, err := renderLocations(e.Locations)
		if err != nil {
			return nil, err
		}
		rec := []string{e.From, e.To, string(e.Type), strconv.Itoa(e.Count), locs}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// renderLocations serializes call sites as a JSON array so the cell stays
// machine-readable despite living inside a CSV field.
func renderLocations(sites []graph.CallSite) (string, error) {
	if len(sites) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(sites)
	if err != nil {
		return "", fmt.Errorf("marshal locations: %w", err)
	}
	return string(b), nil
}

// singleLine collapses embedded newlines so every record stays one row.
func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}

func joinTags(tags []graph.Tag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, tagDelim)
}

// SplitTags reverses joinTags for ingestion-side consumers.
func SplitTags(cell string) []graph.Tag {
	if cell == "" {
		return nil
	}
	parts := strings.Split(cell, tagDelim)
	tags := make([]graph.Tag, len(parts))
	for i, p := range parts {
		tags[i] = graph.Tag(p)
	}
	return tags
}
