package emit

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidemark-dev/repograph/internal/graph"
)

// RenderMermaid produces a Mermaid graph TD diagram of the file-level
// structure: File nodes grouped by directory, IMPORTS edges as arrows.
func RenderMermaid(data *graph.GraphData) string {
	// Mermaid identifiers must be alphanumeric; assign sequential ones.
	mermaidIDs := make(map[string]string)
	nextID := 0
	getID := func(key string) string {
		if id, ok := mermaidIDs[key]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		mermaidIDs[key] = id
		return id
	}

	byDir := make(map[string][]graph.CodeNode)
	fileByID := make(map[string]graph.CodeNode)
	for _, n := range data.Nodes {
		if n.Kind != graph.NodeKindFile {
			continue
		}
		dir := filepath.ToSlash(filepath.Dir(n.File))
		byDir[dir] = append(byDir[dir], n)
		fileByID[n.ID] = n
	}

	dirs := make([]string, 0, len(byDir))
	for d := range byDir {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, dir := range dirs {
		files := byDir[dir]
		sort.Slice(files, func(i, j int) bool { return files[i].File < files[j].File })

		sb.WriteString(fmt.Sprintf("  subgraph %s[\"%.40s\"]\n", getID(dir+"/_dir"), dir))
		for _, f := range files {
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", getID(f.ID), shortPath(f.File)))
		}
		sb.WriteString("  end\n")
	}

	for _, e := range data.Edges {
		if e.Type != graph.EdgeKindImports {
			continue
		}
		if _, ok := fileByID[e.From]; !ok {
			continue
		}
		if _, ok := fileByID[e.To]; !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s --> %s\n", getID(e.From), getID(e.To)))
	}

	return sb.String()
}

// WriteMermaid emits the diagram under dir as graph.mmd.
func WriteMermaid(data *graph.GraphData, dir string) error {
	return writeAtomic(filepath.Join(dir, "graph.mmd"), []byte(RenderMermaid(data)))
}

// shortPath returns the last 2 path segments for readability.
func shortPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= 2 {
		return path
	}
	return strings.Join(parts[len(parts)-2:], "/")
}
