//go:build cgo

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kuzu "github.com/kuzudb/go-kuzu"

	"github.com/tidemark-dev/repograph/internal/graph"
)

// KuzuStore implements Store on KuzuDB. It requires CGO because the
// go-kuzu driver wraps KuzuDB's C library.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file database at dbPath.
// KuzuDB creates the leaf directory itself; the parent must exist.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzu(dbPath)
}

func openKuzu(path string) (*KuzuStore, error) {
	db, err := kuzu.OpenDatabase(path, kuzu.DefaultSystemConfig())
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// edgeTables maps edge kinds to relationship table names. Node tables must
// be created before relationship tables.
var edgeTables = map[graph.EdgeKind]string{
	graph.EdgeKindImports:    "IMPORTS",
	graph.EdgeKindCalls:      "CALLS",
	graph.EdgeKindContains:   "CONTAINS",
	graph.EdgeKindExtends:    "EXTENDS",
	graph.EdgeKindImplements: "IMPLEMENTS",
}

var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS CodeNode(
		id STRING,
		kind STRING,
		fqname STRING,
		sig STRING,
		short STRING,
		complexity INT64,
		tokens_est INT64,
		tags STRING,
		file STRING,
		start_line INT64,
		end_line INT64,
		PRIMARY KEY(id)
	)`,
	`CREATE REL TABLE IF NOT EXISTS IMPORTS(FROM CodeNode TO CodeNode, count INT64, locations STRING)`,
	`CREATE REL TABLE IF NOT EXISTS CALLS(FROM CodeNode TO CodeNode, count INT64, locations STRING)`,
	`CREATE REL TABLE IF NOT EXISTS CONTAINS(FROM CodeNode TO CodeNode, count INT64, locations STRING)`,
	`CREATE REL TABLE IF NOT EXISTS EXTENDS(FROM CodeNode TO CodeNode, count INT64, locations STRING)`,
	`CREATE REL TABLE IF NOT EXISTS IMPLEMENTS(FROM CodeNode TO CodeNode, count INT64, locations STRING)`,
}

// InitSchema creates the node and relationship tables if absent.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// MergeSnapshot upserts all nodes and edges from data.
func (s *KuzuStore) MergeSnapshot(ctx context.Context, data *graph.GraphData) error {
	for _, n := range data.Nodes {
		if err := s.mergeNode(ctx, n); err != nil {
			return err
		}
	}
	for _, e := range data.Edges {
		if err := s.mergeEdge(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (s *KuzuStore) mergeNode(_ context.Context, n graph.CodeNode) error {
	return s.exec(
		`MERGE (n:CodeNode {id: $id})
		 SET n.kind = $kind, n.fqname = $fqname, n.sig = $sig,
		     n.short = $short, n.complexity = $complexity,
		     n.tokens_est = $tokens, n.tags = $tags,
		     n.file = $file, n.start_line = $sl, n.end_line = $el`,
		map[string]any{
			"id":         n.ID,
			"kind":       string(n.Kind),
			"fqname":     n.FQName,
			"sig":        n.Sig,
			"short":      n.Short,
			"complexity": int64(n.Complexity),
			"tokens":     int64(n.TokensEst),
			"tags":       joinTags(n.Tags),
			"file":       n.File,
			"sl":         int64(n.StartLine),
			"el":         int64(n.EndLine),
		},
	)
}

func (s *KuzuStore) mergeEdge(_ context.Context, e graph.CodeEdge) error {
	table, ok := edgeTables[e.Type]
	if !ok {
		return fmt.Errorf("kuzu: unsupported edge kind: %s", e.Type)
	}
	locs := "[]"
	if len(e.Locations) > 0 {
		b, err := json.Marshal(e.Locations)
		if err != nil {
			return fmt.Errorf("kuzu: marshal locations: %w", err)
		}
		locs = string(b)
	}
	cypher := fmt.Sprintf(
		`MATCH (a:CodeNode {id: $src}), (b:CodeNode {id: $dst})
		 MERGE (a)-[r:%s]->(b)
		 SET r.count = $count, r.locations = $locs`, table)
	return s.exec(cypher, map[string]any{
		"src":   e.From,
		"dst":   e.To,
		"count": int64(e.Count),
		"locs":  locs,
	})
}

// GetNode returns the node for id, or nil when absent.
func (s *KuzuStore) GetNode(_ context.Context, id string) (*graph.CodeNode, error) {
	rows, err := s.query(
		"MATCH (n:CodeNode {id: $id}) RETURN "+nodeReturnColumns,
		map[string]any{"id": id},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	n := rowToNode(rows[0])
	return &n, nil
}

// QueryNodes returns nodes whose fqname contains query, case-insensitive.
func (s *KuzuStore) QueryNodes(_ context.Context, queryStr string, limit int) ([]graph.CodeNode, error) {
	if limit <= 0 {
		limit = 1 << 30
	}
	rows, err := s.query(
		`MATCH (n:CodeNode) WHERE lower(n.fqname) CONTAINS lower($q)
		 RETURN `+nodeReturnColumns+`
		 ORDER BY n.fqname LIMIT $lim`,
		map[string]any{"q": queryStr, "lim": int64(limit)},
	)
	if err != nil {
		return nil, err
	}
	out := make([]graph.CodeNode, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToNode(r))
	}
	return out, nil
}

// Neighbors returns edges of kind touching id in the given direction.
func (s *KuzuStore) Neighbors(_ context.Context, id string, kind graph.EdgeKind, out bool) ([]graph.CodeEdge, error) {
	table, ok := edgeTables[kind]
	if !ok {
		return nil, fmt.Errorf("kuzu: unsupported edge kind: %s", kind)
	}
	var cypher string
	if out {
		cypher = fmt.Sprintf(
			`MATCH (a:CodeNode {id: $id})-[r:%s]->(b:CodeNode)
			 RETURN a.id, b.id, r.count, r.locations ORDER BY b.id`, table)
	} else {
		cypher = fmt.Sprintf(
			`MATCH (a:CodeNode)-[r:%s]->(b:CodeNode {id: $id})
			 RETURN a.id, b.id, r.count, r.locations ORDER BY a.id`, table)
	}
	rows, err := s.query(cypher, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	edges := make([]graph.CodeEdge, 0, len(rows))
	for _, r := range rows {
		e := graph.CodeEdge{
			From:  toString(r[0]),
			To:    toString(r[1]),
			Type:  kind,
			Count: toInt(r[2]),
		}
		if locs := toString(r[3]); locs != "" && locs != "[]" {
			if err := json.Unmarshal([]byte(locs), &e.Locations); err != nil {
				return nil, fmt.Errorf("kuzu: unmarshal locations: %w", err)
			}
		}
		edges = append(edges, e)
	}
	return edges, nil
}

// Stats counts held nodes and edges by table.
func (s *KuzuStore) Stats(_ context.Context) (graph.Stats, error) {
	var st graph.Stats
	rows, err := s.query("MATCH (n:CodeNode) RETURN count(n)", nil)
	if err != nil {
		return st, err
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		st.Nodes = toInt(rows[0][0])
	}
	rows, err = s.query(`MATCH (n:CodeNode) WHERE n.kind = "File" RETURN count(n)`, nil)
	if err != nil {
		return st, err
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		st.Files = toInt(rows[0][0])
	}
	for kind, table := range edgeTables {
		rows, err := s.query(fmt.Sprintf("MATCH ()-[r:%s]->() RETURN count(r)", table), nil)
		if err != nil {
			continue
		}
		if len(rows) == 0 || len(rows[0]) == 0 {
			continue
		}
		n := toInt(rows[0][0])
		st.Edges += n
		switch kind {
		case graph.EdgeKindCalls:
			st.Calls += n
		case graph.EdgeKindImports:
			st.Imports += n
		}
	}
	return st, nil
}

const nodeReturnColumns = `n.id, n.kind, n.fqname, n.sig, n.short,
	n.complexity, n.tokens_est, n.tags, n.file, n.start_line, n.end_line`

// rowToNode converts an 11-column result row in nodeReturnColumns order.
func rowToNode(r []any) graph.CodeNode {
	return graph.CodeNode{
		ID:         toString(r[0]),
		Kind:       graph.NodeKind(toString(r[1])),
		FQName:     toString(r[2]),
		Sig:        toString(r[3]),
		Short:      toString(r[4]),
		Complexity: toInt(r[5]),
		TokensEst:  toInt(r[6]),
		Tags:       splitTags(toString(r[7])),
		File:       toString(r[8]),
		StartLine:  toInt(r[9]),
		EndLine:    toInt(r[10]),
	}
}

func joinTags(tags []graph.Tag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, ";")
}

func splitTags(cell string) []graph.Tag {
	if cell == "" {
		return nil
	}
	parts := strings.Split(cell, ";")
	tags := make([]graph.Tag, len(parts))
	for i, p := range parts {
		tags[i] = graph.Tag(p)
	}
	return tags
}

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows
// as []any slices in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// KuzuDB returns typed Go values; coerce any -> concrete.

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
