package graph

import (
	"sort"
	"strings"
)

// Builder assembles parse results into a normalized, deduplicated GraphData.
// All draft edges are routed through one EdgeAggregator; name resolution for
// calls and inheritance uses a scan-wide declaration index, same file first.
type Builder struct {
	resolver *Resolver
	agg      *EdgeAggregator

	nodes   []*CodeNode
	seen    map[string]bool                 // node ids kept so far
	byFile  map[string]map[string]*CodeNode // file -> decl name -> node
	byName  map[string][]*CodeNode          // bare decl name -> nodes
	fileIdx map[string]*CodeNode            // file path -> file node
}

// NewBuilder creates a Builder. maxCallSites bounds the per-edge location
// list; <= 0 selects the default cap.
func NewBuilder(resolver *Resolver, maxCallSites int) *Builder {
	return &Builder{
		resolver: resolver,
		agg:      NewEdgeAggregator(maxCallSites),
		seen:     make(map[string]bool),
		byFile:   make(map[string]map[string]*CodeNode),
		byName:   make(map[string][]*CodeNode),
		fileIdx:  make(map[string]*CodeNode),
	}
}

// Build runs both passes over the collected results and returns the
// finished snapshot. Nodes are ordered by (file, start line, fqname) and
// edges by key, so repeated scans of an unchanged tree emit identical
// artifacts.
func (b *Builder) Build(results []*ParseResult) *GraphData {
	for _, res := range results {
		b.addFile(res)
	}
	for _, res := range results {
		b.linkFile(res)
	}

	nodes := make([]CodeNode, 0, len(b.nodes))
	sort.Slice(b.nodes, func(i, j int) bool {
		a, c := b.nodes[i], b.nodes[j]
		if a.File != c.File {
			return a.File < c.File
		}
		if a.StartLine != c.StartLine {
			return a.StartLine < c.StartLine
		}
		return a.FQName < c.FQName
	})
	for _, n := range b.nodes {
		nodes = append(nodes, *n)
	}

	return &GraphData{Nodes: nodes, Edges: b.agg.Edges()}
}

// addFile is the first pass: normalize the file node and every declaration
// node, and index them for the linking pass.
func (b *Builder) addFile(res *ParseResult) {
	file := Normalize(Draft{
		Kind:   NodeKindFile,
		FQName: res.Path,
		File:   res.Path,
	})
	fileNode := b.keep(&file)
	b.fileIdx[res.Path] = fileNode
	b.byFile[res.Path] = make(map[string]*CodeNode, len(res.Decls))

	for _, decl := range res.Decls {
		node := Normalize(declToDraft(res.Path, decl))
		if b.seen[node.ID] {
			continue // duplicate (fqname, sig), e.g. overload signatures
		}
		kept := b.keep(&node)

		qual := qualifiedName(decl)
		b.byFile[res.Path][qual] = kept
		b.byName[decl.Name] = append(b.byName[decl.Name], kept)
	}
}

// linkFile is the second pass: emit CONTAINS, CALLS, IMPORTS, EXTENDS, and
// IMPLEMENTS edges now that every declaration in the scan is indexed.
func (b *Builder) linkFile(res *ParseResult) {
	fileNode := b.fileIdx[res.Path]

	for _, decl := range res.Decls {
		node := b.byFile[res.Path][qualifiedName(decl)]
		if node == nil {
			continue
		}

		// Containment: members hang off their owner, everything else off
		// the file. A member whose owner is not declared in this scan falls
		// back to the file.
		if owner := b.lookup(decl.Owner, res.Path); owner != nil && decl.Owner != "" {
			b.agg.Add(owner.ID, node.ID, EdgeKindContains)
		} else {
			b.agg.Add(fileNode.ID, node.ID, EdgeKindContains)
		}

		for _, super := range decl.Extends {
			if target := b.lookup(super, res.Path); target != nil {
				b.agg.Add(node.ID, target.ID, EdgeKindExtends)
			} else {
				node.Unresolved = true
			}
		}
		for _, iface := range decl.Implements {
			if target := b.lookup(iface, res.Path); target != nil {
				b.agg.Add(node.ID, target.ID, EdgeKindImplements)
			} else {
				node.Unresolved = true
			}
		}
	}

	for _, call := range res.Calls {
		caller := b.byFile[res.Path][call.Caller]
		if caller == nil {
			continue
		}
		callee := b.lookup(call.Callee, res.Path)
		if callee == nil {
			// Unresolved callee: no edge to a synthetic node, just a marker
			// on the caller.
			caller.Unresolved = true
			continue
		}
		b.agg.Add(caller.ID, callee.ID, EdgeKindCalls, CallSite{File: res.Path, Line: call.Line})
	}

	for _, imp := range res.Imports {
		resolved, ok := b.resolver.Resolve(imp.Target, res.Path, res.Lang)
		if !ok {
			fileNode.Unresolved = true
			continue
		}
		target := b.fileIdx[resolved]
		if target == nil || target.ID == fileNode.ID {
			continue // resolved outside the scanned set, or a self-import
		}
		b.agg.Add(fileNode.ID, target.ID, EdgeKindImports)
	}
}

// lookup resolves a referenced name to a declaration node: the raw name in
// the same file, then its final path segment in the same file, then a
// scan-wide match when it is unambiguous.
func (b *Builder) lookup(name, file string) *CodeNode {
	if name == "" {
		return nil
	}
	local := b.byFile[file]
	if n, ok := local[name]; ok {
		return n
	}
	short := lastSegment(name)
	if n, ok := local[short]; ok {
		return n
	}
	if candidates := b.byName[short]; len(candidates) == 1 {
		return candidates[0]
	}
	return nil
}

func (b *Builder) keep(n *CodeNode) *CodeNode {
	b.seen[n.ID] = true
	b.nodes = append(b.nodes, n)
	return n
}

// qualifiedName is the in-file name of a declaration: "Owner.Name" for
// members, "Name" otherwise.
func qualifiedName(d DeclDraft) string {
	if d.Owner != "" {
		return d.Owner + "." + d.Name
	}
	return d.Name
}

// lastSegment strips qualifier prefixes from a reference: "pkg.Func",
// "obj.method", and "mod::Type" all reduce to their final segment.
func lastSegment(name string) string {
	if idx := strings.LastIndex(name, "::"); idx >= 0 {
		name = name[idx+2:]
	}
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

// declToDraft applies the heuristics and derives the canonical fqname and
// signature for one declaration.
func declToDraft(path string, d DeclDraft) Draft {
	fq := path + ":" + qualifiedName(d)
	sig := DeclSig(d)

	draft := Draft{
		Kind:      d.Kind,
		FQName:    fq,
		Sig:       sig,
		Short:     Summarize(d.Doc, d.Name, d.Params),
		File:      path,
		StartLine: d.StartLine,
		EndLine:   d.EndLine,
		Tags:      DetectTags(d.Body, sig),
	}
	if d.Kind.Executable() {
		draft.Complexity = Complexity(d.Body)
	}
	return draft
}

// DeclSig derives the canonical signature string for a declaration:
// "(params) -> ret" for callables, "class/interface/type Name" for
// declarative kinds.
func DeclSig(d DeclDraft) string {
	switch d.Kind {
	case NodeKindClass:
		return "class " + d.Name
	case NodeKindInterface:
		return "interface " + d.Name
	case NodeKindType:
		return "type " + d.Name
	case NodeKindModule:
		return "module " + d.Name
	}

	sig := "(" + strings.Join(d.Params, ", ") + ")"
	if d.ReturnType != "" {
		sig += " -> " + d.ReturnType
	}
	return sig
}
