package graph

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// rsWalker collects declaration, call, and import drafts from Rust files.
type rsWalker struct{}

// traitImpl records one "impl Trait for Type" block seen during the walk.
type traitImpl struct {
	typeName  string
	traitName string
}

func (w *rsWalker) Walk(root *tree_sitter.Node, source []byte, out *ParseResult) {
	cursor := root.Walk()
	defer cursor.Close()

	var impls []traitImpl
	w.walk(cursor, source, out, "", "", &impls)

	// Attach trait implementations to the type declarations of this file.
	// Impl blocks for types declared elsewhere are dropped; the resolver has
	// no cross-file type index.
	for _, imp := range impls {
		for i := range out.Decls {
			d := &out.Decls[i]
			if d.Name == imp.typeName && (d.Kind == NodeKindType || d.Kind == NodeKindClass) {
				d.Implements = append(d.Implements, imp.traitName)
			}
		}
	}
}

func (w *rsWalker) walk(cursor *tree_sitter.TreeCursor, source []byte, out *ParseResult, owner, enclosing string, impls *[]traitImpl) {
	node := cursor.Node()
	innerOwner := owner
	innerEnclosing := enclosing

	switch node.Kind() {
	case "function_item":
		kind := NodeKindFunction
		declOwner := ""
		if owner != "" {
			kind = NodeKindMethod
			declOwner = owner
		}
		if d := w.extractFunction(node, source, kind, declOwner); d != nil {
			out.Decls = append(out.Decls, *d)
			innerEnclosing = d.Name
			if declOwner != "" {
				innerEnclosing = declOwner + "." + d.Name
			}
		}

	case "struct_item", "enum_item":
		if name := fieldText(node, "name", source); name != "" {
			out.Decls = append(out.Decls, DeclDraft{
				Kind:      NodeKindType,
				Name:      name,
				Doc:       leadingComment(node, source, "line_comment", "block_comment"),
				Body:      node.Utf8Text(source),
				StartLine: nodeLine(node),
				EndLine:   nodeEndLine(node),
			})
		}

	case "trait_item":
		if name := fieldText(node, "name", source); name != "" {
			out.Decls = append(out.Decls, DeclDraft{
				Kind:      NodeKindInterface,
				Name:      name,
				Doc:       leadingComment(node, source, "line_comment", "block_comment"),
				Body:      fieldText(node, "body", source),
				StartLine: nodeLine(node),
				EndLine:   nodeEndLine(node),
			})
			innerOwner = name
		}

	case "impl_item":
		typeName := rsTypeName(fieldText(node, "type", source))
		if typeName != "" {
			innerOwner = typeName
			if trait := rsTypeName(fieldText(node, "trait", source)); trait != "" {
				*impls = append(*impls, traitImpl{typeName: typeName, traitName: trait})
			}
		}

	case "use_declaration":
		if target := fieldText(node, "argument", source); target != "" {
			out.Imports = append(out.Imports, ImportDraft{Target: target, Line: nodeLine(node)})
		}

	case "call_expression":
		fn := node.ChildByFieldName("function")
		if fn != nil && enclosing != "" {
			if callee := calleeText(fn, source, "scoped_identifier", "field_expression"); callee != "" {
				out.Calls = append(out.Calls, CallDraft{
					Caller: enclosing,
					Callee: callee,
					Line:   nodeLine(node),
				})
			}
		}
	}

	if cursor.GotoFirstChild() {
		w.walk(cursor, source, out, innerOwner, innerEnclosing, impls)
		for cursor.GotoNextSibling() {
			w.walk(cursor, source, out, innerOwner, innerEnclosing, impls)
		}
		cursor.GotoParent()
	}
}

func (w *rsWalker) extractFunction(node *tree_sitter.Node, source []byte, kind NodeKind, owner string) *DeclDraft {
	name := fieldText(node, "name", source)
	if name == "" {
		return nil
	}
	return &DeclDraft{
		Kind:       kind,
		Name:       name,
		Owner:      owner,
		Params:     rsParams(node.ChildByFieldName("parameters"), source),
		ReturnType: condenseWS(fieldText(node, "return_type", source)),
		Doc:        leadingComment(node, source, "line_comment", "block_comment"),
		Body:       fieldText(node, "body", source),
		StartLine:  nodeLine(node),
		EndLine:    nodeEndLine(node),
	}
}

// rsParams returns each parameter's condensed text, skipping self receivers.
func rsParams(list *tree_sitter.Node, source []byte) []string {
	if list == nil {
		return nil
	}
	var params []string
	for i := uint(0); i < list.ChildCount(); i++ {
		child := list.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "parameter", "variadic_parameter":
			params = append(params, condenseWS(child.Utf8Text(source)))
		case "self_parameter":
			// receiver, not a parameter
		}
	}
	return params
}

// rsTypeName strips generic arguments and reference sigils from a type or
// trait expression ("&mut Vec<T>" yields "Vec").
func rsTypeName(t string) string {
	t = strings.TrimSpace(t)
	t = strings.TrimPrefix(t, "&")
	t = strings.TrimPrefix(t, "mut ")
	if idx := strings.IndexByte(t, '<'); idx > 0 {
		t = t[:idx]
	}
	// Keep only the final path segment: "crate::model::User" -> "User".
	if idx := strings.LastIndex(t, "::"); idx >= 0 {
		t = t[idx+2:]
	}
	return strings.TrimSpace(t)
}
