package graph

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// goWalker collects declaration, call, and import drafts from Go files.
type goWalker struct{}

func (w *goWalker) Walk(root *tree_sitter.Node, source []byte, out *ParseResult) {
	cursor := root.Walk()
	defer cursor.Close()
	w.walk(cursor, source, out, "")
}

// walk descends the tree carrying the name of the enclosing declaration so
// call expressions can be attributed to their caller.
func (w *goWalker) walk(cursor *tree_sitter.TreeCursor, source []byte, out *ParseResult, enclosing string) {
	node := cursor.Node()
	inner := enclosing

	switch node.Kind() {
	case "function_declaration":
		if d := w.extractFunction(node, source, NodeKindFunction, ""); d != nil {
			out.Decls = append(out.Decls, *d)
			inner = d.Name
		}

	case "method_declaration":
		owner := goReceiverType(node, source)
		if d := w.extractFunction(node, source, NodeKindMethod, owner); d != nil {
			out.Decls = append(out.Decls, *d)
			inner = d.Name
			if owner != "" {
				inner = owner + "." + d.Name
			}
		}

	case "type_declaration":
		out.Decls = append(out.Decls, w.extractTypeSpecs(node, source)...)

	case "import_spec":
		if target := strings.Trim(fieldText(node, "path", source), `"`); target != "" {
			out.Imports = append(out.Imports, ImportDraft{Target: target, Line: nodeLine(node)})
		}

	case "call_expression":
		fn := node.ChildByFieldName("function")
		if fn != nil && enclosing != "" {
			if callee := calleeText(fn, source, "selector_expression"); callee != "" {
				out.Calls = append(out.Calls, CallDraft{
					Caller: enclosing,
					Callee: callee,
					Line:   nodeLine(node),
				})
			}
		}
	}

	if cursor.GotoFirstChild() {
		w.walk(cursor, source, out, inner)
		for cursor.GotoNextSibling() {
			w.walk(cursor, source, out, inner)
		}
		cursor.GotoParent()
	}
}

func (w *goWalker) extractFunction(node *tree_sitter.Node, source []byte, kind NodeKind, owner string) *DeclDraft {
	name := fieldText(node, "name", source)
	if name == "" {
		return nil
	}
	return &DeclDraft{
		Kind:       kind,
		Name:       name,
		Owner:      owner,
		Params:     goParams(node, source),
		ReturnType: condenseWS(fieldText(node, "result", source)),
		Doc:        leadingComment(node, source, "comment"),
		Body:       fieldText(node, "body", source),
		StartLine:  nodeLine(node),
		EndLine:    nodeEndLine(node),
	}
}

// extractTypeSpecs handles a type_declaration, which owns one or more
// type_spec children. Structs and aliases map to Type, interfaces to
// Interface; Go has no Class kind.
func (w *goWalker) extractTypeSpecs(node *tree_sitter.Node, source []byte) []DeclDraft {
	var decls []DeclDraft
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.Kind() != "type_spec" {
			continue
		}
		name := fieldText(child, "name", source)
		if name == "" {
			continue
		}
		kind := NodeKindType
		if typeNode := child.ChildByFieldName("type"); typeNode != nil && typeNode.Kind() == "interface_type" {
			kind = NodeKindInterface
		}
		decls = append(decls, DeclDraft{
			Kind: kind,
			Name: name,
			Doc:  leadingComment(node, source, "comment"),
			Body: fieldText(child, "type", source),
			// The type_declaration node spans the doc-relevant range.
			StartLine: nodeLine(child),
			EndLine:   nodeEndLine(child),
		})
	}
	return decls
}

// goParams returns one entry per parameter declaration, text condensed
// ("id string", "opts ...Option").
func goParams(node *tree_sitter.Node, source []byte) []string {
	list := node.ChildByFieldName("parameters")
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
		case "parameter_declaration", "variadic_parameter_declaration":
			params = append(params, condenseWS(child.Utf8Text(source)))
		}
	}
	return params
}

// goReceiverType extracts the bare receiver type name of a method
// declaration ("(s *Server)" yields "Server").
func goReceiverType(node *tree_sitter.Node, source []byte) string {
	recv := node.ChildByFieldName("receiver")
	if recv == nil {
		return ""
	}
	for i := uint(0); i < recv.ChildCount(); i++ {
		child := recv.Child(i)
		if child == nil || child.Kind() != "parameter_declaration" {
			continue
		}
		t := fieldText(child, "type", source)
		t = strings.TrimPrefix(t, "*")
		// Strip generic type arguments: "Cache[K, V]" -> "Cache".
		if idx := strings.IndexByte(t, '['); idx > 0 {
			t = t[:idx]
		}
		return strings.TrimSpace(t)
	}
	return ""
}

// condenseWS collapses all whitespace runs to single spaces.
func condenseWS(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
