package graph

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// pyWalker collects declaration, call, and import drafts from Python files.
type pyWalker struct{}

func (w *pyWalker) Walk(root *tree_sitter.Node, source []byte, out *ParseResult) {
	cursor := root.Walk()
	defer cursor.Close()
	w.walk(cursor, source, out, "", "")
}

func (w *pyWalker) walk(cursor *tree_sitter.TreeCursor, source []byte, out *ParseResult, owner, enclosing string) {
	node := cursor.Node()
	innerOwner := owner
	innerEnclosing := enclosing

	switch node.Kind() {
	case "function_definition":
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

	case "class_definition":
		if d := w.extractClass(node, source); d != nil {
			out.Decls = append(out.Decls, *d)
			innerOwner = d.Name
		}

	case "import_statement":
		out.Imports = append(out.Imports, w.extractImports(node, source)...)

	case "import_from_statement":
		if module := fieldText(node, "module_name", source); module != "" {
			out.Imports = append(out.Imports, ImportDraft{Target: module, Line: nodeLine(node)})
		}

	case "call":
		fn := node.ChildByFieldName("function")
		if fn != nil && enclosing != "" {
			if callee := calleeText(fn, source, "attribute"); callee != "" {
				out.Calls = append(out.Calls, CallDraft{
					Caller: enclosing,
					Callee: callee,
					Line:   nodeLine(node),
				})
			}
		}
	}

	if cursor.GotoFirstChild() {
		w.walk(cursor, source, out, innerOwner, innerEnclosing)
		for cursor.GotoNextSibling() {
			w.walk(cursor, source, out, innerOwner, innerEnclosing)
		}
		cursor.GotoParent()
	}
}

func (w *pyWalker) extractFunction(node *tree_sitter.Node, source []byte, kind NodeKind, owner string) *DeclDraft {
	name := fieldText(node, "name", source)
	if name == "" {
		return nil
	}
	body := node.ChildByFieldName("body")
	return &DeclDraft{
		Kind:       kind,
		Name:       name,
		Owner:      owner,
		Params:     pyParams(node.ChildByFieldName("parameters"), source),
		ReturnType: condenseWS(strings.TrimPrefix(fieldText(node, "return_type", source), "->")),
		Doc:        pyDocstring(body, source),
		Body:       pyNodeText(body, source),
		StartLine:  nodeLine(node),
		EndLine:    nodeEndLine(node),
	}
}

func (w *pyWalker) extractClass(node *tree_sitter.Node, source []byte) *DeclDraft {
	name := fieldText(node, "name", source)
	if name == "" {
		return nil
	}
	body := node.ChildByFieldName("body")
	return &DeclDraft{
		Kind:      NodeKindClass,
		Name:      name,
		Doc:       pyDocstring(body, source),
		Body:      pyNodeText(body, source),
		StartLine: nodeLine(node),
		EndLine:   nodeEndLine(node),
		Extends:   pySuperclasses(node, source),
	}
}

// extractImports handles "import a.b, c" — one draft per dotted name.
func (w *pyWalker) extractImports(node *tree_sitter.Node, source []byte) []ImportDraft {
	var imports []ImportDraft
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			imports = append(imports, ImportDraft{Target: child.Utf8Text(source), Line: nodeLine(node)})
		case "aliased_import":
			if name := fieldText(child, "name", source); name != "" {
				imports = append(imports, ImportDraft{Target: name, Line: nodeLine(node)})
			}
		}
	}
	return imports
}

// pyParams returns each formal parameter's condensed text, skipping self/cls.
func pyParams(list *tree_sitter.Node, source []byte) []string {
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
		case "identifier", "typed_parameter", "default_parameter",
			"typed_default_parameter", "list_splat_pattern", "dictionary_splat_pattern":
			text := condenseWS(child.Utf8Text(source))
			if text == "self" || text == "cls" {
				continue
			}
			params = append(params, text)
		}
	}
	return params
}

// pyDocstring returns the docstring when the first statement of a body block
// is a bare string expression.
func pyDocstring(body *tree_sitter.Node, source []byte) string {
	if body == nil || body.ChildCount() == 0 {
		return ""
	}
	first := body.Child(0)
	if first == nil || first.Kind() != "expression_statement" {
		return ""
	}
	str := first.Child(0)
	if str == nil || str.Kind() != "string" {
		return ""
	}
	return strings.Trim(str.Utf8Text(source), `"'`)
}

// pySuperclasses collects base-class names from the argument list.
func pySuperclasses(node *tree_sitter.Node, source []byte) []string {
	args := node.ChildByFieldName("superclasses")
	if args == nil {
		return nil
	}
	var names []string
	for i := uint(0); i < args.ChildCount(); i++ {
		child := args.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier", "attribute":
			names = append(names, child.Utf8Text(source))
		}
	}
	return names
}

func pyNodeText(n *tree_sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(source)
}
