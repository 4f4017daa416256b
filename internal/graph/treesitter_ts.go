package graph

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// tsWalker collects declaration, call, and import drafts from TypeScript
// files.
type tsWalker struct{}

func (w *tsWalker) Walk(root *tree_sitter.Node, source []byte, out *ParseResult) {
	cursor := root.Walk()
	defer cursor.Close()
	w.walk(cursor, source, out, "", "")
}

func (w *tsWalker) walk(cursor *tree_sitter.TreeCursor, source []byte, out *ParseResult, owner, enclosing string) {
	node := cursor.Node()
	innerOwner := owner
	innerEnclosing := enclosing

	switch node.Kind() {
	case "function_declaration":
		if d := w.extractCallable(node, source, NodeKindFunction, ""); d != nil {
			out.Decls = append(out.Decls, *d)
			innerEnclosing = d.Name
		}

	case "class_declaration", "abstract_class_declaration":
		if d := w.extractClass(node, source); d != nil {
			out.Decls = append(out.Decls, *d)
			innerOwner = d.Name
		}

	case "interface_declaration":
		if name := fieldText(node, "name", source); name != "" {
			out.Decls = append(out.Decls, DeclDraft{
				Kind:      NodeKindInterface,
				Name:      name,
				Doc:       leadingComment(node, source, "comment"),
				Body:      fieldText(node, "body", source),
				StartLine: nodeLine(node),
				EndLine:   nodeEndLine(node),
				Extends:   tsHeritageNames(node, source, "extends_clause"),
			})
		}

	case "type_alias_declaration", "enum_declaration":
		if name := fieldText(node, "name", source); name != "" {
			out.Decls = append(out.Decls, DeclDraft{
				Kind:      NodeKindType,
				Name:      name,
				Doc:       leadingComment(node, source, "comment"),
				Body:      node.Utf8Text(source),
				StartLine: nodeLine(node),
				EndLine:   nodeEndLine(node),
			})
		}

	case "method_definition":
		if d := w.extractCallable(node, source, NodeKindMethod, owner); d != nil {
			out.Decls = append(out.Decls, *d)
			innerEnclosing = d.Name
			if owner != "" {
				innerEnclosing = owner + "." + d.Name
			}
		}

	case "lexical_declaration":
		for _, d := range w.extractArrowFunctions(node, source) {
			out.Decls = append(out.Decls, d)
		}

	case "arrow_function", "function_expression":
		// Attribute nested call sites to the assigned name when the arrow
		// function is the value of a const/let declarator.
		if name := tsDeclaratorName(node, source); name != "" {
			innerEnclosing = name
		}

	case "import_statement":
		if target := strings.Trim(fieldText(node, "source", source), "\"'`"); target != "" {
			out.Imports = append(out.Imports, ImportDraft{Target: target, Line: nodeLine(node)})
		}

	case "call_expression":
		fn := node.ChildByFieldName("function")
		if fn != nil && enclosing != "" {
			if callee := calleeText(fn, source, "member_expression"); callee != "" {
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

func (w *tsWalker) extractCallable(node *tree_sitter.Node, source []byte, kind NodeKind, owner string) *DeclDraft {
	name := fieldText(node, "name", source)
	if name == "" || name == "constructor" {
		return nil
	}
	return &DeclDraft{
		Kind:       kind,
		Name:       name,
		Owner:      owner,
		Params:     tsParams(node.ChildByFieldName("parameters"), source),
		ReturnType: tsReturnType(node, source),
		Doc:        leadingComment(node, source, "comment"),
		Body:       fieldText(node, "body", source),
		StartLine:  nodeLine(node),
		EndLine:    nodeEndLine(node),
	}
}

func (w *tsWalker) extractClass(node *tree_sitter.Node, source []byte) *DeclDraft {
	name := fieldText(node, "name", source)
	if name == "" {
		return nil
	}
	return &DeclDraft{
		Kind:       NodeKindClass,
		Name:       name,
		Doc:        leadingComment(node, source, "comment"),
		Body:       fieldText(node, "body", source),
		StartLine:  nodeLine(node),
		EndLine:    nodeEndLine(node),
		Extends:    tsHeritageNames(node, source, "extends_clause"),
		Implements: tsHeritageNames(node, source, "implements_clause"),
	}
}

// extractArrowFunctions finds "const foo = () => ..." declarators and emits
// them as Function drafts.
func (w *tsWalker) extractArrowFunctions(node *tree_sitter.Node, source []byte) []DeclDraft {
	var decls []DeclDraft
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.Kind() != "variable_declarator" {
			continue
		}
		value := child.ChildByFieldName("value")
		if value == nil {
			continue
		}
		if k := value.Kind(); k != "arrow_function" && k != "function_expression" {
			continue
		}
		name := fieldText(child, "name", source)
		if name == "" {
			continue
		}
		decls = append(decls, DeclDraft{
			Kind:       NodeKindFunction,
			Name:       name,
			Params:     tsParams(value.ChildByFieldName("parameters"), source),
			ReturnType: tsReturnType(value, source),
			Doc:        leadingComment(node, source, "comment"),
			Body:       fieldText(value, "body", source),
			StartLine:  nodeLine(node),
			EndLine:    nodeEndLine(node),
		})
	}
	return decls
}

// tsParams returns one entry per formal parameter, text condensed
// ("id: string", "opts?: Options").
func tsParams(list *tree_sitter.Node, source []byte) []string {
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
		case "required_parameter", "optional_parameter", "rest_parameter":
			params = append(params, condenseWS(child.Utf8Text(source)))
		}
	}
	return params
}

// tsReturnType extracts the return annotation without its leading colon.
func tsReturnType(node *tree_sitter.Node, source []byte) string {
	ret := fieldText(node, "return_type", source)
	ret = strings.TrimPrefix(ret, ":")
	return condenseWS(ret)
}

// tsHeritageNames collects identifier names from an extends/implements
// clause nested under the declaration's class_heritage (classes) or directly
// under the declaration (interfaces).
func tsHeritageNames(node *tree_sitter.Node, source []byte, clauseKind string) []string {
	var names []string
	var visit func(n *tree_sitter.Node, inClause bool)
	visit = func(n *tree_sitter.Node, inClause bool) {
		for i := uint(0); i < n.ChildCount(); i++ {
			child := n.Child(i)
			if child == nil {
				continue
			}
			kind := child.Kind()
			// Interfaces use extends_type_clause where classes use
			// extends_clause.
			if kind == clauseKind || (clauseKind == "extends_clause" && kind == "extends_type_clause") {
				visit(child, true)
				continue
			}
			switch kind {
			case "class_heritage":
				visit(child, false)
			case "identifier", "type_identifier", "nested_type_identifier", "member_expression", "generic_type":
				if inClause {
					name := child.Utf8Text(source)
					if idx := strings.IndexByte(name, '<'); idx > 0 {
						name = name[:idx]
					}
					names = append(names, strings.TrimSpace(name))
				}
			}
		}
	}
	visit(node, false)
	return names
}

// tsDeclaratorName returns the declarator name when node is the value of a
// variable_declarator, or "".
func tsDeclaratorName(node *tree_sitter.Node, source []byte) string {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "variable_declarator" {
		return ""
	}
	return fieldText(parent, "name", source)
}
