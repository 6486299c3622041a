package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// extractCalls collects the names of functions called inside one function
// body, deduplicated, in first-occurrence order. Local variables assigned
// from `new ClassName(...)` act as aliases so that instance-method calls
// resolve to Class.method. calls through console are treated as a logging
// side channel and never recorded.
func extractCalls(body *sitter.Node, code []byte) []string {
	e := &callExtractor{
		code:    code,
		aliases: make(map[string]string),
		seen:    make(map[string]struct{}),
	}
	e.walk(body)
	return e.calls
}

// callExtractor holds the per-body alias table and output list. Its lifetime
// is a single extractCalls invocation.
type callExtractor struct {
	code    []byte
	aliases map[string]string
	seen    map[string]struct{}
	calls   []string
}

// walk is a single forward pass: an alias takes effect only for calls that
// appear after the `new` assignment in traversal order, and a later
// reassignment simply overwrites the table entry. This ordering sensitivity
// is part of the heuristic's contract.
func (e *callExtractor) walk(node *sitter.Node) {
	if node == nil {
		return
	}

	switch node.Type() {
	case "variable_declarator":
		e.recordAlias(node)
	case "call_expression":
		e.recordCall(node)
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		e.walk(node.NamedChild(i))
	}
}

func (e *callExtractor) recordAlias(node *sitter.Node) {
	value := node.ChildByFieldName("value")
	if value == nil || value.Type() != "new_expression" {
		return
	}
	nameNode := node.ChildByFieldName("name")
	ctor := value.ChildByFieldName("constructor")
	if nameNode == nil || ctor == nil || nameNode.Type() != "identifier" {
		return
	}
	e.aliases[nameNode.Content(e.code)] = ctor.Content(e.code)
}

func (e *callExtractor) recordCall(node *sitter.Node) {
	callee := node.ChildByFieldName("function")
	if callee == nil {
		return
	}

	var name string
	switch callee.Type() {
	case "identifier":
		name = callee.Content(e.code)

	case "member_expression":
		object := callee.ChildByFieldName("object")
		property := callee.ChildByFieldName("property")
		if object == nil || property == nil {
			return
		}
		objText := object.Content(e.code)
		if objText == "console" {
			return
		}
		if class, ok := e.aliases[objText]; ok {
			name = class + "." + property.Content(e.code)
		} else {
			name = objText + "." + property.Content(e.code)
		}

	default:
		return
	}

	// Defensive double filter for the common logging call.
	if name == "" || name == "console.log" {
		return
	}
	if _, ok := e.seen[name]; ok {
		return
	}
	e.seen[name] = struct{}{}
	e.calls = append(e.calls, name)
}
