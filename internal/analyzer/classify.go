package analyzer

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"funcscan/internal/models"
)

type candidateKind int

const (
	candidateFunction candidateKind = iota
	candidateMethod
	candidateVariable
)

// candidate is a node provisionally identified as function-bearing,
// pending the nesting check.
type candidate struct {
	name       string
	parameters string
	kind       candidateKind
	function   *sitter.Node
	isAsync    bool
	isArrow    bool
}

// isFunctionKind reports whether a node kind has a function body, so that
// everything beneath it counts as nested. This is a superset of the
// emit-eligible kinds: generator functions are never classified as
// candidates, but their interiors are still function interiors. "function"
// is the older grammar name for function expressions and is accepted
// alongside "function_expression".
func isFunctionKind(kind string) bool {
	switch kind {
	case "function_declaration", "method_definition", "arrow_function",
		"function_expression", "function",
		"generator_function_declaration", "generator_function":
		return true
	}
	return false
}

// classify decides whether node denotes one of the four recognized function
// forms. A node missing an expected name field yields no candidate rather
// than an error; a diagnostic is returned only when a declarator genuinely
// binds a function but its structure cannot be extracted.
func classify(node *sitter.Node, code []byte) (*candidate, *models.Diagnostic) {
	switch node.Type() {
	case "function_declaration":
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			return nil, nil
		}
		return &candidate{
			name:       nameNode.Content(code),
			parameters: paramsText(node, code),
			kind:       candidateFunction,
			function:   node,
			isAsync:    hasAsyncModifier(node),
		}, nil

	case "method_definition":
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			return nil, nil
		}
		if nameNode.Type() == "computed_property_name" {
			// Unsupported construct, silently skipped.
			return nil, nil
		}
		return &candidate{
			name:       nameNode.Content(code),
			parameters: paramsText(node, code),
			kind:       candidateMethod,
			function:   node,
			isAsync:    hasAsyncModifier(node),
		}, nil

	case "lexical_declaration", "variable_declaration":
		return classifyDeclaration(node, code)
	}

	return nil, nil
}

// classifyDeclaration handles const/let/var declarations whose declarator
// initializes an arrow function or function expression. A declaration with
// no qualifying declarator yields no candidate.
func classifyDeclaration(node *sitter.Node, code []byte) (*candidate, *models.Diagnostic) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "variable_declarator" {
			continue
		}

		value := child.ChildByFieldName("value")
		if value == nil {
			continue
		}
		switch value.Type() {
		case "arrow_function", "function_expression", "function":
		default:
			continue
		}

		nameNode := child.ChildByFieldName("name")
		if nameNode == nil || nameNode.Type() != "identifier" {
			// A function initializer bound to a pattern has no single name
			// to report. Skip the candidate but surface the node.
			return nil, nodeDiagnostic(child,
				"variable declarator with function initializer has no bound identifier")
		}

		return &candidate{
			name:       nameNode.Content(code),
			parameters: paramsText(value, code),
			kind:       candidateVariable,
			function:   value,
			isAsync:    hasAsyncModifier(value),
			isArrow:    value.Type() == "arrow_function",
		}, nil
	}
	return nil, nil
}

// paramsText returns the verbatim parameter-list source text of a function
// node. Single-identifier arrow functions store an unparenthesized
// "parameter" field instead of "parameters".
func paramsText(fn *sitter.Node, code []byte) string {
	if params := fn.ChildByFieldName("parameters"); params != nil {
		return params.Content(code)
	}
	if param := fn.ChildByFieldName("parameter"); param != nil {
		return param.Content(code)
	}
	return ""
}

// hasAsyncModifier checks for the anonymous "async" keyword token among a
// function node's children.
func hasAsyncModifier(fn *sitter.Node) bool {
	for i := 0; i < int(fn.ChildCount()); i++ {
		if fn.Child(i).Type() == "async" {
			return true
		}
	}
	return false
}

func nodeDiagnostic(node *sitter.Node, message string) *models.Diagnostic {
	start := node.StartPoint()
	end := node.EndPoint()
	return &models.Diagnostic{
		Message:       fmt.Sprintf("%s (%s)", message, node.Type()),
		StartPosition: models.Position{Row: int(start.Row), Column: int(start.Column)},
		EndPosition:   models.Position{Row: int(end.Row), Column: int(end.Column)},
	}
}
