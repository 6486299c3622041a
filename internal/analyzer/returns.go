package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// The closed set of coarse return-type labels.
const (
	TypeVoid        = "void"
	TypeAny         = "any"
	TypeNumber      = "number"
	TypeString      = "string"
	TypePromiseVoid = "Promise<void>"
)

// inferReturnType classifies a function's return type from its modifiers and
// its own return statements. The rules apply in precedence order:
//
//  1. async function            -> Promise<void>
//  2. expression-bodied arrow   -> any
//  3. first literal-typed return found depth-first:
//     number literal -> number, string literal -> string
//  4. otherwise                 -> void
//
// This is a syntactic heuristic, not a type system. Divergent returns are
// not reconciled; the first literal-typed return wins.
func inferReturnType(fn *sitter.Node, code []byte, isAsync, isArrow bool) string {
	if isAsync {
		return TypePromiseVoid
	}

	body := fn.ChildByFieldName("body")
	if isArrow && body != nil && body.Type() != "statement_block" {
		return TypeAny
	}

	if label := firstReturnLiteral(body); label != "" {
		return label
	}
	return TypeVoid
}

// firstReturnLiteral searches depth-first for the first return statement
// carrying a number or string literal and returns the matching label, or ""
// when no such return exists.
func firstReturnLiteral(node *sitter.Node) string {
	if node == nil {
		return ""
	}

	if node.Type() == "return_statement" {
		if expr := node.NamedChild(0); expr != nil {
			switch expr.Type() {
			case "number":
				return TypeNumber
			case "string":
				return TypeString
			}
		}
		// Non-literal return: keep scanning.
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		if label := firstReturnLiteral(node.NamedChild(i)); label != "" {
			return label
		}
	}
	return ""
}
