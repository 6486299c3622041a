// Package analyzer extracts per-function metadata from tree-sitter parse
// trees of JavaScript and TypeScript sources. For every non-nested
// function-bearing construct it produces one FunctionRecord: the function's
// name, verbatim parameter list, coarse inferred return type, enclosing
// class, and the deduplicated list of functions it calls.
package analyzer

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"funcscan/internal/models"
	"funcscan/internal/parser"
)

// ErrNoTree is returned when analysis is invoked without a parsed tree.
var ErrNoTree = errors.New("analyzer: no syntax tree provided")

// Options control output richness. The zero value yields name, parameters,
// class, and calls only.
type Options struct {
	// InferReturnTypes adds the coarse return-type label to each record.
	InferReturnTypes bool
	// IncludePositions adds (row, column) start/end positions to each record.
	IncludePositions bool
}

// Result holds the records extracted from one tree, in pre-order source
// order, plus any per-node diagnostics raised along the way.
type Result struct {
	Functions   []models.FunctionRecord
	Diagnostics []models.Diagnostic
}

// Analyze walks the tree rooted at root and extracts one record per
// non-nested function. The tree is read-only during analysis; all working
// state is scoped to this call, so independent trees can be analyzed
// concurrently.
func Analyze(root *sitter.Node, code []byte, opts Options) (*Result, error) {
	if root == nil {
		return nil, ErrNoTree
	}

	a := &analysis{code: code, opts: opts}
	a.walk(root, walkContext{})

	return &Result{Functions: a.functions, Diagnostics: a.diagnostics}, nil
}

// AnalyzeSource parses code with the given parser and analyzes the resulting
// tree. The tree is closed before returning.
func AnalyzeSource(ctx context.Context, p parser.LanguageParser, code []byte, opts Options) (*Result, error) {
	if p == nil {
		return nil, fmt.Errorf("analyzer: nil parser")
	}

	tree, err := p.Parse(ctx, code)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	return Analyze(tree.RootNode(), code, opts)
}
