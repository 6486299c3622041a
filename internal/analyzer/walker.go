package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"

	"funcscan/internal/models"
)

// walkContext is the state carried down the traversal. It is passed by
// value so that updates in one subtree never leak into a sibling subtree.
type walkContext struct {
	currentClass   string
	insideFunction bool
}

type analysis struct {
	code        []byte
	opts        Options
	functions   []models.FunctionRecord
	diagnostics []models.Diagnostic
}

// walk performs a pre-order, left-to-right traversal. Record order and call
// order in the output follow this traversal order exactly.
func (a *analysis) walk(node *sitter.Node, ctx walkContext) {
	if node.Type() == "class_declaration" {
		next := ctx
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			next.currentClass = nameNode.Content(a.code)
		}
		a.walkChildren(node, next)
		return
	}

	cand, diag := classify(node, a.code)
	if diag != nil {
		a.diagnostics = append(a.diagnostics, *diag)
	}
	if cand != nil {
		if !ctx.insideFunction {
			a.emit(cand, ctx)
		}
		// Keep traversing beneath an accepted candidate so that functions
		// declared inside it are still visited, but individually rejected
		// as nested.
		inner := ctx
		inner.insideFunction = true
		a.walkChildren(node, inner)
		return
	}

	if isFunctionKind(node.Type()) {
		// Anonymous or otherwise unclassified function: nothing to emit,
		// but anything declared beneath it counts as nested.
		inner := ctx
		inner.insideFunction = true
		a.walkChildren(node, inner)
		return
	}

	a.walkChildren(node, ctx)
}

func (a *analysis) walkChildren(node *sitter.Node, ctx walkContext) {
	for i := 0; i < int(node.ChildCount()); i++ {
		a.walk(node.Child(i), ctx)
	}
}

func (a *analysis) emit(cand *candidate, ctx walkContext) {
	record := models.FunctionRecord{
		Name:       cand.name,
		Parameters: cand.parameters,
	}

	if cand.kind == candidateMethod && ctx.currentClass != "" {
		record.Class = ctx.currentClass
	}

	if a.opts.InferReturnTypes {
		record.ReturnType = inferReturnType(cand.function, a.code, cand.isAsync, cand.isArrow)
	}

	if body := cand.function.ChildByFieldName("body"); body != nil {
		record.Calls = extractCalls(body, a.code)
	}

	if a.opts.IncludePositions {
		start := cand.function.StartPoint()
		end := cand.function.EndPoint()
		record.StartPosition = &models.Position{Row: int(start.Row), Column: int(start.Column)}
		record.EndPosition = &models.Position{Row: int(end.Row), Column: int(end.Column)}
	}

	a.functions = append(a.functions, record)
}
