package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
)

// TypeScriptParser implements LanguageParser for TypeScript language
type TypeScriptParser struct{}

// NewTypeScriptParser creates a new TypeScript parser
func NewTypeScriptParser() *TypeScriptParser {
	return &TypeScriptParser{}
}

// Language returns the language name
func (p *TypeScriptParser) Language() string {
	return string(LanguageTypeScript)
}

// Parse parses TypeScript source code into a concrete syntax tree using the
// tsx grammar, which is a superset covering both .ts and .tsx files.
func (p *TypeScriptParser) Parse(ctx context.Context, code []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(tsx.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, code)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TypeScript code: %w", err)
	}
	return tree, nil
}
