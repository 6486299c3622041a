package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// JavaScriptParser implements LanguageParser for JavaScript language
type JavaScriptParser struct{}

// NewJavaScriptParser creates a new JavaScript parser
func NewJavaScriptParser() *JavaScriptParser {
	return &JavaScriptParser{}
}

// Language returns the language name
func (p *JavaScriptParser) Language() string {
	return string(LanguageJavaScript)
}

// Parse parses JavaScript source code into a concrete syntax tree. A fresh
// sitter.Parser is created per call, so concurrent parses never share state.
func (p *JavaScriptParser) Parse(ctx context.Context, code []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, code)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JavaScript code: %w", err)
	}
	return tree, nil
}
