package parser

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
)

// LanguageParser turns source code into a tree-sitter concrete syntax tree.
// Implementations must return an independent tree per call so that multiple
// analyses can run concurrently on their own trees.
type LanguageParser interface {
	// Parse produces a CST for the given source code. The caller owns the
	// returned tree and must Close it when done.
	Parse(ctx context.Context, code []byte) (*sitter.Tree, error)

	// Language returns the language name
	Language() string
}

// Language represents supported source languages
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
)
