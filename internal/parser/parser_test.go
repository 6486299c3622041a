package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJavaScriptParse(t *testing.T) {
	code := []byte(`
function greet(name) {
    return name;
}
`)
	tree, err := NewJavaScriptParser().Parse(context.Background(), code)
	require.NoError(t, err)
	defer tree.Close()

	root := tree.RootNode()
	require.NotNil(t, root)
	assert.Equal(t, "program", root.Type())
	assert.False(t, root.HasError())
}

func TestTypeScriptParse(t *testing.T) {
	code := []byte(`
function add(a: number, b: number): number {
    return a + b;
}
`)
	tree, err := NewTypeScriptParser().Parse(context.Background(), code)
	require.NoError(t, err)
	defer tree.Close()

	root := tree.RootNode()
	require.NotNil(t, root)
	assert.Equal(t, "program", root.Type())
	assert.False(t, root.HasError())
}

func TestParseReturnsIndependentTrees(t *testing.T) {
	p := NewJavaScriptParser()
	code := []byte("function f() { return 1; }")

	first, err := p.Parse(context.Background(), code)
	require.NoError(t, err)
	defer first.Close()

	second, err := p.Parse(context.Background(), code)
	require.NoError(t, err)
	defer second.Close()

	assert.NotSame(t, first, second)
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		filePath string
		expected Language
	}{
		{"app.js", LanguageJavaScript},
		{"component.jsx", LanguageJavaScript},
		{"module.mjs", LanguageJavaScript},
		{"legacy.cjs", LanguageJavaScript},
		{"types.ts", LanguageTypeScript},
		{"component.tsx", LanguageTypeScript},
		{"main.go", ""},
		{"unknown.txt", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DetectLanguage(tt.filePath), tt.filePath)
	}
}

func TestParserFactory(t *testing.T) {
	factory := NewParserFactory()

	p, err := factory.GetParser(LanguageJavaScript)
	require.NoError(t, err)
	assert.Equal(t, string(LanguageJavaScript), p.Language())

	p, err = factory.GetParserByFilePath("index.tsx")
	require.NoError(t, err)
	assert.Equal(t, string(LanguageTypeScript), p.Language())

	_, err = factory.GetParser("ruby")
	assert.Error(t, err)

	_, err = factory.GetParserByFilePath("main.rs")
	assert.Error(t, err)
}

func TestIsSupportedFile(t *testing.T) {
	assert.True(t, IsSupportedFile("src/app.js"))
	assert.True(t, IsSupportedFile("src/app.tsx"))
	assert.False(t, IsSupportedFile("src/app.py"))
}
