package analyzer

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funcscan/internal/parser"
)

func analyzeJS(t *testing.T, code string, opts Options) *Result {
	t.Helper()
	result, err := AnalyzeSource(context.Background(), parser.NewJavaScriptParser(), []byte(code), opts)
	require.NoError(t, err)
	return result
}

func recordNames(result *Result) []string {
	names := make([]string, 0, len(result.Functions))
	for _, fn := range result.Functions {
		names = append(names, fn.Name)
	}
	return names
}

func TestNestedFunctionsExcluded(t *testing.T) {
	code := `
function outer() {
    function inner() {
        doWork();
    }
    const arrow = () => {
        moreWork();
    };
    inner();
}
`
	result := analyzeJS(t, code, Options{})
	assert.Equal(t, []string{"outer"}, recordNames(result))
}

func TestAnonymousIIFEYieldsNoRecords(t *testing.T) {
	code := `(function(){ var x = 1; })();`
	result := analyzeJS(t, code, Options{})
	assert.Empty(t, result.Functions)
}

func TestFunctionInsideIIFEIsNested(t *testing.T) {
	code := `
(function() {
    function hidden() {
        return 1;
    }
})();
`
	result := analyzeJS(t, code, Options{})
	assert.Empty(t, result.Functions)
}

func TestClassScoping(t *testing.T) {
	code := `
class Greeter {
    greet(name) {
        return name;
    }
}

function free() {
    return 1;
}
`
	result := analyzeJS(t, code, Options{})
	require.Len(t, result.Functions, 2)

	assert.Equal(t, "greet", result.Functions[0].Name)
	assert.Equal(t, "Greeter", result.Functions[0].Class)
	assert.Equal(t, "(name)", result.Functions[0].Parameters)

	assert.Equal(t, "free", result.Functions[1].Name)
	assert.Empty(t, result.Functions[1].Class, "a function outside any class must not carry a class")
}

func TestClassContextDoesNotLeakAcrossSiblings(t *testing.T) {
	code := `
class First {
    a() { return 1; }
}
class Second {
    b() { return 2; }
}
const after = () => {
    return 3;
};
`
	result := analyzeJS(t, code, Options{})
	require.Len(t, result.Functions, 3)
	assert.Equal(t, "First", result.Functions[0].Class)
	assert.Equal(t, "Second", result.Functions[1].Class)
	assert.Empty(t, result.Functions[2].Class)
}

func TestOrderPreservation(t *testing.T) {
	code := `
function alpha() { a(); }
const beta = () => { b(); };
class Gamma {
    delta() { d(); }
}
var epsilon = function() { e(); };
`
	result := analyzeJS(t, code, Options{})
	assert.Equal(t, []string{"alpha", "beta", "delta", "epsilon"}, recordNames(result))
}

func TestReturnTypePrecedenceAsyncWins(t *testing.T) {
	code := `
async function compute() {
    return 5;
}
`
	result := analyzeJS(t, code, Options{InferReturnTypes: true})
	require.Len(t, result.Functions, 1)
	assert.Equal(t, TypePromiseVoid, result.Functions[0].ReturnType)
}

func TestReturnTypeInference(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{"number literal", "function f() { return 42; }", TypeNumber},
		{"string literal", "function f() { return 'hi'; }", TypeString},
		{"no return", "function f() { doWork(); }", TypeVoid},
		{"bare return", "function f() { return; }", TypeVoid},
		{"non-literal return", "function f() { return x + 1; }", TypeVoid},
		{"expression arrow", "const f = (x) => x + 1;", TypeAny},
		{"block arrow with number", "const f = () => { return 7; };", TypeNumber},
		{"async arrow", "const f = async () => { return 1; };", TypePromiseVoid},
		{"first literal wins", "function f() { if (x) { return 'a'; } return 2; }", TypeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyzeJS(t, tt.code, Options{InferReturnTypes: true})
			require.Len(t, result.Functions, 1)
			assert.Equal(t, tt.expected, result.Functions[0].ReturnType)
		})
	}
}

func TestReturnTypeOmittedWhenNotRequested(t *testing.T) {
	result := analyzeJS(t, "function f() { return 1; }", Options{})
	require.Len(t, result.Functions, 1)
	assert.Empty(t, result.Functions[0].ReturnType)
}

func TestCallDedupKeepsFirstOccurrence(t *testing.T) {
	code := `
function caller() {
    second();
    first();
    second();
    first();
}
`
	result := analyzeJS(t, code, Options{})
	require.Len(t, result.Functions, 1)
	assert.Equal(t, []string{"second", "first"}, result.Functions[0].Calls)
}

func TestConsoleCallsNeverRecorded(t *testing.T) {
	code := `
function noisy() {
    console.log('a');
    console.error('b');
    console.warn('c');
    actualWork();
}
`
	result := analyzeJS(t, code, Options{})
	require.Len(t, result.Functions, 1)
	assert.Equal(t, []string{"actualWork"}, result.Functions[0].Calls)
}

func TestAliasResolution(t *testing.T) {
	code := `
function useFoo() {
    const c = new Foo();
    c.bar();
    c.baz();
}
`
	result := analyzeJS(t, code, Options{})
	require.Len(t, result.Functions, 1)
	assert.Equal(t, []string{"Foo.bar", "Foo.baz"}, result.Functions[0].Calls)
}

func TestAliasNotRetroactive(t *testing.T) {
	// A call textually before the constructor assignment sees no alias;
	// the single forward pass is not flow-sensitive.
	code := `
function early() {
    c.bar();
    const c = new Foo();
    c.baz();
}
`
	result := analyzeJS(t, code, Options{})
	require.Len(t, result.Functions, 1)
	assert.Equal(t, []string{"c.bar", "Foo.baz"}, result.Functions[0].Calls)
}

func TestUnknownMemberCallsKeptLiteral(t *testing.T) {
	code := `
function usesModule() {
    utils.format();
}
`
	result := analyzeJS(t, code, Options{})
	require.Len(t, result.Functions, 1)
	assert.Equal(t, []string{"utils.format"}, result.Functions[0].Calls)
}

func TestCombinedScenario(t *testing.T) {
	code := `
async function hello() {
    const foo = () => 123;
}

const greet = (name) => {
    hello();
    return 123;
};
`
	result := analyzeJS(t, code, Options{InferReturnTypes: true})
	require.Len(t, result.Functions, 2)

	hello := result.Functions[0]
	assert.Equal(t, "hello", hello.Name)
	assert.Equal(t, TypePromiseVoid, hello.ReturnType)
	assert.Empty(t, hello.Calls, "inner foo must not contribute records or calls")

	greet := result.Functions[1]
	assert.Equal(t, "greet", greet.Name)
	assert.Equal(t, "(name)", greet.Parameters)
	assert.Equal(t, TypeNumber, greet.ReturnType)
	assert.Equal(t, []string{"hello"}, greet.Calls)
}

func TestAsyncClassMethod(t *testing.T) {
	code := `
class MyClass {
    async method(a, b, c = 1) {
        return 'abc';
    }
}
`
	result := analyzeJS(t, code, Options{InferReturnTypes: true})
	require.Len(t, result.Functions, 1)

	fn := result.Functions[0]
	assert.Equal(t, "method", fn.Name)
	assert.Equal(t, "MyClass", fn.Class)
	assert.Equal(t, "(a, b, c = 1)", fn.Parameters)
	assert.Equal(t, TypePromiseVoid, fn.ReturnType)
}

func TestSingleIdentifierArrowParameter(t *testing.T) {
	result := analyzeJS(t, "const id = x => x;", Options{})
	require.Len(t, result.Functions, 1)
	assert.Equal(t, "x", result.Functions[0].Parameters)
}

func TestPositionsIncludedOnRequest(t *testing.T) {
	code := "function located() {\n    return 1;\n}\n"
	result := analyzeJS(t, code, Options{IncludePositions: true})
	require.Len(t, result.Functions, 1)

	fn := result.Functions[0]
	require.NotNil(t, fn.StartPosition)
	require.NotNil(t, fn.EndPosition)
	assert.Equal(t, 0, fn.StartPosition.Row)
	assert.Equal(t, 2, fn.EndPosition.Row)
}

func TestPositionsOmittedByDefault(t *testing.T) {
	result := analyzeJS(t, "function f() { return 1; }", Options{})
	require.Len(t, result.Functions, 1)
	assert.Nil(t, result.Functions[0].StartPosition)
	assert.Nil(t, result.Functions[0].EndPosition)
}

func TestAnalyzeNilTree(t *testing.T) {
	_, err := Analyze(nil, nil, Options{})
	assert.ErrorIs(t, err, ErrNoTree)
}

func TestPatternBoundFunctionYieldsDiagnostic(t *testing.T) {
	code := `const { run } = makeRunner();
const handler = ([a]) => {
    return 1;
};
var broken = function() {
    return 2;
};
`
	// Destructuring a function initializer has no single bound name.
	result := analyzeJS(t, "const [f] = () => { return 1; };", Options{})
	assert.Empty(t, result.Functions)
	require.Len(t, result.Diagnostics, 1)
	assert.Contains(t, result.Diagnostics[0].Message, "no bound identifier")

	// Ordinary declarations are unaffected.
	result = analyzeJS(t, code, Options{})
	assert.Equal(t, []string{"handler", "broken"}, recordNames(result))
	assert.Empty(t, result.Diagnostics)
}

func TestGeneratorBodyIsFunctionInterior(t *testing.T) {
	code := `
function* gen() {
    function inner() {
        return 1;
    }
    yield inner();
}

const pump = function*() {
    const helper = () => 2;
    yield helper();
};

function after() {
    return 3;
}
`
	// Generators themselves are not recognized forms, so they yield no
	// records, but functions declared inside their bodies are still nested.
	result := analyzeJS(t, code, Options{})
	assert.Equal(t, []string{"after"}, recordNames(result))
	assert.Empty(t, result.Diagnostics)
}

func TestAsyncGeneratorBodyIsFunctionInterior(t *testing.T) {
	code := `
async function* stream() {
    function inner() {
        return 1;
    }
    yield inner();
}
`
	result := analyzeJS(t, code, Options{})
	assert.Empty(t, result.Functions)
}

func TestObjectLiteralShorthandMethod(t *testing.T) {
	// Shorthand methods in object literals parse as method definitions and
	// are reported as class-less records.
	code := `
const handlers = {
    onClick(event) {
        dispatch(event);
    }
};
`
	result := analyzeJS(t, code, Options{})
	require.Len(t, result.Functions, 1)
	assert.Equal(t, "onClick", result.Functions[0].Name)
	assert.Empty(t, result.Functions[0].Class)
	assert.Equal(t, []string{"dispatch"}, result.Functions[0].Calls)
}

func TestMethodsInsideFunctionScopedClassExcluded(t *testing.T) {
	code := `
function outer() {
    class Inner {
        hidden() { return 1; }
    }
    return Inner;
}
`
	result := analyzeJS(t, code, Options{})
	assert.Equal(t, []string{"outer"}, recordNames(result))
}

func TestIsNestedAgreesWithTraversal(t *testing.T) {
	code := []byte(`
function outer() {
    function inner() {
        return 1;
    }
}
function* gen() {
    function hidden() {
        return 2;
    }
}
`)
	tree, err := parser.NewJavaScriptParser().Parse(context.Background(), code)
	require.NoError(t, err)
	defer tree.Close()

	var outer, inner, hidden *sitter.Node
	var visit func(node *sitter.Node)
	visit = func(node *sitter.Node) {
		if node.Type() == "function_declaration" {
			name := node.ChildByFieldName("name")
			require.NotNil(t, name)
			switch name.Content(code) {
			case "outer":
				outer = node
			case "inner":
				inner = node
			case "hidden":
				hidden = node
			}
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			visit(node.Child(i))
		}
	}
	visit(tree.RootNode())

	require.NotNil(t, outer)
	require.NotNil(t, inner)
	require.NotNil(t, hidden)
	assert.False(t, IsNested(outer))
	assert.True(t, IsNested(inner))
	assert.True(t, IsNested(hidden), "a generator body is a function interior")
}

func TestTypeScriptSource(t *testing.T) {
	code := `
class Calculator {
    multiply(a: number, b: number): number {
        return a * b;
    }
}

function greet(name: string) {
    return 'hello';
}
`
	result, err := AnalyzeSource(context.Background(), parser.NewTypeScriptParser(), []byte(code), Options{InferReturnTypes: true})
	require.NoError(t, err)
	require.Len(t, result.Functions, 2)

	assert.Equal(t, "multiply", result.Functions[0].Name)
	assert.Equal(t, "Calculator", result.Functions[0].Class)
	assert.Equal(t, "(a: number, b: number)", result.Functions[0].Parameters)

	assert.Equal(t, "greet", result.Functions[1].Name)
	assert.Equal(t, TypeString, result.Functions[1].ReturnType)
}
