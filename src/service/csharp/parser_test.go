package csharp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code-analyzer/src/model"
	"code-analyzer/src/service/metrics"
	"code-analyzer/src/syntax"
)

func analyze(t *testing.T, src string) (*syntax.Tree, *metrics.Result) {
	t.Helper()
	tree, err := NewParser().Parse(context.Background(), "Test.cs", []byte(src))
	require.NoError(t, err)
	res, err := metrics.Analyze(tree)
	require.NoError(t, err)
	return tree, res
}

func findType(t *testing.T, res *metrics.Result, ns, name string) *model.Type {
	t.Helper()
	for _, n := range res.Namespaces {
		if n.Name != ns {
			continue
		}
		for _, ty := range n.Types {
			if ty.Name == name {
				return ty
			}
		}
	}
	require.Failf(t, "type not found", "%s.%s", ns, name)
	return nil
}

func findMethod(t *testing.T, ty *model.Type, name string) *model.Method {
	t.Helper()
	for _, m := range ty.Methods {
		if m.Name == name {
			return m
		}
	}
	require.Failf(t, "method not found", "%s.%s", ty.Name, name)
	return nil
}

const calculator = `namespace Demo.Core
{
    /// <summary>
    /// Adds numbers.
    /// </summary>
    public class Calculator
    {
        public int Add(int a, int b)
        {
            if (a > 0 && b > 0)
            {
                return a + b; // positive
            }
            return 0;
        }
    }
}
`

func TestParse_BlockNamespace(t *testing.T) {
	tree, res := analyze(t, calculator)
	assert.False(t, tree.HasErrors)
	assert.Equal(t, syntax.KindCompilationUnit, tree.Root.Kind)

	require.Len(t, res.Namespaces, 2)
	assert.Equal(t, "", res.Namespaces[0].Name)
	assert.Equal(t, "Demo.Core", res.Namespaces[1].Name)

	calc := findType(t, res, "Demo.Core", "Calculator")
	assert.Equal(t, model.TypeClass, calc.Kind)
	assert.Equal(t, uint(3), calc.CommentLines)

	add := findMethod(t, calc, "Add")
	assert.Equal(t, uint(4), add.CyclomaticComplexity)
	assert.Equal(t, uint(2), add.Parameters)
	assert.Equal(t, uint(1), add.CommentLines)
	assert.Equal(t, 8, add.StartLine)
	assert.Equal(t, 15, add.EndLine)
	assert.NotZero(t, add.CodeTokens)
	assert.NotZero(t, add.ContractComplexity)
}

const router = `namespace App.Services;

public class Router
{
    public string Route(int code, string fallback)
    {
        fallback ??= "none";
        switch (code)
        {
            case 1:
                return "one";
            case 2:
            case 3:
                return "few";
            default:
                return fallback;
        }
    }

    public int Sum(int[] xs) => xs.Where(x => x > 0).Sum();
}
`

func TestParse_FileScopedNamespace(t *testing.T) {
	tree, res := analyze(t, router)
	assert.False(t, tree.HasErrors)

	r := findType(t, res, "App.Services", "Router")
	require.Len(t, r.Methods, 2)

	route := findMethod(t, r, "Route")
	assert.Equal(t, uint(6), route.CyclomaticComplexity, "??= and three case labels")
	assert.Equal(t, uint(2), route.Parameters)

	sum := findMethod(t, r, "Sum")
	assert.Equal(t, uint(1), sum.Lambdas)
	assert.Equal(t, uint(2), sum.Parameters, "the lambda parameter counts too")
	assert.Equal(t, uint(model.BaseComplexity), sum.CyclomaticComplexity)
}

func TestParse_TypesOutsideNamespace(t *testing.T) {
	_, res := analyze(t, `interface IShape { double Area(); }
struct Point { public int X; }
enum Color { Red, Green }
`)
	require.Len(t, res.Namespaces, 1)
	assert.Equal(t, []model.TypeKind{model.TypeInterface, model.TypeStruct, model.TypeEnum},
		[]model.TypeKind{res.Namespaces[0].Types[0].Kind, res.Namespaces[0].Types[1].Kind, res.Namespaces[0].Types[2].Kind})

	area := findMethod(t, findType(t, res, "", "IShape"), "Area")
	assert.Equal(t, uint(model.BaseComplexity), area.CyclomaticComplexity)
}

func TestParse_LogicalOperators(t *testing.T) {
	_, res := analyze(t, `class Guard
{
    bool Check(string s, object o)
    {
        var name = s ?? "";
        while (name.Length > 0 || o != null)
        {
            name = o?.ToString() ?? name;
            o = null;
        }
        return name.Length > 3 ? true : false;
    }
}
`)
	check := findMethod(t, findType(t, res, "", "Guard"), "Check")
	// base 2, ?? twice, while, ||, ?., ?:
	assert.Equal(t, uint(8), check.CyclomaticComplexity)
}

func TestParse_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewParser().Parse(ctx, "X.cs", []byte("class X {}"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestParse_SyntaxErrorsAreFlagged(t *testing.T) {
	tree, err := NewParser().Parse(context.Background(), "Bad.cs", []byte("class Broken { void M( { }"))
	require.NoError(t, err)
	assert.True(t, tree.HasErrors)
}

func TestCommentKind(t *testing.T) {
	assert.Equal(t, syntax.TriviaSingleLineDocComment, commentKind("/// <summary>"))
	assert.Equal(t, syntax.TriviaMultiLineDocComment, commentKind("/** doc */"))
	assert.Equal(t, syntax.TriviaMultiLineComment, commentKind("/**/"))
	assert.Equal(t, syntax.TriviaMultiLineComment, commentKind("/* block */"))
	assert.Equal(t, syntax.TriviaSingleLineComment, commentKind("// line"))
}
