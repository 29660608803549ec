package metrics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code-analyzer/src/model"
	"code-analyzer/src/syntax"
)

func node(kind syntax.Kind, name string, children ...*syntax.Node) *syntax.Node {
	return (&syntax.Node{Kind: kind, Type: kind.String(), Name: name}).Add(children...)
}

func leaf() *syntax.Node {
	return &syntax.Node{Kind: syntax.KindOther, Type: "identifier"}
}

func unit(children ...*syntax.Node) *syntax.Tree {
	return &syntax.Tree{Path: "Test.cs", Root: node(syntax.KindCompilationUnit, "", children...)}
}

// spanOf locates fragment in src
func spanOf(t *testing.T, src, fragment string) syntax.Span {
	t.Helper()
	i := strings.Index(src, fragment)
	require.GreaterOrEqual(t, i, 0, "fragment %q not found", fragment)
	return syntax.Span{Start: i, End: i + len(fragment)}
}

func names(namespaces []*model.Namespace) []string {
	out := make([]string, 0, len(namespaces))
	for _, ns := range namespaces {
		out = append(out, ns.Name)
	}
	return out
}

func onlyMethod(t *testing.T, res *Result) *model.Method {
	t.Helper()
	for _, ns := range res.Namespaces {
		for _, typ := range ns.Types {
			if len(typ.Methods) > 0 {
				require.Len(t, typ.Methods, 1)
				return typ.Methods[0]
			}
		}
	}
	t.Fatal("no method found")
	return nil
}

func TestAnalyze_EmptyMethodHasBaseComplexity(t *testing.T) {
	tree := unit(
		node(syntax.KindNamespace, "N",
			node(syntax.KindClass, "C",
				node(syntax.KindMethod, "M",
					node(syntax.KindParameterList, ""),
					node(syntax.KindOther, "")))))

	res, err := Analyze(tree)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "N"}, names(res.Namespaces))

	m := onlyMethod(t, res)
	assert.Equal(t, "M", m.Name)
	assert.Equal(t, uint(model.BaseComplexity), m.CyclomaticComplexity)
	assert.Equal(t, uint(0), m.Parameters)
	assert.Equal(t, uint(1), m.ContractComplexity, "empty parameter list is a contract token")
	assert.Equal(t, uint(1), m.CodeTokens, "empty body is a code token")
	assert.Equal(t, uint(0), m.Lambdas)
}

func TestAnalyze_BranchesRaiseComplexity(t *testing.T) {
	// namespace N { class C { void M() { if (a && b) { } } } }
	tree := unit(
		node(syntax.KindNamespace, "N",
			node(syntax.KindClass, "C",
				node(syntax.KindMethod, "M",
					node(syntax.KindParameterList, ""),
					node(syntax.KindOther, "",
						node(syntax.KindIf, "",
							node(syntax.KindLogicalAnd, "", leaf(), leaf()),
							node(syntax.KindOther, "")))))))

	res, err := Analyze(tree)
	require.NoError(t, err)

	m := onlyMethod(t, res)
	assert.Equal(t, uint(4), m.CyclomaticComplexity)
	// && operator, a, b and the empty block
	assert.Equal(t, uint(4), m.CodeTokens)
}

func TestAnalyze_EachDecisionPointAddsOne(t *testing.T) {
	decisions := []syntax.Kind{
		syntax.KindIf, syntax.KindWhile, syntax.KindForEach, syntax.KindFor,
		syntax.KindCaseLabel, syntax.KindConditionalAccess, syntax.KindConditional,
		syntax.KindLogicalOr, syntax.KindLogicalAnd, syntax.KindCoalesce,
		syntax.KindCoalesceAssignment,
	}
	for _, kind := range decisions {
		t.Run(kind.String(), func(t *testing.T) {
			body := node(syntax.KindOther, "")
			for i := 0; i < 3; i++ {
				body.Add(node(kind, "", leaf()))
			}
			tree := unit(node(syntax.KindClass, "C", node(syntax.KindMethod, "M", body)))

			res, err := Analyze(tree)
			require.NoError(t, err)
			assert.Equal(t, uint(model.BaseComplexity+3), onlyMethod(t, res).CyclomaticComplexity)
		})
	}
}

func TestAnalyze_NonBranchingNodesKeepComplexity(t *testing.T) {
	body := node(syntax.KindOther, "",
		node(syntax.KindBinary, "", leaf(), leaf()),
		node(syntax.KindAssignment, "", leaf(), leaf()),
		node(syntax.KindPrefixUnary, "", leaf()),
		node(syntax.KindPostfixUnary, "", leaf()),
		node(syntax.KindGenericName, "", leaf()))
	tree := unit(node(syntax.KindClass, "C", node(syntax.KindMethod, "M", body)))

	res, err := Analyze(tree)
	require.NoError(t, err)

	m := onlyMethod(t, res)
	assert.Equal(t, uint(model.BaseComplexity), m.CyclomaticComplexity)
	// 7 leaves, binary operator, two unary operators and the generic identifier
	assert.Equal(t, uint(11), m.CodeTokens)
}

func TestAnalyze_CountsLambdas(t *testing.T) {
	body := node(syntax.KindOther, "",
		node(syntax.KindLambda, "", node(syntax.KindParameter, "x"), leaf()),
		node(syntax.KindLambda, "", leaf()))
	tree := unit(node(syntax.KindClass, "C", node(syntax.KindMethod, "M", body)))

	res, err := Analyze(tree)
	require.NoError(t, err)
	m := onlyMethod(t, res)
	assert.Equal(t, uint(2), m.Lambdas)
	assert.Equal(t, uint(model.BaseComplexity), m.CyclomaticComplexity)
}

func TestAnalyze_ParametersAndContractTokens(t *testing.T) {
	// void M(int a, string b) { }
	params := node(syntax.KindParameterList, "",
		node(syntax.KindParameter, "a", leaf()),
		node(syntax.KindParameter, "b", leaf()))
	tree := unit(node(syntax.KindClass, "C",
		node(syntax.KindMethod, "M", leaf(), params, node(syntax.KindOther, ""))))

	res, err := Analyze(tree)
	require.NoError(t, err)

	m := onlyMethod(t, res)
	assert.Equal(t, uint(2), m.Parameters)
	assert.Equal(t, uint(2), m.ContractComplexity)
	// return type and empty body
	assert.Equal(t, uint(2), m.CodeTokens)
	assert.Equal(t, uint(model.BaseComplexity), m.CyclomaticComplexity)
}

func TestAnalyze_ContractFlagRestoredAfterParameterList(t *testing.T) {
	// A lambda parameter list nested in a default value must not leave the
	// method body counted as contract.
	inner := node(syntax.KindLambda, "", node(syntax.KindParameterList, "", leaf()), leaf())
	params := node(syntax.KindParameterList, "", node(syntax.KindParameter, "f", inner))
	body := node(syntax.KindOther, "", leaf(), leaf(), leaf())
	tree := unit(node(syntax.KindClass, "C", node(syntax.KindMethod, "M", params, body)))

	res, err := Analyze(tree)
	require.NoError(t, err)

	m := onlyMethod(t, res)
	assert.Equal(t, uint(2), m.ContractComplexity)
	assert.Equal(t, uint(3), m.CodeTokens)
}

func TestAnalyze_ReopenedNamespaceIsMerged(t *testing.T) {
	tree := unit(
		node(syntax.KindNamespace, "A", node(syntax.KindClass, "X")),
		node(syntax.KindNamespace, "B", node(syntax.KindClass, "Z")),
		node(syntax.KindNamespace, "A", node(syntax.KindClass, "Y")))

	res, err := Analyze(tree)
	require.NoError(t, err)
	require.Equal(t, []string{"", "A", "B"}, names(res.Namespaces))

	a := res.Namespaces[1]
	require.Len(t, a.Types, 2)
	assert.Equal(t, "X", a.Types[0].Name)
	assert.Equal(t, "Y", a.Types[1].Name)
}

func TestAnalyze_NestedNamespaceNames(t *testing.T) {
	tree := unit(
		node(syntax.KindNamespace, "A.B",
			node(syntax.KindNamespace, "C",
				node(syntax.KindNamespace, "D", node(syntax.KindClass, "X")))),
		node(syntax.KindNamespace, "A"))

	res, err := Analyze(tree)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "A.B", "A.B.C", "A.B.C.D", "A"}, names(res.Namespaces))
	assert.Equal(t, "X", res.Namespaces[3].Types[0].Name)
}

func TestAnalyze_BlockNamespaceClosesOnExit(t *testing.T) {
	tree := unit(
		node(syntax.KindNamespace, "N", node(syntax.KindClass, "Inside")),
		node(syntax.KindClass, "Outside"))

	res, err := Analyze(tree)
	require.NoError(t, err)
	require.Equal(t, []string{"", "N"}, names(res.Namespaces))
	assert.Equal(t, "Outside", res.Namespaces[0].Types[0].Name)
	assert.Equal(t, "Inside", res.Namespaces[1].Types[0].Name)
}

func TestAnalyze_FileScopedNamespaceStaysOpen(t *testing.T) {
	tree := unit(
		node(syntax.KindFileScopedNamespace, "App.Core"),
		node(syntax.KindClass, "First"),
		node(syntax.KindNamespace, "Inner", node(syntax.KindClass, "Nested")),
		node(syntax.KindClass, "Second"))

	res, err := Analyze(tree)
	require.NoError(t, err)
	require.Equal(t, []string{"", "App.Core", "App.Core.Inner"}, names(res.Namespaces))

	core := res.Namespaces[1]
	require.Len(t, core.Types, 2)
	assert.Equal(t, "First", core.Types[0].Name)
	assert.Equal(t, "Second", core.Types[1].Name)
	assert.Empty(t, res.Namespaces[0].Types)
}

func TestAnalyze_NestedTypesArePostOrder(t *testing.T) {
	tree := unit(
		node(syntax.KindClass, "Outer",
			node(syntax.KindStruct, "Inner",
				node(syntax.KindMethod, "InnerM")),
			node(syntax.KindMethod, "OuterM")))

	res, err := Analyze(tree)
	require.NoError(t, err)

	types := res.Namespaces[0].Types
	require.Len(t, types, 2)
	assert.Equal(t, "Inner", types[0].Name)
	assert.Equal(t, model.TypeStruct, types[0].Kind)
	assert.Equal(t, "InnerM", types[0].Methods[0].Name)
	assert.Equal(t, "Outer", types[1].Name)
	assert.Equal(t, model.TypeClass, types[1].Kind)
	require.Len(t, types[1].Methods, 1)
	assert.Equal(t, "OuterM", types[1].Methods[0].Name)
}

func TestAnalyze_TypeKinds(t *testing.T) {
	tree := unit(
		node(syntax.KindInterface, "I"),
		node(syntax.KindRecord, "R"),
		node(syntax.KindEnum, "E", leaf(), leaf()))

	res, err := Analyze(tree)
	require.NoError(t, err)

	types := res.Namespaces[0].Types
	require.Len(t, types, 3)
	assert.Equal(t, model.TypeInterface, types[0].Kind)
	assert.Equal(t, model.TypeRecord, types[1].Kind)
	assert.Equal(t, model.TypeEnum, types[2].Kind)
	assert.Empty(t, types[2].Methods)
}

func TestAnalyze_MethodOutsideTypeIsStructuralViolation(t *testing.T) {
	tree := unit(
		node(syntax.KindNamespace, "N",
			node(syntax.KindClass, "A", node(syntax.KindMethod, "Ok")),
			node(syntax.KindMethod, "Stray"),
			node(syntax.KindClass, "Never")))

	res, err := Analyze(tree)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructuralViolation)
	assert.Contains(t, err.Error(), `"Stray"`)

	require.NotNil(t, res)
	require.Equal(t, []string{"", "N"}, names(res.Namespaces))
	types := res.Namespaces[1].Types
	require.Len(t, types, 1, "types closed before the failure are kept")
	assert.Equal(t, "A", types[0].Name)
}

func TestAnalyze_OrphanParameterIsDiagnostic(t *testing.T) {
	// constructor parameters are not inside a method
	ctor := node(syntax.KindOther, "C",
		node(syntax.KindParameterList, "", node(syntax.KindParameter, "x", leaf())),
		node(syntax.KindOther, ""))
	tree := unit(node(syntax.KindClass, "C", ctor))

	res, err := Analyze(tree)
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, DiagnosticOrphanParameter, res.Diagnostics[0].Kind)
	assert.Equal(t, 1, res.Diagnostics[0].Line)
	assert.Contains(t, res.Diagnostics[0].Message, `"x"`)
	assert.Empty(t, res.Namespaces[0].Types[0].Methods)
}

func TestAnalyze_CountsOutsideMethodsAreDiscarded(t *testing.T) {
	field := node(syntax.KindOther, "",
		node(syntax.KindConditional, "", leaf(), leaf(), leaf()),
		node(syntax.KindLambda, "", leaf()))
	tree := unit(node(syntax.KindClass, "C", field, node(syntax.KindMethod, "M")))

	res, err := Analyze(tree)
	require.NoError(t, err)

	typ := res.Namespaces[0].Types[0]
	assert.Equal(t, uint(0), typ.CommentLines)

	m := typ.Methods[0]
	assert.Equal(t, uint(model.BaseComplexity), m.CyclomaticComplexity)
	assert.Equal(t, uint(0), m.Lambdas)
	// the method node itself is a leaf here
	assert.Equal(t, uint(1), m.CodeTokens)
}

func TestAnalyze_CommentLines(t *testing.T) {
	src := "class C {\n" +
		"  // one\n" +
		"  void M() {\n" +
		"    /* two\n" +
		"       lines */\n" +
		"  }\n" +
		"  /* type */\n" +
		"}\n"

	body := &syntax.Node{Kind: syntax.KindOther, Type: "block", Span: spanOf(t, src, "{\n    /* two")}
	body.Span.End = strings.Index(src, "}\n  /* type") + 1
	method := &syntax.Node{Kind: syntax.KindMethod, Type: "method_declaration", Name: "M"}
	method.Span = syntax.Span{Start: strings.Index(src, "void"), End: body.Span.End}
	method.Add(body)
	class := &syntax.Node{Kind: syntax.KindClass, Type: "class_declaration", Name: "C", Span: syntax.Span{End: len(src) - 1}}
	class.Add(method)

	tree := &syntax.Tree{
		Path: "Comments.cs",
		Text: []byte(src),
		Root: (&syntax.Node{Kind: syntax.KindCompilationUnit, Span: syntax.Span{End: len(src)}}).Add(class),
		Trivia: []syntax.Trivia{
			{Kind: syntax.TriviaSingleLineComment, Span: spanOf(t, src, "// one"), Parent: method},
			{Kind: syntax.TriviaWhitespace, Span: spanOf(t, src, "    /*"), Parent: body},
			{Kind: syntax.TriviaMultiLineComment, Span: spanOf(t, src, "/* two\n       lines */"), Parent: body},
			{Kind: syntax.TriviaMultiLineComment, Span: spanOf(t, src, "/* type */"), Parent: class},
		},
	}

	res, err := Analyze(tree)
	require.NoError(t, err)

	typ := res.Namespaces[0].Types[0]
	assert.Equal(t, uint(1), typ.CommentLines)
	assert.Equal(t, 1, typ.StartLine)
	assert.Equal(t, 8, typ.EndLine)

	m := typ.Methods[0]
	assert.Equal(t, uint(3), m.CommentLines)
	assert.Equal(t, 3, m.StartLine)
	assert.Equal(t, 6, m.EndLine)
	assert.Equal(t, uint(1), m.CodeTokens, "comments are not tokens")
}

func TestAnalyze_DocCommentCountsTowardMethod(t *testing.T) {
	src := "class C\n{\n" +
		"    /// <summary>\n" +
		"    /// Adds.\n" +
		"    /// </summary>\n" +
		"    int Add() { return 1; }\n" +
		"}\n"

	docSpan := spanOf(t, src, "/// <summary>\n    /// Adds.\n    /// </summary>")
	doc := &syntax.Node{Kind: syntax.KindDocComment, Type: "documentation_comment", Span: docSpan}
	doc.Add(&syntax.Node{Kind: syntax.KindComment, Type: "comment", Span: spanOf(t, src, "/// <summary>")})

	body := &syntax.Node{Kind: syntax.KindOther, Type: "block", Span: spanOf(t, src, "{ return 1; }")}
	body.Add(&syntax.Node{Kind: syntax.KindOther, Type: "return_statement", Span: spanOf(t, src, "return 1;")}).
		Children[0].Add(&syntax.Node{Kind: syntax.KindOther, Type: "integer_literal", Span: spanOf(t, src, "1")})
	method := &syntax.Node{Kind: syntax.KindMethod, Type: "method_declaration", Name: "Add", Span: spanOf(t, src, "int Add() { return 1; }")}
	method.Add(
		&syntax.Node{Kind: syntax.KindOther, Type: "predefined_type", Span: spanOf(t, src, "int")},
		&syntax.Node{Kind: syntax.KindParameterList, Type: "parameter_list", Span: spanOf(t, src, "()")},
		body)
	class := &syntax.Node{Kind: syntax.KindClass, Type: "class_declaration", Name: "C", Span: syntax.Span{End: len(src) - 1}}
	class.Add(doc, method)

	tree := &syntax.Tree{
		Path: "Doc.cs",
		Text: []byte(src),
		Root: (&syntax.Node{Kind: syntax.KindCompilationUnit, Span: syntax.Span{End: len(src)}}).Add(class),
		Trivia: []syntax.Trivia{
			{Kind: syntax.TriviaSingleLineDocComment, Span: docSpan, Parent: method},
		},
	}

	res, err := Analyze(tree)
	require.NoError(t, err)

	typ := res.Namespaces[0].Types[0]
	assert.Equal(t, uint(0), typ.CommentLines)
	m := typ.Methods[0]
	assert.Equal(t, uint(3), m.CommentLines)
	assert.Equal(t, uint(2), m.CodeTokens, "return type and literal")
	assert.Equal(t, uint(1), m.ContractComplexity)
	assert.Equal(t, uint(model.BaseComplexity), m.CyclomaticComplexity)
}

func TestAnalyze_UnownedCommentsGoToRoot(t *testing.T) {
	src := "// header\n"
	tree := &syntax.Tree{
		Text: []byte(src),
		Root: &syntax.Node{Kind: syntax.KindCompilationUnit, Span: syntax.Span{End: len(src)}},
		Trivia: []syntax.Trivia{
			{Kind: syntax.TriviaSingleLineComment, Span: spanOf(t, src, "// header")},
		},
	}
	idx := NewCommentIndex(tree)
	assert.Len(t, idx.Comments(tree.Root), 1)

	res, err := Analyze(tree)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, names(res.Namespaces))
}

func TestWalker_RejectsReuse(t *testing.T) {
	w := NewWalker(unit(node(syntax.KindClass, "C")))
	require.NoError(t, w.Walk())
	assert.ErrorIs(t, w.Walk(), ErrWalkerReused)
	assert.Len(t, w.Namespaces()[0].Types, 1)
}

func TestAnalyze_EmptyTree(t *testing.T) {
	res, err := Analyze(&syntax.Tree{})
	require.NoError(t, err)
	assert.Equal(t, []string{""}, names(res.Namespaces))
	assert.Empty(t, res.Diagnostics)
}
