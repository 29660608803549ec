// Package csharp turns C# source into syntax trees using tree-sitter.
//
// The trees follow the shape the metrics engine expects: declared names are
// carried on the node instead of as identifier children, `case` labels are
// grouped into their own nodes, consecutive `///` lines form one
// documentation block, and every comment is bound to the node owning the
// token it annotates.
package csharp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"

	"code-analyzer/src/syntax"
	"code-analyzer/src/util"
)

// Extensions lists the file extensions handled by the parser
var Extensions = []string{".cs"}

// Parser parses C# files. It is safe for concurrent use; each call gets its
// own tree-sitter parser.
type Parser struct {
	language *tree_sitter.Language
}

// NewParser creates a C# parser
func NewParser() *Parser {
	return &Parser{language: tree_sitter.NewLanguage(tree_sitter_csharp.Language())}
}

// Parse builds the syntax tree of one file
func (p *Parser) Parse(ctx context.Context, path string, src []byte) (*syntax.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ts := tree_sitter.NewParser()
	defer ts.Close()
	if err := ts.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("setting C# language: %w", err)
	}

	parsed := ts.Parse(src, nil)
	if parsed == nil {
		return nil, fmt.Errorf("parsing %s: parser returned no tree", path)
	}
	defer parsed.Close()

	root := parsed.RootNode()
	b := &builder{src: src}
	tree := &syntax.Tree{
		Path:      path,
		Text:      src,
		Root:      b.convert(root),
		HasErrors: root.HasError(),
	}
	tree.Trivia = b.bindTrivia()

	if tree.HasErrors {
		util.Warn("%s: syntax errors found, metrics may be partial", path)
	}
	util.Debug("Parsed %s: %d tokens, %d trivia", path, len(b.tokens), len(tree.Trivia))
	return tree, nil
}

var kinds = map[string]syntax.Kind{
	"compilation_unit":                  syntax.KindCompilationUnit,
	"ERROR":                             syntax.KindError,
	"namespace_declaration":             syntax.KindNamespace,
	"file_scoped_namespace_declaration": syntax.KindFileScopedNamespace,
	"class_declaration":                 syntax.KindClass,
	"interface_declaration":             syntax.KindInterface,
	"struct_declaration":                syntax.KindStruct,
	"record_declaration":                syntax.KindRecord,
	"record_struct_declaration":         syntax.KindRecord,
	"enum_declaration":                  syntax.KindEnum,
	"method_declaration":                syntax.KindMethod,
	"parameter_list":                    syntax.KindParameterList,
	"parameter":                         syntax.KindParameter,
	"implicit_parameter":                syntax.KindParameter,
	"if_statement":                      syntax.KindIf,
	"while_statement":                   syntax.KindWhile,
	"foreach_statement":                 syntax.KindForEach,
	"for_each_statement":                syntax.KindForEach,
	"for_statement":                     syntax.KindFor,
	"case_switch_label":                 syntax.KindCaseLabel,
	"case_pattern_switch_label":         syntax.KindCaseLabel,
	"conditional_access_expression":     syntax.KindConditionalAccess,
	"conditional_expression":            syntax.KindConditional,
	"binary_expression":                 syntax.KindBinary,
	"assignment_expression":             syntax.KindAssignment,
	"prefix_unary_expression":           syntax.KindPrefixUnary,
	"postfix_unary_expression":          syntax.KindPostfixUnary,
	"generic_name":                      syntax.KindGenericName,
	"lambda_expression":                 syntax.KindLambda,
	"anonymous_method_expression":       syntax.KindLambda,
	"comment":                           syntax.KindComment,
}

var binaryKinds = map[string]syntax.Kind{
	"||": syntax.KindLogicalOr,
	"&&": syntax.KindLogicalAnd,
	"??": syntax.KindCoalesce,
}

// token is a terminal of the tree-sitter tree that comments can bind to
type token struct {
	start, end       int
	startRow, endRow uint
	owner            *syntax.Node
}

// annotation is a comment or directive found while converting
type annotation struct {
	kind     syntax.TriviaKind
	span     syntax.Span
	startRow uint
}

type builder struct {
	src         []byte
	tokens      []token
	annotations []annotation
}

func spanOf(n *tree_sitter.Node) syntax.Span {
	return syntax.Span{Start: int(n.StartByte()), End: int(n.EndByte())}
}

func sameNode(a, b *tree_sitter.Node) bool {
	return a != nil && b != nil &&
		a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Kind() == b.Kind()
}

// convert creates the syntax node for a named tree-sitter node
func (b *builder) convert(n *tree_sitter.Node) *syntax.Node {
	out := &syntax.Node{Kind: kinds[n.Kind()], Type: n.Kind(), Span: spanOf(n)}

	switch out.Kind {
	case syntax.KindBinary:
		out.Operator = b.operator(n)
		if k, ok := binaryKinds[out.Operator]; ok {
			out.Kind = k
		}
	case syntax.KindAssignment:
		out.Operator = b.operator(n)
		if out.Operator == "??=" {
			out.Kind = syntax.KindCoalesceAssignment
		}
	case syntax.KindNamespace, syntax.KindFileScopedNamespace:
		if name := n.ChildByFieldName("name"); name != nil {
			out.Name = strings.Join(strings.Fields(name.Utf8Text(b.src)), "")
		}
	}

	if n.ChildCount() == 0 {
		b.addToken(n, out)
		return out
	}

	folded := b.folded(out, n)
	s := &sink{b: b, out: out, switchSection: n.Kind() == "switch_section"}
	for i := uint(0); i < n.ChildCount(); i++ {
		s.add(n, n.Child(i), folded)
	}
	s.close()
	return out
}

// folded returns the child that names the declaration, if the child is an
// identifier token rather than an expression. Its text moves to out.Name.
func (b *builder) folded(out *syntax.Node, n *tree_sitter.Node) *tree_sitter.Node {
	kind := n.Kind()
	if out.Kind == syntax.KindNamespace || out.Kind == syntax.KindFileScopedNamespace {
		return nil
	}
	if kind == "generic_name" {
		if first := n.Child(0); first != nil && first.Kind() == "identifier" {
			return first
		}
		return nil
	}
	if !(strings.HasSuffix(kind, "_declaration") || strings.HasSuffix(kind, "_declarator") ||
		kind == "parameter" || kind == "local_function_statement" || kind == "type_parameter") {
		return nil
	}
	name := n.ChildByFieldName("name")
	if name == nil || name.Kind() != "identifier" {
		return nil
	}
	out.Name = name.Utf8Text(b.src)
	return name
}

// operator returns the operator text of a binary or assignment expression
func (b *builder) operator(n *tree_sitter.Node) string {
	if op := n.ChildByFieldName("operator"); op != nil {
		return strings.TrimSpace(op.Utf8Text(b.src))
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if !c.IsNamed() || c.Kind() == "assignment_operator" {
			return strings.TrimSpace(c.Utf8Text(b.src))
		}
	}
	return ""
}

// addToken records the terminals under n as tokens owned by owner
func (b *builder) addToken(n *tree_sitter.Node, owner *syntax.Node) {
	if n.ChildCount() > 0 {
		for i := uint(0); i < n.ChildCount(); i++ {
			b.addToken(n.Child(i), owner)
		}
		return
	}
	if n.StartByte() == n.EndByte() {
		return
	}
	b.tokens = append(b.tokens, token{
		start:    int(n.StartByte()),
		end:      int(n.EndByte()),
		startRow: n.StartPosition().Row,
		endRow:   n.EndPosition().Row,
		owner:    owner,
	})
}

func (b *builder) annotate(kind syntax.TriviaKind, n *tree_sitter.Node, span syntax.Span) {
	b.annotations = append(b.annotations, annotation{kind: kind, span: span, startRow: n.StartPosition().Row})
}

// bindTrivia attaches every comment to the owner of the token it annotates:
// the previous token when on the same line, otherwise the next token. A
// comment with no following token is left unowned.
func (b *builder) bindTrivia() []syntax.Trivia {
	sort.SliceStable(b.tokens, func(i, j int) bool { return b.tokens[i].start < b.tokens[j].start })
	sort.SliceStable(b.annotations, func(i, j int) bool { return b.annotations[i].span.Start < b.annotations[j].span.Start })

	out := make([]syntax.Trivia, 0, len(b.annotations))
	for _, a := range b.annotations {
		t := syntax.Trivia{Kind: a.kind, Span: a.span}
		if a.kind.IsComment() {
			t.Parent = b.owner(a)
		}
		out = append(out, t)
	}
	return out
}

func (b *builder) owner(a annotation) *syntax.Node {
	next := sort.Search(len(b.tokens), func(i int) bool { return b.tokens[i].start >= a.span.End })
	if next > 0 {
		prev := b.tokens[next-1]
		if prev.end <= a.span.Start && prev.endRow == a.startRow {
			return prev.owner
		}
	}
	if next < len(b.tokens) {
		return b.tokens[next].owner
	}
	return nil
}

func commentKind(text string) syntax.TriviaKind {
	switch {
	case strings.HasPrefix(text, "///"):
		return syntax.TriviaSingleLineDocComment
	case strings.HasPrefix(text, "/**") && text != "/**/":
		return syntax.TriviaMultiLineDocComment
	case strings.HasPrefix(text, "/*"):
		return syntax.TriviaMultiLineComment
	default:
		return syntax.TriviaSingleLineComment
	}
}
