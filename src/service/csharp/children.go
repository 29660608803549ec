package csharp

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"code-analyzer/src/syntax"
)

// sink collects the children of one converted node. It groups `///` lines
// into documentation blocks and inline `case ... :` tokens into label nodes.
type sink struct {
	b             *builder
	out           *syntax.Node
	switchSection bool

	label *syntax.Node
	doc   []*tree_sitter.Node
}

func (s *sink) target() *syntax.Node {
	if s.label != nil {
		return s.label
	}
	return s.out
}

func (s *sink) add(parent, c *tree_sitter.Node, folded *tree_sitter.Node) {
	if c.IsMissing() || c.StartByte() == c.EndByte() {
		return
	}

	kind := c.Kind()
	if kind == "comment" {
		s.comment(c)
		return
	}
	s.flushDoc()

	switch {
	case strings.HasPrefix(kind, "preproc_"):
		s.directive(c)
		return
	case sameNode(c, folded):
		s.b.addToken(c, s.out)
		return
	case kind == "assignment_operator":
		s.b.addToken(c, s.target())
		return
	}

	if s.switchSection && !c.IsNamed() {
		if s.label == nil && (kind == "case" || kind == "default") {
			s.openLabel(c)
			return
		}
		if s.label != nil && kind == ":" {
			s.b.addToken(c, s.label)
			s.label.Span.End = int(c.EndByte())
			s.label = nil
			return
		}
	}

	if !c.IsNamed() {
		s.b.addToken(c, s.target())
		return
	}

	child := s.b.convert(c)
	if s.out.Kind == syntax.KindLambda && c.Kind() == "identifier" &&
		sameNode(c, parent.ChildByFieldName("parameters")) {
		child.Kind = syntax.KindParameter
		child.Name = c.Utf8Text(s.b.src)
	}
	s.target().Add(child)
}

func (s *sink) openLabel(c *tree_sitter.Node) {
	s.label = &syntax.Node{
		Kind: syntax.KindCaseLabel,
		Type: "case_switch_label",
		Span: spanOf(c),
	}
	if c.Kind() == "default" {
		s.label.Kind = syntax.KindOther
		s.label.Type = "default_switch_label"
	}
	s.out.Add(s.label)
	s.b.addToken(c, s.label)
}

func (s *sink) comment(c *tree_sitter.Node) {
	text := c.Utf8Text(s.b.src)
	kind := commentKind(text)

	if kind == syntax.TriviaSingleLineDocComment {
		if n := len(s.doc); n > 0 && s.doc[n-1].EndPosition().Row+1 != c.StartPosition().Row {
			s.flushDoc()
		}
		s.doc = append(s.doc, c)
		return
	}
	s.flushDoc()

	node := &syntax.Node{Kind: syntax.KindComment, Type: "comment", Span: spanOf(c)}
	if kind == syntax.TriviaMultiLineDocComment {
		node.Kind = syntax.KindDocComment
	}
	s.target().Add(node)
	s.b.annotate(kind, c, node.Span)
}

// flushDoc closes the pending `///` block as one documentation node
func (s *sink) flushDoc() {
	if len(s.doc) == 0 {
		return
	}
	first, last := s.doc[0], s.doc[len(s.doc)-1]
	block := &syntax.Node{
		Kind: syntax.KindDocComment,
		Type: "documentation_comment",
		Span: syntax.Span{Start: int(first.StartByte()), End: int(last.EndByte())},
	}
	for _, line := range s.doc {
		block.Add(&syntax.Node{Kind: syntax.KindComment, Type: "comment", Span: spanOf(line)})
	}
	s.target().Add(block)
	s.b.annotate(syntax.TriviaSingleLineDocComment, first, block.Span)
	s.doc = s.doc[:0]
}

// directive records a preprocessor directive as trivia and splices the code
// it encloses into the current node
func (s *sink) directive(c *tree_sitter.Node) {
	span := spanOf(c)
	var code []*tree_sitter.Node
	condition := c.ChildByFieldName("condition")
	for i := uint(0); i < c.ChildCount(); i++ {
		g := c.Child(i)
		if !g.IsNamed() || sameNode(g, condition) || !spliced(g.Kind()) {
			continue
		}
		if len(code) == 0 {
			span.End = int(g.StartByte())
		}
		code = append(code, g)
	}

	s.target().Add(&syntax.Node{Kind: syntax.KindDirective, Type: c.Kind(), Span: span})
	s.b.annotate(syntax.TriviaDirective, c, span)

	for _, g := range code {
		s.add(c, g, nil)
	}
	s.flushDoc()
}

// spliced reports whether a child of a directive is enclosed code rather
// than part of the directive line itself
func spliced(kind string) bool {
	switch kind {
	case "comment", "block", "switch_section", "attribute_list", "global_statement":
		return true
	}
	return strings.HasPrefix(kind, "preproc_") ||
		strings.HasSuffix(kind, "_declaration") ||
		strings.HasSuffix(kind, "_statement") ||
		strings.HasSuffix(kind, "_directive")
}

// close flushes pending state once all children are added
func (s *sink) close() {
	s.flushDoc()
	if s.label != nil {
		if n := len(s.label.Children); n > 0 {
			s.label.Span.End = s.label.Children[n-1].Span.End
		}
		s.label = nil
	}
}
