package metrics

import (
	"fmt"
	"io"
	"strings"

	"code-analyzer/src/syntax"
)

const (
	snippetMax = 35
	snippetCut = 30
)

// PrintTree writes one line per node with its line range and a source
// snippet, followed by the comments attributed to it. Documentation blocks
// are printed once and not descended.
func PrintTree(w io.Writer, tree *syntax.Tree) error {
	if tree.Root == nil {
		return nil
	}
	p := &printer{
		w:        w,
		src:      tree.Text,
		lines:    NewLineIndex(tree.Text),
		comments: NewCommentIndex(tree),
	}
	p.print(tree.Root, "")
	return p.err
}

type printer struct {
	w        io.Writer
	src      []byte
	lines    *LineIndex
	comments *CommentIndex
	err      error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) print(n *syntax.Node, indent string) {
	text := strings.ReplaceAll(n.Text(p.src), "\n", "\\n")
	text = strings.ReplaceAll(text, "\r", "")
	snippet := text
	if len(snippet) > snippetMax {
		snippet = snippet[:snippetCut]
	}
	start, end := p.lines.Range(n.Span)
	line := fmt.Sprintf("%s%s:%d:lines %d-%d:%s", indent, n.Type, len(text), start, end, snippet)
	if n.Kind.IsBinary() || n.Kind == syntax.KindAssignment || n.Kind == syntax.KindCoalesceAssignment {
		line += fmt.Sprintf(" (%s)", n.Operator)
	}

	if n.Kind == syntax.KindDocComment {
		parent := ""
		if n.Parent != nil {
			parent = n.Parent.Type
		}
		p.printf("XML%s-%s\n", parent, line)
		return
	}

	p.printf("%s\n", line)
	for _, c := range p.comments.Comments(n) {
		p.printf("%s:%s\n", indent, string(p.src[c.Span.Start:c.Span.End]))
	}
	for _, c := range n.Children {
		p.print(c, indent+"  ")
	}
}
