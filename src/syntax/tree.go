package syntax

// Span is a half-open byte range [Start, End) into the source text
type Span struct {
	Start int
	End   int
}

// Len returns the span length in bytes
func (s Span) Len() int {
	return s.End - s.Start
}

// Node is one element of a parsed source tree
type Node struct {
	Kind     Kind
	Type     string // grammar node type, kept for dumps
	Name     string // declared identifier for namespaces, types, methods and parameters
	Operator string // operator text for binary and assignment expressions
	Span     Span
	Children []*Node
	Parent   *Node
}

// Add appends children and sets their parent. It returns n for chaining.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		c.Parent = n
		n.Children = append(n.Children, c)
	}
	return n
}

// IsLeaf reports whether the node has no code children. Comment and
// directive children do not count.
func (n *Node) IsLeaf() bool {
	for _, c := range n.Children {
		if !c.Kind.IsTrivia() {
			return false
		}
	}
	return true
}

// Text returns the node's source text
func (n *Node) Text(src []byte) string {
	if n.Span.Start < 0 || n.Span.End > len(src) || n.Span.Start > n.Span.End {
		return ""
	}
	return string(src[n.Span.Start:n.Span.End])
}

// TriviaKind classifies non-code annotations attached to tokens
type TriviaKind uint8

const (
	TriviaWhitespace TriviaKind = iota
	TriviaEndOfLine
	TriviaSingleLineComment
	TriviaMultiLineComment
	TriviaSingleLineDocComment
	TriviaMultiLineDocComment
	TriviaDirective
	TriviaDisabledText
)

// IsComment reports whether the trivia is a comment in any notation.
func (k TriviaKind) IsComment() bool {
	switch k {
	case TriviaSingleLineComment, TriviaMultiLineComment,
		TriviaSingleLineDocComment, TriviaMultiLineDocComment:
		return true
	}
	return false
}

// IsDocumentation reports whether the trivia is a documentation comment.
func (k TriviaKind) IsDocumentation() bool {
	return k == TriviaSingleLineDocComment || k == TriviaMultiLineDocComment
}

// Trivia is a non-code annotation. Parent is the node owning the token the
// annotation is bound to; nil when no token exists (end of file).
type Trivia struct {
	Kind   TriviaKind
	Span   Span
	Parent *Node
}

// Tree is a parsed file
type Tree struct {
	Path      string
	Root      *Node
	Text      []byte
	Trivia    []Trivia
	HasErrors bool
}

// Walk visits n and its descendants depth-first, pre-order. Returning false
// from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}
