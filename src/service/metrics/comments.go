package metrics

import "code-analyzer/src/syntax"

// CommentIndex maps each node to the comments bound to tokens it owns.
// Built once per tree and read-only during the walk.
type CommentIndex struct {
	byNode map[*syntax.Node][]syntax.Trivia
}

// NewCommentIndex keeps comment-like trivia and drops whitespace and
// directives. Trivia without an owning node falls back to the root.
func NewCommentIndex(tree *syntax.Tree) *CommentIndex {
	idx := &CommentIndex{byNode: make(map[*syntax.Node][]syntax.Trivia)}
	for _, t := range tree.Trivia {
		if !t.Kind.IsComment() {
			continue
		}
		owner := t.Parent
		if owner == nil {
			owner = tree.Root
		}
		idx.byNode[owner] = append(idx.byNode[owner], t)
	}
	return idx
}

// Comments returns the comments attributed to n, in source order
func (x *CommentIndex) Comments(n *syntax.Node) []syntax.Trivia {
	return x.byNode[n]
}

// Len returns the number of nodes carrying comments
func (x *CommentIndex) Len() int {
	return len(x.byNode)
}
