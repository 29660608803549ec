package metrics

import "code-analyzer/src/syntax"

// deltas are the counts one node contributes to the open scope
type deltas struct {
	tokens   uint
	branches uint
	lambdas  uint
	comments uint
}

func (d deltas) zero() bool {
	return d.tokens+d.branches+d.lambdas+d.comments == 0
}

// classify computes a node's own contribution, without its children
func (w *Walker) classify(n *syntax.Node) deltas {
	var d deltas
	if n.IsLeaf() {
		d.tokens++
	}

	switch n.Kind {
	case syntax.KindPrefixUnary, syntax.KindPostfixUnary, syntax.KindGenericName:
		// the operator or generic identifier is not a child node
		d.tokens++
	case syntax.KindBinary:
		d.tokens++
	case syntax.KindLogicalOr, syntax.KindLogicalAnd, syntax.KindCoalesce:
		d.tokens++
		d.branches++
	case syntax.KindCoalesceAssignment,
		syntax.KindIf, syntax.KindWhile, syntax.KindForEach, syntax.KindFor,
		syntax.KindCaseLabel, syntax.KindConditionalAccess, syntax.KindConditional:
		d.branches++
	case syntax.KindLambda:
		d.lambdas++
	}

	for _, c := range w.comments.Comments(n) {
		d.comments += uint(w.lines.Lines(c.Span))
	}
	return d
}

// attribute adds d to the innermost open method. With no method open, only
// comment lines reach the innermost open type; the rest is dropped.
func (w *Walker) attribute(d deltas) {
	if d.zero() {
		return
	}
	if m := w.currentMethod(); m != nil {
		if w.inContract {
			m.ContractComplexity += d.tokens
		} else {
			m.CodeTokens += d.tokens
		}
		m.CommentLines += d.comments
		m.CyclomaticComplexity += d.branches
		m.Lambdas += d.lambdas
		return
	}
	if t := w.currentType(); t != nil {
		t.CommentLines += d.comments
	}
}
