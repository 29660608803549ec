package metrics

import (
	"errors"
	"fmt"

	"code-analyzer/src/model"
	"code-analyzer/src/syntax"
	"code-analyzer/src/util"
)

var (
	// ErrStructuralViolation aborts the walk of a file whose tree breaks the
	// namespace > type > method nesting.
	ErrStructuralViolation = errors.New("structural violation")

	// ErrWalkerReused is returned when Walk is called a second time
	ErrWalkerReused = errors.New("walker already used")
)

// DiagnosticOrphanParameter marks a parameter with no enclosing method, such
// as a constructor or delegate parameter.
const DiagnosticOrphanParameter = "orphan_parameter"

var typeKinds = map[syntax.Kind]model.TypeKind{
	syntax.KindClass:     model.TypeClass,
	syntax.KindInterface: model.TypeInterface,
	syntax.KindStruct:    model.TypeStruct,
	syntax.KindRecord:    model.TypeRecord,
	syntax.KindEnum:      model.TypeEnum,
}

// Walker computes metrics for one syntax tree. It holds per-tree state and
// must not be reused or shared between goroutines.
type Walker struct {
	tree     *syntax.Tree
	lines    *LineIndex
	comments *CommentIndex
	registry *Registry

	// Open scopes, innermost last
	namespaces []*model.Namespace
	types      []*model.Type
	methods    []*model.Method
	inContract bool

	diagnostics []model.Diagnostic
	walked      bool
}

// NewWalker indexes the tree's lines and comments
func NewWalker(tree *syntax.Tree) *Walker {
	registry := NewRegistry()
	return &Walker{
		tree:       tree,
		lines:      NewLineIndex(tree.Text),
		comments:   NewCommentIndex(tree),
		registry:   registry,
		namespaces: []*model.Namespace{registry.Root()},
	}
}

// Result is the output of one walk
type Result struct {
	Namespaces  []*model.Namespace
	Diagnostics []model.Diagnostic
}

// Analyze walks tree with a fresh Walker. On error the result still holds
// every namespace and type closed before the failure.
func Analyze(tree *syntax.Tree) (*Result, error) {
	w := NewWalker(tree)
	err := w.Walk()
	return &Result{Namespaces: w.Namespaces(), Diagnostics: w.Diagnostics()}, err
}

// Walk performs the recursive descent from the tree root
func (w *Walker) Walk() error {
	if w.walked {
		return ErrWalkerReused
	}
	w.walked = true
	if w.tree.Root == nil {
		return nil
	}
	return w.walk(w.tree.Root)
}

// Namespaces returns the namespaces seen so far in first-reference order,
// starting with the implicit root namespace.
func (w *Walker) Namespaces() []*model.Namespace {
	return w.registry.Namespaces()
}

// Diagnostics returns the non-fatal anomalies recorded during the walk
func (w *Walker) Diagnostics() []model.Diagnostic {
	return w.diagnostics
}

func (w *Walker) walk(n *syntax.Node) error {
	switch n.Kind {
	case syntax.KindNamespace:
		return w.visitNamespace(n, true)
	case syntax.KindFileScopedNamespace:
		return w.visitNamespace(n, false)
	case syntax.KindClass, syntax.KindInterface, syntax.KindStruct, syntax.KindRecord, syntax.KindEnum:
		return w.visitType(n)
	case syntax.KindMethod:
		return w.visitMethod(n)
	case syntax.KindParameterList:
		return w.visitParameterList(n)
	case syntax.KindParameter:
		return w.visitParameter(n)
	case syntax.KindComment, syntax.KindDocComment, syntax.KindDirective:
		// Counted through the comment index on the owning node.
		return nil
	default:
		return w.defaultVisit(n)
	}
}

func (w *Walker) walkChildren(n *syntax.Node) error {
	for _, c := range n.Children {
		if err := w.walk(c); err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) defaultVisit(n *syntax.Node) error {
	w.attribute(w.classify(n))
	return w.walkChildren(n)
}

// visitNamespace opens a namespace. Block-scoped declarations restore the
// stack on exit; file-scoped ones stay open for the rest of the file.
func (w *Walker) visitNamespace(n *syntax.Node, block bool) error {
	depth := len(w.namespaces)
	ns := w.registry.Resolve(CanonicalName(w.currentNamespace().Name, n.Name))
	w.namespaces = append(w.namespaces, ns)
	if block {
		defer func() { w.namespaces = w.namespaces[:depth] }()
	}
	return w.defaultVisit(n)
}

func (w *Walker) visitType(n *syntax.Node) error {
	t := model.NewType(typeKinds[n.Kind], n.Name)
	t.StartLine, t.EndLine = w.lines.Range(n.Span)

	depth := len(w.types)
	w.types = append(w.types, t)
	defer func() { w.types = w.types[:depth] }()

	if err := w.defaultVisit(n); err != nil {
		return err
	}
	ns := w.currentNamespace()
	ns.Types = append(ns.Types, t)
	return nil
}

func (w *Walker) visitMethod(n *syntax.Node) error {
	owner := w.currentType()
	if owner == nil {
		return fmt.Errorf("%w: method %q at line %d is not inside a type",
			ErrStructuralViolation, n.Name, w.lines.Line(n.Span.Start))
	}

	m := model.NewMethod(n.Name)
	m.StartLine, m.EndLine = w.lines.Range(n.Span)

	depth := len(w.methods)
	w.methods = append(w.methods, m)
	defer func() { w.methods = w.methods[:depth] }()

	if err := w.defaultVisit(n); err != nil {
		return err
	}
	owner.Methods = append(owner.Methods, m)
	return nil
}

func (w *Walker) visitParameterList(n *syntax.Node) error {
	saved := w.inContract
	w.inContract = true
	defer func() { w.inContract = saved }()
	return w.defaultVisit(n)
}

func (w *Walker) visitParameter(n *syntax.Node) error {
	if m := w.currentMethod(); m != nil {
		m.Parameters++
	} else {
		line := w.lines.Line(n.Span.Start)
		w.diagnostics = append(w.diagnostics, model.Diagnostic{
			Kind:    DiagnosticOrphanParameter,
			Line:    line,
			Message: fmt.Sprintf("parameter %q is not inside a method", n.Name),
		})
		util.Debug("%s:%d: parameter %q outside any method", w.tree.Path, line, n.Name)
	}
	return w.defaultVisit(n)
}

func (w *Walker) currentNamespace() *model.Namespace {
	return w.namespaces[len(w.namespaces)-1]
}

func (w *Walker) currentType() *model.Type {
	if len(w.types) == 0 {
		return nil
	}
	return w.types[len(w.types)-1]
}

func (w *Walker) currentMethod() *model.Method {
	if len(w.methods) == 0 {
		return nil
	}
	return w.methods[len(w.methods)-1]
}
