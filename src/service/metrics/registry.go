package metrics

import "code-analyzer/src/model"

// Registry deduplicates namespace declarations by canonical dotted name
type Registry struct {
	byName map[string]*model.Namespace
	order  []*model.Namespace
}

// NewRegistry creates a registry holding only the implicit root namespace
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]*model.Namespace)}
	r.Resolve("")
	return r
}

// Resolve returns the namespace for a canonical name, creating it on first use
func (r *Registry) Resolve(name string) *model.Namespace {
	if ns, ok := r.byName[name]; ok {
		return ns
	}
	ns := model.NewNamespace(name)
	r.byName[name] = ns
	r.order = append(r.order, ns)
	return ns
}

// Root returns the implicit namespace of code declared outside any namespace
func (r *Registry) Root() *model.Namespace {
	return r.byName[""]
}

// Namespaces returns every namespace in first-reference order
func (r *Registry) Namespaces() []*model.Namespace {
	out := make([]*model.Namespace, len(r.order))
	copy(out, r.order)
	return out
}

// CanonicalName joins an enclosing canonical name and a declared name with
// ".", skipping empty segments.
func CanonicalName(enclosing, declared string) string {
	switch {
	case enclosing == "":
		return declared
	case declared == "":
		return enclosing
	default:
		return enclosing + "." + declared
	}
}
