package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_StartsWithRoot(t *testing.T) {
	r := NewRegistry()
	all := r.Namespaces()
	require.Len(t, all, 1)
	assert.Equal(t, "", all[0].Name)
	assert.Same(t, all[0], r.Root())
}

func TestRegistry_ResolveDeduplicates(t *testing.T) {
	r := NewRegistry()
	a := r.Resolve("App")
	b := r.Resolve("App.Core")
	assert.Same(t, a, r.Resolve("App"))
	assert.NotSame(t, a, b)
	assert.Equal(t, []string{"", "App", "App.Core"}, names(r.Namespaces()))
}

func TestRegistry_NamespacesReturnsCopy(t *testing.T) {
	r := NewRegistry()
	all := r.Namespaces()
	all[0] = nil
	assert.NotNil(t, r.Namespaces()[0])
}

func TestCanonicalName(t *testing.T) {
	assert.Equal(t, "A", CanonicalName("", "A"))
	assert.Equal(t, "A.B", CanonicalName("A", "B"))
	assert.Equal(t, "A.B.C", CanonicalName("A.B", "C"))
	assert.Equal(t, "A", CanonicalName("A", ""))
	assert.Equal(t, "", CanonicalName("", ""))
}
