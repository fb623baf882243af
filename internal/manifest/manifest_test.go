package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polylang/transpile/internal/tir"
)

func TestRenderIncludesProjectNameAndLints(t *testing.T) {
	m := New("widgets")
	out := m.Render()
	assert.Contains(t, out, `name = "widgets"`)
	assert.Contains(t, out, `unused_must_use = "allow"`)
}

func TestMergeAccumulatesDependenciesAndFeatures(t *testing.T) {
	m := New("widgets")
	m.Merge([]tir.BuildRequirement{{Crate: "tokio", Version: "1", Features: []string{"sync"}}})
	m.Merge([]tir.BuildRequirement{{Crate: "tokio", Version: "1", Features: []string{"rt-multi-thread"}}})
	out := m.Render()
	require.Contains(t, out, `"rt-multi-thread"`)
	require.Contains(t, out, `"sync"`)
	assert.Equal(t, 1, strings.Count(out, "tokio ="), "expected tokio listed once, got:\n%s", out)
}

func TestRenderIsDeterministic(t *testing.T) {
	m := New("widgets")
	m.Merge([]tir.BuildRequirement{{Crate: "zeta", Version: "1"}, {Crate: "alpha", Version: "1"}})
	first := m.Render()
	second := m.Render()
	assert.Equal(t, first, second, "expected deterministic render")
	assert.Less(t, strings.Index(first, "alpha"), strings.Index(first, "zeta"), "expected dependencies sorted alphabetically")
}
