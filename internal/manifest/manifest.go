// Package manifest synthesizes the build manifest (the Cargo.toml-equivalent,
// spec §4.6) for an assembled DST project: project identity, the accumulated
// dependency set, and a fixed lints stanza.
//
// No TOML-writing library appears anywhere in the example pack's dependency
// graphs (the teacher and its siblings all emit JSON or hand-built text for
// their own manifest-shaped data), so this is rendered directly with
// strings.Builder, the same way the teacher's own manifest and scaffolder
// packages build text output.
package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/polylang/transpile/internal/tir"
)

// Manifest is the project-level dependency and identity record accumulated
// across every emitted module (spec §4.6).
type Manifest struct {
	ProjectName string
	Deps        map[string]tir.BuildRequirement
}

// New returns an empty manifest for the given project name.
func New(projectName string) *Manifest {
	return &Manifest{ProjectName: projectName, Deps: make(map[string]tir.BuildRequirement)}
}

// Merge folds a module's build requirements into the manifest's dependency
// set (spec's manifest-closure testable property: every stub-resolved
// symbol's declared requirement appears in the synthesized manifest).
// A crate named by more than one stub is merged feature-wise rather than
// overwritten, so two stubs each requiring a different feature of the same
// crate both get satisfied.
func (m *Manifest) Merge(reqs []tir.BuildRequirement) {
	for _, r := range reqs {
		existing, ok := m.Deps[r.Crate]
		if !ok {
			m.Deps[r.Crate] = r
			continue
		}
		existing.Features = mergeFeatures(existing.Features, r.Features)
		if existing.Version == "" {
			existing.Version = r.Version
		}
		m.Deps[r.Crate] = existing
	}
}

func mergeFeatures(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, f := range append(append([]string{}, a...), b...) {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

// Render writes the manifest as Cargo.toml-equivalent text: package identity,
// the sorted dependency table, and the fixed lints stanza (spec §4.6) that
// allows unused-must-use (stubbed channel sends return an ignorable result)
// and unnecessary casts (the index-cast rule can produce a redundant cast in
// a DST-obvious case).
func (m *Manifest) Render() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[package]\n")
	fmt.Fprintf(&sb, "name = %q\n", m.ProjectName)
	fmt.Fprintf(&sb, "version = \"0.1.0\"\n")
	fmt.Fprintf(&sb, "edition = \"2021\"\n\n")

	fmt.Fprintf(&sb, "[dependencies]\n")
	names := make([]string, 0, len(m.Deps))
	for name := range m.Deps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		dep := m.Deps[name]
		version := dep.Version
		if version == "" {
			version = "*"
		}
		if len(dep.Features) == 0 {
			fmt.Fprintf(&sb, "%s = %q\n", name, version)
			continue
		}
		feats := make([]string, len(dep.Features))
		for i, f := range dep.Features {
			feats[i] = fmt.Sprintf("%q", f)
		}
		fmt.Fprintf(&sb, "%s = { version = %q, features = [%s] }\n", name, version, strings.Join(feats, ", "))
	}
	sb.WriteString("\n")

	sb.WriteString("[lints.rust]\n")
	sb.WriteString("unused_must_use = \"allow\"\n")
	sb.WriteString("unnecessary_casts = \"allow\"\n")

	return sb.String()
}
