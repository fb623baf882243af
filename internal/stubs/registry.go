// Package stubs implements the external-symbol stub registry (spec §4.3):
// discovery of stub packages describing symbols a transpiled program may
// call into, and the lookup operations the analyzer and emitter consult to
// resolve and render those calls.
package stubs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// EntryFile is the well-known metadata file name a stub package directory
// must contain to be discovered (spec §4.3).
const EntryFile = ".transpile-stubs.yaml"

// SearchPathEnv names additional colon-separated search directories,
// mirroring the teacher's AILANG_PATH environment-variable idiom
// (internal/module/loader.go).
const SearchPathEnv = "TRANSPILE_STUB_PATH"

// Symbol describes one entry of a package's symbols.yaml.
type Symbol struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"` // "function", "method", "type"
	Type     string `yaml:"type"` // TIR type s-expression
	Receiver string `yaml:"receiver,omitempty"`
}

// BuildReq is one build-manifest dependency a stub template requires.
type BuildReq struct {
	Crate    string   `yaml:"crate"`
	Version  string   `yaml:"version"`
	Features []string `yaml:"features,omitempty"`
}

// Template describes one symbol's templates.yaml entry.
type Template struct {
	Code    string     `yaml:"code"`
	Imports []string   `yaml:"imports,omitempty"`
	Build   []BuildReq `yaml:"build,omitempty"`
}

type pkg struct {
	symbols   []Symbol
	templates map[string]Template
}

// Callable is the resolved shape of lookup_callable.
type Callable struct {
	Signature string
	Template  string
	Imports   []string
	Build     []BuildReq
}

// Method is the resolved shape of lookup_method.
type Method struct {
	Signature string
	Template  string
	Imports   []string
}

// Registry discovers and caches stub packages for one compiler invocation,
// mirroring the teacher's Loader cache+search-path pattern
// (internal/module/loader.go).
type Registry struct {
	mu          sync.RWMutex
	searchPaths []string
	packages    []*pkg
	loaded      bool

	typeCache     map[string]*string
	callableCache map[string]*Callable
	methodCache   map[string]*Method
	requirements  map[string]BuildReq
}

// NewRegistry builds a Registry over the default search path list: the
// current directory, then TRANSPILE_STUB_PATH entries, mirroring
// getDefaultSearchPaths in the teacher's module loader.
func NewRegistry() *Registry {
	paths := []string{"."}
	if v := os.Getenv(SearchPathEnv); v != "" {
		paths = append(paths, strings.Split(v, string(os.PathListSeparator))...)
	}
	return &Registry{
		searchPaths:   paths,
		typeCache:     make(map[string]*string),
		callableCache: make(map[string]*Callable),
		methodCache:   make(map[string]*Method),
		requirements:  make(map[string]BuildReq),
	}
}

// WithSearchPath appends an additional directory to search, for callers that
// know a stub root ahead of time (e.g. a CLI flag).
func (r *Registry) WithSearchPath(dir string) *Registry {
	r.searchPaths = append(r.searchPaths, dir)
	return r
}

// Discover walks the search paths looking for stub package directories
// (any directory containing EntryFile), loading each one. Discovery failure
// for one stub package is not itself fatal (spec §4.3); it returns an error
// only for I/O failures reading a search root, and logs nothing for roots
// that simply don't exist.
func (r *Registry) Discover() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return nil
	}
	r.loaded = true

	var firstErr error
	for _, root := range r.searchPaths {
		entries, err := os.ReadDir(root)
		if err != nil {
			if !os.IsNotExist(err) && firstErr == nil {
				firstErr = fmt.Errorf("stub search root %s: %w", root, err)
			}
			continue // missing search root is not fatal
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			dir := filepath.Join(root, e.Name())
			if _, err := os.Stat(filepath.Join(dir, EntryFile)); err != nil {
				continue
			}
			p, err := loadPackage(dir)
			if err != nil {
				continue
			}
			r.packages = append(r.packages, p)
		}
	}
	return firstErr
}

func loadPackage(dir string) (*pkg, error) {
	symBytes, err := os.ReadFile(filepath.Join(dir, "symbols.yaml"))
	if err != nil {
		return nil, fmt.Errorf("stub package %s: %w", dir, err)
	}
	var symDoc struct {
		Symbols []Symbol `yaml:"symbols"`
	}
	if err := yaml.Unmarshal(symBytes, &symDoc); err != nil {
		return nil, fmt.Errorf("stub package %s: symbols.yaml: %w", dir, err)
	}

	tmplBytes, err := os.ReadFile(filepath.Join(dir, "templates.yaml"))
	if err != nil {
		return nil, fmt.Errorf("stub package %s: %w", dir, err)
	}
	var tmplDoc struct {
		Templates map[string]Template `yaml:"templates"`
	}
	if err := yaml.Unmarshal(tmplBytes, &tmplDoc); err != nil {
		return nil, fmt.Errorf("stub package %s: templates.yaml: %w", dir, err)
	}

	return &pkg{symbols: symDoc.Symbols, templates: tmplDoc.Templates}, nil
}

// LookupType resolves a qualified type name, returning its TIR
// s-expression string and true, or false if no stub declares it.
func (r *Registry) LookupType(qualifiedName string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.typeCache[qualifiedName]; ok {
		if v == nil {
			return "", false
		}
		return *v, true
	}
	for _, p := range r.packages {
		for _, s := range p.symbols {
			if s.Kind == "type" && s.Name == qualifiedName {
				r.typeCache[qualifiedName] = &s.Type
				return s.Type, true
			}
		}
	}
	r.typeCache[qualifiedName] = nil
	return "", false
}

// LookupCallable resolves a qualified function name to its signature,
// template, imports and build requirements.
func (r *Registry) LookupCallable(qualifiedName string) (*Callable, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.callableCache[qualifiedName]; ok {
		return c, c != nil
	}
	for _, p := range r.packages {
		for _, s := range p.symbols {
			if s.Kind != "function" || s.Name != qualifiedName {
				continue
			}
			t := p.templates[qualifiedName]
			c := &Callable{Signature: s.Type, Template: t.Code, Imports: t.Imports, Build: t.Build}
			r.callableCache[qualifiedName] = c
			for _, b := range t.Build {
				r.requirements[b.Crate] = b
			}
			return c, true
		}
	}
	r.callableCache[qualifiedName] = nil
	return nil, false
}

// LookupMethod resolves a method name against a receiver's qualified type.
func (r *Registry) LookupMethod(receiverType, methodName string) (*Method, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := receiverType + "::" + methodName
	if m, ok := r.methodCache[key]; ok {
		return m, m != nil
	}
	for _, p := range r.packages {
		for _, s := range p.symbols {
			if s.Kind != "method" || s.Receiver != receiverType || s.Name != methodName {
				continue
			}
			tmplKey := receiverType + "." + methodName
			t := p.templates[tmplKey]
			m := &Method{Signature: s.Type, Template: t.Code, Imports: t.Imports}
			r.methodCache[key] = m
			for _, b := range t.Build {
				r.requirements[b.Crate] = b
			}
			return m, true
		}
	}
	r.methodCache[key] = nil
	return nil, false
}

// CollectRequirements returns the set of build requirements accumulated by
// every successful lookup so far in this invocation, sorted by crate name.
func (r *Registry) CollectRequirements() []BuildReq {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]BuildReq, 0, len(r.requirements))
	for _, b := range r.requirements {
		out = append(out, b)
	}
	sortBuildReqs(out)
	return out
}

func sortBuildReqs(reqs []BuildReq) {
	for i := 1; i < len(reqs); i++ {
		for j := i; j > 0 && reqs[j-1].Crate > reqs[j].Crate; j-- {
			reqs[j-1], reqs[j] = reqs[j], reqs[j-1]
		}
	}
}
