// Package pipeline orchestrates the full lowering pipeline (spec §2):
// parse → build TIR → analyze → emit → assemble. It is the thin glue the
// CLI drives; none of the stage logic lives here.
package pipeline

import (
	"github.com/polylang/transpile/internal/analyzer"
	"github.com/polylang/transpile/internal/assembler"
	"github.com/polylang/transpile/internal/diag"
	"github.com/polylang/transpile/internal/emitter"
	"github.com/polylang/transpile/internal/irbuild"
	"github.com/polylang/transpile/internal/parser"
	"github.com/polylang/transpile/internal/stubs"
	"github.com/polylang/transpile/internal/tir"
)

// Source is one input file: ModulePath is its module name (the file's
// basename without extension, for file and directory inputs alike); Code is
// its SRC source text.
type Source struct {
	ModulePath string
	Code       string
}

// CompileResult holds one compiled module's intermediate state, useful to
// callers (like the `test` subcommand) that want to check the TIR without
// assembling a project.
type CompileResult struct {
	Module *tir.Module
	Table  *tir.Table
}

// Compile runs parse→build→analyze for every source file and returns their
// TIR plus annotation tables. Registry discovery must already have run (or
// be deliberately skipped) before calling Compile; Compile only queries it.
func Compile(sources []Source, reg *stubs.Registry, errs *diag.Collector) []*CompileResult {
	results := make([]*CompileResult, 0, len(sources))
	b := irbuild.New(errs)
	for _, src := range sources {
		file, perrs := parser.ParseFile(src.Code, src.ModulePath)
		for _, r := range perrs {
			errs.Add(r)
		}
		if len(perrs) > 0 {
			continue
		}
		mod := b.BuildModule(file, src.ModulePath)
		table := analyzer.Analyze(mod, reg, errs)
		results = append(results, &CompileResult{Module: mod, Table: table})
	}
	return results
}

// Emit runs the emitter over every compiled module. Emission per spec §4.7
// does not run if any fatal diagnostic was raised during parse/build/analyze;
// callers must check errs.Fatal() before calling Emit.
func Emit(results []*CompileResult) []*emitter.EmittedFile {
	files := make([]*emitter.EmittedFile, 0, len(results))
	for _, r := range results {
		files = append(files, emitter.New(r.Table).EmitModule(r.Module))
	}
	return files
}

// Run performs the full pipeline end to end: compile, emit (only if no
// fatal diagnostic was raised), and assemble into outDir under projectName.
// It returns nil without error when diagnostics halted emission; callers
// should inspect errs for the reason.
func Run(sources []Source, reg *stubs.Registry, outDir, projectName string, errs *diag.Collector) (*assembler.Result, error) {
	results := Compile(sources, reg, errs)
	if errs.Fatal() {
		return nil, nil
	}
	files := Emit(results)
	return assembler.Assemble(files, outDir, projectName, errs)
}
