// Package assembler groups emitted modules into a DST project: directory
// layout, root-module declarations, entry-point selection, and manifest
// synthesis (spec §4.6).
//
// Grounded on the teacher's planning.ScaffoldFromPlan (directory creation via
// os.MkdirAll, per-file os.WriteFile, a result struct reporting what was
// written) generalized from AILANG module files to DST project files.
package assembler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/polylang/transpile/internal/diag"
	"github.com/polylang/transpile/internal/emitter"
	"github.com/polylang/transpile/internal/manifest"
)

const dstExt = ".rs"

// Result reports what the assembler wrote, mirroring the teacher's
// ScaffoldResult shape.
type Result struct {
	OutputDir    string
	FilesWritten []string
}

// Assemble writes every emitted module to <out>/src, synthesizes the root
// module/entry file, and writes the build manifest (spec §4.6). files must
// be non-empty; exactly one file should have IsEntry set when the input was
// a directory project, or files may hold a single entry module for a
// single-file input.
func Assemble(files []*emitter.EmittedFile, outDir, projectName string, errs *diag.Collector) (*Result, error) {
	srcDir := filepath.Join(outDir, "src")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		errs.Add(diag.New(diag.EIO, "assemble", nil, "failed to create output directory: %v", err))
		return nil, err
	}

	res := &Result{OutputDir: outDir}
	mf := manifest.New(projectName)

	var entry *emitter.EmittedFile
	names := make([]string, 0, len(files))
	for _, f := range files {
		mf.Merge(f.Builds)
		if f.IsEntry {
			entry = f
			continue
		}
		names = append(names, f.ModulePath)
		path := filepath.Join(srcDir, f.ModulePath+dstExt)
		if err := writeFile(path, f.Code, res, errs); err != nil {
			return nil, err
		}
	}

	if entry == nil && len(files) == 1 {
		entry = files[0]
	}
	if entry == nil {
		err := fmt.Errorf("no entry module (a function named main) found among %d input file(s)", len(files))
		errs.Add(diag.New(diag.EIO, "assemble", nil, "%v", err))
		return nil, err
	}

	entryName := "main"
	if len(names) > 0 {
		if err := writeFile(filepath.Join(srcDir, "lib"+dstExt), rootModuleFile(names), res, errs); err != nil {
			return nil, err
		}
	}
	if err := writeFile(filepath.Join(srcDir, entryName+dstExt), entry.Code, res, errs); err != nil {
		return nil, err
	}

	if err := writeFile(filepath.Join(outDir, "Cargo.toml"), mf.Render(), res, errs); err != nil {
		return nil, err
	}

	return res, nil
}

// rootModuleFile synthesizes the declarations that make sibling modules
// visible from the crate root, for multi-file inputs.
func rootModuleFile(names []string) string {
	var sb strings.Builder
	for _, n := range names {
		fmt.Fprintf(&sb, "pub mod %s;\n", n)
	}
	return sb.String()
}

func writeFile(path, content string, res *Result, errs *diag.Collector) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		errs.Add(diag.New(diag.EIO, "assemble", nil, "failed to write %s: %v", path, err))
		return err
	}
	res.FilesWritten = append(res.FilesWritten, path)
	return nil
}
