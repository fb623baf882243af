package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/polylang/transpile/internal/diag"
	"github.com/polylang/transpile/internal/irbuild"
	"github.com/polylang/transpile/internal/parser"
	"github.com/polylang/transpile/internal/pipeline"
	"github.com/polylang/transpile/internal/stubs"
	"github.com/polylang/transpile/internal/tir"
)

var (
	// Version info - set by ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"

	// Color output
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// srcExt is the surface-language file suffix the CLI looks for under a
// directory input.
const srcExt = ".src"

func main() {
	if len(os.Args) == 1 {
		printHelp()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "--version", "-version":
		printVersion()
	case "--help", "-help", "help":
		printHelp()
	case "transpile":
		cmdTranspile(os.Args[2:])
	case "parse":
		cmdParse(os.Args[2:])
	case "test":
		cmdTest(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command '%s'\n", red("Error"), os.Args[1])
		printHelp()
		os.Exit(2)
	}
}

func printVersion() {
	fmt.Printf("transpile %s\n", bold(Version))
	if Commit != "unknown" {
		fmt.Printf("Commit: %s\n", Commit)
	}
	if BuildTime != "unknown" {
		fmt.Printf("Built:  %s\n", BuildTime)
	}
}

func printHelp() {
	fmt.Println(bold("transpile - SRC to DST source-to-source compiler"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  transpile <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <input> -o <outdir> [-n name] [-v]   Transpile a file or directory into a DST project\n", cyan("transpile"))
	fmt.Printf("  %s <input> [-v]                         Parse and lower to TIR; -v prints a textual dump\n", cyan("parse"))
	fmt.Printf("  %s <input> [--run]                      Check that the input transpiles; writes no project and runs no DST build tool\n", cyan("test"))
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  %s\n", cyan("transpile transpile hello.src -o out -n hello"))
	fmt.Printf("  %s\n", cyan("transpile parse hello.src -v"))
}

// collectSources resolves input into one pipeline.Source per surface file:
// input itself if it's a file, or every *.src file beneath it if it's a
// directory (spec §6: "input is a file or directory").
func collectSources(input string) ([]pipeline.Source, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		content, err := os.ReadFile(input)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		return []pipeline.Source{{ModulePath: name, Code: string(content)}}, nil
	}

	var sources []pipeline.Source
	err = filepath.Walk(input, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() || !strings.HasSuffix(path, srcExt) {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), srcExt)
		sources = append(sources, pipeline.Source{ModulePath: name, Code: string(content)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sources, nil
}

func printReports(reports []*diag.Report) {
	for _, r := range reports {
		fmt.Fprintf(os.Stderr, "%s %s\n", red("error:"), r.String())
	}
}

func newRegistry() *stubs.Registry {
	reg := stubs.NewRegistry()
	if err := reg.Discover(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: stub discovery: %v\n", yellow("Warning"), err)
	}
	return reg
}

func cmdTranspile(args []string) {
	fs := flag.NewFlagSet("transpile", flag.ExitOnError)
	outDir := fs.String("o", "", "output directory for the DST project")
	name := fs.String("n", "", "project name (default: output directory basename)")
	verbose := fs.Bool("v", false, "print the files written")
	fs.Parse(args)

	if fs.NArg() < 1 || *outDir == "" {
		fmt.Fprintf(os.Stderr, "%s: usage: transpile transpile <input> -o <outdir> [-n name] [-v]\n", red("Error"))
		os.Exit(2)
	}
	input := fs.Arg(0)
	projectName := *name
	if projectName == "" {
		projectName = filepath.Base(strings.TrimRight(*outDir, string(filepath.Separator)))
	}

	sources, err := collectSources(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read '%s': %v\n", red("Error"), input, err)
		os.Exit(2)
	}
	if len(sources) == 0 {
		fmt.Fprintf(os.Stderr, "%s: no %s files found under '%s'\n", red("Error"), srcExt, input)
		os.Exit(2)
	}

	errs := diag.NewCollector()
	reg := newRegistry()
	res, err := pipeline.Run(sources, reg, *outDir, projectName, errs)

	printReports(errs.Reports())
	if errs.Fatal() {
		os.Exit(errs.ExitCode())
	}
	if err != nil {
		os.Exit(1)
	}

	if *verbose {
		for _, f := range res.FilesWritten {
			fmt.Printf("  %s %s\n", green("✓"), f)
		}
	}
	fmt.Printf("%s Wrote %s to %s\n", green("✓"), cyan(projectName), res.OutputDir)
}

func cmdParse(args []string) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	verbose := fs.Bool("v", false, "print a textual dump of the TIR")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "%s: usage: transpile parse <input> [-v]\n", red("Error"))
		os.Exit(2)
	}
	input := fs.Arg(0)

	sources, err := collectSources(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read '%s': %v\n", red("Error"), input, err)
		os.Exit(2)
	}

	errs := diag.NewCollector()
	b := irbuild.New(errs)
	var mods []*tir.Module
	for _, src := range sources {
		file, perrs := parser.ParseFile(src.Code, src.ModulePath+srcExt)
		for _, r := range perrs {
			errs.Add(r)
		}
		if len(perrs) > 0 {
			continue
		}
		mods = append(mods, b.BuildModule(file, src.ModulePath))
	}

	printReports(errs.Reports())
	if errs.Fatal() {
		os.Exit(1)
	}

	if *verbose {
		for _, mod := range mods {
			fmt.Println(tir.Dump(mod))
		}
	}
	fmt.Printf("%s Parsed %d module(s)\n", green("✓"), len(mods))
}

func cmdTest(args []string) {
	fs := flag.NewFlagSet("test", flag.ExitOnError)
	run := fs.Bool("run", false, "accepted, but only prints a warning: no binary is built or executed")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "%s: usage: transpile test <input> [--run]\n", red("Error"))
		os.Exit(2)
	}
	input := fs.Arg(0)

	sources, err := collectSources(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read '%s': %v\n", red("Error"), input, err)
		os.Exit(2)
	}

	errs := diag.NewCollector()
	reg := newRegistry()
	results := pipeline.Compile(sources, reg, errs)

	printReports(errs.Reports())
	if errs.Fatal() {
		os.Exit(1)
	}

	pipeline.Emit(results)
	fmt.Printf("%s %d module(s) transpile cleanly\n", green("✓"), len(results))

	if *run {
		fmt.Fprintf(os.Stderr, "%s: --run requires a DST build tool; not invoked (out of scope)\n", yellow("Warning"))
	}
}
