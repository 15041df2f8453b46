// Package driver sequences the compilation pipeline: the fixed chain of
// file extensions pln -> c -> s -> o -> so, where the first step is the
// in-process compiler and the remaining three invoke the external C
// toolchain. The driver owns the intermediate files: whatever happens,
// only the original input — plus, on success, the requested output —
// survives a Compile call.
package driver

import (
	"io"
	"os"
	"strings"

	"github.com/titanlang/titanc/internal/ast"
	"github.com/titanlang/titanc/internal/ccompiler"
	"github.com/titanlang/titanc/internal/checker"
	"github.com/titanlang/titanc/internal/coder"
	"github.com/titanlang/titanc/internal/errors"
	"github.com/titanlang/titanc/internal/parser"
	"github.com/titanlang/titanc/internal/pretty"
	"github.com/titanlang/titanc/internal/scope"
)

// chain is the fixed pipeline order. A step transforms chain[i] into
// chain[i+1]; there is no other route between extensions.
var chain = []string{"pln", "c", "s", "o", "so"}

// Toolchain is the external-compiler surface the driver needs, satisfied
// by *ccompiler.CC and by test fakes.
type Toolchain interface {
	CompileToAsm(input, output string) errors.List
	Assemble(input, output string) errors.List
	LinkShared(input, output string) errors.List
}

// Pipeline drives a compilation from one extension in the chain to a
// later one.
type Pipeline struct {
	CC Toolchain

	// KeepIntermediates disables the cleanup pass, leaving every
	// intermediate file on disk for inspection.
	KeepIntermediates bool

	// EmitLua, when non-nil, receives the generated host entry-point
	// wrappers during the pln -> c step.
	EmitLua io.Writer
}

// New returns a Pipeline over the given toolchain; a nil cc selects the
// default system compiler.
func New(cc Toolchain) *Pipeline {
	if cc == nil {
		cc = ccompiler.Default()
	}
	return &Pipeline{CC: cc}
}

// Compile validates inputFilename against inputExt, derives the module
// name, and runs every pipeline step from inputExt to outputExt in order.
// All diagnostics come back sorted in source order. Intermediate artifacts
// are removed on every exit path; the final output additionally survives
// only when every step succeeded.
func (p *Pipeline) Compile(inputExt, outputExt, inputFilename string) errors.List {
	cliLoc := ast.Location{Filename: inputFilename, Line: 1, Column: 1}

	from := indexOf(inputExt)
	to := indexOf(outputExt)
	switch {
	case from < 0:
		return usage(cliLoc, "unknown input extension %q", inputExt)
	case to < 0:
		return usage(cliLoc, "unknown output extension %q", outputExt)
	case to <= from:
		return usage(cliLoc, "cannot compile from .%s to .%s: the pipeline runs %s", inputExt, outputExt, strings.Join(chain, " -> "))
	}

	suffix := "." + inputExt
	if !strings.HasSuffix(inputFilename, suffix) {
		return usage(cliLoc, "input filename must end in %q", suffix)
	}
	stem := strings.TrimSuffix(inputFilename, suffix)
	if !validStem(stem) {
		return usage(cliLoc, "input filename stem may only contain letters, digits, underscores and path separators")
	}
	modName := strings.ReplaceAll(strings.TrimPrefix(stem, "/"), "/", "_")

	paths := make([]string, len(chain))
	for i, ext := range chain {
		paths[i] = stem + "." + ext
	}

	ok := false
	defer func() {
		if p.KeepIntermediates {
			return
		}
		// Intermediates go regardless of outcome; the final output only
		// survives a fully successful run. Half-built outputs left behind
		// are stale-cache bugs waiting to happen.
		for i := from + 1; i < to; i++ {
			os.Remove(paths[i])
		}
		if !ok {
			os.Remove(paths[to])
		}
	}()

	for i := from; i < to; i++ {
		if errs := p.step(chain[i], paths[i], paths[i+1], modName); len(errs) > 0 {
			errs.SortBySource()
			return errs
		}
	}
	ok = true
	return nil
}

// step runs the single pipeline step whose input extension is ext.
func (p *Pipeline) step(ext, input, output, modName string) errors.List {
	switch ext {
	case "pln":
		return p.compileToC(input, output, modName)
	case "c":
		return p.CC.CompileToAsm(input, output)
	case "s":
		return p.CC.Assemble(input, output)
	default:
		return p.CC.LinkShared(input, output)
	}
}

// compileToC is the in-process pln -> c step: parse, scope-check,
// type-check, generate, reindent, write.
func (p *Pipeline) compileToC(input, output, modName string) errors.List {
	src, err := os.ReadFile(input)
	if err != nil {
		var errs errors.List
		errs.Add(errors.New(errors.IoError, ast.Location{Filename: input, Line: 1, Column: 1}, "cannot read input: %v", err))
		return errs
	}

	ps := parser.New(string(src), input)
	file := ps.ParseFile()
	if errs := ps.Errors(); len(errs) > 0 {
		return errs
	}

	decls, errs := scope.Analyze(file)
	errs = append(errs, checker.Check(file, decls)...)
	if len(errs) > 0 {
		return errs
	}

	c := coder.NewCtx(modName, decls)
	tree := c.GenerateTree(file)
	if len(c.Errs) > 0 {
		return c.Errs
	}

	if p.EmitLua != nil {
		for _, w := range tree.FindAll("lua-wrapper") {
			io.WriteString(p.EmitLua, pretty.Reindent(w.Render()))
		}
	}

	text := pretty.Reindent(tree.Render())
	if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
		var werrs errors.List
		werrs.Add(errors.New(errors.IoError, ast.Location{Filename: output, Line: 1, Column: 1}, "cannot write output: %v", err))
		return werrs
	}
	return nil
}

func usage(loc ast.Location, format string, args ...interface{}) errors.List {
	var errs errors.List
	errs.Add(errors.New(errors.UsageError, loc, format, args...))
	return errs
}

func indexOf(ext string) int {
	for i, e := range chain {
		if e == ext {
			return i
		}
	}
	return -1
}

func validStem(stem string) bool {
	if stem == "" {
		return false
	}
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '/':
		default:
			return false
		}
	}
	return true
}
