// Package ccompiler wraps the external C toolchain for the back half of
// the pipeline: compiling the generated C to assembly, assembling it, and
// linking the shared object. The toolchain's own stderr is surfaced
// verbatim — its diagnostics about the generated C are more precise than
// anything this package could rephrase.
package ccompiler

import (
	"os/exec"
	"strings"

	"github.com/titanlang/titanc/internal/ast"
	"github.com/titanlang/titanc/internal/errors"
)

// CC describes the external C compiler invocation: the binary to run and
// the include directory holding the host VM's public and internal headers.
type CC struct {
	Bin string
	IncludeDir string
}

// Default returns the toolchain configuration used when the caller has no
// overrides: the system "cc" with the host headers expected under
// lua/src next to the working directory.
func Default() *CC {
	return &CC{Bin: "cc", IncludeDir: "lua/src"}
}

// baseFlags are common to every step: C99, position-independent code, and
// the host's include path.
func (c *CC) baseFlags() []string {
	return []string{"-std=c99", "-fPIC", "-I", c.IncludeDir}
}

// CompileToAsm runs the c -> s step.
func (c *CC) CompileToAsm(input, output string) errors.List {
	args := append(c.baseFlags(), "-S", input, "-o", output)
	return c.run(input, args)
}

// Assemble runs the s -> o step.
func (c *CC) Assemble(input, output string) errors.List {
	args := append(c.baseFlags(), "-c", input, "-o", output)
	return c.run(input, args)
}

// LinkShared runs the o -> so step.
func (c *CC) LinkShared(input, output string) errors.List {
	args := append(c.baseFlags(), "-shared", input, "-o", output)
	return c.run(input, args)
}

func (c *CC) run(input string, args []string) errors.List {
	cmd := exec.Command(c.Bin, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	// Toolchain diagnostics carry their own positions, so the wrapping
	// Diagnostic points at the step's input file as a whole.
	loc := ast.Location{Filename: input, Line: 1, Column: 1}
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		msg = err.Error()
	}
	var errs errors.List
	errs.Add(errors.New(errors.ToolchainError, loc, "%s: %s", c.Bin, msg))
	return errs
}
