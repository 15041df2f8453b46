package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/titanlang/titanc/internal/ast"
	"github.com/titanlang/titanc/internal/errors"
)

// fakeToolchain stands in for the external C compiler: each step records
// its invocation and creates its output file, so the driver's sequencing
// and cleanup can be observed without a toolchain installed.
type fakeToolchain struct {
	calls []string
	failOn string // step name that should fail, "" for none
}

func (f *fakeToolchain) step(name, input, output string) errors.List {
	f.calls = append(f.calls, name)
	if f.failOn == name {
		var errs errors.List
		errs.Add(errors.New(errors.ToolchainError,
		ast.Location{Filename: input, Line: 1, Column: 1}, "%s failed", name))
		return errs
	}
	os.WriteFile(output, []byte(name+"\n"), 0o644)
	return nil
}

func (f *fakeToolchain) CompileToAsm(input, output string) errors.List {
	return f.step("asm", input, output)
}

func (f *fakeToolchain) Assemble(input, output string) errors.List {
	return f.step("obj", input, output)
}

func (f *fakeToolchain) LinkShared(input, output string) errors.List {
	return f.step("link", input, output)
}

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "m.pln")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCompileFullChainCleansIntermediates(t *testing.T) {
	input := writeSource(t, `
function add(x: integer, y: integer): integer
	return x + y
end
`)
	tc := &fakeToolchain{}
	p := New(tc)
	if errs := p.Compile("pln", "so", input); len(errs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", errs)
	}

	if diff := cmp.Diff([]string{"asm", "obj", "link"}, tc.calls); diff != "" {
		t.Errorf("toolchain call order mismatch (-want +got):\n%s", diff)
	}

	stem := strings.TrimSuffix(input, ".pln")
	for _, ext := range []string{".c", ".s", ".o"} {
		if _, err := os.Stat(stem + ext); !os.IsNotExist(err) {
			t.Errorf("intermediate %s%s should have been removed", stem, ext)
		}
	}
	if _, err := os.Stat(stem + ".so"); err != nil {
		t.Errorf("final output missing: %v", err)
	}
	if _, err := os.Stat(input); err != nil {
		t.Errorf("original input missing: %v", err)
	}
}

func TestCompileFailureRemovesEverythingButInput(t *testing.T) {
	input := writeSource(t, `
function add(x: integer, y: integer): integer
	return x + y
end
`)
	tc := &fakeToolchain{failOn: "obj"}
	p := New(tc)
	errs := p.Compile("pln", "so", input)
	if len(errs) != 1 || errs[0].Kind != errors.ToolchainError {
		t.Fatalf("expected one ToolchainError, got %v", errs)
	}

	stem := strings.TrimSuffix(input, ".pln")
	for _, ext := range []string{".c", ".s", ".o", ".so"} {
		if _, err := os.Stat(stem + ext); !os.IsNotExist(err) {
			t.Errorf("artifact %s%s should have been removed after failure", stem, ext)
		}
	}
	if _, err := os.Stat(input); err != nil {
		t.Errorf("original input missing: %v", err)
	}
}

func TestCompileStopsAtRequestedExtension(t *testing.T) {
	input := writeSource(t, `
function one(): integer
	return 1
end
`)
	tc := &fakeToolchain{}
	p := New(tc)
	if errs := p.Compile("pln", "c", input); len(errs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", errs)
	}
	if len(tc.calls) != 0 {
		t.Errorf("expected no toolchain invocations for pln -> c, got %v", tc.calls)
	}

	out, err := os.ReadFile(strings.TrimSuffix(input, ".pln") + ".c")
	if err != nil {
		t.Fatalf("generated C missing: %v", err)
	}
	for _, want := range []string{"function_one_titan", "function_one_lua", "luaopen_"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("generated C missing %q", want)
		}
	}
}

func TestCompileRejectsUpstreamOutput(t *testing.T) {
	tc := &fakeToolchain{}
	p := New(tc)
	errs := p.Compile("c", "pln", "m.c")
	if len(errs) != 1 || errs[0].Kind != errors.UsageError {
		t.Fatalf("expected one UsageError, got %v", errs)
	}
	if len(tc.calls) != 0 {
		t.Errorf("step ordering must be rejected before any work, got calls %v", tc.calls)
	}
}

func TestCompileRejectsBadStem(t *testing.T) {
	p := New(&fakeToolchain{})
	errs := p.Compile("pln", "so", "bad-name!.pln")
	if len(errs) != 1 || errs[0].Kind != errors.UsageError {
		t.Fatalf("expected one UsageError, got %v", errs)
	}
}

func TestCompileRejectsWrongSuffix(t *testing.T) {
	p := New(&fakeToolchain{})
	errs := p.Compile("pln", "so", "m.lua")
	if len(errs) != 1 || errs[0].Kind != errors.UsageError {
		t.Fatalf("expected one UsageError, got %v", errs)
	}
}

func TestCompileMissingInputIsIoError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.pln")
	p := New(&fakeToolchain{})
	errs := p.Compile("pln", "c", path)
	if len(errs) != 1 || errs[0].Kind != errors.IoError {
		t.Fatalf("expected one IoError, got %v", errs)
	}
}

func TestCompileTypeErrorSkipsCodegen(t *testing.T) {
	input := writeSource(t, `
function g(): integer
	return 1 + 2.0
end
`)
	p := New(&fakeToolchain{})
	errs := p.Compile("pln", "so", input)
	if len(errs) == 0 {
		t.Fatal("expected a type error")
	}
	for _, d := range errs {
		if d.Kind != errors.TypeError {
			t.Errorf("expected only TypeErrors, got %s: %s", d.Kind, d.Message)
		}
	}
	if _, err := os.Stat(strings.TrimSuffix(input, ".pln") + ".c"); !os.IsNotExist(err) {
		t.Error("no C file should exist after a front-end failure")
	}
}

func TestCompileDiagnosticsAreSourceOrdered(t *testing.T) {
	input := writeSource(t, `
function a(): integer
	return undeclared_one
end

function b(): integer
	return 1 + 2.0
end
`)
	p := New(&fakeToolchain{})
	errs := p.Compile("pln", "so", input)
	if len(errs) < 2 {
		t.Fatalf("expected at least 2 diagnostics, got %v", errs)
	}
	for i := 1; i < len(errs); i++ {
		if errs[i-1].Loc.Line > errs[i].Loc.Line {
			t.Errorf("diagnostics out of source order: line %d before line %d", errs[i-1].Loc.Line, errs[i].Loc.Line)
		}
	}
}

func TestCompileKeepIntermediates(t *testing.T) {
	input := writeSource(t, `
function one(): integer
	return 1
end
`)
	tc := &fakeToolchain{}
	p := New(tc)
	p.KeepIntermediates = true
	if errs := p.Compile("pln", "so", input); len(errs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", errs)
	}
	stem := strings.TrimSuffix(input, ".pln")
	for _, ext := range []string{".c", ".s", ".o", ".so"} {
		if _, err := os.Stat(stem + ext); err != nil {
			t.Errorf("expected %s%s to survive with KeepIntermediates", stem, ext)
		}
	}
}

func TestCompileEmitLuaDumpsWrappers(t *testing.T) {
	input := writeSource(t, `
function add(x: integer, y: integer): integer
	return x + y
end
`)
	var dump strings.Builder
	p := New(&fakeToolchain{})
	p.EmitLua = &dump
	if errs := p.Compile("pln", "c", input); len(errs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", errs)
	}
	if !strings.Contains(dump.String(), "function_add_lua") {
		t.Errorf("expected the wrapper dump to contain the host entry point, got:\n%s", dump.String())
	}
}
