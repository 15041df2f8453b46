package coder

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/titanlang/titanc/internal/ast"
	"github.com/titanlang/titanc/internal/checker"
	"github.com/titanlang/titanc/internal/parser"
	"github.com/titanlang/titanc/internal/scope"
)

func generate(t *testing.T, src string) (string, int) {
	t.Helper()
	f, c := build(t, src)
	out, errs := c.Generate(f)
	return out, len(errs)
}

func build(t *testing.T, src string) (*ast.File, *Ctx) {
	t.Helper()
	p := parser.New(src, "t.titan")
	f := p.ParseFile()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	decls, scopeErrs := scope.Analyze(f)
	if len(scopeErrs) != 0 {
		t.Fatalf("unexpected scope errors: %v", scopeErrs)
	}
	if errs := checker.Check(f, decls); len(errs) != 0 {
		t.Fatalf("unexpected checker errors: %v", errs)
	}
	return f, NewCtx("m", decls)
}

func TestGenerateIntegerAdditionUsesIntop(t *testing.T) {
	out, n := generate(t, `
function add(x: integer, y: integer): integer
	return x + y
end
`)
	if n != 0 {
		t.Fatalf("unexpected coder diagnostics")
	}
	if !strings.Contains(out, "intop(+,") {
		t.Errorf("expected integer addition to use intop, got:\n%s", out)
	}
	if !strings.Contains(out, "function_add_titan") {
		t.Errorf("expected a mangled core entry point, got:\n%s", out)
	}
	if !strings.Contains(out, "function_add_lua") {
		t.Errorf("expected a mangled host entry point, got:\n%s", out)
	}
}

func TestGenerateWrapperTagChecksArguments(t *testing.T) {
	out, n := generate(t, `
function add(x: integer, y: integer): integer
	return x + y
end
`)
	if n != 0 {
		t.Fatalf("unexpected coder diagnostics")
	}
	if !strings.Contains(out, "lua_isinteger(L, 1)") {
		t.Errorf("expected the wrapper to tag-check argument 1, got:\n%s", out)
	}
	if !strings.Contains(out, `wrong type for argument x at line 2, expected integer`) {
		t.Errorf("expected a localized wrong-type diagnostic for x, got:\n%s", out)
	}
}

func TestGenerateDivisionAlwaysWidensToFloat(t *testing.T) {
	out, n := generate(t, `
function half(x: integer, y: integer): float
	return x / y
end
`)
	if n != 0 {
		t.Fatalf("unexpected coder diagnostics")
	}
	if !strings.Contains(out, "lua_Number") {
		t.Errorf("expected float division to widen through lua_Number, got:\n%s", out)
	}
}

func TestGenerateFloorDivisionUsesHostHelper(t *testing.T) {
	out, n := generate(t, `
function quot(x: integer, y: integer): integer
	return x // y
end
`)
	if n != 0 {
		t.Fatalf("unexpected coder diagnostics")
	}
	if !strings.Contains(out, "luaV_div(L,") {
		t.Errorf("expected floor division to route through luaV_div, got:\n%s", out)
	}
}

func TestGenerateGlobalVariableRoundTrips(t *testing.T) {
	out, n := generate(t, `
local counter: integer := 0

function bump(): integer
	counter := counter + 1
	return counter
end
`)
	if n != 0 {
		t.Fatalf("unexpected coder diagnostics")
	}
	if !strings.Contains(out, "titan_global_set_int(L, globals, 0,") {
		t.Errorf("expected the global initializer to target slot 0, got:\n%s", out)
	}
	if !strings.Contains(out, "titan_global_get_int(globals, 0)") {
		t.Errorf("expected a read of global slot 0, got:\n%s", out)
	}
}

func TestGenerateGlobalIndicesAreContiguous(t *testing.T) {
	f, c := build(t, `
local a: integer := 1

function f(): integer
	return a
end

local b: integer := 2

function g(): integer
	return b
end
`)
	c.assignGlobalIndices(f)

	want := 0
	for _, tl := range f.TopLevel {
		switch d := tl.(type) {
		case *ast.FuncDecl:
			if d.GlobalIndex != want {
				t.Errorf("function %s: global index %d, want %d", d.Name, d.GlobalIndex, want)
			}
			want++
		case *ast.VarDecl:
			if d.GlobalIndex != want {
				t.Errorf("var %s: global index %d, want %d", d.Decl.Name, d.GlobalIndex, want)
			}
			want++
		}
	}
	if want != 4 {
		t.Fatalf("expected 4 indexed declarations, got %d", want)
	}
}

func TestGenerateEntryPointNamesAreDistinct(t *testing.T) {
	f, c := build(t, `
function f(): integer
	return 1
end

function g(): integer
	return 2
end
`)
	c.assignGlobalIndices(f)

	seen := map[string]bool{}
	for _, tl := range f.TopLevel {
		fn := tl.(*ast.FuncDecl)
		for _, name := range []string{fn.TitanEntryPoint, fn.LuaEntryPoint} {
			if name == "" {
				t.Fatalf("function %s: entry point name not assigned", fn.Name)
			}
			if seen[name] {
				t.Errorf("entry point name %q assigned twice", name)
			}
			seen[name] = true
		}
	}
}

func TestGenerateForLoopLowersToCFor(t *testing.T) {
	out, n := generate(t, `
function sum(n: integer): integer
	local total: integer := 0
	for i: integer = 1, n do
		total := total + i
	end
	return total
end
`)
	if n != 0 {
		t.Fatalf("unexpected coder diagnostics")
	}
	if !strings.Contains(out, "for (lua_Integer") {
		t.Errorf("expected the numeric for loop to lower to a C for statement, got:\n%s", out)
	}
	if !strings.Contains(out, "intop(+, local_i,") {
		t.Errorf("expected the loop increment to wrap through intop, got:\n%s", out)
	}
}

func TestGenerateModuleEntryPoints(t *testing.T) {
	out, n := generate(t, `
function add(x: integer, y: integer): integer
	return x + y
end
`)
	if n != 0 {
		t.Fatalf("unexpected coder diagnostics")
	}
	for _, want := range []string{
		"int init_m(lua_State *L)",
		"int luaopen_m(lua_State *L)",
		"luaH_resize(L, t, 1, 0);",
		"lua_pushcclosure(L, init_m, 1);",
		"titan_global_set_function(L, globals, 0, function_add_lua);",
		`lua_setfield(L, -2, "add");`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("generated unit missing %q:\n%s", want, out)
		}
	}
}

func TestGenerateEmptyModule(t *testing.T) {
	out, n := generate(t, "")
	if n != 0 {
		t.Fatalf("unexpected coder diagnostics")
	}
	if !strings.Contains(out, "luaH_resize(L, t, 0, 0);") {
		t.Errorf("expected an empty module's globals table to be sized 0, got:\n%s", out)
	}
	if !strings.Contains(out, "lua_createtable(L, 0, 0);") {
		t.Errorf("expected an empty module table, got:\n%s", out)
	}
}

func TestGenerateStringLiteralIsNotImplemented(t *testing.T) {
	_, n := generate(t, `
function greet(): string
	return "hello"
end
`)
	if n != 1 {
		t.Fatalf("expected exactly 1 coder diagnostic for a string literal, got %d", n)
	}
}

func TestGenerateBinarySearchSnapshot(t *testing.T) {
	out, n := generate(t, `
function binsearch(xs: {integer}, target: integer, n: integer): integer
	local lo: integer := 1
	local hi: integer := n
	while lo <= hi do
		local mid: integer := (lo + hi) // 2
		if xs[mid] == target then
			return mid
		elseif xs[mid] < target then
			lo := mid + 1
		else
			hi := mid - 1
		end
	end
	return -1
end
`)
	if n != 0 {
		t.Fatalf("unexpected coder diagnostics")
	}
	snaps.MatchSnapshot(t, "binary_search", out)
}
