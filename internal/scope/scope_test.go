package scope

import (
	"testing"

	"github.com/titanlang/titanc/internal/parser"
)

func TestAnalyzeResolvesParameterReference(t *testing.T) {
	p := parser.New(`
function add(x: integer, y: integer): integer
	return x + y
end
`, "t.titan")
	f := p.ParseFile()

	_, errs := Analyze(f)
	if len(errs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", errs)
	}
}

func TestAnalyzeReportsUndeclaredVariable(t *testing.T) {
	p := parser.New(`
function bad(): integer
	return missing
end
`, "t.titan")
	f := p.ParseFile()

	_, errs := Analyze(f)
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", len(errs), errs)
	}
	if got := errs[0].Message; got != "variable missing not declared" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestAnalyzeReportsDuplicateTopLevelFunction(t *testing.T) {
	p := parser.New(`
function dup(): integer
	return 1
end

function dup(): integer
	return 2
end
`, "t.titan")
	f := p.ParseFile()

	_, errs := Analyze(f)
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", len(errs), errs)
	}
	if got := errs[0].Message; got != "duplicate function or variable declaration for dup" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestAnalyzeAllowsForwardReferenceBetweenFunctions(t *testing.T) {
	p := parser.New(`
function a(): integer
	return b()
end

function b(): integer
	return 1
end
`, "t.titan")
	f := p.ParseFile()

	_, errs := Analyze(f)
	if len(errs) != 0 {
		t.Fatalf("unexpected diagnostics for a forward reference: %v", errs)
	}
}

func TestAnalyzeInjectsForLoopVariable(t *testing.T) {
	p := parser.New(`
function sum(): integer
	local total: integer := 0
	for i: integer = 1, 10 do
 total := total + i
	end
	return total
end
`, "t.titan")
	f := p.ParseFile()

	_, errs := Analyze(f)
	if len(errs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", errs)
	}
}

func TestAnalyzeScopesBlockLocalsToTheirBlock(t *testing.T) {
	p := parser.New(`
function f(): integer
	if true then
 local x: integer := 1
	end
	return x
end
`, "t.titan")
	f := p.ParseFile()

	_, errs := Analyze(f)
	if len(errs) != 1 {
		t.Fatalf("expected the then-block's local to be out of scope at the return, got: %v", errs)
	}
}

func TestAnalyzeRepeatConditionSeesBodyLocals(t *testing.T) {
	p := parser.New(`
function f(): integer
	local i: integer := 0
	repeat
 local done: integer := i
	until done == 1
	return i
end
`, "t.titan")
	f := p.ParseFile()

	_, errs := Analyze(f)
	if len(errs) != 0 {
		t.Fatalf("expected the repeat condition to see the body's local, got: %v", errs)
	}
}

func TestAnalyzeDuplicateRecordDeclaration(t *testing.T) {
	p := parser.New(`
record Point
	x: integer
end

record Point
	y: integer
end
`, "t.titan")
	f := p.ParseFile()

	_, errs := Analyze(f)
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", len(errs), errs)
	}
}
