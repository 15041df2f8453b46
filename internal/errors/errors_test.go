package errors

import (
	"strings"
	"testing"

	"github.com/titanlang/titanc/internal/ast"
)

func TestDiagnosticWireFormat(t *testing.T) {
	d := New(TypeError, ast.Location{Filename: "m.titan", Line: 3, Column: 7}, "expected %s, got %s", "integer", "float")

	want := "m.titan:3:7: expected integer, got float"
	if d.String() != want {
		t.Errorf("String() = %q, want %q", d.String(), want)
	}
	if d.Error() != want {
		t.Errorf("Error() = %q, want %q", d.Error(), want)
	}
}

func TestNewPanicsOnZeroLocation(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New should panic when given a zero Location")
		}
	}()
	New(TypeError, ast.Location{}, "boom")
}

func TestListFormatOnePerLine(t *testing.T) {
	var l List
	l.Add(New(NameError, ast.Location{Filename: "m.titan", Line: 1, Column: 1}, "variable x not declared"))
	l.Add(New(TypeError, ast.Location{Filename: "m.titan", Line: 2, Column: 3}, "type mismatch"))

	out := l.Format()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Format() produced %d lines, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "m.titan:1:1:") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "m.titan:2:3:") {
		t.Errorf("second line = %q", lines[1])
	}
}

func TestListHasErrors(t *testing.T) {
	var l List
	if l.HasErrors() {
		t.Error("an empty List should report no errors")
	}
	l.Add(New(IoError, ast.Location{Filename: "f", Line: 1, Column: 1}, "boom"))
	if !l.HasErrors() {
		t.Error("a non-empty List should report errors")
	}
}

func TestSortBySourceOrdersAcrossPhases(t *testing.T) {
	var l List
	l.Add(New(TypeError, ast.Location{Filename: "m.titan", Line: 9, Column: 1}, "late"))
	l.Add(New(NameError, ast.Location{Filename: "m.titan", Line: 2, Column: 5}, "early"))
	l.Add(New(NameError, ast.Location{Filename: "m.titan", Line: 2, Column: 1}, "earlier"))

	l.SortBySource()
	got := []string{l[0].Message, l[1].Message, l[2].Message}
	want := []string{"earlier", "early", "late"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted order = %v, want %v", got, want)
		}
	}
}

func TestEmptyListFormatsEmpty(t *testing.T) {
	var l List
	if got := l.Format(); got != "" {
		t.Errorf("Format() on an empty List = %q, want \"\"", got)
	}
}
