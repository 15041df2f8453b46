package symtab

import (
	"testing"

	"github.com/titanlang/titanc/internal/ast"
)

func decl(name string) *ast.Decl {
	return &ast.Decl{Name: name}
}

func TestAddAndFindSymbol(t *testing.T) {
	st := New()
	d := decl("x")

	if !st.AddSymbol("x", d) {
		t.Fatal("first AddSymbol for a fresh name should succeed")
	}

	got, ok := st.FindSymbol("x")
	if !ok || got != d {
		t.Fatalf("FindSymbol(\"x\") = %v, %v; want %v, true", got, ok, d)
	}
}

func TestAddSymbolDuplicateInSameScope(t *testing.T) {
	st := New()
	st.AddSymbol("x", decl("x"))

	if st.AddSymbol("x", decl("x")) {
		t.Error("AddSymbol should report false for a duplicate in the same scope")
	}
}

func TestFindSymbolUnknown(t *testing.T) {
	st := New()
	if _, ok := st.FindSymbol("missing"); ok {
		t.Error("FindSymbol should report false for an unknown name")
	}
}

func TestFindSymbolInnerOut(t *testing.T) {
	st := New()
	outer := decl("x")
	st.AddSymbol("x", outer)

	st.WithBlock(func() {
		inner := decl("x")
		st.AddSymbol("x", inner)

		got, _ := st.FindSymbol("x")
		if got != inner {
			t.Error("FindSymbol should resolve to the innermost declaration")
		}
	})

	got, _ := st.FindSymbol("x")
	if got != outer {
		t.Error("after the inner scope pops, FindSymbol should resolve to the outer declaration again")
	}
}

func TestWithBlockPopsOnPanic(t *testing.T) {
	st := New()
	depthBefore := len(st.scopes)

	func() {
		defer func() { recover() }()
		st.WithBlock(func() {
			panic("boom")
		})
	}()

	if len(st.scopes) != depthBefore {
		t.Errorf("scope stack depth after panicking WithBlock = %d, want %d", len(st.scopes), depthBefore)
	}
}

func TestFindDupOnlyChecksTopScope(t *testing.T) {
	st := New()
	st.AddSymbol("x", decl("x"))

	st.WithBlock(func() {
		if _, ok := st.FindDup("x"); ok {
			t.Error("FindDup should not see a declaration from an enclosing scope")
		}
	})

	if _, ok := st.FindDup("x"); !ok {
		t.Error("FindDup should see a declaration in the current top scope")
	}
}

func TestFunctionSentinel(t *testing.T) {
	st := New()
	fn := &ast.FuncDecl{Name: "f"}
	st.AddSymbol(FunctionSentinel, fn)

	got, ok := st.FindSymbol(FunctionSentinel)
	if !ok || got != fn {
		t.Fatal("the $function sentinel should resolve to the enclosing function declaration")
	}
}
