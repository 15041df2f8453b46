// Package scope implements ScopeAnalysis: a single pre-order
// walk over the raw ast.File that resolves every name occurrence against
// internal/symtab.SymTab and flags duplicate top-level declarations. It never
// attaches a Declaration directly to a *ast.Name node — doing so would give
// the tree a back-edge into whatever declared the name, breaking the "pure
// tree" shape the rest of the pipeline assumes
// — so resolutions live in a side table, DeclTable, keyed by node identity.
package scope

import (
	"github.com/titanlang/titanc/internal/ast"
	"github.com/titanlang/titanc/internal/errors"
	"github.com/titanlang/titanc/internal/symtab"
)

// DeclTable maps each resolved *ast.Name occurrence to the Declaration it
// refers to. A Name that failed to resolve still gets an entry, pointing at
// an undeclaredSentinel, so later phases never have to nil-check a lookup
// they know scope analysis already performed.
type DeclTable struct {
	decls map[*ast.Name]ast.Declaration
}

func newDeclTable() *DeclTable {
	return &DeclTable{decls: make(map[*ast.Name]ast.Declaration)}
}

// Lookup returns the Declaration resolved for n, if scope analysis has run.
func (t *DeclTable) Lookup(n *ast.Name) (ast.Declaration, bool) {
	d, ok := t.decls[n]
	return d, ok
}

func (t *DeclTable) set(n *ast.Name, d ast.Declaration) { t.decls[n] = d }

// undeclaredSentinel stands in for the Declaration of a name that failed to
// resolve, so downstream phases see a typed-enough node instead of nil.
type undeclaredSentinel struct {
	name string
	loc ast.Location
}

func (u *undeclaredSentinel) Loc() ast.Location { return u.loc }
func (u *undeclaredSentinel) DeclaredName() string { return u.name }

// IsUndeclared reports whether d is the sentinel scope analysis attaches to
// an unresolved name, so the checker can skip a secondary diagnostic on it.
func IsUndeclared(d ast.Declaration) bool {
	_, ok := d.(*undeclaredSentinel)
	return ok
}

// Analyze runs ScopeAnalysis over file and returns the resolved DeclTable
// together with every diagnostic raised along the way. It never halts on the
// first error — walk is unconditional.
func Analyze(file *ast.File) (*DeclTable, errors.List) {
	a := &analyzer{
		sym: symtab.New(),
		decls: newDeclTable(),
		records: make(map[string]*ast.RecordDecl),
	}
	a.run(file)
	return a.decls, a.errs
}

type analyzer struct {
	sym *symtab.SymTab
	decls *DeclTable
	errs errors.List
	records map[string]*ast.RecordDecl
}

func (a *analyzer) run(file *ast.File) {
	// Declare every top-level name before checking any body, so two
	// functions can call each other regardless of source order.
	for _, tl := range file.TopLevel {
		a.declareTopLevel(tl)
	}
	for _, tl := range file.TopLevel {
		switch d := tl.(type) {
		case *ast.FuncDecl:
			a.analyzeFunc(d)
		case *ast.VarDecl:
			if d.Value != nil {
				a.analyzeExp(d.Value)
			}
		}
	}
}

func (a *analyzer) declareTopLevel(tl ast.TopLevel) {
	switch d := tl.(type) {
	case *ast.FuncDecl:
		if !a.sym.AddSymbol(d.Name, d) {
			d.Ignored = true
			a.duplicate(d.Name, d.Location)
		}
	case *ast.VarDecl:
		if !a.sym.AddSymbol(d.Decl.Name, d) {
			d.Ignored = true
			a.duplicate(d.Decl.Name, d.Location)
		}
	case *ast.RecordDecl:
		if _, dup := a.records[d.Name]; dup {
			d.Ignored = true
			a.errs.Add(errors.New(errors.NameError, d.Location, "duplicate record declaration for %s", d.Name))
			return
		}
		a.records[d.Name] = d
	case *ast.ImportDecl:
		// Introduces no name into the value namespace; the checker rejects
		// it outright.
	}
}

func (a *analyzer) duplicate(name string, loc ast.Location) {
	a.errs.Add(errors.New(errors.NameError, loc, "duplicate function or variable declaration for %s", name))
}

func (a *analyzer) analyzeFunc(fn *ast.FuncDecl) {
	a.sym.WithBlock(func() {
		a.sym.AddSymbol(symtab.FunctionSentinel, fn)
		for _, p := range fn.Params {
			if !a.sym.AddSymbol(p.Name, p) {
				a.duplicate(p.Name, p.Location)
			}
		}
		a.analyzeBlock(fn.Block)
	})
}

func (a *analyzer) analyzeBlock(b *ast.Block) {
	a.sym.WithBlock(func() {
		for _, s := range b.Stats {
			a.analyzeStat(s)
		}
	})
}

func (a *analyzer) analyzeStat(s ast.Stat) {
	switch st := s.(type) {
	case *ast.While:
		a.analyzeExp(st.Cond)
		a.analyzeBlock(st.Block)
	case *ast.Repeat:
		// The until-condition can see names the body declared, so it is
		// checked inside the body's scope rather than after popping it.
		a.sym.WithBlock(func() {
			for _, inner := range st.Block.Stats {
				a.analyzeStat(inner)
			}
			a.analyzeExp(st.Cond)
		})
	case *ast.If:
		for _, arm := range st.Thens {
			a.analyzeExp(arm.Cond)
			a.analyzeBlock(arm.Block)
		}
		if st.Else != nil {
			a.analyzeBlock(st.Else)
		}
	case *ast.For:
		a.analyzeExp(st.Start)
		a.analyzeExp(st.Finish)
		if st.Step != nil {
			a.analyzeExp(st.Step)
		}
		a.sym.WithBlock(func() {
			a.sym.AddSymbol(st.Decl.Name, st.Decl)
			for _, inner := range st.Block.Stats {
				a.analyzeStat(inner)
			}
		})
	case *ast.Assign:
		a.analyzeExp(st.Target)
		a.analyzeExp(st.Value)
	case *ast.DeclStat:
		if st.Value != nil {
			a.analyzeExp(st.Value)
		}
		if !a.sym.AddSymbol(st.Decl.Name, st.Decl) {
			a.duplicate(st.Decl.Name, st.Decl.Location)
		}
	case *ast.CallStat:
		a.analyzeExp(st.Call)
	case *ast.Return:
		if st.Value != nil {
			a.analyzeExp(st.Value)
		}
	}
}

func (a *analyzer) analyzeExp(e ast.Exp) {
	switch ex := e.(type) {
	case *ast.Name:
		if d, ok := a.sym.FindSymbol(ex.Ident); ok {
			a.decls.set(ex, d)
			return
		}
		a.errs.Add(errors.New(errors.NameError, ex.Location, "variable %s not declared", ex.Ident))
		a.decls.set(ex, &undeclaredSentinel{name: ex.Ident, loc: ex.Location})
	case *ast.Bracket:
		a.analyzeExp(ex.Exp)
		a.analyzeExp(ex.Index)
	case *ast.Dot:
		// Field names resolve against the record's type, which only the
		// checker knows; scope analysis only walks the base expression.
		a.analyzeExp(ex.Exp)
	case *ast.Unop:
		a.analyzeExp(ex.Exp)
	case *ast.Binop:
		a.analyzeExp(ex.Lhs)
		a.analyzeExp(ex.Rhs)
	case *ast.Call:
		a.analyzeExp(ex.Exp)
		for _, arg := range ex.Args {
			a.analyzeExp(arg)
		}
	case *ast.Initlist:
		for _, el := range ex.Exps {
			a.analyzeExp(el)
		}
	case *ast.Concat:
		for _, el := range ex.Exps {
			a.analyzeExp(el)
		}
	case *ast.Cast:
		a.analyzeExp(ex.Exp)
	}
}
