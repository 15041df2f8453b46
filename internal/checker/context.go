package checker

import (
	"github.com/titanlang/titanc/internal/ast"
	"github.com/titanlang/titanc/internal/errors"
	"github.com/titanlang/titanc/internal/scope"
	"github.com/titanlang/titanc/internal/types"
)

// Context is the state shared by both passes: the DeclTable ScopeAnalysis
// produced, the record-name table used to resolve type annotations, and the
// accumulated diagnostic list.
type Context struct {
	Decls *scope.DeclTable
	Records map[string]*ast.RecordDecl
	Errs errors.List
}

// NewContext returns an empty Context over decls (ScopeAnalysis's output).
func NewContext(decls *scope.DeclTable) *Context {
	return &Context{Decls: decls, Records: make(map[string]*ast.RecordDecl)}
}

func (c *Context) errorf(loc ast.Location, kind errors.Kind, format string, args ...interface{}) {
	c.Errs.Add(errors.New(kind, loc, format, args...))
}

// declType returns the elaborated type of any Declaration a Name can resolve
// to. Declarations ScopeAnalysis never saw a real Decl for (its undeclared
// sentinel) fall through to Unknown, matching the recovery-type policy.
func declType(d ast.Declaration) types.Type {
	switch v := d.(type) {
	case *ast.FuncDecl:
		return v.Type
	case *ast.VarDecl:
		return v.Decl.Type
	case *ast.Decl:
		return v.Type
	default:
		return types.Unknown{}
	}
}
