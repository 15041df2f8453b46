package checker

import (
	"github.com/titanlang/titanc/internal/ast"
	"github.com/titanlang/titanc/internal/errors"
	"github.com/titanlang/titanc/internal/scope"
)

// Check runs both checker passes over file using decls (ScopeAnalysis's name
// resolution table) and returns every diagnostic raised. Code generation
// must only proceed when the returned list is empty.
func Check(file *ast.File, decls *scope.DeclTable) errors.List {
	ctx := NewContext(decls)
	mgr := NewManager(collectPass{}, checkPass{})
	_ = mgr.RunAll(file, ctx) // both passes are infallible; error is always nil
	return ctx.Errs
}
