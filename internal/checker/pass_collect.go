package checker

import (
	"github.com/titanlang/titanc/internal/ast"
	"github.com/titanlang/titanc/internal/types"
)

// collectPass is Pass 1: walk top-level declarations only,
// computing each one's elaborated Type. No expression is checked here.
type collectPass struct{}

func (collectPass) Name() string { return "collect" }

func (collectPass) Run(file *ast.File, ctx *Context) error {
	// Register every record by name first (with an identity-bearing but
	// field-less Type) so a function or variable signature — or another
	// record's field — can reference any record regardless of declaration
	// order.
	for _, tl := range file.TopLevel {
		if r, ok := tl.(*ast.RecordDecl); ok && !r.Ignored {
			r.Type = types.Record{Name: r.Name, Decl: r}
			ctx.Records[r.Name] = r
		}
	}
	for _, tl := range file.TopLevel {
		if r, ok := tl.(*ast.RecordDecl); ok && !r.Ignored {
			ctx.resolveRecordFields(r)
		}
	}
	for _, tl := range file.TopLevel {
		switch d := tl.(type) {
		case *ast.FuncDecl:
			if d.Ignored {
				continue
			}
			ctx.resolveFuncSignature(d)
		case *ast.VarDecl:
			if d.Ignored {
				continue
			}
			d.Decl.Type = ctx.resolveTypeExpr(d.Decl.TypeExpr)
		}
	}
	return nil
}

func (ctx *Context) resolveRecordFields(r *ast.RecordDecl) {
	fields := make([]types.Field, len(r.Fields))
	for i, f := range r.Fields {
		fields[i] = types.Field{Name: f.Name, Type: ctx.resolveTypeExpr(f.Type)}
	}
	r.Type = types.Record{Name: r.Name, Fields: fields, Decl: r}
}

func (ctx *Context) resolveFuncSignature(fn *ast.FuncDecl) {
	params := make([]types.Type, len(fn.Params))
	for i, p := range fn.Params {
		p.Type = ctx.resolveTypeExpr(p.TypeExpr)
		params[i] = p.Type
	}
	returns := make([]types.Type, len(fn.ReturnTypes))
	for i, rt := range fn.ReturnTypes {
		returns[i] = ctx.resolveTypeExpr(rt)
	}
	fn.Type = types.Function{Params: params, Returns: returns}
}
