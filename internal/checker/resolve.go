package checker

import (
	"github.com/titanlang/titanc/internal/ast"
	"github.com/titanlang/titanc/internal/errors"
	"github.com/titanlang/titanc/internal/types"
)

// resolveTypeExpr elaborates the surface syntax of a type annotation into a
// types.Type. An unresolvable name (neither a builtin nor a declared record)
// is diagnosed and resolved to Unknown so the caller can keep checking.
func (ctx *Context) resolveTypeExpr(te ast.TypeExpr) types.Type {
	switch t := te.(type) {
	case *ast.BaseTypeExpr:
		switch t.Name {
		case "integer":
			return types.Integer{}
		case "float":
			return types.Float{}
		case "string":
			return types.String{}
		case "boolean":
			return types.Boolean{}
		case "nil":
			return types.Nil{}
		default:
			if r, ok := ctx.Records[t.Name]; ok {
				return r.Type
			}
			ctx.errorf(t.Location, errors.TypeError, "unknown type %s", t.Name)
			return types.Unknown{}
		}
	case *ast.ArrayTypeExpr:
		return types.Array{Elem: ctx.resolveTypeExpr(t.Elem)}
	case *ast.FunctionTypeExpr:
		params := make([]types.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = ctx.resolveTypeExpr(p)
		}
		returns := make([]types.Type, len(t.Returns))
		for i, r := range t.Returns {
			returns[i] = ctx.resolveTypeExpr(r)
		}
		return types.Function{Params: params, Returns: returns}
	default:
		return types.Unknown{}
	}
}
