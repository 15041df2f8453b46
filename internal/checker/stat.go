package checker

import (
	"github.com/titanlang/titanc/internal/ast"
	"github.com/titanlang/titanc/internal/errors"
	"github.com/titanlang/titanc/internal/types"
)

// checkBlock checks every statement in b and reports whether the block
// definitely returns: true as soon as any statement in the sequence does,
// since control can never reach past an unconditional return.
func (ctx *Context) checkBlock(b *ast.Block, retType types.Type) bool {
	returns := false
	for _, s := range b.Stats {
		if ctx.checkStat(s, retType) {
			returns = true
		}
	}
	return returns
}

func (ctx *Context) checkStat(s ast.Stat, retType types.Type) bool {
	switch st := s.(type) {
	case *ast.While:
		ctx.checkExpr(st.Cond, types.Boolean{})
		ctx.checkBlock(st.Block, retType)
		return false
	case *ast.Repeat:
		ctx.checkBlock(st.Block, retType)
		ctx.checkExpr(st.Cond, types.Boolean{})
		return false
	case *ast.If:
		return ctx.checkIf(st, retType)
	case *ast.For:
		return ctx.checkFor(st, retType)
	case *ast.Assign:
		return ctx.checkAssign(st)
	case *ast.DeclStat:
		return ctx.checkDeclStat(st)
	case *ast.CallStat:
		ctx.checkExpr(st.Call, nil)
		return false
	case *ast.Return:
		return ctx.checkReturn(st, retType)
	default:
		return false
	}
}

func (ctx *Context) checkIf(st *ast.If, retType types.Type) bool {
	allReturn := true
	for _, arm := range st.Thens {
		ctx.checkExpr(arm.Cond, types.Boolean{})
		if !ctx.checkBlock(arm.Block, retType) {
			allReturn = false
		}
	}
	if st.Else == nil {
		// Without an else, at least one path falls through unconditionally.
		return false
	}
	if !ctx.checkBlock(st.Else, retType) {
		allReturn = false
	}
	return allReturn
}

func (ctx *Context) checkFor(st *ast.For, retType types.Type) bool {
	st.Decl.Type = ctx.resolveTypeExpr(st.Decl.TypeExpr)
	if !types.IsNumeric(st.Decl.Type) && !types.IsUnknown(st.Decl.Type) {
		ctx.errorf(st.Decl.Location, errors.TypeError,
		"for loop control variable must be integer or float, got %s", st.Decl.Type.String())
	}

	names := []string{"start", "finish", "step"}
	for i, exp := range []ast.Exp{st.Start, st.Finish, st.Step} {
		if exp == nil {
			continue
		}
		bt := ctx.checkExpr(exp, st.Decl.Type)
		if !types.IsUnknown(st.Decl.Type) && !bt.Equals(st.Decl.Type) && !types.IsUnknown(bt) {
			ctx.errorf(exp.Loc(), errors.TypeError,
			"for loop %s expression: expected %s, got %s", names[i], st.Decl.Type.String(), bt.String())
		}
	}

	// A for loop may iterate zero times, so it never definitely returns.
	ctx.checkBlock(st.Block, retType)
	return false
}

func (ctx *Context) checkAssign(st *ast.Assign) bool {
	targetType := ctx.checkExpr(st.Target, nil)
	valType := ctx.checkExpr(st.Value, targetType)
	if !targetType.Equals(valType) && !types.IsUnknown(targetType) && !types.IsUnknown(valType) {
		ctx.errorf(st.Location, errors.TypeError, "cannot assign a value of type %s to a variable of type %s", valType.String(), targetType.String())
	}
	return false
}

func (ctx *Context) checkDeclStat(st *ast.DeclStat) bool {
	var declared types.Type
	if st.Decl.TypeExpr != nil {
		declared = ctx.resolveTypeExpr(st.Decl.TypeExpr)
	}

	if st.Value == nil {
		if declared == nil {
			ctx.errorf(st.Location, errors.TypeError, "local %s needs either a type annotation or an initializer", st.Decl.Name)
			declared = types.Unknown{}
		}
		st.Decl.Type = declared
		return false
	}

	valType := ctx.checkExpr(st.Value, declared)
	if declared == nil {
		declared = valType
	} else if !declared.Equals(valType) && !types.IsUnknown(valType) {
		ctx.errorf(st.Location, errors.TypeError, "cannot initialize %s (declared %s) with a value of type %s", st.Decl.Name, declared.String(), valType.String())
	}
	st.Decl.Type = declared
	return false
}

func (ctx *Context) checkReturn(st *ast.Return, retType types.Type) bool {
	if st.Value == nil {
		if !retType.Equals(types.Nil{}) {
			ctx.errorf(st.Location, errors.TypeError, "function declared to return %s but this return has no value", retType.String())
		}
		return true
	}
	valType := ctx.checkExpr(st.Value, retType)
	if !valType.Equals(retType) && !types.IsUnknown(valType) {
		ctx.errorf(st.Location, errors.TypeError, "function declared to return %s but this return yields %s", retType.String(), valType.String())
	}
	return true
}
