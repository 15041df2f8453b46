package checker

import (
	"github.com/titanlang/titanc/internal/ast"
	"github.com/titanlang/titanc/internal/errors"
	"github.com/titanlang/titanc/internal/scope"
	"github.com/titanlang/titanc/internal/types"
)

// checkExpr computes and annotates e's type. expected carries the context
// type the caller wants, if any — used only for context-sensitive
// coalescing (an empty array initializer's element type); everywhere else
// it is informational and does not change e's computed type.
func (ctx *Context) checkExpr(e ast.Exp, expected types.Type) types.Type {
	switch ex := e.(type) {
	case *ast.NilLit:
		return ctx.set(ex, types.Nil{})
	case *ast.BoolLit:
		return ctx.set(ex, types.Boolean{})
	case *ast.IntLit:
		return ctx.set(ex, types.Integer{})
	case *ast.FloatLit:
		return ctx.set(ex, types.Float{})
	case *ast.StringLit:
		return ctx.set(ex, types.String{})
	case *ast.Name:
		return ctx.checkName(ex)
	case *ast.Bracket:
		return ctx.checkBracket(ex)
	case *ast.Dot:
		return ctx.checkDot(ex)
	case *ast.Unop:
		return ctx.checkUnop(ex)
	case *ast.Binop:
		return ctx.checkBinop(ex)
	case *ast.Call:
		return ctx.checkCall(ex)
	case *ast.Initlist:
		return ctx.checkInitlist(ex, expected)
	case *ast.Concat:
		return ctx.checkConcat(ex)
	case *ast.Cast:
		return ctx.checkCast(ex)
	default:
		return types.Unknown{}
	}
}

func (ctx *Context) set(e ast.Typed, t types.Type) types.Type {
	e.SetType(t)
	return t
}

func (ctx *Context) checkName(n *ast.Name) types.Type {
	d, ok := ctx.Decls.Lookup(n)
	if !ok {
		// ScopeAnalysis visits every Name of the tree it is given; absence
		// here means this Name was not in that tree when scope analysis ran,
		// rather than a real lookup miss.
		return ctx.set(n, types.Unknown{})
	}
	return ctx.set(n, declType(d))
}

func (ctx *Context) checkBracket(b *ast.Bracket) types.Type {
	base := ctx.checkExpr(b.Exp, nil)
	idx := ctx.checkExpr(b.Index, types.Integer{})
	if !idx.Equals(types.Integer{}) && !types.IsUnknown(idx) {
		ctx.errorf(b.Index.Loc(), errors.TypeError, "array index must be an integer, got %s", idx.String())
	}

	arr, ok := base.(types.Array)
	if !ok {
		if !types.IsUnknown(base) {
			ctx.errorf(b.Location, errors.TypeError, "cannot index a value of type %s", base.String())
		}
		return ctx.set(b, types.Unknown{})
	}
	return ctx.set(b, arr.Elem)
}

func (ctx *Context) checkDot(d *ast.Dot) types.Type {
	base := ctx.checkExpr(d.Exp, nil)

	rec, ok := base.(types.Record)
	if !ok {
		if !types.IsUnknown(base) {
			ctx.errorf(d.Location, errors.TypeError, "cannot access field %s on a value of type %s", d.Field, base.String())
		}
		return ctx.set(d, types.Unknown{})
	}
	ft, ok := rec.FieldType(d.Field)
	if !ok {
		ctx.errorf(d.Location, errors.TypeError, "record %s has no field %s", rec.Name, d.Field)
		return ctx.set(d, types.Unknown{})
	}
	return ctx.set(d, ft)
}

func (ctx *Context) checkUnop(u *ast.Unop) types.Type {
	operand := ctx.checkExpr(u.Exp, nil)
	switch u.Op {
	case "not":
		return ctx.set(u, types.Boolean{})
	case "-":
		if !types.IsNumeric(operand) {
			if !types.IsUnknown(operand) {
				ctx.errorf(u.Location, errors.TypeError, "unary '-' requires a numeric operand, got %s", operand.String())
			}
			return ctx.set(u, types.Unknown{})
		}
		return ctx.set(u, operand)
	case "~":
		if !operand.Equals(types.Integer{}) {
			if !types.IsUnknown(operand) {
				ctx.errorf(u.Location, errors.TypeError, "unary '~' requires an integer operand, got %s", operand.String())
			}
			return ctx.set(u, types.Unknown{})
		}
		return ctx.set(u, types.Integer{})
	case "#":
		if _, ok := operand.(types.Array); !ok {
			if !types.IsUnknown(operand) {
				ctx.errorf(u.Location, errors.TypeError, "'#' requires an array operand, got %s", operand.String())
			}
			return ctx.set(u, types.Unknown{})
		}
		return ctx.set(u, types.Integer{})
	default:
		return ctx.set(u, types.Unknown{})
	}
}

func (ctx *Context) checkBinop(b *ast.Binop) types.Type {
	lhs := ctx.checkExpr(b.Lhs, nil)
	rhs := ctx.checkExpr(b.Rhs, nil)

	switch b.Op {
	case "+", "-", "*":
		return ctx.arith(b, lhs, rhs)
	case "/", "^":
		return ctx.arithFloat(b, lhs, rhs)
	case "%", "//", "~", "|", "&", "<<", ">>":
		return ctx.arithInt(b, lhs, rhs)
	case "<", ">", "<=", ">=":
		return ctx.relational(b, lhs, rhs)
	case "==", "!=":
		return ctx.equality(b, lhs, rhs)
	case "and", "or":
		// Static type is always Boolean; the coder still emits the host's
		// value-preserving short-circuit evaluation at runtime.
		return ctx.set(b, types.Boolean{})
	default:
		return ctx.set(b, types.Unknown{})
	}
}

func (ctx *Context) arith(b *ast.Binop, lhs, rhs types.Type) types.Type {
	if !types.IsNumeric(lhs) || !types.IsNumeric(rhs) {
		ctx.reportBinopError(b, lhs, rhs, "numeric")
		return ctx.set(b, types.Unknown{})
	}
	if lhs.Equals(types.Float{}) || rhs.Equals(types.Float{}) {
		return ctx.set(b, types.Float{})
	}
	return ctx.set(b, types.Integer{})
}

func (ctx *Context) arithFloat(b *ast.Binop, lhs, rhs types.Type) types.Type {
	if !types.IsNumeric(lhs) || !types.IsNumeric(rhs) {
		ctx.reportBinopError(b, lhs, rhs, "numeric")
		return ctx.set(b, types.Unknown{})
	}
	return ctx.set(b, types.Float{})
}

func (ctx *Context) arithInt(b *ast.Binop, lhs, rhs types.Type) types.Type {
	if !lhs.Equals(types.Integer{}) || !rhs.Equals(types.Integer{}) {
		ctx.reportBinopError(b, lhs, rhs, "integer")
		return ctx.set(b, types.Unknown{})
	}
	return ctx.set(b, types.Integer{})
}

func (ctx *Context) relational(b *ast.Binop, lhs, rhs types.Type) types.Type {
	bothNumeric := types.IsNumeric(lhs) && types.IsNumeric(rhs)
	bothString := lhs.Equals(types.String{}) && rhs.Equals(types.String{})
	if !bothNumeric && !bothString {
		ctx.reportBinopError(b, lhs, rhs, "numeric or string")
	}
	return ctx.set(b, types.Boolean{})
}

func (ctx *Context) equality(b *ast.Binop, lhs, rhs types.Type) types.Type {
	if !lhs.Equals(rhs) && !types.IsUnknown(lhs) && !types.IsUnknown(rhs) {
		ctx.errorf(b.Location, errors.TypeError, "cannot compare %s with %s", lhs.String(), rhs.String())
	}
	return ctx.set(b, types.Boolean{})
}

func (ctx *Context) reportBinopError(b *ast.Binop, lhs, rhs types.Type, want string) {
	if types.IsUnknown(lhs) || types.IsUnknown(rhs) {
		return
	}
	ctx.errorf(b.Location, errors.TypeError, "operator %q requires %s operands, got %s and %s", b.Op, want, lhs.String(), rhs.String())
}

func (ctx *Context) checkCall(c *ast.Call) types.Type {
	name, ok := c.Exp.(*ast.Name)
	if !ok {
		ctx.errorf(c.Location, errors.NotImplemented, "indirect or first-class function calls are not supported")
		for _, a := range c.Args {
			ctx.checkExpr(a, nil)
		}
		return ctx.set(c, types.Unknown{})
	}

	d, found := ctx.Decls.Lookup(name)
	if !found {
		for _, a := range c.Args {
			ctx.checkExpr(a, nil)
		}
		return ctx.set(c, types.Unknown{})
	}

	fn, ok := d.(*ast.FuncDecl)
	if !ok {
		switch {
		case scope.IsUndeclared(d):
			// Already reported by scope analysis.
		case types.HasTag(declType(d), "function"):
			// A function-typed local or parameter: a first-class value, so
			// calling it would be an indirect call.
			ctx.errorf(c.Location, errors.NotImplemented, "indirect or first-class function calls are not supported")
		default:
			ctx.errorf(c.Location, errors.TypeError, "%s is not a function", name.Ident)
		}
		for _, a := range c.Args {
			ctx.checkExpr(a, nil)
		}
		return ctx.set(c, types.Unknown{})
	}
	name.SetType(fn.Type)

	sig := fn.Type
	if len(c.Args) != len(sig.Params) {
		ctx.errorf(c.Location, errors.TypeError, "%s expects %d argument(s), got %d", name.Ident, len(sig.Params), len(c.Args))
	}
	for i, a := range c.Args {
		var expected types.Type
		if i < len(sig.Params) {
			expected = sig.Params[i]
		}
		at := ctx.checkExpr(a, expected)
		if expected != nil && !at.Equals(expected) && !types.IsUnknown(at) {
			ctx.errorf(a.Loc(), errors.TypeError, "argument %d to %s: expected %s, got %s", i+1, name.Ident, expected.String(), at.String())
		}
	}

	var result types.Type = types.Nil{}
	if len(sig.Returns) > 0 {
		result = sig.Returns[0]
	}
	return ctx.set(c, result)
}

func (ctx *Context) checkInitlist(lit *ast.Initlist, expected types.Type) types.Type {
	var elemExpected types.Type
	if arr, ok := expected.(types.Array); ok {
		elemExpected = arr.Elem
	}

	if len(lit.Exps) == 0 {
		if elemExpected == nil {
			ctx.errorf(lit.Location, errors.TypeError, "cannot infer the element type of an empty array initializer without context")
			return ctx.set(lit, types.Unknown{})
		}
		return ctx.set(lit, types.Array{Elem: elemExpected})
	}

	elem := elemExpected
	first := ctx.checkExpr(lit.Exps[0], elemExpected)
	if elem == nil {
		elem = first
	}
	for _, e := range lit.Exps[1:] {
		et := ctx.checkExpr(e, elem)
		if !et.Equals(elem) && !types.IsUnknown(et) {
			ctx.errorf(e.Loc(), errors.TypeError, "array initializer element type mismatch: expected %s, got %s", elem.String(), et.String())
		}
	}
	return ctx.set(lit, types.Array{Elem: elem})
}

func (ctx *Context) checkConcat(cc *ast.Concat) types.Type {
	hasString := false
	broken := false
	for _, el := range cc.Exps {
		et := ctx.checkExpr(el, nil)
		if et.Equals(types.String{}) {
			hasString = true
		}
		if types.IsUnknown(et) {
			broken = true
		}
	}
	if !hasString && !broken {
		ctx.errorf(cc.Location, errors.TypeError, "'..' requires at least one string operand")
	}
	return ctx.set(cc, types.String{})
}

func (ctx *Context) checkCast(c *ast.Cast) types.Type {
	src := ctx.checkExpr(c.Exp, nil)
	target := ctx.resolveTypeExpr(c.TargetType)

	switch {
	case types.IsUnknown(src):
		// Already broken; don't cascade a second diagnostic onto it.
	case src.Equals(target):
		// Same-type cast: always a no-op.
	case src.Equals(types.Integer{}) && target.Equals(types.Float{}):
		// Widening, always allowed.
	case src.Equals(types.Float{}) && target.Equals(types.Integer{}):
		ctx.errorf(c.Location, errors.NotImplemented, "float to integer casts are not implemented")
	default:
		ctx.errorf(c.Location, errors.TypeError, "cannot cast %s to %s", src.String(), target.String())
	}
	return ctx.set(c, target)
}
