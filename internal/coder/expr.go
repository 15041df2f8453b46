package coder

import (
	"fmt"

	"github.com/titanlang/titanc/internal/ast"
	"github.com/titanlang/titanc/internal/types"
)

// Value is the result of emitting an expression: a prelude of C statements
// that must run before rvalue is used, and rvalue itself — side-effect-free
// C text (a constant, a variable name, or a simple read macro) so the
// caller may reference it more than once without reordering side effects.
type Value struct {
	Prelude *Frag
	RValue string
}

func val(rvalue string) Value { return Value{RValue: rvalue} }

// EmitExpr emits e, returning its prelude and rvalue.
func (c *Ctx) EmitExpr(e ast.Exp) Value {
	switch ex := e.(type) {
	case *ast.NilLit:
		return val("0")
	case *ast.BoolLit:
		if ex.Value {
			return val("1")
		}
		return val("0")
	case *ast.IntLit:
		return val(fmt.Sprintf("%d", ex.Value))
	case *ast.FloatLit:
		return val(fmt.Sprintf("%g", ex.Value))
	case *ast.StringLit:
		c.notImplemented(ex.Location, "string literals")
		return val("NULL")
	case *ast.Name:
		return c.emitName(ex)
	case *ast.Bracket:
		return c.emitBracket(ex)
	case *ast.Dot:
		c.notImplemented(ex.Location, "record field access")
		return val("0")
	case *ast.Unop:
		return c.emitUnop(ex)
	case *ast.Binop:
		return c.emitBinop(ex)
	case *ast.Call:
		return c.emitCall(ex)
	case *ast.Initlist:
		return c.emitInitlist(ex)
	case *ast.Concat:
		c.notImplemented(ex.Location, "string concatenation")
		return val("NULL")
	case *ast.Cast:
		return c.emitCast(ex)
	default:
		return val("0")
	}
}

// LValue describes where an assignment target lives: a plain C variable
// (locals, parameters) or a slot address into the globals table. The coder
// never conflates the two — slot writes must go through the host's
// tagged-assignment macro.
type LValue struct {
	IsSlot bool
	Index int // valid when IsSlot
	Type types.Type // valid when IsSlot
	CVar string // valid when !IsSlot
}

func (c *Ctx) emitLValue(e ast.Exp) LValue {
	switch ex := e.(type) {
	case *ast.Name:
		d, _ := c.Decls.Lookup(ex)
		switch decl := d.(type) {
		case *ast.VarDecl:
			return LValue{IsSlot: true, Index: decl.GlobalIndex, Type: decl.Decl.Type}
		case *ast.FuncDecl:
			return LValue{IsSlot: true, Index: decl.GlobalIndex, Type: decl.Type}
		case *ast.Decl:
			return LValue{CVar: c.LocalName(decl.Name)}
		default:
			return LValue{CVar: "0 /* unresolved */"}
		}
	case *ast.Dot:
		c.notImplemented(ex.Loc(), "assignment through a record field")
		return LValue{CVar: "0"}
	default:
		return LValue{CVar: "0"}
	}
}

func (c *Ctx) emitName(n *ast.Name) Value {
	d, _ := c.Decls.Lookup(n)
	switch decl := d.(type) {
	case *ast.VarDecl:
		return val(fmt.Sprintf("%s(globals, %d)", globalGetter(decl.Decl.Type), decl.GlobalIndex))
	case *ast.FuncDecl:
		// A function name outside call position is a first-class function
		// value.
		c.notImplemented(n.Location, "first-class function values")
		return val("0")
	case *ast.Decl:
		return val(c.LocalName(decl.Name))
	default:
		return val("0 /* unresolved */")
	}
}

// globalGetter picks the globals-table accessor matching t's C
// representation — the table stores tagged Lua values (TValue), so reading
// one back needs the accessor for its actual tag.
func globalGetter(t types.Type) string {
	switch t.(type) {
	case types.Float:
		return "titan_global_get_float"
	case types.Boolean, types.Nil:
		return "titan_global_get_bool"
	case types.String:
		return "titan_global_get_string"
	case types.Array:
		return "titan_global_get_table"
	default:
		return "titan_global_get_int"
	}
}

func globalSetter(t types.Type) string {
	switch t.(type) {
	case types.Float:
		return "titan_global_set_float"
	case types.Boolean, types.Nil:
		return "titan_global_set_bool"
	case types.String:
		return "titan_global_set_string"
	case types.Array:
		return "titan_global_set_table"
	default:
		return "titan_global_set_int"
	}
}

func (c *Ctx) emitBracket(b *ast.Bracket) Value {
	base := c.EmitExpr(b.Exp)
	idx := c.EmitExpr(b.Index)
	getter, ok := tableGetter(b.GetType())
	if !ok {
		c.notImplemented(b.Location, fmt.Sprintf("arrays with element type %s", b.GetType().String()))
		return val("0")
	}
	tmp := c.Tmp()
	prelude := mergePreludes(base.Prelude, idx.Prelude)
	prelude = appendStmt(prelude, fmt.Sprintf("%s %s = %s(%s, %s);\n",
	CType(b.GetType()), tmp, getter, base.RValue, idx.RValue))
	return Value{Prelude: prelude, RValue: tmp}
}

func (c *Ctx) emitUnop(u *ast.Unop) Value {
	operand := c.EmitExpr(u.Exp)
	switch u.Op {
	case "not":
		return Value{Prelude: operand.Prelude, RValue: fmt.Sprintf("(!(%s))", operand.RValue)}
	case "-":
		if u.GetType().Equals(types.Float{}) {
			return Value{Prelude: operand.Prelude, RValue: fmt.Sprintf("(-(%s))", operand.RValue)}
		}
		return Value{Prelude: operand.Prelude, RValue: fmt.Sprintf("intop(-, 0, %s)", operand.RValue)}
	case "~":
		return Value{Prelude: operand.Prelude, RValue: fmt.Sprintf("intop(^, -1, %s)", operand.RValue)}
	case "#":
		return Value{Prelude: operand.Prelude, RValue: fmt.Sprintf("titan_table_length(%s)", operand.RValue)}
	default:
		return Value{Prelude: operand.Prelude, RValue: "0"}
	}
}

// cOperators maps the comparison operators, which the coder emits directly
// as C infix operators, onto their C spelling. Integer +, -, * and the
// bitwise operators route through intop instead (intOperators), for
// explicit two's-complement wraparound; // and % go through luaV_div and
// luaV_mod.
var cOperators = map[string]string{
	"<": "<", ">": ">", "<=": "<=", ">=": ">=", "==": "==", "!=": "!=",
}

// intOperators are the integer operators emitted through the host's intop
// wraparound macro.
var intOperators = map[string]string{
	"+": "+", "-": "-", "*": "*", "&": "&", "|": "|", "~": "^", "<<": "<<", ">>": ">>",
}

func (c *Ctx) emitBinop(b *ast.Binop) Value {
	if b.Op == "and" || b.Op == "or" {
		return c.emitShortCircuit(b)
	}

	lhs := c.EmitExpr(b.Lhs)
	rhs := c.EmitExpr(b.Rhs)
	prelude := mergePreludes(lhs.Prelude, rhs.Prelude)

	switch b.Op {
	case "+", "-", "*":
		if b.GetType().Equals(types.Integer{}) {
			return Value{Prelude: prelude, RValue: fmt.Sprintf("intop(%s, %s, %s)", b.Op, lhs.RValue, rhs.RValue)}
		}
		return Value{Prelude: prelude, RValue: fmt.Sprintf("(%s %s %s)", lhs.RValue, b.Op, rhs.RValue)}
	case "/":
		return Value{Prelude: prelude, RValue: fmt.Sprintf("((lua_Number)(%s) / (lua_Number)(%s))", lhs.RValue, rhs.RValue)}
	case "^":
		return Value{Prelude: prelude, RValue: fmt.Sprintf("pow((lua_Number)(%s), (lua_Number)(%s))", lhs.RValue, rhs.RValue)}
	case "//":
		// Lua's floor division disagrees with C's truncating division on
		// negative operands, so it goes through the host's helper.
		return Value{Prelude: prelude, RValue: fmt.Sprintf("luaV_div(L, %s, %s)", lhs.RValue, rhs.RValue)}
	case "%":
		return Value{Prelude: prelude, RValue: fmt.Sprintf("luaV_mod(L, %s, %s)", lhs.RValue, rhs.RValue)}
	default:
		if op, ok := intOperators[b.Op]; ok {
			return Value{Prelude: prelude, RValue: fmt.Sprintf("intop(%s, %s, %s)", op, lhs.RValue, rhs.RValue)}
		}
		if op, ok := cOperators[b.Op]; ok {
			return Value{Prelude: prelude, RValue: fmt.Sprintf("(%s %s %s)", lhs.RValue, op, rhs.RValue)}
		}
		c.notImplemented(b.Location, fmt.Sprintf("operator %q", b.Op))
		return Value{Prelude: prelude, RValue: "0"}
	}
}

// emitShortCircuit lowers "and"/"or" into a temporary whose assignment
// preserves the host's value-keeping semantics: "a and b" yields a when a
// is falsy, else b; "or" mirrors that. The left side's prelude always runs;
// the right side's prelude runs only inside the branch that evaluates it,
// so evaluation order matches the source.
func (c *Ctx) emitShortCircuit(b *ast.Binop) Value {
	lhs := c.EmitExpr(b.Lhs)
	rhs := c.EmitExpr(b.Rhs)

	// The temporary carries the operands' shared C representation when the
	// two sides agree, falling back to int (the truth-value representation)
	// when they don't.
	ctype := "int"
	if lt, rt := expType(b.Lhs), expType(b.Rhs); lt != nil && rt != nil && lt.Equals(rt) {
		ctype = CType(lt)
	}

	test := fmt.Sprintf("if (%s) {\n", lhs.RValue)
	if b.Op == "and" {
		test = fmt.Sprintf("if (!(%s)) {\n", lhs.RValue)
	}

	tmp := c.Tmp()
	prelude := lhs.Prelude
	prelude = appendStmt(prelude, fmt.Sprintf("%s %s;\n", ctype, tmp))
	prelude = appendStmt(prelude, test)
	prelude = appendStmt(prelude, fmt.Sprintf("%s = %s;\n", tmp, lhs.RValue))
	prelude = appendStmt(prelude, "} else {\n")
	prelude = mergePreludes(prelude, rhs.Prelude)
	prelude = appendStmt(prelude, fmt.Sprintf("%s = %s;\n", tmp, rhs.RValue))
	prelude = appendStmt(prelude, "}\n")
	return Value{Prelude: prelude, RValue: tmp}
}

func expType(e ast.Exp) types.Type {
	if t, ok := e.(ast.Typed); ok {
		return t.GetType()
	}
	return nil
}

func (c *Ctx) emitCall(call *ast.Call) Value {
	name, ok := call.Exp.(*ast.Name)
	if !ok {
		c.notImplemented(call.Location, "indirect function calls")
		return val("0")
	}
	d, _ := c.Decls.Lookup(name)
	fn, ok := d.(*ast.FuncDecl)
	if !ok {
		return val("0")
	}

	var prelude *Frag
	args := make([]string, len(call.Args))
	for i, a := range call.Args {
		v := c.EmitExpr(a)
		prelude = mergePreludes(prelude, v.Prelude)
		args[i] = v.RValue
	}

	argList := "L"
	for _, a := range args {
		argList += ", " + a
	}
	// A call has side effects, so a call with a return value lands in a
	// temporary and the rvalue is just that temporary's name; a call with no
	// return value yields the bare call text.
	ret := "void"
	if len(fn.Type.Returns) > 0 {
		ret = CType(fn.Type.Returns[0])
	}
	callText := fmt.Sprintf("%s(%s)", c.TitanEntryPoint(fn.Name), argList)
	if ret == "void" {
		return Value{Prelude: prelude, RValue: callText}
	}
	tmp := c.Tmp()
	prelude = appendStmt(prelude, fmt.Sprintf("%s %s = %s;\n", ret, tmp, callText))
	return Value{Prelude: prelude, RValue: tmp}
}

func (c *Ctx) emitInitlist(lit *ast.Initlist) Value {
	arr, ok := lit.GetType().(types.Array)
	if !ok {
		return val("NULL")
	}
	setter, ok := tableSetter(arr.Elem)
	if !ok {
		c.notImplemented(lit.Location, fmt.Sprintf("arrays with element type %s", arr.Elem.String()))
		return val("NULL")
	}
	tmp := c.Tmp()
	var prelude *Frag
	prelude = appendStmt(prelude, fmt.Sprintf("Table *%s = titan_table_new(L, %d);\n", tmp, len(lit.Exps)))
	// Element slots are 1-based, like every host-language array.
	for i, e := range lit.Exps {
		v := c.EmitExpr(e)
		prelude = mergePreludes(prelude, v.Prelude)
		prelude = appendStmt(prelude, fmt.Sprintf("%s(L, %s, %d, %s);\n", setter, tmp, i+1, v.RValue))
	}
	return Value{Prelude: prelude, RValue: tmp}
}

func (c *Ctx) emitCast(cast *ast.Cast) Value {
	src := c.EmitExpr(cast.Exp)
	target := cast.GetType()
	if target.Equals(types.Float{}) {
		return Value{Prelude: src.Prelude, RValue: fmt.Sprintf("((lua_Number)(%s))", src.RValue)}
	}
	return src
}

func mergePreludes(a, b *Frag) *Frag {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return Group("prelude", a, b)
}

func appendStmt(prelude *Frag, stmt string) *Frag {
	return mergePreludes(prelude, Leaf(stmt))
}
