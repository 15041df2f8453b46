package coder

import (
	"fmt"

	"github.com/titanlang/titanc/internal/ast"
	"github.com/titanlang/titanc/internal/types"
)

// EmitBlock emits every statement of b in order and returns the
// concatenated fragment.
func (c *Ctx) EmitBlock(b *ast.Block) *Frag {
	group := Group("block")
	for _, s := range b.Stats {
		group.Append(c.EmitStat(s))
	}
	return group
}

// EmitStat emits one statement as a self-contained fragment: its
// expressions' preludes followed by the statement's own effect. Unlike
// EmitExpr, a statement has no rvalue for a caller to consume.
func (c *Ctx) EmitStat(s ast.Stat) *Frag {
	switch st := s.(type) {
	case *ast.DeclStat:
		return c.emitDeclStat(st)
	case *ast.Assign:
		return c.emitAssign(st)
	case *ast.CallStat:
		v := c.EmitExpr(st.Call)
		return appendStmt(v.Prelude, fmt.Sprintf("(void)(%s);\n", v.RValue))
	case *ast.Return:
		return c.emitReturn(st)
	case *ast.If:
		return c.emitIf(st)
	case *ast.While:
		return c.emitWhile(st)
	case *ast.Repeat:
		return c.emitRepeat(st)
	case *ast.For:
		return c.emitFor(st)
	default:
		return Leaf("")
	}
}

func (c *Ctx) emitDeclStat(st *ast.DeclStat) *Frag {
	cvar := c.LocalName(st.Decl.Name)
	ctype := CType(st.Decl.Type)
	if st.Value == nil {
		return Leaf(fmt.Sprintf("%s %s = %s;\n", ctype, cvar, ZeroValue(st.Decl.Type)))
	}
	v := c.EmitExpr(st.Value)
	return appendStmt(v.Prelude, fmt.Sprintf("%s %s = %s;\n", ctype, cvar, v.RValue))
}

func (c *Ctx) emitAssign(st *ast.Assign) *Frag {
	if br, ok := st.Target.(*ast.Bracket); ok {
		return c.emitBracketAssign(br, st.Value)
	}
	v := c.EmitExpr(st.Value)
	lv := c.emitLValue(st.Target)
	frag := v.Prelude
	if lv.IsSlot {
		// Slot writes go through the tagged-assignment helpers, never plain
		// C assignment.
		return appendStmt(frag, fmt.Sprintf("%s(L, globals, %d, %s);\n", globalSetter(lv.Type), lv.Index, v.RValue))
	}
	return appendStmt(frag, fmt.Sprintf("%s = %s;\n", lv.CVar, v.RValue))
}

func (c *Ctx) emitBracketAssign(br *ast.Bracket, value ast.Exp) *Frag {
	setter, ok := tableSetter(br.GetType())
	if !ok {
		c.notImplemented(br.Location, fmt.Sprintf("arrays with element type %s", br.GetType().String()))
		return Leaf("")
	}
	base := c.EmitExpr(br.Exp)
	idx := c.EmitExpr(br.Index)
	v := c.EmitExpr(value)
	prelude := mergePreludes(mergePreludes(base.Prelude, idx.Prelude), v.Prelude)
	return appendStmt(prelude, fmt.Sprintf("%s(L, %s, %s, %s);\n", setter, base.RValue, idx.RValue, v.RValue))
}

func (c *Ctx) emitReturn(st *ast.Return) *Frag {
	if st.Value == nil {
		return Leaf("return;\n")
	}
	v := c.EmitExpr(st.Value)
	return appendStmt(v.Prelude, fmt.Sprintf("return %s;\n", v.RValue))
}

// emitIf unfolds an elseif chain into nested ifs, innermost last, so each
// arm's condition prelude runs only when every earlier condition was false.
// A flat "else if" chain could not hold the later preludes anywhere legal.
func (c *Ctx) emitIf(st *ast.If) *Frag {
	if len(st.Thens) == 0 {
		if st.Else != nil {
			return c.EmitBlock(st.Else)
		}
		return Leaf("")
	}
	return c.emitIfArm(st, 0)
}

func (c *Ctx) emitIfArm(st *ast.If, i int) *Frag {
	arm := st.Thens[i]
	cond := c.EmitExpr(arm.Cond)
	group := Group("if")
	group.Append(cond.Prelude)
	group.Append(Leaf(fmt.Sprintf("if (%s) {\n", cond.RValue)))
	group.Append(c.EmitBlock(arm.Block))
	switch {
	case i+1 < len(st.Thens):
		group.Append(Leaf("} else {\n"))
		group.Append(c.emitIfArm(st, i+1))
		group.Append(Leaf("}\n"))
	case st.Else != nil:
		group.Append(Leaf("} else {\n"))
		group.Append(c.EmitBlock(st.Else))
		group.Append(Leaf("}\n"))
	default:
		group.Append(Leaf("}\n"))
	}
	return group
}

func (c *Ctx) emitWhile(st *ast.While) *Frag {
	// The condition may itself need a prelude (e.g. a table read), which
	// can't run inside a C "while (...)" header, so the loop is lowered to
	// "for (;;) { <cond prelude>; if (!cond) break; <body> }" — the prelude
	// re-executes each iteration.
	cond := c.EmitExpr(st.Cond)
	group := Group("while")
	group.Append(Leaf("for (;;) {\n"))
	group.Append(cond.Prelude)
	group.Append(Leaf(fmt.Sprintf("if (!(%s)) break;\n", cond.RValue)))
	group.Append(c.EmitBlock(st.Block))
	group.Append(Leaf("}\n"))
	return group
}

func (c *Ctx) emitRepeat(st *ast.Repeat) *Frag {
	cond := c.EmitExpr(st.Cond)
	group := Group("repeat")
	group.Append(Leaf("for (;;) {\n"))
	group.Append(c.EmitBlock(st.Block))
	group.Append(cond.Prelude)
	group.Append(Leaf(fmt.Sprintf("if (%s) break;\n", cond.RValue)))
	group.Append(Leaf("}\n"))
	return group
}

func (c *Ctx) emitFor(st *ast.For) *Frag {
	start := c.EmitExpr(st.Start)
	finish := c.EmitExpr(st.Finish)
	var step Value
	if st.Step != nil {
		step = c.EmitExpr(st.Step)
	} else {
		step = val("1")
	}

	ctype := CType(st.Decl.Type)
	cvar := c.LocalName(st.Decl.Name)
	limit := c.Tmp()
	stepVar := c.Tmp()

	// The integer increment wraps two's-complement via intop so that
	// start+step overflow behaves like every other integer addition; the
	// float variant is plain C addition. The step's sign picks the
	// continuation test.
	inc := fmt.Sprintf("%s = intop(+, %s, %s)", cvar, cvar, stepVar)
	if types.HasTag(st.Decl.Type, "float") {
		inc = fmt.Sprintf("%s = %s + %s", cvar, cvar, stepVar)
	}

	group := Group("for")
	group.Append(start.Prelude)
	group.Append(finish.Prelude)
	group.Append(step.Prelude)
	group.Append(Leaf(fmt.Sprintf("%s %s = %s;\n", ctype, limit, finish.RValue)))
	group.Append(Leaf(fmt.Sprintf("%s %s = %s;\n", ctype, stepVar, step.RValue)))
	group.Append(Leaf(fmt.Sprintf("for (%s %s = %s; %s > 0 ? %s <= %s : %s >= %s; %s) {\n",
	ctype, cvar, start.RValue, stepVar, cvar, limit, cvar, limit, inc)))
	group.Append(c.EmitBlock(st.Block))
	group.Append(Leaf("}\n"))
	return group
}
