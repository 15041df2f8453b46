package coder

import (
	"fmt"

	"github.com/titanlang/titanc/internal/ast"
	"github.com/titanlang/titanc/internal/errors"
	"github.com/titanlang/titanc/internal/types"
)

// Generate emits the full C translation unit for file and returns its
// rendered text together with any diagnostics the coder itself raised
// (reserved-feature uses the checker let through, as NotImplemented).
// c must have been built with NewCtx against the DeclTable
// ScopeAnalysis produced for file, and file must already carry the type
// annotations Check attached — Generate never re-runs either phase.
func (c *Ctx) Generate(file *ast.File) (string, errors.List) {
	return c.GenerateTree(file).Render(), c.Errs
}

// GenerateTree is Generate before rendering: the full fragment tree of the
// translation unit, so callers (and tests) can address named holes — the
// "lua-wrapper" groups in particular — without string-searching the
// rendered text.
func (c *Ctx) GenerateTree(file *ast.File) *Frag {
	c.assignGlobalIndices(file)

	var functions, initStats, tableEntries []*Frag
	funcCount := 0

	for _, tl := range file.TopLevel {
		switch d := tl.(type) {
		case *ast.FuncDecl:
			if d.Ignored {
				continue
			}
			functions = append(functions, c.emitFunction(d))
			initStats = append(initStats, Leaf(fmt.Sprintf(
			" titan_global_set_function(L, globals, %d, %s);\n", d.GlobalIndex, d.LuaEntryPoint)))
			tableEntries = append(tableEntries, Leaf(fmt.Sprintf(
			" setobj2s(L, L->top, &globals[%d]);\n api_incr_top(L);\n lua_setfield(L, -2, \"%s\");\n",
			d.GlobalIndex, d.Name)))
			funcCount++
		case *ast.VarDecl:
			if d.Ignored {
				continue
			}
			initStats = append(initStats, c.emitGlobalInit(d))
		case *ast.RecordDecl, *ast.ImportDecl:
			// Records carry no runtime representation of their own; imports
			// are rejected by the checker before Generate ever runs.
		}
	}

	unit := Group("translation-unit")
	unit.Append(Leaf(headerPrelude))
	unit.Append(Group("functions", functions...))

	// init_<MOD> runs inside a C closure whose single upvalue is the
	// globals table, so the first thing it does is recover that table from
	// its own closure object and cache the array part.
	unit.Append(Leaf(fmt.Sprintf("int %s(lua_State *L) {\n", c.InitName())))
	unit.Append(Leaf(" CClosure *init_closure = clCvalue(L->ci->func);\n"))
	unit.Append(Leaf(" titan_globals_table = hvalue(&init_closure->upvalue[0]);\n"))
	unit.Append(Leaf(" globals = titan_globals_table->array;\n"))
	unit.Append(Group("init-toplevel", initStats...))
	unit.Append(Leaf(" return 0;\n}\n\n"))

	// luaopen_<MOD>: allocate the globals table, pre-size its array part to
	// the global count, wrap init in a closure over it, run the closure,
	// then build the module table out of the closures init stored.
	unit.Append(Leaf(fmt.Sprintf("int %s(lua_State *L) {\n", c.LuaopenName())))
	unit.Append(Leaf(" Table *t = luaH_new(L);\n"))
	unit.Append(Leaf(" sethvalue(L, L->top, t);\n api_incr_top(L);\n"))
	unit.Append(Leaf(fmt.Sprintf(" luaH_resize(L, t, %d, 0);\n", c.globalCount)))
	unit.Append(Leaf(fmt.Sprintf(" lua_pushcclosure(L, %s, 1);\n", c.InitName())))
	unit.Append(Leaf(" lua_call(L, 0, 0);\n"))
	unit.Append(Leaf(fmt.Sprintf(" lua_createtable(L, 0, %d);\n", funcCount)))
	unit.Append(Group("module-table", tableEntries...))
	unit.Append(Leaf(" return 1;\n}\n"))

	return unit
}

// assignGlobalIndices walks the file's top-level declarations in source
// order and assigns each value declaration a contiguous slot in the
// module's globals table, so the Coder can hand out real indices before
// emitting a single reference to one.
func (c *Ctx) assignGlobalIndices(file *ast.File) {
	next := 0
	for _, tl := range file.TopLevel {
		switch d := tl.(type) {
		case *ast.FuncDecl:
			if d.Ignored {
				continue
			}
			d.GlobalIndex = next
			d.TitanEntryPoint = c.TitanEntryPoint(d.Name)
			d.LuaEntryPoint = c.LuaEntryPoint(d.Name)
			next++
		case *ast.VarDecl:
			if d.Ignored {
				continue
			}
			d.GlobalIndex = next
			next++
		}
	}
	c.globalCount = next
}

// emitFunction emits the entry-point pair for one source function: the
// statically-typed core entry point, then the host-callable wrapper that
// tag-checks and unpacks the Lua stack arguments, calls the core entry
// point, and pushes its result back.
func (c *Ctx) emitFunction(fn *ast.FuncDecl) *Frag {
	reserved := func(t types.Type) bool { return types.HasTag(t, "record") || types.HasTag(t, "function") }
	paramList := "lua_State *L"
	for _, p := range fn.Params {
		if reserved(p.Type) {
			c.notImplemented(p.Location, fmt.Sprintf("parameters of type %s", p.Type.String()))
		}
		paramList += fmt.Sprintf(", %s %s", CType(p.Type), c.LocalName(p.Name))
	}

	retType := "void"
	if len(fn.Type.Returns) > 0 {
		if reserved(fn.Type.Returns[0]) {
			c.notImplemented(fn.Location, fmt.Sprintf("return values of type %s", fn.Type.Returns[0].String()))
		}
		retType = CType(fn.Type.Returns[0])
	}

	group := Group("function")
	group.Append(Leaf(fmt.Sprintf("static %s %s(%s) {\n", retType, fn.TitanEntryPoint, paramList)))
	group.Append(c.EmitBlock(fn.Block))
	group.Append(Leaf("}\n\n"))

	wrapper := Group("lua-wrapper")
	wrapper.Append(Leaf(fmt.Sprintf("static int %s(lua_State *L) {\n", fn.LuaEntryPoint)))
	wrapper.Append(Leaf(fmt.Sprintf(" if (lua_gettop(L) != %d) {\n", len(fn.Params))))
	wrapper.Append(Leaf(fmt.Sprintf(" return luaL_error(L, \"wrong number of arguments to %s, expected %d\");\n }\n",
	fn.Name, len(fn.Params))))
	argList := "L"
	for i, p := range fn.Params {
		wrapper.Append(Leaf(fmt.Sprintf(" if (!(%s)) {\n", argCheck(p.Type, i+1))))
		wrapper.Append(Leaf(fmt.Sprintf(" return luaL_error(L, \"wrong type for argument %s at line %d, expected %s\");\n }\n",
		p.Name, p.Location.Line, p.Type.String())))
		wrapper.Append(Leaf(fmt.Sprintf(" %s %s = %s;\n", CType(p.Type), c.LocalName(p.Name), argGet(p.Type, i+1))))
		argList += ", " + c.LocalName(p.Name)
	}
	if retType == "void" {
		wrapper.Append(Leaf(fmt.Sprintf(" %s(%s);\n return 0;\n", fn.TitanEntryPoint, argList)))
	} else {
		wrapper.Append(Leaf(fmt.Sprintf(" %s result = %s(%s);\n", retType, fn.TitanEntryPoint, argList)))
		wrapper.Append(Leaf(resultPush(fn.Type.Returns[0])))
		wrapper.Append(Leaf(" return 1;\n"))
	}
	wrapper.Append(Leaf("}\n\n"))
	group.Append(wrapper)
	return group
}

func (c *Ctx) emitGlobalInit(v *ast.VarDecl) *Frag {
	setter := globalSetter(v.Decl.Type)
	if v.Value == nil {
		return Leaf(fmt.Sprintf(" %s(L, globals, %d, %s);\n", setter, v.GlobalIndex, ZeroValue(v.Decl.Type)))
	}
	val := c.EmitExpr(v.Value)
	return appendStmt(val.Prelude, fmt.Sprintf(" %s(L, globals, %d, %s);\n", setter, v.GlobalIndex, val.RValue))
}

// tableGetter and tableSetter pick the titan_table_* helper matching an
// array's element type.
func tableGetter(elem types.Type) (string, bool) {
	switch elem.(type) {
	case types.Integer:
		return "titan_table_get_int", true
	case types.Float:
		return "titan_table_get_float", true
	case types.Boolean:
		return "titan_table_get_bool", true
	case types.String:
		return "titan_table_get_string", true
	case types.Array:
		return "titan_table_get_table", true
	default:
		return "", false
	}
}

func tableSetter(elem types.Type) (string, bool) {
	switch elem.(type) {
	case types.Integer:
		return "titan_table_set_int", true
	case types.Float:
		return "titan_table_set_float", true
	case types.Boolean:
		return "titan_table_set_bool", true
	case types.String:
		return "titan_table_set_string", true
	case types.Array:
		return "titan_table_set_table", true
	default:
		return "", false
	}
}
