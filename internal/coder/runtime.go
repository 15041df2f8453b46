package coder

import (
	"fmt"

	"github.com/titanlang/titanc/internal/types"
)

// headerPrelude is the fixed set of includes and helper definitions every
// generated translation unit starts with. The titan_global_* and
// titan_table_* helpers wrap the host's tagged-value macros so that emitted
// call sites stay single expressions; they are defined once per module
// rather than generated per call site.
//
// The globals table's array part backs the module's top-level values, so
// reads and writes go through the TValue accessors for the slot's actual
// tag, and writes of collectable values run the GC barrier against the
// owning table.
const headerPrelude = `/* generated by titanc -- do not edit */
#include <math.h>

#include "lua.h"
#include "lauxlib.h"
#include "lualib.h"

#include "lapi.h"
#include "lfunc.h"
#include "lgc.h"
#include "lobject.h"
#include "lstate.h"
#include "ltable.h"
#include "lvm.h"

#ifdef __clang__
#pragma clang diagnostic ignored "-Wparentheses-equality"
#endif

#ifndef intop
#define intop(op, v1, v2) ((lua_Integer)((lua_Unsigned)(v1) op (lua_Unsigned)(v2)))
#endif

static Table *titan_globals_table;
static TValue *globals;

static lua_Integer titan_global_get_int(TValue *g, int i) { return ivalue(&g[i]); }
static lua_Number titan_global_get_float(TValue *g, int i) { return fltvalue(&g[i]); }
static int titan_global_get_bool(TValue *g, int i) { return bvalue(&g[i]); }
static TString *titan_global_get_string(TValue *g, int i) { return tsvalue(&g[i]); }
static Table *titan_global_get_table(TValue *g, int i) { return hvalue(&g[i]); }

static void titan_global_set_int(lua_State *L, TValue *g, int i, lua_Integer v) {
 (void)L;
 setivalue(&g[i], v);
}

static void titan_global_set_float(lua_State *L, TValue *g, int i, lua_Number v) {
 (void)L;
 setfltvalue(&g[i], v);
}

static void titan_global_set_bool(lua_State *L, TValue *g, int i, int v) {
 (void)L;
 setbvalue(&g[i], v);
}

static void titan_global_set_string(lua_State *L, TValue *g, int i, TString *v) {
 setsvalue(L, &g[i], v);
 luaC_barrierback(L, titan_globals_table, &g[i]);
}

static void titan_global_set_table(lua_State *L, TValue *g, int i, Table *v) {
 sethvalue(L, &g[i], v);
 luaC_barrierback(L, titan_globals_table, &g[i]);
}

static void titan_global_set_function(lua_State *L, TValue *g, int i, lua_CFunction f) {
 lua_pushcfunction(L, f);
 setobj2t(L, &g[i], L->top - 1);
 luaC_barrierback(L, titan_globals_table, &g[i]);
 L->top--;
}

static Table *titan_table_new(lua_State *L, int n) {
 Table *t = luaH_new(L);
 if (n > 0) luaH_resize(L, t, n, 0);
 return t;
}

static lua_Integer titan_table_length(Table *t) { return luaH_getn(t); }

static lua_Integer titan_table_get_int(Table *t, lua_Integer i) {
 return ivalue(luaH_getint(t, i));
}

static lua_Number titan_table_get_float(Table *t, lua_Integer i) {
 return fltvalue(luaH_getint(t, i));
}

static int titan_table_get_bool(Table *t, lua_Integer i) {
 return bvalue(luaH_getint(t, i));
}

static TString *titan_table_get_string(Table *t, lua_Integer i) {
 return tsvalue(luaH_getint(t, i));
}

static Table *titan_table_get_table(Table *t, lua_Integer i) {
 return hvalue(luaH_getint(t, i));
}

static void titan_table_set_int(lua_State *L, Table *t, lua_Integer i, lua_Integer v) {
 TValue val;
 setivalue(&val, v);
 luaH_setint(L, t, i, &val);
}

static void titan_table_set_float(lua_State *L, Table *t, lua_Integer i, lua_Number v) {
 TValue val;
 setfltvalue(&val, v);
 luaH_setint(L, t, i, &val);
}

static void titan_table_set_bool(lua_State *L, Table *t, lua_Integer i, int v) {
 TValue val;
 setbvalue(&val, v);
 luaH_setint(L, t, i, &val);
}

static void titan_table_set_string(lua_State *L, Table *t, lua_Integer i, TString *v) {
 TValue val;
 setsvalue(L, &val, v);
 luaH_setint(L, t, i, &val);
 luaC_barrierback(L, t, &val);
}

static void titan_table_set_table(lua_State *L, Table *t, lua_Integer i, Table *v) {
 TValue val;
 sethvalue(L, &val, v);
 luaH_setint(L, t, i, &val);
 luaC_barrierback(L, t, &val);
}

`

// argCheck returns the C predicate that tag-checks the i'th Lua stack
// argument against t before the host entry point extracts it.
func argCheck(t types.Type, i int) string {
	switch t.(type) {
	case types.Integer:
		return fmt.Sprintf("lua_isinteger(L, %d)", i)
	case types.Float:
		return fmt.Sprintf("lua_isnumber(L, %d)", i)
	case types.Boolean:
		return fmt.Sprintf("lua_isboolean(L, %d)", i)
	case types.String:
		return fmt.Sprintf("lua_type(L, %d) == LUA_TSTRING", i)
	case types.Array:
		return fmt.Sprintf("lua_istable(L, %d)", i)
	case types.Nil:
		return fmt.Sprintf("lua_isnil(L, %d)", i)
	default:
		return "0"
	}
}

// argGet returns the C expression that extracts the i'th (already
// tag-checked) Lua stack argument as t's native representation. Scalars go
// through the public API; string and table objects are read straight off
// the stack frame, since the public API has no accessor that yields the
// internal object pointer.
func argGet(t types.Type, i int) string {
	switch t.(type) {
	case types.Integer:
		return fmt.Sprintf("lua_tointeger(L, %d)", i)
	case types.Float:
		return fmt.Sprintf("lua_tonumber(L, %d)", i)
	case types.Boolean:
		return fmt.Sprintf("lua_toboolean(L, %d)", i)
	case types.String:
		return fmt.Sprintf("tsvalue(L->ci->func + %d)", i)
	case types.Array:
		return fmt.Sprintf("hvalue(L->ci->func + %d)", i)
	default:
		return "0"
	}
}

// resultPush returns the C statements that push a core entry point's result
// (held in the C variable "result") back onto the Lua stack.
func resultPush(t types.Type) string {
	switch t.(type) {
	case types.Integer:
		return " lua_pushinteger(L, result);\n"
	case types.Float:
		return " lua_pushnumber(L, result);\n"
	case types.Boolean:
		return " lua_pushboolean(L, result);\n"
	case types.String:
		return " setsvalue2s(L, L->top, result);\n api_incr_top(L);\n"
	case types.Array:
		return " sethvalue(L, L->top, result);\n api_incr_top(L);\n"
	default:
		return " lua_pushnil(L);\n"
	}
}
