package coder

import "github.com/titanlang/titanc/internal/types"

// CType maps a Titan type to the native C type the coder emits for a core
// entry point's parameters, return value, and locals. Function and Record
// are reserved and have no native C type here: they fall through to
// "void *". The checker accepts record- and function-typed parameters and
// return values, so emitFunction reports those as NotImplemented.
func CType(t types.Type) string {
	switch t.(type) {
	case types.Nil, types.Boolean:
		return "int"
	case types.Integer:
		return "lua_Integer"
	case types.Float:
		return "lua_Number"
	case types.String:
		return "TString *"
	case types.Array:
		return "Table *"
	default:
		return "void *"
	}
}

// ZeroValue returns the C literal used to zero-initialize a value of type t.
func ZeroValue(t types.Type) string {
	switch t.(type) {
	case types.Float:
		return "0.0"
	case types.String, types.Array:
		return "NULL"
	default:
		return "0"
	}
}
