package ast

import "github.com/titanlang/titanc/internal/types"

// Declaration is anything a name occurrence can resolve to: a local/param
// Decl, or a top-level FuncDecl (calls resolve the callee name directly to
// the declaring FuncDecl rather than to a synthesized Decl, since a
// function's Type carries parameter and return lists that a single Decl
// cannot). ScopeAnalysis never attaches a Declaration to the Name node
// itself — see scope.DeclTable — so the tree stays a pure tree.
type Declaration interface {
	Loc() Location
	DeclaredName() string
}

// FuncDecl is a top-level function or local ("local function ...")
// declaration.
type FuncDecl struct {
	Name string
	Params []*Decl
	ReturnTypes []TypeExpr // zero or one in the core
	Block *Block
	IsLocal bool
	Location Location

	// Annotations, set in place by later phases — never present on entry.
	Type types.Function // set by the checker (pass 1)
	Ignored bool // set by scope analysis on name collision
	GlobalIndex int // set by the coder; -1 until assigned
	TitanEntryPoint string // set by the coder
	LuaEntryPoint string // set by the coder
}

func (f *FuncDecl) Loc() Location { return f.Location }
func (f *FuncDecl) DeclaredName() string { return f.Name }

// VarDecl is a top-level variable declaration with an optional initializer.
type VarDecl struct {
	Decl *Decl
	Value Exp // nil when the declared type's zero value is the initial value
	Location Location

	Ignored bool
	GlobalIndex int // set by the coder; -1 until assigned
}

func (v *VarDecl) Loc() Location { return v.Location }
func (v *VarDecl) DeclaredName() string { return v.Decl.Name }

// RecordField is one field of a RecordDecl.
type RecordField struct {
	Name string
	Type TypeExpr
}

// RecordDecl introduces a nominal Record type into the top-level scope.
type RecordDecl struct {
	Name string
	Fields []RecordField
	Location Location

	Type types.Record // set by the checker (pass 1)
	Ignored bool
}

func (r *RecordDecl) Loc() Location { return r.Location }

// ImportDecl is accepted by the grammar but separate
// compilation units are a Non-goal: the checker rejects any
// ImportDecl with a NotImplemented diagnostic rather than resolving it.
type ImportDecl struct {
	Path string
	Location Location
}

func (i *ImportDecl) Loc() Location { return i.Location }

// File is the root of the raw tree: the ordered sequence of top-level
// declarations produced by the parser for a single source file.
type File struct {
	Filename string
	TopLevel []TopLevel
}
