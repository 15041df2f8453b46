package ast

import "github.com/titanlang/titanc/internal/types"

// Decl is a typed name: a function parameter, a for-loop control variable,
// or the left-hand side of a DeclStat. TypeExpr is nil when the type is to
// be inferred from an initializer (DeclStat only; parameters and for-loop
// variables always carry an explicit TypeExpr).
type Decl struct {
	Name string
	TypeExpr TypeExpr
	Location Location

	// Type is the elaborated type, set by the checker.
	Type types.Type
}

func (d *Decl) Loc() Location { return d.Location }
func (d *Decl) DeclaredName() string { return d.Name }
