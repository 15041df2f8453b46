// Package ast defines the node shapes of the raw Titan syntax tree, the
// shared Location record every node carries, and the annotation fields later
// phases attach in place. The tree is produced once (by internal/parser,
// itself only an external collaborator) and mutated in place by
// ScopeAnalysis, Checker and Coder — never structurally rewritten.
package ast

import (
	"fmt"

	"github.com/titanlang/titanc/internal/types"
)

// Location pins a syntactic node to a file, line and column. Every node
// carries one; a diagnostic without a Location is a bug, not a feature.
type Location struct {
	Filename string
	Line int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Line, l.Column)
}

// TopLevel is a top-level declaration: a function, a global variable, a
// record type, or an import.
type TopLevel interface {
	Loc() Location
}

// Stat is a statement.
type Stat interface {
	Loc() Location
}

// Exp is an expression. Every concrete Exp also carries a _type annotation
// (Typed) once the checker has run.
type Exp interface {
	Loc() Location
}

// Typed is implemented by every concrete Exp (via the embedded exprBase) so
// the checker can annotate any expression node without a type switch.
type Typed interface {
	Exp
	GetType() types.Type
	SetType(types.Type)
}

// Var is the sum of the three expression forms that can appear as an
// assignment target: a bare name, an array index, and a field access.
// isVar is implemented only by *Name, *Bracket and *Dot so that, e.g., an
// *IntLit can never typecheck as an Assign target.
type Var interface {
	Exp
	isVar()
}
