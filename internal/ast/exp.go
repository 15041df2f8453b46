package ast

import "github.com/titanlang/titanc/internal/types"

// exprBase is embedded by every concrete expression node to carry the
// elaborated type annotation shared by all of them. It is not itself an
// Exp; each node still implements Loc() directly so that the zero-value
// Location can never be silently reused across nodes.
type exprBase struct {
	Type types.Type // set by the checker; nil before it runs
}

func (e *exprBase) GetType() types.Type { return e.Type }
func (e *exprBase) SetType(t types.Type) { e.Type = t }

// NilLit, BoolLit, IntLit, FloatLit, StringLit are the five literal forms.
type NilLit struct {
	exprBase
	Location Location
}

func (n *NilLit) Loc() Location { return n.Location }

type BoolLit struct {
	exprBase
	Value bool
	Location Location
}

func (b *BoolLit) Loc() Location { return b.Location }

type IntLit struct {
	exprBase
	Value int64
	Location Location
}

func (i *IntLit) Loc() Location { return i.Location }

type FloatLit struct {
	exprBase
	Value float64
	Location Location
}

func (f *FloatLit) Loc() Location { return f.Location }

type StringLit struct {
	exprBase
	Value string
	Location Location
}

func (s *StringLit) Loc() Location { return s.Location }

// Name is a bare identifier occurrence: a variable reference or, in call
// position, a function reference. ScopeAnalysis resolves it to a
// Declaration in a side table (scope.DeclTable) rather than on the node
// itself, keeping the tree free of back-edges.
type Name struct {
	exprBase
	Ident string
	Location Location
}

func (n *Name) Loc() Location { return n.Location }
func (n *Name) isVar() {}

// Bracket is "exp[index]": array indexing.
type Bracket struct {
	exprBase
	Exp Exp
	Index Exp
	Location Location
}

func (b *Bracket) Loc() Location { return b.Location }
func (b *Bracket) isVar() {}

// Dot is "exp.field": record field access.
type Dot struct {
	exprBase
	Exp Exp
	Field string
	Location Location
}

func (d *Dot) Loc() Location { return d.Location }
func (d *Dot) isVar() {}

// Unop is a unary operator application: "-", "not", "#", "~".
type Unop struct {
	exprBase
	Op string
	Exp Exp
	Location Location
}

func (u *Unop) Loc() Location { return u.Location }

// Binop is a binary operator application.
type Binop struct {
	exprBase
	Op string
	Lhs Exp
	Rhs Exp
	Location Location
}

func (b *Binop) Loc() Location { return b.Location }

// Call is a function call. Exp is always a *Name resolving to a top-level
// function in a well-formed program; the checker diagnoses any other callee
// shape as NotImplemented.
type Call struct {
	exprBase
	Exp Exp
	Args []Exp
	Location Location
}

func (c *Call) Loc() Location { return c.Location }

// Initlist is an array initializer: "{e1, e2, ...}".
type Initlist struct {
	exprBase
	Exps []Exp
	Location Location
}

func (i *Initlist) Loc() Location { return i.Location }

// Concat is the host language's "a .. b .. c" string-concatenation
// expression form. Reserved: the coder rejects it.
type Concat struct {
	exprBase
	Exps []Exp
	Location Location
}

func (c *Concat) Loc() Location { return c.Location }

// Cast is an explicit "exp as Type" conversion, the only place numeric
// coercion is permitted.
type Cast struct {
	exprBase
	Exp Exp
	TargetType TypeExpr
	Location Location
}

func (c *Cast) Loc() Location { return c.Location }
