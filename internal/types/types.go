// Package types implements the Titan type lattice: a closed sum of the
// primitive and compound types a Titan program can mention, together with
// structural equality and a canonical printer used by diagnostics.
package types

import "strings"

// Type is the closed sum of every type a Titan declaration or expression can
// carry. Implementations live in this file only — adding a new variant means
// adding a new case to Equals, String and HasTag below, and to every
// switch in the checker and coder that must handle it.
type Type interface {
	String() string
	Equals(other Type) bool
}

// Nil is the type of the literal nil and of procedures with no return value.
type Nil struct{}

func (Nil) String() string { return "nil" }
func (Nil) Equals(other Type) bool {
	_, ok := other.(Nil)
	return ok
}

// Boolean is the type of true/false and of every relational/logical result.
type Boolean struct{}

func (Boolean) String() string { return "boolean" }
func (Boolean) Equals(other Type) bool {
	_, ok := other.(Boolean)
	return ok
}

// Integer is a 64-bit two's-complement integer, distinct from Float: there is
// no implicit coercion between them at the type level.
type Integer struct{}

func (Integer) String() string { return "integer" }
func (Integer) Equals(other Type) bool {
	_, ok := other.(Integer)
	return ok
}

// Float is a 64-bit IEEE-754 float.
type Float struct{}

func (Float) String() string { return "float" }
func (Float) Equals(other Type) bool {
	_, ok := other.(Float)
	return ok
}

// String is the host VM's interned string object type.
type String struct{}

func (String) String() string { return "string" }
func (String) Equals(other Type) bool {
	_, ok := other.(String)
	return ok
}

// Array is a homogeneous, host-table-backed array of Elem.
type Array struct {
	Elem Type
}

func (a Array) String() string { return "{" + a.Elem.String() + "}" }
func (a Array) Equals(other Type) bool {
	o, ok := other.(Array)
	return ok && a.Elem.Equals(o.Elem)
}

// Function is the signature of a Titan function: zero or more parameter
// types and zero or more return types. The core only ever produces and
// consumes single-return functions, but the type
// itself carries a slice so the checker can give an exact diagnostic when a
// Non-goal form is rejected rather than panicking on an index.
type Function struct {
	Params []Type
	Returns []Type
}

func (f Function) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	returns := make([]string, len(f.Returns))
	for i, r := range f.Returns {
		returns[i] = r.String()
	}
	return "(" + strings.Join(params, ", ") + ") -> (" + strings.Join(returns, ", ") + ")"
}

func (f Function) Equals(other Type) bool {
	o, ok := other.(Function)
	if !ok || len(f.Params) != len(o.Params) || len(f.Returns) != len(o.Returns) {
		return false
	}
	for i := range f.Params {
		if !f.Params[i].Equals(o.Params[i]) {
			return false
		}
	}
	for i := range f.Returns {
		if !f.Returns[i].Equals(o.Returns[i]) {
			return false
		}
	}
	return true
}

// Field is one member of a Record type.
type Field struct {
	Name string
	Type Type
}

// Record is a nominal compound type: two Record values are Equals only when
// they share the same declaring identity (Decl), never by structural field
// comparison. Decl is an opaque identity token supplied by the owning
// record AST node; the types package never inspects it.
type Record struct {
	Name string
	Fields []Field
	Decl interface{}
}

func (r Record) String() string { return r.Name }
func (r Record) Equals(other Type) bool {
	o, ok := other.(Record)
	return ok && r.Decl == o.Decl
}

// FieldType returns the type of the named field and whether it exists.
func (r Record) FieldType(name string) (Type, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// HasTag reports whether t is the variant named by tag. tag is one of
// "nil", "boolean", "integer", "float", "string", "array", "function",
// "record" — the lowercase name of the variant. It
// exists to let callers ask "is this a record?" without naming the concrete
// variant type.
func HasTag(t Type, tag string) bool {
	switch t.(type) {
	case Nil:
		return tag == "nil"
	case Boolean:
		return tag == "boolean"
	case Integer:
		return tag == "integer"
	case Float:
		return tag == "float"
	case String:
		return tag == "string"
	case Array:
		return tag == "array"
	case Function:
		return tag == "function"
	case Record:
		return tag == "record"
	default:
		return false
	}
}

// Unknown is the checker's recovery type: assigned to an expression after a
// type error so checking can continue without cascading secondary
// diagnostics about that same expression. It compares equal to every type,
// including itself, so a caller that checks "does this match the expected
// type" never reports a second error against an already-broken expression.
type Unknown struct{}

func (Unknown) String() string { return "<unknown>" }
func (Unknown) Equals(Type) bool { return true }

// IsUnknown reports whether t is the checker's recovery type.
func IsUnknown(t Type) bool {
	_, ok := t.(Unknown)
	return ok
}

// IsNumeric reports whether t is Integer or Float.
func IsNumeric(t Type) bool {
	switch t.(type) {
	case Integer, Float:
		return true
	default:
		return false
	}
}
