// Package errors provides titanc's single diagnostic type. The wire format
// is fixed: one line per diagnostic, "<file>:<line>:<col>: <message>",
// never annotated with source context or carets — diagnostics are consumed
// by tooling as much as by humans.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/titanlang/titanc/internal/ast"
)

// Kind classifies a Diagnostic by the phase that raised it.
type Kind string

const (
	IoError        Kind = "IoError"
	SyntaxError    Kind = "SyntaxError"
	NameError      Kind = "NameError"
	TypeError      Kind = "TypeError"
	NotImplemented Kind = "NotImplemented"
	ToolchainError Kind = "ToolchainError"
	UsageError     Kind = "UsageError"
)

// Diagnostic is a single compile error or warning, always positioned.
// Location's zero value (no filename, line 0) must never reach a
// Diagnostic; New panics when handed one, so that bug surfaces immediately
// in tests instead of silently printing "<unknown>:0:0".
type Diagnostic struct {
	Kind Kind
	Loc ast.Location
	Message string
}

// New constructs a Diagnostic, formatting Message with args like fmt.Sprintf.
func New(kind Kind, loc ast.Location, format string, args ...interface{}) *Diagnostic {
	if loc.Filename == "" && loc.Line == 0 && loc.Column == 0 {
		panic("errors.New: diagnostic created with a zero Location")
	}
	return &Diagnostic{Kind: kind, Loc: loc, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface with wire format.
func (d *Diagnostic) Error() string { return d.String() }

// String renders the diagnostic as "<file>:<line>:<col>: <message>".
func (d *Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", d.Loc.Filename, d.Loc.Line, d.Loc.Column, d.Message)
}

// List is an accumulator of diagnostics in the order they were added
// (SortBySource reorders it by position), shared by every
// phase that "continues after the first error". Code generation must only run when a List is empty.
type List []*Diagnostic

// Add appends a diagnostic.
func (l *List) Add(d *Diagnostic) { *l = append(*l, d) }

// HasErrors reports whether the list is non-empty. Every Diagnostic Kind is
// treated as an error for pipeline-gating purposes — the core has no
// separate warning channel.
func (l List) HasErrors() bool { return len(l) > 0 }

// SortBySource orders the list by file, then line, then column, so that
// diagnostics merged from several phases still print in source order. The
// sort is stable: two diagnostics at the same position keep the order the
// phases raised them in.
func (l List) SortBySource() {
	sort.SliceStable(l, func(i, j int) bool {
		a, b := l[i].Loc, l[j].Loc
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// Format renders every diagnostic on its own line, in list order, with a
// trailing newline when non-empty and no trailing newline when empty — the
// caller decides whether an empty string is worth printing at all.
func (l List) Format() string {
	lines := make([]string, len(l))
	for i, d := range l {
		lines[i] = d.String()
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
