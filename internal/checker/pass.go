// Package checker implements the two-pass type checker: a
// collect pass that computes every top-level declaration's type, and a check
// pass that walks bodies and initializers computing _type on every
// expression and a "definitely returns" flag on every statement.
package checker

import (
	"github.com/titanlang/titanc/internal/ast"
)

// Pass is one phase of the checker. A future third pass is a structural
// addition rather than a rewrite.
type Pass interface {
	Name() string
	Run(file *ast.File, ctx *Context) error
}

// Manager runs a fixed sequence of passes, stopping early only on a fatal
// internal error — semantic diagnostics are accumulated in ctx.Errs and never
// stop the pipeline early.
type Manager struct {
	passes []Pass
}

// NewManager returns a Manager that runs passes in the given order.
func NewManager(passes ...Pass) *Manager {
	return &Manager{passes: passes}
}

// RunAll runs every pass over file in order.
func (m *Manager) RunAll(file *ast.File, ctx *Context) error {
	for _, p := range m.passes {
		if err := p.Run(file, ctx); err != nil {
			return err
		}
	}
	return nil
}
