package coder

import (
	"fmt"

	"github.com/titanlang/titanc/internal/ast"
	"github.com/titanlang/titanc/internal/errors"
	"github.com/titanlang/titanc/internal/scope"
)

// Ctx is the per-compilation emission context. Name mangling and the
// temporary-name counter live here rather than behind a package-level
// variable, so two concurrent compilations in the same process never share
// state.
type Ctx struct {
	Module string
	Decls *scope.DeclTable
	Errs errors.List

	tmp int
	globalCount int
}

// NewCtx returns a fresh emission context for compiling a module named
// module, resolving names against decls (ScopeAnalysis's output).
func NewCtx(module string, decls *scope.DeclTable) *Ctx {
	return &Ctx{Module: module, Decls: decls}
}

// TitanEntryPoint returns the core entry point's C identifier for a
// source-level function name.
func (c *Ctx) TitanEntryPoint(name string) string { return "function_" + name + "_titan" }

// LuaEntryPoint returns the host entry point's C identifier.
func (c *Ctx) LuaEntryPoint(name string) string { return "function_" + name + "_lua" }

// LocalName returns the mangled C identifier for a local variable or
// parameter.
func (c *Ctx) LocalName(name string) string { return "local_" + name }

// Tmp returns a fresh, compilation-unique temporary name.
func (c *Ctx) Tmp() string {
	c.tmp++
	return fmt.Sprintf("tmp_%d", c.tmp)
}

// InitName returns the module's init_<MOD> identifier.
func (c *Ctx) InitName() string { return "init_" + c.Module }

// LuaopenName returns the module's luaopen_<MOD> identifier.
func (c *Ctx) LuaopenName() string { return "luaopen_" + c.Module }

func (c *Ctx) notImplemented(loc ast.Location, what string) {
	c.Errs.Add(errors.New(errors.NotImplemented, loc, "%s is not implemented by the coder", what))
}
