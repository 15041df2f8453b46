package checker

import (
	"github.com/titanlang/titanc/internal/ast"
	"github.com/titanlang/titanc/internal/errors"
	"github.com/titanlang/titanc/internal/types"
)

// checkPass is Pass 2: walk top-level bodies and initializer
// expressions, computing _type throughout and flow-checking every function
// for a missing return.
type checkPass struct{}

func (checkPass) Name() string { return "check" }

func (checkPass) Run(file *ast.File, ctx *Context) error {
	for _, tl := range file.TopLevel {
		switch d := tl.(type) {
		case *ast.VarDecl:
			if d.Ignored || d.Value == nil {
				continue
			}
			vt := ctx.checkExpr(d.Value, d.Decl.Type)
			if !vt.Equals(d.Decl.Type) && !types.IsUnknown(vt) {
				ctx.errorf(d.Location, errors.TypeError,
				"cannot initialize %s (declared %s) with a value of type %s",
				d.Decl.Name, d.Decl.Type.String(), vt.String())
			}
		case *ast.FuncDecl:
			if d.Ignored {
				continue
			}
			ctx.checkFunc(d)
		case *ast.ImportDecl:
			// Separate compilation units are out of scope.
			ctx.errorf(d.Location, errors.NotImplemented, "import of %q is not supported", d.Path)
		}
	}
	return nil
}

func (ctx *Context) checkFunc(fn *ast.FuncDecl) {
	retType := types.Type(types.Nil{})
	if len(fn.Type.Returns) > 0 {
		retType = fn.Type.Returns[0]
	}
	returns := ctx.checkBlock(fn.Block, retType)
	if !retType.Equals(types.Nil{}) && !returns {
		ctx.errorf(fn.Location, errors.TypeError,
		"function can return nil but return type is not nil")
	}
}
