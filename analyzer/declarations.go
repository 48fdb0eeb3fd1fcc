package analyzer

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ast/inspector"

	"github.com/SergeiSkv/AbbrFix/abbrev"
)

// Declaration is one declared identifier together with the context the rewriter needs.
type Declaration struct {
	Ident   *ast.Ident
	Object  types.Object
	Context abbrev.DeclarationContext
	// Owner is the struct, interface or receiver type for fields and methods. Names of
	// other declarations are checked against their scope instead.
	Owner types.Type
}

var declarationNodes = []ast.Node{
	(*ast.TypeSpec)(nil),
	(*ast.FuncDecl)(nil),
	(*ast.FuncType)(nil),
	(*ast.StructType)(nil),
	(*ast.InterfaceType)(nil),
	(*ast.ValueSpec)(nil),
	(*ast.AssignStmt)(nil),
	(*ast.RangeStmt)(nil),
}

type declarationCollector struct {
	info   *types.Info
	model  SymbolModel
	decls  []Declaration
	seen   map[types.Object]struct{}
	owners map[*ast.StructType]types.Type
}

// CollectDeclarations lists every declared identifier the model can resolve, in source order.
// Package names, labels, blank identifiers and type-switch bindings have no declared symbol
// and are left out.
func CollectDeclarations(insp *inspector.Inspector, info *types.Info, model SymbolModel) []Declaration {
	c := &declarationCollector{
		info:   info,
		model:  model,
		decls:  make([]Declaration, 0, 64),
		seen:   make(map[types.Object]struct{}, 64),
		owners: make(map[*ast.StructType]types.Type),
	}

	insp.WithStack(declarationNodes, func(n ast.Node, push bool, stack []ast.Node) bool {
		if !push {
			return true
		}
		switch n := n.(type) {
		case *ast.TypeSpec:
			c.typeSpec(n)
		case *ast.FuncDecl:
			c.funcDecl(n)
		case *ast.FuncType:
			c.fieldList(n.TypeParams, abbrev.Parameter(), nil)
			c.fieldList(n.Params, abbrev.Parameter(), nil)
			c.fieldList(n.Results, abbrev.Parameter(), nil)
		case *ast.StructType:
			c.structType(n)
		case *ast.InterfaceType:
			c.fieldList(n.Methods, abbrev.Other, info.TypeOf(n))
		case *ast.ValueSpec:
			packageLevel := isPackageLevel(stack)
			for _, name := range n.Names {
				ctx := abbrev.LocalVariable()
				if packageLevel {
					ctx = abbrev.Field(accessOf(name))
				}
				c.add(name, ctx, nil)
			}
		case *ast.AssignStmt:
			if n.Tok != token.DEFINE {
				return true
			}
			for _, lhs := range n.Lhs {
				if id, ok := lhs.(*ast.Ident); ok {
					c.add(id, abbrev.LocalVariable(), nil)
				}
			}
		case *ast.RangeStmt:
			if n.Tok != token.DEFINE {
				return true
			}
			for _, e := range []ast.Expr{n.Key, n.Value} {
				if id, ok := e.(*ast.Ident); ok {
					c.add(id, abbrev.LocalVariable(), nil)
				}
			}
		}
		return true
	})

	return c.decls
}

func (c *declarationCollector) typeSpec(spec *ast.TypeSpec) {
	ctx := abbrev.Other
	if _, ok := spec.Type.(*ast.InterfaceType); ok {
		ctx = abbrev.Interface()
	}
	c.add(spec.Name, ctx, nil)
	c.fieldList(spec.TypeParams, abbrev.Parameter(), nil)

	if st, ok := spec.Type.(*ast.StructType); ok {
		if obj := c.info.Defs[spec.Name]; obj != nil {
			// Fields of a named struct also collide with its methods.
			c.owners[st] = obj.Type()
		}
	}
}

func (c *declarationCollector) funcDecl(fn *ast.FuncDecl) {
	var owner types.Type
	if fn.Recv != nil && len(fn.Recv.List) > 0 {
		owner = c.info.TypeOf(fn.Recv.List[0].Type)
		c.fieldList(fn.Recv, abbrev.Parameter(), nil)
	}
	c.add(fn.Name, abbrev.Other, owner)
}

func (c *declarationCollector) structType(st *ast.StructType) {
	owner, ok := c.owners[st]
	if !ok {
		owner = c.info.TypeOf(st)
	}
	if st.Fields == nil {
		return
	}
	for _, field := range st.Fields.List {
		for _, name := range field.Names {
			c.add(name, abbrev.Field(accessOf(name)), owner)
		}
	}
}

func (c *declarationCollector) fieldList(list *ast.FieldList, ctx abbrev.DeclarationContext, owner types.Type) {
	if list == nil {
		return
	}
	for _, field := range list.List {
		for _, name := range field.Names {
			c.add(name, ctx, owner)
		}
	}
}

func (c *declarationCollector) add(id *ast.Ident, ctx abbrev.DeclarationContext, owner types.Type) {
	obj, ok := c.model.ResolveDeclaredSymbol(id)
	if !ok {
		return
	}
	if _, dup := c.seen[obj]; dup {
		return
	}
	c.seen[obj] = struct{}{}
	c.decls = append(c.decls, Declaration{Ident: id, Object: obj, Context: ctx, Owner: owner})
}

// isPackageLevel reports whether the node on top of stack sits in a top-level GenDecl.
func isPackageLevel(stack []ast.Node) bool {
	if len(stack) < 3 {
		return false
	}
	_, ok := stack[len(stack)-3].(*ast.File)
	return ok
}

func accessOf(id *ast.Ident) abbrev.Accessibility {
	if id.IsExported() {
		return abbrev.AccessPublic
	}
	return abbrev.AccessPrivate
}
