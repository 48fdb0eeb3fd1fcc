package analyzer

import (
	"go/ast"
	"go/types"
	"sort"

	"golang.org/x/tools/go/types/objectpath"
)

// Importers answers questions about the loaded packages that import the inspected one.
type Importers interface {
	// Refs returns the identifiers outside obj's package that refer to obj.
	Refs(obj types.Object) []*ast.Ident
	// Bound reports whether renaming the method obj would break interface satisfaction in
	// an importing package.
	Bound(obj types.Object) bool
}

// objectKey names an object independently of the type-checker run that produced it, so a
// package checked from source matches the export-data view its importers have.
type objectKey struct {
	pkg  string
	path objectpath.Path
}

// ImporterIndex is an Importers built from one load. It is read-only once built.
type ImporterIndex struct {
	refs    map[objectKey][]*ast.Ident
	byPath  map[string]*Package
	imports map[string][]*Package
}

// IndexImporters indexes every identifier in pkgs that refers to an object declared in
// another of pkgs. An embedded field takes its name from its type, so selections of the
// field are indexed under the type as well.
func IndexImporters(pkgs []*Package) *ImporterIndex {
	x := &ImporterIndex{
		refs:    make(map[objectKey][]*ast.Ident),
		byPath:  make(map[string]*Package, len(pkgs)),
		imports: make(map[string][]*Package),
	}
	for _, pkg := range pkgs {
		if pkg.Types != nil && pkg.Info != nil {
			x.byPath[pkg.Path] = pkg
		}
	}

	var enc objectpath.Encoder
	keyOf := func(obj types.Object) (objectKey, bool) {
		if obj == nil || obj.Pkg() == nil {
			return objectKey{}, false
		}
		if _, loaded := x.byPath[obj.Pkg().Path()]; !loaded {
			return objectKey{}, false
		}
		path, err := enc.For(obj)
		if err != nil {
			return objectKey{}, false
		}
		return objectKey{pkg: obj.Pkg().Path(), path: path}, true
	}

	for _, pkg := range x.byPath {
		for _, imp := range pkg.Types.Imports() {
			if _, loaded := x.byPath[imp.Path()]; loaded && imp.Path() != pkg.Path {
				x.imports[imp.Path()] = append(x.imports[imp.Path()], pkg)
			}
		}

		fieldUses := make(map[types.Object][]*ast.Ident)
		for id, obj := range pkg.Info.Uses {
			if v, ok := obj.(*types.Var); ok && v.Embedded() {
				fieldUses[v] = append(fieldUses[v], id)
			}
			if obj.Pkg() == nil || obj.Pkg().Path() == pkg.Path {
				continue
			}
			if key, ok := keyOf(obj); ok {
				x.refs[key] = append(x.refs[key], id)
			}
		}
		for id, obj := range pkg.Info.Defs {
			field, ok := obj.(*types.Var)
			if !ok || !field.Embedded() || field.Pkg() == nil || field.Pkg().Path() != pkg.Path {
				continue
			}
			typeName, ok := pkg.Info.Uses[id].(*types.TypeName)
			if !ok || typeName.Pkg() == nil || typeName.Pkg().Path() == pkg.Path {
				continue
			}
			if key, ok := keyOf(typeName); ok {
				x.refs[key] = append(x.refs[key], fieldUses[field]...)
			}
		}
	}

	for key, ids := range x.refs {
		sort.Slice(ids, func(i, j int) bool { return ids[i].Pos() < ids[j].Pos() })
		x.refs[key] = ids
	}
	return x
}

// Refs implements Importers.
func (x *ImporterIndex) Refs(obj types.Object) []*ast.Ident {
	if x == nil || obj == nil || obj.Pkg() == nil {
		return nil
	}
	path, err := objectpath.For(obj)
	if err != nil {
		return nil
	}
	return x.refs[objectKey{pkg: obj.Pkg().Path(), path: path}]
}

// Bound implements Importers. An interface method is bound when a type declared in an
// importer satisfies the interface; a concrete method is bound when its receiver satisfies
// an interface declared in an importer.
func (x *ImporterIndex) Bound(obj types.Object) bool {
	fn, ok := obj.(*types.Func)
	if x == nil || !ok || fn.Pkg() == nil || !isMethod(fn) {
		return false
	}
	path, err := objectpath.For(fn)
	if err != nil {
		return false
	}

	for _, importer := range x.imports[fn.Pkg().Path()] {
		view := importedView(importer.Types, fn.Pkg().Path(), path)
		if view == nil {
			continue
		}
		recv := receiverType(view)
		if recv == nil {
			continue
		}
		if iface, ok := recv.Underlying().(*types.Interface); ok {
			if implementedIn(importer.Types, iface) {
				return true
			}
			continue
		}
		if satisfiesLocalInterface(importer.Types, recv, fn.Name()) {
			return true
		}
	}
	return false
}

// importedView resolves path in the copy of pkgPath that importer was checked against.
func importedView(importer *types.Package, pkgPath string, path objectpath.Path) *types.Func {
	for _, imp := range importer.Imports() {
		if imp.Path() != pkgPath {
			continue
		}
		obj, err := objectpath.Object(imp, path)
		if err != nil {
			return nil
		}
		fn, _ := obj.(*types.Func)
		return fn
	}
	return nil
}

// implementedIn reports whether a non-interface type declared at package level in pkg
// satisfies iface through its value or pointer method set.
func implementedIn(pkg *types.Package, iface *types.Interface) bool {
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() || types.IsInterface(tn.Type()) {
			continue
		}
		if satisfies(tn.Type(), iface) {
			return true
		}
	}
	return false
}

// satisfiesLocalInterface reports whether recv satisfies an interface declared in pkg that
// itself declares method name.
func satisfiesLocalInterface(pkg *types.Package, recv types.Type, name string) bool {
	scope := pkg.Scope()
	for _, n := range scope.Names() {
		tn, ok := scope.Lookup(n).(*types.TypeName)
		if !ok {
			continue
		}
		iface, ok := tn.Type().Underlying().(*types.Interface)
		if !ok || !declaresMethod(iface, name, pkg) {
			continue
		}
		if satisfies(recv, iface) {
			return true
		}
	}
	return false
}

func satisfies(t types.Type, iface *types.Interface) bool {
	if iface.Empty() {
		return false
	}
	return types.Implements(t, iface) || types.Implements(types.NewPointer(t), iface)
}

// declaresMethod reports whether iface has a method called name declared in pkg.
func declaresMethod(iface *types.Interface, name string, pkg *types.Package) bool {
	for i := range iface.NumMethods() {
		m := iface.Method(i)
		if m.Name() == name && m.Pkg() == pkg {
			return true
		}
	}
	return false
}

func isMethod(fn *types.Func) bool {
	sig, ok := fn.Type().(*types.Signature)
	return ok && sig.Recv() != nil
}

// receiverType returns the type a method is declared on, looking through a pointer. For
// an interface method it is the named interface or the interface itself.
func receiverType(fn *types.Func) types.Type {
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		return nil
	}
	t := sig.Recv().Type()
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	return t
}
