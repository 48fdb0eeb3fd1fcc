package analyzer

import (
	"go/ast"
	"go/token"
	"go/types"
)

// SymbolModel answers the questions the rename engine asks of the type checker.
type SymbolModel interface {
	// ResolveDeclaredSymbol returns the object declared by id, or false when id declares
	// nothing that can be renamed.
	ResolveDeclaredSymbol(id *ast.Ident) (types.Object, bool)
	// IsNameAvailable reports whether decl can be renamed to name without clashing with
	// another symbol visible to it.
	IsNameAvailable(decl Declaration, name string) bool
	// IsContractBound reports whether decl is a method whose name is shared with another
	// package: a method satisfying an interface declared elsewhere, or an interface method
	// satisfied by a type declared elsewhere. Renaming either side alone breaks the match.
	IsContractBound(decl Declaration) bool
}

// contractMethods are looked up by name through type assertions in other packages, so a
// type can implement them without the interface ever appearing in its package.
var contractMethods = map[string]struct{}{
	"MarshalJSON":      {},
	"UnmarshalJSON":    {},
	"MarshalText":      {},
	"UnmarshalText":    {},
	"MarshalBinary":    {},
	"UnmarshalBinary":  {},
	"MarshalXML":       {},
	"UnmarshalXML":     {},
	"MarshalXMLAttr":   {},
	"UnmarshalXMLAttr": {},
	"MarshalYAML":      {},
	"UnmarshalYAML":    {},
	"MarshalTOML":      {},
	"UnmarshalTOML":    {},
	"GobEncode":        {},
	"GobDecode":        {},
	"ServeHTTP":        {},
	"RoundTrip":        {},
	"ServeDNS":         {},
	"GoString":         {},
}

type typesModel struct {
	pkg  *types.Package
	info *types.Info
	// foreign maps a method name to the interfaces declared outside pkg that require it.
	// Filled on first use.
	foreign map[string][]*types.Interface
	// concrete holds the foreign named types pkg mentions. Filled on first use.
	concrete []*types.Named
}

// NewSymbolModel returns a SymbolModel backed by go/types results for one package.
func NewSymbolModel(pkg *types.Package, info *types.Info) SymbolModel {
	return &typesModel{pkg: pkg, info: info}
}

func (m *typesModel) ResolveDeclaredSymbol(id *ast.Ident) (types.Object, bool) {
	if id == nil || id.Name == "_" {
		return nil, false
	}
	obj := m.info.Defs[id]
	switch obj.(type) {
	case nil, *types.PkgName, *types.Label:
		return nil, false
	}
	return obj, true
}

func (m *typesModel) IsNameAvailable(decl Declaration, name string) bool {
	if !token.IsIdentifier(name) {
		return false
	}
	if decl.Owner != nil {
		obj, _, _ := types.LookupFieldOrMethod(decl.Owner, true, m.pkg, name)
		return obj == nil
	}
	if decl.Object == nil {
		return true
	}
	scope := decl.Object.Parent()
	if scope == nil {
		return true
	}
	return !definedAbove(scope, name) && !definedBelow(scope, name)
}

func (m *typesModel) IsContractBound(decl Declaration) bool {
	fn, ok := decl.Object.(*types.Func)
	if !ok || !isMethod(fn) {
		return false
	}
	if _, ok := contractMethods[fn.Name()]; ok {
		return true
	}
	recv := receiverType(fn)
	if recv == nil {
		return false
	}
	if iface, ok := recv.Underlying().(*types.Interface); ok {
		// The interface is renamed with its method, but types from other packages that
		// satisfy it keep the old name.
		for _, t := range m.foreignNamed() {
			if satisfies(t, iface) {
				return true
			}
		}
		return false
	}
	if m.foreign == nil {
		m.foreign = foreignInterfaces(m.pkg, m.info)
	}
	for _, iface := range m.foreign[fn.Name()] {
		if satisfies(recv, iface) {
			return true
		}
	}
	return false
}

// foreignNamed lists the non-interface named types declared outside pkg that its
// expressions mention.
func (m *typesModel) foreignNamed() []*types.Named {
	if m.concrete != nil {
		return m.concrete
	}
	m.concrete = make([]*types.Named, 0, 8)
	seen := make(map[*types.TypeName]struct{})
	for _, tv := range m.info.Types {
		t := tv.Type
		if ptr, ok := t.(*types.Pointer); ok {
			t = ptr.Elem()
		}
		named, ok := t.(*types.Named)
		if !ok || named.Obj().Pkg() == nil || named.Obj().Pkg() == m.pkg || types.IsInterface(named) {
			continue
		}
		if _, dup := seen[named.Obj()]; dup {
			continue
		}
		seen[named.Obj()] = struct{}{}
		m.concrete = append(m.concrete, named)
	}
	return m.concrete
}

// foreignInterfaces indexes, by method name, the interfaces pkg can see whose methods are
// declared elsewhere: those in the scope of every package pkg imports, directly or not, and
// the types of its own expressions. Methods declared in pkg are renamed on both
// sides and do not count.
func foreignInterfaces(pkg *types.Package, info *types.Info) map[string][]*types.Interface {
	out := make(map[string][]*types.Interface)
	seen := make(map[*types.Interface]struct{})
	add := func(t types.Type) {
		iface, ok := t.Underlying().(*types.Interface)
		if !ok || iface.Empty() {
			return
		}
		if _, dup := seen[iface]; dup {
			return
		}
		seen[iface] = struct{}{}
		for i := range iface.NumMethods() {
			method := iface.Method(i)
			if method.Pkg() == pkg {
				continue
			}
			out[method.Name()] = append(out[method.Name()], iface)
		}
	}

	visited := make(map[*types.Package]struct{})
	var walk func(p *types.Package)
	walk = func(p *types.Package) {
		if _, ok := visited[p]; ok {
			return
		}
		visited[p] = struct{}{}
		scope := p.Scope()
		for _, name := range scope.Names() {
			if tn, ok := scope.Lookup(name).(*types.TypeName); ok && tn.Exported() {
				add(tn.Type())
			}
		}
		for _, imp := range p.Imports() {
			walk(imp)
		}
	}
	for _, imp := range pkg.Imports() {
		walk(imp)
	}
	for _, tv := range info.Types {
		if tv.Type != nil {
			add(tv.Type)
		}
	}
	return out
}

// definedAbove reports whether name is declared in scope or one of its parents, universe included.
func definedAbove(scope *types.Scope, name string) bool {
	for s := scope; s != nil; s = s.Parent() {
		if s.Lookup(name) != nil {
			return true
		}
	}
	return false
}

// definedBelow reports whether a nested scope declares name, which would shadow the rename.
func definedBelow(scope *types.Scope, name string) bool {
	for i := range scope.NumChildren() {
		child := scope.Child(i)
		if child.Lookup(name) != nil || definedBelow(child, name) {
			return true
		}
	}
	return false
}
