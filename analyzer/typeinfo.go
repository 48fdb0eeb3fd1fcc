package analyzer

import (
	"context"
	"go/ast"
	"go/importer"
	"go/token"
	"go/types"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"
)

var errNoTypesInfo = errors.New("no type information returned")

// Package is one type-checked package ready for inspection.
type Package struct {
	Path  string
	Fset  *token.FileSet
	Files []*ast.File
	Types *types.Package
	Info  *types.Info
	// Errors are load and type errors; the package may still be usable.
	Errors []error
}

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedForTest

// LoadPackages loads and type-checks the packages matching patterns, resolved relative to
// dir. Packages without type information are dropped; their errors are reported on the
// returned packages that have them.
func LoadPackages(ctx context.Context, dir string, tests bool, patterns ...string) ([]*Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	fset := token.NewFileSet()
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Fset:    fset,
		Mode:    loadMode,
		Tests:   tests,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "load %v", patterns)
	}

	// With tests enabled a package is loaded again as its test variant, which has all of its
	// files, and packages recompiled for another package's test show up once more. Keep one
	// copy per import path, preferring the package's own test variant, and skip the
	// generated test mains.
	best := make(map[string]*packages.Package, len(pkgs))
	order := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		if p.Types == nil || p.TypesInfo == nil || len(p.Syntax) == 0 {
			continue
		}
		if strings.HasSuffix(p.PkgPath, ".test") {
			continue
		}
		current, seen := best[p.PkgPath]
		if !seen {
			order = append(order, p.PkgPath)
		}
		if !seen || variantRank(p) > variantRank(current) {
			best[p.PkgPath] = p
		}
	}

	loaded := make([]*Package, 0, len(order))
	for _, path := range order {
		p := best[path]
		pkg := &Package{
			Path:  p.PkgPath,
			Fset:  fset,
			Files: p.Syntax,
			Types: p.Types,
			Info:  p.TypesInfo,
		}
		for _, e := range p.Errors {
			pkg.Errors = append(pkg.Errors, e)
		}
		loaded = append(loaded, pkg)
	}
	if len(loaded) == 0 && len(pkgs) > 0 {
		return nil, errors.Wrapf(errNoTypesInfo, "load %v", patterns)
	}
	return loaded, nil
}

// variantRank orders the copies of one import path: the package's own test variant, then
// the plain package, then variants recompiled for other tests. The ID is consulted as well
// because ForTest is only filled when the loader honors NeedForTest.
func variantRank(p *packages.Package) int {
	switch {
	case p.ForTest == p.PkgPath || p.ID == p.PkgPath+" ["+p.PkgPath+".test]":
		return 2
	case !strings.Contains(p.ID, " ["):
		return 1
	default:
		return 0
	}
}

// CheckFiles type-checks files as a single package using compiled export data for imports.
// Type errors are returned alongside the partial result.
func CheckFiles(fset *token.FileSet, files []*ast.File) (*Package, error) {
	if len(files) == 0 {
		return nil, errors.New("no files to check")
	}
	info := &types.Info{
		Types: make(map[ast.Expr]types.TypeAndValue),
		Defs:  make(map[*ast.Ident]types.Object),
		Uses:  make(map[*ast.Ident]types.Object),
	}

	var typeErrors []error
	conf := types.Config{
		FakeImportC: true,
		Importer:    importer.Default(),
		Error:       func(err error) { typeErrors = append(typeErrors, err) },
	}
	pkg, _ := conf.Check(files[0].Name.Name, fset, files, info)

	result := &Package{
		Path:   pkg.Path(),
		Fset:   fset,
		Files:  files,
		Types:  pkg,
		Info:   info,
		Errors: typeErrors,
	}
	if len(typeErrors) > 0 {
		return result, errors.Wrapf(typeErrors[0], "type-check %s", pkg.Path())
	}
	return result, nil
}
