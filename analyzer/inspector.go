package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/SergeiSkv/AbbrFix/abbrev"
	"github.com/SergeiSkv/AbbrFix/models"
)

// Finding is a declaration the strategy wants renamed, together with every identifier that
// refers to it: in its package, and in loaded importers when the Inspector has them.
type Finding struct {
	Declaration
	Proposal abbrev.Proposal
	Type     models.IssueType
	Refs     []*ast.Ident
}

// Inspector runs a rename strategy over the declarations of one type-checked package.
type Inspector struct {
	Strategy abbrev.Strategy
	Logger   *zap.Logger
	// Importers, when set, extends renames to the packages importing the inspected one and
	// holds back methods those packages rely on.
	Importers Importers
}

// NewInspector returns an Inspector; a nil logger discards output.
func NewInspector(strategy abbrev.Strategy, logger *zap.Logger) *Inspector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inspector{Strategy: strategy, Logger: logger}
}

// claim is a name handed out during one run, keyed by the namespace it lives in.
type claim struct {
	space any
	name  string
}

// Findings returns the renames for files in source order. Proposed names are checked against
// the package's symbols and against names proposed earlier in the same run.
func (in *Inspector) Findings(fset *token.FileSet, files []*ast.File, pkg *types.Package, info *types.Info) []Finding {
	return in.findings(inspector.New(files), fset, files, pkg, info)
}

func (in *Inspector) findings(
	insp *inspector.Inspector, fset *token.FileSet, files []*ast.File, pkg *types.Package, info *types.Info,
) []Finding {
	if in.Strategy == nil || pkg == nil || info == nil || len(files) == 0 {
		return nil
	}
	logger := in.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	byName := make(map[string]*ast.File, len(files))
	for _, f := range files {
		byName[fset.File(f.FileStart).Name()] = f
	}
	checkers := make(map[string]*IgnoreChecker, len(files))

	model := NewSymbolModel(pkg, info)
	decls := CollectDeclarations(insp, info, model)
	refs := referenceIndex(info)
	claimed := make(map[claim]struct{})

	findings := make([]Finding, 0, 8)
	for _, decl := range decls {
		pos := fset.PositionFor(decl.Ident.Pos(), false)
		file := byName[pos.Filename]
		if file == nil || ast.IsGenerated(file) {
			continue
		}

		proposal, ok := in.Strategy.Propose(decl.Ident.Name, decl.Context)
		if !ok {
			continue
		}
		if model.IsContractBound(decl) || (in.Importers != nil && in.Importers.Bound(decl.Object)) {
			logger.Debug("name required by an interface", zap.String("identifier", decl.Ident.Name), zap.Stringer("position", pos))
			continue
		}
		issueType := issueTypeOf(proposal)

		checker, ok := checkers[pos.Filename]
		if !ok {
			checker = NewIgnoreChecker(fset, file)
			checkers[pos.Filename] = checker
		}
		if checker.ShouldIgnore(issueType.String(), pos.Line) {
			logger.Debug("ignored by directive", zap.String("identifier", decl.Ident.Name), zap.Stringer("position", pos))
			continue
		}

		space := namespaceOf(decl)
		proposal = proposal.WithCollisions(func(name string) bool {
			if _, taken := claimed[claim{space, name}]; taken {
				return false
			}
			return model.IsNameAvailable(decl, name)
		})
		claimed[claim{space, proposal.NewName}] = struct{}{}

		declRefs := refs[decl.Object]
		if in.Importers != nil {
			declRefs = slices.Concat(declRefs, in.Importers.Refs(decl.Object))
		}
		findings = append(findings, Finding{
			Declaration: decl,
			Proposal:    proposal,
			Type:        issueType,
			Refs:        declRefs,
		})
	}

	logger.Debug("package inspected",
		zap.String("package", pkg.Path()),
		zap.Int("declarations", len(decls)),
		zap.Int("findings", len(findings)),
	)
	return findings
}

// Inspect converts the findings for files into issues carrying byte-offset edits.
func (in *Inspector) Inspect(fset *token.FileSet, files []*ast.File, pkg *types.Package, info *types.Info) []*models.Issue {
	findings := in.Findings(fset, files, pkg, info)
	issues := make([]*models.Issue, 0, len(findings))
	for i := range findings {
		issues = append(issues, newIssue(fset, &findings[i]))
	}
	return issues
}

func newIssue(fset *token.FileSet, f *Finding) *models.Issue {
	pos := fset.PositionFor(f.Ident.Pos(), false)
	edits := make([]models.TextEdit, 0, len(f.Refs))
	for _, id := range f.Refs {
		p := fset.PositionFor(id.Pos(), false)
		edits = append(edits, models.TextEdit{
			File:    p.Filename,
			Offset:  p.Offset,
			Length:  len(id.Name),
			NewText: f.Proposal.NewName,
		})
	}

	issue := &models.Issue{
		File:       pos.Filename,
		Line:       pos.Line,
		Column:     pos.Column,
		Position:   pos,
		Type:       f.Type,
		Severity:   f.Type.Severity(),
		Message:    message(f),
		Suggestion: f.Proposal.Label(),
		Identifier: f.Ident.Name,
		NewName:    f.Proposal.NewName,
		Context:    f.Context.String(),
		Edits:      edits,
		CanBeFixed: len(edits) > 0,
	}
	issue.ID = issueID(issue)
	return issue
}

func message(f *Finding) string {
	if f.Type == models.IssueLiteralRename {
		return fmt.Sprintf("%q is listed in the rename table", f.Ident.Name)
	}
	return fmt.Sprintf("%q contains abbreviation %s", f.Ident.Name, strings.Join(f.Proposal.Abbreviations(), ", "))
}

func issueTypeOf(p abbrev.Proposal) models.IssueType {
	if len(p.Spans) == 0 {
		return models.IssueLiteralRename
	}
	return models.IssueAbbreviation
}

// issueID is stable across runs for the same identifier at the same place.
func issueID(issue *models.Issue) string {
	data := fmt.Sprintf("%s:%d:%d:%s", issue.File, issue.Line, issue.Column, issue.Identifier)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:8])
}

// namespaceOf returns the type for members and the scope for everything else.
func namespaceOf(decl Declaration) any {
	if decl.Owner != nil {
		if ptr, ok := decl.Owner.(*types.Pointer); ok {
			return ptr.Elem()
		}
		return decl.Owner
	}
	return decl.Object.Parent()
}

// referenceIndex maps every object to the identifiers that define or use it, sorted by
// position. An embedded field is named after its type, so it is indexed under both.
func referenceIndex(info *types.Info) map[types.Object][]*ast.Ident {
	refs := make(map[types.Object][]*ast.Ident, len(info.Defs)+len(info.Uses))
	for id, obj := range info.Defs {
		if obj != nil {
			refs[obj] = append(refs[obj], id)
		}
	}
	for id, obj := range info.Uses {
		refs[obj] = append(refs[obj], id)
	}
	for id, obj := range info.Defs {
		field, ok := obj.(*types.Var)
		if !ok || !field.Embedded() {
			continue
		}
		if typeName, ok := info.Uses[id].(*types.TypeName); ok {
			refs[typeName] = append(refs[typeName], refs[field]...)
		}
	}

	for obj, ids := range refs {
		sort.Slice(ids, func(i, j int) bool { return ids[i].Pos() < ids[j].Pos() })
		unique := ids[:0]
		for _, id := range ids {
			if len(unique) > 0 && unique[len(unique)-1] == id {
				continue
			}
			unique = append(unique, id)
		}
		refs[obj] = unique
	}
	return refs
}
