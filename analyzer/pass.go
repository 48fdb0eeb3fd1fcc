package analyzer

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/SergeiSkv/AbbrFix/abbrev"
)

// Name is the analyzer and plugin name.
const Name = "abbrfix"

const doc = `report identifiers with abbreviation casing and suggest a normalized name

Runs of upper-case letters such as HTTP or URL inside identifiers are rewritten to
Http and Url, with camelCase for parameters and local variables. Each diagnostic
carries one fix that renames the declaration and all of its uses in the package.`

// Settings configure the analyzer. The same keys are used by the CLI config file and the
// golangci-lint plugin.
type Settings struct {
	AbbreviationsToSkip []string            `json:"abbreviationsToSkip,omitempty" yaml:"abbreviationsToSkip,omitempty" toml:"abbreviationsToSkip,omitempty"`
	Strategy            string              `json:"strategy,omitempty" yaml:"strategy,omitempty" toml:"strategy,omitempty"`
	RenameTable         []abbrev.RenameRule `json:"renameTable,omitempty" yaml:"renameTable,omitempty" toml:"renameTable,omitempty"`
}

// Build returns the strategy described by s. An empty rename table selects the default one.
func (s Settings) Build() (abbrev.Strategy, error) {
	table := abbrev.DefaultRenameTable()
	if len(s.RenameTable) > 0 {
		var err error
		table, err = abbrev.NewRenameTable(s.RenameTable)
		if err != nil {
			return nil, errors.Wrap(err, "renameTable")
		}
	}
	return abbrev.NewStrategy(s.Strategy, abbrev.NewRuleSet(s.AbbreviationsToSkip...), table)
}

// New returns a go/analysis analyzer for settings.
func New(settings Settings) (*analysis.Analyzer, error) {
	strategy, err := settings.Build()
	if err != nil {
		return nil, err
	}

	run := func(pass *analysis.Pass) (any, error) {
		insp, ok := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
		if !ok {
			return nil, errors.New("inspector result missing")
		}
		in := NewInspector(strategy, zap.L().Named(Name))
		for _, f := range in.findings(insp, pass.Fset, pass.Files, pass.Pkg, pass.TypesInfo) {
			pass.Report(diagnostic(&f))
		}
		return nil, nil
	}

	return &analysis.Analyzer{
		Name:     Name,
		Doc:      doc,
		Run:      run,
		Requires: []*analysis.Analyzer{inspect.Analyzer},
	}, nil
}

func diagnostic(f *Finding) analysis.Diagnostic {
	newText := []byte(f.Proposal.NewName)
	edits := make([]analysis.TextEdit, 0, len(f.Refs))
	for _, id := range f.Refs {
		edits = append(edits, analysis.TextEdit{Pos: id.Pos(), End: id.End(), NewText: newText})
	}
	return analysis.Diagnostic{
		Pos:      f.Ident.Pos(),
		End:      f.Ident.End(),
		Category: f.Type.String(),
		Message:  message(f),
		SuggestedFixes: []analysis.SuggestedFix{{
			Message:   f.Proposal.Label(),
			TextEdits: edits,
		}},
	}
}
