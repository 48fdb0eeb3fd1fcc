package abbrev

import (
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	StrategySpan  = "span"
	StrategyTable = "table"
)

// Proposal is a suggested rename for one identifier.
type Proposal struct {
	Original string `json:"original"`
	NewName  string `json:"new_name"`
	// Analyzed is the string the spans were detected in: Original after the rename table.
	// Span offsets index into Analyzed, not into Original.
	Analyzed string `json:"analyzed,omitempty"`
	Spans    []Span `json:"spans,omitempty"`
}

// Abbreviations returns the abbreviation each span stands for, without the capital that starts
// the following word (HTTP for the span HTTPS of HTTPServer).
func (p Proposal) Abbreviations() []string {
	out := make([]string, 0, len(p.Spans))
	for _, span := range p.Spans {
		out = append(out, Canonical(p.Analyzed, span))
	}
	return out
}

// Label is the human-readable action title of the fix.
func (p Proposal) Label() string {
	return "Rename to " + p.NewName
}

// WithCollisions returns the proposal with NewName made acceptable to isAvailable.
func (p Proposal) WithCollisions(isAvailable func(string) bool) Proposal {
	p.NewName = Resolve(p.NewName, isAvailable)
	return p
}

// Strategy turns an identifier and its declaration context into a rename proposal.
// The boolean result is false when no change is needed.
type Strategy interface {
	Name() string
	Propose(identifier string, ctx DeclarationContext) (Proposal, bool)
}

// SpanStrategy is the full span analysis for case-sensitive declarations.
// Identifiers changed by Table are analyzed in their table-rewritten form.
type SpanStrategy struct {
	Rules RuleSet
	Table RenameTable
}

func (s SpanStrategy) Name() string { return StrategySpan }

func (s SpanStrategy) Propose(identifier string, ctx DeclarationContext) (Proposal, bool) {
	seed := s.Table.Apply(identifier)
	spans := Detect(seed, ctx, s.Rules)
	result := Rewrite(seed, spans, ctx)
	if result.Name == identifier {
		return Proposal{}, false
	}
	return Proposal{Original: identifier, NewName: result.Name, Analyzed: seed, Spans: spans}, true
}

// TableStrategy only performs whole-token literal substitution, for declarations where
// context-aware casing is unsafe.
type TableStrategy struct {
	Table RenameTable
}

func (s TableStrategy) Name() string { return StrategyTable }

func (s TableStrategy) Propose(identifier string, _ DeclarationContext) (Proposal, bool) {
	newName := s.Table.Apply(identifier)
	if newName == identifier {
		return Proposal{}, false
	}
	return Proposal{Original: identifier, NewName: newName}, true
}

// NewStrategy builds a strategy by name; "" selects the span strategy.
func NewStrategy(name string, rules RuleSet, table RenameTable) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategySpan:
		return SpanStrategy{Rules: rules, Table: table}, nil
	case StrategyTable:
		return TableStrategy{Table: table}, nil
	default:
		return nil, errors.WithHint(
			errors.Newf("unknown strategy %q", name),
			"use \"span\" or \"table\"",
		)
	}
}
