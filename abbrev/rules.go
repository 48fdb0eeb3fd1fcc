package abbrev

import "sort"

// RuleSet holds the abbreviations that are officially sanctioned and never flagged.
// The zero value is an empty set. A RuleSet is never mutated after construction.
type RuleSet struct {
	skip map[string]struct{}
}

// NewRuleSet builds a RuleSet from the configured abbreviationsToSkip list.
func NewRuleSet(abbreviations ...string) RuleSet {
	if len(abbreviations) == 0 {
		return RuleSet{}
	}
	skip := make(map[string]struct{}, len(abbreviations))
	for _, a := range abbreviations {
		skip[a] = struct{}{}
	}
	return RuleSet{skip: skip}
}

// Contains is an exact, case-sensitive membership test.
func (r RuleSet) Contains(canonical string) bool {
	_, ok := r.skip[canonical]
	return ok
}

func (r RuleSet) Len() int {
	return len(r.skip)
}

// List returns the members sorted, for display.
func (r RuleSet) List() []string {
	out := make([]string, 0, len(r.skip))
	for a := range r.skip {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
