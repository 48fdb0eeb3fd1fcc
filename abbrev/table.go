package abbrev

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// RenameRule is one literal substitution of a RenameTable.
type RenameRule struct {
	From string `yaml:"from" json:"from" toml:"from"`
	To   string `yaml:"to" json:"to" toml:"to"`
}

// RenameTable is an ordered list of literal substitutions. Rules are applied one after
// another, each on the output of the previous one, not simultaneously.
type RenameTable struct {
	rules []RenameRule
}

// DefaultRenameTable returns the built-in table of known whole-token renames.
func DefaultRenameTable() RenameTable {
	return RenameTable{rules: []RenameRule{
		{From: "ClientCompanyWSID", To: "ClientCompanyWSId"},
		{From: "ClientCompanyWsid", To: "ClientCompanyWSId"},
		{From: "BatchIDPK", To: "BatchIdPK"},
		{From: "BatchIdpk", To: "BatchIdPK"},
		{From: "WMID", To: "WMId"},
		{From: "Wmid", To: "WMId"},
		{From: "HOSTIPAddress", To: "HostIPAddress"},
		{From: "HostipAddress", To: "HostIPAddress"},
	}}
}

// NewRenameTable copies rules into a table. Rules with an empty 'from' are rejected.
func NewRenameTable(rules []RenameRule) (RenameTable, error) {
	copied := make([]RenameRule, len(rules))
	copy(copied, rules)

	for i, rule := range copied {
		if rule.From == "" {
			return RenameTable{}, errors.WithHint(
				errors.Newf("rename rule %d (to %q): empty 'from'", i, rule.To),
				"every renameTable entry needs a non-empty 'from' value",
			)
		}
	}
	return RenameTable{rules: copied}, nil
}

// Idempotent reports whether no replacement contains a key, the condition under which
// applying the table to its own output is expected to be a no-op.
func (t RenameTable) Idempotent() bool {
	for _, rule := range t.rules {
		for _, other := range t.rules {
			if strings.Contains(rule.To, other.From) {
				return false
			}
		}
	}
	return true
}

// Apply performs the sequential, case-sensitive substitution.
func (t RenameTable) Apply(identifier string) string {
	out := identifier
	for _, rule := range t.rules {
		out = strings.ReplaceAll(out, rule.From, rule.To)
	}
	return out
}

// Rules returns a copy of the table, in order.
func (t RenameTable) Rules() []RenameRule {
	out := make([]RenameRule, len(t.rules))
	copy(out, t.rules)
	return out
}

func (t RenameTable) Len() int {
	return len(t.rules)
}
