package models

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// IssueType identifies which correction strategy flagged an identifier
type IssueType uint16

const (
	// IssueAbbreviation is reported by the span analysis
	IssueAbbreviation IssueType = iota + 1
	// IssueLiteralRename is reported by the literal rename table
	IssueLiteralRename

	// Sentinel
	IssueTypeMax
)

var issueNames = map[IssueType]string{
	IssueAbbreviation:  "Abbreviation",
	IssueLiteralRename: "LiteralRename",
}

func (i IssueType) String() string {
	if name, ok := issueNames[i]; ok {
		return name
	}
	return fmt.Sprintf("IssueType(%d)", uint16(i))
}

// IssueTypeFromString is the inverse of String
func IssueTypeFromString(s string) (IssueType, bool) {
	for t, name := range issueNames {
		if name == s {
			return t, true
		}
	}
	return 0, false
}

var issueSeverityMap = map[IssueType]SeverityLevel{
	IssueAbbreviation:  SeverityLevelMedium,
	IssueLiteralRename: SeverityLevelMedium,
}

// Severity returns the default severity for this issue type
func (i IssueType) Severity() SeverityLevel {
	if severity, ok := issueSeverityMap[i]; ok {
		return severity
	}
	return SeverityLevelLow
}

// GetRuleID returns the stable rule identifier, e.g. ABR-001
func (i IssueType) GetRuleID() string {
	return fmt.Sprintf("ABR-%03d", uint16(i))
}

func (i IssueType) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *IssueType) UnmarshalText(text []byte) error {
	t, ok := IssueTypeFromString(string(text))
	if !ok {
		return errors.Newf("unknown issue type %q", text)
	}
	*i = t
	return nil
}
