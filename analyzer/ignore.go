package analyzer

import (
	"go/ast"
	"go/token"
	"strings"
)

const ignorePrefix = "abbr:ignore"

// IgnoreChecker checks if issues should be ignored based on comments
type IgnoreChecker struct {
	fset         *token.FileSet
	file         *ast.File
	ignoreRanges map[string][]ignoreRange // key is issue type, empty key means all types
}

type ignoreRange struct {
	startLine int
	endLine   int
	issueType string // empty means ignore all types
}

// NewIgnoreChecker creates a new ignore checker for a file
func NewIgnoreChecker(fset *token.FileSet, file *ast.File) *IgnoreChecker {
	ic := &IgnoreChecker{
		fset:         fset,
		file:         file,
		ignoreRanges: make(map[string][]ignoreRange, 4),
	}
	ic.parseIgnoreComments()
	return ic
}

func (ic *IgnoreChecker) parseIgnoreComments() {
	for _, cg := range ic.file.Comments {
		for _, c := range cg.List {
			text := ic.extractCommentText(c.Text)
			if strings.HasPrefix(text, ignorePrefix) {
				ic.processIgnoreDirective(text, c.Pos())
			}
		}
	}
}

func (ic *IgnoreChecker) extractCommentText(text string) string {
	if strings.HasPrefix(text, "//") {
		text = strings.TrimPrefix(text, "//")
	} else if strings.HasPrefix(text, "/*") {
		text = strings.TrimPrefix(text, "/*")
		text = strings.TrimSuffix(text, "*/")
	}
	return strings.TrimSpace(text)
}

func (ic *IgnoreChecker) processIgnoreDirective(text string, pos token.Pos) {
	line := ic.fset.PositionFor(pos, false).Line
	parts := strings.Fields(text)

	var issueTypes []string
	if len(parts) > 1 {
		issueTypes = strings.Split(parts[1], ",")
	}

	switch parts[0] {
	case ignorePrefix:
		ic.addIgnoreRanges(issueTypes, line+1, line+1)
	case ignorePrefix + "-line":
		ic.addIgnoreRanges(issueTypes, line, line)
	case ignorePrefix + "-next-line":
		ic.addIgnoreRanges(issueTypes, line+1, line+1)
	case ignorePrefix + "-file":
		ic.addIgnoreRanges(issueTypes, 0, int(^uint(0)>>1))
	}
}

// addIgnoreRanges registers the range for every listed type, or for all types when none
// (or "*") is listed.
func (ic *IgnoreChecker) addIgnoreRanges(issueTypes []string, startLine, endLine int) {
	if len(issueTypes) == 0 {
		ic.addIgnoreRange("", startLine, endLine)
		return
	}
	for _, issueType := range issueTypes {
		issueType = strings.TrimSpace(issueType)
		if issueType == "*" {
			issueType = ""
		}
		ic.addIgnoreRange(issueType, startLine, endLine)
	}
}

func (ic *IgnoreChecker) addIgnoreRange(issueType string, startLine, endLine int) {
	ic.ignoreRanges[issueType] = append(ic.ignoreRanges[issueType], ignoreRange{
		startLine: startLine,
		endLine:   endLine,
		issueType: issueType,
	})
}

// ShouldIgnore checks if an issue at a specific line should be ignored
func (ic *IgnoreChecker) ShouldIgnore(issueType string, line int) bool {
	return ic.inRange(issueType, line) || ic.inRange("", line)
}

func (ic *IgnoreChecker) inRange(key string, line int) bool {
	for _, r := range ic.ignoreRanges[key] {
		if line >= r.startLine && line <= r.endLine {
			return true
		}
	}
	return false
}

// Directives:
//
//	// abbr:ignore                         next line, all issue types
//	// abbr:ignore Abbreviation            next line, one type
//	// abbr:ignore-line LiteralRename      this line
//	// abbr:ignore-next-line *             next line, all types
//	// abbr:ignore-file Abbreviation       whole file
