package models

import (
	"go/token"
)

// Issue is an identifier that does not follow the abbreviation casing convention
type Issue struct {
	ID         string         `json:"id,omitempty"`
	File       string         `json:"file,omitempty"`
	Line       int            `json:"line,omitempty"`
	Column     int            `json:"column,omitempty"`
	Position   token.Position `json:"position"`
	Type       IssueType      `json:"type"`
	Severity   SeverityLevel  `json:"severity"`
	Message    string         `json:"message,omitempty"`
	Suggestion string         `json:"suggestion,omitempty"`
	Identifier string         `json:"identifier"`
	NewName    string         `json:"new_name,omitempty"`
	Context    string         `json:"context,omitempty"`
	Edits      []TextEdit     `json:"edits,omitempty"`
	CanBeFixed bool           `json:"can_be_fixed,omitempty"`
}

// TextEdit replaces the bytes [Offset, Offset+Length) of File with NewText
type TextEdit struct {
	File    string `json:"file"`
	Offset  int    `json:"offset"`
	Length  int    `json:"length"`
	NewText string `json:"new_text"`
}

// End is the offset just past the replaced range
func (e TextEdit) End() int {
	return e.Offset + e.Length
}
