// Package abbrev detects abbreviations in identifiers and proposes normalized names.
package abbrev

import "strings"

// DeclarationKind is the syntactic role of the declaration owning an identifier
type DeclarationKind uint8

const (
	KindOther DeclarationKind = iota
	KindInterface
	KindParameter
	KindField
	KindLocalVariable
)

var kindNames = [...]string{
	KindOther:         "Other",
	KindInterface:     "Interface",
	KindParameter:     "Parameter",
	KindField:         "Field",
	KindLocalVariable: "LocalVariable",
}

func (k DeclarationKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Other"
}

// ParseDeclarationKind accepts the names returned by String, case-insensitively
func ParseDeclarationKind(s string) (DeclarationKind, bool) {
	for i, name := range kindNames {
		if strings.EqualFold(name, s) {
			return DeclarationKind(i), true
		}
	}
	return KindOther, false
}

// Accessibility is ordered from least to most visible, so "<= AccessPrivate" reads naturally.
type Accessibility uint8

const (
	AccessNotApplicable Accessibility = iota
	AccessPrivate
	AccessProtected
	AccessInternal
	AccessPublic
)

var accessNames = [...]string{
	AccessNotApplicable: "NotApplicable",
	AccessPrivate:       "Private",
	AccessProtected:     "Protected",
	AccessInternal:      "Internal",
	AccessPublic:        "Public",
}

func (a Accessibility) String() string {
	if int(a) < len(accessNames) {
		return accessNames[a]
	}
	return "NotApplicable"
}

// ParseAccessibility accepts the names returned by String, case-insensitively
func ParseAccessibility(s string) (Accessibility, bool) {
	for i, name := range accessNames {
		if strings.EqualFold(name, s) {
			return Accessibility(i), true
		}
	}
	return AccessNotApplicable, false
}

// DeclarationContext drives the casing and prefix decisions of the rewriter.
// Access is only consulted for KindField.
type DeclarationContext struct {
	Kind   DeclarationKind
	Access Accessibility
}

// Other is the context used when nothing is known about the declaration.
var Other = DeclarationContext{Kind: KindOther}

func Interface() DeclarationContext     { return DeclarationContext{Kind: KindInterface} }
func Parameter() DeclarationContext     { return DeclarationContext{Kind: KindParameter} }
func LocalVariable() DeclarationContext { return DeclarationContext{Kind: KindLocalVariable} }

func Field(access Accessibility) DeclarationContext {
	return DeclarationContext{Kind: KindField, Access: access}
}

// IsPrivateField reports whether the context is a field with accessibility <= Private.
func (c DeclarationContext) IsPrivateField() bool {
	return c.Kind == KindField && c.Access <= AccessPrivate
}

func (c DeclarationContext) String() string {
	if c.Kind == KindField {
		return c.Kind.String() + "(" + c.Access.String() + ")"
	}
	return c.Kind.String()
}
