package abbrev

import "regexp"

// Span is one abbreviation found in an identifier. Start and Length are byte offsets.
type Span struct {
	Start  int    `json:"start"`
	Length int    `json:"length"`
	Text   string `json:"text"`
}

// End is the offset just past the span.
func (s Span) End() int {
	return s.Start + s.Length
}

const abbreviationPattern = `\d+[A-Z]{2,}$|\d+[A-Z]{3,}|[A-Z]{2,}$|[A-Z]{2,}\d+|[A-Z]{3,}`

var (
	abbreviationRe = regexp.MustCompile(abbreviationPattern)
	// The leading I of an interface name is not an abbreviation (IDDeal is fine).
	interfaceAbbreviationRe = regexp.MustCompile(`^I|(` + abbreviationPattern + `)`)
)

// Detect returns the abbreviation spans of identifier in ascending order, dropping every span
// whose canonical form is in rules.
//
// Examples (matched / not matched):
//
//	NAME, NameDDisable3DD, Name3DDaDDaDD, Name3DS1, NameDX3, DX3name, Name773DB33TFTname222DXS
//	D3Xcase, Name33nA
func Detect(identifier string, ctx DeclarationContext, rules RuleSet) []Span {
	if identifier == "" {
		return nil
	}

	re := abbreviationRe
	leadingI := isInterfaceWithLeadingI(identifier, ctx)
	if leadingI {
		re = interfaceAbbreviationRe
	}

	matches := re.FindAllStringIndex(identifier, -1)
	spans := make([]Span, 0, len(matches))
	for i, m := range matches {
		// The first match is always dropped for I-prefixed interfaces, whatever it matched.
		if leadingI && i == 0 {
			continue
		}

		if rules.Contains(canonicalForm(window(identifier, m[0], m[1]))) {
			continue
		}

		spans = append(spans, Span{
			Start:  m[0],
			Length: m[1] - m[0],
			Text:   identifier[m[0]:m[1]],
		})
	}
	return spans
}

// window is the match plus the character after it, which decides whether the match's last
// capital belongs to the next word.
func window(identifier string, start, end int) string {
	if len(identifier) > end {
		end++
	}
	return identifier[start:end]
}

// Canonical returns the abbreviation span stands for in identifier, the form matched against
// the skip-list. It falls back to the span text when the span is out of range or has no
// qualifying run of capitals.
func Canonical(identifier string, span Span) string {
	if span.Start < 0 || span.Length <= 0 || span.End() > len(identifier) {
		return span.Text
	}
	if c := canonicalForm(window(identifier, span.Start, span.End())); c != "" {
		return c
	}
	return span.Text
}

func isInterfaceWithLeadingI(identifier string, ctx DeclarationContext) bool {
	return ctx.Kind == KindInterface && identifier != "" && identifier[0] == 'I'
}

// canonicalForm returns the first run of two or more uppercase letters in window that is not
// followed by a lowercase letter, shrinking the run from the right like a backtracking
// ([A-Z]{2,})(?![a-z]) would. When the word continues after an abbreviation, the last capital
// starts the next word and is not part of it. Returns "" when nothing qualifies.
func canonicalForm(window string) string {
	for i := 0; i < len(window); i++ {
		if !isUpper(window[i]) {
			continue
		}
		j := i
		for j < len(window) && isUpper(window[j]) {
			j++
		}
		for k := j; k >= i+2; k-- {
			if k == len(window) || !isLower(window[k]) {
				return window[i:k]
			}
		}
	}
	return ""
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
