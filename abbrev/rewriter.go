package abbrev

import (
	"regexp"
	"strings"
)

// Digits followed by a single capital that is not itself followed by a digit.
var firstAfterDigitRe = regexp.MustCompile(`^\d+([A-Z])[^\d]`)

// Result is the output of Rewrite. Name already carries Prefix.
type Result struct {
	Name    string
	Prefix  string
	Changed bool
}

// Rewrite normalizes every span of identifier to a capitalized word:
//   - the span is lower-cased and its first character upper-cased;
//   - a span right after a leading '_' starts lower-case;
//   - a span at index 0 starts lower-case for parameters, locals and private fields,
//     and private fields additionally get the '_' prefix;
//   - a capital following a leading digit run stays upper-case;
//   - the last character is upper-cased when the identifier continues after the span.
//
// Spans must be sorted and non-overlapping; spans that are not are ignored.
func Rewrite(identifier string, spans []Span, ctx DeclarationContext) Result {
	var (
		prefix string
		name   strings.Builder
	)
	name.Grow(len(identifier) + 1)

	for _, span := range spans {
		if span.Length <= 0 || span.Start < name.Len() || span.End() > len(identifier) {
			continue
		}
		name.WriteString(identifier[name.Len():span.Start])

		text := identifier[span.Start:span.End()]
		word := []byte(text)
		for i := range word {
			word[i] = toLower(word[i])
		}
		word[0] = toUpper(word[0])

		if span.Start == 1 && identifier[0] == '_' {
			word[0] = toLower(word[0])
		}

		if span.Start == 0 {
			switch {
			case ctx.Kind == KindParameter, ctx.Kind == KindLocalVariable:
				word[0] = toLower(word[0])
			case ctx.IsPrivateField():
				prefix = "_"
				word[0] = toLower(word[0])
			}
		}

		if m := firstAfterDigitRe.FindStringSubmatchIndex(text); m != nil {
			word[m[2]] = toUpper(word[m[2]])
		}

		if span.End() != len(identifier) {
			word[len(word)-1] = toUpper(word[len(word)-1])
		}

		name.Write(word)
	}

	name.WriteString(identifier[name.Len():])

	newName := prefix + name.String()
	return Result{
		Name:    newName,
		Prefix:  prefix,
		Changed: newName != identifier,
	}
}

func toUpper(c byte) byte {
	if isLower(c) {
		return c - 'a' + 'A'
	}
	return c
}

func toLower(c byte) byte {
	if isUpper(c) {
		return c - 'A' + 'a'
	}
	return c
}
