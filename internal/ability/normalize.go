// Package ability segments card ability text into lines and splits each
// line into trigger, condition and effect fragments.
package ability

import (
	"regexp"
	"strings"
	"unicode"
)

var symbolCode = regexp.MustCompile(`\{[a-zA-Z]\}|\[[a-zA-Z]\]`)

// Normalize replaces every whitespace rune with an ASCII space and upper-cases
// single-letter symbol codes such as {j} or [r]. The rune count is preserved,
// so offsets computed on the result are valid on the input.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsSpace(r) {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(r)
	}
	return symbolCode.ReplaceAllStringFunc(b.String(), strings.ToUpper)
}
