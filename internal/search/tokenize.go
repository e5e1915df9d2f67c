// Package search compiles faceted card queries into set expressions over
// ability line ids.
package search

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Token is one query term. Negated terms must not appear in a match.
type Token struct {
	Text    string
	Negated bool
}

var queryLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Phrase", Pattern: `"[^"]*"?`},
	{Name: "Dash", Pattern: `-`},
	{Name: "Word", Pattern: `[^\s"-][^\s"]*`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var (
	phraseToken = queryLexer.Symbols()["Phrase"]
	dashToken   = queryLexer.Symbols()["Dash"]
	wordToken   = queryLexer.Symbols()["Word"]
)

// Tokenize splits query text into terms. Double quotes group a phrase that is
// kept verbatim; an unterminated quote runs to the end of the input. A dash
// directly before a term negates it. Tokenize never fails.
func Tokenize(text string) []Token {
	lex, err := queryLexer.LexString("", text)
	if err != nil {
		return fieldTokens(text)
	}
	toks, err := lexer.ConsumeAll(lex)
	if err != nil {
		return fieldTokens(text)
	}

	var out []Token
	negate := false
	for _, t := range toks {
		switch t.Type {
		case dashToken:
			negate = true
			continue
		case phraseToken:
			phrase := strings.TrimSuffix(strings.TrimPrefix(t.Value, `"`), `"`)
			if strings.TrimSpace(phrase) != "" {
				out = append(out, Token{Text: phrase, Negated: negate})
			}
		case wordToken:
			out = append(out, Token{Text: t.Value, Negated: negate})
		}
		negate = false
	}
	return out
}

func fieldTokens(text string) []Token {
	var out []Token
	for _, f := range strings.Fields(text) {
		neg := strings.HasPrefix(f, "-")
		f = strings.TrimLeft(f, "-")
		if f != "" {
			out = append(out, Token{Text: f, Negated: neg})
		}
	}
	return out
}

// Partition separates positive and negated token texts.
func Partition(tokens []Token) (positive, negative []string) {
	for _, t := range tokens {
		if t.Negated {
			negative = append(negative, t.Text)
		} else {
			positive = append(positive, t.Text)
		}
	}
	return positive, negative
}
