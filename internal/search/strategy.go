package search

import (
	"unicode/utf8"

	"github.com/Taum/marketbot-sub000/internal/domain"
)

// Options tunes compilation. The ranked thresholds decide when the
// index-assisted text predicate is used instead of a plain substring scan.
type Options struct {
	MaxCombinations      int
	RankedMinTokens      int
	RankedMinTokenLength int
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		MaxCombinations:      3,
		RankedMinTokens:      5,
		RankedMinTokenLength: 15,
	}
}

// SelectTextStrategy picks the ranked (trigram indexed) predicate for long
// free-text queries when no facet field is present, and substring matching
// otherwise. Both strategies select the same cards.
func SelectTextStrategy(tokens []Token, hasFacetFields bool, opts Options) domain.TextStrategy {
	if hasFacetFields {
		return domain.TextSubstring
	}
	if len(tokens) > opts.RankedMinTokens {
		return domain.TextRanked
	}
	for _, t := range tokens {
		if utf8.RuneCountInString(t.Text) > opts.RankedMinTokenLength {
			return domain.TextRanked
		}
	}
	return domain.TextSubstring
}
