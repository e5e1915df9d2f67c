package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Taum/marketbot-sub000/internal/domain"
)

func TestSelectTextStrategy(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	tests := []struct {
		name      string
		query     string
		hasFacets bool
		want      domain.TextStrategy
	}{
		{"short query", "draw a card", false, domain.TextSubstring},
		{"five tokens", "a b c d e", false, domain.TextSubstring},
		{"six tokens", "a b c d e f", false, domain.TextRanked},
		{"long token", "extraordinaryword", false, domain.TextRanked},
		{"fifteen runes", "abcdefghijklmno", false, domain.TextSubstring},
		{"facet fields force substring", "a b c d e f", true, domain.TextSubstring},
		{"negated tokens count", "a b c -d -e -f", false, domain.TextRanked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SelectTextStrategy(Tokenize(tt.query), tt.hasFacets, opts))
		})
	}
}
