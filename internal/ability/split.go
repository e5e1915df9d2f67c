package ability

// ModeBullet introduces a mode option inside an effect.
const ModeBullet = '•'

// LinePiece is a trimmed slice of a text box with rune offsets into the box.
type LinePiece struct {
	Text  string
	Start int
	End   int
}

// SplitLines splits a normalized text box on runs of two or more spaces.
// A segment opening with a mode bullet belongs to the previous line.
func SplitLines(box string) []LinePiece {
	runes := []rune(box)

	var raw [][2]int
	start := 0
	for i := 0; i < len(runes); {
		if runes[i] != ' ' {
			i++
			continue
		}
		j := i
		for j < len(runes) && runes[j] == ' ' {
			j++
		}
		if j-i >= 2 {
			raw = append(raw, [2]int{start, i})
			start = j
		}
		i = j
	}
	raw = append(raw, [2]int{start, len(runes)})

	var merged [][2]int
	for _, r := range raw {
		s, e := trimRunes(runes, r[0], r[1])
		if s == e {
			continue
		}
		if runes[s] == ModeBullet && len(merged) > 0 {
			merged[len(merged)-1][1] = e
			continue
		}
		merged = append(merged, [2]int{s, e})
	}

	segments := make([]LinePiece, 0, len(merged))
	for _, m := range merged {
		segments = append(segments, LinePiece{Text: string(runes[m[0]:m[1]]), Start: m[0], End: m[1]})
	}
	return segments
}

func trimRunes(runes []rune, start, end int) (int, int) {
	for start < end && runes[start] == ' ' {
		start++
	}
	for end > start && runes[end-1] == ' ' {
		end--
	}
	return start, end
}
