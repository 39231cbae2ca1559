package textproc

import "unicode"

// DefaultNonLatinRatio is the share of non-ASCII runes above which text
// is considered garbled, unless the CJK exemption applies.
const DefaultNonLatinRatio = 0.3

// JunkConfig tunes the garbled-text heuristic.
type JunkConfig struct {
	// NonLatinRatio is the threshold share of non-ASCII runes.
	// Zero means DefaultNonLatinRatio.
	NonLatinRatio float64
	// KeepCJK exempts text containing CJK characters, which legitimately
	// exceeds the ratio and translates fine.
	KeepCJK bool
}

// IsJunk reports whether text looks like mojibake or otherwise garbled
// content: the share of runes outside 7-bit ASCII over the whole rune
// count exceeds the threshold. Text containing CJK characters is kept
// outright when the exemption is on.
func IsJunk(text string, cfg JunkConfig) bool {
	threshold := cfg.NonLatinRatio
	if threshold == 0 {
		threshold = DefaultNonLatinRatio
	}

	var total, nonASCII int
	hasCJK := false
	for _, r := range text {
		total++
		if isCJK(r) {
			hasCJK = true
		}
		if r > unicode.MaxASCII {
			nonASCII++
		}
	}
	if total == 0 {
		return false
	}
	if cfg.KeepCJK && hasCJK {
		return false
	}
	return float64(nonASCII)/float64(total) > threshold
}

func isCJK(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF: // CJK unified ideographs
		return true
	case r >= 0x3040 && r <= 0x30FF: // hiragana, katakana
		return true
	case r >= 0xAC00 && r <= 0xD7AF: // hangul syllables
		return true
	}
	return false
}
