// Package sentiment scores English text with the VADER lexicon model.
package sentiment

import (
	"strings"

	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"
)

// Scorer produces compound sentiment scores in [-1, 1]. The zero-cost
// construction exists so callers share one instance per pipeline run.
type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Score returns the compound polarity of text: negative values lean
// bearish, positive bullish. Empty text scores neutral.
func (s *Scorer) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	parsed := sentitext.Parse(text, lexicon.DefaultLexicon)
	return sentitext.PolarityScore(parsed).Compound
}
