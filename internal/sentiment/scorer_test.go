package sentiment

import "testing"

func TestScoreEmpty(t *testing.T) {
	s := NewScorer()
	if got := s.Score(""); got != 0 {
		t.Fatalf("expected neutral for empty text, got %v", got)
	}
	if got := s.Score("   "); got != 0 {
		t.Fatalf("expected neutral for whitespace, got %v", got)
	}
}

func TestScorePolarity(t *testing.T) {
	s := NewScorer()

	pos := s.Score("Shares surged after excellent earnings, a great quarter with strong growth.")
	neg := s.Score("The company collapsed after terrible losses, a horrible disaster for investors.")

	if pos <= 0 {
		t.Fatalf("expected positive compound, got %v", pos)
	}
	if neg >= 0 {
		t.Fatalf("expected negative compound, got %v", neg)
	}
}

func TestScoreBounds(t *testing.T) {
	s := NewScorer()
	texts := []string{
		"Amazing fantastic wonderful excellent superb great great great!",
		"Awful terrible horrible catastrophic disastrous worst worst worst!",
		"The committee met on Tuesday.",
	}
	for _, text := range texts {
		got := s.Score(text)
		if got < -1 || got > 1 {
			t.Fatalf("compound out of range for %q: %v", text, got)
		}
	}
}
