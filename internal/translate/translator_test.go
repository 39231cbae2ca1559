package translate

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"NewsPulse/internal/domain/models"
	"NewsPulse/pkg/logger"
)

type stubProvider struct {
	name      string
	calls     int
	failFirst int // fail the first N calls
	handler   func(text string) string
	lastLang  string
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Translate(_ context.Context, text, sourceLang, _ string) (string, error) {
	s.calls++
	s.lastLang = sourceLang
	if s.calls <= s.failFirst {
		return "", fmt.Errorf("provider down")
	}
	if s.handler != nil {
		return s.handler(text), nil
	}
	return "T(" + text + ")", nil
}

func newTestTranslator(t *testing.T, providers ...Provider) *Translator {
	t.Helper()
	tr := NewTranslator(providers, nil, Options{
		TargetLang:  "en",
		ChunkSize:   20,
		MaxRetries:  2,
		BackoffBase: time.Millisecond,
		BackoffMax:  2 * time.Millisecond,
	}, logger.Nop())
	tr.sleep = func(time.Duration) {}
	return tr
}

func TestTranslateSkipsTargetLanguage(t *testing.T) {
	p := &stubProvider{name: "a"}
	tr := newTestTranslator(t, p)

	res, err := tr.Translate(context.Background(), "already english", "en")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if res.Status != models.TranslationSkipped {
		t.Fatalf("expected skipped, got %q", res.Status)
	}
	if res.Text != "already english" {
		t.Fatalf("skipped text must be unchanged")
	}
	if p.calls != 0 {
		t.Fatalf("no provider call expected, got %d", p.calls)
	}
}

func TestTranslateChunksPreserveOrder(t *testing.T) {
	p := &stubProvider{name: "a", handler: strings.ToUpper}
	tr := newTestTranslator(t, p)

	text := "alpha beta gamma delta epsilon zeta eta theta"
	res, err := tr.Translate(context.Background(), text, "de")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if res.ChunksTotal < 2 {
		t.Fatalf("expected chunking, got %d chunk(s)", res.ChunksTotal)
	}
	if res.Text != strings.ToUpper(text) {
		t.Fatalf("chunk order broken: %q", res.Text)
	}
	if res.Status != models.TranslationOK {
		t.Fatalf("expected ok, got %q", res.Status)
	}
}

func TestTranslateRetriesThenSucceeds(t *testing.T) {
	p := &stubProvider{name: "a", failFirst: 1}
	tr := newTestTranslator(t, p)

	res, err := tr.Translate(context.Background(), "kurz", "de")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if res.Status != models.TranslationOK {
		t.Fatalf("expected ok after retry, got %q", res.Status)
	}
	if p.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", p.calls)
	}
}

func TestTranslateFallsBackToNextProvider(t *testing.T) {
	primary := &stubProvider{name: "primary", failFirst: 1000}
	fallback := &stubProvider{name: "fallback"}
	tr := newTestTranslator(t, primary, fallback)

	res, err := tr.Translate(context.Background(), "kurz", "de")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if res.Status != models.TranslationOK {
		t.Fatalf("expected ok via fallback, got %q", res.Status)
	}
	if primary.calls != 2 {
		t.Fatalf("expected primary exhausted with 2 attempts, got %d", primary.calls)
	}
	if fallback.calls != 1 {
		t.Fatalf("expected one fallback call, got %d", fallback.calls)
	}
}

func TestTranslateDegradesChunkToOriginal(t *testing.T) {
	p := &stubProvider{name: "a", failFirst: 1000}
	tr := newTestTranslator(t, p)

	res, err := tr.Translate(context.Background(), "kurz", "de")
	if err != nil {
		t.Fatalf("degradation must not be an error: %v", err)
	}
	if res.Status != models.TranslationDegraded {
		t.Fatalf("expected degraded, got %q", res.Status)
	}
	if res.Text != "kurz" {
		t.Fatalf("degraded chunk must keep original text, got %q", res.Text)
	}
	if res.ChunksFallback != res.ChunksTotal {
		t.Fatalf("expected every chunk to fall back")
	}
}

func TestTranslateSentinelUsesAutoDetect(t *testing.T) {
	p := &stubProvider{name: "a"}
	tr := newTestTranslator(t, p)

	if _, err := tr.Translate(context.Background(), "texto", "undetected"); err != nil {
		t.Fatalf("translate: %v", err)
	}
	if p.lastLang != "auto" {
		t.Fatalf("expected auto source, got %q", p.lastLang)
	}
}

func TestSplitChunksWordBoundaries(t *testing.T) {
	text := "one two three four five six"
	chunks := splitChunks(text, 10)
	for _, c := range chunks {
		if len(c) > 10 {
			t.Fatalf("chunk over limit: %q", c)
		}
	}
	if strings.Join(chunks, " ") != text {
		t.Fatalf("chunks do not reassemble: %v", chunks)
	}
}

func TestSplitChunksShortText(t *testing.T) {
	chunks := splitChunks("short", 100)
	if len(chunks) != 1 || chunks[0] != "short" {
		t.Fatalf("expected single chunk, got %v", chunks)
	}
}
