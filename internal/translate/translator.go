// Package translate renders article text into the target language through
// a chain of HTTP providers, chunking long inputs and degrading chunk by
// chunk when every provider fails.
package translate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"NewsPulse/internal/domain/models"
	"NewsPulse/internal/textproc"
	"NewsPulse/pkg/cache"
	"NewsPulse/pkg/logger"
)

// Provider translates a single chunk of text.
type Provider interface {
	Name() string
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Options tunes chunking and retry behaviour.
type Options struct {
	TargetLang  string
	ChunkSize   int
	MaxRetries  int
	BackoffBase time.Duration
	BackoffMax  time.Duration
	Timeout     time.Duration
	CacheTTL    time.Duration
}

// Result is the outcome of translating one article.
type Result struct {
	Text           string
	Status         models.TranslationStatus
	ChunksTotal    int
	ChunksFallback int
}

// Translator runs text through a provider chain with an optional cache in
// front. Providers are tried in order per chunk; a chunk that exhausts the
// whole chain keeps its original text and the article is marked degraded.
type Translator struct {
	providers []Provider
	cache     cache.Service
	opts      Options
	log       *logger.Logger
	sleep     func(time.Duration)
}

func NewTranslator(providers []Provider, c cache.Service, opts Options, log *logger.Logger) *Translator {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 4500
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = 500 * time.Millisecond
	}
	if opts.BackoffMax <= 0 {
		opts.BackoffMax = 8 * time.Second
	}
	if opts.TargetLang == "" {
		opts.TargetLang = "en"
	}
	return &Translator{
		providers: providers,
		cache:     c,
		opts:      opts,
		log:       log,
		sleep:     time.Sleep,
	}
}

// Translate converts text detected as sourceLang into the target language.
// Text already in the target language is returned unchanged with a
// skipped status; sentinel source codes defer detection to the provider.
func (t *Translator) Translate(ctx context.Context, text, sourceLang string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{Text: text, Status: models.TranslationSkipped}, nil
	}
	if sourceLang == t.opts.TargetLang {
		return Result{Text: text, Status: models.TranslationSkipped}, nil
	}
	if textproc.IsSentinel(sourceLang) {
		// Let the provider auto-detect when our detector could not.
		sourceLang = "auto"
	}

	if cached, ok := t.cacheGet(ctx, text); ok {
		return Result{Text: cached, Status: models.TranslationOK}, nil
	}

	chunks := splitChunks(text, t.opts.ChunkSize)
	out := make([]string, 0, len(chunks))
	fallbacks := 0

	for _, chunk := range chunks {
		translated, err := t.translateChunk(ctx, chunk, sourceLang)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			t.log.Warn("translation chunk degraded to original text",
				logger.String("source_lang", sourceLang),
				logger.Int("chunk_len", len(chunk)),
				logger.Error(err))
			translated = chunk
			fallbacks++
		}
		out = append(out, translated)
	}

	res := Result{
		Text:           strings.Join(out, " "),
		Status:         models.TranslationOK,
		ChunksTotal:    len(chunks),
		ChunksFallback: fallbacks,
	}
	if fallbacks > 0 {
		res.Status = models.TranslationDegraded
	} else {
		t.cacheSet(ctx, text, res.Text)
	}
	return res, nil
}

// translateChunk walks the provider chain, retrying each provider with
// exponential backoff before moving to the next.
func (t *Translator) translateChunk(ctx context.Context, chunk, sourceLang string) (string, error) {
	var lastErr error
	for _, p := range t.providers {
		for attempt := 0; attempt < t.opts.MaxRetries; attempt++ {
			if attempt > 0 {
				t.sleep(t.backoff(attempt))
			}
			callCtx := ctx
			cancel := func() {}
			if t.opts.Timeout > 0 {
				callCtx, cancel = context.WithTimeout(ctx, t.opts.Timeout)
			}
			translated, err := p.Translate(callCtx, chunk, sourceLang, t.opts.TargetLang)
			cancel()
			if err == nil && strings.TrimSpace(translated) != "" {
				return translated, nil
			}
			if err == nil {
				err = fmt.Errorf("provider %s returned empty translation", p.Name())
			}
			lastErr = fmt.Errorf("%s: %w", p.Name(), err)
			if ctx.Err() != nil {
				return "", lastErr
			}
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no translation providers configured")
	}
	return "", lastErr
}

func (t *Translator) backoff(attempt int) time.Duration {
	d := t.opts.BackoffBase << (attempt - 1)
	if d > t.opts.BackoffMax {
		d = t.opts.BackoffMax
	}
	jitter := time.Duration(rand.Int63n(int64(d)/4 + 1))
	return d + jitter
}

func (t *Translator) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text + "|" + t.opts.TargetLang))
	return "translate:" + hex.EncodeToString(sum[:])
}

func (t *Translator) cacheGet(ctx context.Context, text string) (string, bool) {
	if t.cache == nil {
		return "", false
	}
	v, err := t.cache.Get(ctx, t.cacheKey(text))
	if err != nil {
		return "", false
	}
	return v, true
}

func (t *Translator) cacheSet(ctx context.Context, text, translated string) {
	if t.cache == nil {
		return
	}
	if err := t.cache.Set(ctx, t.cacheKey(text), translated, t.opts.CacheTTL); err != nil {
		t.log.Debug("translation cache write failed", logger.Error(err))
	}
}

// splitChunks splits text into pieces of at most size bytes, preferring
// word boundaries so providers never receive a torn word.
func splitChunks(text string, size int) []string {
	if len(text) <= size {
		return []string{text}
	}
	var chunks []string
	words := strings.Fields(text)
	var b strings.Builder
	for _, w := range words {
		if b.Len() > 0 && b.Len()+1+len(w) > size {
			chunks = append(chunks, b.String())
			b.Reset()
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	if len(chunks) == 0 {
		chunks = []string{text}
	}
	return chunks
}
