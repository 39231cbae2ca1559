package store

import (
	"fmt"
	"sort"

	"NewsPulse/internal/domain/models"
)

var articleHeader = []string{
	"published_at", "title", "description", "content", "url", "source_name",
	"query", "type", "ticker", "fetch_date", "start_date", "end_date",
	"detected_lang", "translated_text", "translation_status", "sentiment",
}

// ArticleStore persists articles at one CSV path. The raw and cleaned
// article tables are two instances of the same store.
type ArticleStore struct {
	path string
}

func NewArticleStore(path string) *ArticleStore {
	return &ArticleStore{path: path}
}

func (s *ArticleStore) Path() string { return s.path }

// Load reads all persisted articles. An absent file yields an empty set.
func (s *ArticleStore) Load() ([]models.Article, error) {
	rows, err := readRows(s.path, len(articleHeader))
	if err != nil {
		return nil, err
	}
	out := make([]models.Article, 0, len(rows))
	for _, r := range rows {
		out = append(out, decodeArticle(r))
	}
	return out, nil
}

// Merge appends newRecords onto the persisted set, drops duplicates by
// (title, published_at) keeping the last occurrence, sorts by published
// timestamp, and rewrites the file atomically. Safe to call repeatedly with
// overlapping fetch windows.
func (s *ArticleStore) Merge(newRecords []models.Article) ([]models.Article, error) {
	existing, err := s.Load()
	if err != nil {
		return nil, err
	}

	all := append(existing, newRecords...)
	merged := dedupeArticles(all)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedAt.Before(merged[j].PublishedAt)
	})

	if err := s.write(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Replace overwrites the persisted set wholesale, sorted by published
// timestamp. Used by the processing stage, whose output is derived rather
// than accumulated.
func (s *ArticleStore) Replace(records []models.Article) error {
	sorted := make([]models.Article, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.Before(sorted[j].PublishedAt)
	})
	return s.write(sorted)
}

func (s *ArticleStore) write(records []models.Article) error {
	rows := make([][]string, 0, len(records))
	for i := range records {
		rows = append(rows, encodeArticle(&records[i]))
	}
	return writeAtomic(s.path, articleHeader, rows)
}

func articleKey(a *models.Article) string {
	return fmt.Sprintf("%s|%d", a.Title, a.PublishedAt.UTC().Unix())
}

// dedupeArticles keeps the LAST occurrence per natural key, so a re-fetch of
// an already-seen article overwrites the earlier copy.
func dedupeArticles(all []models.Article) []models.Article {
	idx := make(map[string]int, len(all))
	out := make([]models.Article, 0, len(all))
	for _, a := range all {
		k := articleKey(&a)
		if i, seen := idx[k]; seen {
			out[i] = a
			continue
		}
		idx[k] = len(out)
		out = append(out, a)
	}
	return out
}

func encodeArticle(a *models.Article) []string {
	return []string{
		fmtTime(a.PublishedAt),
		a.Title,
		a.Description,
		a.Content,
		a.URL,
		a.SourceName,
		a.Query,
		a.Type,
		a.Ticker,
		fmtDay(a.FetchDate),
		fmtDay(a.StartDate),
		fmtDay(a.EndDate),
		a.DetectedLang,
		a.TranslatedText,
		string(a.TranslationStatus),
		fmtFloat(a.Sentiment),
	}
}

func decodeArticle(r []string) models.Article {
	a := models.Article{
		PublishedAt:       parseTime(r[0]),
		Title:             r[1],
		Description:       r[2],
		Content:           r[3],
		URL:               r[4],
		SourceName:        r[5],
		Query:             r[6],
		Type:              r[7],
		Ticker:            r[8],
		FetchDate:         parseDay(r[9]),
		StartDate:         parseDay(r[10]),
		EndDate:           parseDay(r[11]),
		DetectedLang:      r[12],
		TranslatedText:    r[13],
		TranslationStatus: models.TranslationStatus(r[14]),
	}
	if v := parseFloat(r[15]); v == v { // NaN check
		a.Sentiment = v
	}
	return a
}
