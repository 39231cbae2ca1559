package textproc

import "NewsPulse/internal/domain/models"

// FilterConfig controls which articles are dropped before translation.
type FilterConfig struct {
	// Blacklist holds canonical language codes to drop outright.
	Blacklist []string
	Junk      JunkConfig
}

// FilterResult carries the surviving articles and per-reason drop counts.
type FilterResult struct {
	Kept            []models.Article
	DroppedLanguage int
	DroppedJunk     int
}

// Filter detects each article's language, then drops articles whose
// language is blacklisted or whose text fails the junk heuristic. The two
// checks are independent: a blacklisted article never reaches the junk
// check, and sentinel codes bypass the blacklist entirely. Detected
// languages are recorded on the surviving articles.
func Filter(articles []models.Article, cfg FilterConfig) FilterResult {
	blacklisted := make(map[string]struct{}, len(cfg.Blacklist))
	for _, code := range cfg.Blacklist {
		blacklisted[CanonicalLang(code)] = struct{}{}
	}

	res := FilterResult{Kept: make([]models.Article, 0, len(articles))}
	for _, a := range articles {
		text := a.FullText()
		lang := DetectLang(text)
		if !IsSentinel(lang) {
			if _, drop := blacklisted[lang]; drop {
				res.DroppedLanguage++
				continue
			}
		}
		if IsJunk(text, cfg.Junk) {
			res.DroppedJunk++
			continue
		}
		a.DetectedLang = lang
		res.Kept = append(res.Kept, a)
	}
	return res
}
