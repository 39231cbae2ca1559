// Package textproc classifies raw article text before translation:
// language detection, non-Latin junk screening and blacklist filtering.
package textproc

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Sentinel codes for text the detector cannot classify. Both bypass the
// language blacklist and are handed to the translator as-is.
const (
	LangUnknown    = "unknown"
	LangUndetected = "undetected"
)

// langAliases folds detector output onto the canonical codes the
// translation providers accept.
var langAliases = map[string]string{
	"zh-cn": "zh-CN",
	"zh-tw": "zh-TW",
	"jp":    "ja",
	"kr":    "ko",
	"pt-br": "pt",
}

// DetectLang returns the ISO 639-1 code of the dominant language of text,
// LangUnknown for empty input and LangUndetected when the detector cannot
// name a language at all. The best guess is used even at low confidence;
// short headlines rarely clear the detector's reliability bar.
func DetectLang(text string) string {
	if strings.TrimSpace(text) == "" {
		return LangUnknown
	}
	info := whatlanggo.Detect(text)
	code := info.Lang.Iso6391()
	if code == "" {
		return LangUndetected
	}
	return CanonicalLang(code)
}

// CanonicalLang lowercases a language code and resolves known aliases.
func CanonicalLang(code string) string {
	lower := strings.ToLower(strings.TrimSpace(code))
	if canonical, ok := langAliases[lower]; ok {
		return canonical
	}
	return lower
}

// IsSentinel reports whether code is one of the detector sentinels.
func IsSentinel(code string) bool {
	return code == LangUnknown || code == LangUndetected
}
