package textproc

import (
	"testing"

	"NewsPulse/internal/domain/models"
)

func TestDetectLangEmpty(t *testing.T) {
	if got := DetectLang(""); got != LangUnknown {
		t.Fatalf("expected %q, got %q", LangUnknown, got)
	}
	if got := DetectLang("   \n\t"); got != LangUnknown {
		t.Fatalf("expected %q for whitespace, got %q", LangUnknown, got)
	}
}

func TestDetectLangEnglish(t *testing.T) {
	got := DetectLang("The Federal Reserve raised interest rates again this quarter, citing persistent inflation across the economy.")
	if got != "en" {
		t.Fatalf("expected en, got %q", got)
	}
}

// Short headlines often fall below the detector's own reliability bar;
// the best guess must still win so English text skips translation.
func TestDetectLangShortHeadline(t *testing.T) {
	got := DetectLang("Apple shares rally after record quarterly earnings report")
	if got != "en" {
		t.Fatalf("expected en for short headline, got %q", got)
	}
}

func TestCanonicalLangAliases(t *testing.T) {
	cases := map[string]string{
		"zh-cn": "zh-CN",
		"zh-CN": "zh-CN",
		"zh-tw": "zh-TW",
		"jp":    "ja",
		"kr":    "ko",
		"pt-br": "pt",
		"EN":    "en",
		"de":    "de",
	}
	for in, want := range cases {
		if got := CanonicalLang(in); got != want {
			t.Fatalf("CanonicalLang(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsJunkLatinText(t *testing.T) {
	if IsJunk("Apple shares rose 3% after earnings.", JunkConfig{KeepCJK: true}) {
		t.Fatalf("plain english must not be junk")
	}
}

func TestIsJunkHighNonLatin(t *testing.T) {
	// Cyrillic-heavy text with CJK exemption on still trips the ratio.
	if !IsJunk("Акции выросли после отчета о прибыли компании", JunkConfig{KeepCJK: true}) {
		t.Fatalf("expected non-latin heavy text to be junk")
	}
}

func TestIsJunkCJKExemption(t *testing.T) {
	text := "苹果公司股价上涨"
	if IsJunk(text, JunkConfig{KeepCJK: true}) {
		t.Fatalf("CJK text must survive with the exemption on")
	}
	if !IsJunk(text, JunkConfig{KeepCJK: false}) {
		t.Fatalf("CJK text must trip the ratio with the exemption off")
	}
}

func TestIsJunkNoLetters(t *testing.T) {
	if IsJunk("2024-01-02 12:00 +3.5%", JunkConfig{}) {
		t.Fatalf("digits and punctuation alone are not junk")
	}
}

func TestIsJunkMojibake(t *testing.T) {
	// Double-encoded UTF-8 ends up as accented-Latin soup; the ratio
	// counts every rune above ASCII, not just foreign-script letters.
	if !IsJunk("Ã¢â‚¬Å“quarterlyÃ¢â‚¬Â earnings Ã¢â‚¬â„¢ report Ã¯Â¿Â½Ã¯Â¿Â½", JunkConfig{KeepCJK: true}) {
		t.Fatalf("mojibake must trip the ratio")
	}
	if !IsJunk("▒▒▒▒▒ stock ▒▒▒▒▒", JunkConfig{KeepCJK: true}) {
		t.Fatalf("symbol-heavy garbage must trip the ratio")
	}
}

func TestFilterBlacklistAndJunkIndependent(t *testing.T) {
	articles := []models.Article{
		{Title: "Apple shares rose after the company reported stronger than expected quarterly earnings."},
		{Title: "Акции компании резко выросли после публикации квартального отчета о прибыли"},          // ru, blacklisted
		{Title: "Οι μετοχές της εταιρείας αυξήθηκαν μετά την ανακοίνωση των κερδών του τριμήνου σήμερα"}, // el, junk ratio
	}
	res := Filter(articles, FilterConfig{
		Blacklist: []string{"ar", "ru"},
		Junk:      JunkConfig{KeepCJK: true},
	})

	if len(res.Kept) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(res.Kept))
	}
	if res.DroppedLanguage != 1 {
		t.Fatalf("expected 1 blacklist drop, got %d", res.DroppedLanguage)
	}
	if res.DroppedJunk != 1 {
		t.Fatalf("expected 1 junk drop, got %d", res.DroppedJunk)
	}
	if res.Kept[0].DetectedLang != "en" {
		t.Fatalf("expected detected lang recorded, got %q", res.Kept[0].DetectedLang)
	}
}

func TestFilterSentinelBypassesBlacklist(t *testing.T) {
	res := Filter([]models.Article{{Title: ""}}, FilterConfig{
		Blacklist: []string{LangUnknown},
		Junk:      JunkConfig{KeepCJK: true},
	})
	if len(res.Kept) != 1 {
		t.Fatalf("sentinel-coded article must not be blacklisted")
	}
	if res.Kept[0].DetectedLang != LangUnknown {
		t.Fatalf("expected %q, got %q", LangUnknown, res.Kept[0].DetectedLang)
	}
}
