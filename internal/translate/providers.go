package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	pkghttp "NewsPulse/pkg/http"
)

// GoogleProvider calls the public translate_a/single endpoint used by the
// Google Translate web client.
type GoogleProvider struct {
	client  *pkghttp.Client
	baseURL string
}

func NewGoogleProvider(client *pkghttp.Client) *GoogleProvider {
	return &GoogleProvider{
		client:  client,
		baseURL: "https://translate.googleapis.com/translate_a/single",
	}
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	var raw []byte
	err := p.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: http.MethodGet,
		URL:    p.baseURL,
		QueryParams: map[string][]string{
			"client": {"gtx"},
			"sl":     {sourceLang},
			"tl":     {targetLang},
			"dt":     {"t"},
			"q":      {text},
		},
	}, &raw)
	if err != nil {
		return "", err
	}
	return parseGoogleResponse(raw)
}

// parseGoogleResponse unpacks the nested-array payload: the first element
// is a list of [translatedSegment, originalSegment, ...] tuples.
func parseGoogleResponse(raw []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("decode translation payload: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translation payload")
	}
	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("decode translation segments: %w", err)
	}
	var out string
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(seg[0], &piece); err != nil {
			continue
		}
		out += piece
	}
	if out == "" {
		return "", fmt.Errorf("translation payload held no segments")
	}
	return out, nil
}

// MyMemoryProvider is the fallback chain link, backed by the free
// MyMemory REST API.
type MyMemoryProvider struct {
	client  *pkghttp.Client
	baseURL string
}

func NewMyMemoryProvider(client *pkghttp.Client) *MyMemoryProvider {
	return &MyMemoryProvider{
		client:  client,
		baseURL: "https://api.mymemory.translated.net/get",
	}
}

func (p *MyMemoryProvider) Name() string { return "mymemory" }

type myMemoryResponse struct {
	ResponseStatus int `json:"responseStatus"`
	ResponseData   struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

func (p *MyMemoryProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	// MyMemory requires an explicit source language.
	if sourceLang == "auto" || sourceLang == "" {
		sourceLang = "en"
	}
	var resp myMemoryResponse
	err := p.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: http.MethodGet,
		URL:    p.baseURL,
		QueryParams: map[string][]string{
			"q":        {text},
			"langpair": {fmt.Sprintf("%s|%s", sourceLang, targetLang)},
		},
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.ResponseStatus != 200 {
		return "", fmt.Errorf("mymemory status %d", resp.ResponseStatus)
	}
	if resp.ResponseData.TranslatedText == "" {
		return "", fmt.Errorf("mymemory returned empty translation")
	}
	return resp.ResponseData.TranslatedText, nil
}
