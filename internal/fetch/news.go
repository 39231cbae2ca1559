package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"NewsPulse/internal/domain/models"
	pkghttp "NewsPulse/pkg/http"
	"NewsPulse/pkg/logger"
	"NewsPulse/pkg/util"
)

// NewsClient queries a GNews-style article search API.
type NewsClient struct {
	client   *pkghttp.Client
	baseURL  string
	apiKey   string
	throttle *Throttle
	log      *logger.Logger
	now      func() time.Time
}

type NewsClientOption func(*NewsClient)

func WithNewsThrottle(t *Throttle) NewsClientOption {
	return func(c *NewsClient) { c.throttle = t }
}

func NewNewsClient(client *pkghttp.Client, baseURL, apiKey string, log *logger.Logger, opts ...NewsClientOption) *NewsClient {
	c := &NewsClient{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type newsSearchResponse struct {
	TotalArticles int `json:"totalArticles"`
	Articles      []struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Content     string    `json:"content"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Fetch retrieves articles matching query published inside [from, to].
func (c *NewsClient) Fetch(ctx context.Context, query string, from, to time.Time) ([]models.Article, error) {
	if c.throttle != nil {
		if err := c.throttle.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var resp newsSearchResponse
	err := c.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: http.MethodGet,
		URL:    c.baseURL,
		QueryParams: map[string][]string{
			"q":      {query},
			"from":   {from.UTC().Format(time.RFC3339)},
			"to":     {to.UTC().Format(time.RFC3339)},
			"max":    {"100"},
			"token":  {c.apiKey},
			"sortby": {"publishedAt"},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("news search %q: %w", query, err)
	}

	fetchDate := util.Day(c.now())
	articles := make([]models.Article, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		if a.Title == "" {
			continue
		}
		articles = append(articles, models.Article{
			Title:       a.Title,
			Description: a.Description,
			Content:     a.Content,
			URL:         a.URL,
			SourceName:  a.Source.Name,
			PublishedAt: a.PublishedAt.UTC(),
			Query:       query,
			FetchDate:   fetchDate,
			StartDate:   util.Day(from),
			EndDate:     util.Day(to),
		})
	}
	c.log.Debug("news window fetched",
		logger.String("query", query),
		logger.String("from", util.FormatDay(from)),
		logger.String("to", util.FormatDay(to)),
		logger.Int("articles", len(articles)))
	return articles, nil
}
