package fetch

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"NewsPulse/internal/domain/models"
	pkghttp "NewsPulse/pkg/http"
	"NewsPulse/pkg/logger"
	"NewsPulse/pkg/util"
)

// PriceClient pulls daily OHLCV bars from an Alpha Vantage-style API.
type PriceClient struct {
	client   *pkghttp.Client
	baseURL  string
	apiKey   string
	throttle *Throttle
	log      *logger.Logger
	now      func() time.Time
}

type PriceClientOption func(*PriceClient)

func WithPriceThrottle(t *Throttle) PriceClientOption {
	return func(c *PriceClient) { c.throttle = t }
}

func NewPriceClient(client *pkghttp.Client, baseURL, apiKey string, log *logger.Logger, opts ...PriceClientOption) *PriceClient {
	c := &PriceClient{
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

type dailySeriesResponse struct {
	ErrorMessage string                       `json:"Error Message"`
	Note         string                       `json:"Note"`
	Information  string                       `json:"Information"`
	Series       map[string]map[string]string `json:"Time Series (Daily)"`
}

// Fetch retrieves daily bars for ticker, keeping only dates inside
// [from, to]. The upstream returns the full history; filtering is local.
func (c *PriceClient) Fetch(ctx context.Context, ticker string, from, to time.Time) ([]models.PriceBar, error) {
	if c.throttle != nil {
		if err := c.throttle.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var resp dailySeriesResponse
	err := c.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: http.MethodGet,
		URL:    c.baseURL,
		QueryParams: map[string][]string{
			"function":   {"TIME_SERIES_DAILY"},
			"symbol":     {ticker},
			"outputsize": {"full"},
			"apikey":     {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("price series %s: %w", ticker, err)
	}
	if resp.ErrorMessage != "" {
		return nil, fmt.Errorf("price series %s: %s", ticker, resp.ErrorMessage)
	}
	if len(resp.Series) == 0 {
		if resp.Note != "" {
			return nil, fmt.Errorf("price series %s throttled upstream: %s", ticker, resp.Note)
		}
		if resp.Information != "" {
			return nil, fmt.Errorf("price series %s: %s", ticker, resp.Information)
		}
		return nil, fmt.Errorf("price series %s: empty response", ticker)
	}

	fromDay := util.Day(from)
	toDay := util.Day(to)
	fetchDate := util.Day(c.now())

	bars := make([]models.PriceBar, 0, len(resp.Series))
	for day, fields := range resp.Series {
		date, ok := util.ParseDay(day)
		if !ok {
			c.log.Warn("skipping malformed series date",
				logger.String("ticker", ticker),
				logger.String("date", day))
			continue
		}
		if date.Before(fromDay) || date.After(toDay) {
			continue
		}
		bar, err := parseBar(ticker, date, fields)
		if err != nil {
			c.log.Warn("skipping malformed bar",
				logger.String("ticker", ticker),
				logger.String("date", day),
				logger.Error(err))
			continue
		}
		bar.FetchDate = fetchDate
		bar.StartDate = fromDay
		bar.EndDate = toDay
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	c.log.Debug("price series fetched",
		logger.String("ticker", ticker),
		logger.Int("bars", len(bars)))
	return bars, nil
}

func parseBar(ticker string, date time.Time, fields map[string]string) (models.PriceBar, error) {
	get := func(key string) (float64, error) {
		raw, ok := fields[key]
		if !ok {
			return 0, fmt.Errorf("missing field %q", key)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", key, err)
		}
		return v, nil
	}
	open, err := get("1. open")
	if err != nil {
		return models.PriceBar{}, err
	}
	high, err := get("2. high")
	if err != nil {
		return models.PriceBar{}, err
	}
	low, err := get("3. low")
	if err != nil {
		return models.PriceBar{}, err
	}
	closePx, err := get("4. close")
	if err != nil {
		return models.PriceBar{}, err
	}
	volume, err := get("5. volume")
	if err != nil {
		return models.PriceBar{}, err
	}
	return models.PriceBar{
		Ticker: ticker,
		Date:   date,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePx,
		Volume: volume,
	}, nil
}
