// Package api exposes the computed feature table over HTTP.
package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"NewsPulse/internal/domain/models"
	"NewsPulse/internal/repository"
	pkghttp "NewsPulse/pkg/http"
	"NewsPulse/pkg/logger"
	"NewsPulse/pkg/util"
)

// FeaturesHandler serves read-only views over the persisted feature table.
type FeaturesHandler struct {
	reader *repository.FeatureReader
	log    *logger.Logger
}

func NewFeaturesHandler(reader *repository.FeatureReader, log *logger.Logger) *FeaturesHandler {
	return &FeaturesHandler{reader: reader, log: log}
}

func (h *FeaturesHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/features", h.GetFeatures)
	g.GET("/sentiment", h.GetSentiment)
	g.GET("/tickers", h.GetTickers)
	e.GET("/healthz", h.Healthz)
}

func (h *FeaturesHandler) GetFeatures(c echo.Context) error {
	req := new(models.FeaturesRequest)
	if payload := pkghttp.ReadAndValidateRequest(c, req); payload != nil {
		return pkghttp.BadRequestResponse(c, payload)
	}
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return pkghttp.AppErrorResponse(c, err)
	}

	rows, err := h.reader.Features(req.Ticker, from, to, req.Limit)
	if err != nil {
		h.log.Error("feature query failed",
			logger.String("ticker", req.Ticker),
			logger.Error(err))
		return pkghttp.AppErrorResponse(c, err)
	}
	if len(rows) == 0 {
		if known, kerr := h.hasTicker(req.Ticker); kerr == nil && !known {
			return pkghttp.AppErrorResponse(c, pkghttp.NotFoundErrorf("ticker %s not found", req.Ticker))
		}
	}
	return pkghttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *FeaturesHandler) GetSentiment(c echo.Context) error {
	req := new(models.SentimentRequest)
	if payload := pkghttp.ReadAndValidateRequest(c, req); payload != nil {
		return pkghttp.BadRequestResponse(c, payload)
	}
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return pkghttp.AppErrorResponse(c, err)
	}

	daily, err := h.reader.Sentiment(req.Ticker, from, to)
	if err != nil {
		h.log.Error("sentiment query failed",
			logger.String("ticker", req.Ticker),
			logger.Error(err))
		return pkghttp.AppErrorResponse(c, err)
	}

	type point struct {
		Date      string  `json:"date"`
		Sentiment float64 `json:"sentiment"`
		NewsCount int     `json:"news_count"`
	}
	points := make([]point, 0, len(daily))
	for _, d := range daily {
		points = append(points, point{
			Date:      util.FormatDay(d.Date),
			Sentiment: d.Sentiment,
			NewsCount: d.Count,
		})
	}
	return pkghttp.ListResponse(c, points, int64(len(points)))
}

func (h *FeaturesHandler) GetTickers(c echo.Context) error {
	tickers, err := h.reader.Tickers()
	if err != nil {
		h.log.Error("ticker listing failed", logger.Error(err))
		return pkghttp.AppErrorResponse(c, err)
	}
	return pkghttp.ListResponse(c, tickers, int64(len(tickers)))
}

func (h *FeaturesHandler) Healthz(c echo.Context) error {
	return pkghttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// hasTicker reports whether the feature table holds any rows for ticker.
func (h *FeaturesHandler) hasTicker(ticker string) (bool, error) {
	tickers, err := h.reader.Tickers()
	if err != nil {
		return false, err
	}
	for _, t := range tickers {
		if t == ticker {
			return true, nil
		}
	}
	return false, nil
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	var f, t time.Time
	if from != "" {
		var ok bool
		if f, ok = util.ParseDay(from); !ok {
			return f, t, pkghttp.BadRequestErrorf("from: want YYYY-MM-DD, got %q", from)
		}
	}
	if to != "" {
		var ok bool
		if t, ok = util.ParseDay(to); !ok {
			return f, t, pkghttp.BadRequestErrorf("to: want YYYY-MM-DD, got %q", to)
		}
	}
	return f, t, nil
}
