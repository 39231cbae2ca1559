package models

// FeaturesRequest queries the computed feature table.
type FeaturesRequest struct {
	Ticker string `query:"ticker" validate:"required"`
	From   string `query:"from"`
	To     string `query:"to"`
	Limit  int    `query:"limit" default:"1000" validate:"gte=0,lte=50000"`
}

// SentimentRequest queries the per-day sentiment aggregates.
type SentimentRequest struct {
	Ticker string `query:"ticker" validate:"required"`
	From   string `query:"from"`
	To     string `query:"to"`
}
