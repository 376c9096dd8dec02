package okx

import (
	"context"
	"net/http"
	"net/url"
)

// InstTypeSpot selects spot-market instruments in ticker queries.
const InstTypeSpot = "SPOT"

// MarketService covers public market data.
type MarketService struct {
	t *transport
}

// Tickers returns all tickers of the given instrument type.
func (s *MarketService) Tickers(ctx context.Context, instType string) ([]Ticker, error) {
	q := url.Values{}
	q.Set("instType", instType)
	var out []Ticker
	if err := s.t.do(ctx, http.MethodGet, "/api/v5/market/tickers", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
