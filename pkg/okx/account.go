package okx

import (
	"context"
	"net/http"
	"net/url"
)

// AccountService covers the trading-ledger balance of the main account.
type AccountService struct {
	t *transport
}

type accountBalance struct {
	Details []AssetBalance `json:"details"`
}

// Balances returns the trading-ledger balance lines of the main account.
// An empty data array from the exchange yields an empty slice, not an error.
func (s *AccountService) Balances(ctx context.Context, ccy string) ([]AssetBalance, error) {
	q := url.Values{}
	if ccy != "" {
		q.Set("ccy", ccy)
	}
	var out []accountBalance
	if err := s.t.do(ctx, http.MethodGet, "/api/v5/account/balance", q, nil, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return []AssetBalance{}, nil
	}
	return out[0].Details, nil
}
