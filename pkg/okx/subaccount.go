package okx

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// SubAccountService covers the sub-account endpoints: listing and
// per-sub-account funding/trading balances.
type SubAccountService struct {
	t *transport
}

// List returns sub-accounts filtered by enabled state
// (true = normal, false = frozen).
func (s *SubAccountService) List(ctx context.Context, enabled bool) ([]SubAccount, error) {
	q := url.Values{}
	q.Set("enable", strconv.FormatBool(enabled))
	var out []SubAccount
	if err := s.t.do(ctx, http.MethodGet, "/api/v5/users/subaccount/list", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FundingBalances returns the funding-ledger balances of one sub-account.
func (s *SubAccountService) FundingBalances(ctx context.Context, sub, ccy string) ([]AssetBalance, error) {
	q := url.Values{}
	q.Set("subAcct", sub)
	if ccy != "" {
		q.Set("ccy", ccy)
	}
	var out []AssetBalance
	if err := s.t.do(ctx, http.MethodGet, "/api/v5/asset/subaccount/balances", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TradingBalances returns the trading-ledger balance lines of one
// sub-account. An empty data array yields an empty slice.
func (s *SubAccountService) TradingBalances(ctx context.Context, sub string) ([]AssetBalance, error) {
	q := url.Values{}
	q.Set("subAcct", sub)
	var out []accountBalance
	if err := s.t.do(ctx, http.MethodGet, "/api/v5/account/subaccount/balances", q, nil, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return []AssetBalance{}, nil
	}
	return out[0].Details, nil
}
