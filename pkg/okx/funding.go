package okx

import (
	"context"
	"net/http"
	"net/url"
)

// FundingService covers the asset endpoints: funding-ledger balances,
// internal transfers, withdrawals and currency metadata.
type FundingService struct {
	t *transport
}

// Balances returns the funding-ledger balances of the main account,
// optionally narrowed to one currency.
func (s *FundingService) Balances(ctx context.Context, ccy string) ([]AssetBalance, error) {
	q := url.Values{}
	if ccy != "" {
		q.Set("ccy", ccy)
	}
	var out []AssetBalance
	if err := s.t.do(ctx, http.MethodGet, "/api/v5/asset/balances", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type transferBody struct {
	Ccy     string `json:"ccy"`
	Amt     string `json:"amt"`
	From    string `json:"from"`
	To      string `json:"to"`
	Type    string `json:"type,omitempty"`
	SubAcct string `json:"subAcct,omitempty"`
}

type transferResult struct {
	TransID string `json:"transId"`
}

// Transfer moves funds between ledgers and returns the transaction id.
// A success response without transaction records is a broken response.
func (s *FundingService) Transfer(ctx context.Context, p TransferParams) (string, error) {
	body := transferBody{
		Ccy:     p.Ccy,
		Amt:     p.Amt.String(),
		From:    p.From,
		To:      p.To,
		Type:    p.Type,
		SubAcct: p.SubAcct,
	}
	var out []transferResult
	if err := s.t.do(ctx, http.MethodPost, "/api/v5/asset/transfer", nil, body, &out); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", &BrokenResponseError{Op: "funds transfer", Body: "no transaction records"}
	}
	return out[0].TransID, nil
}

type withdrawalBody struct {
	Ccy      string `json:"ccy"`
	Amt      string `json:"amt"`
	Dest     string `json:"dest"`
	ToAddr   string `json:"toAddr"`
	Fee      string `json:"fee"`
	Chain    string `json:"chain,omitempty"`
	ClientID string `json:"clientId,omitempty"`
}

type withdrawalResult struct {
	WdID string `json:"wdId"`
}

// Withdraw submits an on-chain withdrawal and returns the withdrawal id.
// A success response without records is a broken response.
func (s *FundingService) Withdraw(ctx context.Context, p WithdrawalParams) (string, error) {
	body := withdrawalBody{
		Ccy:      p.Ccy,
		Amt:      p.Amt.String(),
		Dest:     p.Dest,
		ToAddr:   p.ToAddr,
		Fee:      p.Fee.String(),
		Chain:    p.Chain,
		ClientID: p.ClientID,
	}
	var out []withdrawalResult
	if err := s.t.do(ctx, http.MethodPost, "/api/v5/asset/withdrawal", nil, body, &out); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", &BrokenResponseError{Op: "withdrawal", Body: "no withdrawal records"}
	}
	return out[0].WdID, nil
}

// CancelWithdrawal cancels a pending withdrawal by id.
func (s *FundingService) CancelWithdrawal(ctx context.Context, wdID string) error {
	body := map[string]string{"wdId": wdID}
	var out []withdrawalResult
	return s.t.do(ctx, http.MethodPost, "/api/v5/asset/cancel-withdrawal", nil, body, &out)
}

// WithdrawalHistory returns past withdrawal records matching the filter.
func (s *FundingService) WithdrawalHistory(ctx context.Context, f HistoryFilter) ([]WithdrawalRecord, error) {
	q := url.Values{}
	if f.Ccy != "" {
		q.Set("ccy", f.Ccy)
	}
	if f.WdID != "" {
		q.Set("wdId", f.WdID)
	}
	if f.After != "" {
		q.Set("after", f.After)
	}
	if f.Before != "" {
		q.Set("before", f.Before)
	}
	var out []WithdrawalRecord
	if err := s.t.do(ctx, http.MethodGet, "/api/v5/asset/withdrawal-history", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Currencies returns currency+chain metadata, optionally narrowed to one
// currency code.
func (s *FundingService) Currencies(ctx context.Context, ccy string) ([]Currency, error) {
	q := url.Values{}
	if ccy != "" {
		q.Set("ccy", ccy)
	}
	var out []Currency
	if err := s.t.do(ctx, http.MethodGet, "/api/v5/asset/currencies", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
