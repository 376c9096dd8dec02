package treasury

import (
	"context"
	"testing"

	"github.com/betbot/okxflow/pkg/okx"
	"github.com/betbot/okxflow/pkg/retry"
)

// fastRetries strips the retry delays so failure paths don't sleep.
func fastRetries(t *testing.T) {
	t.Helper()
	savedRead, savedTransfer := readRetry, transferRetry
	readRetry = retry.Policy{Attempts: 1}
	transferRetry = retry.Policy{Attempts: 1}
	t.Cleanup(func() {
		readRetry, transferRetry = savedRead, savedTransfer
	})
}

// fakeExchange satisfies FundingAPI, AccountAPI, SubAccountAPI and
// MarketAPI with scripted data, recording every mutating call.
type fakeExchange struct {
	mainFunding []okx.AssetBalance
	mainTrading []okx.AssetBalance
	subList     []okx.SubAccount
	subFunding  map[string][]okx.AssetBalance
	subTrading  map[string][]okx.AssetBalance
	tickers     []okx.Ticker
	currencies  []okx.Currency
	history     []okx.WithdrawalRecord

	transferErr error
	withdrawErr error
	cancelErr   error

	transfers   []okx.TransferParams
	withdrawals []okx.WithdrawalParams

	fundingBalanceCalls int
	tradingBalanceCalls int
	subFundingCalls     int
	subTradingCalls     int
}

func filterCcy(balances []okx.AssetBalance, ccy string) []okx.AssetBalance {
	if ccy == "" {
		return balances
	}
	var out []okx.AssetBalance
	for _, b := range balances {
		if b.Ccy == ccy {
			out = append(out, b)
		}
	}
	return out
}

func (f *fakeExchange) Balances(_ context.Context, ccy string) ([]okx.AssetBalance, error) {
	f.fundingBalanceCalls++
	return filterCcy(f.mainFunding, ccy), nil
}

func (f *fakeExchange) Transfer(_ context.Context, p okx.TransferParams) (string, error) {
	if f.transferErr != nil {
		return "", f.transferErr
	}
	f.transfers = append(f.transfers, p)
	return "trans-" + p.From, nil
}

func (f *fakeExchange) Withdraw(_ context.Context, p okx.WithdrawalParams) (string, error) {
	if f.withdrawErr != nil {
		return "", f.withdrawErr
	}
	f.withdrawals = append(f.withdrawals, p)
	return "wd-1", nil
}

func (f *fakeExchange) CancelWithdrawal(_ context.Context, _ string) error {
	return f.cancelErr
}

func (f *fakeExchange) WithdrawalHistory(_ context.Context, _ okx.HistoryFilter) ([]okx.WithdrawalRecord, error) {
	return f.history, nil
}

func (f *fakeExchange) Currencies(_ context.Context, ccy string) ([]okx.Currency, error) {
	if ccy == "" {
		return f.currencies, nil
	}
	var out []okx.Currency
	for _, c := range f.currencies {
		if c.Ccy == ccy {
			out = append(out, c)
		}
	}
	return out, nil
}

// AccountAPI: main trading ledger.

type fakeAccount struct {
	ex *fakeExchange
}

func (f fakeAccount) Balances(_ context.Context, ccy string) ([]okx.AssetBalance, error) {
	f.ex.tradingBalanceCalls++
	return filterCcy(f.ex.mainTrading, ccy), nil
}

// SubAccountAPI.

type fakeSubs struct {
	ex *fakeExchange
}

func (f fakeSubs) List(_ context.Context, enabled bool) ([]okx.SubAccount, error) {
	var out []okx.SubAccount
	for _, s := range f.ex.subList {
		if s.Enable == enabled {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f fakeSubs) FundingBalances(_ context.Context, sub, ccy string) ([]okx.AssetBalance, error) {
	f.ex.subFundingCalls++
	return filterCcy(f.ex.subFunding[sub], ccy), nil
}

func (f fakeSubs) TradingBalances(_ context.Context, sub string) ([]okx.AssetBalance, error) {
	f.ex.subTradingCalls++
	return f.ex.subTrading[sub], nil
}

// MarketAPI.

type fakeMarket struct {
	ex *fakeExchange
}

func (f fakeMarket) Tickers(_ context.Context, _ string) ([]okx.Ticker, error) {
	return f.ex.tickers, nil
}

func newFakes(ex *fakeExchange) (*fakeExchange, fakeAccount, fakeSubs, fakeMarket) {
	return ex, fakeAccount{ex: ex}, fakeSubs{ex: ex}, fakeMarket{ex: ex}
}
