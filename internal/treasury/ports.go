package treasury

import (
	"context"

	"github.com/betbot/okxflow/pkg/okx"
)

// The treasury consumes the exchange through these narrow interfaces;
// *okx.Client's service facades satisfy them directly.

type FundingAPI interface {
	Balances(ctx context.Context, ccy string) ([]okx.AssetBalance, error)
	Transfer(ctx context.Context, p okx.TransferParams) (string, error)
	Withdraw(ctx context.Context, p okx.WithdrawalParams) (string, error)
	CancelWithdrawal(ctx context.Context, wdID string) error
	WithdrawalHistory(ctx context.Context, f okx.HistoryFilter) ([]okx.WithdrawalRecord, error)
	Currencies(ctx context.Context, ccy string) ([]okx.Currency, error)
}

type AccountAPI interface {
	Balances(ctx context.Context, ccy string) ([]okx.AssetBalance, error)
}

type SubAccountAPI interface {
	List(ctx context.Context, enabled bool) ([]okx.SubAccount, error)
	FundingBalances(ctx context.Context, sub, ccy string) ([]okx.AssetBalance, error)
	TradingBalances(ctx context.Context, sub string) ([]okx.AssetBalance, error)
}

type MarketAPI interface {
	Tickers(ctx context.Context, instType string) ([]okx.Ticker, error)
}
