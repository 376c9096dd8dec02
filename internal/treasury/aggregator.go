package treasury

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/betbot/okxflow/pkg/logger"
	"github.com/betbot/okxflow/pkg/okx"
	"github.com/betbot/okxflow/pkg/retry"
)

// quoteCcy is the stablecoin every spot price is quoted in for valuation.
const quoteCcy = "USDT"

// Aggregator collects funding and trading balances across the whole
// account tree into one view. All data is fetched fresh on every call.
type Aggregator struct {
	funding FundingAPI
	account AccountAPI
	subs    SubAccountAPI
	market  MarketAPI
}

// NewAggregator wires the aggregator to the four exchange surfaces.
func NewAggregator(funding FundingAPI, account AccountAPI, subs SubAccountAPI, market MarketAPI) *Aggregator {
	return &Aggregator{funding: funding, account: account, subs: subs, market: market}
}

// Options controls one aggregation call.
type Options struct {
	// Ccy narrows funding snapshots to one currency ("" = all).
	Ccy string
	// WithSubAccounts includes the sub-account tree.
	WithSubAccounts bool
	// SubEnabled selects normal (true) or frozen (false) sub-accounts.
	SubEnabled bool
	// OnlyFunding skips every trading-ledger snapshot.
	OnlyFunding bool
	// USDValuation attaches a per-currency USD value to the totals.
	USDValuation bool
}

// Prices returns spot prices quoted in USDT, keyed by base currency.
func (a *Aggregator) Prices(ctx context.Context) (map[string]decimal.Decimal, error) {
	return retry.Do(ctx, readRetry, func() (map[string]decimal.Decimal, error) {
		tickers, err := a.market.Tickers(ctx, okx.InstTypeSpot)
		if err != nil {
			return nil, err
		}
		prices := make(map[string]decimal.Decimal)
		for _, t := range tickers {
			base, ok := strings.CutSuffix(t.InstID, "-"+quoteCcy)
			if !ok {
				continue
			}
			prices[base] = t.Last
		}
		return prices, nil
	})
}

// SubList returns sub-account names filtered by enabled state and, when
// canTransOut is non-nil, by outbound-transfer permission.
func (a *Aggregator) SubList(ctx context.Context, enabled bool, canTransOut *bool) ([]string, error) {
	return retry.Do(ctx, readRetry, func() ([]string, error) {
		subs, err := a.subs.List(ctx, enabled)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(subs))
		for _, sub := range subs {
			if canTransOut != nil && sub.CanTransOut != *canTransOut {
				continue
			}
			names = append(names, sub.Name)
		}
		return names, nil
	})
}

// SubBalance fetches one sub-account's funding (and, unless onlyFunding,
// trading) snapshot.
func (a *Aggregator) SubBalance(ctx context.Context, sub, ccy string, onlyFunding bool) (AccountBalance, error) {
	return retry.Do(ctx, readRetry, func() (AccountBalance, error) {
		return a.subBalanceOnce(ctx, sub, ccy, onlyFunding)
	})
}

func (a *Aggregator) subBalanceOnce(ctx context.Context, sub, ccy string, onlyFunding bool) (AccountBalance, error) {
	funding, err := a.subs.FundingBalances(ctx, sub, ccy)
	if err != nil {
		return AccountBalance{}, err
	}
	balance := AccountBalance{Funding: snapshotOf(funding)}
	if onlyFunding {
		return balance, nil
	}

	trading, err := a.subs.TradingBalances(ctx, sub)
	if err != nil {
		return AccountBalance{}, err
	}
	balance.Trading = snapshotOf(trading)
	return balance, nil
}

// AllSubBalances fetches every matching sub-account's balances and the
// running per-currency total over them.
func (a *Aggregator) AllSubBalances(ctx context.Context, enabled bool, canTransOut *bool, ccy string, onlyFunding bool) (Snapshot, map[string]AccountBalance, error) {
	names, err := a.SubList(ctx, enabled, canTransOut)
	if err != nil {
		return nil, nil, err
	}

	total := make(Snapshot)
	perSub := make(map[string]AccountBalance, len(names))
	for _, name := range names {
		balance, err := a.SubBalance(ctx, name, ccy, onlyFunding)
		if err != nil {
			return nil, nil, err
		}
		perSub[name] = balance
		balance.Funding.addInto(total)
		balance.Trading.addInto(total)
	}
	return total, perSub, nil
}

// TotalBalances produces the aggregate view over main + sub-accounts.
func (a *Aggregator) TotalBalances(ctx context.Context, opts Options) (*AggregateView, error) {
	return retry.Do(ctx, readRetry, func() (*AggregateView, error) {
		return a.totalBalancesOnce(ctx, opts)
	})
}

func (a *Aggregator) totalBalancesOnce(ctx context.Context, opts Options) (*AggregateView, error) {
	var prices map[string]decimal.Decimal
	if opts.USDValuation {
		var err error
		if prices, err = a.Prices(ctx); err != nil {
			return nil, err
		}
	}

	view := &AggregateView{Total: make(Snapshot)}
	if opts.WithSubAccounts {
		canTransOut := true
		subTotal, perSub, err := a.AllSubBalances(ctx, opts.SubEnabled, &canTransOut, opts.Ccy, opts.OnlyFunding)
		if err != nil {
			return nil, err
		}
		view.Total = subTotal
		view.Subs = perSub
	}

	funding, err := a.funding.Balances(ctx, opts.Ccy)
	if err != nil {
		return nil, err
	}
	view.Main.Funding = snapshotOf(funding)
	view.Main.Funding.addInto(view.Total)

	if !opts.OnlyFunding {
		trading, err := a.account.Balances(ctx, opts.Ccy)
		if err != nil {
			return nil, err
		}
		view.Main.Trading = snapshotOf(trading)
		view.Main.Trading.addInto(view.Total)
	}

	if opts.USDValuation {
		view.Valued = make(map[string]ValuedBalance, len(view.Total))
		for ccy, balance := range view.Total {
			view.Valued[ccy] = ValuedBalance{
				Balance: balance,
				USD:     balance.Mul(prices[ccy]), // zero price for non-tradable assets
			}
		}
	}

	logger.Debugf("aggregated %d currencies over %d sub-accounts", len(view.Total), len(view.Subs))
	return view, nil
}
