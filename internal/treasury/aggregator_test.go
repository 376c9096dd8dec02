package treasury

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/okxflow/pkg/okx"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func bal(ccy, avail string) okx.AssetBalance {
	return okx.AssetBalance{Ccy: ccy, Avail: dec(avail)}
}

func treeFixture() *fakeExchange {
	return &fakeExchange{
		mainFunding: []okx.AssetBalance{bal("ETH", "1"), bal("USDT", "100")},
		mainTrading: []okx.AssetBalance{bal("ETH", "0.5")},
		subList: []okx.SubAccount{
			{Name: "sub1", Enable: true, CanTransOut: true},
			{Name: "sub2", Enable: true, CanTransOut: false},
			{Name: "frozen", Enable: false, CanTransOut: true},
		},
		subFunding: map[string][]okx.AssetBalance{
			"sub1": {bal("ETH", "0.2")},
			"sub2": {bal("ETH", "99")},
		},
		subTrading: map[string][]okx.AssetBalance{
			"sub1": {bal("USDT", "50")},
		},
		tickers: []okx.Ticker{
			{InstID: "ETH-USDT", Last: dec("3000")},
			{InstID: "BTC-USD", Last: dec("60000")},
		},
	}
}

func TestTotalBalancesInvariant(t *testing.T) {
	fastRetries(t)
	ex, account, subs, market := newFakes(treeFixture())
	agg := NewAggregator(ex, account, subs, market)

	view, err := agg.TotalBalances(context.Background(), Options{
		WithSubAccounts: true,
		SubEnabled:      true,
	})
	require.NoError(t, err)

	// sub2 cannot transfer out and the frozen sub is filtered, so only
	// sub1 contributes.
	require.Contains(t, view.Subs, "sub1")
	assert.NotContains(t, view.Subs, "sub2")
	assert.NotContains(t, view.Subs, "frozen")

	assert.True(t, view.Total.Get("ETH").Equal(dec("1.7")), "got %s", view.Total.Get("ETH"))
	assert.True(t, view.Total.Get("USDT").Equal(dec("150")))
	assert.Nil(t, view.Valued, "valuation not requested")

	// total[ccy] == sum over all fetched ledgers.
	for ccy := range view.Total {
		sum := view.Main.Funding.Get(ccy).Add(view.Main.Trading.Get(ccy))
		for _, sub := range view.Subs {
			sum = sum.Add(sub.Funding.Get(ccy)).Add(sub.Trading.Get(ccy))
		}
		assert.True(t, view.Total.Get(ccy).Equal(sum), "invariant broken for %s", ccy)
	}
}

func TestTotalBalancesValued(t *testing.T) {
	fastRetries(t)
	ex, account, subs, market := newFakes(treeFixture())
	agg := NewAggregator(ex, account, subs, market)

	view, err := agg.TotalBalances(context.Background(), Options{
		WithSubAccounts: true,
		SubEnabled:      true,
		USDValuation:    true,
	})
	require.NoError(t, err)
	require.NotNil(t, view.Valued)

	eth := view.Valued["ETH"]
	assert.True(t, eth.Balance.Equal(dec("1.7")))
	assert.True(t, eth.USD.Equal(dec("5100")), "1.7 * 3000, got %s", eth.USD)

	// USDT has no -USDT ticker, so its price defaults to zero.
	assert.True(t, view.Valued["USDT"].USD.IsZero())
}

func TestTotalBalancesOnlyFunding(t *testing.T) {
	fastRetries(t)
	ex, account, subs, market := newFakes(treeFixture())
	agg := NewAggregator(ex, account, subs, market)

	view, err := agg.TotalBalances(context.Background(), Options{
		WithSubAccounts: true,
		SubEnabled:      true,
		OnlyFunding:     true,
	})
	require.NoError(t, err)

	assert.Nil(t, view.Main.Trading, "trading snapshot absent in funding-only mode")
	assert.Nil(t, view.Subs["sub1"].Trading)
	assert.Zero(t, ex.tradingBalanceCalls)
	assert.Zero(t, ex.subTradingCalls)
	assert.True(t, view.Total.Get("ETH").Equal(dec("1.2")), "main 1 + sub1 0.2")
}

func TestTotalBalancesWithoutSubs(t *testing.T) {
	fastRetries(t)
	ex, account, subs, market := newFakes(treeFixture())
	agg := NewAggregator(ex, account, subs, market)

	view, err := agg.TotalBalances(context.Background(), Options{})
	require.NoError(t, err)
	assert.Nil(t, view.Subs)
	assert.Zero(t, ex.subFundingCalls)
	assert.True(t, view.Total.Get("ETH").Equal(dec("1.5")))
}

func TestEmptyTradingYieldsEmptySnapshot(t *testing.T) {
	fastRetries(t)
	fixture := treeFixture()
	fixture.mainTrading = nil
	ex, account, subs, market := newFakes(fixture)
	agg := NewAggregator(ex, account, subs, market)

	view, err := agg.TotalBalances(context.Background(), Options{})
	require.NoError(t, err)
	require.NotNil(t, view.Main.Trading, "zero trading lines still yield a snapshot")
	assert.Empty(t, view.Main.Trading)
}

func TestPricesKeepsOnlyUSDTQuotes(t *testing.T) {
	fastRetries(t)
	ex, account, subs, market := newFakes(treeFixture())
	agg := NewAggregator(ex, account, subs, market)

	prices, err := agg.Prices(context.Background())
	require.NoError(t, err)
	assert.Len(t, prices, 1)
	assert.True(t, prices["ETH"].Equal(dec("3000")))
}

func TestSubListFilters(t *testing.T) {
	fastRetries(t)
	ex, account, subs, market := newFakes(treeFixture())
	agg := NewAggregator(ex, account, subs, market)

	all, err := agg.SubList(context.Background(), true, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sub1", "sub2"}, all)

	canOut := true
	out, err := agg.SubList(context.Background(), true, &canOut)
	require.NoError(t, err)
	assert.Equal(t, []string{"sub1"}, out)
}

func TestSnapshotGetAbsentIsZero(t *testing.T) {
	snap := Snapshot{"ETH": dec("1")}
	assert.True(t, snap.Get("BTC").IsZero())
	var nilSnap Snapshot
	assert.True(t, nilSnap.Get("ETH").IsZero())
}
