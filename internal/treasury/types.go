// Package treasury implements the fund-routing core: aggregating balances
// across the main account and its sub-accounts, moving funds along the
// sub → main funding path, and submitting on-chain withdrawals.
package treasury

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/betbot/okxflow/pkg/okx"
	"github.com/betbot/okxflow/pkg/retry"
)

// Retry budgets for exchange calls. Blind fixed-delay retries, applied
// uniformly regardless of error type.
var (
	readRetry     = retry.Policy{Attempts: 5, Delay: 2 * time.Second}
	transferRetry = retry.Policy{Attempts: 5, Delay: 1 * time.Second}
)

// Snapshot maps currency code to available amount for one ledger of one
// account. A currency absent from the map is zero.
type Snapshot map[string]decimal.Decimal

// Get returns the available amount, zero for absent currencies.
func (s Snapshot) Get(ccy string) decimal.Decimal {
	if s == nil {
		return decimal.Zero
	}
	return s[ccy]
}

// addInto accumulates every line of s into total.
func (s Snapshot) addInto(total Snapshot) {
	for ccy, avail := range s {
		total[ccy] = total[ccy].Add(avail)
	}
}

func snapshotOf(balances []okx.AssetBalance) Snapshot {
	snap := make(Snapshot, len(balances))
	for _, b := range balances {
		snap[b.Ccy] = b.Avail
	}
	return snap
}

// AccountBalance pairs the two ledger snapshots of one account. Trading is
// nil when only the funding ledger was requested; an account with no
// trading lines gets an empty (non-nil) snapshot.
type AccountBalance struct {
	Funding Snapshot
	Trading Snapshot
}

// ValuedBalance carries a balance together with its USD valuation
// (spot price × amount; zero for non-tradable assets).
type ValuedBalance struct {
	Balance decimal.Decimal
	USD     decimal.Decimal
}

// AggregateView is the unified balance view over main + sub-accounts.
// Total always holds the raw per-currency sums; Valued is non-nil exactly
// when USD valuation was requested.
type AggregateView struct {
	Total  Snapshot
	Valued map[string]ValuedBalance
	Main   AccountBalance
	Subs   map[string]AccountBalance
}
