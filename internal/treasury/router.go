package treasury

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/betbot/okxflow/pkg/logger"
	"github.com/betbot/okxflow/pkg/okx"
	"github.com/betbot/okxflow/pkg/retry"
)

// Router moves funds between a sub-account's ledgers and the main account,
// and from main trading to main funding, as the internal step preceding a
// withdrawal.
type Router struct {
	funding FundingAPI
	account AccountAPI
	subs    SubAccountAPI
}

// NewRouter wires the router to the exchange surfaces it needs.
func NewRouter(funding FundingAPI, account AccountAPI, subs SubAccountAPI) *Router {
	return &Router{funding: funding, account: account, subs: subs}
}

// TransferFromSub moves funds out of a sub-account into the main account.
//
// amt nil means "full available balance", re-fetched per ledger at call
// time. fromTrading selects the source ledger: nil attempts the funding and
// trading legs independently, true/false a single leg. toTrading selects
// the destination ledger on the main account.
//
// The result lists the transaction ids of the legs that actually ran,
// funding leg first; a leg whose resolved amount is zero is skipped. An
// empty result means nothing was transferable.
func (r *Router) TransferFromSub(ctx context.Context, sub, ccy string, amt *decimal.Decimal, fromTrading *bool, toTrading bool) ([]string, error) {
	return retry.Do(ctx, transferRetry, func() ([]string, error) {
		return r.transferFromSubOnce(ctx, sub, ccy, amt, fromTrading, toTrading)
	})
}

func (r *Router) transferFromSubOnce(ctx context.Context, sub, ccy string, amt *decimal.Decimal, fromTrading *bool, toTrading bool) ([]string, error) {
	to := okx.FundingAccount
	if toTrading {
		to = okx.TradingAccount
	}

	var balance AccountBalance
	if amt == nil {
		onlyFunding := fromTrading != nil && !*fromTrading
		funding, err := r.subs.FundingBalances(ctx, sub, ccy)
		if err != nil {
			return nil, err
		}
		balance.Funding = snapshotOf(funding)
		if !onlyFunding {
			trading, err := r.subs.TradingBalances(ctx, sub)
			if err != nil {
				return nil, err
			}
			balance.Trading = snapshotOf(trading)
		}
	}

	resolve := func(snap Snapshot) decimal.Decimal {
		if amt != nil {
			return *amt
		}
		return snap.Get(ccy)
	}

	leg := func(from string, amount decimal.Decimal) (string, error) {
		if amount.LessThanOrEqual(decimal.Zero) {
			return "", nil // no-op leg
		}
		id, err := r.funding.Transfer(ctx, okx.TransferParams{
			Ccy:     ccy,
			Amt:     amount,
			From:    from,
			To:      to,
			Type:    okx.TransferSubToMaster,
			SubAcct: sub,
		})
		if err != nil {
			return "", err
		}
		logger.Infof("transferred %s %s from sub %s (ledger %s), transId=%s", amount, ccy, sub, from, id)
		return id, nil
	}

	var ids []string
	runLeg := func(from string, amount decimal.Decimal) error {
		id, err := leg(from, amount)
		if err != nil {
			return err
		}
		if id != "" {
			ids = append(ids, id)
		}
		return nil
	}

	switch {
	case fromTrading == nil:
		if err := runLeg(okx.FundingAccount, resolve(balance.Funding)); err != nil {
			return nil, err
		}
		if err := runLeg(okx.TradingAccount, resolve(balance.Trading)); err != nil {
			return nil, err
		}
	case *fromTrading:
		if err := runLeg(okx.TradingAccount, resolve(balance.Trading)); err != nil {
			return nil, err
		}
	default:
		if err := runLeg(okx.FundingAccount, resolve(balance.Funding)); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// TransferFromTrading moves funds from the main trading ledger to the main
// funding ledger. amt nil means "full trading balance". Returns the
// transaction id, or "" when there was nothing to transfer.
func (r *Router) TransferFromTrading(ctx context.Context, ccy string, amt *decimal.Decimal) (string, error) {
	return retry.Do(ctx, transferRetry, func() (string, error) {
		return r.transferFromTradingOnce(ctx, ccy, amt)
	})
}

func (r *Router) transferFromTradingOnce(ctx context.Context, ccy string, amt *decimal.Decimal) (string, error) {
	amount := decimal.Zero
	if amt != nil {
		amount = *amt
	} else {
		trading, err := r.account.Balances(ctx, ccy)
		if err != nil {
			return "", err
		}
		amount = snapshotOf(trading).Get(ccy)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return "", nil
	}

	id, err := r.funding.Transfer(ctx, okx.TransferParams{
		Ccy:  ccy,
		Amt:  amount,
		From: okx.TradingAccount,
		To:   okx.FundingAccount,
		Type: okx.TransferIntraAccount,
	})
	if err != nil {
		return "", err
	}
	logger.Infof("transferred %s %s from main trading to funding, transId=%s", amount, ccy, id)
	return id, nil
}
