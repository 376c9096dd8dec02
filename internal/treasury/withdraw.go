package treasury

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/betbot/okxflow/pkg/logger"
	"github.com/betbot/okxflow/pkg/okx"
	"github.com/betbot/okxflow/pkg/retry"
)

// Withdrawer submits on-chain withdrawals from the main funding ledger.
type Withdrawer struct {
	funding FundingAPI
}

// NewWithdrawer wires the withdrawer to the funding surface.
func NewWithdrawer(funding FundingAPI) *Withdrawer {
	return &Withdrawer{funding: funding}
}

// Withdraw submits one withdrawal and returns the withdrawal id.
//
// minFee nil resolves the fee from the first withdraw-enabled currency
// entry matching ccy and chain. amt nil resolves to the full main funding
// balance of ccy at call time.
func (w *Withdrawer) Withdraw(ctx context.Context, addr, ccy, chain string, amt, minFee *decimal.Decimal) (string, error) {
	return retry.Do(ctx, transferRetry, func() (string, error) {
		return w.withdrawOnce(ctx, addr, ccy, chain, amt, minFee)
	})
}

func (w *Withdrawer) withdrawOnce(ctx context.Context, addr, ccy, chain string, amt, minFee *decimal.Decimal) (string, error) {
	fee := decimal.Zero
	if minFee != nil {
		fee = *minFee
	} else {
		currencies, err := w.funding.Currencies(ctx, ccy)
		if err != nil {
			return "", err
		}
		found := false
		for _, c := range currencies {
			if c.CanWd && c.Ccy == ccy && c.Chain == chain {
				fee = c.MinFee
				found = true
				break
			}
		}
		if !found {
			return "", errors.Errorf("treasury: chain %s not withdrawable for %s", chain, ccy)
		}
	}

	amount := decimal.Zero
	if amt != nil {
		amount = *amt
	} else {
		balances, err := w.funding.Balances(ctx, ccy)
		if err != nil {
			return "", err
		}
		amount = snapshotOf(balances).Get(ccy)
	}

	id, err := w.funding.Withdraw(ctx, okx.WithdrawalParams{
		Ccy:      ccy,
		Amt:      amount,
		Dest:     okx.DestOnChain,
		ToAddr:   addr,
		Fee:      fee,
		Chain:    chain,
		ClientID: newClientID(),
	})
	if err != nil {
		return "", err
	}
	logger.Infof("withdrawal %s %s to %s via %s, fee %s, wdId=%s", amount, ccy, addr, chain, fee, id)
	return id, nil
}

// CancelWithdrawal cancels a pending withdrawal. A rejection by the
// exchange yields false without an error; transport failures propagate.
func (w *Withdrawer) CancelWithdrawal(ctx context.Context, wdID string) (bool, error) {
	err := transferRetry.Do(ctx, func() error {
		return w.funding.CancelWithdrawal(ctx, wdID)
	})
	if err == nil {
		return true, nil
	}
	var apiErr *okx.APIError
	if errors.As(err, &apiErr) {
		logger.Warnf("cancel withdrawal %s rejected: %s", wdID, apiErr.Msg)
		return false, nil
	}
	return false, err
}

// History returns withdrawal records for ccy, optionally filtered
// client-side to one chain by its trailing chain-name segment, and
// optionally bounded by wdId pagination cursors.
func (w *Withdrawer) History(ctx context.Context, ccy, chain, before, after string) ([]okx.WithdrawalRecord, error) {
	records, err := retry.Do(ctx, readRetry, func() ([]okx.WithdrawalRecord, error) {
		return w.funding.WithdrawalHistory(ctx, okx.HistoryFilter{Ccy: ccy, Before: before, After: after})
	})
	if err != nil {
		return nil, err
	}
	if chain == "" {
		return records, nil
	}

	want := chainName(chain, ccy)
	filtered := records[:0]
	for _, rec := range records {
		if chainName(rec.Chain, rec.Ccy) == want {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

// chainName strips the "CCY-" prefix from a chain identifier, leaving the
// network name ("ETH-Arbitrum One" -> "Arbitrum One").
func chainName(chain, ccy string) string {
	return strings.TrimPrefix(chain, ccy+"-")
}

func newClientID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
