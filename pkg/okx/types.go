package okx

import (
	"github.com/shopspring/decimal"
)

// Ledger identifiers used by the transfer endpoint.
const (
	FundingAccount = "6"
	TradingAccount = "18"
)

// Transfer types.
const (
	TransferIntraAccount = "0" // within the master account
	TransferSubToMaster  = "2" // sub-account to master, master keys
)

// DestOnChain selects an on-chain withdrawal (as opposed to internal).
const DestOnChain = "4"

// AssetBalance is one currency line of a funding or trading snapshot.
type AssetBalance struct {
	Ccy    string          `json:"ccy"`
	Avail  decimal.Decimal `json:"availBal"`
	Frozen decimal.Decimal `json:"frozenBal"`
}

// SubAccount describes one sub-account of the master account.
type SubAccount struct {
	Name        string `json:"subAcct"`
	Enable      bool   `json:"enable"`
	CanTransOut bool   `json:"canTransOut"`
}

// Ticker is one spot market ticker line.
type Ticker struct {
	InstID string          `json:"instId"`
	Last   decimal.Decimal `json:"last"`
}

// Currency describes one currency+chain combination with its withdrawal
// constraints. A currency supporting several chains yields several entries.
type Currency struct {
	Ccy    string          `json:"ccy"`
	Chain  string          `json:"chain"`
	CanDep bool            `json:"canDep"`
	CanWd  bool            `json:"canWd"`
	MinFee decimal.Decimal `json:"minFee"`
	MinWd  decimal.Decimal `json:"minWd"`
}

// TransferParams describes one internal transfer between ledgers.
type TransferParams struct {
	Ccy     string
	Amt     decimal.Decimal
	From    string // FundingAccount or TradingAccount
	To      string
	Type    string // TransferIntraAccount or TransferSubToMaster
	SubAcct string // source sub-account for TransferSubToMaster
}

// WithdrawalParams describes one on-chain withdrawal request.
type WithdrawalParams struct {
	Ccy      string
	Amt      decimal.Decimal
	Dest     string // DestOnChain
	ToAddr   string
	Fee      decimal.Decimal
	Chain    string
	ClientID string
}

// WithdrawalRecord is one line of the withdrawal history.
type WithdrawalRecord struct {
	Ccy   string          `json:"ccy"`
	Chain string          `json:"chain"`
	Amt   decimal.Decimal `json:"amt"`
	TxID  string          `json:"txId"`
	WdID  string          `json:"wdId"`
	State string          `json:"state"`
	Ts    string          `json:"ts"`
}

// HistoryFilter narrows a withdrawal-history query. Zero fields are omitted.
type HistoryFilter struct {
	Ccy    string
	WdID   string
	After  string // pagination: requests records earlier than this wdId
	Before string // pagination: requests records newer than this wdId
}
