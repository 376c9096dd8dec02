// Package evm is the blockchain-side wallet client: it holds a private key,
// queries native and ERC-20 balances, builds and signs transfer
// transactions, and broadcasts them over an RPC endpoint.
package evm

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"

	"github.com/betbot/okxflow/pkg/retry"
)

// RPC retry budgets. Wallet calls ride flaky public endpoints, so the
// budgets are wider than the exchange ones.
var (
	rpcReadRetry  = retry.Policy{Attempts: 15, Delay: 4500 * time.Millisecond}
	rpcWriteRetry = retry.Policy{Attempts: 15, Delay: 5 * time.Second}
)

const nativeTransferGas = 21000

// Wallet wraps one private key and one RPC connection.
type Wallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
	client  *ethclient.Client
	chainID *big.Int

	// tokens memoizes bound ERC-20 contract handles per token address.
	// Populated lazily, never evicted.
	tokensMu sync.Mutex
	tokens   map[common.Address]*bind.BoundContract
}

// Option customizes the RPC connection.
type Option func(*dialConfig)

type dialConfig struct {
	headers map[string]string
	proxy   string
}

// WithHeaders attaches default headers to every RPC request.
func WithHeaders(headers map[string]string) Option {
	return func(c *dialConfig) {
		c.headers = headers
	}
}

// WithProxy routes RPC traffic through proxy ("host:port" or
// "user:pass@host:port").
func WithProxy(proxy string) Option {
	return func(c *dialConfig) {
		c.proxy = proxy
	}
}

// NewWallet dials the RPC endpoint and derives the wallet address from the
// private key (hex, with or without 0x prefix).
func NewWallet(ctx context.Context, rpcURL, privateKey string, opts ...Option) (*Wallet, error) {
	key, err := ParseKey(privateKey)
	if err != nil {
		return nil, err
	}

	cfg := &dialConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var dialOpts []rpc.ClientOption
	for k, v := range cfg.headers {
		dialOpts = append(dialOpts, rpc.WithHeader(k, v))
	}
	if cfg.proxy != "" {
		proxyURL, err := url.Parse("http://" + cfg.proxy)
		if err != nil {
			return nil, errors.Wrap(err, "evm: parse proxy")
		}
		dialOpts = append(dialOpts, rpc.WithHTTPClient(&http.Client{
			Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL)},
			Timeout:   30 * time.Second,
		}))
	}

	rpcClient, err := rpc.DialOptions(ctx, rpcURL, dialOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "evm: dial rpc")
	}
	client := ethclient.NewClient(rpcClient)

	chainID, err := retry.Do(ctx, rpcReadRetry, func() (*big.Int, error) {
		return client.ChainID(ctx)
	})
	if err != nil {
		return nil, errors.Wrap(err, "evm: chain id")
	}

	return &Wallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		client:  client,
		chainID: chainID,
		tokens:  make(map[common.Address]*bind.BoundContract),
	}, nil
}

// ParseKey decodes a hex private key, accepting an optional 0x prefix.
func ParseKey(privateKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKey), "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "evm: parse private key")
	}
	return key, nil
}

// Address returns the wallet address.
func (w *Wallet) Address() common.Address {
	return w.address
}

// ChainID returns the chain id the wallet is connected to.
func (w *Wallet) ChainID() *big.Int {
	return new(big.Int).Set(w.chainID)
}

// Nonce returns the pending nonce of the wallet address.
func (w *Wallet) Nonce(ctx context.Context) (uint64, error) {
	return retry.Do(ctx, rpcWriteRetry, func() (uint64, error) {
		return w.client.PendingNonceAt(ctx, w.address)
	})
}

// Balance returns the native balance when token is nil, otherwise the
// ERC-20 balance, both in the smallest unit.
func (w *Wallet) Balance(ctx context.Context, token *common.Address) (*big.Int, error) {
	return retry.Do(ctx, rpcReadRetry, func() (*big.Int, error) {
		if token == nil {
			return w.client.BalanceAt(ctx, w.address, nil)
		}
		return w.tokenBalance(ctx, *token)
	})
}

func (w *Wallet) tokenBalance(ctx context.Context, token common.Address) (*big.Int, error) {
	handle := w.tokenHandle(token)
	var out []interface{}
	if err := handle.Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", w.address); err != nil {
		return nil, errors.Wrapf(err, "evm: balanceOf %s", token)
	}
	if len(out) == 0 {
		return nil, errors.Errorf("evm: balanceOf %s returned no value", token)
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("evm: balanceOf %s returned unexpected type", token)
	}
	return balance, nil
}

// Transfer sends amount (smallest unit) to the destination address, native
// when token is nil, otherwise as an ERC-20 transfer. Returns the
// transaction hash once the transaction is broadcast.
func (w *Wallet) Transfer(ctx context.Context, amount *big.Int, to common.Address, token *common.Address) (common.Hash, error) {
	return retry.Do(ctx, rpcWriteRetry, func() (common.Hash, error) {
		return w.transferOnce(ctx, amount, to, token)
	})
}

func (w *Wallet) transferOnce(ctx context.Context, amount *big.Int, to common.Address, token *common.Address) (common.Hash, error) {
	nonce, err := w.client.PendingNonceAt(ctx, w.address)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "evm: nonce")
	}
	tip, err := w.client.SuggestGasTipCap(ctx)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "evm: gas tip")
	}
	head, err := w.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "evm: head")
	}
	// feeCap = tip + 2*baseFee keeps the tx valid across base-fee spikes.
	feeCap := new(big.Int).Add(tip, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))

	var inner *ethtypes.DynamicFeeTx
	if token == nil {
		inner = &ethtypes.DynamicFeeTx{
			ChainID:   w.chainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       nativeTransferGas,
			To:        &to,
			Value:     amount,
		}
	} else {
		data, err := packTransfer(to, amount)
		if err != nil {
			return common.Hash{}, err
		}
		gas, err := w.client.EstimateGas(ctx, ethereum.CallMsg{
			From: w.address,
			To:   token,
			Data: data,
		})
		if err != nil {
			return common.Hash{}, errors.Wrap(err, "evm: estimate gas")
		}
		inner = &ethtypes.DynamicFeeTx{
			ChainID:   w.chainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       gas,
			To:        token,
			Value:     big.NewInt(0),
			Data:      data,
		}
	}

	signed, err := ethtypes.SignNewTx(w.key, ethtypes.LatestSignerForChainID(w.chainID), inner)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "evm: sign tx")
	}
	if err := w.client.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, errors.Wrap(err, "evm: broadcast")
	}
	return signed.Hash(), nil
}

// tokenHandle returns the memoized bound contract for a token address.
func (w *Wallet) tokenHandle(token common.Address) *bind.BoundContract {
	w.tokensMu.Lock()
	defer w.tokensMu.Unlock()
	if handle, ok := w.tokens[token]; ok {
		return handle
	}
	handle := bind.NewBoundContract(token, erc20ABI(), w.client, w.client, w.client)
	w.tokens[token] = handle
	return handle
}
