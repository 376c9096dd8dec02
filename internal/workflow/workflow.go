// Package workflow drives the interactive deposit and withdraw loops,
// wiring file loading, proxy probing, the exchange treasury and the EVM
// wallet behind menu prompts.
package workflow

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"math/rand/v2"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/betbot/okxflow/internal/listfile"
	"github.com/betbot/okxflow/internal/proxy"
	"github.com/betbot/okxflow/internal/treasury"
	"github.com/betbot/okxflow/pkg/config"
	"github.com/betbot/okxflow/pkg/evm"
	"github.com/betbot/okxflow/pkg/logger"
	"github.com/betbot/okxflow/pkg/okx"
)

// subTransferPause separates consecutive sub-account transfers so the
// exchange does not throttle the burst.
const subTransferPause = 2 * time.Second

var weiPerEther = decimal.New(1, 18)

// Prompter abstracts the interactive menus so the flows can run against a
// scripted implementation in tests.
type Prompter interface {
	Select(title string, options []string) (int, error)
	Confirm(prompt string) (bool, error)
}

// Aggregating is the balance surface the withdraw flow reads.
type Aggregating interface {
	TotalBalances(ctx context.Context, opts treasury.Options) (*treasury.AggregateView, error)
}

// Routing moves funds inside the exchange ahead of a withdrawal.
type Routing interface {
	TransferFromSub(ctx context.Context, sub, ccy string, amt *decimal.Decimal, fromTrading *bool, toTrading bool) ([]string, error)
	TransferFromTrading(ctx context.Context, ccy string, amt *decimal.Decimal) (string, error)
}

// Withdrawing submits on-chain withdrawals.
type Withdrawing interface {
	Withdraw(ctx context.Context, addr, ccy, chain string, amt, minFee *decimal.Decimal) (string, error)
}

// Exchange bundles the treasury components built over one exchange client.
type Exchange struct {
	Aggregator Aggregating
	Router     Routing
	Withdrawer Withdrawing
	Funding    treasury.FundingAPI
}

// Sender is the wallet surface the deposit loop needs.
type Sender interface {
	Address() common.Address
	Transfer(ctx context.Context, amount *big.Int, to common.Address, token *common.Address) (common.Hash, error)
}

// Orchestrator owns one interactive session.
type Orchestrator struct {
	cfg    *config.Config
	prompt Prompter

	// buildExchange dials the exchange with the resolved proxy ("" = none).
	buildExchange func(proxyAddr string) (*Exchange, error)
	// dialWallet opens a wallet for one hex private key.
	dialWallet func(ctx context.Context, hexKey, proxyAddr string) (Sender, error)

	checkProxy   func(string) bool
	checkProxies func([]string) []string
	sleep        func(time.Duration)
	rng          *rand.Rand
	printf       func(format string, args ...any)
}

// New builds an orchestrator over the production collaborators.
func New(cfg *config.Config, prompt Prompter, buildExchange func(string) (*Exchange, error)) *Orchestrator {
	o := &Orchestrator{
		cfg:           cfg,
		prompt:        prompt,
		buildExchange: buildExchange,
		checkProxy:    proxy.Check,
		checkProxies:  proxy.CheckAll,
		sleep:         time.Sleep,
		rng: rand.New(rand.NewPCG(
			uint64(time.Now().UnixNano()), uint64(time.Now().UnixNano())>>1)),
		printf: func(format string, args ...any) { fmt.Printf(format+"\n", args...) },
	}
	o.dialWallet = func(ctx context.Context, hexKey, proxyAddr string) (Sender, error) {
		opts := []evm.Option{evm.WithHeaders(cfg.EVM.DefaultHeaders)}
		if proxyAddr != "" {
			opts = append(opts, evm.WithProxy(proxyAddr))
		}
		return evm.NewWallet(ctx, cfg.EVM.RPCURL, hexKey, opts...)
	}
	return o
}

// Run prompts for an action and executes it.
func (o *Orchestrator) Run(ctx context.Context) error {
	choice, err := o.prompt.Select("Choose action:", []string{"Deposit to OKX", "Withdraw from OKX"})
	if err != nil {
		return err
	}
	if choice == 0 {
		return o.Deposit(ctx)
	}
	return o.Withdraw(ctx)
}

func (o *Orchestrator) selectFile(title string) (string, error) {
	files, err := listfile.TextFiles(o.cfg.WorkingDir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", errors.Errorf("no .txt files in %s", o.cfg.WorkingDir)
	}
	idx, err := o.prompt.Select(title, files)
	if err != nil {
		return "", err
	}
	return filepath.Join(o.cfg.WorkingDir, files[idx]), nil
}

// resolveProxy validates the configured proxy, degrading to a direct
// connection when the probe fails.
func (o *Orchestrator) resolveProxy() string {
	raw := o.cfg.OKX.Proxy
	if raw == "" {
		return ""
	}
	p := proxy.Parse(raw)
	if p == "" || !o.checkProxy(p) {
		o.printf("Invalid/broken proxy, continuing without one")
		logger.Warnf("broken proxy %q, continuing without proxy", raw)
		return ""
	}
	return p
}

// Withdraw runs the full withdrawal batch: route internal funds to the
// main funding ledger, then submit one randomized withdrawal per address.
func (o *Orchestrator) Withdraw(ctx context.Context) error {
	addrFile, err := o.selectFile("Choose file with addresses:")
	if err != nil {
		return err
	}
	addresses, err := listfile.Addresses(addrFile)
	if err != nil {
		return err
	}
	if len(addresses) == 0 {
		o.printf("There are no addresses to withdraw")
		return nil
	}
	logger.Infof("loaded %d addresses from %s", len(addresses), addrFile)
	o.printf("Total wallets: %d", len(addresses))

	ex, err := o.buildExchange(o.resolveProxy())
	if err != nil {
		return errors.Wrap(err, "build exchange client")
	}

	currencies, err := ex.Funding.Currencies(ctx, "")
	if err != nil {
		return errors.Wrap(err, "load currencies")
	}

	view, err := ex.Aggregator.TotalBalances(ctx, treasury.Options{
		WithSubAccounts: o.cfg.OKX.UseSubs,
		SubEnabled:      true,
		OnlyFunding:     o.cfg.OKX.OnlyFunding,
		USDValuation:    true,
	})
	if err != nil {
		return errors.Wrap(err, "load balances")
	}

	ccy, err := o.selectCurrency(view)
	if err != nil {
		return err
	}
	chain, minFee, err := o.selectChain(currencies, ccy)
	if err != nil {
		return err
	}

	if o.cfg.OKX.UseSubs {
		o.printf("Transferring from sub-accounts..")
		o.routeSubs(ctx, ex, view, ccy)
	}
	o.routeMainTrading(ctx, ex, view, ccy)

	o.withdrawBatch(ctx, ex, addresses, ccy, chain, minFee)
	return nil
}

// selectCurrency offers every currency worth at least one dollar.
func (o *Orchestrator) selectCurrency(view *treasury.AggregateView) (string, error) {
	oneUSD := decimal.NewFromInt(1)
	var ccys []string
	for ccy, valued := range view.Valued {
		if valued.USD.GreaterThanOrEqual(oneUSD) {
			ccys = append(ccys, ccy)
		}
	}
	if len(ccys) == 0 {
		return "", errors.New("no currency holds at least $1")
	}
	sort.Strings(ccys)

	options := make([]string, len(ccys))
	for i, ccy := range ccys {
		valued := view.Valued[ccy]
		options[i] = fmt.Sprintf("%s - %s (%s$)", valued.Balance, ccy, valued.USD.Round(2))
	}
	idx, err := o.prompt.Select("Choose currency to withdraw:", options)
	if err != nil {
		return "", err
	}
	logger.Infof("selected currency %s", ccys[idx])
	return ccys[idx], nil
}

// selectChain offers the withdraw-enabled chains of ccy with their fees.
func (o *Orchestrator) selectChain(currencies []okx.Currency, ccy string) (string, decimal.Decimal, error) {
	var chains []okx.Currency
	for _, c := range currencies {
		if c.Ccy == ccy && c.CanWd {
			chains = append(chains, c)
		}
	}
	if len(chains) == 0 {
		return "", decimal.Zero, errors.Errorf("no withdrawable chain for %s", ccy)
	}
	sort.Slice(chains, func(i, j int) bool { return chains[i].Chain < chains[j].Chain })

	options := make([]string, len(chains))
	for i, c := range chains {
		options[i] = fmt.Sprintf("%s | Fee: %s %s", chainLabel(c.Chain, ccy), c.MinFee, ccy)
	}
	idx, err := o.prompt.Select("Choose chain:", options)
	if err != nil {
		return "", decimal.Zero, err
	}
	chosen := chains[idx]
	logger.Infof("selected chain %s with fee %s", chosen.Chain, chosen.MinFee)
	return chosen.Chain, chosen.MinFee, nil
}

// routeSubs drains each sub-account's ccy holdings into the main funding
// ledger, funding leg before trading leg, pausing between transfers.
// Per-sub failures are logged and skipped.
func (o *Orchestrator) routeSubs(ctx context.Context, ex *Exchange, view *treasury.AggregateView, ccy string) {
	names := make([]string, 0, len(view.Subs))
	for name := range view.Subs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		balance := view.Subs[name]
		if amt := balance.Funding.Get(ccy); amt.IsPositive() {
			fromTrading := false
			if _, err := ex.Router.TransferFromSub(ctx, name, ccy, &amt, &fromTrading, false); err != nil {
				logger.Errorf("sub %s funding transfer failed: %v", name, err)
			}
			o.sleep(subTransferPause)
		}
		if amt := balance.Trading.Get(ccy); amt.IsPositive() {
			fromTrading := true
			if _, err := ex.Router.TransferFromSub(ctx, name, ccy, &amt, &fromTrading, false); err != nil {
				logger.Errorf("sub %s trading transfer failed: %v", name, err)
			}
			o.sleep(subTransferPause)
		}
	}
}

func (o *Orchestrator) routeMainTrading(ctx context.Context, ex *Exchange, view *treasury.AggregateView, ccy string) {
	amt := view.Main.Trading.Get(ccy)
	if !amt.IsPositive() {
		return
	}
	o.printf("Transferring from trading account...")
	if _, err := ex.Router.TransferFromTrading(ctx, ccy, &amt); err != nil {
		logger.Errorf("main trading transfer failed: %v", err)
	}
}

// withdrawBatch submits one withdrawal per address with a randomized
// amount, then waits a randomized delay. A failed address is skipped and
// the batch continues.
func (o *Orchestrator) withdrawBatch(ctx context.Context, ex *Exchange, addresses []string, ccy, chain string, minFee decimal.Decimal) {
	for _, addr := range addresses {
		amount := decimal.NewFromFloat(o.cfg.OKX.Amounts.Rand(o.rng)).Round(6)
		delay := time.Duration(o.cfg.OKX.Delays.Rand(o.rng) * float64(time.Second))

		o.printf("%s > withdrawing %s %s", addr, amount, ccy)
		id, err := ex.Withdrawer.Withdraw(ctx, addr, ccy, chain, &amount, &minFee)
		if err != nil {
			logger.Warnf("%s > withdrawal failed: %v", addr, err)
			o.printf("%s > failed to withdraw: %v, address skipped", addr, err)
			continue
		}
		o.printf("%s > withdrawal request made, wdId=%s, waiting %s", addr, id, delay)
		o.sleep(delay)
	}
}

// Deposit tops up exchange deposit addresses from local wallets, pairing
// the i-th private key with the i-th address.
func (o *Orchestrator) Deposit(ctx context.Context) error {
	keyFile, err := o.selectFile("Choose file with private keys:")
	if err != nil {
		return err
	}

	proxies, err := o.depositProxies()
	if err != nil {
		return err
	}
	o.printf("Total proxies: %d", len(proxies))

	addrFile, err := o.selectFile("Choose file with deposit addresses:")
	if err != nil {
		return err
	}
	addresses, err := listfile.Addresses(addrFile)
	if err != nil {
		return err
	}
	if len(addresses) == 0 {
		o.printf("There are no deposit addresses")
		return nil
	}

	keys, err := o.loadKeys(keyFile, len(addresses))
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		o.printf("There are no private keys to deposit from")
		return nil
	}
	o.printf("Total private keys: %d", len(keys))

	pairs := min(len(keys), len(addresses))
	if pairs < len(addresses) {
		logger.Warnf("only %d keys for %d addresses, extra addresses skipped", len(keys), len(addresses))
	}

	o.depositBatch(ctx, keys[:pairs], addresses[:pairs], proxies)
	return nil
}

// loadKeys reads the key file either as one mnemonic line, deriving want
// sequential keys, or as plain hex lines.
func (o *Orchestrator) loadKeys(file string, want int) ([]string, error) {
	lines, err := listfile.Lines(file)
	if err != nil {
		return nil, err
	}
	if len(lines) == 1 && evm.LooksLikeMnemonic(lines[0]) {
		derived, err := evm.DeriveKeys(lines[0], want)
		if err != nil {
			return nil, err
		}
		keys := make([]string, len(derived))
		for i, key := range derived {
			keys[i] = hex.EncodeToString(crypto.FromECDSA(key))
		}
		logger.Infof("derived %d keys from mnemonic", len(keys))
		return keys, nil
	}
	return listfile.PrivateKeys(file)
}

func (o *Orchestrator) depositProxies() ([]string, error) {
	use, err := o.prompt.Confirm("Use proxies?")
	if err != nil {
		return nil, err
	}
	if !use {
		return nil, nil
	}
	proxyFile, err := o.selectFile("Choose file with proxies:")
	if err != nil {
		return nil, err
	}
	lines, err := listfile.Lines(proxyFile)
	if err != nil {
		return nil, err
	}
	candidates := proxy.ParseAll(lines)
	logger.Infof("probing %d proxies from %s", len(candidates), proxyFile)
	return o.checkProxies(candidates), nil
}

// depositBatch sends one randomized native transfer per key/address pair,
// rotating through the proxy pool. Failed pairs are skipped.
func (o *Orchestrator) depositBatch(ctx context.Context, keys, addresses, proxies []string) {
	for i := range keys {
		proxyAddr := ""
		if len(proxies) > 0 {
			proxyAddr = proxies[i%len(proxies)]
		}

		to := common.HexToAddress(addresses[i])
		amount := decimal.NewFromFloat(o.cfg.OKX.Amounts.Rand(o.rng)).Round(6)
		delay := time.Duration(o.cfg.OKX.Delays.Rand(o.rng) * float64(time.Second))

		wallet, err := o.dialWallet(ctx, keys[i], proxyAddr)
		if err != nil {
			logger.Warnf("pair %d: wallet dial failed: %v", i, err)
			o.printf("%s > failed to open wallet: %v, pair skipped", addresses[i], err)
			continue
		}

		wei := amount.Mul(weiPerEther).BigInt()
		hash, err := wallet.Transfer(ctx, wei, to, nil)
		if err != nil {
			logger.Warnf("%s > deposit from %s failed: %v", addresses[i], wallet.Address(), err)
			o.printf("%s > failed to deposit: %v, pair skipped", addresses[i], err)
			continue
		}
		o.printf("%s > sent %s ETH from %s, tx=%s, waiting %s",
			addresses[i], amount, wallet.Address(), hash.Hex(), delay)
		logger.Infof("deposit %s -> %s amount %s tx %s", wallet.Address(), addresses[i], amount, hash.Hex())
		o.sleep(delay)
	}
}

func chainLabel(chain, ccy string) string {
	return strings.TrimPrefix(chain, ccy+"-")
}
