// Package okx wraps the four OKX REST API surfaces this tool needs
// (funding, account, sub-account, market data) behind one client sharing a
// single HTTP transport. Amounts are parsed into decimal.Decimal; exchange
// business failures surface as *APIError, success responses missing required
// records as *BrokenResponseError.
package okx

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const (
	// DefaultBaseURL is the production REST endpoint.
	DefaultBaseURL = "https://www.okx.com"

	// liveTradingFlag selects the live environment in x-simulated-trading.
	liveTradingFlag = "0"
)

// Credentials authenticate private endpoints. Leave zero for public-only
// usage (market data).
type Credentials struct {
	APIKey     string
	SecretKey  string
	Passphrase string
}

// Client bundles the four API service facades over one shared transport.
type Client struct {
	Funding *FundingService
	Account *AccountService
	Sub     *SubAccountService
	Market  *MarketService
}

// Option customizes the shared transport.
type Option func(*transport)

// WithBaseURL overrides the REST endpoint (tests, aws domain).
func WithBaseURL(base string) Option {
	return func(t *transport) {
		t.http.SetBaseURL(strings.TrimSuffix(base, "/"))
	}
}

// WithProxy routes all exchange traffic through proxy, given as
// "host:port" or "user:pass@host:port".
func WithProxy(proxy string) Option {
	return func(t *transport) {
		if proxy == "" {
			return
		}
		t.http.SetProxy("http://" + proxy)
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(t *transport) {
		t.http.SetTimeout(d)
	}
}

// NewClient builds a client over one shared HTTP transport; every service
// facade reuses it for its lifetime.
func NewClient(creds Credentials, opts ...Option) *Client {
	t := newTransport(creds, opts...)
	return &Client{
		Funding: &FundingService{t: t},
		Account: &AccountService{t: t},
		Sub:     &SubAccountService{t: t},
		Market:  &MarketService{t: t},
	}
}

type transport struct {
	http  *resty.Client
	creds Credentials
	now   func() time.Time
}

func newTransport(creds Credentials, opts ...Option) *transport {
	t := &transport{
		http: resty.New().
			SetBaseURL(DefaultBaseURL).
			SetTimeout(30 * time.Second).
			SetHeader("Accept", "application/json").
			SetHeader("Connection", "keep-alive"),
		creds: creds,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// envelope is the uniform response wrapper of every endpoint.
type envelope struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// do performs one signed request and decodes the data array into out.
// query values become part of the signed request path.
func (t *transport) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	op := method + " " + path

	requestPath := path
	if len(query) > 0 {
		requestPath += "?" + query.Encode()
	}

	var payload string
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "okx: encode %s body", op)
		}
		payload = string(raw)
	}

	req := t.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json")
	if t.creds.APIKey != "" {
		ts := signTimestamp(t.now())
		req.SetHeader("OK-ACCESS-KEY", t.creds.APIKey).
			SetHeader("OK-ACCESS-SIGN", signRequest(t.creds.SecretKey, ts, method, requestPath, payload)).
			SetHeader("OK-ACCESS-TIMESTAMP", ts).
			SetHeader("OK-ACCESS-PASSPHRASE", t.creds.Passphrase).
			SetHeader("x-simulated-trading", liveTradingFlag)
	}
	if payload != "" {
		req.SetBody(payload)
	}

	resp, err := req.Execute(method, requestPath)
	if err != nil {
		return errors.Wrapf(err, "okx: %s", op)
	}
	if resp.IsError() {
		return errors.Errorf("okx: %s: http %d: %s", op, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return errors.Wrapf(err, "okx: decode %s response", op)
	}
	if env.Code != codeOK {
		return &APIError{Op: op, Code: env.Code, Msg: env.Msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return errors.Wrapf(err, "okx: decode %s data", op)
		}
	}
	return nil
}

const codeOK = "0"
