// Package rpc reads chain state from JSON-RPC endpoints with an ordered
// fallback chain.
package rpc

import (
	"context"
	"encoding/json"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/business/wallet/domain"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/apperror"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/circuitbreaker"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/httpclient"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/logger"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/ratelimit"
)

// Config holds JSON-RPC client configuration.
type Config struct {
	Endpoints       []string
	Timeout         time.Duration
	RateLimitPerMin int
}

// DefaultConfig returns sensible defaults for the given endpoints.
func DefaultConfig(endpoints []string) Config {
	return Config{
		Endpoints:       endpoints,
		Timeout:         5 * time.Second,
		RateLimitPerMin: 120,
	}
}

type endpoint struct {
	url     string
	breaker *circuitbreaker.CircuitBreaker[json.RawMessage]
}

// Client is a JSON-RPC client over an ordered endpoint list. Each call
// tries endpoints in order and returns the first successful result; a
// per-endpoint circuit breaker keeps a flapping endpoint from burning
// the whole chain's latency budget.
type Client struct {
	endpoints []endpoint
	http      httpclient.Client
	limiter   *ratelimit.Limiter
	log       logger.LoggerInterface
	reqID     atomic.Int64
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// New creates a client for the given endpoints.
func New(cfg Config, log logger.LoggerInterface) (*Client, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("rpc: endpoints cannot be empty"))
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.RateLimitPerMin <= 0 {
		cfg.RateLimitPerMin = 120
	}

	httpClient, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("jsonrpc"),
		httpclient.WithRequestTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, err
	}

	endpoints := make([]endpoint, len(cfg.Endpoints))
	for i, url := range cfg.Endpoints {
		endpoints[i] = endpoint{
			url:     url,
			breaker: circuitbreaker.New[json.RawMessage](circuitbreaker.DefaultConfig("rpc:" + url)),
		}
	}

	return &Client{
		endpoints: endpoints,
		http:      httpClient,
		limiter:   ratelimit.New(cfg.RateLimitPerMin),
		log:       log,
	}, nil
}

// call walks the endpoint chain until one returns a result.
func (c *Client) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for _, ep := range c.endpoints {
		ep := ep
		result, err := ep.breaker.Execute(func() (json.RawMessage, error) {
			return c.post(ctx, ep.url, method, params)
		})
		if err == nil {
			return result, nil
		}

		lastErr = err
		c.log.Debug(ctx, "rpc endpoint failed",
			"endpoint", ep.url,
			"method", method,
			"error", err,
		)
	}

	return nil, apperror.New(apperror.CodeRPCEndpointsExhausted,
		apperror.WithCause(lastErr),
		apperror.WithContext("method: "+method))
}

func (c *Client) post(ctx context.Context, url, method string, params []any) (json.RawMessage, error) {
	body := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.reqID.Add(1),
		Method:  method,
		Params:  params,
	}

	var parsed rpcResponse
	resp, err := c.http.NewRequest().
		SetBody(body).
		SetResult(&parsed).
		Post(ctx, url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apperror.New(apperror.CodeRPCError,
			apperror.WithContext("http status "+resp.Status))
	}
	if parsed.Error != nil {
		return nil, apperror.New(apperror.CodeRPCError,
			apperror.WithMessage(parsed.Error.Message))
	}

	return parsed.Result, nil
}

// GetBalance returns the native-asset balance of address in wei.
func (c *Client) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	result, err := c.call(ctx, "eth_getBalance", []any{address, "latest"})
	if err != nil {
		return nil, err
	}

	var hexBalance string
	if err := json.Unmarshal(result, &hexBalance); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeRPCError, "malformed balance result")
	}

	balance, err := hexutil.DecodeBig(hexBalance)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeRPCError, "balance is not a hex quantity")
	}
	return balance, nil
}

// Receipt is a parsed transaction receipt.
type Receipt struct {
	TransactionHash string
	Success         bool
	BlockNumber     uint64
	GasUsed         uint64
}

// GetTransactionReceipt fetches the receipt for hash. A missing receipt
// (transaction not yet mined) fails with CodeReceiptNotFound.
func (c *Client) GetTransactionReceipt(ctx context.Context, hash string) (*Receipt, error) {
	result, err := c.call(ctx, "eth_getTransactionReceipt", []any{hash})
	if err != nil {
		return nil, err
	}

	if len(result) == 0 || string(result) == "null" {
		return nil, apperror.New(apperror.CodeReceiptNotFound,
			apperror.WithContext("hash: "+hash))
	}

	var raw struct {
		TransactionHash string `json:"transactionHash"`
		Status          string `json:"status"`
		BlockNumber     string `json:"blockNumber"`
		GasUsed         string `json:"gasUsed"`
	}
	if err := json.Unmarshal(result, &raw); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeRPCError, "malformed receipt")
	}

	receipt := &Receipt{
		TransactionHash: raw.TransactionHash,
		Success:         raw.Status == "0x1",
	}
	if raw.BlockNumber != "" {
		if n, err := hexutil.DecodeUint64(raw.BlockNumber); err == nil {
			receipt.BlockNumber = n
		}
	}
	if raw.GasUsed != "" {
		if n, err := hexutil.DecodeUint64(raw.GasUsed); err == nil {
			receipt.GasUsed = n
		}
	}

	return receipt, nil
}

// EstimateGas estimates gas for the request through the endpoint chain.
func (c *Client) EstimateGas(ctx context.Context, req domain.TransactionRequest) (uint64, error) {
	params := map[string]any{"to": req.To}
	if req.Data != "" {
		params["data"] = req.Data
	}
	if req.Value != "" {
		if v, ok := new(big.Int).SetString(req.Value, 10); ok {
			params["value"] = hexutil.EncodeBig(v)
		}
	}

	result, err := c.call(ctx, "eth_estimateGas", []any{params})
	if err != nil {
		return 0, err
	}

	var hexGas string
	if err := json.Unmarshal(result, &hexGas); err != nil {
		return 0, apperror.Wrap(err, apperror.CodeRPCError, "malformed gas estimate")
	}
	return hexutil.DecodeUint64(hexGas)
}
