package host

import (
	"context"
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/business/wallet/domain"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/apperror"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/logger"
)

// GasEstimator estimates gas through a read-only network call. Used when
// the host does not expose an estimation action.
type GasEstimator interface {
	EstimateGas(ctx context.Context, req domain.TransactionRequest) (uint64, error)
}

// sendActions are the calling conventions hosts have shipped, tried in
// order. Each attempt runs to completion before the next; the first
// returned hash wins.
var sendActions = []string{
	"wallet_sendTransaction",
	"wallet.sendTransaction",
	"miniapp_sendTransaction",
	"eth_sendTransaction",
	"context_sendTransaction",
}

// estimateActions are the host-side gas estimation action names.
var estimateActions = []string{
	"wallet_estimateGas",
	"eth_estimateGas",
}

// Submitter validates a transaction request and submits it through
// whichever calling convention the host actually implements.
type Submitter struct {
	bridge    Bridge
	estimator GasEstimator
	log       logger.LoggerInterface
}

// NewSubmitter creates a submitter. estimator may be nil.
func NewSubmitter(bridge Bridge, estimator GasEstimator, log logger.LoggerInterface) *Submitter {
	return &Submitter{bridge: bridge, estimator: estimator, log: log}
}

// Submit validates, fills in a missing gas limit, and tries every send
// convention in order. When all attempts fail, the last error is
// classified and returned.
func (s *Submitter) Submit(ctx context.Context, req domain.TransactionRequest) (domain.TransactionResult, error) {
	if err := req.Validate(); err != nil {
		return domain.TransactionResult{}, err
	}

	// The caller's request is never mutated: gas is filled on a copy.
	if req.GasLimit == 0 {
		req.GasLimit = s.fillGas(ctx, req)
	}

	params := buildParams(req)

	var lastErr error
	for _, action := range sendActions {
		raw, err := s.bridge.Invoke(ctx, action, params)
		if err != nil {
			lastErr = err
			s.log.Debug(ctx, "send attempt failed", "action", action, "error", err)
			continue
		}

		hash, err := parseHash(raw)
		if err != nil {
			lastErr = err
			s.log.Debug(ctx, "send attempt returned no hash", "action", action, "error", err)
			continue
		}

		s.log.Info(ctx, "transaction submitted", "action", action, "hash", hash)
		return domain.NewPendingResult(hash), nil
	}

	return domain.TransactionResult{}, ClassifyError(lastErr)
}

// fillGas resolves a gas limit for the request. This never fails the
// submission: estimation failure falls back to the intrinsic floor.
func (s *Submitter) fillGas(ctx context.Context, req domain.TransactionRequest) uint64 {
	probe := req
	probe.GasLimit = domain.MinGasLimit
	params := buildParams(probe)

	for _, action := range estimateActions {
		raw, err := s.bridge.Invoke(ctx, action, params)
		if err != nil {
			continue
		}
		if gas, err := parseGas(raw); err == nil && gas >= domain.MinGasLimit {
			s.log.Debug(ctx, "gas estimated by host", "action", action, "gas", gas)
			return gas
		}
	}

	if s.estimator != nil {
		if gas, err := s.estimator.EstimateGas(ctx, req); err == nil && gas >= domain.MinGasLimit {
			s.log.Debug(ctx, "gas estimated by rpc", "gas", gas)
			return gas
		}
	}

	return domain.MinGasLimit
}

// buildParams encodes the request the way injected providers expect:
// quantities as 0x-hex, addresses and data untouched.
func buildParams(req domain.TransactionRequest) map[string]any {
	params := map[string]any{
		"to":   req.To,
		"data": req.Data,
	}
	if params["data"] == "" {
		params["data"] = "0x"
	}
	if req.Value != "" {
		if v, ok := new(big.Int).SetString(req.Value, 10); ok {
			params["value"] = hexutil.EncodeBig(v)
		}
	}
	if req.GasLimit != 0 {
		params["gas"] = hexutil.EncodeUint64(req.GasLimit)
	}
	if req.GasPrice != "" {
		params["gasPrice"] = req.GasPrice
	}
	if req.Nonce != "" {
		params["nonce"] = req.Nonce
	}
	return params
}

// parseHash extracts a transaction hash from a host response, which may
// be a bare JSON string or an object keyed hash/transactionHash/result.
func parseHash(raw json.RawMessage) (string, error) {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil && str != "" {
		return str, nil
	}

	var obj struct {
		Hash            string `json:"hash"`
		TransactionHash string `json:"transactionHash"`
		Result          string `json:"result"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		switch {
		case obj.Hash != "":
			return obj.Hash, nil
		case obj.TransactionHash != "":
			return obj.TransactionHash, nil
		case obj.Result != "":
			return obj.Result, nil
		}
	}

	return "", apperror.New(apperror.CodeHostActionFailed,
		apperror.WithContext("response carried no transaction hash"))
}

// parseGas extracts a gas amount from a host response, accepting 0x-hex
// strings, decimal strings, and JSON numbers.
func parseGas(raw json.RawMessage) (uint64, error) {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if v, err := hexutil.DecodeUint64(str); err == nil {
			return v, nil
		}
		if v, err := strconv.ParseUint(str, 10, 64); err == nil {
			return v, nil
		}
	}

	var num uint64
	if err := json.Unmarshal(raw, &num); err == nil {
		return num, nil
	}

	return 0, apperror.New(apperror.CodeHostActionFailed,
		apperror.WithContext("response carried no gas amount"))
}
