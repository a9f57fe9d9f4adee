package domain

import (
	"regexp"
	"time"

	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/apperror"
)

// MinGasLimit is the intrinsic gas cost of a plain transfer.
const MinGasLimit uint64 = 21000

var (
	hexDataPattern = regexp.MustCompile(`^0x[0-9a-fA-F]*$`)
	valuePattern   = regexp.MustCompile(`^[0-9]+$`)
)

// TransactionRequest describes a transaction to submit. Immutable once
// constructed; the submitter fills in an omitted GasLimit on its own copy
// and never mutates caller-supplied fields.
type TransactionRequest struct {
	To       string
	Data     string // 0x-hex calldata; empty is sent as "0x"
	Value    string // decimal wei, optional
	GasLimit uint64 // 0 = omitted
	GasPrice string // opaque pass-through
	Nonce    string // opaque pass-through
}

// Validate checks the request before any network call is made. An empty
// Data field is accepted; the submitter encodes it as "0x" on the wire.
func (r TransactionRequest) Validate() error {
	if !addressPattern.MatchString(r.To) {
		return apperror.New(apperror.CodeInvalidRecipient,
			apperror.WithContext("to: "+r.To))
	}
	if r.Data != "" && !hexDataPattern.MatchString(r.Data) {
		return apperror.New(apperror.CodeInvalidData)
	}
	if r.Value != "" && !valuePattern.MatchString(r.Value) {
		return apperror.New(apperror.CodeInvalidValue,
			apperror.WithContext("value: "+r.Value))
	}
	if r.GasLimit != 0 && r.GasLimit < MinGasLimit {
		return apperror.New(apperror.CodeInvalidGasLimit)
	}
	return nil
}

// TxStatus is the lifecycle status of a submitted transaction.
type TxStatus string

const (
	TxPending  TxStatus = "pending"
	TxSuccess  TxStatus = "success"
	TxFailed   TxStatus = "failed"
	TxTimedOut TxStatus = "timed_out"
)

// Terminal reports whether no further transitions can occur.
func (s TxStatus) Terminal() bool {
	return s == TxSuccess || s == TxFailed || s == TxTimedOut
}

// TransactionResult is an immutable snapshot of a submitted transaction.
// Status changes produce new values; the original is never mutated.
type TransactionResult struct {
	Hash          string
	Status        TxStatus
	Confirmations int
	Timestamp     time.Time
}

// NewPendingResult creates the initial snapshot for a fresh submission.
func NewPendingResult(hash string) TransactionResult {
	return TransactionResult{
		Hash:      hash,
		Status:    TxPending,
		Timestamp: time.Now(),
	}
}

// WithStatus returns a fresh snapshot with the given status.
func (r TransactionResult) WithStatus(status TxStatus, confirmations int) TransactionResult {
	return TransactionResult{
		Hash:          r.Hash,
		Status:        status,
		Confirmations: confirmations,
		Timestamp:     time.Now(),
	}
}
