package host

import (
	"strings"

	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/apperror"
)

// classifyPatterns maps substrings of host error text to error codes.
// The host guarantees no stable error vocabulary, so this is best-effort:
// anything unmatched falls through to CodeSubmissionFailed.
var classifyPatterns = []struct {
	code     apperror.Code
	patterns []string
}{
	{apperror.CodeInsufficientFunds, []string{
		"insufficient funds",
		"insufficient balance",
		"exceeds balance",
	}},
	{apperror.CodeUserRejected, []string{
		"user rejected",
		"user denied",
		"rejected by user",
		"request rejected",
		"user cancelled",
		"user canceled",
	}},
	{apperror.CodeGasEstimationFailed, []string{
		"gas required exceeds",
		"gas estimation",
		"cannot estimate gas",
		"out of gas",
		"intrinsic gas too low",
	}},
	{apperror.CodeNetworkError, []string{
		"network error",
		"timeout",
		"timed out",
		"connection refused",
		"connection reset",
		"disconnected",
		"failed to fetch",
	}},
}

// Classify maps a submission error to a classified code by matching the
// error's message text.
func Classify(err error) apperror.Code {
	if err == nil {
		return apperror.CodeSubmissionFailed
	}

	msg := strings.ToLower(err.Error())
	for _, entry := range classifyPatterns {
		for _, p := range entry.patterns {
			if strings.Contains(msg, p) {
				return entry.code
			}
		}
	}

	return apperror.CodeSubmissionFailed
}

// ClassifyError wraps err in an AppError carrying its classified code.
func ClassifyError(err error) error {
	return apperror.New(Classify(err), apperror.WithCause(err))
}
