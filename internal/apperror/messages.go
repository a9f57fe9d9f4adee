package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeInvalidInput:       "Invalid input provided",
	CodeInvalidState:       "Invalid state for this operation",
	CodeNotFound:           "Resource not found",
	CodeConfigurationError: "Configuration error",
	CodeServiceTimeout:     "Service request timeout",
	CodeServiceUnavailable: "Service temporarily unavailable",
	CodeRateLimitExceeded:  "Rate limit exceeded",
	CodeInternalError:      "Internal error",
	CodeUnknownError:       "An unknown error occurred",

	CodeInvalidRecipient: "Recipient must be a 0x-prefixed 40-digit hex address",
	CodeInvalidData:      "Transaction data must be a 0x-prefixed hex string",
	CodeInvalidValue:     "Transaction value must be a non-negative integer string",
	CodeInvalidGasLimit:  "Gas limit must be an integer of at least 21000",

	CodeInsufficientFunds:   "Insufficient funds for transaction",
	CodeUserRejected:        "Transaction rejected by user",
	CodeGasEstimationFailed: "Gas estimation failed",
	CodeNetworkError:        "Network error during submission",
	CodeSubmissionFailed:    "Transaction submission failed",

	CodeDiscoveryExhausted: "Wallet discovery attempts exhausted",
	CodeWalletNotConnected: "No wallet connected",
	CodeNoConnectionMethod: "Host exposes no wallet connection method",
	CodeBalanceFetchFailed: "All balance endpoints failed",

	CodeHostBridgeUnavailable: "Host bridge is not available",
	CodeHostActionFailed:      "Host action invocation failed",
	CodeRPCError:              "JSON-RPC call failed",
	CodeRPCEndpointsExhausted: "All RPC endpoints failed",
	CodeReceiptNotFound:       "Transaction receipt not found",
	CodeWebSocketError:        "WebSocket connection error",
	CodeCircuitOpen:           "Circuit breaker is open",
}
