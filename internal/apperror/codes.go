package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeInvalidState       Code = "INVALID_STATE"
	CodeNotFound           Code = "NOT_FOUND"
	CodeConfigurationError Code = "CONFIGURATION_ERROR"
	CodeServiceTimeout     Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded  Code = "RATE_LIMIT_EXCEEDED"
	CodeInternalError      Code = "INTERNAL_ERROR"
	CodeUnknownError       Code = "UNKNOWN_ERROR"
)

// Transaction validation error codes. These are raised before any network
// call is made.
const (
	CodeInvalidRecipient Code = "INVALID_RECIPIENT"
	CodeInvalidData      Code = "INVALID_DATA"
	CodeInvalidValue     Code = "INVALID_VALUE"
	CodeInvalidGasLimit  Code = "INVALID_GAS_LIMIT"
)

// Transaction submission error codes, classified best-effort from the
// host's error text. CodeSubmissionFailed is the fallback bucket.
const (
	CodeInsufficientFunds   Code = "INSUFFICIENT_FUNDS"
	CodeUserRejected        Code = "USER_REJECTED"
	CodeGasEstimationFailed Code = "GAS_ESTIMATION_FAILED"
	CodeNetworkError        Code = "NETWORK_ERROR"
	CodeSubmissionFailed    Code = "SUBMISSION_FAILED"
)

// Wallet lifecycle error codes
const (
	CodeDiscoveryExhausted Code = "DISCOVERY_EXHAUSTED"
	CodeWalletNotConnected Code = "WALLET_NOT_CONNECTED"
	CodeNoConnectionMethod Code = "NO_CONNECTION_METHOD_AVAILABLE"
	CodeBalanceFetchFailed Code = "BALANCE_FETCH_FAILED"
)

// Host bridge and RPC error codes
const (
	CodeHostBridgeUnavailable Code = "HOST_BRIDGE_UNAVAILABLE"
	CodeHostActionFailed      Code = "HOST_ACTION_FAILED"
	CodeRPCError              Code = "RPC_ERROR"
	CodeRPCEndpointsExhausted Code = "RPC_ENDPOINTS_EXHAUSTED"
	CodeReceiptNotFound       Code = "RECEIPT_NOT_FOUND"
	CodeWebSocketError        Code = "WEBSOCKET_ERROR"
	CodeCircuitOpen           Code = "CIRCUIT_OPEN"
)
