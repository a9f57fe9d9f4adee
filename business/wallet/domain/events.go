package domain

// Event names published on the application event bus.
const (
	EventWalletConnected      = "walletConnected"
	EventWalletDisconnected   = "walletDisconnected"
	EventWalletAddressChanged = "walletAddressChanged"
	EventTransactionSent      = "transactionSent"
	EventTransactionConfirmed = "transactionConfirmed"
	EventTransactionTimeout   = "transactionTimeout"
	EventBalanceUpdated       = "balanceUpdated"
	EventBalanceError         = "balanceError"
	EventWalletError          = "walletError"
	EventConnectionRequested  = "connectionRequested"
)

// AddressChange is the payload for EventWalletAddressChanged.
type AddressChange struct {
	Previous string
	Current  string
}

// WalletError is the payload for EventWalletError and EventBalanceError.
type WalletError struct {
	Code    string
	Message string
}

// BalanceUpdate is the payload for EventBalanceUpdated.
type BalanceUpdate struct {
	Address string
	Balance string
}
