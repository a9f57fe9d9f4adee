// Package di contains dependency injection tokens for the wallet context.
package di

import (
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/business/wallet/app"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/business/wallet/infra/host"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/business/wallet/infra/rpc"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/di"
)

// Public service tokens - exposed to other modules
var (
	WalletManager = di.NewToken[*app.Manager]("wallet.Manager")
)

// Private dependency tokens - internal to wallet module
var (
	HostBridge     = di.NewToken[host.Bridge]("wallet:hostBridge")
	HostGateway    = di.NewToken[app.HostGateway]("wallet:hostGateway")
	Discovery      = di.NewToken[app.Discovery]("wallet:discovery")
	Submitter      = di.NewToken[app.Submitter]("wallet:submitter")
	Monitor        = di.NewToken[app.Monitor]("wallet:monitor")
	BalanceService = di.NewToken[app.BalanceProvider]("wallet:balanceService")
	RPCClient      = di.NewToken[*rpc.Client]("wallet:rpcClient")
)

// Helper functions for type-safe access
func GetWalletManager(c di.ServiceRegistry) *app.Manager {
	return di.GetToken(c, WalletManager)
}

func GetHostBridge(c di.ServiceRegistry) host.Bridge {
	return di.GetToken(c, HostBridge)
}

func GetHostGateway(c di.ServiceRegistry) app.HostGateway {
	return di.GetToken(c, HostGateway)
}

func GetDiscovery(c di.ServiceRegistry) app.Discovery {
	return di.GetToken(c, Discovery)
}

func GetSubmitter(c di.ServiceRegistry) app.Submitter {
	return di.GetToken(c, Submitter)
}

func GetMonitor(c di.ServiceRegistry) app.Monitor {
	return di.GetToken(c, Monitor)
}

func GetBalanceService(c di.ServiceRegistry) app.BalanceProvider {
	return di.GetToken(c, BalanceService)
}

func GetRPCClient(c di.ServiceRegistry) *rpc.Client {
	return di.GetToken(c, RPCClient)
}
