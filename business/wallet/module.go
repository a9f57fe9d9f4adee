// Package wallet implements the wallet bounded context: host discovery,
// connection state, balances and transaction lifecycle.
package wallet

import (
	"context"

	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/business/wallet/app"
	walletDI "github.com/ditsyandrea22/farcaster-passport-builder-sub000/business/wallet/di"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/business/wallet/infra/host"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/business/wallet/infra/rpc"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/config"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/di"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/eventbus"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/logger"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/monolith"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/wsconn"
)

// Module implements the wallet bounded context.
type Module struct{}

// RegisterServices registers all wallet services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register the host bridge (private - internal dependency)
	di.RegisterToken(c, walletDI.HostBridge, func(sr di.ServiceRegistry) host.Bridge {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		wsCfg := wsconn.DefaultConfig(cfg.Host.BridgeURL, "host-bridge")
		wsCfg.InitialBackoff = cfg.Host.InitialBackoff
		wsCfg.MaxBackoff = cfg.Host.MaxBackoff
		wsCfg.MaxReconnects = cfg.Host.MaxReconnects

		bridge, err := host.NewWSBridge(wsCfg, cfg.Host.InvokeTimeout, log)
		if err != nil {
			panic("failed to create host bridge: " + err.Error())
		}
		return bridge
	})

	di.RegisterToken(c, walletDI.HostGateway, func(sr di.ServiceRegistry) app.HostGateway {
		log := sr.Get("logger").(logger.LoggerInterface)
		return host.NewGateway(walletDI.GetHostBridge(sr), log)
	})

	// Register the RPC client (private - internal dependency)
	di.RegisterToken(c, walletDI.RPCClient, func(sr di.ServiceRegistry) *rpc.Client {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := rpc.New(rpc.Config{
			Endpoints:       cfg.Network.RPCEndpoints,
			Timeout:         cfg.Network.EndpointTimeout,
			RateLimitPerMin: cfg.Network.RateLimitPerMin,
		}, log)
		if err != nil {
			panic("failed to create rpc client: " + err.Error())
		}
		return client
	})

	di.RegisterToken(c, walletDI.Discovery, func(sr di.ServiceRegistry) app.Discovery {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return host.NewProbe(walletDI.GetHostBridge(sr), host.ProbeConfig{
			BaseDelay:   cfg.Probe.BaseDelay,
			MaxDelay:    cfg.Probe.MaxDelay,
			MaxAttempts: cfg.Probe.MaxAttempts,
		}, log)
	})

	di.RegisterToken(c, walletDI.Submitter, func(sr di.ServiceRegistry) app.Submitter {
		log := sr.Get("logger").(logger.LoggerInterface)
		return host.NewSubmitter(walletDI.GetHostBridge(sr), walletDI.GetRPCClient(sr), log)
	})

	di.RegisterToken(c, walletDI.Monitor, func(sr di.ServiceRegistry) app.Monitor {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return rpc.NewMonitor(walletDI.GetRPCClient(sr), rpc.MonitorConfig{
			GraceDelay:   cfg.Monitor.GraceDelay,
			PollInterval: cfg.Monitor.PollInterval,
			MaxAttempts:  cfg.Monitor.MaxAttempts,
		}, log)
	})

	di.RegisterToken(c, walletDI.BalanceService, func(sr di.ServiceRegistry) app.BalanceProvider {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return rpc.NewBalanceService(walletDI.GetRPCClient(sr), cfg.Balance.CacheTTL, log)
	})

	// Register the lifecycle manager (public - exposed to other modules)
	di.RegisterToken(c, walletDI.WalletManager, func(sr di.ServiceRegistry) *app.Manager {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		bus := sr.Get("eventBus").(*eventbus.Bus)

		return app.NewManager(
			walletDI.GetDiscovery(sr),
			walletDI.GetSubmitter(sr),
			walletDI.GetMonitor(sr),
			walletDI.GetBalanceService(sr),
			walletDI.GetHostGateway(sr),
			bus,
			app.ManagerConfig{BalancePollInterval: cfg.Balance.PollInterval},
			log,
		)
	})

	return nil
}

// Startup connects the host bridge and kicks off wallet discovery.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	bridge := walletDI.GetHostBridge(mono.Services())
	if connector, ok := bridge.(interface{ Connect(context.Context) error }); ok {
		if err := connector.Connect(ctx); err != nil {
			log.Error(ctx, "failed to connect host bridge", "error", err)
			// Don't fail - discovery reports the terminal state
		}
	}

	manager := walletDI.GetWalletManager(mono.Services())

	// Discovery retries with backoff; don't hold up the rest of startup.
	go func() {
		if err := manager.Initialize(ctx); err != nil {
			log.Error(ctx, "wallet initialization aborted", "error", err)
		}
	}()

	log.Info(ctx, "wallet module started")
	return nil
}
