// Package main is the entry point for the Passport wallet manager.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/business/wallet"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/business/wallet/app"
	walletDI "github.com/ditsyandrea22/farcaster-passport-builder-sub000/business/wallet/di"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/apm"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/config"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/eventbus"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/health"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/logger"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/metrics"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/monolith"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("passport %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default, CLI is for debugging
	tuiMode := !*cliMode

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, *configPath, tuiMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	var log *logger.Logger
	if tuiMode {
		// In TUI mode, suppress logs (discard output)
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
		log.Info(ctx, "starting passport wallet manager",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		provider := apm.EmptyProvider
		switch cfg.Telemetry.TraceProvider {
		case "zipkin":
			provider = apm.ZipkinProvider
		case "otlp":
			provider = apm.OTLPProvider
		case "console":
			provider = apm.ConsoleProvider
		}
		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(provider, log))
		log.Info(ctx, "tracing initialized", "provider", cfg.Telemetry.TraceProvider)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	healthPort := cfg.App.HealthPort
	if healthPort == 0 {
		healthPort = 8081
	}
	healthServer := health.NewServer(healthPort, version, log)

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	modules := []monolith.Module{
		&wallet.Module{},
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	healthServer.RegisterCheck("host_bridge", func(ctx context.Context) (bool, string) {
		bridge := walletDI.GetHostBridge(mono.Services())
		if conn, ok := bridge.(interface{ IsConnected() bool }); ok && !conn.IsConnected() {
			return false, "host bridge disconnected"
		}
		return true, "ok"
	})
	healthServer.RegisterCheck("wallet", func(ctx context.Context) (bool, string) {
		state := walletDI.GetWalletManager(mono.Services()).GetCurrentState()
		if !state.Connected {
			// Not fatal: the dApp runs without a wallet until one is exposed
			return true, "no wallet connected"
		}
		return true, "connected to " + state.NetworkName
	})

	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", healthPort)
	}
	defer healthServer.Stop(ctx)

	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	manager := walletDI.GetWalletManager(mono.Services())

	if tuiMode {
		return runTUI(ctx, manager, mono.EventBus())
	}
	return runCLI(ctx, log)
}

func runCLI(ctx context.Context, log *logger.Logger) error {
	log.Info(ctx, "wallet module running, waiting for shutdown")
	<-ctx.Done()
	log.Info(ctx, "shutting down")
	return nil
}

func runTUI(ctx context.Context, manager *app.Manager, bus *eventbus.Bus) error {
	ui.OnRetryDetection = func() {
		manager.RetryDetection(ctx)
	}
	ui.OnRequestConnection = func() {
		_ = manager.RequestConnection(ctx)
	}

	unbind := ui.Bind(bus)
	defer unbind()

	// Seed the dashboard with whatever state exists already.
	go ui.Send(ui.StateMsg{State: manager.GetCurrentState()})

	if err := ui.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
