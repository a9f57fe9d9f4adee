// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Host      HostConfig      `mapstructure:"host"`
	Network   NetworkConfig   `mapstructure:"network"`
	Probe     ProbeConfig     `mapstructure:"probe"`
	Balance   BalanceConfig   `mapstructure:"balance"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	HealthPort  int    `mapstructure:"health_port"`
}

// HostConfig holds host bridge connection configuration.
type HostConfig struct {
	BridgeURL      string        `mapstructure:"bridge_url"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
	InvokeTimeout  time.Duration `mapstructure:"invoke_timeout"`
}

// NetworkConfig holds chain and RPC endpoint configuration.
type NetworkConfig struct {
	ChainID         uint64        `mapstructure:"chain_id"`
	RPCEndpoints    []string      `mapstructure:"rpc_endpoints"`
	EndpointTimeout time.Duration `mapstructure:"endpoint_timeout"`
	RateLimitPerMin int           `mapstructure:"rate_limit_per_min"`
}

// ProbeConfig tunes wallet discovery retries. Intervals and attempt caps
// are explicit so tests can drive the probe to a terminal state quickly.
type ProbeConfig struct {
	BaseDelay   time.Duration `mapstructure:"base_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

// BalanceConfig tunes balance fetching and polling.
type BalanceConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
}

// MonitorConfig tunes transaction receipt polling.
type MonitorConfig struct {
	GraceDelay   time.Duration `mapstructure:"grace_delay"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceProvider  string `mapstructure:"trace_provider"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("PASSPORT")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "PASSPORT_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "PASSPORT_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "PASSPORT_LOG_LEVEL", "LOG_LEVEL")
	v.BindEnv("app.health_port", "PASSPORT_HEALTH_PORT")

	// Host bridge
	v.BindEnv("host.bridge_url", "PASSPORT_BRIDGE_URL", "HOST_BRIDGE_URL")
	v.BindEnv("host.max_reconnects", "PASSPORT_BRIDGE_MAX_RECONNECTS")
	v.BindEnv("host.invoke_timeout", "PASSPORT_BRIDGE_INVOKE_TIMEOUT")

	// Network
	v.BindEnv("network.chain_id", "PASSPORT_CHAIN_ID", "CHAIN_ID")
	v.BindEnv("network.rpc_endpoints", "PASSPORT_RPC_ENDPOINTS", "RPC_ENDPOINTS")
	v.BindEnv("network.endpoint_timeout", "PASSPORT_RPC_TIMEOUT")

	// Probe
	v.BindEnv("probe.base_delay", "PASSPORT_PROBE_BASE_DELAY")
	v.BindEnv("probe.max_delay", "PASSPORT_PROBE_MAX_DELAY")
	v.BindEnv("probe.max_attempts", "PASSPORT_PROBE_MAX_ATTEMPTS")

	// Balance
	v.BindEnv("balance.poll_interval", "PASSPORT_BALANCE_POLL_INTERVAL")
	v.BindEnv("balance.cache_ttl", "PASSPORT_BALANCE_CACHE_TTL")

	// Monitor
	v.BindEnv("monitor.grace_delay", "PASSPORT_MONITOR_GRACE_DELAY")
	v.BindEnv("monitor.poll_interval", "PASSPORT_MONITOR_POLL_INTERVAL")
	v.BindEnv("monitor.max_attempts", "PASSPORT_MONITOR_MAX_ATTEMPTS")

	// Telemetry
	v.BindEnv("telemetry.enabled", "PASSPORT_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "PASSPORT_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.trace_provider", "PASSPORT_TRACE_PROVIDER")
	v.BindEnv("telemetry.otlp_endpoint", "PASSPORT_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "passport-wallet")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.health_port", 8081)

	// Host bridge defaults
	v.SetDefault("host.max_reconnects", 0) // infinite
	v.SetDefault("host.initial_backoff", "1s")
	v.SetDefault("host.max_backoff", "30s")
	v.SetDefault("host.invoke_timeout", "30s")

	// Network defaults: Base mainnet
	v.SetDefault("network.chain_id", 8453)
	v.SetDefault("network.rpc_endpoints", []string{
		"https://mainnet.base.org",
		"https://base.llamarpc.com",
		"https://base.drpc.org",
	})
	v.SetDefault("network.endpoint_timeout", "5s")
	v.SetDefault("network.rate_limit_per_min", 120)

	// Probe defaults
	v.SetDefault("probe.base_delay", "500ms")
	v.SetDefault("probe.max_delay", "5s")
	v.SetDefault("probe.max_attempts", 12)

	// Balance defaults
	v.SetDefault("balance.poll_interval", "30s")
	v.SetDefault("balance.cache_ttl", "10s")

	// Monitor defaults
	v.SetDefault("monitor.grace_delay", "2s")
	v.SetDefault("monitor.poll_interval", "10s")
	v.SetDefault("monitor.max_attempts", 30)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "passport-wallet")
	v.SetDefault("telemetry.trace_provider", "EMPTY_PROVIDER")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Network.RPCEndpoints) == 0 {
		return fmt.Errorf("network.rpc_endpoints cannot be empty")
	}
	if c.Network.ChainID == 0 {
		return fmt.Errorf("network.chain_id is required")
	}
	if c.Probe.MaxAttempts < 1 {
		return fmt.Errorf("probe.max_attempts must be at least 1")
	}
	if c.Probe.BaseDelay <= 0 {
		return fmt.Errorf("probe.base_delay must be positive")
	}
	if c.Monitor.MaxAttempts < 1 {
		return fmt.Errorf("monitor.max_attempts must be at least 1")
	}
	if c.Monitor.PollInterval <= 0 {
		return fmt.Errorf("monitor.poll_interval must be positive")
	}
	if c.Balance.PollInterval <= 0 {
		return fmt.Errorf("balance.poll_interval must be positive")
	}
	return nil
}
