package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	Relayer  RelayerConfig
	RPC      RPCConfig
	Metadata MetadataConfig
	Chains   []ChainConfig
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
}

// RelayerConfig selects where the funding key comes from. When WalletHost is
// set the key is fetched once at startup from the host wallet daemon over
// gRPC; otherwise PrivateKey must hold the hex key directly.
type RelayerConfig struct {
	PrivateKey string `mapstructure:"private_key"`
	WalletHost string `mapstructure:"wallet_host"`
	WalletApp  string `mapstructure:"wallet_app"`
}

type RPCConfig struct {
	RetriesPerEndpoint int   `mapstructure:"retries_per_endpoint"`
	CallTimeoutSec     int64 `mapstructure:"call_timeout_sec"`
	BackoffBaseMs      int64 `mapstructure:"backoff_base_ms"`
}

type MetadataConfig struct {
	IPFSGateway    string `mapstructure:"ipfs_gateway"`
	ArweaveGateway string `mapstructure:"arweave_gateway"`
}

// ChainConfig is one supported chain. Endpoints is an ordered preference
// list; exclusion of a misbehaving endpoint is a runtime decision made by
// the pool, never a config edit.
type ChainConfig struct {
	ChainID             int64    `mapstructure:"chain_id"`
	Endpoints           []string `mapstructure:"endpoints"`
	FactoryAddress      string   `mapstructure:"factory_address"`
	SubscriptionAddress string   `mapstructure:"subscription_address"`
	StablecoinAddress   string   `mapstructure:"stablecoin_address"`
	TreasuryAddress     string   `mapstructure:"treasury_address"`
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("redis.addr", "redis:6379")
	v.SetDefault("rpc.retries_per_endpoint", 3)
	v.SetDefault("rpc.call_timeout_sec", 10)
	v.SetDefault("rpc.backoff_base_ms", 500)
	v.SetDefault("metadata.ipfs_gateway", "https://ipfs.io/ipfs/")
	v.SetDefault("metadata.arweave_gateway", "https://arweave.net/")

	// Config file (chains live here; optional for everything else)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")
	_ = v.ReadInConfig()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicit env bindings
	bindings := map[string]string{
		"server.port":              "PORT",
		"redis.addr":               "REDIS_ADDR",
		"redis.password":           "REDIS_PASSWORD",
		"relayer.private_key":      "RELAYER_PRIVATE_KEY",
		"relayer.wallet_host":      "WALLET_HOST",
		"relayer.wallet_app":       "WALLET_APP_NAME",
		"rpc.retries_per_endpoint": "RPC_RETRIES_PER_ENDPOINT",
		"rpc.call_timeout_sec":     "RPC_CALL_TIMEOUT_SEC",
		"rpc.backoff_base_ms":      "RPC_BACKOFF_BASE_MS",
		"metadata.ipfs_gateway":    "IPFS_GATEWAY",
		"metadata.arweave_gateway": "ARWEAVE_GATEWAY",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Relayer.PrivateKey == "" && c.Relayer.WalletHost == "" {
		return fmt.Errorf("required config missing: RELAYER_PRIVATE_KEY or WALLET_HOST")
	}
	if len(c.Chains) == 0 {
		return fmt.Errorf("config.yaml must define at least one chain")
	}
	for i, ch := range c.Chains {
		if ch.ChainID == 0 {
			return fmt.Errorf("chains[%d]: chain_id missing", i)
		}
		if len(ch.Endpoints) == 0 {
			return fmt.Errorf("chains[%d]: endpoints missing", i)
		}
		if ch.FactoryAddress == "" {
			return fmt.Errorf("chains[%d]: factory_address missing", i)
		}
		if ch.SubscriptionAddress == "" {
			return fmt.Errorf("chains[%d]: subscription_address missing", i)
		}
	}
	return nil
}

// Chain returns the config block for chainID, or nil if unsupported.
func (c *Config) Chain(chainID int64) *ChainConfig {
	for i := range c.Chains {
		if c.Chains[i].ChainID == chainID {
			return &c.Chains[i]
		}
	}
	return nil
}
