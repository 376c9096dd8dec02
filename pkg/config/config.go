// Package config loads the YAML configuration file driving the tool:
// exchange credentials and routing flags, EVM RPC settings, working
// directory for address/key/proxy lists, and logging options.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// OKXConfig holds exchange credentials and withdrawal-batch settings.
type OKXConfig struct {
	APIKey     string `yaml:"api-key"`
	SecretKey  string `yaml:"secret-key"`
	Passphrase string `yaml:"passphrase"`

	// Proxy is an optional "host:port" or "user:pass@host:port" entry the
	// exchange transport is routed through after a reachability probe.
	Proxy string `yaml:"proxy"`

	// UseSubs includes sub-accounts in aggregation and routing.
	UseSubs bool `yaml:"use-subs"`
	// OnlyFunding skips trading-ledger snapshots everywhere.
	OnlyFunding bool `yaml:"only-funding"`

	// Amounts and Delays are per-withdrawal randomization ranges. A YAML
	// scalar is accepted as a degenerate range (min == max).
	Amounts Range `yaml:"amounts"`
	Delays  Range `yaml:"delays"`
}

// EVMConfig holds the blockchain RPC settings for the wallet client.
type EVMConfig struct {
	RPCURL         string            `yaml:"rpc-url"`
	DefaultHeaders map[string]string `yaml:"default-headers"`
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Config is the root of the configuration file.
type Config struct {
	WorkingDir string    `yaml:"working-dir"`
	OKX        OKXConfig `yaml:"okx"`
	EVM        EVMConfig `yaml:"evm"`
	Log        LogConfig `yaml:"log"`
}

func defaultConfig() *Config {
	return &Config{
		WorkingDir: "./",
		OKX: OKXConfig{
			UseSubs: true,
		},
		Log: LogConfig{
			Level: "info",
			File:  "logs/okxflow.log",
		},
	}
}

// Load reads and parses the configuration file, applying defaults for
// absent keys and environment overrides for credentials.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config file")
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv lets credentials live outside the YAML file.
func (c *Config) applyEnv() {
	if v := os.Getenv("OKX_API_KEY"); v != "" {
		c.OKX.APIKey = v
	}
	if v := os.Getenv("OKX_SECRET_KEY"); v != "" {
		c.OKX.SecretKey = v
	}
	if v := os.Getenv("OKX_PASSPHRASE"); v != "" {
		c.OKX.Passphrase = v
	}
}

// Validate checks the fields every run depends on.
func (c *Config) Validate() error {
	if c.WorkingDir == "" {
		return errors.New("config: working-dir must not be empty")
	}
	if c.OKX.APIKey == "" || c.OKX.SecretKey == "" || c.OKX.Passphrase == "" {
		return errors.New("config: okx credentials missing (set in file or via OKX_API_KEY / OKX_SECRET_KEY / OKX_PASSPHRASE)")
	}
	if c.OKX.Amounts.Max < c.OKX.Amounts.Min || c.OKX.Delays.Max < c.OKX.Delays.Min {
		return errors.New("config: range max below min")
	}
	if c.OKX.Amounts.Min < 0 || c.OKX.Delays.Min < 0 {
		return errors.New("config: negative range bound")
	}
	return nil
}
