package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server  Server  `mapstructure:"server"`
	Log     Log     `mapstructure:"log"`
	Session Session `mapstructure:"session"`
	NEP2    NEP2    `mapstructure:"nep2"`
	Ledger  Ledger  `mapstructure:"ledger"`
}

// Server configuration
type Server struct {
	Port string `mapstructure:"port"`
}

// Log configuration
type Log struct {
	Level string `mapstructure:"level"`
}

// Session configuration
type Session struct {
	TTL         time.Duration `mapstructure:"ttl"`
	MaxSessions int           `mapstructure:"maxSessions"`
	MaxFlows    int           `mapstructure:"maxFlows"`
}

// NEP2 holds the scrypt costs used for encrypted keys
type NEP2 struct {
	ScryptN int `mapstructure:"scryptN"`
	ScryptR int `mapstructure:"scryptR"`
	ScryptP int `mapstructure:"scryptP"`
}

// Ledger lists the accounts the in-memory ledger starts with
type Ledger struct {
	Accounts []Account `mapstructure:"accounts"`
}

// Account is a seeded ledger account
type Account struct {
	Address  string    `mapstructure:"address"`
	Balances []Balance `mapstructure:"balances"`
}

// Balance is a seeded asset balance
type Balance struct {
	Symbol string `mapstructure:"symbol"`
	Amount string `mapstructure:"amount"`
}

// LoadConfig loads configuration from YAML files in configDir.
// CONFIG_ENV selects the environment file merged over app-config.yaml.
func LoadConfig(configDir string) (*Config, error) {
	configEnv := os.Getenv("CONFIG_ENV")
	if configEnv == "" {
		configEnv = "local"
	}

	v := viper.New()

	// Load base app-config.yaml as template/defaults (if it exists)
	baseConfigPath := filepath.Join(configDir, "app-config.yaml")
	baseConfigExists := false
	if _, err := os.Stat(baseConfigPath); err == nil {
		v.SetConfigFile(baseConfigPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read base config file: %w", err)
		}
		baseConfigExists = true
	}

	// Load environment-specific config (e.g., local.yaml when CONFIG_ENV=local)
	envConfigPath := filepath.Join(configDir, configEnv+".yaml")
	if _, err := os.Stat(envConfigPath); err == nil {
		v.SetConfigFile(envConfigPath)
		if baseConfigExists {
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("failed to merge env config file: %w", err)
			}
		} else if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read env config file: %w", err)
		}
	}

	v.SetEnvPrefix("WALLET")
	v.AutomaticEnv()

	_ = v.BindEnv("server.port", "WALLET_SERVER_PORT", "PORT")
	_ = v.BindEnv("log.level", "WALLET_LOG_LEVEL")
	_ = v.BindEnv("session.ttl", "WALLET_SESSION_TTL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 30 * time.Minute
	}
	if cfg.Session.MaxSessions == 0 {
		cfg.Session.MaxSessions = 1024
	}
	if cfg.Session.MaxFlows == 0 {
		cfg.Session.MaxFlows = 1024
	}
	if cfg.NEP2.ScryptN == 0 {
		cfg.NEP2.ScryptN = 16384
	}
	if cfg.NEP2.ScryptR == 0 {
		cfg.NEP2.ScryptR = 8
	}
	if cfg.NEP2.ScryptP == 0 {
		cfg.NEP2.ScryptP = 8
	}
}

// Validate checks the seeded ledger accounts
func (c *Config) Validate() error {
	for _, account := range c.Ledger.Accounts {
		if account.Address == "" {
			return fmt.Errorf("ledger account without address")
		}
		for _, b := range account.Balances {
			if b.Symbol == "" {
				return fmt.Errorf("ledger account %s: balance without symbol", account.Address)
			}
			amount, err := decimal.NewFromString(b.Amount)
			if err != nil {
				return fmt.Errorf("ledger account %s: invalid %s amount %q: %w", account.Address, b.Symbol, b.Amount, err)
			}
			if amount.IsNegative() {
				return fmt.Errorf("ledger account %s: negative %s amount", account.Address, b.Symbol)
			}
		}
	}
	return nil
}
