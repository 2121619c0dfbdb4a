package leadcreate

import (
	"fmt"
	"time"

	"site-functions/internal/common/config"
)

// Name is the key under functions.* in the configuration.
const Name = "lead-create"

type Config struct {
	Enabled   bool          `mapstructure:"enabled"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Host      string        `mapstructure:"host"`
	APIKey    string        `mapstructure:"api_key"`
	APISecret string        `mapstructure:"api_secret"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled: false,
		Timeout: 10 * time.Second,
	}
}

func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Host == "" {
		return fmt.Errorf("crm host is required")
	}
	if c.APIKey == "" || c.APISecret == "" {
		return fmt.Errorf("crm api key and secret are required")
	}
	return nil
}

// ConfigFromApp reads the crm section of the application config.
func ConfigFromApp(appConfig *config.Config) *Config {
	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}

	cfg.Enabled = appConfig.CRM.Enabled
	cfg.Host = appConfig.CRM.Host
	cfg.APIKey = appConfig.CRM.APIKey
	cfg.APISecret = appConfig.CRM.APISecret
	if appConfig.CRM.Timeout > 0 {
		cfg.Timeout = appConfig.CRM.Timeout
	}
	return cfg
}
