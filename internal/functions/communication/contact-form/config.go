package contactform

import (
	"fmt"
	"time"

	"site-functions/internal/common/config"
)

// Name is the key under functions.* in the configuration.
const Name = "contact-form"

type Config struct {
	Enabled      bool          `mapstructure:"enabled"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		Timeout: 10 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}

	if fnCfg, exists := appConfig.Functions[Name]; exists {
		cfg.Enabled = fnCfg.Enabled
		if fnCfg.Timeout > 0 {
			cfg.Timeout = config.GetDuration(fnCfg.Timeout)
		}
	}
	cfg.MaxBodyBytes = appConfig.Server.MaxBodyBytes

	return cfg
}
