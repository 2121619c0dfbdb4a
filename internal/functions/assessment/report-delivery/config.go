package reportdelivery

import (
	"fmt"
	"time"

	"site-functions/internal/common/config"
)

// Name is the key under functions.* in the configuration.
const Name = "report-delivery"

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxBodyBytes  int64         `mapstructure:"max_body_bytes"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       60 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
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
		if fnCfg.MaxJobsActive > 0 {
			cfg.MaxJobsActive = fnCfg.MaxJobsActive
		}
		if fnCfg.Timeout > 0 {
			cfg.Timeout = config.GetDuration(fnCfg.Timeout)
		}
	}
	cfg.MaxBodyBytes = appConfig.Server.MaxBodyBytes

	return cfg
}
