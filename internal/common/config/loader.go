// internal/common/config/loader.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// MinRecommendedLinkExpiry is the shortest signed-link lifetime that does not
// trigger a startup warning.
const MinRecommendedLinkExpiry = 15 * time.Minute

// envBindings maps config keys to the environment variables the deployed
// functions have always been configured with.
var envBindings = map[string][]string{
	"aws.region":                {"AWS_REGION"},
	"aws.access_key_id":         {"AWS_ACCESS_KEY_ID"},
	"aws.secret_access_key":     {"AWS_SECRET_ACCESS_KEY"},
	"storage.bucket":            {"AWS_BUCKET_NAME", "STORAGE_BUCKET"},
	"storage.endpoint":          {"STORAGE_ENDPOINT"},
	"storage.link_expiry":       {"STORAGE_LINK_EXPIRY"},
	"pdf.driver":                {"PDF_DRIVER"},
	"pdf.account_id":            {"CLOUDFLARE_ACCOUNT_ID"},
	"pdf.api_token":             {"CLOUDFLARE_API_TOKEN"},
	"mail.driver":               {"MAIL_DRIVER"},
	"mail.from":                 {"SMTP_FROM", "MAIL_FROM"},
	"mail.smtp.host":            {"SMTP_HOST"},
	"mail.smtp.port":            {"SMTP_PORT"},
	"mail.smtp.secure":          {"SMTP_SECURE"},
	"mail.smtp.username":        {"SMTP_USER"},
	"mail.smtp.password":        {"SMTP_PASS"},
	"delivery.strategy":         {"DELIVERY_STRATEGY"},
	"delivery.events_topic_arn": {"REPORT_EVENTS_TOPIC_ARN"},
	"crm.enabled":               {"CRM_ENABLED"},
	"crm.host":                  {"CRM_HOST"},
	"crm.api_key":               {"CRM_API_KEY"},
	"crm.api_secret":            {"CRM_API_SECRET"},
	"database.redis.address":    {"REDIS_ADDRESS", "REDIS_ADDR"},
	"database.redis.password":   {"REDIS_PASSWORD"},
	"camunda.broker_address":    {"ZEEBE_ADDRESS", "CAMUNDA_BROKER_ADDRESS"},
	"logging.level":             {"LOG_LEVEL"},
}

// Load reads configuration from ./configs, the environment and any .env file.
func Load() (*Config, error) {
	return LoadWith(viper.New())
}

// LoadWith loads configuration into v. Callers may bind flags on v first.
func LoadWith(v *viper.Viper) (*Config, error) {
	loadEnvFile()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	bindEnv(v)

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return decode(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func bindEnv(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, names := range envBindings {
		args := append([]string{key}, names...)
		_ = v.BindEnv(args...)
	}
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "site-functions"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 55 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.RateLimit.Limit == 0 {
		cfg.RateLimit.Limit = 10
	}
	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = time.Minute
	}
	if cfg.RateLimit.Prefix == "" {
		cfg.RateLimit.Prefix = "ratelimit"
	}

	if cfg.PDF.Driver == "" {
		cfg.PDF.Driver = PDFDriverCloudflare
	}
	if cfg.PDF.BaseURL == "" {
		cfg.PDF.BaseURL = "https://api.cloudflare.com/client/v4"
	}
	if cfg.PDF.Timeout == 0 {
		cfg.PDF.Timeout = 30 * time.Second
	}

	if cfg.Storage.LinkExpiry == 0 {
		cfg.Storage.LinkExpiry = 60 * time.Second
	}

	if cfg.Mail.Driver == "" {
		cfg.Mail.Driver = MailDriverSMTP
	}
	if cfg.Mail.SMTP.Port == 0 {
		cfg.Mail.SMTP.Port = 587
	}
	if cfg.Mail.SMTP.AuthType == "" {
		cfg.Mail.SMTP.AuthType = "login"
	}
	if cfg.Mail.SMTP.Timeout == 0 {
		cfg.Mail.SMTP.Timeout = 15 * time.Second
	}

	if cfg.Delivery.Strategy == "" {
		cfg.Delivery.Strategy = DeliveryAttachment
	}

	if cfg.CRM.Timeout == 0 {
		cfg.CRM.Timeout = 10 * time.Second
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Functions == nil {
		cfg.Functions = map[string]FunctionConfig{}
	}
	for key, fn := range cfg.Functions {
		if fn.MaxJobsActive == 0 {
			fn.MaxJobsActive = 5
		}
		if fn.Timeout == 0 {
			fn.Timeout = 30000
		}
		cfg.Functions[key] = fn
	}
}

// validateConfig checks the settings required by the selected drivers.
func validateConfig(cfg *Config) error {
	var errs []error

	switch cfg.PDF.Driver {
	case PDFDriverCloudflare:
		if cfg.PDF.AccountID == "" {
			errs = append(errs, fmt.Errorf("pdf.account_id is required for the cloudflare driver"))
		}
		if cfg.PDF.APIToken == "" {
			errs = append(errs, fmt.Errorf("pdf.api_token is required for the cloudflare driver"))
		}
	case PDFDriverChromium:
	default:
		errs = append(errs, fmt.Errorf("unknown pdf.driver %q", cfg.PDF.Driver))
	}

	switch cfg.Mail.Driver {
	case MailDriverSMTP:
		if cfg.Mail.SMTP.Host == "" {
			errs = append(errs, fmt.Errorf("mail.smtp.host is required for the smtp driver"))
		}
	case MailDriverSES:
		if cfg.AWS.Region == "" {
			errs = append(errs, fmt.Errorf("aws.region is required for the ses driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown mail.driver %q", cfg.Mail.Driver))
	}
	if cfg.Mail.From == "" {
		errs = append(errs, fmt.Errorf("mail.from is required"))
	}

	switch cfg.Delivery.Strategy {
	case DeliveryAttachment:
	case DeliveryLink:
		if cfg.Storage.Bucket == "" {
			errs = append(errs, fmt.Errorf("storage.bucket is required for the link strategy"))
		}
		if cfg.AWS.Region == "" {
			errs = append(errs, fmt.Errorf("aws.region is required for the link strategy"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown delivery.strategy %q", cfg.Delivery.Strategy))
	}

	if cfg.Delivery.EventsTopicARN != "" && cfg.AWS.Region == "" {
		errs = append(errs, fmt.Errorf("aws.region is required when delivery.events_topic_arn is set"))
	}

	if cfg.RateLimit.Limit <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit.limit must be positive"))
	}
	if cfg.RateLimit.Window <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit.window must be positive"))
	}

	if cfg.RateLimit.Enabled && cfg.Database.Redis.Address == "" {
		errs = append(errs, fmt.Errorf("database.redis.address is required when rate_limit is enabled"))
	}

	if cfg.CRM.Enabled {
		if cfg.CRM.Host == "" || cfg.CRM.APIKey == "" || cfg.CRM.APISecret == "" {
			errs = append(errs, fmt.Errorf("crm.host, crm.api_key and crm.api_secret are required when crm is enabled"))
		}
	}

	return errors.Join(errs...)
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetFunctionConfig retrieves function-specific configuration with fallback to defaults
func GetFunctionConfig(cfg *Config, name string) FunctionConfig {
	if fn, exists := cfg.Functions[name]; exists {
		return fn
	}

	return FunctionConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
	}
}

// IsFunctionEnabled checks if a specific function is enabled
func IsFunctionEnabled(cfg *Config, name string) bool {
	if fn, exists := cfg.Functions[name]; exists {
		return fn.Enabled
	}
	return true
}

// ShortLinkExpiry reports whether signed links expire sooner than recipients
// can reasonably open them.
func (s StorageConfig) ShortLinkExpiry() bool {
	return s.LinkExpiry < MinRecommendedLinkExpiry
}
