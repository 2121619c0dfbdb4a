// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig                 `mapstructure:"app"`
	Server    ServerConfig              `mapstructure:"server"`
	Camunda   CamundaConfig             `mapstructure:"camunda"`
	Database  DatabaseConfig            `mapstructure:"database"`
	Functions map[string]FunctionConfig `mapstructure:"functions"`
	RateLimit RateLimitConfig           `mapstructure:"rate_limit"`
	AWS       AWSConfig                 `mapstructure:"aws"`
	PDF       PDFConfig                 `mapstructure:"pdf"`
	Storage   StorageConfig             `mapstructure:"storage"`
	Mail      MailConfig                `mapstructure:"mail"`
	Delivery  DeliveryConfig            `mapstructure:"delivery"`
	CRM       CRMConfig                 `mapstructure:"crm"`
	Logging   LoggingConfig             `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	Enabled        bool   `mapstructure:"enabled"`
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// FunctionConfig holds the settings shared by every function.
type FunctionConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
}

// RateLimitConfig configures the fixed-window limiter in front of /api.
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
	Prefix  string        `mapstructure:"prefix"`
}

// --- Integrations ---

// AWSConfig holds credentials shared by the S3 and SES clients. Empty keys
// fall back to the SDK default credential chain.
type AWSConfig struct {
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

const (
	PDFDriverCloudflare = "cloudflare"
	PDFDriverChromium   = "chromium"
)

type PDFConfig struct {
	Driver    string        `mapstructure:"driver"`
	AccountID string        `mapstructure:"account_id"`
	APIToken  string        `mapstructure:"api_token"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	// ChromiumURL is an optional DevTools endpoint; a local browser is
	// launched when empty.
	ChromiumURL string `mapstructure:"chromium_url"`
}

type StorageConfig struct {
	Bucket     string        `mapstructure:"bucket"`
	Endpoint   string        `mapstructure:"endpoint"`
	PathStyle  bool          `mapstructure:"path_style"`
	LinkExpiry time.Duration `mapstructure:"link_expiry"`
}

const (
	MailDriverSMTP = "smtp"
	MailDriverSES  = "ses"
)

type MailConfig struct {
	Driver string     `mapstructure:"driver"`
	From   string     `mapstructure:"from"`
	SMTP   SMTPConfig `mapstructure:"smtp"`
}

type SMTPConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Secure   bool          `mapstructure:"secure"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	AuthType string        `mapstructure:"auth_type"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

const (
	DeliveryAttachment = "attachment"
	DeliveryLink       = "link"
)

type DeliveryConfig struct {
	Strategy string `mapstructure:"strategy"`

	// EventsTopicARN, when set, receives a report.delivered event per
	// successful delivery.
	EventsTopicARN string `mapstructure:"events_topic_arn"`
}

// CRMConfig configures lead creation in Frappe CRM. Disabled by default.
type CRMConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Host      string        `mapstructure:"host"`
	APIKey    string        `mapstructure:"api_key"`
	APISecret string        `mapstructure:"api_secret"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
