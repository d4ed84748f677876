package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Email   EmailConfig   `mapstructure:"email"`
	Ingest  IngestConfig  `mapstructure:"ingest"`
	Render  RenderConfig  `mapstructure:"render"`
	Store   StoreConfig   `mapstructure:"store"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Journal JournalConfig `mapstructure:"journal"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// Dir receives one log file per day; empty disables file logging
	Dir string `mapstructure:"dir"`
}

// EmailConfig holds email transport configuration
type EmailConfig struct {
	// Provider is the transport to use: "smtp" or "gmail"
	Provider string `mapstructure:"provider"`
	// Domain is appended to the operator's username to form the sender address
	Domain string           `mapstructure:"domain"`
	SMTP   SMTPEmailConfig  `mapstructure:"smtp"`
	Gmail  GmailEmailConfig `mapstructure:"gmail"`
}

// SMTPEmailConfig holds SMTP submission configuration
type SMTPEmailConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// TLS is "mandatory", "opportunistic", "none" or "ssl"
	TLS string `mapstructure:"tls"`
	// Auth is "plain", "login" or "cram-md5"
	Auth string `mapstructure:"auth"`
	// Timeout bounds each connection and send
	Timeout time.Duration `mapstructure:"timeout"`
}

// GmailEmailConfig holds Gmail API configuration
type GmailEmailConfig struct {
	// CredentialsJSON is the service account credentials JSON content
	CredentialsJSON string `mapstructure:"credentials_json"`
	// ClientID for OAuth2 token-based auth (alternative to service account)
	ClientID string `mapstructure:"client_id"`
	// ClientSecret for OAuth2 token-based auth
	ClientSecret string `mapstructure:"client_secret"`
	// RefreshToken for OAuth2 token-based auth
	RefreshToken string `mapstructure:"refresh_token"`
	// SenderName is the display name for the sender
	SenderName string `mapstructure:"sender_name"`
}

// IngestConfig holds spreadsheet ingestion configuration
type IngestConfig struct {
	// Sheet is the worksheet to read; empty means the first sheet
	Sheet          string `mapstructure:"sheet"`
	EmailLabel     string `mapstructure:"email_label"`
	SelectAllLabel string `mapstructure:"select_all_label"`
}

// RenderConfig holds message body configuration
type RenderConfig struct {
	RemarkPrefix string `mapstructure:"remark_prefix"`
}

// StoreConfig holds persistence configuration for the identity and draft records
type StoreConfig struct {
	// Driver is "file" or "redis"
	Driver string `mapstructure:"driver"`
	// Dir holds the record files of the file driver
	Dir string `mapstructure:"dir"`
	// Secret seals remembered passwords
	Secret string `mapstructure:"secret"`
	// KeyPrefix namespaces the redis driver's keys
	KeyPrefix string `mapstructure:"key_prefix"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JournalConfig holds delivery journal configuration
type JournalConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Database DatabaseConfig `mapstructure:"database"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// DSN returns the PostgreSQL connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Load reads configuration from file and environment variables.
// An explicit path overrides the search paths.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bulkmail")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.bulkmail")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("BULKMAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.dir", "logs")

	// Email defaults
	v.SetDefault("email.provider", "smtp")
	v.SetDefault("email.domain", "")
	v.SetDefault("email.smtp.host", "")
	v.SetDefault("email.smtp.port", 25)
	v.SetDefault("email.smtp.tls", "opportunistic")
	v.SetDefault("email.smtp.auth", "plain")
	v.SetDefault("email.smtp.timeout", "30s")
	v.SetDefault("email.gmail.sender_name", "")

	// Ingest defaults
	v.SetDefault("ingest.sheet", "")
	v.SetDefault("ingest.email_label", "邮箱地址")
	v.SetDefault("ingest.select_all_label", "全选")

	// Render defaults
	v.SetDefault("render.remark_prefix", "*附：")

	// Store defaults
	v.SetDefault("store.driver", "file")
	v.SetDefault("store.dir", ".bulkmail")
	v.SetDefault("store.secret", "")
	v.SetDefault("store.key_prefix", "bulkmail:")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Journal defaults
	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.database.host", "localhost")
	v.SetDefault("journal.database.port", 5432)
	v.SetDefault("journal.database.name", "bulkmail")
	v.SetDefault("journal.database.user", "bulkmail")
	v.SetDefault("journal.database.password", "")
	v.SetDefault("journal.database.ssl_mode", "disable")
	v.SetDefault("journal.database.max_connections", 4)
}
