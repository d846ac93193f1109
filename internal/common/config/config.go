// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Catalog       CatalogConfig      `mapstructure:"catalog"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Admin         AdminConfig        `mapstructure:"admin"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ElasticsearchConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

// CatalogConfig tunes the attribute catalog adapter.
type CatalogConfig struct {
	// TTL of the cached available-variation snapshot per product. Stock
	// status is a snapshot at render time, not live, so a short TTL is fine.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// NotificationConfig gates and configures the out-of-stock capture flow.
type NotificationConfig struct {
	// Enabled gates whether the out-of-stock flow offers a capture form at all.
	Enabled       bool          `mapstructure:"enabled"`
	Provider      string        `mapstructure:"provider"` // smtp | ses | sns
	OperatorEmail string        `mapstructure:"operator_email"`
	FromEmail     string        `mapstructure:"from_email"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	SMTP          SMTPConfig    `mapstructure:"smtp"`
	AWS           AWSConfig     `mapstructure:"aws"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	UseTLS   bool   `mapstructure:"use_tls"`
}

type AWSConfig struct {
	Region   string `mapstructure:"region"`
	SNSTopic string `mapstructure:"sns_topic"`
}

type AdminConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	PageSize int  `mapstructure:"page_size"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
