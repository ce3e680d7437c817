package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	Relay    RelayConfig
	AppSheet AppSheetConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RabbitMQConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	VHost    string
}

// RelayConfig controls the change-notice trigger queue consumed by the
// status relay.
type RelayConfig struct {
	Exchange      string
	RoutingKey    string
	Queue         string
	PrefetchCount int
}

// AppSheetConfig holds credentials and table names for the remote table
// service.
type AppSheetConfig struct {
	BaseURL        string
	AppID          string
	AccessKey      string
	JobsTable      string
	TeamsTable     string
	TimeoutSeconds int
}

// Load reads the full configuration from the environment. Required keys are
// collected and reported together so a misconfigured deployment fails fast
// with one actionable error.
func Load() (*Config, error) {
	var missing []string

	get := func(key string) string {
		val := os.Getenv(key)
		if val == "" {
			missing = append(missing, key)
		}
		return val
	}

	getDefault := func(key, fallback string) string {
		if val := os.Getenv(key); val != "" {
			return val
		}
		return fallback
	}

	getInt := func(key string, fallback int) int {
		if val := os.Getenv(key); val != "" {
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				return n
			}
		}
		return fallback
	}

	config := &Config{
		Server: ServerConfig{
			Host: get("SERVER_HOST"),
			Port: get("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:     get("DB_HOST"),
			Port:     get("DB_PORT"),
			User:     get("DB_USER"),
			Password: get("DB_PASSWORD"),
			DBName:   get("DB_NAME"),
			SSLMode:  get("DB_SSLMODE"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      os.Getenv("RABBITMQ_URL"),
			Host:     get("RABBITMQ_HOST"),
			Port:     get("RABBITMQ_PORT"),
			User:     get("RABBITMQ_USER"),
			Password: get("RABBITMQ_PASSWORD"),
			VHost:    get("RABBITMQ_VHOST"),
		},
		Relay: RelayConfig{
			Exchange:      getDefault("RELAY_EXCHANGE", ""),
			RoutingKey:    getDefault("RELAY_ROUTING_KEY", "change_notices"),
			Queue:         getDefault("RELAY_QUEUE", "change_notices"),
			PrefetchCount: getInt("RELAY_PREFETCH_COUNT", 10),
		},
		AppSheet: AppSheetConfig{
			BaseURL:        getDefault("APPSHEET_BASE_URL", "https://api.appsheet.com/api/v2"),
			AppID:          get("APPSHEET_APP_ID"),
			AccessKey:      get("APPSHEET_ACCESS_KEY"),
			JobsTable:      getDefault("APPSHEET_JOBS_TABLE", "Jobs"),
			TeamsTable:     getDefault("APPSHEET_TEAMS_TABLE", "Teams"),
			TimeoutSeconds: getInt("APPSHEET_TIMEOUT_SECONDS", 30),
		},
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %v", missing)
	}

	return config, nil
}

// ConnectionString returns a DSN string for GORM
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode)
}

func (c *RabbitMQConfig) ConnectionURL() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("amqp://%s:%s@%s:%s%s",
		c.User, c.Password, c.Host, c.Port, c.VHost)
}
