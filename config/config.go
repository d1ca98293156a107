// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"
)

// Config represents the application configuration
type Config struct {
	APIName        string `env:"AUTH_API_APP_NAME" default:"Auth Session API"`
	APIVersion     string `env:"AUTH_API_APP_VERSION" default:"1.0.0"`
	ServerPort     string `env:"AUTH_API_SERVER_PORT" default:"3001"`
	ServerLogLevel string `env:"AUTH_API_SERVER_LOG_LEVEL" default:"info"`
	PostgresDsn    string `env:"AUTH_API_PG_DSN" default:"host=localhost user=postgres dbname=authapi port=5432 sslmode=disable"`
	PostgresLog    string `env:"AUTH_API_PG_LOG_LEVEL" default:"warn"`
	RedisURL       string `env:"AUTH_API_REDIS_URL" default:"redis://localhost:6379/0"`
	SessionTTLSecs int    `env:"AUTH_API_SESSION_TTL_SECS" default:"86400"`
}

var SingleLine string = "--------------------------------------------------"

var (
	instance *Config
	once     sync.Once
	loadErr  error
)

// Get returns the application configuration, loading it on first call
func Get() (*Config, error) {
	once.Do(func() {
		instance, loadErr = loadConfig()
	})
	return instance, loadErr
}

// loadConfig loads configuration from environment variables
func loadConfig() (*Config, error) {
	cfg := &Config{}
	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromEnv fills the struct from env vars, falling back to default tags
func (c *Config) loadFromEnv() error {
	t := reflect.TypeOf(*c)
	v := reflect.ValueOf(c).Elem()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		envTag := field.Tag.Get("env")
		if envTag == "" {
			return fmt.Errorf("missing env tag for field %s", field.Name)
		}

		value := os.Getenv(envTag)
		if value == "" {
			value = field.Tag.Get("default")
		}
		if value == "" {
			return fmt.Errorf("env variable %s is required but not set", envTag)
		}

		switch v.Field(i).Kind() {
		case reflect.String:
			v.Field(i).SetString(value)
		case reflect.Int:
			var n int
			if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
				return fmt.Errorf("env variable %s must be an integer: %v", envTag, err)
			}
			v.Field(i).SetInt(int64(n))
		default:
			return fmt.Errorf("unsupported config field type for %s", field.Name)
		}
	}

	return nil
}

// String returns the configuration as a string with sensitive values masked
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n" + SingleLine + "\n")
	sb.WriteString("Configuration:\n")
	sb.WriteString(SingleLine + "\n")

	t := reflect.TypeOf(*c)
	v := reflect.ValueOf(*c)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		value := fmt.Sprintf("%v", v.Field(i).Interface())
		value = maskSensitiveField(field.Name, value)
		sb.WriteString(fmt.Sprintf("  %s:  %s\n", field.Name, value))
	}

	sb.WriteString(SingleLine + "\n")

	return sb.String()
}

func maskSensitiveField(fieldName, value string) string {
	sensitiveFields := []string{"dsn", "secret", "password", "url"}

	fieldNameLower := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFields {
		if strings.Contains(fieldNameLower, sensitive) {
			return maskValue(value)
		}
	}

	return value
}

func maskValue(value string) string {
	if len(value) <= 3 {
		return strings.Repeat("*", 7)
	}
	return value[:3] + strings.Repeat("*", 7)
}
