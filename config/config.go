// Package config handles loading and validation of agent configuration from
// environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Environment represents the agent's running environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Storage backends.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageRedis  = "redis"
)

// Push transports.
const (
	PushNone      = "none"
	PushRedis     = "redis"
	PushWebsocket = "websocket"
)

// ServerConfig holds panel API server configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"environment"`
	Port           string      `mapstructure:"port"`
	AllowedOrigins []string    `mapstructure:"allowed_origins"`
	Version        string      `mapstructure:"version"`
}

// StorageConfig selects the persistence backend for the notification store.
type StorageConfig struct {
	// Backend is one of memory, file or redis.
	Backend string `mapstructure:"backend"`
	// Path is the state directory for the file backend.
	Path string `mapstructure:"path"`
	// Key is the logical storage key holding the notification sequence.
	Key string `mapstructure:"key"`
}

// RedisConfig holds Redis connection details, used by the redis storage
// backend and the redis push transport.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PushConfig selects the inbound push transport.
type PushConfig struct {
	// Transport is one of none, redis or websocket.
	Transport string `mapstructure:"transport"`
	// DeviceID scopes the redis Pub/Sub channel to this installation.
	DeviceID string `mapstructure:"device_id"`
	// GatewayURL is the websocket push gateway endpoint.
	GatewayURL string `mapstructure:"gateway_url"`
}

// SessionConfig locates and validates the PigSoil+ session token.
type SessionConfig struct {
	// TokenPath is the session token file the web client maintains.
	TokenPath string `mapstructure:"token_path"`
	// JWTSecret is the shared HS256 secret for session tokens.
	JWTSecret string `mapstructure:"jwt_secret"`
}

// Config aggregates all agent configuration sections.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Push    PushConfig    `mapstructure:"push"`
	Session SessionConfig `mapstructure:"session"`
}

// IsProduction returns true when running in the production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// LoadConfig loads configuration from PIGSOIL_-prefixed environment variables,
// applies defaults, and validates the result.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PIGSOIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// AutomaticEnv alone does not populate Unmarshal; bind each key explicitly.
	for _, key := range []string{
		"server.environment", "server.port", "server.allowed_origins", "server.version",
		"storage.backend", "storage.path", "storage.key",
		"redis.address", "redis.password", "redis.db",
		"push.transport", "push.device_id", "push.gateway_url",
		"session.token_path", "session.jwt_secret",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.environment", string(EnvDevelopment))
	v.SetDefault("server.port", "8990")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.version", "dev")

	v.SetDefault("storage.backend", StorageFile)
	v.SetDefault("storage.path", ".pigsoil/state")
	v.SetDefault("storage.key", "pigsoil_notifications")

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("push.transport", PushNone)
	v.SetDefault("push.device_id", "")
	v.SetDefault("push.gateway_url", "")

	v.SetDefault("session.token_path", ".pigsoil/session")
	v.SetDefault("session.jwt_secret", "")
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case StorageMemory, StorageRedis:
	case StorageFile:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the file backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	switch c.Push.Transport {
	case PushNone:
	case PushRedis:
		if c.Push.DeviceID == "" {
			return fmt.Errorf("push.device_id is required for the redis transport")
		}
	case PushWebsocket:
		if c.Push.GatewayURL == "" {
			return fmt.Errorf("push.gateway_url is required for the websocket transport")
		}
	default:
		return fmt.Errorf("unknown push transport %q", c.Push.Transport)
	}

	if c.IsProduction() && c.Session.JWTSecret == "" {
		return fmt.Errorf("session.jwt_secret is required in production")
	}
	return nil
}
