package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"

	defaultFilePath   = "./data/pomodoro_data.json"
	defaultSQLitePath = "./data/pomodoro.db"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
	Timer   TimerConfig   `mapstructure:"timer"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	BindAddress string   `mapstructure:"bind_address"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type StorageConfig struct {
	Type string `mapstructure:"type"` // "file" or "sqlite"
	Path string `mapstructure:"path"` // defaults by type when empty
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TimerConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Addr is the listen address for the HTTP server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.BindAddress, c.Port)
}

// Load reads configuration from defaults, the optional config file and
// POMODORO_* environment variables, in increasing precedence. With an
// empty configPath a pomodoro.yaml in the working directory is used if
// present.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("pomodoro")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("POMODORO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.bind_address", "")
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173", "http://127.0.0.1:5173"})

	v.SetDefault("storage.type", StorageFile)
	v.SetDefault("storage.path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("timer.tick_interval", "1s")

	v.SetDefault("metrics.enabled", true)
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	switch cfg.Storage.Type {
	case StorageFile:
		if cfg.Storage.Path == "" {
			cfg.Storage.Path = defaultFilePath
		}
	case StorageSQLite:
		if cfg.Storage.Path == "" {
			cfg.Storage.Path = defaultSQLitePath
		}
	default:
		return fmt.Errorf("unknown storage type %q (want %q or %q)", cfg.Storage.Type, StorageFile, StorageSQLite)
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown logging format %q", cfg.Logging.Format)
	}

	if cfg.Timer.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", cfg.Timer.TickInterval)
	}

	return nil
}
