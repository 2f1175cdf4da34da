package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/taskmaster/desk/internal/domain/entities"
)

// Config holds all configuration for the application
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Security SecurityConfig `mapstructure:"security"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Calc     CalcConfig     `mapstructure:"calc"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// StorageConfig selects where records live. The json driver keeps one file per
// record kind under DataDir; sqlite and postgres use DSN.
type StorageConfig struct {
	Driver       string `mapstructure:"driver"`
	DataDir      string `mapstructure:"data_dir"`
	ContactsFile string `mapstructure:"contacts_file"`
	TasksFile    string `mapstructure:"tasks_file"`
	Backup       bool   `mapstructure:"backup"`
	DSN          string `mapstructure:"dsn"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// AuthConfig toggles bearer token checks on the HTTP API
type AuthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret    string        `mapstructure:"secret"`
	ExpiresIn time.Duration `mapstructure:"expires_in"`
	Issuer    string        `mapstructure:"issuer"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	RateLimitRequests int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// CalcConfig holds calculator defaults
type CalcConfig struct {
	DefaultRate  float64 `mapstructure:"default_rate"`
	HistoryLimit int     `mapstructure:"history_limit"`
}

// Load loads configuration from defaults, an optional config file, .env and
// the environment. configFile may be empty.
func Load(configFile string) (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvVars(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "desk")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	// Storage defaults
	v.SetDefault("storage.driver", "json")
	v.SetDefault("storage.data_dir", ".")
	v.SetDefault("storage.contacts_file", "contacts.json")
	v.SetDefault("storage.tasks_file", "gui_todo_data.json")
	v.SetDefault("storage.backup", false)
	v.SetDefault("storage.dsn", "desk.db")

	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")

	// Auth defaults
	v.SetDefault("auth.enabled", false)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expires_in", "24h")
	v.SetDefault("jwt.issuer", "desk")

	// Logger defaults
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stderr")
	v.SetDefault("logger.filename", "")

	// Security defaults
	v.SetDefault("security.rate_limit_requests", 20)
	v.SetDefault("security.rate_limit_window", "1m")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)

	// Calculator defaults
	v.SetDefault("calc.default_rate", entities.DefaultGSTRate)
	v.SetDefault("calc.history_limit", 100)
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.environment", "APP_ENVIRONMENT")

	// Storage
	v.BindEnv("storage.driver", "DESK_STORAGE_DRIVER")
	v.BindEnv("storage.data_dir", "DESK_DATA_DIR")
	v.BindEnv("storage.contacts_file", "DESK_CONTACTS_FILE")
	v.BindEnv("storage.tasks_file", "DESK_TASKS_FILE")
	v.BindEnv("storage.backup", "DESK_BACKUP")
	v.BindEnv("storage.dsn", "DESK_DSN")

	// Server
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.host", "SERVER_HOST")

	// Auth
	v.BindEnv("auth.enabled", "AUTH_ENABLED")
	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("jwt.expires_in", "JWT_EXPIRES_IN")
	v.BindEnv("jwt.issuer", "JWT_ISSUER")

	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.format", "LOG_FORMAT")
	v.BindEnv("logger.output", "LOG_OUTPUT")
	v.BindEnv("logger.filename", "LOG_FILENAME")

	// Security
	v.BindEnv("security.rate_limit_requests", "RATE_LIMIT_REQUESTS")
	v.BindEnv("security.rate_limit_window", "RATE_LIMIT_WINDOW")

	// Metrics
	v.BindEnv("metrics.enabled", "ENABLE_METRICS")

	// Calculator
	v.BindEnv("calc.default_rate", "DESK_GST_RATE")
	v.BindEnv("calc.history_limit", "DESK_HISTORY_LIMIT")
}

func validateConfig(cfg *Config) error {
	switch cfg.Storage.Driver {
	case "json":
		if cfg.Storage.ContactsFile == "" || cfg.Storage.TasksFile == "" {
			return fmt.Errorf("storage file names are required")
		}
	case "sqlite", "postgres":
		if cfg.Storage.DSN == "" {
			return fmt.Errorf("storage dsn is required for driver %s", cfg.Storage.Driver)
		}
	default:
		return fmt.Errorf("unsupported storage driver %q (json, sqlite, postgres)", cfg.Storage.Driver)
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	if cfg.Auth.Enabled && cfg.JWT.Secret == "" {
		return fmt.Errorf("JWT secret must be set when auth is enabled")
	}

	if !entities.IsGSTSlab(cfg.Calc.DefaultRate) {
		return fmt.Errorf("calc default rate %v is not a GST slab", cfg.Calc.DefaultRate)
	}

	if cfg.Calc.HistoryLimit <= 0 {
		return fmt.Errorf("calc history limit must be positive")
	}

	return nil
}

// ContactsPath returns the contacts data file path
func (cfg *StorageConfig) ContactsPath() string {
	return filepath.Join(cfg.DataDir, cfg.ContactsFile)
}

// TasksPath returns the tasks data file path
func (cfg *StorageConfig) TasksPath() string {
	return filepath.Join(cfg.DataDir, cfg.TasksFile)
}

// IsSQL returns true if records are kept in a SQL database
func (cfg *StorageConfig) IsSQL() bool {
	return cfg.Driver == "sqlite" || cfg.Driver == "postgres"
}

// GetAddr returns the HTTP listen address
func (cfg *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}
