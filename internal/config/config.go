package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Alerting  AlertingConfig  `mapstructure:"alerting"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
	Mode string `mapstructure:"mode"`
	// Browser origins allowed to call the API. Empty means allow all,
	// which is only suitable for development.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver         string `mapstructure:"driver"` // sqlite or postgres
	Path           string `mapstructure:"path"`   // sqlite file path
	DSN            string `mapstructure:"dsn"`    // postgres connection string
	MigrationsPath string `mapstructure:"migrations_path"`
	MaxConnections int    `mapstructure:"max_connections"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AlertingConfig carries the escalation defaults. Every field here overrides
// the corresponding stored setting row when set (env takes precedence over
// both, via the viper bindings below).
type AlertingConfig struct {
	NotificationsEnabled *bool  `mapstructure:"notifications_enabled"`
	DefaultChannel       string `mapstructure:"default_channel"`
	DefaultRecipient     string `mapstructure:"default_recipient"`
	DefaultTemplateID    string `mapstructure:"default_template_id"`
	DefaultRotationID    string `mapstructure:"default_rotation_id"`
	DefaultDelayMinutes  *int   `mapstructure:"default_delay_minutes"`
	SettingsRefresh      string `mapstructure:"settings_refresh"` // cache TTL for stored settings
}

// SettingsRefreshInterval returns the parsed settings cache TTL
func (c AlertingConfig) SettingsRefreshInterval() time.Duration {
	if d, err := time.ParseDuration(c.SettingsRefresh); err == nil && d > 0 {
		return d
	}
	return time.Minute
}

type TelemetryConfig struct {
	RetentionDays   int    `mapstructure:"retention_days"`
	CleanupSchedule string `mapstructure:"cleanup_schedule"` // cron expression
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Prefix  string `mapstructure:"prefix"`
}

type WebSocketConfig struct {
	PingInterval int `mapstructure:"ping_interval"`
	PongTimeout  int `mapstructure:"pong_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// Load reads configuration from configs/config.yaml plus environment overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()

	viper.BindEnv("server.port", "PORT")
	viper.BindEnv("database.driver", "DATABASE_DRIVER")
	viper.BindEnv("database.path", "DATABASE_PATH")
	viper.BindEnv("database.dsn", "DATABASE_DSN")
	viper.BindEnv("logging.level", "LOG_LEVEL")

	// Alerting overrides take precedence over stored settings rows
	viper.BindEnv("alerting.notifications_enabled", "ALERT_NOTIFICATIONS_ENABLED")
	viper.BindEnv("alerting.default_channel", "ALERT_DEFAULT_CHANNEL")
	viper.BindEnv("alerting.default_recipient", "ALERT_DEFAULT_RECIPIENT")
	viper.BindEnv("alerting.default_template_id", "ALERT_DEFAULT_TEMPLATE_ID")
	viper.BindEnv("alerting.default_rotation_id", "ALERT_DEFAULT_ROTATION_ID")
	viper.BindEnv("alerting.default_delay_minutes", "ALERT_DEFAULT_DELAY_MINUTES")

	viper.BindEnv("telemetry.retention_days", "TELEMETRY_RETENTION_DAYS")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 3100)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.mode", "development")

	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", "./data/netops.db")
	viper.SetDefault("database.migrations_path", "./migrations")
	viper.SetDefault("database.max_connections", 25)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	viper.SetDefault("alerting.settings_refresh", "1m")

	viper.SetDefault("telemetry.retention_days", 90)
	viper.SetDefault("telemetry.cleanup_schedule", "0 3 * * *")

	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.prefix", "netops")

	viper.SetDefault("websocket.ping_interval", 54)
	viper.SetDefault("websocket.pong_timeout", 60)
	viper.SetDefault("websocket.write_timeout", 10)
}
