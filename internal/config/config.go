// Package config provides configuration loading, validation, and management
// for the mini-app bot. Values come from defaults, an optional config.yaml,
// and environment variables (optionally loaded from a .env file).
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config defines the application configuration parameters for all components
// of the system: the Telegram front end, the web gateway, the user store, and
// the text resolver.
type Config struct {
	Bot       BotConfig       `mapstructure:"bot"`
	WebApp    WebAppConfig    `mapstructure:"webapp"`
	DB        DBConfig        `mapstructure:"db"`
	Web       WebConfig       `mapstructure:"web"`
	Texts     TextsConfig     `mapstructure:"texts"`
	Log       LogConfig       `mapstructure:"log"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// BotConfig holds Telegram bot transport settings.
type BotConfig struct {
	Token string `mapstructure:"token" validate:"required"`
}

// WebAppConfig holds the embedded web application settings.
type WebAppConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// DBConfig holds MySQL connection parameters.
type DBConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required,gt=0"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name" validate:"required"`
}

// WebConfig holds the web gateway listener and static asset roots.
type WebConfig struct {
	ListenAddr      string `mapstructure:"listen_addr" validate:"required"`
	AssetsDir       string `mapstructure:"assets_dir" validate:"required"`
	TranslationsDir string `mapstructure:"translations_dir" validate:"required"`
}

// TextsConfig holds the bot text bundle location.
type TextsConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// SchedulerConfig holds per-task scheduling settings keyed by task name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a single scheduled task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// Load reads configuration from defaults, an optional config.yaml in the
// working directory, and environment variables. A .env file is loaded first
// when present. The returned configuration is validated; missing required
// values (bot token, webapp URL) are reported as errors so startup fails fast.
func Load() (*Config, error) {
	// Best effort; a missing .env file is not an error.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is fine, defaults and env cover everything.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// bindEnv maps the environment variable names used by deployments onto viper
// keys. Explicit bindings keep the documented names (BOT_TOKEN, WEBAPP_URL,
// DB_*) stable regardless of the yaml key layout.
func bindEnv(v *viper.Viper) {
	bindings := map[string]string{
		"bot.token":            "BOT_TOKEN",
		"webapp.url":           "WEBAPP_URL",
		"db.host":              "DB_HOST",
		"db.port":              "DB_PORT",
		"db.user":              "DB_USER",
		"db.password":          "DB_PASSWORD",
		"db.name":              "DB_NAME",
		"web.listen_addr":      "WEB_LISTEN_ADDR",
		"web.assets_dir":       "WEB_ASSETS_DIR",
		"web.translations_dir": "WEB_TRANSLATIONS_DIR",
		"texts.dir":            "TEXTS_DIR",
		"log.level":            "LOG_LEVEL",
		"log.json":             "LOG_JSON",
	}
	for key, env := range bindings {
		_ = v.BindEnv(key, env)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 3306)
	v.SetDefault("db.user", "root")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "telegram_miniapp")

	v.SetDefault("web.listen_addr", ":5000")
	v.SetDefault("web.assets_dir", "webapp")
	v.SetDefault("web.translations_dir", "translations/webapp")

	v.SetDefault("texts.dir", "translations/bot")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", true)

	v.SetDefault("scheduler.tasks.usage_report.enabled", true)
	v.SetDefault("scheduler.tasks.usage_report.schedule", "0 0 * * *")
}
