package config_test

import (
	"testing"

	"miniapp-bot/internal/config"
)

// setRequiredEnv supplies the two settings without defaults. t.Setenv also
// restores any values inherited from the environment after the test.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123456:test-token")
	t.Setenv("WEBAPP_URL", "https://miniapp.example.com")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Bot.Token != "123456:test-token" {
		t.Errorf("Bot.Token = %q, want value from environment", cfg.Bot.Token)
	}
	if cfg.WebApp.URL != "https://miniapp.example.com" {
		t.Errorf("WebApp.URL = %q, want value from environment", cfg.WebApp.URL)
	}

	if cfg.DB.Host != "localhost" {
		t.Errorf("DB.Host = %q, want %q", cfg.DB.Host, "localhost")
	}
	if cfg.DB.Port != 3306 {
		t.Errorf("DB.Port = %d, want 3306", cfg.DB.Port)
	}
	if cfg.DB.User != "root" {
		t.Errorf("DB.User = %q, want %q", cfg.DB.User, "root")
	}
	if cfg.DB.Password != "" {
		t.Errorf("DB.Password = %q, want empty default", cfg.DB.Password)
	}
	if cfg.DB.Name != "telegram_miniapp" {
		t.Errorf("DB.Name = %q, want %q", cfg.DB.Name, "telegram_miniapp")
	}

	if cfg.Web.ListenAddr != ":5000" {
		t.Errorf("Web.ListenAddr = %q, want %q", cfg.Web.ListenAddr, ":5000")
	}
	if cfg.Texts.Dir != "translations/bot" {
		t.Errorf("Texts.Dir = %q, want %q", cfg.Texts.Dir, "translations/bot")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}

	task, ok := cfg.Scheduler.Tasks["usage_report"]
	if !ok {
		t.Fatal("usage_report task missing from defaults")
	}
	if !task.Enabled || task.Schedule != "0 0 * * *" {
		t.Errorf("usage_report task = %+v, want enabled daily", task)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_USER", "miniapp")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "miniapp_prod")
	t.Setenv("WEB_LISTEN_ADDR", ":8080")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DB.Host != "db.internal" {
		t.Errorf("DB.Host = %q, want %q", cfg.DB.Host, "db.internal")
	}
	if cfg.DB.Port != 3307 {
		t.Errorf("DB.Port = %d, want 3307", cfg.DB.Port)
	}
	if cfg.DB.User != "miniapp" {
		t.Errorf("DB.User = %q, want %q", cfg.DB.User, "miniapp")
	}
	if cfg.DB.Password != "secret" {
		t.Errorf("DB.Password = %q, want %q", cfg.DB.Password, "secret")
	}
	if cfg.DB.Name != "miniapp_prod" {
		t.Errorf("DB.Name = %q, want %q", cfg.DB.Name, "miniapp_prod")
	}
	if cfg.Web.ListenAddr != ":8080" {
		t.Errorf("Web.ListenAddr = %q, want %q", cfg.Web.ListenAddr, ":8080")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
}

func TestLoadMissingRequiredValues(t *testing.T) {
	testCases := []struct {
		name   string
		token  string
		webapp string
	}{
		{name: "missing bot token", token: "", webapp: "https://miniapp.example.com"},
		{name: "missing webapp url", token: "123456:test-token", webapp: ""},
		{name: "malformed webapp url", token: "123456:test-token", webapp: "not a url"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("BOT_TOKEN", tc.token)
			t.Setenv("WEBAPP_URL", tc.webapp)

			if _, err := config.Load(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadInvalidLogLevel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOG_LEVEL", "verbose")

	if _, err := config.Load(); err == nil {
		t.Error("expected validation error for unknown log level, got nil")
	}
}
