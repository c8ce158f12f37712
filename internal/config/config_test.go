package config

import (
	"os"
	"testing"
	"time"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatal(err)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "PORT", "APP_ENV", "STORAGE_DRIVER", "SESSION_DRIVER", "SESSION_TTL", "ALLOW_ORIGINS",
		"SEED_FIXTURES", "METRICS_ENABLED", "UPLOAD_PROVIDER", "AUTO_MIGRATE", "RATE_LIMIT_PUBLIC", "RATE_LIMIT_AUTH")
	t.Setenv("SCHEDULE_TIMEZONE", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if !cfg.IsDevelopment() {
		t.Errorf("Env = %q", cfg.Env)
	}
	if cfg.StorageDriver != "memory" || cfg.SessionDriver != "memory" {
		t.Errorf("drivers = %s/%s", cfg.StorageDriver, cfg.SessionDriver)
	}
	if cfg.SessionTTL != 0 {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if len(cfg.AllowOrigins) != 1 || cfg.AllowOrigins[0] != "*" {
		t.Errorf("AllowOrigins = %v", cfg.AllowOrigins)
	}
	if !cfg.SeedFixtures || !cfg.MetricsEnabled {
		t.Errorf("SeedFixtures=%v MetricsEnabled=%v", cfg.SeedFixtures, cfg.MetricsEnabled)
	}
	if cfg.ScheduleTimezone != time.UTC {
		t.Errorf("ScheduleTimezone = %v", cfg.ScheduleTimezone)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DB_DSN", "postgres://localhost/agenda")
	t.Setenv("SESSION_DRIVER", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SESSION_TTL", "12h")
	t.Setenv("ALLOW_ORIGINS", "https://app.agis.com, *.agis.com")
	t.Setenv("SEED_FIXTURES", "false")
	t.Setenv("RATE_LIMIT_PUBLIC", "5:10")
	t.Setenv("SCHEDULE_TIMEZONE", "UTC")
	t.Setenv("UPLOAD_PROVIDER", "s3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9000 || cfg.IsDevelopment() {
		t.Errorf("Port=%d Env=%s", cfg.Port, cfg.Env)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if len(cfg.AllowOrigins) != 2 || cfg.AllowOrigins[1] != "*.agis.com" {
		t.Errorf("AllowOrigins = %v", cfg.AllowOrigins)
	}
	if cfg.SeedFixtures {
		t.Error("SeedFixtures deveria ser false")
	}
	if cfg.RateLimitPublic != (RateLimitConfig{RequestsPerSecond: 5, Burst: 10}) {
		t.Errorf("RateLimitPublic = %+v", cfg.RateLimitPublic)
	}
	if cfg.Storage.Provider != "s3" {
		t.Errorf("Storage.Provider = %s", cfg.Storage.Provider)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"porta inválida", map[string]string{"PORT": "abc"}},
		{"postgres sem dsn", map[string]string{"STORAGE_DRIVER": "postgres", "DB_DSN": ""}},
		{"driver desconhecido", map[string]string{"STORAGE_DRIVER": "mysql"}},
		{"redis sem url", map[string]string{"SESSION_DRIVER": "redis", "REDIS_URL": ""}},
		{"ttl inválido", map[string]string{"SESSION_TTL": "amanhã"}},
		{"bool inválido", map[string]string{"SEED_FIXTURES": "talvez"}},
		{"rate limit inválido", map[string]string{"RATE_LIMIT_AUTH": "10"}},
		{"fuso inválido", map[string]string{"SCHEDULE_TIMEZONE": "Marte/Olympus"}},
		{"upload desconhecido", map[string]string{"UPLOAD_PROVIDER": "ftp"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			unsetEnv(t, "SEED_FIXTURES", "SESSION_TTL", "RATE_LIMIT_AUTH", "UPLOAD_PROVIDER")
			t.Setenv("PORT", "8080")
			t.Setenv("STORAGE_DRIVER", "memory")
			t.Setenv("SESSION_DRIVER", "memory")
			t.Setenv("SCHEDULE_TIMEZONE", "UTC")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("esperava erro")
			}
		})
	}
}
