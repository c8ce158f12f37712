package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port             int
	Env              string
	StorageDriver    string
	DBDSN            string
	AutoMigrate      bool
	SessionDriver    string
	RedisURL         string
	SessionTTL       time.Duration
	AllowOrigins     []string
	SeedFixtures     bool
	ScheduleTimezone *time.Location
	MetricsEnabled   bool
	SlackWebhookURL  string
	RateLimitPublic  RateLimitConfig
	RateLimitAuth    RateLimitConfig
	Storage          StorageConfig
}

// StorageConfig descreve o destino das imagens de perfil.
type StorageConfig struct {
	Provider    string
	Dir         string
	PublicURL   string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
}

// RateLimitConfig representa limites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// IsDevelopment indica se detalhes de erro podem ser expostos.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.Env = strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", EnvDevelopment)))
	if cfg.Env == "" {
		cfg.Env = EnvDevelopment
	}

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", "memory")))
	cfg.DBDSN = getEnv("DB_DSN", "")
	switch cfg.StorageDriver {
	case "memory":
	case "postgres":
		if cfg.DBDSN == "" {
			return nil, errors.New("DB_DSN obrigatório quando STORAGE_DRIVER=postgres")
		}
	default:
		return nil, errors.New("STORAGE_DRIVER deve ser memory ou postgres")
	}
	if cfg.AutoMigrate, err = parseBoolEnv("AUTO_MIGRATE", true); err != nil {
		return nil, err
	}

	cfg.SessionDriver = strings.ToLower(strings.TrimSpace(getEnv("SESSION_DRIVER", "memory")))
	cfg.RedisURL = getEnv("REDIS_URL", "")
	switch cfg.SessionDriver {
	case "memory":
	case "redis":
		if cfg.RedisURL == "" {
			return nil, errors.New("REDIS_URL obrigatório quando SESSION_DRIVER=redis")
		}
	default:
		return nil, errors.New("SESSION_DRIVER deve ser memory ou redis")
	}

	if cfg.SessionTTL, err = parseDurationEnv("SESSION_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.SessionTTL < 0 {
		return nil, errors.New("SESSION_TTL inválido")
	}

	cfg.AllowOrigins = splitList(getEnv("ALLOW_ORIGINS", "*"))

	if cfg.SeedFixtures, err = parseBoolEnv("SEED_FIXTURES", true); err != nil {
		return nil, err
	}
	if cfg.MetricsEnabled, err = parseBoolEnv("METRICS_ENABLED", true); err != nil {
		return nil, err
	}

	tz := strings.TrimSpace(getEnv("SCHEDULE_TIMEZONE", "America/Sao_Paulo"))
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errors.New("SCHEDULE_TIMEZONE inválido")
	}
	cfg.ScheduleTimezone = loc

	cfg.SlackWebhookURL = strings.TrimSpace(getEnv("SLACK_WEBHOOK_URL", ""))

	if cfg.RateLimitPublic, err = parseRateLimit("RATE_LIMIT_PUBLIC", RateLimitConfig{RequestsPerSecond: 10, Burst: 20}); err != nil {
		return nil, err
	}
	if cfg.RateLimitAuth, err = parseRateLimit("RATE_LIMIT_AUTH", RateLimitConfig{RequestsPerSecond: 10, Burst: 40}); err != nil {
		return nil, err
	}

	cfg.Storage = StorageConfig{
		Provider:    strings.ToLower(strings.TrimSpace(getEnv("UPLOAD_PROVIDER", "noop"))),
		Dir:         strings.TrimSpace(getEnv("UPLOAD_DIR", "./uploads")),
		PublicURL:   strings.TrimSpace(getEnv("UPLOAD_PUBLIC_URL", "/uploads")),
		S3Bucket:    strings.TrimSpace(getEnv("S3_BUCKET", "")),
		S3Region:    strings.TrimSpace(getEnv("S3_REGION", "us-east-1")),
		S3Endpoint:  strings.TrimSpace(getEnv("S3_ENDPOINT", "")),
		S3AccessKey: strings.TrimSpace(getEnv("S3_ACCESS_KEY", "")),
		S3SecretKey: strings.TrimSpace(getEnv("S3_SECRET_KEY", "")),
		S3PublicURL: strings.TrimSpace(getEnv("S3_PUBLIC_URL", "")),
	}
	switch cfg.Storage.Provider {
	case "", "noop", "local", "s3":
	default:
		return nil, errors.New("UPLOAD_PROVIDER deve ser noop, local ou s3")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	val := strings.TrimSpace(getEnv(key, ""))
	if val == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, errors.New(key + " inválido")
	}
	return b, nil
}

// parseRateLimit lê "<req/s>:<burst>", por exemplo "10:20".
func parseRateLimit(key string, def RateLimitConfig) (RateLimitConfig, error) {
	val := strings.TrimSpace(getEnv(key, ""))
	if val == "" {
		return def, nil
	}
	rps, burst, ok := strings.Cut(val, ":")
	if !ok {
		return RateLimitConfig{}, errors.New(key + " inválido")
	}
	r, err := strconv.ParseFloat(rps, 64)
	if err != nil || r <= 0 {
		return RateLimitConfig{}, errors.New(key + " inválido")
	}
	b, err := strconv.Atoi(burst)
	if err != nil || b <= 0 {
		return RateLimitConfig{}, errors.New(key + " inválido")
	}
	return RateLimitConfig{RequestsPerSecond: r, Burst: b}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
