package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET environment variable is not set")

type Config struct {
	Port        string
	Environment string
	DatabaseURL string

	JWTSecret    string
	JWTExpiresIn time.Duration

	NatsURL string

	OtelEnabled  bool
	OtelEndpoint string

	S3 S3Config

	RateLimitMax        int
	RateLimitExpiration time.Duration
}

type S3Config struct {
	Endpoint     string
	Region       string
	BucketName   string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// Enabled reports whether enough S3 settings are present to presign uploads.
func (c S3Config) Enabled() bool {
	return c.Endpoint != "" && c.BucketName != ""
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads .env.dev when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.dev")
	return FromEnv()
}

// LoadWorker is Load for processes that do not issue session tokens.
func LoadWorker() (*Config, error) {
	_ = godotenv.Load(".env.dev")
	return parse()
}

func FromEnv() (*Config, error) {
	cfg, err := parse()
	if err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	return cfg, nil
}

func parse() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("APP_PORT", "8000"),
		Environment: getEnv("APP_ENV", "development"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		NatsURL:     getEnv("NATS_URL", "nats://localhost:4222"),

		OtelEnabled:  os.Getenv("OTEL_ENABLED") == "true",
		OtelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "jaeger:4317"),

		S3: S3Config{
			Endpoint:     os.Getenv("S3_ENDPOINT"),
			Region:       getEnv("AWS_REGION", "us-east-1"),
			BucketName:   os.Getenv("S3_BUCKET_NAME"),
			AccessKey:    os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretKey:    os.Getenv("AWS_SECRET_ACCESS_KEY"),
			UsePathStyle: os.Getenv("S3_USE_PATH_STYLE") == "true",
		},
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
			getEnv("DB_HOST", "localhost"), getEnv("DB_PORT", "5432"), os.Getenv("DB_NAME"),
		)
	}

	expiresIn, err := getInt("JWT_EXPIRES_IN", 604800)
	if err != nil {
		return nil, err
	}
	cfg.JWTExpiresIn = time.Duration(expiresIn) * time.Second

	if cfg.RateLimitMax, err = getInt("RATE_LIMIT_MAX", 100); err != nil {
		return nil, err
	}
	expirationSec, err := getInt("RATE_LIMIT_EXPIRATION", 60)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitExpiration = time.Duration(expirationSec) * time.Second

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
