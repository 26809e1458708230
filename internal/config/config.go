package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"filedrive/internal/blobstore"
)

const (
	defaultPort              = "3000"
	defaultDatabaseURL       = "file:filedrive.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	defaultSessionSecret     = "change-me-session-secret"
	defaultSessionTTL        = "24h"
	defaultCookieSecure      = "false"
	defaultMaxUploadSize     = "10MiB"
	defaultBlobBackend       = BlobBackendLocal
	defaultBlobLocalDir      = "./uploads"
	defaultBlobTimeout       = "30s"
	defaultS3Region          = "us-east-1"
	defaultS3UsePathStyle    = "true"
	defaultPendingUploadTTL  = "1h"
	defaultReconcileInterval = "15m"
	defaultReconcileBatch    = "100"
	defaultLogLevel          = "info"
)

const (
	BlobBackendLocal = blobstore.BackendLocal
	BlobBackendS3    = blobstore.BackendS3
)

// Config is resolved once at startup and passed down explicitly.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	LogLevel    string

	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	MaxUploadSize int64

	BlobBackend  string
	BlobLocalDir string
	BlobTimeout  time.Duration

	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool

	PendingUploadTTL  time.Duration
	ReconcileInterval time.Duration
	ReconcileBatch    int
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))
	cfg.SessionSecret = strings.TrimSpace(getEnv("SESSION_SECRET", defaultSessionSecret))
	cfg.CookieSecure = parseBoolEnv("COOKIE_SECURE", defaultCookieSecure)
	cfg.BlobBackend = strings.ToLower(strings.TrimSpace(getEnv("BLOB_BACKEND", defaultBlobBackend)))
	cfg.BlobLocalDir = strings.TrimSpace(getEnv("BLOB_LOCAL_DIR", defaultBlobLocalDir))
	cfg.S3Bucket = strings.TrimSpace(os.Getenv("S3_BUCKET"))
	cfg.S3Region = strings.TrimSpace(getEnv("S3_REGION", defaultS3Region))
	cfg.S3Endpoint = strings.TrimSpace(os.Getenv("S3_ENDPOINT"))
	cfg.S3AccessKey = strings.TrimSpace(os.Getenv("S3_ACCESS_KEY"))
	cfg.S3SecretKey = strings.TrimSpace(os.Getenv("S3_SECRET_KEY"))
	cfg.S3UsePathStyle = parseBoolEnv("S3_USE_PATH_STYLE", defaultS3UsePathStyle)

	var err error
	if cfg.SessionTTL, err = parseDurationEnv("SESSION_TTL", defaultSessionTTL); err != nil {
		return nil, err
	}
	if cfg.BlobTimeout, err = parseDurationEnv("BLOB_TIMEOUT", defaultBlobTimeout); err != nil {
		return nil, err
	}
	if cfg.PendingUploadTTL, err = parseDurationEnv("PENDING_UPLOAD_TTL", defaultPendingUploadTTL); err != nil {
		return nil, err
	}
	if cfg.ReconcileInterval, err = parseDurationEnv("RECONCILE_INTERVAL", defaultReconcileInterval); err != nil {
		return nil, err
	}
	if cfg.MaxUploadSize, err = parseBytesEnv("MAX_UPLOAD_SIZE", defaultMaxUploadSize); err != nil {
		return nil, err
	}
	if cfg.ReconcileBatch, err = parseIntEnv("RECONCILE_BATCH", defaultReconcileBatch); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProdLike reports whether insecure defaults must be rejected.
func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

// BlobOptions maps the BLOB_* and S3_* settings onto the store options.
func (c *Config) BlobOptions() blobstore.Options {
	return blobstore.Options{
		Backend:  c.BlobBackend,
		LocalDir: c.BlobLocalDir,
		S3: blobstore.S3Config{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			Endpoint:     c.S3Endpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			UsePathStyle: c.S3UsePathStyle,
			Timeout:      c.BlobTimeout,
		},
	}
}

// LogFields lists the resolved settings that are safe to log.
func (c *Config) LogFields() logrus.Fields {
	return logrus.Fields{
		"env":                c.AppEnv,
		"port":               c.Port,
		"blob_backend":       c.BlobBackend,
		"max_upload_size":    humanize.IBytes(uint64(c.MaxUploadSize)),
		"blob_timeout":       c.BlobTimeout.String(),
		"pending_upload_ttl": c.PendingUploadTTL.String(),
		"reconcile_interval": c.ReconcileInterval.String(),
		"cookie_secure":      c.CookieSecure,
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if cfg.BlobTimeout <= 0 {
		return fmt.Errorf("BLOB_TIMEOUT must be > 0")
	}
	if cfg.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be > 0")
	}
	if cfg.PendingUploadTTL <= 0 {
		return fmt.Errorf("PENDING_UPLOAD_TTL must be > 0")
	}
	if cfg.PendingUploadTTL <= cfg.BlobTimeout {
		return fmt.Errorf("PENDING_UPLOAD_TTL must be longer than BLOB_TIMEOUT")
	}
	if cfg.ReconcileInterval < 0 {
		return fmt.Errorf("RECONCILE_INTERVAL must be >= 0")
	}
	if cfg.ReconcileBatch <= 0 {
		return fmt.Errorf("RECONCILE_BATCH must be > 0")
	}

	switch cfg.BlobBackend {
	case BlobBackendLocal:
		if cfg.BlobLocalDir == "" {
			return fmt.Errorf("BLOB_LOCAL_DIR must not be empty when BLOB_BACKEND=local")
		}
	case BlobBackendS3:
		if cfg.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET must be set when BLOB_BACKEND=s3")
		}
	default:
		return fmt.Errorf("BLOB_BACKEND must be one of: local, s3")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.SessionSecret, defaultSessionSecret) {
			return fmt.Errorf("in prod/release SESSION_SECRET must be set and not default")
		}
		if !cfg.CookieSecure {
			return fmt.Errorf("in prod/release COOKIE_SECURE must be true")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBytesEnv(name, fallback string) (int64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := humanize.ParseBytes(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return int64(n), nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
