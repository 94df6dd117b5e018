package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// StoreKind names the credential/task store backend selected by MONGO_URI.
type StoreKind string

const (
	StoreMongo    StoreKind = "mongo"
	StorePostgres StoreKind = "postgres"
	StoreMemory   StoreKind = "memory"
)

type Config struct {
	//App
	Env string // dev / staging / prod
	//HTTP
	HTTPAddr      string
	ClientURL     string
	MaxUploadSize int64
	//Auth / Security
	JWTSecret        string
	TokenTTL         time.Duration
	AdminInviteToken string

	// Infrastructure
	StoreURI  string
	Store     StoreKind
	RedisAddr string
	RedisPass string
	RedisDB   int
	RabbitURL string
	Exchange  string

	// Image store (S3-compatible)
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string
	S3UsePathStyle    bool
	S3PublicBaseURL   string
	ImageFolder       string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func (c *Config) IsDev() bool { return c.Env == "dev" }

// Load reads the environment once; a .env file, if present, is applied first
// without overriding variables that are already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:              getEnv("ENV", "dev"),
		HTTPAddr:         ":" + getEnv("PORT", "5000"),
		ClientURL:        getEnv("CLIENT_URL", "*"),
		AdminInviteToken: os.Getenv("ADMIN_INVITE_TOKEN"),
		StoreURI:         getEnv("MONGO_URI", "mongodb://localhost:27017/Task_Manager"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPass:        os.Getenv("REDIS_PASSWORD"),
		RabbitURL:        os.Getenv("RABBIT_URL"),
		Exchange:         getEnv("RABBIT_EXCHANGE", "task.events"),

		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3Bucket:          getEnv("S3_BUCKET", "task-manager"),
		S3PublicBaseURL:   os.Getenv("S3_PUBLIC_BASE_URL"),
		ImageFolder:       getEnv("IMAGE_FOLDER", "task-manager"),
	}

	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	kind, err := StoreKindFromURI(cfg.StoreURI)
	if err != nil {
		return nil, err
	}
	cfg.Store = kind

	ttl, err := getDuration("JWT_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.TokenTTL = ttl

	if cfg.MaxUploadSize, err = getInt64("MAX_UPLOAD_SIZE", 5<<20); err != nil {
		return nil, err
	}
	if cfg.MaxUploadSize <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}

	db, err := getInt64("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cfg.RedisDB = int(db)

	if cfg.S3UsePathStyle, err = getBool("S3_USE_PATH_STYLE", cfg.S3Endpoint != ""); err != nil {
		return nil, err
	}

	//Timeout values are optional and have a default value if not
	if cfg.HTTPReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPWriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPIdleTimeout, err = getDuration("HTTP_IDLE_TIMEOUT", time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

// StoreKindFromURI maps the connection string scheme to a backend.
func StoreKindFromURI(uri string) (StoreKind, error) {
	scheme, _, ok := strings.Cut(strings.TrimSpace(uri), "://")
	if !ok {
		return "", fmt.Errorf("invalid MONGO_URI %q: missing scheme", uri)
	}
	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		return StoreMongo, nil
	case "postgres", "postgresql":
		return StorePostgres, nil
	case "memory":
		return StoreMemory, nil
	default:
		return "", fmt.Errorf("invalid MONGO_URI %q: unsupported scheme %q", uri, scheme)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q: %w", key, v, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool for %s: %q: %w", key, v, err)
	}
	return b, nil
}
