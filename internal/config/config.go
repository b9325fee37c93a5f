package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	Env  string
	Port int

	Store      string
	DBURL      string
	DBMaxConns int32

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	CORSOrigins    []string
	MaxUploadBytes int64

	StorageDriver string
	UploadDir     string
	S3            S3Config

	OTelEnabled  bool
	OTelEndpoint string

	SeedUser SeedUser
}

type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	UsePathStyle  bool
}

// SeedUser is created at startup when Email and Password are both set.
type SeedUser struct {
	Name     string
	Email    string
	Password string
}

// Load reads an optional .env file and then the process environment.
// A missing JWT_SECRET is an error, there is no fallback secret.
func Load() (Config, error) {
	_ = godotenv.Load()

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	port, err := getEnvInt("PORT", 5050)
	collect(err)
	maxConns, err := getEnvInt("DB_MAX_CONNS", 5)
	collect(err)
	bcryptCost, err := getEnvInt("BCRYPT_COST", 10)
	collect(err)
	maxUpload, err := getEnvInt("MAX_UPLOAD_BYTES", 10<<20)
	collect(err)
	ttl, err := getEnvDuration("JWT_TTL", 24*time.Hour)
	collect(err)
	otelEnabled, err := getEnvBool("OTEL_ENABLED", false)
	collect(err)
	pathStyle, err := getEnvBool("S3_USE_PATH_STYLE", true)
	collect(err)

	cfg := Config{
		Env:            getEnv("APP_ENV", "dev"),
		Port:           port,
		Store:          strings.ToLower(getEnv("STORE", StorePostgres)),
		DBURL:          getEnv("DATABASE_URL", buildDBURL()),
		DBMaxConns:     int32(maxConns),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTTTL:         ttl,
		BcryptCost:     bcryptCost,
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		MaxUploadBytes: int64(maxUpload),
		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", StorageLocal)),
		UploadDir:      getEnv("UPLOAD_DIR", "public/images"),
		S3: S3Config{
			Bucket:        os.Getenv("S3_BUCKET"),
			Region:        getEnv("S3_REGION", "us-east-1"),
			Endpoint:      os.Getenv("S3_ENDPOINT"),
			AccessKey:     os.Getenv("S3_ACCESS_KEY"),
			SecretKey:     os.Getenv("S3_SECRET_KEY"),
			PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
			UsePathStyle:  pathStyle,
		},
		OTelEnabled:  otelEnabled,
		OTelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		SeedUser: SeedUser{
			Name:     getEnv("SEED_USER_NAME", "Admin"),
			Email:    os.Getenv("SEED_USER_EMAIL"),
			Password: os.Getenv("SEED_USER_PASSWORD"),
		},
	}

	collect(cfg.validate())

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}

	return cfg, nil
}

func (c Config) validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, ErrMissingJWTSecret)
	}

	if c.Store != StorePostgres && c.Store != StoreMemory {
		errs = append(errs, fmt.Errorf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, c.Store))
	}

	switch c.StorageDriver {
	case StorageLocal:
	case StorageS3:
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required when STORAGE_DRIVER=s3"))
		}
		if c.S3.PublicBaseURL == "" {
			errs = append(errs, errors.New("S3_PUBLIC_BASE_URL is required when STORAGE_DRIVER=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageLocal, StorageS3, c.StorageDriver))
	}

	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}

	return errors.Join(errs...)
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "pcblog")
	pass := getEnv("DB_PASSWORD", "pcblog")
	name := getEnv("DB_NAME", "pc_blog")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	num, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return num, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
