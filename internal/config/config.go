package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP            HTTPConfig
	Store           StoreConfig
	Auth            AuthConfig
	Remote          RemoteConfig
	Log             LogConfig
	FrontendDistDir string
	AuditLogFile    string
}

type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// StoreConfig selects the key-value backend. Only the fields of the chosen
// backend are validated.
type StoreConfig struct {
	Backend         string
	File            string
	DatabaseURL     string
	SQLitePath      string
	RedisURL        string
	RedisPrefix     string
	EtcdEndpoints   []string
	EtcdPrefix      string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	MinioEndpoint   string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioBucket     string
	MinioUseSSL     bool
}

type AuthConfig struct {
	BootstrapName     string
	BootstrapEmail    string
	BootstrapPassword string
	BootstrapUsername string
}

type RemoteConfig struct {
	DollarURL   string
	ProductsURL string
	Timeout     time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// fileConfig is the optional YAML overlay named by CONFIG_FILE. Its values
// replace the built-in defaults; environment variables still win.
type fileConfig struct {
	HTTP struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`
	Store struct {
		Backend         string   `yaml:"backend"`
		File            string   `yaml:"file"`
		DatabaseURL     string   `yaml:"database_url"`
		SQLitePath      string   `yaml:"sqlite_path"`
		RedisURL        string   `yaml:"redis_url"`
		RedisPrefix     string   `yaml:"redis_prefix"`
		EtcdEndpoints   []string `yaml:"etcd_endpoints"`
		EtcdPrefix      string   `yaml:"etcd_prefix"`
		MongoURI        string   `yaml:"mongo_uri"`
		MongoDatabase   string   `yaml:"mongo_database"`
		MongoCollection string   `yaml:"mongo_collection"`
		MinioEndpoint   string   `yaml:"minio_endpoint"`
		MinioBucket     string   `yaml:"minio_bucket"`
	} `yaml:"store"`
	Remote struct {
		DollarURL   string `yaml:"dollar_url"`
		ProductsURL string `yaml:"products_url"`
		TimeoutSec  int    `yaml:"timeout_sec"`
	} `yaml:"remote"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	FrontendDistDir string `yaml:"frontend_dist_dir"`
	AuditLogFile    string `yaml:"audit_log_file"`
}

var storeBackends = map[string]bool{
	"memory": true, "file": true, "postgres": true, "sqlite": true,
	"redis": true, "etcd": true, "mongo": true, "minio": true,
}

func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var fc fileConfig
	if path := getEnv("CONFIG_FILE", ""); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read CONFIG_FILE: %w", err)
		}
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return Config{}, fmt.Errorf("parse CONFIG_FILE %s: %w", path, err)
		}
	}

	cfg := Config{
		HTTP: HTTPConfig{
			Addr:            getEnv("HTTP_ADDR", or(fc.HTTP.Addr, ":8080")),
			ReadTimeout:     time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SEC", 10)) * time.Second,
			WriteTimeout:    time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SEC", 15)) * time.Second,
			ShutdownTimeout: time.Duration(getEnvInt("HTTP_SHUTDOWN_TIMEOUT_SEC", 20)) * time.Second,
			AllowedOrigins:  getEnvList("HTTP_ALLOWED_ORIGINS", fc.HTTP.AllowedOrigins),
		},
		Store: StoreConfig{
			Backend:         strings.ToLower(getEnv("STORE_BACKEND", or(fc.Store.Backend, "file"))),
			File:            getEnv("STORE_FILE", or(fc.Store.File, "./data/store.json")),
			DatabaseURL:     getEnv("DATABASE_URL", fc.Store.DatabaseURL),
			SQLitePath:      getEnv("SQLITE_PATH", or(fc.Store.SQLitePath, "./data/store.db")),
			RedisURL:        getEnv("REDIS_URL", or(fc.Store.RedisURL, "redis://localhost:6379/0")),
			RedisPrefix:     getEnv("REDIS_PREFIX", or(fc.Store.RedisPrefix, "mangabook:")),
			EtcdEndpoints:   getEnvList("ETCD_ENDPOINTS", orList(fc.Store.EtcdEndpoints, []string{"localhost:2379"})),
			EtcdPrefix:      getEnv("ETCD_PREFIX", or(fc.Store.EtcdPrefix, "/mangabook")),
			MongoURI:        getEnv("MONGO_URI", or(fc.Store.MongoURI, "mongodb://localhost:27017")),
			MongoDatabase:   getEnv("MONGO_DATABASE", or(fc.Store.MongoDatabase, "mangabook")),
			MongoCollection: getEnv("MONGO_COLLECTION", or(fc.Store.MongoCollection, "kv")),
			MinioEndpoint:   getEnv("MINIO_ENDPOINT", or(fc.Store.MinioEndpoint, "localhost:9000")),
			MinioAccessKey:  getEnv("MINIO_ACCESS_KEY", ""),
			MinioSecretKey:  getEnv("MINIO_SECRET_KEY", ""),
			MinioBucket:     getEnv("MINIO_BUCKET", or(fc.Store.MinioBucket, "mangabook")),
			MinioUseSSL:     getEnvBool("MINIO_USE_SSL", false),
		},
		Auth: AuthConfig{
			BootstrapName:     getEnv("AUTH_BOOTSTRAP_NAME", "Admin"),
			BootstrapEmail:    getEnv("AUTH_BOOTSTRAP_EMAIL", "admin@duoc.cl"),
			BootstrapPassword: getEnv("AUTH_BOOTSTRAP_PASSWORD", "admin"),
			BootstrapUsername: getEnv("AUTH_BOOTSTRAP_USERNAME", "admin"),
		},
		Remote: RemoteConfig{
			DollarURL:   getEnv("REMOTE_DOLLAR_URL", or(fc.Remote.DollarURL, "https://mindicador.cl/api/dolar")),
			ProductsURL: getEnv("REMOTE_PRODUCTS_URL", or(fc.Remote.ProductsURL, "https://cyntorres.github.io/api-productos/productos.json")),
			Timeout:     time.Duration(getEnvInt("REMOTE_TIMEOUT_SEC", orInt(fc.Remote.TimeoutSec, 10))) * time.Second,
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", or(fc.Log.Level, "info"))),
			Format: strings.ToLower(getEnv("LOG_FORMAT", or(fc.Log.Format, "json"))),
		},
		FrontendDistDir: getEnv("FRONTEND_DIST_DIR", or(fc.FrontendDistDir, "./web/dist")),
		AuditLogFile:    getEnv("AUDIT_LOG_FILE", or(fc.AuditLogFile, "./data/audit.log")),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) validate() error {
	if cfg.HTTP.Addr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if !storeBackends[cfg.Store.Backend] {
		return fmt.Errorf("STORE_BACKEND %q is not supported", cfg.Store.Backend)
	}
	switch cfg.Store.Backend {
	case "file":
		if cfg.Store.File == "" {
			return fmt.Errorf("STORE_FILE must not be empty")
		}
	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case "sqlite":
		if cfg.Store.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH must not be empty")
		}
	case "etcd":
		if len(cfg.Store.EtcdEndpoints) == 0 {
			return fmt.Errorf("ETCD_ENDPOINTS must not be empty")
		}
	case "minio":
		if cfg.Store.MinioAccessKey == "" || cfg.Store.MinioSecretKey == "" {
			return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required for the minio backend")
		}
	}
	if cfg.Auth.BootstrapEmail == "" {
		return fmt.Errorf("AUTH_BOOTSTRAP_EMAIL must not be empty")
	}
	if cfg.Auth.BootstrapPassword == "" {
		return fmt.Errorf("AUTH_BOOTSTRAP_PASSWORD must not be empty")
	}
	if cfg.Remote.Timeout <= 0 {
		return fmt.Errorf("REMOTE_TIMEOUT_SEC must be > 0")
	}
	if cfg.FrontendDistDir == "" {
		return fmt.Errorf("FRONTEND_DIST_DIR must not be empty")
	}
	if cfg.AuditLogFile == "" {
		return fmt.Errorf("AUDIT_LOG_FILE must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}

func getEnvInt(key string, fallback int) int {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvList(key string, fallback []string) []string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func orInt(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}

func orList(v, fallback []string) []string {
	if len(v) == 0 {
		return fallback
	}
	return v
}
