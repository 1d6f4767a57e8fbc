// Package config loads the service configuration.
//
// Values come from three layers, later ones winning: built-in defaults, an
// optional YAML file, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/Shivanand-hulikatti/ticket-booking/internal/database"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
)

// Config is the full service configuration.
type Config struct {
	Port     string        `yaml:"port"`
	LogLevel string        `yaml:"log_level"`
	Catalog  string        `yaml:"catalog"`
	Auth     AuthConfig    `yaml:"auth"`
	Storage  StorageConfig `yaml:"storage"`
}

// AuthConfig configures credential handling.
type AuthConfig struct {
	// BcryptCost is the work factor for new password hashes.
	BcryptCost int `yaml:"bcrypt_cost"`
}

// StorageConfig selects and configures the durable key-value backend.
type StorageConfig struct {
	Backend  string          `yaml:"backend"`
	File     string          `yaml:"file"`
	SQLite   string          `yaml:"sqlite"`
	Postgres database.Config `yaml:"postgres"`
	Redis    RedisConfig     `yaml:"redis"`
	Mongo    MongoConfig     `yaml:"mongo"`
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// Default returns the built-in configuration: an on-disk JSON document in
// the working directory.
func Default() Config {
	return Config{
		Port:     "8080",
		LogLevel: "info",
		Auth:     AuthConfig{BcryptCost: bcrypt.DefaultCost},
		Storage: StorageConfig{
			Backend:  BackendFile,
			File:     "booking-state.json",
			SQLite:   "booking-state.db",
			Postgres: database.DefaultConfig(),
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "ticketbooking:",
			},
			Mongo: MongoConfig{
				URI:        "mongodb://127.0.0.1:27017",
				Database:   "ticketbooking",
				Collection: "state",
			},
		},
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment are used.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg, err := applyEnv(cfg)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg Config) (Config, error) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.Catalog = getEnv("CATALOG_FILE", cfg.Catalog)
	cfg.Storage.Backend = getEnv("STORAGE_BACKEND", cfg.Storage.Backend)
	cfg.Storage.File = getEnv("STORAGE_FILE", cfg.Storage.File)
	cfg.Storage.SQLite = getEnv("SQLITE_PATH", cfg.Storage.SQLite)
	cfg.Storage.Postgres = cfg.Storage.Postgres.ApplyEnv()
	cfg.Storage.Redis.Addr = getEnv("REDIS_ADDR", cfg.Storage.Redis.Addr)
	cfg.Storage.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Storage.Redis.Password)
	cfg.Storage.Mongo.URI = getEnv("MONGODB_URI", cfg.Storage.Mongo.URI)

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("BCRYPT_COST: %w", err)
		}
		cfg.Auth.BcryptCost = cost
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("auth.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}

	switch c.Storage.Backend {
	case BackendMemory, BackendPostgres:
	case BackendFile:
		if c.Storage.File == "" {
			errs = append(errs, errors.New("storage.file is required for the file backend"))
		}
	case BackendSQLite:
		if c.Storage.SQLite == "" {
			errs = append(errs, errors.New("storage.sqlite is required for the sqlite backend"))
		}
	case BackendRedis:
		if c.Storage.Redis.Addr == "" {
			errs = append(errs, errors.New("storage.redis.addr is required for the redis backend"))
		}
	case BackendMongo:
		if c.Storage.Mongo.URI == "" || c.Storage.Mongo.Database == "" || c.Storage.Mongo.Collection == "" {
			errs = append(errs, errors.New("storage.mongo uri, database and collection are required for the mongo backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.Storage.Backend))
	}

	return errors.Join(errs...)
}
