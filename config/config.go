package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	DefaultPort         = "3000"
	DefaultMongoURI     = "mongodb://localhost/mongoHeadlines"
	DefaultDatabaseName = "mongoHeadlines"
)

type DatabaseConfig struct {
	URI             string
	Name            string
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
	RetryWrites     bool
}

type Config struct {
	Port            string
	LogLevel        slog.Level
	MaxBodyBytes    int64
	ScrapeTimeout   time.Duration
	RedisURL        string
	ArticleCacheTTL time.Duration
	Database        DatabaseConfig
}

// LoadDotEnv reads .env files into the environment. A missing file is fine;
// variables already set in the environment win.
func LoadDotEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load builds the configuration from the environment
func Load() (*Config, error) {
	db, err := LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(GetEnvAsString("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return &Config{
		Port:            GetEnvAsString("PORT", DefaultPort),
		LogLevel:        level,
		MaxBodyBytes:    GetEnvAsInt64("MAX_BODY_BYTES", 1<<20),
		ScrapeTimeout:   GetEnvAsDuration("SCRAPE_TIMEOUT", 30*time.Second),
		RedisURL:        GetEnvAsString("REDIS_URL", ""),
		ArticleCacheTTL: GetEnvAsDuration("ARTICLE_CACHE_TTL", 5*time.Minute),
		Database:        db,
	}, nil
}

// LoadDatabaseConfig reads the Mongo settings. The database name comes from
// MONGO_DB, then from the path of the connection string, then the default.
func LoadDatabaseConfig() (DatabaseConfig, error) {
	uri := GetEnvAsString("MONGODB_URI", DefaultMongoURI)

	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("invalid MONGODB_URI: %w", err)
	}

	name := cs.Database
	if name == "" {
		name = DefaultDatabaseName
	}

	return DatabaseConfig{
		URI:             uri,
		Name:            GetEnvAsString("MONGO_DB", name),
		MaxPoolSize:     GetEnvAsUint64("MONGO_MAX_POOL_SIZE", 100),
		MinPoolSize:     GetEnvAsUint64("MONGO_MIN_POOL_SIZE", 0),
		MaxConnIdleTime: GetEnvAsDuration("MONGO_MAX_CONN_IDLE_TIME", 60*time.Second),
		RetryWrites:     GetEnvAsBool("MONGO_RETRY_WRITES", true),
	}, nil
}
