package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"strconv"

	"airline_reservations/internal/database"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config holds the runtime settings of the console and the checker
type Config struct {
	DataDir     string
	Backend     string
	RedisHost   string
	RedisPort   string
	RedisDB     int
	PostgresDSN string
	Environment string
	LogLevel    string
	LogFile     string

	// EnvFileLoaded reports whether Load found the .env file
	EnvFileLoaded bool
}

// Load reads envFile if it exists, then the environment. Missing values get defaults.
func Load(envFile string) (*Config, error) {
	cfg := &Config{}
	if envFile != "" {
		err := godotenv.Load(envFile)
		switch {
		case err == nil:
			cfg.EnvFileLoaded = true
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg.DataDir = getEnv("AIRLINE_DATA_DIR", "data")
	cfg.Backend = getEnv("STORE_BACKEND", database.BackendFile)
	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.PostgresDSN = getEnv("POSTGRES_DSN", "host=localhost port=5432 user=postgres password=postgres dbname=airline sslmode=disable")
	cfg.Environment = getEnv("ENV", "development")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFile = getEnv("LOG_FILE", "stderr")

	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB must be a number: %w", err)
	}
	cfg.RedisDB = db

	return cfg, nil
}

// BindFlags registers command-line overrides for every setting. Flag defaults
// are the values already loaded, so unset flags keep them.
func (c *Config) BindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.DataDir, "data-dir", c.DataDir, "directory holding the JSON documents (file backend)")
	flags.StringVar(&c.Backend, "backend", c.Backend, "document backend: file, redis or postgres")
	flags.StringVar(&c.RedisHost, "redis-host", c.RedisHost, "redis host")
	flags.StringVar(&c.RedisPort, "redis-port", c.RedisPort, "redis port")
	flags.IntVar(&c.RedisDB, "redis-db", c.RedisDB, "redis database number")
	flags.StringVar(&c.PostgresDSN, "postgres-dsn", c.PostgresDSN, "postgres connection string")
	flags.StringVar(&c.Environment, "env", c.Environment, "development or production")
	flags.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	flags.StringVar(&c.LogFile, "log-file", c.LogFile, "log output path, stderr or stdout")
}

// Validate checks the settings that cannot be defaulted
func (c *Config) Validate() error {
	switch c.Backend {
	case database.BackendFile:
		if c.DataDir == "" {
			return fmt.Errorf("data directory is required for the file backend")
		}
	case database.BackendRedis:
		if c.RedisHost == "" || c.RedisPort == "" {
			return fmt.Errorf("redis host and port are required for the redis backend")
		}
	case database.BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Backend)
	}
	return nil
}

// RedisAddr returns host:port
func (c *Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, c.RedisPort)
}

// BackendOptions converts the settings into database.Options
func (c *Config) BackendOptions() database.Options {
	return database.Options{
		Kind:        c.Backend,
		DataDir:     c.DataDir,
		RedisAddr:   c.RedisAddr(),
		RedisDB:     c.RedisDB,
		PostgresDSN: c.PostgresDSN,
	}
}

// IsProduction reports whether the production logger should be used
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// EnvFileFromArgs returns the --env-file value in args, or def. It runs
// before the other flags are bound because the .env values become their
// defaults.
func EnvFileFromArgs(args []string, def string) string {
	pre := pflag.NewFlagSet("env-file", pflag.ContinueOnError)
	pre.ParseErrorsWhitelist.UnknownFlags = true
	pre.Usage = func() {}
	pre.SetOutput(io.Discard)
	envFile := pre.String("env-file", def, "")
	_ = pre.Parse(args)
	return *envFile
}
