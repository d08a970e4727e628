package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"elderease/nlp"
)

const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMongo    = "mongodb"
	StoreRedis    = "redis"
	StoreEtcd     = "etcd"
)

type Config struct {
	Addr     string `env:"ELDEREASE_ADDR" envDefault:":5000"`
	Debug    bool   `env:"ELDEREASE_DEBUG" envDefault:"false"`
	LogJSON  bool   `env:"ELDEREASE_LOG_JSON" envDefault:"false"`
	Store    StoreConfig
	Parser   ParserConfig
	Timeouts TimeoutConfig
}

type StoreConfig struct {
	Backend       string   `env:"ELDEREASE_STORE" envDefault:"sqlite"`
	SQLitePath    string   `env:"ELDEREASE_SQLITE_PATH" envDefault:"elderease.db"`
	PostgresDSN   string   `env:"POSTGRES_DSN"`
	MongoURI      string   `env:"MONGODB_URI"`
	MongoDatabase string   `env:"MONGODB_DB" envDefault:"elderease"`
	RedisURL      string   `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	EtcdEndpoints []string `env:"ETCD_ENDPOINTS" envDefault:"localhost:2379" envSeparator:","`
}

type ParserConfig struct {
	Provider string        `env:"ELDEREASE_PARSER" envDefault:"rules"`
	URL      string        `env:"ELDEREASE_PARSER_URL"`
	Model    string        `env:"ELDEREASE_PARSER_MODEL"`
	Timeout  time.Duration `env:"ELDEREASE_PARSER_TIMEOUT" envDefault:"10s"`
}

type TimeoutConfig struct {
	Store    time.Duration `env:"ELDEREASE_STORE_TIMEOUT" envDefault:"10s"`
	Shutdown time.Duration `env:"ELDEREASE_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads an optional .env file (ELDEREASE_ENV_FILE, default ".env") and
// then the environment. Variables already set in the environment win over
// the file.
func Load() (*Config, error) {
	if err := loadEnvFile(envFilePath()); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envFilePath() string {
	if p := os.Getenv("ELDEREASE_ENV_FILE"); p != "" {
		return p
	}
	return ".env"
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case StoreSQLite, StorePostgres, StoreMongo, StoreRedis, StoreEtcd:
	default:
		return fmt.Errorf("ELDEREASE_STORE: unknown store %q", c.Store.Backend)
	}

	c.Parser.Provider = strings.ToLower(strings.TrimSpace(c.Parser.Provider))
	switch c.Parser.Provider {
	case nlp.ProviderRules, nlp.ProviderCoreNLP, nlp.ProviderUDPipe:
	default:
		return fmt.Errorf("ELDEREASE_PARSER: unknown parser %q", c.Parser.Provider)
	}

	if c.Timeouts.Store <= 0 {
		return errors.New("ELDEREASE_STORE_TIMEOUT must be positive")
	}
	if c.Parser.Timeout <= 0 {
		return errors.New("ELDEREASE_PARSER_TIMEOUT must be positive")
	}
	return nil
}
