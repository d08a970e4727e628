package memory

import "time"

type StorageConfig struct {
	Dialect string
}

type ParserConfig struct {
	Provider string
}

type Config struct {
	Storage StorageConfig
	Parser  ParserConfig

	// Timeout bounds each operation's calls into the store and the parser.
	Timeout time.Duration
}

func newConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
