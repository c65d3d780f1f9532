// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig      `mapstructure:"app"`
	Server    ServerConfig   `mapstructure:"server"`
	Database  DatabaseConfig `mapstructure:"database"`
	Oracle    OracleConfig   `mapstructure:"oracle"`
	Pipeline  PipelineConfig `mapstructure:"pipeline"`
	Logging   LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
	// InventorySource selects the vehicle store backend: "postgres" or
	// "elasticsearch".
	InventorySource string `mapstructure:"inventory_source"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	Index      string   `mapstructure:"index"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// OracleConfig holds settings for the external scoring oracle.
type OracleConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	Timeout      int    `mapstructure:"timeout"`       // milliseconds, batch scoring calls
	FirstTimeout int    `mapstructure:"first_timeout"` // milliseconds an interactive request waits for the refined ranking before answering 202
	MaxRetries   int    `mapstructure:"max_retries"`
}

// PipelineConfig holds tunables for the recommendation pipeline.
type PipelineConfig struct {
	RetrievalLimit   int `mapstructure:"retrieval_limit"`   // candidates fetched from inventory
	RerankTopK       int `mapstructure:"rerank_top_k"`      // candidates sent to the oracle
	BatchSize        int `mapstructure:"batch_size"`        // candidates per oracle call
	BatchWorkers     int `mapstructure:"batch_workers"`     // concurrent oracle batches
	OutputSize       int `mapstructure:"output_size"`       // final ranked list size
	MinViable        int `mapstructure:"min_viable"`        // retrieval count below which the budget widens
	ResultTTL        int `mapstructure:"result_ttl"`        // seconds, background rerank result retention
	ReviewCacheTTL   int `mapstructure:"review_cache_ttl"`  // seconds
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
