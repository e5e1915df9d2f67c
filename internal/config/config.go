package config

import (
	"time"

	"github.com/Taum/marketbot-sub000/internal/search"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Search   SearchConfig   `yaml:"search"`
	Indexer  IndexerConfig  `yaml:"indexer"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN              string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns         int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns         int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime  time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime  time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate      bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"false"`
	ApplicationName  string        `yaml:"application_name"   env:"DATABASE_APPLICATION_NAME"   env-default:"marketbot"`
	// StatementTimeout bounds every statement on the pool; 0 disables it.
	StatementTimeout time.Duration `yaml:"statement_timeout"  env:"DATABASE_STATEMENT_TIMEOUT"  env-default:"30s"`
}

// AuthConfig holds admin token settings. An empty secret disables the admin
// endpoints.
type AuthConfig struct {
	AdminJWTSecret string        `yaml:"admin_jwt_secret" env:"AUTH_ADMIN_JWT_SECRET"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"marketbot"`
	AdminTokenTTL  time.Duration `yaml:"admin_token_ttl"  env:"AUTH_ADMIN_TOKEN_TTL"  env-default:"1h"`
}

// AdminEnabled reports whether admin tokens can be validated.
func (c AuthConfig) AdminEnabled() bool { return c.AdminJWTSecret != "" }

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// SearchConfig holds search service limits.
type SearchConfig struct {
	DefaultPageSize      int `yaml:"default_page_size"       env:"SEARCH_DEFAULT_PAGE_SIZE"       env-default:"100"`
	MaxPageSize          int `yaml:"max_page_size"           env:"SEARCH_MAX_PAGE_SIZE"           env-default:"500"`
	MaxCombinations      int `yaml:"max_combinations"        env:"SEARCH_MAX_COMBINATIONS"        env-default:"3"`
	RankedMinTokens      int `yaml:"ranked_min_tokens"       env:"SEARCH_RANKED_MIN_TOKENS"       env-default:"5"`
	RankedMinTokenLength int `yaml:"ranked_min_token_length" env:"SEARCH_RANKED_MIN_TOKEN_LENGTH" env-default:"15"`
	MaxQueryLength       int `yaml:"max_query_length"        env:"SEARCH_MAX_QUERY_LENGTH"        env-default:"500"`
}

// CompileOptions returns the compiler settings derived from the config.
func (c SearchConfig) CompileOptions() search.Options {
	return search.Options{
		MaxCombinations:      c.MaxCombinations,
		RankedMinTokens:      c.RankedMinTokens,
		RankedMinTokenLength: c.RankedMinTokenLength,
	}
}

// IndexerConfig holds batch indexing settings. Batches only visit stale cards
// unless ReindexAll is set. Boolean options default to false because
// env-default cannot tell an explicit false from an unset field.
type IndexerConfig struct {
	PageSize       int  `yaml:"page_size"       env:"INDEXER_PAGE_SIZE"       env-default:"200"`
	SegmentWorkers int  `yaml:"segment_workers" env:"INDEXER_SEGMENT_WORKERS" env-default:"4"`
	ReindexAll     bool `yaml:"reindex_all"     env:"INDEXER_REINDEX_ALL"`
}
