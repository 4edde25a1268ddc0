// Package config loads the service configuration from defaults, an optional config.yaml, .env and OIKION_ environment variables
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"

	"github.com/Oikion/mvp-sub017/pkg/cache"
	"github.com/Oikion/mvp-sub017/pkg/database"
	"github.com/Oikion/mvp-sub017/pkg/events"
	"github.com/Oikion/mvp-sub017/pkg/matching"
	"github.com/Oikion/mvp-sub017/pkg/tracing"
	"github.com/Oikion/mvp-sub017/pkg/validation"
)

// EnvPrefix prefixes every environment variable, e.g. OIKION_DATABASE_HOST
const EnvPrefix = "OIKION"

type Config struct {
	App       AppConfig       `yaml:"app" mapstructure:"app"`
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	Database  DatabaseConfig  `yaml:"database" mapstructure:"database"`
	Migration MigrationConfig `yaml:"migration" mapstructure:"migration"`
	Redis     RedisConfig     `yaml:"redis" mapstructure:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka" mapstructure:"kafka"`
	Auth      AuthConfig      `yaml:"auth" mapstructure:"auth"`
	Tracing   TracingConfig   `yaml:"tracing" mapstructure:"tracing"`
	Matching  MatchingConfig  `yaml:"matching" mapstructure:"matching"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

type AppConfig struct {
	Name               string `yaml:"name" mapstructure:"name"`
	Version            string `yaml:"version" mapstructure:"version"`
	StartupMaxAttempts int    `yaml:"startup_max_attempts" mapstructure:"startup_max_attempts" validate:"min=1"`
}

type HTTPConfig struct {
	Port                     int      `yaml:"port" mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeoutSeconds       int      `yaml:"read_timeout_seconds" mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds      int      `yaml:"write_timeout_seconds" mapstructure:"write_timeout_seconds"`
	IdleTimeoutSeconds       int      `yaml:"idle_timeout_seconds" mapstructure:"idle_timeout_seconds"`
	ReadHeaderTimeoutSeconds int      `yaml:"read_header_timeout_seconds" mapstructure:"read_header_timeout_seconds"`
	MaxHeaderBytes           int      `yaml:"max_header_bytes" mapstructure:"max_header_bytes"`
	BodyLimit                string   `yaml:"body_limit" mapstructure:"body_limit"`
	AllowOrigins             []string `yaml:"allow_origins" mapstructure:"allow_origins"`
	AllowMethods             []string `yaml:"allow_methods" mapstructure:"allow_methods"`
	// RateLimit is the per-IP request rate per second, 0 disables limiting
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit" validate:"min=0"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver" mapstructure:"driver" validate:"oneof=postgres sqlite"`
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            string        `yaml:"port" mapstructure:"port"`
	UserName        string        `yaml:"user_name" mapstructure:"user_name"`
	Password        string        `yaml:"password" mapstructure:"password"`
	Name            string        `yaml:"name" mapstructure:"name"`
	SSLMode         string        `yaml:"ssl_mode" mapstructure:"ssl_mode"`
	Path            string        `yaml:"path" mapstructure:"path"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
}

type MigrationConfig struct {
	FolderPath   string `yaml:"folder_path" mapstructure:"folder_path"`
	Version      uint   `yaml:"version" mapstructure:"version"`
	Force        int    `yaml:"force" mapstructure:"force"`
	AutoRollback bool   `yaml:"auto_rollback" mapstructure:"auto_rollback"`
	// OnStartup runs pending migrations before the server starts
	OnStartup bool `yaml:"on_startup" mapstructure:"on_startup"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

type KafkaConfig struct {
	Enabled        bool     `yaml:"enabled" mapstructure:"enabled"`
	Brokers        []string `yaml:"brokers" mapstructure:"brokers"`
	OutputTopic    string   `yaml:"output_topic" mapstructure:"output_topic"`
	BatchSize      int      `yaml:"batch_size" mapstructure:"batch_size"`
	BatchTimeoutMS int      `yaml:"batch_timeout_ms" mapstructure:"batch_timeout_ms"`
	RequiredAcks   int      `yaml:"required_acks" mapstructure:"required_acks"`
	Compression    string   `yaml:"compression" mapstructure:"compression" validate:"omitempty,oneof=snappy gzip lz4 zstd none"`
}

type AuthConfig struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	IssuerURL string `yaml:"issuer_url" mapstructure:"issuer_url" validate:"required_if=Enabled true"`
	ClientID  string `yaml:"client_id" mapstructure:"client_id" validate:"required_if=Enabled true"`
}

type TracingConfig struct {
	Endpoint    string  `yaml:"endpoint" mapstructure:"endpoint"`
	Protocol    string  `yaml:"protocol" mapstructure:"protocol" validate:"oneof=grpc http"`
	Insecure    bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio" mapstructure:"sample_ratio" validate:"min=0,max=1"`
}

type MatchingConfig struct {
	Weights matching.Weights `yaml:"weights" mapstructure:"weights"`
	// PatternFile overrides the built-in preference vocabulary
	PatternFile      string        `yaml:"pattern_file" mapstructure:"pattern_file"`
	CacheTTL         time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	DefaultThreshold int           `yaml:"default_threshold" mapstructure:"default_threshold" validate:"min=0,max=100"`
	DefaultLimit     int           `yaml:"default_limit" mapstructure:"default_limit" validate:"min=1"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=json console"`
}

// setDefaults registers every key, which also lets AutomaticEnv override keys without a real default
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "oikion-match")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.startup_max_attempts", 5)

	v.SetDefault("http.port", 3004)
	v.SetDefault("http.read_timeout_seconds", 10)
	v.SetDefault("http.write_timeout_seconds", 10)
	v.SetDefault("http.idle_timeout_seconds", 10)
	v.SetDefault("http.read_header_timeout_seconds", 10)
	v.SetDefault("http.max_header_bytes", 64000)
	v.SetDefault("http.body_limit", "2M")
	v.SetDefault("http.allow_origins", []string{"*"})
	v.SetDefault("http.allow_methods", []string{"GET", "POST", "PUT", "DELETE"})
	v.SetDefault("http.rate_limit", 0)

	v.SetDefault("database.driver", database.DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "oikion")
	v.SetDefault("database.user_name", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.path", "oikion.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 10*time.Second)

	v.SetDefault("migration.folder_path", "db/pg")
	v.SetDefault("migration.version", 0)
	v.SetDefault("migration.force", 0)
	v.SetDefault("migration.auto_rollback", true)
	v.SetDefault("migration.on_startup", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.output_topic", "match-events")
	v.SetDefault("kafka.batch_size", 100)
	v.SetDefault("kafka.batch_timeout_ms", 100)
	v.SetDefault("kafka.required_acks", 1)
	v.SetDefault("kafka.compression", "snappy")

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.issuer_url", "")
	v.SetDefault("auth.client_id", "")

	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.protocol", "grpc")
	v.SetDefault("tracing.insecure", false)
	v.SetDefault("tracing.sample_ratio", 1.0)

	weights := matching.DefaultWeights()
	v.SetDefault("matching.weights.hard", weights.Hard)
	v.SetDefault("matching.weights.required", weights.Required)
	v.SetDefault("matching.weights.preferred", weights.Preferred)
	v.SetDefault("matching.weights.nice_to_have", weights.NiceToHave)
	v.SetDefault("matching.pattern_file", "")
	v.SetDefault("matching.cache_ttl", 24*time.Hour)
	v.SetDefault("matching.default_threshold", 0)
	v.SetDefault("matching.default_limit", matching.DefaultLimit)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads .env (if present), then config.yaml from the working directory or path, then the environment
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if _, err := validation.Validate(cfg); err != nil {
		return nil, eris.Wrap(err, "config: invalid")
	}

	return &cfg, nil
}

// DatabaseConfig converts the section to the database package's config
func (c *Config) DatabaseConfig() database.Config {
	return database.Config{
		Driver:          c.Database.Driver,
		Host:            c.Database.Host,
		Port:            c.Database.Port,
		UserName:        c.Database.UserName,
		Password:        c.Database.Password,
		Name:            c.Database.Name,
		SSLMode:         c.Database.SSLMode,
		Path:            c.Database.Path,
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
	}
}

// MigrationConfig converts the section to the migration service's config
func (c *Config) MigrationConfig() *database.MigrationConfig {
	return &database.MigrationConfig{
		MigrationFolderPath: c.Migration.FolderPath,
		Version:             c.Migration.Version,
		Force:               c.Migration.Force,
		AutoRollback:        c.Migration.AutoRollback,
	}
}

// RedisConfig converts the section to the cache client's config
func (c *Config) RedisConfig() cache.Config {
	return cache.Config{
		Host:     c.Redis.Host,
		Port:     c.Redis.Port,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	}
}

// ProducerConfig converts the section to the event producer's config
func (c *Config) ProducerConfig() events.ProducerConfig {
	return events.ProducerConfig{
		Brokers:      c.Kafka.Brokers,
		Topic:        c.Kafka.OutputTopic,
		BatchSize:    c.Kafka.BatchSize,
		BatchTimeout: time.Duration(c.Kafka.BatchTimeoutMS) * time.Millisecond,
		RequiredAcks: c.Kafka.RequiredAcks,
		Compression:  c.Kafka.Compression,
	}
}

// TracingConfig converts the section to the tracing provider's config
func (c *Config) TracingConfig() tracing.Config {
	return tracing.Config{
		ServiceName: c.App.Name,
		Endpoint:    c.Tracing.Endpoint,
		Protocol:    c.Tracing.Protocol,
		Insecure:    c.Tracing.Insecure,
		SampleRatio: c.Tracing.SampleRatio,
	}
}

// DefaultRankRequest is the request used when a caller sets neither threshold nor limit
func (c *Config) DefaultRankRequest() matching.RankRequest {
	return matching.RankRequest{Threshold: c.Matching.DefaultThreshold, Limit: c.Matching.DefaultLimit}
}
