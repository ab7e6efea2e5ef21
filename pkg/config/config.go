// Package config loads and validates the feature-extraction run configuration
// from YAML files with environment-variable overrides. Command-line flags are
// applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Sink names accepted in OutputConfig.Sinks.
const (
	SinkFile     = "file"
	SinkRedis    = "redis"
	SinkPostgres = "postgres"
)

// Config is the top-level run configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Postgres PostgresConfig `yaml:"postgres"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// PipelineConfig controls vocabulary selection and normalisation.
type PipelineConfig struct {
	LowerPercentile float64 `yaml:"lowerPercentile"`
	UpperPercentile float64 `yaml:"upperPercentile"`
	Stemmer         string  `yaml:"stemmer"`
	TrainRelation   string  `yaml:"trainRelation"`
	TestRelation    string  `yaml:"testRelation"`
}

// InputConfig points at the training corpus, the held-out corpus and the
// optional stop-word list.
type InputConfig struct {
	TrainPath     string `yaml:"trainPath"`
	TestPath      string `yaml:"testPath"`
	StopWordsPath string `yaml:"stopWordsPath"`
}

// OutputConfig selects where datasets and index dumps are published.
type OutputConfig struct {
	TrainDir     string        `yaml:"trainDir"`
	TestDir      string        `yaml:"testDir"`
	Sinks        []string      `yaml:"sinks"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// PostgresConfig holds PostgreSQL connection parameters for the postgres sink.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// KafkaConfig holds broker and topic settings for run events.
type KafkaConfig struct {
	Enabled bool        `yaml:"enabled"`
	Brokers []string    `yaml:"brokers"`
	Topics  KafkaTopics `yaml:"topics"`
}

// KafkaTopics maps logical topic names to their Kafka topic strings.
type KafkaTopics struct {
	DatasetComplete string `yaml:"datasetComplete"`
}

// RedisConfig holds Redis connection parameters for the redis sink.
type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	PoolSize  int           `yaml:"poolSize"`
	KeyPrefix string        `yaml:"keyPrefix"`
	TTL       time.Duration `yaml:"ttl"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus textfile written at the end of a run.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Textfile string `yaml:"textfile"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. Missing values keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.IOf(err, "reading config file %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing config file %s: %v", apperrors.ErrConfiguration, path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Default returns a Config populated with the stock selection band and local
// development connection settings.
func Default() *Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Config{
		Pipeline: PipelineConfig{
			LowerPercentile: 0.01,
			UpperPercentile: 0.59,
			Stemmer:         "porter",
			TrainRelation:   "email-filter-train",
			TestRelation:    "email-filter-test",
		},
		Output: OutputConfig{
			TrainDir:     cwd,
			TestDir:      cwd,
			Sinks:        []string{SinkFile},
			WriteTimeout: 30 * time.Second,
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "mailfilter",
			User:            "mailfilter",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topics: KafkaTopics{
				DatasetComplete: "dataset.complete",
			},
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			PoolSize:  4,
			KeyPrefix: "mailfilter",
			TTL:       24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that both corpora are given and exist, and that every sink
// is known and has its connection settings. Percentile bounds are checked
// by the selection package.
func (c *Config) Validate() error {
	if c.Input.TrainPath == "" {
		return apperrors.New(apperrors.ErrConfiguration, apperrors.ExitConfiguration, "training corpus path is required")
	}
	if c.Input.TestPath == "" {
		return apperrors.New(apperrors.ErrConfiguration, apperrors.ExitConfiguration, "test corpus path is required")
	}
	for _, p := range []string{c.Input.TrainPath, c.Input.TestPath} {
		info, err := os.Stat(p)
		if err != nil {
			return apperrors.Newf(apperrors.ErrConfiguration, apperrors.ExitConfiguration, "corpus path %s: %v", p, err)
		}
		if !info.Mode().IsRegular() && !info.IsDir() {
			return apperrors.Newf(apperrors.ErrConfiguration, apperrors.ExitConfiguration, "corpus path %s is neither a file nor a directory", p)
		}
	}
	if c.Input.StopWordsPath != "" {
		if _, err := os.Stat(c.Input.StopWordsPath); err != nil {
			return apperrors.Newf(apperrors.ErrConfiguration, apperrors.ExitConfiguration, "stop-words path %s: %v", c.Input.StopWordsPath, err)
		}
	}
	if len(c.Output.Sinks) == 0 {
		return apperrors.New(apperrors.ErrConfiguration, apperrors.ExitConfiguration, "at least one output sink is required")
	}
	for _, s := range c.Output.Sinks {
		switch s {
		case SinkFile, SinkRedis, SinkPostgres:
		default:
			return apperrors.Newf(apperrors.ErrConfiguration, apperrors.ExitConfiguration, "unknown sink %q", s)
		}
	}
	if c.HasSink(SinkRedis) && c.Redis.Addr == "" {
		return apperrors.New(apperrors.ErrConfiguration, apperrors.ExitConfiguration, "redis sink enabled without redis.addr")
	}
	if c.HasSink(SinkPostgres) && (c.Postgres.Host == "" || c.Postgres.Database == "") {
		return apperrors.New(apperrors.ErrConfiguration, apperrors.ExitConfiguration, "postgres sink enabled without postgres.host and postgres.database")
	}
	return nil
}

// HasSink reports whether the named sink is enabled.
func (c *Config) HasSink(name string) bool {
	for _, s := range c.Output.Sinks {
		if s == name {
			return true
		}
	}
	return false
}

// applyEnvOverrides reads MF_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MF_LOWER_PERCENTILE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Pipeline.LowerPercentile = f
		}
	}
	if v := os.Getenv("MF_UPPER_PERCENTILE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Pipeline.UpperPercentile = f
		}
	}
	if v := os.Getenv("MF_STEMMER"); v != "" {
		cfg.Pipeline.Stemmer = v
	}
	if v := os.Getenv("MF_OUTPUT_SINKS"); v != "" {
		cfg.Output.Sinks = strings.Split(v, ",")
	}
	if v := os.Getenv("MF_OUTPUT_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Output.WriteTimeout = d
		}
	}
	if v := os.Getenv("MF_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("MF_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("MF_POSTGRES_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("MF_POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("MF_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("MF_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("MF_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("MF_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("MF_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MF_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("MF_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Textfile = v
	}
}
