package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pipeline.LowerPercentile != 0.01 || cfg.Pipeline.UpperPercentile != 0.59 {
		t.Errorf("percentiles = %v/%v", cfg.Pipeline.LowerPercentile, cfg.Pipeline.UpperPercentile)
	}
	if cfg.Pipeline.Stemmer != "porter" {
		t.Errorf("stemmer = %q", cfg.Pipeline.Stemmer)
	}
	if !cfg.HasSink(SinkFile) || cfg.HasSink(SinkRedis) {
		t.Errorf("sinks = %v", cfg.Output.Sinks)
	}
}

func TestLoadYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	yml := []byte(`
pipeline:
  lowerPercentile: 0.05
  upperPercentile: 0.5
  stemmer: snowball
output:
  sinks: [file, redis]
redis:
  ttl: 1h
`)
	if err := os.WriteFile(path, yml, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MF_UPPER_PERCENTILE", "0.7")
	t.Setenv("MF_LOGGING_FORMAT", "json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pipeline.LowerPercentile != 0.05 {
		t.Errorf("lower = %v", cfg.Pipeline.LowerPercentile)
	}
	if cfg.Pipeline.UpperPercentile != 0.7 {
		t.Errorf("upper = %v, want env override", cfg.Pipeline.UpperPercentile)
	}
	if cfg.Pipeline.Stemmer != "snowball" || !cfg.HasSink(SinkRedis) {
		t.Errorf("unexpected pipeline/sinks: %+v %v", cfg.Pipeline, cfg.Output.Sinks)
	}
	if cfg.Redis.TTL.Hours() != 1 {
		t.Errorf("ttl = %v", cfg.Redis.TTL)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("format = %q", cfg.Logging.Format)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, apperrors.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "mail-ham.txt")
	if err := os.WriteFile(file, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"missing train", func(c *Config) { c.Input.TrainPath = "" }, false},
		{"missing test", func(c *Config) { c.Input.TestPath = "" }, false},
		{"nonexistent train", func(c *Config) { c.Input.TrainPath = filepath.Join(dir, "nope") }, false},
		{"nonexistent stop words", func(c *Config) { c.Input.StopWordsPath = filepath.Join(dir, "nope") }, false},
		{"no sinks", func(c *Config) { c.Output.Sinks = nil }, false},
		{"unknown sink", func(c *Config) { c.Output.Sinks = []string{"s3"} }, false},
		{"redis sink", func(c *Config) { c.Output.Sinks = []string{SinkFile, SinkRedis} }, true},
		{"redis sink without addr", func(c *Config) {
			c.Output.Sinks = []string{SinkRedis}
			c.Redis.Addr = ""
		}, false},
		{"postgres sink without host", func(c *Config) {
			c.Output.Sinks = []string{SinkPostgres}
			c.Postgres.Host = ""
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Input.TrainPath = dir
			cfg.Input.TestPath = file
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, apperrors.ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	dsn := Default().Postgres.DSN()
	want := "host=localhost port=5432 user=mailfilter password=localdev dbname=mailfilter sslmode=disable"
	if dsn != want {
		t.Errorf("DSN() = %q", dsn)
	}
}

func TestLoadDevelopmentConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "development.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.WriteTimeout != 30*time.Second {
		t.Errorf("write timeout = %v", cfg.Output.WriteTimeout)
	}
	if cfg.Redis.TTL != 24*time.Hour || cfg.Postgres.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("durations = %v/%v", cfg.Redis.TTL, cfg.Postgres.ConnMaxLifetime)
	}
	if cfg.Kafka.Enabled || cfg.Kafka.Topics.DatasetComplete != "dataset.complete" {
		t.Errorf("kafka = %+v", cfg.Kafka)
	}
	if !cfg.Metrics.Enabled || cfg.Logging.Format != "json" {
		t.Errorf("metrics/logging = %+v %+v", cfg.Metrics, cfg.Logging)
	}
}
