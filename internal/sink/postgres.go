package sink

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/errors"
)

const createArtifactsTable = `
CREATE TABLE IF NOT EXISTS feature_artifacts (
	run_id     TEXT        NOT NULL,
	mode       TEXT        NOT NULL,
	name       TEXT        NOT NULL,
	content    TEXT        NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (run_id, mode, name)
)`

const upsertArtifact = `
INSERT INTO feature_artifacts (run_id, mode, name, content)
VALUES ($1, $2, $3, $4)
ON CONFLICT (run_id, mode, name) DO UPDATE SET content = EXCLUDED.content, created_at = now()`

// PostgresSink stores each artifact as a row of feature_artifacts.
type PostgresSink struct {
	db *sql.DB
}

// NewPostgresSink opens a pool, pings it and makes sure the artifacts table
// exists.
func NewPostgresSink(cfg config.PostgresConfig) (*PostgresSink, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	if _, err := db.ExecContext(ctx, createArtifactsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating feature_artifacts table: %w", err)
	}
	return &PostgresSink{db: db}, nil
}

func (*PostgresSink) Name() string {
	return "postgres"
}

func (s *PostgresSink) Write(ctx context.Context, a Artifact) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, upsertArtifact, a.RunID, a.Mode, a.Name, a.Content)
		return err
	})
	if err != nil {
		return apperrors.IOf(err, "storing artifact %s/%s", a.Mode, a.Name)
	}
	return nil
}

func (s *PostgresSink) Close() error {
	return s.db.Close()
}

func (s *PostgresSink) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back transaction after error %v: %w", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
