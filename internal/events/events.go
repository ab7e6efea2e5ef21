// Package events announces finished runs on Kafka so downstream training
// jobs can pick up fresh datasets.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/logger"
)

// ModeSummary describes the dataset produced by one mode.
type ModeSummary struct {
	Mode              string   `json:"mode"`
	Relation          string   `json:"relation"`
	Documents         int      `json:"documents"`
	Terms             int      `json:"terms"`
	Rows              int      `json:"rows"`
	HamRows           int      `json:"ham_rows"`
	SpamRows          int      `json:"spam_rows"`
	MissingTerms      int      `json:"missing_terms,omitempty"`
	MaxTotalFrequency int      `json:"max_total_frequency"`
	Artifacts         []string `json:"artifacts"`
}

// DatasetCompleted is published once per successful run.
type DatasetCompleted struct {
	RunID       string        `json:"run_id"`
	CompletedAt time.Time     `json:"completed_at"`
	Vocabulary  int           `json:"vocabulary_size"`
	Modes       []ModeSummary `json:"modes"`
}

type Publisher interface {
	Publish(ctx context.Context, event DatasetCompleted) error
	Close() error
}

// Nop discards events; it is used when Kafka is disabled.
type Nop struct{}

func (Nop) Publish(context.Context, DatasetCompleted) error { return nil }
func (Nop) Close() error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes each event as one JSON message keyed by run id.
type KafkaPublisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewKafkaPublisher creates a synchronous publisher for the dataset-complete
// topic. Writes are attempted once.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topics.DatasetComplete,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  1,
		RequiredAcks: kafka.RequireAll,
	}
	return newKafkaPublisher(w, cfg.Topics.DatasetComplete)
}

func newKafkaPublisher(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: w,
		logger: logger.WithComponent("events").With("topic", topic),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event DatasetCompleted) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.RunID),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish dataset event",
			"run_id", event.RunID,
			"error", err,
		)
		return apperrors.IOf(err, "publishing run %s", event.RunID)
	}
	p.logger.Debug("dataset event published",
		"run_id", event.RunID,
		"value_size", len(value),
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
