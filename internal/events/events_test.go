package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	apperrors "github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/errors"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestKafkaPublisher(t *testing.T) {
	w := &recordingWriter{}
	p := newKafkaPublisher(w, "dataset.complete")
	event := DatasetCompleted{
		RunID:       "run-7",
		CompletedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Vocabulary:  3,
		Modes: []ModeSummary{
			{Mode: "train", Relation: "email-filter-train", Documents: 2, Rows: 2, HamRows: 1, SpamRows: 1},
		},
	}
	if err := p.Publish(context.Background(), event); err != nil {
		t.Fatal(err)
	}
	if len(w.msgs) != 1 || string(w.msgs[0].Key) != "run-7" {
		t.Fatalf("messages = %+v", w.msgs)
	}
	var decoded DatasetCompleted
	if err := json.Unmarshal(w.msgs[0].Value, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Vocabulary != 3 || len(decoded.Modes) != 1 || decoded.Modes[0].HamRows != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestKafkaPublisherError(t *testing.T) {
	cause := errors.New("no brokers")
	p := newKafkaPublisher(&recordingWriter{err: cause}, "t")
	err := p.Publish(context.Background(), DatasetCompleted{RunID: "x"})
	if !errors.Is(err, apperrors.ErrIO) || !errors.Is(err, cause) {
		t.Fatalf("expected ErrIO wrapping the writer error, got %v", err)
	}
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.Publish(context.Background(), DatasetCompleted{}); err != nil {
		t.Fatal(err)
	}
}
