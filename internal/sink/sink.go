// Package sink publishes run artifacts (ARFF datasets and index dumps) to
// one or more destinations.
package sink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/resilience"
)

// Artifact is one rendered output of a pipeline mode.
type Artifact struct {
	RunID   string
	Mode    string
	Name    string
	Dir     string
	Content string
}

type Sink interface {
	Name() string
	Write(ctx context.Context, a Artifact) error
	Close() error
}

// Multi writes every artifact to all of its sinks concurrently and fails if
// any of them fails. With a write timeout set, each sink write is bounded by
// it.
type Multi struct {
	sinks        []Sink
	metrics      *metrics.Metrics
	writeTimeout time.Duration
	logger       *slog.Logger
}

func NewMulti(m *metrics.Metrics, sinks ...Sink) *Multi {
	return &Multi{
		sinks:   sinks,
		metrics: m,
		logger:  logger.WithComponent("sink"),
	}
}

// SetWriteTimeout bounds every subsequent sink write. Zero disables it.
func (m *Multi) SetWriteTimeout(d time.Duration) {
	m.writeTimeout = d
}

func (m *Multi) Name() string {
	return "multi"
}

func (m *Multi) Write(ctx context.Context, a Artifact) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range m.sinks {
		s := s
		g.Go(func() error {
			err := resilience.WithDeadline(gctx, m.writeTimeout, "write "+a.Name, func(ctx context.Context) error {
				return s.Write(ctx, a)
			})
			if err != nil {
				m.record(s.Name(), "error")
				return fmt.Errorf("sink %s: %w", s.Name(), err)
			}
			m.record(s.Name(), "ok")
			m.logger.Debug("artifact published",
				"sink", s.Name(),
				"mode", a.Mode,
				"artifact", a.Name,
				"bytes", len(a.Content),
			)
			return nil
		})
	}
	return g.Wait()
}

// Close closes every sink and returns the first error.
func (m *Multi) Close() error {
	var first error
	for _, s := range m.sinks {
		s := s
		if err := s.Close(); err != nil {
			m.logger.Error("closing sink", "sink", s.Name(), "error", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func (m *Multi) record(sinkName, status string) {
	if m.metrics == nil {
		return
	}
	m.metrics.ArtifactsPublished.WithLabelValues(sinkName, status).Inc()
}
