package sink

import (
	"github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/metrics"
)

// FromConfig opens every sink named in cfg.Output.Sinks. Sinks opened before
// a failure are closed again.
func FromConfig(cfg *config.Config, m *metrics.Metrics) (*Multi, error) {
	var sinks []Sink
	closeAll := func() {
		for _, s := range sinks {
			s.Close()
		}
	}
	for _, name := range cfg.Output.Sinks {
		switch name {
		case config.SinkFile:
			sinks = append(sinks, NewFileSink())
		case config.SinkRedis:
			s, err := NewRedisSink(cfg.Redis)
			if err != nil {
				closeAll()
				return nil, apperrors.IOf(err, "opening redis sink")
			}
			sinks = append(sinks, s)
		case config.SinkPostgres:
			s, err := NewPostgresSink(cfg.Postgres)
			if err != nil {
				closeAll()
				return nil, apperrors.IOf(err, "opening postgres sink")
			}
			sinks = append(sinks, s)
		default:
			closeAll()
			return nil, apperrors.Newf(apperrors.ErrConfiguration, apperrors.ExitConfiguration, "unknown sink %q", name)
		}
	}
	multi := NewMulti(m, sinks...)
	multi.SetWriteTimeout(cfg.Output.WriteTimeout)
	return multi, nil
}
