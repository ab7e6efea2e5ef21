package sink

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"

	"github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/metrics"
)

func artifact(dir string) Artifact {
	return Artifact{
		RunID:   "run-1",
		Mode:    "train",
		Name:    "train.arff",
		Dir:     dir,
		Content: "@Relation r\n@Data",
	}
}

func TestFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	s := NewFileSink()
	if err := s.Write(context.Background(), artifact(dir)); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "train.arff"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "@Relation r\n@Data" {
		t.Errorf("content = %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "train.arff.tmp")); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestFileSinkUnwritable(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := NewFileSink().Write(context.Background(), artifact(filepath.Join(blocker, "sub")))
	if !errors.Is(err, apperrors.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
	ttl  time.Duration
	err  error
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = value.(string)
	f.ttl = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisSink(t *testing.T) {
	fake := &fakeRedis{data: make(map[string]string)}
	s := newRedisSink(fake, "mailfilter", time.Hour)
	a := artifact("")
	if err := s.Write(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	key := "mailfilter:run-1:train:train.arff"
	if s.Key(a) != key {
		t.Errorf("Key = %q", s.Key(a))
	}
	if fake.data[key] != a.Content || fake.ttl != time.Hour {
		t.Errorf("stored %q ttl %v", fake.data[key], fake.ttl)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestRedisSinkError(t *testing.T) {
	fake := &fakeRedis{data: make(map[string]string), err: errors.New("READONLY")}
	err := newRedisSink(fake, "mailfilter", 0).Write(context.Background(), artifact(""))
	if !errors.Is(err, apperrors.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

type failingSink struct{}

func (failingSink) Name() string { return "failing" }
func (failingSink) Write(context.Context, Artifact) error { return errors.New("disk on fire") }
func (failingSink) Close() error { return nil }

func TestMulti(t *testing.T) {
	m := metrics.New()
	fake := &fakeRedis{data: make(map[string]string)}
	dir := t.TempDir()
	multi := NewMulti(m, NewFileSink(), newRedisSink(fake, "p", 0))

	if err := multi.Write(context.Background(), artifact(dir)); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "train.arff")); err != nil {
		t.Errorf("file sink not written: %v", err)
	}
	if len(fake.data) != 1 {
		t.Errorf("redis sink not written: %v", fake.data)
	}
	if got := testutil.ToFloat64(m.ArtifactsPublished.WithLabelValues("file", "ok")); got != 1 {
		t.Errorf("file ok count = %v", got)
	}

	failing := NewMulti(m, NewFileSink(), failingSink{})
	if err := failing.Write(context.Background(), artifact(dir)); err == nil {
		t.Fatal("expected error from failing sink")
	}
	if got := testutil.ToFloat64(m.ArtifactsPublished.WithLabelValues("failing", "error")); got != 1 {
		t.Errorf("failing error count = %v", got)
	}
	if err := multi.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

type slowSink struct{}

func (slowSink) Name() string { return "slow" }
func (slowSink) Write(ctx context.Context, _ Artifact) error {
	<-ctx.Done()
	time.Sleep(20 * time.Millisecond)
	return ctx.Err()
}
func (slowSink) Close() error { return nil }

func TestMultiWriteTimeout(t *testing.T) {
	m := metrics.New()
	multi := NewMulti(m, slowSink{})
	multi.SetWriteTimeout(10 * time.Millisecond)

	err := multi.Write(context.Background(), artifact(t.TempDir()))
	if !errors.Is(err, apperrors.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if got := testutil.ToFloat64(m.ArtifactsPublished.WithLabelValues("slow", "error")); got != 1 {
		t.Errorf("slow error count = %v", got)
	}
}

func TestFromConfigFileOnly(t *testing.T) {
	cfg := config.Default()
	multi, err := FromConfig(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(multi.sinks) != 1 || multi.sinks[0].Name() != "file" {
		t.Errorf("sinks = %v", multi.sinks)
	}
	if multi.writeTimeout != cfg.Output.WriteTimeout {
		t.Errorf("write timeout = %v", multi.writeTimeout)
	}

	cfg.Output.Sinks = []string{"ftp"}
	if _, err := FromConfig(cfg, nil); !errors.Is(err, apperrors.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestPostgresSink(t *testing.T) {
	host := os.Getenv("TEST_POSTGRES_HOST")
	if host == "" {
		t.Skip("skipping: TEST_POSTGRES_HOST not set")
	}
	cfg := config.Default().Postgres
	cfg.Host = host
	s, err := NewPostgresSink(cfg)
	if err != nil {
		t.Skipf("skipping: postgres unavailable: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	a := artifact("")
	a.RunID = "test-" + time.Now().Format("150405.000000")
	if err := s.Write(ctx, a); err != nil {
		t.Fatal(err)
	}
	var got string
	err = s.db.QueryRowContext(ctx,
		`SELECT content FROM feature_artifacts WHERE run_id = $1 AND mode = $2 AND name = $3`,
		a.RunID, a.Mode, a.Name,
	).Scan(&got)
	if err != nil {
		t.Fatal(err)
	}
	if got != a.Content {
		t.Errorf("content = %q", got)
	}
}
