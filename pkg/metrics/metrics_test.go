package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewIsolatedRegistries(t *testing.T) {
	a := New()
	b := New()
	a.DocumentsIndexedTotal.WithLabelValues("train").Add(3)
	if got := testutil.ToFloat64(b.DocumentsIndexedTotal.WithLabelValues("train")); got != 0 {
		t.Errorf("registries share state: %v", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.DocumentsIndexedTotal.WithLabelValues("train").Add(2)
	m.VocabularySize.Set(3)
	m.ObserveStage("select", time.Now())

	path := filepath.Join(t.TempDir(), "mailfilter.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{
		`mailfilter_documents_indexed_total{mode="train"} 2`,
		"mailfilter_vocabulary_size 3",
		`mailfilter_stage_duration_seconds_count{stage="select"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("textfile missing %q:\n%s", want, text)
		}
	}
}
