package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"configuration", fmt.Errorf("loading: %w", ErrConfiguration), ExitConfiguration},
		{"percentiles", Newf(ErrInvalidPercentileRange, 0, "lower=%v upper=%v", 0.5, 0.2), ExitConfiguration},
		{"io", IOf(os.ErrNotExist, "reading %s", "x.txt"), ExitIO},
		{"empty index", ErrEmptyIndex, ExitEmpty},
		{"empty vocabulary", fmt.Errorf("train: %w", ErrEmptyVocabulary), ExitEmpty},
		{"degenerate", ErrDegenerateTerm, ExitDegenerate},
		{"explicit", New(ErrEmptyIndex, 9, "custom"), 9},
		{"other", errors.New("boom"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestIOfKeepsCause(t *testing.T) {
	err := IOf(os.ErrPermission, "writing %s", "/out/train.arff")
	if !errors.Is(err, ErrIO) {
		t.Error("expected ErrIO in chain")
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Error("expected cause in chain")
	}
}

func TestAppErrorMessage(t *testing.T) {
	err := New(ErrConfiguration, ExitConfiguration, "-t is required")
	if got := err.Error(); got != "configuration error: -t is required" {
		t.Errorf("Error() = %q", got)
	}
}
