package weighting

import (
	"errors"
	"math"
	"testing"

	apperrors "github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/errors"
)

func TestTFIDF(t *testing.T) {
	tests := []struct {
		name                    string
		tf, df, maxTotal, nDocs int
		want                    float64
	}{
		{"in every document", 1, 4, 4, 4, 0},
		{"absent from document", 0, 1, 3, 2, 0},
		{"half the corpus", 2, 1, 3, 2, 2.0 / 3.0 * math.Ln2},
		{"rare term", 1, 1, 1, 10, math.Log(10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TFIDF(tt.tf, tt.df, tt.maxTotal, tt.nDocs)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("TFIDF = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTFIDFDegenerate(t *testing.T) {
	tests := []struct {
		name                    string
		tf, df, maxTotal, nDocs int
	}{
		{"zero document frequency", 1, 0, 3, 2},
		{"zero max total", 1, 1, 0, 2},
		{"no documents", 1, 1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TFIDF(tt.tf, tt.df, tt.maxTotal, tt.nDocs)
			if !errors.Is(err, apperrors.ErrDegenerateTerm) {
				t.Errorf("expected ErrDegenerateTerm, got %v", err)
			}
		})
	}
}
