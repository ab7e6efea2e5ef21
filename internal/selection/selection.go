// Package selection trims a training index to the terms whose document
// frequency falls inside a percentile band of the corpus size.
package selection

import (
	"math"

	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/logger"
)

// Result describes one selection pass.
type Result struct {
	Vocabulary    []string
	MinDocFreq    int
	MaxDocFreq    int
	DocumentCount int
	Removed       int
}

// ValidatePercentiles enforces 0 <= lower < upper <= 1.
func ValidatePercentiles(lower, upper float64) error {
	if math.IsNaN(lower) || math.IsNaN(upper) || lower < 0 || upper > 1 || lower >= upper {
		return apperrors.Newf(apperrors.ErrInvalidPercentileRange, apperrors.ExitConfiguration,
			"need 0 <= lower < upper <= 1, got lower=%v upper=%v", lower, upper)
	}
	return nil
}

// Bounds converts percentiles to document-frequency thresholds for a corpus
// of n documents.
func Bounds(lower, upper float64, n int) (minDF, maxDF int) {
	return int(math.Floor(lower * float64(n))), int(math.Floor(upper * float64(n)))
}

// SelectVocabulary trims ix in place and returns the retained vocabulary in
// case-insensitive order. It fails with ErrEmptyVocabulary when nothing
// survives, which includes an index with no documents.
func SelectVocabulary(ix *index.InvertedIndex, lower, upper float64) (Result, error) {
	if err := ValidatePercentiles(lower, upper); err != nil {
		return Result{}, err
	}
	n := ix.DocumentCount()
	minDF, maxDF := Bounds(lower, upper, n)
	removed := ix.TrimToBand(minDF, maxDF)
	res := Result{
		Vocabulary:    ix.Vocabulary(),
		MinDocFreq:    minDF,
		MaxDocFreq:    maxDF,
		DocumentCount: n,
		Removed:       removed,
	}
	logger.WithComponent("selection").Info("vocabulary selected",
		"documents", n,
		"min_doc_freq", minDF,
		"max_doc_freq", maxDF,
		"removed", removed,
		"retained", len(res.Vocabulary),
	)
	if len(res.Vocabulary) == 0 {
		return res, apperrors.Newf(apperrors.ErrEmptyVocabulary, apperrors.ExitEmpty,
			"no term has document frequency in [%d, %d] over %d documents (lower=%v upper=%v)",
			minDF, maxDF, n, lower, upper)
	}
	return res, nil
}
