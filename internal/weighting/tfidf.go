// Package weighting computes TF-IDF feature weights.
package weighting

import (
	"math"

	apperrors "github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/errors"
)

// TFIDF returns (tf / maxTotal) * ln(documents / df).
//
// tf is the term's count in the document, df its document frequency,
// maxTotal the largest total frequency of any term in the index and
// documents the corpus size. Inputs that would divide by zero or produce a
// non-finite weight yield ErrDegenerateTerm.
func TFIDF(tf, df, maxTotal, documents int) (float64, error) {
	if df <= 0 || maxTotal <= 0 || documents <= 0 {
		return 0, apperrors.Newf(apperrors.ErrDegenerateTerm, apperrors.ExitDegenerate,
			"tf=%d df=%d max_total=%d documents=%d", tf, df, maxTotal, documents)
	}
	termFreq := float64(tf) / float64(maxTotal)
	idf := math.Log(float64(documents) / float64(df))
	weight := termFreq * idf
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return 0, apperrors.Newf(apperrors.ErrDegenerateTerm, apperrors.ExitDegenerate,
			"non-finite weight for tf=%d df=%d max_total=%d documents=%d", tf, df, maxTotal, documents)
	}
	return weight, nil
}
