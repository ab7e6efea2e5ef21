package dataset

import (
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/index"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/weighting"
	apperrors "github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/errors"
)

// Build emits one row per document of ix, in document id order, with a
// TF-IDF weight for every vocabulary term in the given order.
//
// Weights are normalised by the largest total frequency in ix itself, so a
// test index is normalised by its own statistics. A vocabulary term absent
// from ix weighs 0 in every row.
func Build(ix *index.InvertedIndex, vocabulary []string, relation string) (*FeatureTable, error) {
	if len(vocabulary) == 0 {
		return nil, apperrors.Newf(apperrors.ErrEmptyVocabulary, apperrors.ExitEmpty,
			"relation %s: no attributes to build", relation)
	}
	maxTotal, err := ix.MaxTotalFrequency()
	if err != nil {
		return nil, fmt.Errorf("relation %s over %d documents: %w", relation, ix.DocumentCount(), err)
	}
	documents := ix.DocumentCount()

	table := NewFeatureTable(relation, vocabulary)
	for _, term := range vocabulary {
		if !ix.Contains(term) {
			table.MissingTerms = append(table.MissingTerms, term)
		}
	}

	for _, doc := range ix.Documents() {
		weights := make([]float64, len(vocabulary))
		for i, term := range vocabulary {
			df := ix.DocumentFrequency(term)
			if df == 0 {
				continue
			}
			w, err := weighting.TFIDF(ix.FrequencyInDocument(term, doc), df, maxTotal, documents)
			if err != nil {
				return nil, fmt.Errorf("weighting %q in %s: %w", term, doc, err)
			}
			weights[i] = w
		}
		if err := table.Append(FeatureRow{
			DocID:   doc,
			Weights: weights,
			Label:   LabelFor(doc),
		}); err != nil {
			return nil, err
		}
	}
	return table, nil
}
