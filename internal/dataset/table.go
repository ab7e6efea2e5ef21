// Package dataset builds the per-document TF-IDF feature table from an
// inverted index and a selected vocabulary.
package dataset

import (
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/corpus"
)

// Label is the class of a document.
type Label int

const (
	Spam Label = iota
	Ham
)

func (l Label) String() string {
	if l == Ham {
		return "H"
	}
	return "S"
}

// LabelFor derives the class from the document id: ids containing "ham"
// (any case) are ham, everything else is spam.
func LabelFor(docID string) Label {
	if corpus.IsHam(docID) {
		return Ham
	}
	return Spam
}

// FeatureRow holds one document's weights, aligned with the table's
// attributes, and its class.
type FeatureRow struct {
	DocID   string
	Weights []float64
	Label   Label
}

// FeatureTable is an append-only list of rows sharing one attribute list.
type FeatureTable struct {
	Relation   string
	Attributes []string
	Rows       []FeatureRow

	// Selected terms that the indexed corpus never contained.
	MissingTerms []string
}

func NewFeatureTable(relation string, attributes []string) *FeatureTable {
	attrs := make([]string, len(attributes))
	copy(attrs, attributes)
	return &FeatureTable{
		Relation:   relation,
		Attributes: attrs,
	}
}

// Append adds row, which must carry one weight per attribute.
func (t *FeatureTable) Append(row FeatureRow) error {
	if len(row.Weights) != len(t.Attributes) {
		return fmt.Errorf("row %s has %d weights, table has %d attributes", row.DocID, len(row.Weights), len(t.Attributes))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// LabelCounts returns the number of ham and spam rows.
func (t *FeatureTable) LabelCounts() (ham, spam int) {
	for _, row := range t.Rows {
		if row.Label == Ham {
			ham++
		} else {
			spam++
		}
	}
	return ham, spam
}
