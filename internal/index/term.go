package index

import (
	"sort"
	"strings"
)

// TermStatistics tracks how often one term occurs, overall and per document.
// The total always equals the sum of the per-document counts.
type TermStatistics struct {
	perDocument map[string]int
	total       int
}

func newTermStatistics() *TermStatistics {
	return &TermStatistics{
		perDocument: make(map[string]int),
	}
}

func (s *TermStatistics) record(docID string) {
	s.total++
	s.perDocument[docID]++
}

// DocumentFrequency returns the number of distinct documents containing the
// term.
func (s *TermStatistics) DocumentFrequency() int {
	return len(s.perDocument)
}

func (s *TermStatistics) TotalFrequency() int {
	return s.total
}

// FrequencyIn returns the number of occurrences in docID, 0 when absent.
func (s *TermStatistics) FrequencyIn(docID string) int {
	return s.perDocument[docID]
}

// CompareTerms orders terms case-insensitively, falling back to byte order so
// the result is total.
func CompareTerms(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// SortTerms sorts terms in place using CompareTerms.
func SortTerms(terms []string) {
	sort.Slice(terms, func(i, j int) bool {
		return CompareTerms(terms[i], terms[j]) < 0
	})
}
