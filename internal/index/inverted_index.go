// Package index implements the inverted index mapping each term to its
// per-document occurrence counts. An index is populated by a single writer
// and is read-only afterwards, so it carries no locking.
package index

import (
	"sort"

	apperrors "github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/errors"
)

type InvertedIndex struct {
	terms     map[string]*TermStatistics
	documents map[string]struct{}
}

func New() *InvertedIndex {
	return &InvertedIndex{
		terms:     make(map[string]*TermStatistics),
		documents: make(map[string]struct{}),
	}
}

// AddDocument registers docID as processed even if it contributes no terms.
func (ix *InvertedIndex) AddDocument(docID string) {
	ix.documents[docID] = struct{}{}
}

// RecordOccurrence registers one occurrence of term in docID.
func (ix *InvertedIndex) RecordOccurrence(term string, docID string) {
	stats, exists := ix.terms[term]
	if !exists {
		stats = newTermStatistics()
		ix.terms[term] = stats
	}
	stats.record(docID)
	ix.documents[docID] = struct{}{}
}

func (ix *InvertedIndex) Contains(term string) bool {
	_, ok := ix.terms[term]
	return ok
}

func (ix *InvertedIndex) DocumentFrequency(term string) int {
	if stats, ok := ix.terms[term]; ok {
		return stats.DocumentFrequency()
	}
	return 0
}

func (ix *InvertedIndex) TotalFrequency(term string) int {
	if stats, ok := ix.terms[term]; ok {
		return stats.TotalFrequency()
	}
	return 0
}

func (ix *InvertedIndex) FrequencyInDocument(term string, docID string) int {
	if stats, ok := ix.terms[term]; ok {
		return stats.FrequencyIn(docID)
	}
	return 0
}

// MaxTotalFrequency returns the largest total frequency among retained terms,
// or ErrEmptyIndex when none are retained.
func (ix *InvertedIndex) MaxTotalFrequency() (int, error) {
	if len(ix.terms) == 0 {
		return 0, apperrors.ErrEmptyIndex
	}
	highest := 0
	for _, stats := range ix.terms {
		if stats.total > highest {
			highest = stats.total
		}
	}
	return highest, nil
}

// MinTotalFrequency returns the smallest total frequency among retained terms,
// or ErrEmptyIndex when none are retained.
func (ix *InvertedIndex) MinTotalFrequency() (int, error) {
	if len(ix.terms) == 0 {
		return 0, apperrors.ErrEmptyIndex
	}
	lowest := -1
	for _, stats := range ix.terms {
		if lowest < 0 || stats.total < lowest {
			lowest = stats.total
		}
	}
	return lowest, nil
}

// InnerTerms lists the terms whose document frequency lies in [minDF, maxDF].
func (ix *InvertedIndex) InnerTerms(minDF, maxDF int) []string {
	return ix.filter(func(df int) bool { return df >= minDF && df <= maxDF })
}

// OuterTerms lists the terms whose document frequency lies outside
// [minDF, maxDF].
func (ix *InvertedIndex) OuterTerms(minDF, maxDF int) []string {
	return ix.filter(func(df int) bool { return df < minDF || df > maxDF })
}

// TrimToBand removes every term whose document frequency is outside
// [minDF, maxDF] and returns how many were removed. Documents are kept.
func (ix *InvertedIndex) TrimToBand(minDF, maxDF int) int {
	outer := ix.OuterTerms(minDF, maxDF)
	for _, term := range outer {
		delete(ix.terms, term)
	}
	return len(outer)
}

// Vocabulary returns the retained terms in case-insensitive order.
func (ix *InvertedIndex) Vocabulary() []string {
	return ix.filter(func(int) bool { return true })
}

func (ix *InvertedIndex) TermCount() int {
	return len(ix.terms)
}

func (ix *InvertedIndex) DocumentCount() int {
	return len(ix.documents)
}

// Documents returns the processed document ids in ascending order.
func (ix *InvertedIndex) Documents() []string {
	docs := make([]string, 0, len(ix.documents))
	for doc := range ix.documents {
		docs = append(docs, doc)
	}
	sort.Strings(docs)
	return docs
}

// Snapshot returns every retained term with its postings, terms in vocabulary
// order and postings by document id.
func (ix *InvertedIndex) Snapshot() []TermEntry {
	entries := make([]TermEntry, 0, len(ix.terms))
	for _, term := range ix.Vocabulary() {
		stats := ix.terms[term]
		postings := make(PostingList, 0, len(stats.perDocument))
		for docID, freq := range stats.perDocument {
			postings = append(postings, Posting{DocID: docID, Frequency: freq})
		}
		sort.Slice(postings, func(i, j int) bool {
			return postings[i].DocID < postings[j].DocID
		})
		entries = append(entries, TermEntry{
			Term:           term,
			TotalFrequency: stats.total,
			Postings:       postings,
		})
	}
	return entries
}

func (ix *InvertedIndex) filter(keep func(df int) bool) []string {
	terms := make([]string, 0, len(ix.terms))
	for term, stats := range ix.terms {
		if keep(stats.DocumentFrequency()) {
			terms = append(terms, term)
		}
	}
	SortTerms(terms)
	return terms
}
