// Package tokenizer turns document text into index terms. It splits on
// anything that is not an ASCII letter, lower-cases, stems, drops stop-words
// and records every accepted term in the inverted index.
package tokenizer

import (
	"log/slog"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/index"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/stemmer"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/stopwords"
	"github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/logger"
)

// Token represents a single accepted term and its position among the
// accepted terms of its document.
type Token struct {
	Term     string
	Position int
}

type Tokenizer struct {
	index     *index.InvertedIndex
	stemmer   stemmer.Stemmer
	stopWords stopwords.Set
	logger    *slog.Logger
}

// New binds a tokenizer to the index it populates. A nil stop-word set
// filters nothing.
func New(ix *index.InvertedIndex, s stemmer.Stemmer, stop stopwords.Set) *Tokenizer {
	if stop == nil {
		stop = stopwords.New()
	}
	return &Tokenizer{
		index:     ix,
		stemmer:   s,
		stopWords: stop,
		logger:    logger.WithComponent("tokenizer"),
	}
}

// TokenizeDocument registers docID, records one occurrence per accepted term
// in order of appearance and returns the accepted tokens.
func (t *Tokenizer) TokenizeDocument(docID string, lines []string) []Token {
	t.index.AddDocument(docID)
	tokens := make([]Token, 0, len(lines)*8)
	for _, line := range lines {
		for _, word := range Split(line) {
			term := t.stemmer.Stem(strings.ToLower(word))
			if strings.TrimSpace(term) == "" {
				continue
			}
			// Matched against the stemmed form.
			if t.stopWords.Contains(term) {
				continue
			}
			t.index.RecordOccurrence(term, docID)
			tokens = append(tokens, Token{
				Term:     term,
				Position: len(tokens),
			})
		}
	}
	t.logger.Debug("document tokenized",
		"doc_id", docID,
		"token_count", len(tokens),
	)
	return tokens
}

// Split breaks line into runs of ASCII letters. Every other character,
// including non-ASCII letters, is a separator.
func Split(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return !isASCIILetter(r)
	})
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
