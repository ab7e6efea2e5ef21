// Package stopwords loads the flat stop-word list consulted by the
// tokenizer.
package stopwords

import (
	"bufio"
	"io"
	"os"
	"strings"
	"unicode"

	apperrors "github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/errors"
)

type Set map[string]struct{}

func New(words ...string) Set {
	s := make(Set, len(words))
	for _, w := range words {
		s.Add(w)
	}
	return s
}

// Add inserts the lower-cased, trimmed word; blanks are ignored.
func (s Set) Add(word string) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return
	}
	s[word] = struct{}{}
}

func (s Set) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Parse reads words separated by commas, pipes, plus signs or whitespace.
func Parse(r io.Reader) (Set, error) {
	s := make(Set)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		for _, word := range strings.FieldsFunc(scanner.Text(), isSeparator) {
			s.Add(word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load parses the stop-word file at path.
func Load(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.IOf(err, "opening stop-words file %s", path)
	}
	defer f.Close()
	s, err := Parse(f)
	if err != nil {
		return nil, apperrors.IOf(err, "reading stop-words file %s", path)
	}
	return s, nil
}

func isSeparator(r rune) bool {
	return r == ',' || r == '|' || r == '+' || unicode.IsSpace(r)
}
