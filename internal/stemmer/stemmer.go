// Package stemmer normalises a lower-cased word to its stem. Backends are
// interchangeable behind the Stemmer interface.
package stemmer

import (
	"fmt"

	"github.com/kljensen/snowball"
	porterstemmer "github.com/reiver/go-porterstemmer"

	apperrors "github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/errors"
)

const (
	Porter   = "porter"
	Snowball = "snowball"
	Suffix   = "suffix"
	None     = "none"
)

type Stemmer interface {
	Stem(word string) string
}

// Func adapts a plain function to the Stemmer interface.
type Func func(word string) string

func (f Func) Stem(word string) string {
	return f(word)
}

// New returns the stemmer registered under name.
func New(name string) (Stemmer, error) {
	switch name {
	case Porter, "":
		return PorterStemmer{}, nil
	case Snowball:
		return SnowballStemmer{Language: "english"}, nil
	case Suffix:
		return Func(stripSuffix), nil
	case None:
		return Func(func(word string) string { return word }), nil
	default:
		return nil, apperrors.Newf(apperrors.ErrConfiguration, apperrors.ExitConfiguration, "unknown stemmer %q", name)
	}
}

// PorterStemmer applies the original 1980 Porter algorithm. Words of two
// letters or fewer are returned unchanged, as the algorithm specifies.
type PorterStemmer struct{}

func (PorterStemmer) Stem(word string) (stemmed string) {
	if len(word) <= 2 {
		return word
	}
	// porterstemmer indexes before the word when step 1b strips "eed" from
	// an empty stem. Porter leaves the word as "eed" (m = 0).
	switch word {
	case "eed", "eeds":
		return "eed"
	}
	defer func() {
		if r := recover(); r != nil {
			stemmed = word
		}
	}()
	return porterstemmer.StemString(word)
}

// SnowballStemmer applies the Snowball (Porter2) algorithm for Language.
type SnowballStemmer struct {
	Language string
}

func (s SnowballStemmer) Stem(word string) string {
	stemmed, err := snowball.Stem(word, s.Language, true)
	if err != nil {
		return word
	}
	return stemmed
}

func (s SnowballStemmer) String() string {
	return fmt.Sprintf("snowball(%s)", s.Language)
}
