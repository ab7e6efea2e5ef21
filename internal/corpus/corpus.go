// Package corpus discovers input documents and reads them as ISO-8859-1 text
// so that arbitrary bytes never fail decoding.
package corpus

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"

	apperrors "github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/errors"
)

// Document is one input file, identified by its base name.
type Document struct {
	ID   string
	Path string
}

// Discover lists the documents under path. A regular file is a corpus of one
// document; for a directory every regular file directly inside it is a
// document, ordered by name. Symbolic links and subdirectories are skipped.
func Discover(path string) ([]Document, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, apperrors.IOf(err, "inspecting corpus %s", path)
	}
	if info.Mode().IsRegular() {
		return []Document{{ID: filepath.Base(path), Path: path}}, nil
	}
	if !info.IsDir() {
		return nil, apperrors.IOf(os.ErrInvalid, "corpus %s is neither a file nor a directory", path)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, apperrors.IOf(err, "listing corpus %s", path)
	}
	docs := make([]Document, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		docs = append(docs, Document{
			ID:   entry.Name(),
			Path: filepath.Join(path, entry.Name()),
		})
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// ReadLines loads the whole document and returns its lines decoded from
// ISO-8859-1.
func ReadLines(doc Document) ([]string, error) {
	raw, err := os.ReadFile(doc.Path)
	if err != nil {
		return nil, apperrors.IOf(err, "reading document %s", doc.Path)
	}
	return DecodeLines(raw)
}

// DecodeLines decodes raw ISO-8859-1 bytes and splits them on \n, \r\n or \r.
func DecodeLines(raw []byte) ([]string, error) {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, err
	}
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(decoded))
	scanner.Buffer(make([]byte, 0, 64*1024), len(decoded)+1)
	scanner.Split(scanLines)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// scanLines is bufio.ScanLines extended to treat a lone \r as a terminator.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\r' {
			if i+1 < len(data) {
				if data[i+1] == '\n' {
					return i + 2, data[:i], nil
				}
				return i + 1, data[:i], nil
			}
			if !atEOF {
				return 0, nil, nil
			}
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// IsHam reports whether a document id carries the ham marker.
func IsHam(docID string) bool {
	return strings.Contains(strings.ToLower(docID), "ham")
}
