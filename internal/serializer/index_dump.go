package serializer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/mailfilter/internal/index"
)

// RenderIndex lists every (term, document, frequency) triple with a non-zero
// frequency as fixed-width columns. Lines are sorted by their rendered text.
func RenderIndex(ix *index.InvertedIndex) string {
	var lines []string
	for _, entry := range ix.Snapshot() {
		for _, p := range entry.Postings {
			if p.Frequency <= 0 {
				continue
			}
			lines = append(lines, fmt.Sprintf("%-20s %-20s %-20d %s", entry.Term, p.DocID, p.Frequency, lineSeparator))
		}
	}
	sort.Strings(lines)
	return strings.Join(lines, "")
}
