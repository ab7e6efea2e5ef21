package index

// Posting is the occurrence count of one term inside one document.
type Posting struct {
	DocID     string `json:"doc_id"`
	Frequency int    `json:"frequency"`
}

type PostingList []Posting

// TermEntry is a read-only view of a term's statistics, as produced by
// Snapshot.
type TermEntry struct {
	Term           string      `json:"term"`
	TotalFrequency int         `json:"total_frequency"`
	Postings       PostingList `json:"postings"`
}

// DocumentFrequency is the number of distinct documents in the entry.
func (e TermEntry) DocumentFrequency() int {
	return len(e.Postings)
}
