package schema

import "time"

// Document is one text-bearing record admitted into the search index.
// The ID is derived from source and native id, so re-indexing the same
// record always produces the same document.
type Document struct {
	ID        string         `json:"id"`
	Source    DocumentSource `json:"source"`
	Kind      DocumentKind   `json:"kind"`
	Author    string         `json:"author"`
	Title     string         `json:"title"`
	Content   string         `json:"content"` // cleaned, lowercased text
	URL       string         `json:"url"`
	CreatedAt time.Time      `json:"created_at"`
}

// SearchResult is one ranked hit from the index.
type SearchResult struct {
	Document   Document `json:"document"`
	Similarity float64  `json:"similarity"`
}

// SimilarWork partitions search hits into the requesting engineer's own
// documents and related documents by other people.
type SimilarWork struct {
	Own    []SearchResult `json:"own"`
	Others []SearchResult `json:"others"`
}

// DocumentStats summarizes an index or document store.
type DocumentStats struct {
	TotalDocuments int                    `json:"total_documents"`
	BySource       map[DocumentSource]int `json:"by_source"`
	ByKind         map[DocumentKind]int   `json:"by_kind"`
	ByAuthor       map[string]int         `json:"by_author"`
}
