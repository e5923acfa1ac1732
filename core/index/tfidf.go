package index

import (
	"errors"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// Vectorizer bounds.
const (
	maxFeatures   = 5000
	minDocFreq    = 2    // terms in fewer documents are noise
	maxDocShare   = 0.95 // terms in nearly every document carry no signal
	minSimilarity = 0.1  // hits at or below this are dropped, not zero-padded
)

// TFIDF answers similarity queries over a growable document corpus.
// Every BuildIndex call refits the vocabulary over the entire corpus so
// vectors stay comparable when documents arrive in batches. Terms are
// unigrams and bigrams with inverse-document-frequency weighting and
// unit-length vectors, which makes cosine similarity a plain dot product.
type TFIDF struct {
	mu      sync.RWMutex
	docs    []schema.Document
	byID    map[string]int
	vocab   map[string]int
	idf     []float64
	vectors []map[int]float64 // unit length, sparse by vocabulary column
}

var _ contract.Indexer = (*TFIDF)(nil)

// NewTFIDF returns an empty TF-IDF indexer.
func NewTFIDF() *TFIDF {
	return &TFIDF{byID: map[string]int{}}
}

// BuildIndex appends documents to the corpus and refits. A document whose
// id is already present replaces the earlier copy, so reindexing a
// refetched batch is idempotent. An empty vocabulary after pruning is an
// error; the caller decides whether that degrades or aborts.
func (t *TFIDF) BuildIndex(docs []schema.Document) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, doc := range docs {
		if i, ok := t.byID[doc.ID]; ok {
			t.docs[i] = doc
			continue
		}
		t.byID[doc.ID] = len(t.docs)
		t.docs = append(t.docs, doc)
	}
	return t.refit()
}

// refit rebuilds the vocabulary, idf weights and document vectors.
// Callers must hold the write lock.
func (t *TFIDF) refit() error {
	tokenized := make([][]string, len(t.docs))
	for i, doc := range t.docs {
		tokenized[i] = tokenize(doc.Content)
	}

	// Document frequency gates the vocabulary, corpus frequency ranks it.
	df := map[string]int{}
	cf := map[string]int{}
	for _, terms := range tokenized {
		seen := map[string]bool{}
		for _, term := range terms {
			cf[term]++
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	n := len(t.docs)
	dfCeiling := maxDocShare * float64(n)
	kept := make([]string, 0, len(df))
	for term, count := range df {
		if count < minDocFreq || float64(count) > dfCeiling {
			continue
		}
		kept = append(kept, term)
	}
	sort.Slice(kept, func(i, j int) bool {
		if cf[kept[i]] != cf[kept[j]] {
			return cf[kept[i]] > cf[kept[j]]
		}
		return kept[i] < kept[j]
	})
	if len(kept) > maxFeatures {
		kept = kept[:maxFeatures]
	}
	if len(kept) == 0 {
		t.vocab, t.idf, t.vectors = nil, nil, nil
		return errors.New("empty vocabulary, every term was pruned")
	}
	sort.Strings(kept)

	vocab := make(map[string]int, len(kept))
	idf := make([]float64, len(kept))
	for i, term := range kept {
		vocab[term] = i
		idf[i] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	vectors := make([]map[int]float64, n)
	for i, terms := range tokenized {
		vectors[i] = vectorize(terms, vocab, idf)
	}

	t.vocab, t.idf, t.vectors = vocab, idf, vectors
	return nil
}

// Search returns up to topK documents with cosine similarity above the
// floor, best first. An empty or unfitted corpus yields no results
// rather than an error.
func (t *TFIDF) Search(query string, topK int) ([]schema.SearchResult, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.docs) == 0 || t.vocab == nil {
		return []schema.SearchResult{}, nil
	}
	qvec := vectorize(tokenize(CleanText(query)), t.vocab, t.idf)

	type hit struct {
		idx int
		sim float64
	}
	hits := make([]hit, 0, len(t.vectors))
	for i, dvec := range t.vectors {
		if sim := dot(qvec, dvec); sim > minSimilarity {
			hits = append(hits, hit{idx: i, sim: sim})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].sim != hits[j].sim {
			return hits[i].sim > hits[j].sim
		}
		return hits[i].idx < hits[j].idx
	})
	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}

	results := make([]schema.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = schema.SearchResult{Document: t.docs[h.idx], Similarity: h.sim}
	}
	return results, nil
}

// FindSimilarWork oversizes a search and splits the hits into the
// author's own documents and related work by others, each capped at topK.
func (t *TFIDF) FindSimilarWork(query, author string, topK int) (*schema.SimilarWork, error) {
	results, err := t.Search(query, topK*2)
	if err != nil {
		return nil, err
	}

	work := &schema.SimilarWork{}
	for _, r := range results {
		if r.Document.Author == author {
			if len(work.Own) < topK {
				work.Own = append(work.Own, r)
			}
		} else if len(work.Others) < topK {
			work.Others = append(work.Others, r)
		}
	}
	return work, nil
}

// DocumentsByAuthor returns the indexed documents authored by one engineer.
func (t *TFIDF) DocumentsByAuthor(author string) []schema.Document {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var docs []schema.Document
	for _, doc := range t.docs {
		if doc.Author == author {
			docs = append(docs, doc)
		}
	}
	return docs
}

// Stats summarizes the corpus by source, kind and author.
func (t *TFIDF) Stats() *schema.DocumentStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := &schema.DocumentStats{
		TotalDocuments: len(t.docs),
		BySource:       map[schema.DocumentSource]int{},
		ByKind:         map[schema.DocumentKind]int{},
		ByAuthor:       map[string]int{},
	}
	for _, doc := range t.docs {
		stats.BySource[doc.Source]++
		stats.ByKind[doc.Kind]++
		stats.ByAuthor[doc.Author]++
	}
	return stats
}

// tokenize splits cleaned text into unigram and bigram terms. Stopwords
// and single characters drop out before bigrams form.
func tokenize(content string) []string {
	fields := strings.Fields(content)
	words := make([]string, 0, len(fields))
	for _, w := range fields {
		if len(w) < 2 || stopwords[w] {
			continue
		}
		words = append(words, w)
	}

	terms := make([]string, 0, len(words)*2)
	terms = append(terms, words...)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}
	return terms
}

// vectorize maps a token stream onto the fitted vocabulary and returns a
// unit-length sparse vector. Out-of-vocabulary terms are skipped.
func vectorize(terms []string, vocab map[string]int, idf []float64) map[int]float64 {
	vec := map[int]float64{}
	for _, term := range terms {
		if col, ok := vocab[term]; ok {
			vec[col]++
		}
	}

	var norm float64
	for col := range vec {
		vec[col] *= idf[col]
		norm += vec[col] * vec[col]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for col := range vec {
			vec[col] /= norm
		}
	}
	return vec
}

// dot multiplies two sparse vectors, iterating the smaller one.
func dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for col, v := range a {
		if w, ok := b[col]; ok {
			sum += v * w
		}
	}
	return sum
}
