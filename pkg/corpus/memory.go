package corpus

import (
	"sync"
)

// Memory is an in-memory corpus. Documents are indexed as they are added:
// per-field document counts and per-term document frequencies are maintained
// incrementally, so frequency statistics are always current.
type Memory struct {
	mu        sync.RWMutex
	schema    *Schema
	docs      []*Document
	docCounts map[string]int
	termFreqs map[string]map[string]int
}

// NewMemory returns an empty corpus over the given schema.
func NewMemory(schema *Schema) *Memory {
	return &Memory{
		schema:    schema,
		docCounts: make(map[string]int),
		termFreqs: make(map[string]map[string]int),
	}
}

// Add indexes one document. Analyzed fields contribute each distinct token
// once to the term's document frequency, matching how document frequency is
// defined (documents containing the term, not raw occurrences).
func (m *Memory) Add(doc *Document) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs = append(m.docs, doc)
	for field, values := range doc.Fields {
		if len(values) == 0 {
			continue
		}
		m.docCounts[field]++

		analyzer, ok := m.schema.FieldAnalyzer(field)
		if !ok || analyzer == nil {
			continue
		}
		seen := make(map[string]struct{})
		for _, value := range values {
			for _, tok := range analyzer.Tokenize(field, value) {
				seen[tok] = struct{}{}
			}
		}
		freqs := m.termFreqs[field]
		if freqs == nil {
			freqs = make(map[string]int)
			m.termFreqs[field] = freqs
		}
		for tok := range seen {
			freqs[tok]++
		}
	}
}

// Len returns the total number of documents.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func (m *Memory) Schema() *Schema { return m.schema }

func (m *Memory) DocCount(field string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.docCounts[field]
}

func (m *Memory) TermDocFreq(field, term string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.termFreqs[field][term]
}

func (m *Memory) TermDictionary(field string, minDocFreq int) []TermCount {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []TermCount
	for term, count := range m.termFreqs[field] {
		if count >= minDocFreq {
			out = append(out, TermCount{Term: term, Count: count})
		}
	}
	return out
}

func (m *Memory) Iterate(filter Filter, fn func(doc *Document) error) error {
	m.mu.RLock()
	docs := m.docs
	m.mu.RUnlock()

	for _, doc := range docs {
		if filter != nil && !filter(doc) {
			continue
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	return nil
}
