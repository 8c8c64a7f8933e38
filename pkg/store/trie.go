package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// suggestion is the trie payload: the original-case term and its weight.
type suggestion struct {
	term   string
	weight int64
}

// TrieStore is an in-memory Store backed by a patricia trie keyed by the
// lowercased term. Staged writes are held in a map and folded into the trie
// on Refresh, so concurrent lookups never observe a half-applied commit.
type TrieStore struct {
	mu         sync.RWMutex
	capability Capability
	trie       *patricia.Trie
	staged     map[string]*suggestion
	count      int
	closed     bool
}

// NewTrieStore returns an empty store with the given lookup capability.
func NewTrieStore(capability Capability) *TrieStore {
	return &TrieStore{
		capability: capability,
		trie:       patricia.NewTrie(),
		staged:     make(map[string]*suggestion),
	}
}

func (s *TrieStore) Capability() Capability { return s.capability }

func (s *TrieStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.trie = patricia.NewTrie()
	s.staged = make(map[string]*suggestion)
	s.count = 0
	return nil
}

func (s *TrieStore) AddDictionary(entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for _, e := range entries {
		s.staged[strings.ToLower(e.Term)] = &suggestion{term: e.Term, weight: e.Weight}
	}
	return nil
}

func (s *TrieStore) Update(term string, weight int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.staged[strings.ToLower(term)] = &suggestion{term: term, weight: weight}
	return nil
}

func (s *TrieStore) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for key, sug := range s.staged {
		prefix := patricia.Prefix(key)
		if s.trie.Get(prefix) == nil {
			s.count++
		}
		s.trie.Set(prefix, sug)
	}
	if len(s.staged) > 0 {
		log.Debugf("store refresh: %d staged, %d total", len(s.staged), s.count)
		s.staged = make(map[string]*suggestion)
	}
	return nil
}

func (s *TrieStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

func (s *TrieStore) Lookup(query string, count int, highlight bool) []Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed || count <= 0 {
		return nil
	}

	lowerQuery := strings.ToLower(query)
	var results []Result

	collect := func(p patricia.Prefix, item patricia.Item) error {
		sug := item.(*suggestion)
		r := Result{Term: sug.term, Weight: sug.weight}
		if highlight && s.capability == InfixWithHighlight {
			r.Highlighted = highlightMatch(sug.term, lowerQuery)
		}
		results = append(results, r)
		return nil
	}

	var err error
	if s.capability == InfixWithHighlight {
		err = s.trie.Visit(func(p patricia.Prefix, item patricia.Item) error {
			if !strings.Contains(string(p), lowerQuery) {
				return nil
			}
			return collect(p, item)
		})
	} else {
		err = s.trie.VisitSubtree(patricia.Prefix(lowerQuery), collect)
	}
	if err != nil {
		log.Errorf("store lookup %q: %v", query, err)
		return nil
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Weight != results[j].Weight {
			return results[i].Weight > results[j].Weight
		}
		return results[i].Term < results[j].Term
	})
	if len(results) > count {
		results = results[:count]
	}
	return results
}

// highlightMatch wraps the first case-insensitive occurrence of lowerQuery
// inside term with <b> tags. Returns "" when the match only exists in the
// lowercased key (should not happen for ASCII terms).
func highlightMatch(term, lowerQuery string) string {
	idx := strings.Index(strings.ToLower(term), lowerQuery)
	if idx < 0 {
		return ""
	}
	end := idx + len(lowerQuery)
	return term[:idx] + "<b>" + term[idx:end] + "</b>" + term[end:]
}

func (s *TrieStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.trie = patricia.NewTrie()
	s.staged = nil
	s.count = 0
	return nil
}
