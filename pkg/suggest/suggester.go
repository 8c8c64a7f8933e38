/*
Package suggest implements a ranked autocomplete index drawn from multiple
weighted fields of a document corpus.

Each configured field contributes candidate strings in one of two modes:
analyzed terms of the field, weighted by estimated document frequency, or
verbatim stored values committed at the field's constant weight. Candidates
accumulate per field in concurrently writable pending batches; a commit swaps
each batch out atomically, converts counts into integer-scaled weights and
pushes them to the suggestion store. A full rebuild scans the corpus once for
stored values and feeds each term field's high-frequency dictionary into the
store; live document updates accumulate incrementally and are flushed by
periodic commits.
*/
package suggest

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/multisuggest/pkg/config"
	"github.com/bastiangx/multisuggest/pkg/corpus"
	"github.com/bastiangx/multisuggest/pkg/store"
)

// DefaultMaxSuggestionLength caps suggestion strings when the config does
// not say otherwise.
const DefaultMaxSuggestionLength = 80

// State is the rebuild lifecycle of a suggester.
type State int32

const (
	StateEmpty State = iota
	StateBuilding
	StateReady
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateBuilding:
		return "building"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// Suggestion is one ranked result returned to callers. Term carries the
// store's highlighted form when the store produced one.
type Suggestion struct {
	Term   string
	Weight int64
}

// Suggester aggregates weighted suggestions from corpus fields into a store.
type Suggester struct {
	name   string
	corpus corpus.Reader
	store  store.Store

	fields       []*Field // all fields, descending weight
	storedFields []*Field
	termFields   []*Field

	maxLen            int
	excludeFormats    map[string]struct{}
	excludeFormatList []string
	languages         map[string]struct{}
	languageList      []string
	buildOnStartup    bool

	// seenValues dedupes stored values across one full rebuild; reset at
	// the start of every build, never consulted on the incremental path.
	seenValues map[string]struct{}

	state   atomic.Int32
	buildMu sync.Mutex
	closed  atomic.Bool
}

// New validates the configuration against the corpus schema and returns a
// suggester over the given store. The store is owned by the suggester from
// here on and is released by Close.
func New(cfg config.SuggesterConfig, c corpus.Reader, st store.Store) (*Suggester, error) {
	if cfg.Name == "" {
		return nil, &ConfigError{Suggester: cfg.Name, Reason: "suggester name is required"}
	}
	all, stored, term, err := fieldsFromConfig(cfg.Name, cfg.Fields, c.Schema())
	if err != nil {
		return nil, err
	}

	maxLen := cfg.MaxSuggestionLength
	if maxLen <= 0 {
		maxLen = DefaultMaxSuggestionLength
	}

	s := &Suggester{
		name:              cfg.Name,
		corpus:            c,
		store:             st,
		fields:            all,
		storedFields:      stored,
		termFields:        term,
		maxLen:            maxLen,
		excludeFormats:    make(map[string]struct{}, len(cfg.ExcludeFormat)),
		excludeFormatList: cfg.ExcludeFormat,
		languages:         make(map[string]struct{}, len(cfg.Languages)),
		languageList:      cfg.Languages,
		buildOnStartup:    cfg.BuildOnStartup,
	}
	for _, f := range cfg.ExcludeFormat {
		s.excludeFormats[f] = struct{}{}
	}
	for _, l := range cfg.Languages {
		s.languages[l] = struct{}{}
	}
	if len(s.excludeFormats) > 0 {
		log.Infof("%s: excluding docs with formats %v from suggestions", s.name, cfg.ExcludeFormat)
	}
	return s, nil
}

// Name returns the suggester's configured name.
func (s *Suggester) Name() string { return s.name }

// State returns the current lifecycle state.
func (s *Suggester) State() State { return State(s.state.Load()) }

// Count returns the number of suggestions the store serves.
func (s *Suggester) Count() int { return s.store.Count() }

// Build performs a full rebuild: the store is cleared, stored fields are
// scanned in one pass, term dictionaries are pushed per field, and the
// suggester becomes Ready. Build is blocking and does not run concurrently
// with itself. A failed build restores the prior state, but the store may
// already be cleared; the next successful build replaces it wholesale.
func (s *Suggester) Build() error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	prev := s.state.Load()
	s.state.Store(int32(StateBuilding))
	log.Infof("build suggestion index: %s", s.name)
	start := time.Now()

	if err := s.build(); err != nil {
		s.state.Store(prev)
		return fmt.Errorf("build %s: %w", s.name, err)
	}

	s.state.Store(int32(StateReady))
	log.Infof("%s suggestion index built: %d suggestions, took %s",
		s.name, s.store.Count(), time.Since(start).Round(time.Millisecond))
	return nil
}

func (s *Suggester) build() error {
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	if err := s.buildFromStored(); err != nil {
		return err
	}
	for _, fld := range s.termFields {
		if err := s.buildFromTerms(fld); err != nil {
			return err
		}
	}
	return nil
}

// Reload brings the suggester up on startup or core reload. A store that
// already holds suggestions is served as-is, since incremental updates are
// reflected in it; otherwise a build runs unless buildOnStartup is off.
func (s *Suggester) Reload() error {
	if s.closed.Load() {
		return ErrClosed
	}
	if s.store.Count() > 0 {
		log.Infof("%s: load existing suggestion index", s.name)
		s.state.Store(int32(StateReady))
		return nil
	}
	if !s.buildOnStartup {
		log.Infof("%s reload: buildOnStartup is false, skipping build", s.name)
		return nil
	}
	return s.Build()
}

// Add accumulates one document mutation. Excluded documents are skipped
// whole; otherwise every configured field present on the document folds its
// values into that field's pending batch. Safe for concurrent use.
func (s *Suggester) Add(doc *corpus.Document) {
	if s.closed.Load() {
		return
	}
	if format := doc.First(corpus.FormatField); format != "" {
		if _, excluded := s.excludeFormats[format]; excluded {
			log.Infof("%s: skipping doc %s with format %s", s.name, doc.ID, format)
			return
		}
	}
	if lang := doc.First(corpus.LanguageField); lang != "" && len(s.languages) > 0 {
		if _, accepted := s.languages[lang]; !accepted {
			log.Infof("%s: skipping doc %s with language %s", s.name, doc.ID, lang)
			return
		}
	}

	for _, fld := range s.fields {
		if !doc.Has(fld.Name) {
			continue
		}
		fld.pendingDocs.Add(1)
		for _, value := range doc.Fields[fld.Name] {
			if fld.Analyzer == nil {
				s.addRaw(fld, doc, value)
			} else {
				s.addTokenized(fld, value)
			}
		}
	}
}

// Commit flushes all pending batches to the store, honoring each field's
// duplicate filtering.
func (s *Suggester) Commit() error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.commit(true)
}

// commit converts pending counts into final weights and pushes them to the
// store. Each field's batch is swapped out atomically so producers keep
// accumulating into the replacement while the snapshot is drained. One store
// refresh runs at the end if any field contributed.
func (s *Suggester) commit(filterDuplicates bool) error {
	updated := false
	for _, fld := range s.fields {
		docCount := int64(s.corpus.DocCount(fld.Name)) + fld.pendingDocs.Swap(0)
		batch := fld.swapPending()
		if len(batch) == 0 {
			continue
		}
		updated = true

		minCount := int64(fld.MinFreq * float64(docCount))
		maxCount := int64(math.MaxInt64)
		if docCount > 1 {
			// +1 keeps a term occurring in exactly maxFreq of the corpus
			// inside the band.
			maxCount = int64(fld.MaxFreq*float64(docCount)) + 1
		}

		for term, delta := range batch {
			if filterDuplicates && fld.FilterDuplicates && len(s.store.Lookup(term, 1, false)) > 0 {
				log.Debugf("%s: skipping duplicate %q", s.name, term)
				continue
			}
			weight := s.termWeight(fld, term, delta, docCount, minCount, maxCount)
			if err := s.store.Update(term, weight); err != nil {
				return fmt.Errorf("commit %s term %q: %w", fld.Name, term, err)
			}
		}
	}
	if updated {
		if err := s.store.Refresh(); err != nil {
			return fmt.Errorf("commit refresh: %w", err)
		}
	}
	return nil
}

// termWeight computes the final integer-scaled weight of one batched term.
// Fields with no analyzer commit at the base weight, or at the document's
// staged weight override when the field reads one; analyzed terms
// are weighted by their combined corpus frequency and zeroed outside the
// configured frequency band.
func (s *Suggester) termWeight(fld *Field, term string, delta, docCount, minCount, maxCount int64) int64 {
	if fld.Analyzer == nil {
		if w, ok := fld.takeOverride(term); ok {
			return w
		}
		return fld.Weight
	}
	count := int64(s.corpus.TermDocFreq(fld.Name, term))
	if count < 0 {
		count = delta
	} else {
		count += delta
	}
	if count < minCount || count > maxCount {
		return 0
	}
	if docCount <= 0 {
		docCount = 1
	}
	return fld.Weight * count / docCount
}

// Suggest returns up to count ranked suggestions for the typed prefix,
// substituting the store's highlighted key when one is produced.
func (s *Suggester) Suggest(prefix string, count int) []Suggestion {
	if s.closed.Load() {
		return nil
	}
	highlight := s.store.Capability() == store.InfixWithHighlight
	results := s.store.Lookup(prefix, count, highlight)
	out := make([]Suggestion, 0, len(results))
	for _, r := range results {
		term := r.Term
		if r.Highlighted != "" {
			term = r.Highlighted
		}
		out = append(out, Suggestion{Term: term, Weight: r.Weight})
	}
	return out
}

// Close releases the store. Close is idempotent; a closed suggester rejects
// all further operations.
func (s *Suggester) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.store.Close()
}
