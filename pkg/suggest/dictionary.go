package suggest

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/multisuggest/pkg/store"
)

// mergedDictionary collects weighted term entries before they are pushed to
// the store in one batch. Repeated terms keep their highest weight.
type mergedDictionary struct {
	weights map[string]int64
}

func newMergedDictionary() *mergedDictionary {
	return &mergedDictionary{weights: make(map[string]int64)}
}

// add records one (term, docFreq) pair. Terms outside [minCount, maxCount]
// get weight zero, which hides them from ranked results without dropping the
// entry.
func (d *mergedDictionary) add(term string, count, minCount, maxCount int64, multiplier float64) {
	var weight int64
	if count >= minCount && count <= maxCount {
		weight = int64(multiplier * float64(count))
	}
	if prev, ok := d.weights[term]; !ok || weight > prev {
		d.weights[term] = weight
	}
}

func (d *mergedDictionary) entries() []store.Entry {
	out := make([]store.Entry, 0, len(d.weights))
	for term, weight := range d.weights {
		out = append(out, store.Entry{Term: term, Weight: weight})
	}
	return out
}

// buildFromTerms feeds one term field's high-frequency dictionary into the
// store. The weight multiplier is normalized by 2+numDocs so low-volume
// fields indexed early cannot dominate; this under-weights rare terms while
// the corpus is small, which a periodic full rebuild corrects.
func (s *Suggester) buildFromTerms(fld *Field) error {
	numDocs := s.corpus.DocCount(fld.Name)
	minCount := int64(fld.MinFreq * float64(numDocs))
	maxCount := int64(fld.MaxFreq * float64(numDocs))
	log.Infof("build suggestions from terms for %s (min=%d, max=%d, weight=%d)",
		fld.Name, minCount, maxCount, fld.Weight)

	dict := newMergedDictionary()
	multiplier := float64(fld.Weight) / float64(2+numDocs)
	for _, tc := range s.corpus.TermDictionary(fld.Name, int(minCount)) {
		dict.add(tc.Term, int64(tc.Count), minCount, maxCount, multiplier)
	}

	if err := s.store.AddDictionary(dict.entries()); err != nil {
		return fmt.Errorf("add dictionary for %s: %w", fld.Name, err)
	}
	if err := s.store.Refresh(); err != nil {
		return fmt.Errorf("refresh after %s: %w", fld.Name, err)
	}
	return nil
}
