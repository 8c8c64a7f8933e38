package suggest

import (
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/multisuggest/pkg/analysis"
	"github.com/bastiangx/multisuggest/pkg/config"
	"github.com/bastiangx/multisuggest/pkg/corpus"
)

// WeightScale converts configured floating-point weights into the integer
// domain the store ranks by. It should exceed the corpus document count so
// frequency ratios survive integer math.
const WeightScale = 10_000_000

// Mode selects how a field generates suggestion candidates.
type Mode int

const (
	// TermAnalyzed draws suggestions from the field's analyzed terms.
	TermAnalyzed Mode = iota
	// RawStored draws suggestions from the field's verbatim stored values.
	RawStored
)

// Field is one weighted suggestion source. Candidate counts accumulate in a
// swappable pending batch so producers never block on a commit.
type Field struct {
	Name             string
	Weight           int64 // scaled by WeightScale
	MinFreq          float64
	MaxFreq          float64
	Mode             Mode
	FilterDuplicates bool

	// WeightField names a document field whose numeric value replaces the
	// base weight for that document's raw values. Empty means base weight.
	WeightField string

	// Analyzer is nil for pure stored-value fields (type "string"); such
	// fields always commit at the base weight.
	Analyzer analysis.Analyzer

	pending     atomic.Pointer[pendingBatch]
	pendingDocs atomic.Int64
	overrides   sync.Map // term -> int64, per-document weight overrides
}

// pendingBatch tallies candidate occurrences since the last commit. Writers
// increment through the sync.Map with per-term atomic counters.
type pendingBatch struct {
	m sync.Map // term -> *atomic.Int64
}

func newField(name string, weight, minFreq, maxFreq float64, mode Mode, analyzer analysis.Analyzer, filterDuplicates bool) *Field {
	f := &Field{
		Name:             name,
		Weight:           int64(weight * WeightScale),
		MinFreq:          minFreq,
		MaxFreq:          maxFreq,
		Mode:             mode,
		FilterDuplicates: filterDuplicates,
		Analyzer:         analyzer,
	}
	f.pending.Store(&pendingBatch{})
	return f
}

// incPending adds one occurrence of the term to the current batch.
func (f *Field) incPending(term string) {
	b := f.pending.Load()
	if v, ok := b.m.Load(term); ok {
		v.(*atomic.Int64).Add(1)
		return
	}
	v, _ := b.m.LoadOrStore(term, new(atomic.Int64))
	v.(*atomic.Int64).Add(1)
}

// weightOverride reads the document's weight field, when the field has one.
func (f *Field) weightOverride(doc *corpus.Document) (int64, bool) {
	if f.WeightField == "" {
		return 0, false
	}
	raw := doc.First(f.WeightField)
	if raw == "" {
		return 0, false
	}
	w, err := strconv.ParseFloat(raw, 64)
	if err != nil || w < 0 {
		log.Warnf("field %s: ignoring weight field %s value %q", f.Name, f.WeightField, raw)
		return 0, false
	}
	return int64(w * WeightScale), true
}

func (f *Field) setOverride(term string, weight int64) {
	f.overrides.Store(term, weight)
}

// takeOverride consumes the pending weight override for a term, if any.
func (f *Field) takeOverride(term string) (int64, bool) {
	if v, ok := f.overrides.LoadAndDelete(term); ok {
		return v.(int64), true
	}
	return 0, false
}

// swapPending atomically replaces the batch with a fresh one and drains the
// old batch into a plain map. Producers that already loaded the old batch
// finish their increment before the drain observes the entry, so nothing is
// lost across the swap.
func (f *Field) swapPending() map[string]int64 {
	old := f.pending.Swap(&pendingBatch{})
	batch := make(map[string]int64)
	old.m.Range(func(k, v any) bool {
		batch[k.(string)] = v.(*atomic.Int64).Load()
		return true
	})
	return batch
}

// fieldsFromConfig validates the field entries against the corpus schema and
// returns descriptors sorted by descending weight, split into the stored and
// term groups. Ordering only fixes build sequencing; weights are computed
// per field regardless of position.
func fieldsFromConfig(suggester string, entries []config.FieldConfig, schema *corpus.Schema) (all, stored, term []*Field, err error) {
	for _, fc := range entries {
		weight := fc.Weight
		if weight == 0 {
			weight = 1.0
		}
		maxFreq := fc.MaxFreq
		if maxFreq == 0 {
			maxFreq = 1.0
		}

		name := fc.Name
		if fc.SourceField != "" {
			log.Debugf("suggester %s: field %s scans source field %s", suggester, fc.Name, fc.SourceField)
			name = fc.SourceField
		}

		var fld *Field
		if fc.AnalyzerFieldType != "" {
			analyzer, ok := schema.TypeAnalyzer(fc.AnalyzerFieldType)
			if !ok {
				return nil, nil, nil, &ConfigError{Suggester: suggester, Field: fc.Name,
					Reason: "unknown analyzer field type " + fc.AnalyzerFieldType}
			}
			fld = newField(name, weight, fc.MinFreq, maxFreq, RawStored, analyzer, fc.FilterDuplicates)
			fld.WeightField = fc.WeightField
			stored = append(stored, fld)
		} else {
			analyzer, ok := schema.FieldAnalyzer(name)
			if !ok {
				return nil, nil, nil, &ConfigError{Suggester: suggester, Field: fc.Name,
					Reason: "field is not declared in the corpus schema"}
			}
			if analyzer == nil {
				return nil, nil, nil, &ConfigError{Suggester: suggester, Field: fc.Name,
					Reason: "term field requires an analyzed field type"}
			}
			fld = newField(name, weight, fc.MinFreq, maxFreq, TermAnalyzed, analyzer, fc.FilterDuplicates)
			term = append(term, fld)
		}
		all = append(all, fld)
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Weight > all[j].Weight })
	return all, stored, term, nil
}
