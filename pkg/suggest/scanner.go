package suggest

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/multisuggest/pkg/analysis"
	"github.com/bastiangx/multisuggest/pkg/corpus"
)

const (
	// buildLogInterval is how many scanned documents pass between progress
	// log lines during a full rebuild.
	buildLogInterval = 200_000
	// buildCommitEvery bounds memory growth: an intermediate commit runs
	// after this many accepted additions.
	buildCommitEvery = 10_000
)

// buildFromStored scans the corpus once and folds every stored field's
// values into the pending batches, committing periodically. Values seen
// anywhere in this run are skipped, across all stored fields: the run-wide
// set stands in for per-commit duplicate filtering, so intermediate commits
// run with it disabled.
func (s *Suggester) buildFromStored() error {
	if len(s.storedFields) == 0 {
		return nil
	}
	start := time.Now()
	log.Infof("%s suggest build for stored fields: %s", s.name, fieldNames(s.storedFields))

	s.seenValues = make(map[string]struct{})

	names := make([]string, len(s.storedFields))
	for i, fld := range s.storedFields {
		names[i] = fld.Name
	}
	// Narrow the scan to documents that can contribute at all.
	filter := corpus.And(s.parseBaseFilter(s.baseFilterExpr()), corpus.HasAnyField(names...))

	addCount := 0
	lastCommit := 0
	scanned := 0
	err := s.corpus.Iterate(filter, func(doc *corpus.Document) error {
		scanned++
		for _, fld := range s.storedFields {
			value := doc.First(fld.Name)
			if value == "" {
				continue
			}
			if _, dup := s.seenValues[value]; dup {
				continue
			}
			s.seenValues[value] = struct{}{}
			s.addRaw(fld, doc, value)
			addCount++
		}
		if scanned%buildLogInterval == 0 {
			log.Infof("%s build: scanned %d docs, added %d values, elapsed %s",
				s.name, scanned, addCount, time.Since(start).Round(time.Second))
		}
		if addCount-lastCommit >= buildCommitEvery {
			lastCommit = addCount
			log.Infof("%s build commit: %d values added", s.name, addCount)
			if err := s.commit(false); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("stored field scan: %w", err)
	}
	if err := s.commit(false); err != nil {
		return err
	}
	log.Infof("%s build completed for stored fields: %d docs scanned, %d values added, took %s",
		s.name, scanned, addCount, time.Since(start).Round(time.Second))
	return nil
}

// baseFilterExpr renders the configured format and language exclusions as a
// filter expression.
func (s *Suggester) baseFilterExpr() string {
	var parts []string
	for _, format := range s.excludeFormatList {
		parts = append(parts, "-"+corpus.FormatField+":"+format)
	}
	if len(s.languageList) > 0 {
		parts = append(parts, corpus.LanguageField+":("+strings.Join(s.languageList, " ")+")")
	}
	return strings.Join(parts, " ")
}

// parseBaseFilter compiles the base exclusion filter. A parse failure is
// logged and the scan proceeds unfiltered: the build must not abort over a
// bad filter expression.
func (s *Suggester) parseBaseFilter(expr string) corpus.Filter {
	if expr == "" {
		return nil
	}
	filter, err := corpus.ParseFilter(expr)
	if err != nil {
		log.Errorf("%s: base filter ignored, scanning unfiltered: %v", s.name, err)
		return nil
	}
	return filter
}

// addRaw folds one stored value into the field's pending batch, segmenting
// values longer than the configured maximum suggestion length. When the
// field reads its weight from the document, the override is staged for the
// commit alongside the count.
func (s *Suggester) addRaw(fld *Field, doc *corpus.Document, value string) {
	terms := []string{value}
	if utf8.RuneCountInString(value) > s.maxLen {
		terms = segmentValue(value, s.maxLen)
	}
	override, hasOverride := fld.weightOverride(doc)
	for _, term := range terms {
		fld.incPending(term)
		if hasOverride {
			fld.setOverride(term, override)
		}
	}
}

// addTokenized folds each distinct token of one value into the pending
// batch. Repeated tokens within the same value count once, matching how
// document frequency counts documents rather than occurrences.
func (s *Suggester) addTokenized(fld *Field, value string) {
	once := make(map[string]struct{})
	for _, tok := range fld.Analyzer.Tokenize(fld.Name, value) {
		tok = analysis.StripPunct(tok)
		if tok == "" {
			continue
		}
		if _, dup := once[tok]; dup {
			continue
		}
		once[tok] = struct{}{}
		fld.incPending(tok)
	}
}

func fieldNames(fields []*Field) string {
	names := make([]string, len(fields))
	for i, fld := range fields {
		names[i] = fmt.Sprintf("%s^%d", fld.Name, fld.Weight)
	}
	return strings.Join(names, ", ")
}
