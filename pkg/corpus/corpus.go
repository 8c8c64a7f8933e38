/*
Package corpus abstracts the document collection that suggestions are drawn
from.

A Reader supplies three things the suggester core needs: per-field document
counts, per-term document frequencies, and a single-pass iterator over stored
field values. The Memory implementation indexes documents on the fly and is
the default corpus for tests and the standalone server.
*/
package corpus

import (
	"github.com/bastiangx/multisuggest/pkg/analysis"
)

// Well-known document fields used by the exclusion filters.
const (
	FormatField   = "format"
	LanguageField = "language"
)

// Document is one corpus document: an identifier plus multi-valued stored
// fields.
type Document struct {
	ID     string
	Fields map[string][]string
}

// Has reports whether the document carries the field with at least one value.
func (d *Document) Has(field string) bool {
	return len(d.Fields[field]) > 0
}

// First returns the first value of the field, or "" when absent.
func (d *Document) First(field string) string {
	if vs := d.Fields[field]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// TermCount is one (term, document frequency) pair from a term dictionary.
type TermCount struct {
	Term  string
	Count int
}

// Reader is the corpus surface consumed by the suggester core.
type Reader interface {
	// Schema describes field types and their analyzers.
	Schema() *Schema

	// DocCount returns the number of documents carrying the field.
	DocCount(field string) int

	// TermDocFreq returns the number of documents whose field contains the
	// term, or 0 when the term is unknown.
	TermDocFreq(field, term string) int

	// TermDictionary returns all terms of the field whose document frequency
	// is at least minDocFreq, in unspecified order.
	TermDictionary(field string, minDocFreq int) []TermCount

	// Iterate visits every document accepted by the filter. A nil filter
	// visits the whole corpus. Iteration stops on the first error from fn.
	Iterate(filter Filter, fn func(doc *Document) error) error
}

// Schema maps corpus fields to analyzer types.
type Schema struct {
	fieldTypes map[string]string
	registry   *analysis.Registry
}

// NewSchema returns an empty schema backed by the given analyzer registry.
func NewSchema(registry *analysis.Registry) *Schema {
	return &Schema{
		fieldTypes: make(map[string]string),
		registry:   registry,
	}
}

// SetFieldType declares the analyzer type of a field.
func (s *Schema) SetFieldType(field, typeName string) {
	s.fieldTypes[field] = typeName
}

// TypeAnalyzer resolves an analyzer type name. The reserved "string" type
// resolves to a nil analyzer, meaning values are used verbatim.
func (s *Schema) TypeAnalyzer(typeName string) (analysis.Analyzer, bool) {
	if typeName == analysis.StringType {
		return nil, true
	}
	a, ok := s.registry.Lookup(typeName)
	return a, ok
}

// FieldAnalyzer resolves the analyzer of a declared field.
func (s *Schema) FieldAnalyzer(field string) (analysis.Analyzer, bool) {
	typeName, ok := s.fieldTypes[field]
	if !ok {
		return nil, false
	}
	return s.TypeAnalyzer(typeName)
}

// HasField reports whether the field is declared in the schema.
func (s *Schema) HasField(field string) bool {
	_, ok := s.fieldTypes[field]
	return ok
}
