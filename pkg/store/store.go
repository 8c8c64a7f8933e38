/*
Package store defines the suggestion store: the structure that indexes
(term, weight) pairs and answers ranked lookup queries.

The suggester engine only ever talks to the Store interface; what lookups the
store can answer is declared once through its Capability, not discovered per
call.
*/
package store

import (
	"errors"
)

// Capability describes what lookups a store can answer.
type Capability int

const (
	// BasicLookup matches on term prefixes only.
	BasicLookup Capability = iota
	// InfixWithHighlight matches the query anywhere inside a term and can
	// return a highlighted form of the match.
	InfixWithHighlight
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store: closed")

// Entry is one (term, weight) pair pushed by the engine.
type Entry struct {
	Term   string
	Weight int64
}

// Result is one ranked lookup hit. Highlighted is non-empty only for
// InfixWithHighlight stores when a highlighted lookup was requested.
type Result struct {
	Term        string
	Weight      int64
	Highlighted string
}

// Store indexes weighted suggestions. Writes (AddDictionary, Update) stage
// entries; Refresh publishes staged entries so lookups observe them.
// Implementations must be safe for concurrent use.
type Store interface {
	// Clear removes all suggestions, staged and published.
	Clear() error

	// AddDictionary stages a batch of entries.
	AddDictionary(entries []Entry) error

	// Update stages a single entry, creating or overwriting the term.
	Update(term string, weight int64) error

	// Refresh publishes staged entries to lookups.
	Refresh() error

	// Lookup returns up to count published terms matching the query, ranked
	// by descending weight.
	Lookup(query string, count int, highlight bool) []Result

	// Count returns the number of published suggestions.
	Count() int

	// Capability reports the store's lookup capability.
	Capability() Capability

	// Close releases the store's resources. Close is idempotent.
	Close() error
}
