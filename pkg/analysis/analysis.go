/*
Package analysis provides the tokenizers used to derive suggestion candidates
from field values.

An Analyzer turns one field value into a stream of token strings. The suggester
core never tokenizes on its own; it asks the analyzer registered for the
field's type. The special type name "string" means no analysis at all: the
stored value is used verbatim.
*/
package analysis

import (
	"strings"
	"unicode"
)

// StringType is the reserved analyzer type name meaning "no analyzer":
// the raw stored value itself becomes the suggestion.
const StringType = "string"

// Analyzer splits a field value into token strings.
type Analyzer interface {
	Tokenize(field, value string) []string
}

// Registry maps analyzer type names to Analyzer implementations.
type Registry struct {
	types map[string]Analyzer
}

// NewRegistry returns a registry preloaded with the builtin analyzers.
func NewRegistry() *Registry {
	r := &Registry{types: make(map[string]Analyzer)}
	r.Register("text", Standard{})
	r.Register("text_ws", Whitespace{})
	r.Register("keyword", Keyword{})
	return r
}

// Register adds or replaces an analyzer type.
func (r *Registry) Register(name string, a Analyzer) {
	r.types[name] = a
}

// Lookup returns the analyzer registered under name.
func (r *Registry) Lookup(name string) (Analyzer, bool) {
	a, ok := r.types[name]
	return a, ok
}

// Standard lowercases the value and splits it on any rune that is not a
// letter, digit or intra-word apostrophe. Tokens are stripped of leading and
// trailing punctuation.
type Standard struct{}

func (Standard) Tokenize(_, value string) []string {
	var tokens []string
	fields := strings.FieldsFunc(strings.ToLower(value), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	for _, f := range fields {
		if tok := StripPunct(f); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Whitespace splits on whitespace only, preserving case.
type Whitespace struct{}

func (Whitespace) Tokenize(_, value string) []string {
	return strings.Fields(value)
}

// Keyword emits the whole value as a single token, trimmed of surrounding
// whitespace. Empty values yield no tokens.
type Keyword struct{}

func (Keyword) Tokenize(_, value string) []string {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	return []string{v}
}

// StripPunct removes leading and trailing punctuation from a token. Interior
// punctuation (hyphens, apostrophes) is left alone so contractions and
// compounds survive.
func StripPunct(tok string) string {
	return strings.TrimFunc(tok, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}
