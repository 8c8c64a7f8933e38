package analysis

import (
	"reflect"
	"testing"
)

func TestStandardTokenize(t *testing.T) {
	testCases := []struct {
		input    string
		expected []string
	}{
		{"The Great Gatsby", []string{"the", "great", "gatsby"}},
		{"hello, world!", []string{"hello", "world"}},
		{"don't stop", []string{"don't", "stop"}},
		{"  spaced   out  ", []string{"spaced", "out"}},
		{"", nil},
		{"...", nil},
		{"utf8 word2vec", []string{"utf8", "word2vec"}},
	}

	a := Standard{}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got := a.Tokenize("body", tc.input)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Tokenize(%q) = %v; want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestKeywordTokenize(t *testing.T) {
	a := Keyword{}
	if got := a.Tokenize("title", "  The Great Gatsby "); !reflect.DeepEqual(got, []string{"The Great Gatsby"}) {
		t.Errorf("unexpected tokens: %v", got)
	}
	if got := a.Tokenize("title", "   "); got != nil {
		t.Errorf("blank value should yield no tokens, got %v", got)
	}
}

func TestStripPunct(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"'quoted'", "quoted"},
		{"trailing,", "trailing"},
		{"mid-word", "mid-word"},
		{"(parens)", "parens"},
		{"clean", "clean"},
	}
	for _, tc := range testCases {
		if got := StripPunct(tc.input); got != tc.expected {
			t.Errorf("StripPunct(%q) = %q; want %q", tc.input, got, tc.expected)
		}
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Lookup("text"); !ok {
		t.Fatal("builtin 'text' analyzer missing")
	}
	if _, ok := r.Lookup("nope"); ok {
		t.Fatal("unexpected analyzer for unknown type")
	}
}
