package corpus

import (
	"sort"
	"testing"

	"github.com/bastiangx/multisuggest/pkg/analysis"
)

func testSchema() *Schema {
	s := NewSchema(analysis.NewRegistry())
	s.SetFieldType("fulltext", "text")
	s.SetFieldType("title", "string")
	return s
}

func doc(id string, fields map[string][]string) *Document {
	return &Document{ID: id, Fields: fields}
}

func TestMemoryFrequencies(t *testing.T) {
	m := NewMemory(testSchema())
	m.Add(doc("1", map[string][]string{
		"fulltext": {"the great gatsby", "gatsby again"},
		"title":    {"The Great Gatsby"},
	}))
	m.Add(doc("2", map[string][]string{
		"fulltext": {"a great war"},
	}))

	if got := m.DocCount("fulltext"); got != 2 {
		t.Errorf("DocCount(fulltext) = %d; want 2", got)
	}
	if got := m.DocCount("title"); got != 1 {
		t.Errorf("DocCount(title) = %d; want 1", got)
	}

	// "gatsby" appears in two values of one doc: document frequency is 1
	if got := m.TermDocFreq("fulltext", "gatsby"); got != 1 {
		t.Errorf("TermDocFreq(gatsby) = %d; want 1", got)
	}
	if got := m.TermDocFreq("fulltext", "great"); got != 2 {
		t.Errorf("TermDocFreq(great) = %d; want 2", got)
	}
	if got := m.TermDocFreq("fulltext", "missing"); got != 0 {
		t.Errorf("TermDocFreq(missing) = %d; want 0", got)
	}

	// raw "string" fields carry no term statistics
	if got := m.TermDocFreq("title", "gatsby"); got != 0 {
		t.Errorf("TermDocFreq on raw field = %d; want 0", got)
	}
}

func TestMemoryTermDictionary(t *testing.T) {
	m := NewMemory(testSchema())
	m.Add(doc("1", map[string][]string{"fulltext": {"alpha beta"}}))
	m.Add(doc("2", map[string][]string{"fulltext": {"alpha gamma"}}))

	dict := m.TermDictionary("fulltext", 2)
	if len(dict) != 1 || dict[0].Term != "alpha" || dict[0].Count != 2 {
		t.Fatalf("TermDictionary(minDocFreq=2) = %v; want [{alpha 2}]", dict)
	}

	dict = m.TermDictionary("fulltext", 1)
	terms := make([]string, len(dict))
	for i, tc := range dict {
		terms[i] = tc.Term
	}
	sort.Strings(terms)
	want := []string{"alpha", "beta", "gamma"}
	if len(terms) != len(want) {
		t.Fatalf("TermDictionary(minDocFreq=1) terms = %v; want %v", terms, want)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Fatalf("TermDictionary(minDocFreq=1) terms = %v; want %v", terms, want)
		}
	}
}

func TestMemoryIterate(t *testing.T) {
	m := NewMemory(testSchema())
	m.Add(doc("1", map[string][]string{"title": {"one"}}))
	m.Add(doc("2", map[string][]string{"fulltext": {"two"}}))

	var visited []string
	err := m.Iterate(HasAnyField("title"), func(d *Document) error {
		visited = append(visited, d.ID)
		return nil
	})
	if err != nil {
		t.Fatalf("Iterate: %v", err)
	}
	if len(visited) != 1 || visited[0] != "1" {
		t.Errorf("visited %v; want [1]", visited)
	}
}
