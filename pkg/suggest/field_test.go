package suggest

import (
	"sync"
	"testing"

	"github.com/bastiangx/multisuggest/pkg/analysis"
	"github.com/bastiangx/multisuggest/pkg/config"
	"github.com/bastiangx/multisuggest/pkg/corpus"
)

func testSchema() *corpus.Schema {
	s := corpus.NewSchema(analysis.NewRegistry())
	s.SetFieldType("fulltext", "text")
	s.SetFieldType("title", "string")
	s.SetFieldType("subtitle", "string")
	return s
}

func TestFieldsFromConfig(t *testing.T) {
	entries := []config.FieldConfig{
		{Name: "fulltext", Weight: 1.0, MinFreq: 0.005, MaxFreq: 0.3},
		{Name: "title", Weight: 10.0, AnalyzerFieldType: "string"},
		{Name: "subtitle", Weight: 3.0, AnalyzerFieldType: "text", FilterDuplicates: true},
	}
	all, stored, term, err := fieldsFromConfig("books", entries, testSchema())
	if err != nil {
		t.Fatalf("fieldsFromConfig: %v", err)
	}
	if len(all) != 3 || len(stored) != 2 || len(term) != 1 {
		t.Fatalf("groups: all=%d stored=%d term=%d", len(all), len(stored), len(term))
	}

	// descending weight order
	for i := 1; i < len(all); i++ {
		if all[i-1].Weight < all[i].Weight {
			t.Errorf("fields not sorted by descending weight: %s before %s", all[i-1].Name, all[i].Name)
		}
	}
	if all[0].Name != "title" {
		t.Errorf("heaviest field = %s; want title", all[0].Name)
	}

	title := stored[0]
	if title.Analyzer != nil {
		t.Error("string-typed field should have no analyzer")
	}
	if title.Weight != 10*WeightScale {
		t.Errorf("title weight = %d; want %d", title.Weight, int64(10*WeightScale))
	}

	subtitle := stored[1]
	if subtitle.Analyzer == nil {
		t.Error("text-typed stored field should carry an analyzer")
	}
	if !subtitle.FilterDuplicates {
		t.Error("filterDuplicates lost")
	}
	if subtitle.Mode != RawStored || term[0].Mode != TermAnalyzed {
		t.Error("modes not assigned by analyzer_field_type presence")
	}
}

func TestFieldsFromConfigDefaults(t *testing.T) {
	all, _, _, err := fieldsFromConfig("books", []config.FieldConfig{{Name: "fulltext"}}, testSchema())
	if err != nil {
		t.Fatalf("fieldsFromConfig: %v", err)
	}
	fld := all[0]
	if fld.Weight != WeightScale {
		t.Errorf("default weight = %d; want %d", fld.Weight, int64(WeightScale))
	}
	if fld.MinFreq != 0.0 || fld.MaxFreq != 1.0 {
		t.Errorf("default freq band = [%v, %v]; want [0, 1]", fld.MinFreq, fld.MaxFreq)
	}
}

func TestFieldsFromConfigErrors(t *testing.T) {
	testCases := []struct {
		name  string
		entry config.FieldConfig
	}{
		{"unknown analyzer type", config.FieldConfig{Name: "title", AnalyzerFieldType: "nope"}},
		{"field not in schema", config.FieldConfig{Name: "mystery"}},
		{"term field with string type", config.FieldConfig{Name: "title"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := fieldsFromConfig("books", []config.FieldConfig{tc.entry}, testSchema())
			if err == nil {
				t.Fatal("fieldsFromConfig succeeded; want ConfigError")
			}
			if _, ok := err.(*ConfigError); !ok {
				t.Fatalf("error type %T; want *ConfigError", err)
			}
		})
	}
}

func TestSourceFieldAlias(t *testing.T) {
	entries := []config.FieldConfig{
		{Name: "title_suggest", AnalyzerFieldType: "string", SourceField: "title"},
	}
	_, stored, _, err := fieldsFromConfig("books", entries, testSchema())
	if err != nil {
		t.Fatalf("fieldsFromConfig: %v", err)
	}
	if stored[0].Name != "title" {
		t.Errorf("scanned field = %s; want aliased source field title", stored[0].Name)
	}
}

func TestPendingConcurrentIncrements(t *testing.T) {
	fld := newField("title", 1.0, 0, 1.0, RawStored, nil, false)

	const workers = 16
	const perWorker = 500
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				fld.incPending("gatsby")
			}
		}()
	}
	wg.Wait()

	batch := fld.swapPending()
	if got := batch["gatsby"]; got != workers*perWorker {
		t.Fatalf("accumulated count = %d; want %d", got, workers*perWorker)
	}

	// swapped-out batch must leave a fresh empty one behind
	if again := fld.swapPending(); len(again) != 0 {
		t.Fatalf("second swap returned a non-empty batch: %v", again)
	}
}
