package corpus

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

type documentFile struct {
	Documents []documentEntry `toml:"document"`
}

type documentEntry struct {
	ID     string              `toml:"id"`
	Fields map[string][]string `toml:"fields"`
}

// LoadTOML reads documents from a TOML file into the corpus. The file holds
// repeated [[document]] tables, each with an optional id and a fields table
// mapping field names to value lists:
//
//	[[document]]
//	id = "1"
//	[document.fields]
//	title = ["The Great Gatsby"]
//	language = ["en"]
//
// It returns the number of documents added.
func LoadTOML(path string, m *Memory) (int, error) {
	var file documentFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return 0, fmt.Errorf("decode documents file %s: %w", path, err)
	}
	for i, entry := range file.Documents {
		if len(entry.Fields) == 0 {
			return i, fmt.Errorf("document %d in %s has no fields", i, path)
		}
		m.Add(&Document{ID: entry.ID, Fields: entry.Fields})
	}
	return len(file.Documents), nil
}
