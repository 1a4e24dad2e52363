package export

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed formats.yaml
var formatsYAML []byte

// CatalogEntry describes one export format offered to clients.
type CatalogEntry struct {
	ID          Format `yaml:"id" json:"value"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Extension   string `yaml:"extension" json:"extension"`
	MimeType    string `yaml:"mime_type" json:"mime_type"`
	Available   bool   `yaml:"-" json:"available"`
}

var loadCatalog = sync.OnceValues(func() ([]CatalogEntry, error) {
	var doc struct {
		Formats []CatalogEntry `yaml:"formats"`
	}
	if err := yaml.Unmarshal(formatsYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse formats catalog: %w", err)
	}
	for _, entry := range doc.Formats {
		if _, err := ParseFormat(string(entry.ID)); err != nil {
			return nil, fmt.Errorf("formats catalog: %w", err)
		}
	}
	return doc.Formats, nil
})

// Catalog returns the format list with availability filled in for this exporter.
func (e *Exporter) Catalog() ([]CatalogEntry, error) {
	entries, err := loadCatalog()
	if err != nil {
		return nil, err
	}

	out := make([]CatalogEntry, len(entries))
	for i, entry := range entries {
		entry.Available = e.Available(entry.ID)
		out[i] = entry
	}
	return out, nil
}
