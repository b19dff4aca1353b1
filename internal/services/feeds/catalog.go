package feeds

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed catalog.json
var catalogJSON []byte

// CatalogEntry is one default remote source
type CatalogEntry struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Language string `json:"language"`
}

// DefaultCatalog returns the built-in list of remote sources
func DefaultCatalog() ([]CatalogEntry, error) {
	var entries []CatalogEntry
	if err := json.Unmarshal(catalogJSON, &entries); err != nil {
		return nil, fmt.Errorf("parsing default catalog: %w", err)
	}
	return entries, nil
}
