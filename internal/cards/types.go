package cards

import "github.com/edgenotch/cardkeep/internal/docstore"

// Summary is the lightweight per-card view used for listing and search.
// It is derived from the persisted front/back documents and the metadata
// overlay, and kept in sync with them on every write.
type Summary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Occupation     string `json:"occupation"`
	Organization   string `json:"organization"`
	Location       string `json:"location"`
	HasBack        bool   `json:"hasBack"`
	BackEntryCount int    `json:"backEntryCount"`
	HasError       bool   `json:"hasError"`
	Complete       bool   `json:"complete"`
}

// Card is the full single-card view: both documents plus the image naming
// convention. The image filenames are a convention only; they are not
// verified to exist.
type Card struct {
	ID       string       `json:"id"`
	Front    docstore.Doc `json:"front"`
	Back     docstore.Doc `json:"back,omitempty"`
	Complete bool         `json:"complete"`
	Images   ImageRefs    `json:"images"`
}

// ImageRefs names the front and back scan files for a card.
type ImageRefs struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// MetaEntry is the mutable per-card metadata record.
type MetaEntry struct {
	Complete bool `json:"complete"`
}

// ListQuery carries the filter and pagination parameters for List. Boolean
// filters are tri-state: nil means "not filtered".
type ListQuery struct {
	Q            string
	Occupation   string
	Organization string
	Location     string
	HasBack      *bool
	Complete     *bool
	Page         int
	PageSize     int
}

// ListResult is one page of filtered summaries.
type ListResult struct {
	Items      []Summary `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
}

// FilterOptions holds the distinct non-empty values of the three
// filterable fields, each sorted ascending.
type FilterOptions struct {
	Occupations   []string `json:"occupations"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
}
