// Package cards maintains the in-memory card index: summaries derived
// from the on-disk front/back documents, the mutable completion metadata
// overlay, and the filter-options cache.
package cards

import (
	"encoding/json"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/edgenotch/cardkeep/internal/docstore"
)

// Index owns the summary list and both derived caches. It is the sole
// writer of that state; all request handlers share one Index.
type Index struct {
	dataDir string
	log     *slog.Logger

	mu         sync.RWMutex
	summaries  []Summary
	meta       map[string]*MetaEntry
	filterOpts *FilterOptions

	// collator is only used while mu is held; collate.Collator is not
	// safe for concurrent use.
	collator *collate.Collator
}

// NewIndex creates an empty index over dataDir. Call Load before serving.
func NewIndex(dataDir string, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{
		dataDir:  dataDir,
		log:      logger,
		meta:     map[string]*MetaEntry{},
		collator: collate.New(language.English, collate.Loose),
	}
}

// Load scans the front and back document directories and rebuilds the full
// summary list. A missing or corrupt metadata file means an empty overlay;
// an unreadable document directory is logged and contributes no documents.
// Load never fails.
func (ix *Index) Load() {
	meta := ix.loadMetadata()

	frontFiles, err := docstore.ListJSON(docstore.FrontDir(ix.dataDir))
	if err != nil {
		ix.log.Warn("could not read front directory", "op", "load", "error", err)
	}
	backFiles, err := docstore.ListJSON(docstore.BackDir(ix.dataDir))
	if err != nil {
		ix.log.Warn("could not read back directory", "op", "load", "error", err)
	}

	backIDs := make(map[string]bool, len(backFiles))
	for _, f := range backFiles {
		backIDs[docstore.CardID(f)] = true
	}

	seen := make(map[string]bool, len(frontFiles)+len(backFiles))
	var ids []string
	for _, f := range append(append([]string{}, frontFiles...), backFiles...) {
		id := docstore.CardID(f)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	// Per-id loads are independent; do them in parallel. The corpus is
	// bounded, so no backpressure is needed.
	summaries := make([]Summary, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			front, _ := docstore.Read(docstore.FrontPath(ix.dataDir, id))
			var back docstore.Doc
			if backIDs[id] {
				back, _ = docstore.Read(docstore.BackPath(ix.dataDir, id))
			}
			summaries[i] = buildSummary(id, front, backIDs[id], back, meta)
		}(i, id)
	}
	wg.Wait()

	ix.mu.Lock()
	ix.meta = meta
	ix.summaries = summaries
	ix.sortLocked()
	ix.filterOpts = nil
	ix.mu.Unlock()

	ix.log.Info("indexed cards",
		"cards", len(summaries), "fronts", len(frontFiles), "backs", len(backFiles))
}

func (ix *Index) loadMetadata() map[string]*MetaEntry {
	meta := map[string]*MetaEntry{}
	raw, err := os.ReadFile(docstore.MetadataPath(ix.dataDir))
	if err != nil {
		return meta
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		ix.log.Warn("corrupt metadata file, starting empty", "op", "load", "error", err)
		return map[string]*MetaEntry{}
	}
	return meta
}

// sortLocked orders summaries by name ascending; unnamed cards sort after
// all named ones, and among themselves by id. Caller holds mu.
func (ix *Index) sortLocked() {
	c := ix.collator
	sort.SliceStable(ix.summaries, func(i, j int) bool {
		a, b := ix.summaries[i], ix.summaries[j]
		switch {
		case a.Name == "" && b.Name == "":
			return c.CompareString(a.ID, b.ID) < 0
		case a.Name == "":
			return false
		case b.Name == "":
			return true
		default:
			return c.CompareString(a.Name, b.Name) < 0
		}
	})
}

func buildSummary(id string, front docstore.Doc, hasBack bool, back docstore.Doc, meta map[string]*MetaEntry) Summary {
	s := Summary{ID: id, HasBack: hasBack}

	if front != nil {
		s.HasError = front.HasError()
		if !s.HasError {
			s.Name = front.GetString("personalIdentification", "fullName")
			s.Occupation = front.GetString("professionalIdentityExpertise", "jobTitleOccupation")
			s.Organization = front.GetString("professionalAffiliation", "employerOrganization")
			s.Location = front.GetString("contactInformation", "geographicLocation")
		}
	}
	if back != nil {
		s.BackEntryCount = back.Entries()
	}
	if m := meta[id]; m != nil {
		s.Complete = m.Complete
	}
	return s
}

const (
	defaultPageSize = 10000
	maxPageSize     = 10000
)

// List returns one page of summaries matching the query. Filters are
// ANDed; invalid pagination values are coerced to their defaults. List
// never fails.
func (ix *Index) List(q ListQuery) ListResult {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	filtered := ix.summaries
	if q.Q != "" {
		needle := strings.ToLower(q.Q)
		filtered = filter(filtered, func(s Summary) bool {
			return containsFold(s.Name, needle) ||
				containsFold(s.ID, needle) ||
				containsFold(s.Organization, needle) ||
				containsFold(s.Occupation, needle) ||
				containsFold(s.Location, needle)
		})
	}
	if q.Occupation != "" {
		needle := strings.ToLower(q.Occupation)
		filtered = filter(filtered, func(s Summary) bool { return containsFold(s.Occupation, needle) })
	}
	if q.Organization != "" {
		needle := strings.ToLower(q.Organization)
		filtered = filter(filtered, func(s Summary) bool { return containsFold(s.Organization, needle) })
	}
	if q.Location != "" {
		needle := strings.ToLower(q.Location)
		filtered = filter(filtered, func(s Summary) bool { return containsFold(s.Location, needle) })
	}
	if q.HasBack != nil {
		filtered = filter(filtered, func(s Summary) bool { return s.HasBack == *q.HasBack })
	}
	if q.Complete != nil {
		filtered = filter(filtered, func(s Summary) bool { return s.Complete == *q.Complete })
	}

	total := len(filtered)
	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	totalPages := (total + size - 1) / size

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	items := make([]Summary, end-start)
	copy(items, filtered[start:end])

	return ListResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
	}
}

// filter returns the elements of in for which keep is true. The input
// slice is never mutated; the common no-filter path shares the backing
// array, which is safe because summaries are replaced, not resliced.
func filter(in []Summary, keep func(Summary) bool) []Summary {
	out := make([]Summary, 0, len(in))
	for _, s := range in {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func containsFold(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}

// Get loads the full card fresh from storage. A card without a front
// document is not retrievable this way and returns ErrNotFound, even when
// it has a back document and appears in listings.
func (ix *Index) Get(id string) (*Card, error) {
	front, err := docstore.Read(docstore.FrontPath(ix.dataDir, id))
	if err != nil {
		return nil, ErrNotFound
	}
	back, _ := docstore.Read(docstore.BackPath(ix.dataDir, id))

	ix.mu.RLock()
	complete := ix.meta[id] != nil && ix.meta[id].Complete
	ix.mu.RUnlock()

	return &Card{
		ID:       id,
		Front:    front,
		Back:     back,
		Complete: complete,
		Images: ImageRefs{
			Front: id + "_front.jpg",
			Back:  id + "_back.jpg",
		},
	}, nil
}

// UpdateFront validates and persists a card's front document, then brings
// the in-memory summary in line and invalidates the filter-options cache.
func (ix *Index) UpdateFront(id string, data docstore.Doc) error {
	if data.GetString("personalIdentification", "fullName") == "" {
		return &ValidationError{Reason: "personalIdentification.fullName is required"}
	}
	if err := docstore.WriteAtomic(docstore.FrontPath(ix.dataDir, id), data); err != nil {
		return err
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if i := ix.findLocked(id); i >= 0 {
		prev := ix.summaries[i]
		s := buildSummary(id, data, prev.HasBack, nil, ix.meta)
		s.BackEntryCount = prev.BackEntryCount
		ix.summaries[i] = s
	}
	ix.filterOpts = nil
	return nil
}

// UpdateBack persists a card's back document and updates the summary. A
// back write marks hasBack and never retracts it; deletion is out of
// scope.
func (ix *Index) UpdateBack(id string, data docstore.Doc) error {
	if err := docstore.WriteAtomic(docstore.BackPath(ix.dataDir, id), data); err != nil {
		return err
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if i := ix.findLocked(id); i >= 0 {
		ix.summaries[i].HasBack = true
		ix.summaries[i].BackEntryCount = data.Entries()
	}
	ix.filterOpts = nil
	return nil
}

// SetComplete records the completion flag for a card, persists the whole
// metadata mapping atomically, and returns the value that was set. A
// toggle for an id that is not indexed still persists. Completion is not
// part of the filter options, so the cache stays valid.
func (ix *Index) SetComplete(id string, value bool) (bool, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.meta[id] == nil {
		ix.meta[id] = &MetaEntry{}
	}
	ix.meta[id].Complete = value

	if err := docstore.WriteAtomic(docstore.MetadataPath(ix.dataDir), ix.meta); err != nil {
		return false, err
	}
	if i := ix.findLocked(id); i >= 0 {
		ix.summaries[i].Complete = value
	}
	return value, nil
}

// findLocked returns the position of id in the summary list, or -1.
// Caller holds mu.
func (ix *Index) findLocked(id string) int {
	for i := range ix.summaries {
		if ix.summaries[i].ID == id {
			return i
		}
	}
	return -1
}

// FilterOptions returns the distinct non-empty occupation, organization,
// and location values, recomputing lazily after a document write.
func (ix *Index) FilterOptions() FilterOptions {
	ix.mu.RLock()
	if ix.filterOpts != nil {
		opts := *ix.filterOpts
		ix.mu.RUnlock()
		return opts
	}
	ix.mu.RUnlock()

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.filterOpts == nil {
		opts := FilterOptions{
			Occupations:   ix.distinctLocked(func(s Summary) string { return s.Occupation }),
			Organizations: ix.distinctLocked(func(s Summary) string { return s.Organization }),
			Locations:     ix.distinctLocked(func(s Summary) string { return s.Location }),
		}
		ix.filterOpts = &opts
	}
	return *ix.filterOpts
}

func (ix *Index) distinctLocked(field func(Summary) string) []string {
	seen := map[string]bool{}
	values := []string{}
	for _, s := range ix.summaries {
		v := field(s)
		if v != "" && !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	ix.collator.SortStrings(values)
	return values
}

// Len returns the number of indexed summaries.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.summaries)
}
