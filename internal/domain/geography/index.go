package geography

import (
	"sync/atomic"
	"time"
)

// PostalArea is one row of the postal reference dataset
type PostalArea struct {
	Postal          string   `json:"postal"`
	City            string   `json:"city"`
	State           string   `json:"state"`
	IsMetro         bool     `json:"is_metro"`
	IsSpecialRegion bool     `json:"is_special_region"`
	Classification  ZoneCode `json:"classification"`
}

// PostalIndex is an immutable snapshot of the postal reference dataset.
// It is built once by the loader and never mutated; a refresh produces a
// whole new snapshot.
type PostalIndex struct {
	areas    map[string]PostalArea
	loadedAt time.Time
}

// NewPostalIndex builds an index snapshot from the given areas
func NewPostalIndex(areas map[string]PostalArea) *PostalIndex {
	// Copy so callers cannot mutate the snapshot afterwards
	copied := make(map[string]PostalArea, len(areas))
	for k, v := range areas {
		copied[k] = v
	}
	return &PostalIndex{
		areas:    copied,
		loadedAt: time.Now(),
	}
}

// Lookup returns the postal area for a code, and whether it is serviceable
func (i *PostalIndex) Lookup(postal string) (PostalArea, bool) {
	area, ok := i.areas[postal]
	return area, ok
}

// Len returns the number of serviceable postal codes in the snapshot
func (i *PostalIndex) Len() int {
	return len(i.areas)
}

// LoadedAt returns when this snapshot was built
func (i *PostalIndex) LoadedAt() time.Time {
	return i.loadedAt
}

// IndexProvider hands out the current postal index snapshot.
// Reads are unsynchronized; a refresh atomically swaps the whole snapshot
// so readers never observe a half-updated index.
type IndexProvider struct {
	current atomic.Pointer[PostalIndex]
}

// NewIndexProvider creates a provider seeded with the given snapshot
func NewIndexProvider(index *PostalIndex) *IndexProvider {
	p := &IndexProvider{}
	p.current.Store(index)
	return p
}

// Current returns the active index snapshot
func (p *IndexProvider) Current() *PostalIndex {
	return p.current.Load()
}

// Replace atomically swaps in a new snapshot
func (p *IndexProvider) Replace(index *PostalIndex) {
	p.current.Store(index)
}
