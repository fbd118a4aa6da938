// Package provenance tracks the mapping from each final duplicate-group
// identifier back to every contributing original record. One entry per
// input record, append-only, never overwritten.
package provenance

import (
	"github.com/coloradofire/perimeters/pkg/perimeters"
)

// Tracker accumulates provenance entries during a reconciliation run.
type Tracker interface {
	// Track appends one provenance entry.
	Track(entry perimeters.ProvenanceEntry)

	// Entries returns all tracked entries in insertion order.
	Entries() []perimeters.ProvenanceEntry

	// ByProvenanceID returns the entries contributing to one duplicate group.
	ByProvenanceID(id int) []perimeters.ProvenanceEntry

	// Len returns the number of tracked entries.
	Len() int
}

// tracker is the default implementation.
type tracker struct {
	entries []perimeters.ProvenanceEntry
	byID    map[int][]int // provenance ID -> entry indexes
}

// NewTracker creates an empty provenance tracker.
func NewTracker() Tracker {
	return &tracker{byID: make(map[int][]int)}
}

// Track appends one provenance entry.
func (t *tracker) Track(entry perimeters.ProvenanceEntry) {
	t.byID[entry.ProvenanceID] = append(t.byID[entry.ProvenanceID], len(t.entries))
	t.entries = append(t.entries, entry)
}

// Entries returns a copy of all tracked entries in insertion order.
func (t *tracker) Entries() []perimeters.ProvenanceEntry {
	return append([]perimeters.ProvenanceEntry{}, t.entries...)
}

// ByProvenanceID returns the entries contributing to one duplicate group.
func (t *tracker) ByProvenanceID(id int) []perimeters.ProvenanceEntry {
	indexes := t.byID[id]
	if len(indexes) == 0 {
		return nil
	}
	result := make([]perimeters.ProvenanceEntry, 0, len(indexes))
	for _, i := range indexes {
		result = append(result, t.entries[i])
	}
	return result
}

// Len returns the number of tracked entries.
func (t *tracker) Len() int {
	return len(t.entries)
}

// Build emits one provenance entry per original record, keyed by its
// duplicate-group identifier. groups must be total over records; labels
// carries each record's normalized label.
func Build(records []perimeters.SourceRecord, groups map[int]int, labels map[int]string) []perimeters.ProvenanceEntry {
	t := NewTracker()
	for _, r := range records {
		t.Track(perimeters.ProvenanceEntry{
			ProvenanceID:    groups[r.ID],
			OriginalID:      r.SourceRecordID,
			Source:          r.Source,
			NormalizedLabel: labels[r.ID],
			FireYear:        r.Year,
		})
	}
	return t.Entries()
}
