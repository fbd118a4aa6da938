// Package perimeters defines the shared data model for the fire perimeter
// reconciliation engine: the per-source input records, the reconciled output
// perimeters, provenance rows, and the source priority table.
package perimeters

import (
	"slices"

	"github.com/paulmach/orb"
)

// SourceID identifies a contributing perimeter dataset.
type SourceID string

// String returns the string representation of a source ID.
func (id SourceID) String() string {
	return string(id)
}

// Contributing source identifiers used throughout the system.
const (
	// MTBS identifies the Monitoring Trends in Burn Severity dataset.
	MTBS SourceID = "MTBS"

	// WFIGSInteragency identifies the WFIGS interagency perimeter feed.
	WFIGSInteragency SourceID = "WFIGS Interagency"

	// WFIGSHistorical identifies the WFIGS historical perimeter archive.
	WFIGSHistorical SourceID = "WFIGS Historical"

	// GeoMAC identifies the GeoMAC historical perimeter archive.
	GeoMAC SourceID = "Geomac"

	// BLMColorado identifies BLM Colorado prescribed fire treatments.
	BLMColorado SourceID = "BLM CO"

	// USFSFacts identifies USFS FACTS prescribed fire activities.
	USFSFacts SourceID = "USFS FACTS"
)

// SourceIDs returns all defined source identifiers in priority order.
func SourceIDs() []SourceID {
	return []SourceID{
		MTBS,
		WFIGSInteragency,
		WFIGSHistorical,
		GeoMAC,
		BLMColorado,
		USFSFacts,
	}
}

// IsValid returns true if the SourceID is one of the defined constants.
func (id SourceID) IsValid() bool {
	return slices.Contains(SourceIDs(), id)
}

// DefaultPriorities returns the fixed trust ranking among sources.
// Lower rank wins attribute conflicts. Ranks are assigned once at mapping
// time and never mutated afterwards.
func DefaultPriorities() map[SourceID]int {
	return map[SourceID]int{
		MTBS:             1,
		WFIGSInteragency: 2,
		WFIGSHistorical:  3,
		GeoMAC:           4,
		BLMColorado:      5,
		USFSFacts:        6,
	}
}

// SourceRecord is one perimeter row after per-source field mapping.
// Optional attributes are pointers; nil means the source had no value.
// Records are read-only once handed to the dedup engine.
type SourceRecord struct {
	// ID is the record identifier within one run, unique and positive.
	// Grouping output is keyed by it, and singleton duplicate-group IDs are
	// allocated above the maximum ID, so callers must keep IDs dense-ish.
	ID int `json:"id" yaml:"id"`

	FireID         *string      `json:"fire_id,omitempty" yaml:"fire_id,omitempty"`
	FireName       *string      `json:"fire_name,omitempty" yaml:"fire_name,omitempty"`
	FireLabel      *string      `json:"fire_label,omitempty" yaml:"fire_label,omitempty"`
	Year           int          `json:"year" yaml:"year"`
	StartMonth     *int         `json:"start_month,omitempty" yaml:"start_month,omitempty"`
	StartDay       *int         `json:"start_day,omitempty" yaml:"start_day,omitempty"`
	Acres          *float64     `json:"acres,omitempty" yaml:"acres,omitempty"`
	FireType       *string      `json:"fire_type,omitempty" yaml:"fire_type,omitempty"`
	Agency         *string      `json:"agency,omitempty" yaml:"agency,omitempty"`
	Source         SourceID     `json:"source" yaml:"source"`
	SourceRecordID *string      `json:"source_id,omitempty" yaml:"source_id,omitempty"`
	Priority       int          `json:"priority" yaml:"priority"` // non-positive means unknown, sorts last
	Geometry       orb.Geometry `json:"-" yaml:"-"`
}

// ReconciledPerimeter is the canonical output record, one per duplicate
// group: priority-reconciled attributes, the merged geometry, and the
// provenance identifier linking back to contributing records.
type ReconciledPerimeter struct {
	FireID         *string      `json:"fire_id,omitempty" yaml:"fire_id,omitempty"`
	FireName       *string      `json:"fire_name,omitempty" yaml:"fire_name,omitempty"`
	FireLabel      *string      `json:"fire_label,omitempty" yaml:"fire_label,omitempty"`
	Year           *int         `json:"year,omitempty" yaml:"year,omitempty"`
	StartMonth     *int         `json:"start_month,omitempty" yaml:"start_month,omitempty"`
	StartDay       *int         `json:"start_day,omitempty" yaml:"start_day,omitempty"`
	Acres          *float64     `json:"acres,omitempty" yaml:"acres,omitempty"`
	FireType       *string      `json:"fire_type,omitempty" yaml:"fire_type,omitempty"`
	Agency         *string      `json:"agency,omitempty" yaml:"agency,omitempty"`
	Source         *SourceID    `json:"source,omitempty" yaml:"source,omitempty"`
	SourceRecordID *string      `json:"source_id,omitempty" yaml:"source_id,omitempty"`
	ProvenanceID   int          `json:"provenance_id" yaml:"provenance_id"`
	Geometry       orb.Geometry `json:"-" yaml:"-"`
}

// ProvenanceEntry links one reconciled perimeter back to one contributing
// source record. Entries are append-only: one row per original input record.
type ProvenanceEntry struct {
	ProvenanceID    int      `json:"provenance_id" yaml:"provenance_id"`
	OriginalID      *string  `json:"original_id,omitempty" yaml:"original_id,omitempty"`
	Source          SourceID `json:"source" yaml:"source"`
	NormalizedLabel string   `json:"normalized_label" yaml:"normalized_label"`
	FireYear        int      `json:"fire_year" yaml:"fire_year"`
}

// FireTypeWildfire and friends are the closed set of reconciled fire types.
const (
	FireTypeWildfire        = "Wildfire"
	FireTypePrescribed      = "Prescribed Fire"
	FireTypeWildlandFireUse = "Wildland Fire Use"
)

// Ptr returns a pointer to v. Convenience for building optional fields.
func Ptr[T any](v T) *T {
	return &v
}
