// Package sources maps raw perimeter features from each upstream dataset
// into the common record schema. Each dataset ships its own Mapper; the
// registry hands them out by source ID so the pipeline never needs to know
// dataset field names.
package sources

import (
	"github.com/paulmach/orb"

	"github.com/coloradofire/perimeters/pkg/errors"
	"github.com/coloradofire/perimeters/pkg/perimeters"
)

// RawFeature is one feature as it arrives from an upstream service: a flat
// attribute table plus geometry.
type RawFeature struct {
	Attributes map[string]any
	Geometry   orb.Geometry
}

// Mapper converts a dataset's raw features into SourceRecords. Map reports
// per-field conversion problems without aborting the record; an absent
// attribute is not an error, only a value that cannot be interpreted is.
type Mapper interface {
	// Source identifies the dataset this mapper handles.
	Source() perimeters.SourceID

	// Priority is the dataset's reconciliation rank, lower wins.
	Priority() int

	// Map builds the record with the given sequential ID. The record is
	// valid even when err is non-nil; err aggregates field-level
	// conversion failures for logging.
	Map(feature RawFeature, id int) (perimeters.SourceRecord, error)
}

// Filter is implemented by mappers whose dataset mixes perimeter features
// with other activity types. Features rejected by Eligible are skipped
// before mapping.
type Filter interface {
	Eligible(feature RawFeature) bool
}

// registry maps source IDs to their mapper constructors.
var registry = map[perimeters.SourceID]func() Mapper{
	perimeters.MTBS:             func() Mapper { return &mtbsMapper{} },
	perimeters.WFIGSInteragency: func() Mapper { return &wfigsInteragencyMapper{} },
	perimeters.WFIGSHistorical:  func() Mapper { return &wfigsHistoricalMapper{} },
	perimeters.GeoMAC:           func() Mapper { return &geomacMapper{} },
	perimeters.BLMColorado:      func() Mapper { return &blmMapper{} },
	perimeters.USFSFacts:        func() Mapper { return &usfsMapper{} },
}

// Get returns a fresh mapper for the given source.
func Get(id perimeters.SourceID) (Mapper, error) {
	newMapper, ok := registry[id]
	if !ok {
		return nil, &errors.ValidationError{
			Field:   "source",
			Value:   string(id),
			Message: "no mapper registered for source",
		}
	}
	return newMapper(), nil
}

// Has checks whether a source has a registered mapper.
func Has(id perimeters.SourceID) bool {
	_, ok := registry[id]
	return ok
}

// List returns all source IDs with registered mappers in priority order.
func List() []perimeters.SourceID {
	return perimeters.SourceIDs()
}

// MapAll runs a mapper over a feature batch, assigning record IDs
// sequentially from nextID in feature order. Ineligible features are
// skipped. Field-level mapping errors are collected per record and
// returned alongside the records; the records themselves are kept.
func MapAll(m Mapper, features []RawFeature, nextID int) ([]perimeters.SourceRecord, []error) {
	records := make([]perimeters.SourceRecord, 0, len(features))
	var errs []error

	filter, filtered := m.(Filter)
	for _, feature := range features {
		if filtered && !filter.Eligible(feature) {
			continue
		}
		record, err := m.Map(feature, nextID)
		if err != nil {
			errs = append(errs, err)
		}
		records = append(records, record)
		nextID++
	}
	return records, errs
}

// FilterYears keeps records whose year falls inside [start, end]. Records
// with no year are dropped, matching the year range filter applied when
// datasets are merged.
func FilterYears(records []perimeters.SourceRecord, start, end int) []perimeters.SourceRecord {
	kept := make([]perimeters.SourceRecord, 0, len(records))
	for _, r := range records {
		if r.Year < start || r.Year > end {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
