package sources

import (
	"github.com/coloradofire/perimeters/pkg/errors"
	"github.com/coloradofire/perimeters/pkg/normalize"
	"github.com/coloradofire/perimeters/pkg/perimeters"
)

// usfsMapper handles USFS FACTS common attribute activities. FACTS records
// every silvicultural activity, so Eligible keeps only the burn activity
// types that produce an actual fire footprint.
type usfsMapper struct{}

var usfsBurnActivities = map[string]struct{}{
	"Broadcast Burning - Covers a majority of the unit":   {},
	"Control of Understory Vegetation- Burning":           {},
	"Site Preparation for Natural Regeneration - Burning": {},
	"Site Preparation for Planting - Burning":             {},
	"Underburn - Low Intensity (Majority of Unit)":        {},
}

func (*usfsMapper) Source() perimeters.SourceID { return perimeters.USFSFacts }

func (m *usfsMapper) Priority() int {
	return perimeters.DefaultPriorities()[m.Source()]
}

func (m *usfsMapper) Eligible(feature RawFeature) bool {
	activity := strAttr(feature.Attributes, "ACTIVITY")
	if activity == nil {
		return false
	}
	_, ok := usfsBurnActivities[*activity]
	return ok
}

func (m *usfsMapper) Map(feature RawFeature, id int) (perimeters.SourceRecord, error) {
	var errs []error
	attrs := feature.Attributes

	record := perimeters.SourceRecord{
		ID:       id,
		Source:   m.Source(),
		Priority: m.Priority(),
		Geometry: feature.Geometry,
	}

	name := strAttr(attrs, "NAME")
	record.FireName = name
	if name != nil {
		record.FireLabel = perimeters.Ptr(normalize.Title(*name))
	}

	completed, err := dateAttr(attrs, "DATE_COMPLETED", m.Source())
	if err != nil {
		errs = append(errs, err)
	}
	record.Year, record.StartMonth, record.StartDay = datePartsFrom(completed)

	record.FireType = perimeters.Ptr(perimeters.FireTypePrescribed)
	record.Agency = perimeters.Ptr("USFS")
	record.SourceRecordID = strAttr(attrs, "EVENT_CN")

	return record, errors.Join(errs...)
}
