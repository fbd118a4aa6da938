package sources

import (
	"github.com/coloradofire/perimeters/pkg/errors"
	"github.com/coloradofire/perimeters/pkg/normalize"
	"github.com/coloradofire/perimeters/pkg/perimeters"
)

// mtbsMapper handles Monitoring Trends in Burn Severity perimeters.
// MTBS is the only dataset that carries an authoritative fire identifier,
// which is why it also holds the top reconciliation priority.
type mtbsMapper struct{}

func (*mtbsMapper) Source() perimeters.SourceID { return perimeters.MTBS }

func (m *mtbsMapper) Priority() int {
	return perimeters.DefaultPriorities()[m.Source()]
}

func (m *mtbsMapper) Map(feature RawFeature, id int) (perimeters.SourceRecord, error) {
	var errs []error
	attrs := feature.Attributes

	record := perimeters.SourceRecord{
		ID:       id,
		Source:   m.Source(),
		Priority: m.Priority(),
		Geometry: feature.Geometry,
	}

	eventID := strAttr(attrs, "Event_ID")
	record.FireID = eventID
	record.SourceRecordID = eventID

	name := strAttr(attrs, "Incid_Name")
	if name != nil && *name == "UNNAMED" {
		record.FireName = perimeters.Ptr("Unknown")
	} else {
		record.FireName = name
	}
	if name != nil {
		record.FireLabel = perimeters.Ptr(normalize.Title(*name))
	}

	igDate, err := dateAttr(attrs, "Ig_Date", m.Source())
	if err != nil {
		errs = append(errs, err)
	}
	record.Year, record.StartMonth, record.StartDay = datePartsFrom(igDate)

	record.FireType = strAttr(attrs, "Incid_Type")

	return record, errors.Join(errs...)
}
