package sources

import (
	"github.com/coloradofire/perimeters/pkg/errors"
	"github.com/coloradofire/perimeters/pkg/normalize"
	"github.com/coloradofire/perimeters/pkg/perimeters"
)

// geomacMapper handles the retired GeoMAC perimeter archive. The fire year
// is its own attribute; month and day come from the perimeter capture
// timestamp when present.
type geomacMapper struct{}

func (*geomacMapper) Source() perimeters.SourceID { return perimeters.GeoMAC }

func (m *geomacMapper) Priority() int {
	return perimeters.DefaultPriorities()[m.Source()]
}

func (m *geomacMapper) Map(feature RawFeature, id int) (perimeters.SourceRecord, error) {
	var errs []error
	attrs := feature.Attributes

	record := perimeters.SourceRecord{
		ID:       id,
		Source:   m.Source(),
		Priority: m.Priority(),
		Geometry: feature.Geometry,
	}

	name := strAttr(attrs, "incidentname")
	record.FireName = name
	if name != nil {
		record.FireLabel = perimeters.Ptr(normalize.Title(*name))
	}

	year, err := intAttr(attrs, "fireyear", m.Source())
	if err != nil {
		errs = append(errs, err)
	}
	if year != nil {
		record.Year = *year
	}

	captured, err := dateAttr(attrs, "perimeterdatetime", m.Source())
	if err != nil {
		errs = append(errs, err)
	}
	_, record.StartMonth, record.StartDay = datePartsFrom(captured)

	record.FireType = perimeters.Ptr(perimeters.FireTypeWildfire)
	record.Agency = strAttr(attrs, "agency")
	record.SourceRecordID = strAttr(attrs, "uniquefireidentifier")

	return record, errors.Join(errs...)
}
