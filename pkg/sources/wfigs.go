package sources

import (
	"strings"

	"github.com/coloradofire/perimeters/pkg/errors"
	"github.com/coloradofire/perimeters/pkg/normalize"
	"github.com/coloradofire/perimeters/pkg/perimeters"
)

// wfigsInteragencyMapper handles the live WFIGS interagency perimeter feed.
type wfigsInteragencyMapper struct{}

func (*wfigsInteragencyMapper) Source() perimeters.SourceID { return perimeters.WFIGSInteragency }

func (m *wfigsInteragencyMapper) Priority() int {
	return perimeters.DefaultPriorities()[m.Source()]
}

func (m *wfigsInteragencyMapper) Map(feature RawFeature, id int) (perimeters.SourceRecord, error) {
	var errs []error
	attrs := feature.Attributes

	record := perimeters.SourceRecord{
		ID:       id,
		Source:   m.Source(),
		Priority: m.Priority(),
		Geometry: feature.Geometry,
	}

	name := strAttr(attrs, "poly_IncidentName")
	record.FireName = name
	if name != nil {
		record.FireLabel = perimeters.Ptr(normalize.Title(*name))
	}

	discovery, err := dateAttr(attrs, "attr_FireDiscoveryDateTime", m.Source())
	if err != nil {
		errs = append(errs, err)
	}
	record.Year, record.StartMonth, record.StartDay = datePartsFrom(discovery)

	if category := strAttr(attrs, "attr_IncidentTypeCategory"); category != nil && *category == "RX" {
		record.FireType = perimeters.Ptr(perimeters.FireTypePrescribed)
	} else {
		record.FireType = perimeters.Ptr(perimeters.FireTypeWildfire)
	}

	record.Agency = strAttr(attrs, "attr_POOProtectingAgency")
	record.SourceRecordID = strAttr(attrs, "attr_UniqueFireIdentifier")

	return record, errors.Join(errs...)
}

// wfigsHistoricalMapper handles the WFIGS historical perimeter archive.
// The archive carries a fire year but no start date.
type wfigsHistoricalMapper struct{}

func (*wfigsHistoricalMapper) Source() perimeters.SourceID { return perimeters.WFIGSHistorical }

func (m *wfigsHistoricalMapper) Priority() int {
	return perimeters.DefaultPriorities()[m.Source()]
}

func (m *wfigsHistoricalMapper) Map(feature RawFeature, id int) (perimeters.SourceRecord, error) {
	var errs []error
	attrs := feature.Attributes

	record := perimeters.SourceRecord{
		ID:       id,
		Source:   m.Source(),
		Priority: m.Priority(),
		Geometry: feature.Geometry,
	}

	name := strAttr(attrs, "INCIDENT")
	record.FireName = name
	if name != nil {
		record.FireLabel = perimeters.Ptr(normalize.Title(*name))
	}

	year, err := intAttr(attrs, "FIRE_YEAR", m.Source())
	if err != nil {
		errs = append(errs, err)
	}
	if year != nil {
		record.Year = *year
	}

	if category := strAttr(attrs, "FEATURE_CA"); category != nil && strings.HasPrefix(*category, "Wildfire") {
		record.FireType = perimeters.Ptr(perimeters.FireTypeWildfire)
	} else {
		record.FireType = perimeters.Ptr(perimeters.FireTypePrescribed)
	}

	record.Agency = strAttr(attrs, "AGENCY")
	record.SourceRecordID = strAttr(attrs, "UNQE_FIRE_")

	return record, errors.Join(errs...)
}
