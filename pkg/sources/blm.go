package sources

import (
	"strings"

	"github.com/coloradofire/perimeters/pkg/errors"
	"github.com/coloradofire/perimeters/pkg/normalize"
	"github.com/coloradofire/perimeters/pkg/perimeters"
)

// blmMapper handles BLM Colorado vegetation treatments. The dataset mixes
// all treatment types, so only broadcast prescribed burns pass Eligible:
// treatment code 3, excluding pile burns and anything tagged as wildfire
// or fire use in the name or comments.
type blmMapper struct{}

// blmTreatmentPrescribedFire is the TRTMNT_TYPE_CD value for fire treatments.
const blmTreatmentPrescribedFire = 3

var blmExcludedTerms = []string{"PILE", "PILING", "WILDFIRE", "FIRE USE"}

func (*blmMapper) Source() perimeters.SourceID { return perimeters.BLMColorado }

func (m *blmMapper) Priority() int {
	return perimeters.DefaultPriorities()[m.Source()]
}

func (m *blmMapper) Eligible(feature RawFeature) bool {
	code, err := intAttr(feature.Attributes, "TRTMNT_TYPE_CD", m.Source())
	if err != nil || code == nil || *code != blmTreatmentPrescribedFire {
		return false
	}
	for _, key := range []string{"TRTMNT_NM", "TRTMNT_COMMENTS"} {
		text := strAttr(feature.Attributes, key)
		if text == nil {
			continue
		}
		upper := strings.ToUpper(*text)
		for _, term := range blmExcludedTerms {
			if strings.Contains(upper, term) {
				return false
			}
		}
	}
	return true
}

func (m *blmMapper) Map(feature RawFeature, id int) (perimeters.SourceRecord, error) {
	var errs []error
	attrs := feature.Attributes

	record := perimeters.SourceRecord{
		ID:       id,
		Source:   m.Source(),
		Priority: m.Priority(),
		Geometry: feature.Geometry,
	}

	name := strAttr(attrs, "TRTMNT_NM")
	record.FireName = name
	if name != nil {
		record.FireLabel = perimeters.Ptr(normalize.Title(*name))
	}

	started, err := dateAttr(attrs, "TRTMNT_START_DT", m.Source())
	if err != nil {
		errs = append(errs, err)
	}
	record.Year, record.StartMonth, record.StartDay = datePartsFrom(started)

	record.FireType = perimeters.Ptr(perimeters.FireTypePrescribed)
	record.Agency = perimeters.Ptr("BLM")
	record.SourceRecordID = strAttr(attrs, "UNIQUE_ID")

	return record, errors.Join(errs...)
}
