package app

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/coloradofire/perimeters/pkg/errors"
	"github.com/coloradofire/perimeters/pkg/perimeters"
	"github.com/coloradofire/perimeters/pkg/sources"
)

// sourceByAlias maps CLI-friendly names to source identifiers.
var sourceByAlias = map[string]perimeters.SourceID{
	"mtbs":              perimeters.MTBS,
	"wfigs-interagency": perimeters.WFIGSInteragency,
	"wfigs-historical":  perimeters.WFIGSHistorical,
	"geomac":            perimeters.GeoMAC,
	"blm":               perimeters.BLMColorado,
	"usfs":              perimeters.USFSFacts,
}

func sourceAliases() []string {
	aliases := make([]string, 0, len(sourceByAlias))
	for alias := range sourceByAlias {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// loadRecords maps every input file through its source schema and returns
// one combined batch with sequential record identifiers. Inputs are
// processed in the order given so record identifiers, and with them group
// identifiers, are reproducible. The year range filter is applied by the
// pipeline itself.
func (a *App) loadRecords(inputs []string) ([]perimeters.SourceRecord, error) {
	var records []perimeters.SourceRecord
	nextID := 1

	for _, input := range inputs {
		alias, path, ok := strings.Cut(input, "=")
		if !ok {
			return nil, fmt.Errorf("input %q is not SOURCE=PATH", input)
		}
		sourceID, ok := sourceByAlias[strings.ToLower(alias)]
		if !ok {
			return nil, fmt.Errorf("unknown source %q (one of: %s)", alias, strings.Join(sourceAliases(), ", "))
		}

		mapper, err := sources.Get(sourceID)
		if err != nil {
			return nil, err
		}
		features, err := loadFeatures(path)
		if err != nil {
			return nil, err
		}

		mapped, mapErrs := sources.MapAll(mapper, features, nextID)
		for _, mapErr := range mapErrs {
			a.logger.Warn().Err(mapErr).Str("source", sourceID.String()).Msg("field mapping error, field left empty")
		}
		if len(mapped) > 0 {
			nextID = mapped[len(mapped)-1].ID + 1
		}

		a.logger.Info().
			Str("source", sourceID.String()).
			Str("path", path).
			Int("features", len(features)).
			Int("records", len(mapped)).
			Msg("mapped source file")
		records = append(records, mapped...)
	}

	return records, nil
}

// writeFeatureCollection writes a fetched feature collection as GeoJSON.
func writeFeatureCollection(path string, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return errors.WrapParse("geojson", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// loadFeatures reads one GeoJSON feature collection from disk.
func loadFeatures(path string) ([]sources.RawFeature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.WrapParse("geojson", path, err)
	}

	features := make([]sources.RawFeature, 0, len(fc.Features))
	for _, f := range fc.Features {
		features = append(features, sources.RawFeature{
			Attributes: map[string]any(f.Properties),
			Geometry:   f.Geometry,
		})
	}
	return features, nil
}
