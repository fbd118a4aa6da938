package pipeline_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coloradofire/perimeters/internal/pipeline"
	"github.com/coloradofire/perimeters/pkg/errors"
	"github.com/coloradofire/perimeters/pkg/geometry"
	"github.com/coloradofire/perimeters/pkg/perimeters"
)

// square builds a size x size polygon with its lower-left corner at (x, y).
func square(x, y, size float64) orb.Polygon {
	return orb.Polygon{{
		{x, y},
		{x + size, y},
		{x + size, y + size},
		{x, y + size},
		{x, y},
	}}
}

func newPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	return pipeline.New(pipeline.DefaultConfig(), geometry.NewPlanarEngine())
}

func TestRunMergesNearbySameNamePerimeters(t *testing.T) {
	// Two perimeters 300 units apart with matching normalized labels,
	// inside the 500 unit search radius.
	records := []perimeters.SourceRecord{
		{
			ID:        1,
			FireName:  perimeters.Ptr("CAMERON PEAK"),
			FireLabel: perimeters.Ptr("Cameron Peak"),
			Year:      2020,
			Source:    perimeters.MTBS,
			Priority:  1,
			Geometry:  square(0, 0, 100),
		},
		{
			ID:        2,
			FireName:  perimeters.Ptr("Cameron Peak Fire"),
			FireLabel: perimeters.Ptr("Cameron Peak Fire"),
			Year:      2020,
			Source:    perimeters.GeoMAC,
			Priority:  4,
			Geometry:  square(400, 0, 100),
		},
	}

	result, err := newPipeline(t).Run(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, result.Perimeters, 1)
	assert.Equal(t, 2, result.Report.InputRecords)
	assert.Equal(t, 1, result.Report.DuplicateGroups)
	assert.Empty(t, result.Report.RecordErrors)

	require.Len(t, result.Provenance, 2)
	assert.Equal(t, result.Provenance[0].ProvenanceID, result.Provenance[1].ProvenanceID)
	assert.Equal(t, result.Perimeters[0].ProvenanceID, result.Provenance[0].ProvenanceID)
}

func TestRunKeepsDistantPerimetersSeparate(t *testing.T) {
	// Same name and year, but 800 units apart: no proximity edge, no merge.
	records := []perimeters.SourceRecord{
		{
			ID:        1,
			FireLabel: perimeters.Ptr("Cameron Peak"),
			Year:      2020,
			Source:    perimeters.MTBS,
			Priority:  1,
			Geometry:  square(0, 0, 100),
		},
		{
			ID:        2,
			FireLabel: perimeters.Ptr("Cameron Peak"),
			Year:      2020,
			Source:    perimeters.GeoMAC,
			Priority:  4,
			Geometry:  square(900, 0, 100),
		},
	}

	result, err := newPipeline(t).Run(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, result.Perimeters, 2)
	assert.NotEqual(t, result.Perimeters[0].ProvenanceID, result.Perimeters[1].ProvenanceID)
}

func TestRunMergesTransitively(t *testing.T) {
	// A and B share a name, B and C share a start date. All three sit in
	// one proximity chain, so the duplicate merge joins them into one
	// perimeter even though A and C share nothing directly.
	records := []perimeters.SourceRecord{
		{
			ID:        1,
			FireLabel: perimeters.Ptr("Badger Creek"),
			Year:      2018,
			Source:    perimeters.MTBS,
			Priority:  1,
			Geometry:  square(0, 0, 100),
		},
		{
			ID:         2,
			FireLabel:  perimeters.Ptr("Badger Creek"),
			Year:       2018,
			StartMonth: perimeters.Ptr(6),
			StartDay:   perimeters.Ptr(23),
			Source:     perimeters.WFIGSInteragency,
			Priority:   2,
			Geometry:   square(400, 0, 100),
		},
		{
			ID:         3,
			FireLabel:  perimeters.Ptr("Rogers Canyon"),
			Year:       2018,
			StartMonth: perimeters.Ptr(6),
			StartDay:   perimeters.Ptr(23),
			Source:     perimeters.GeoMAC,
			Priority:   4,
			Geometry:   square(800, 0, 100),
		},
	}

	result, err := newPipeline(t).Run(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, result.Perimeters, 1)
	require.Len(t, result.Provenance, 3)
	for _, entry := range result.Provenance {
		assert.Equal(t, result.Perimeters[0].ProvenanceID, entry.ProvenanceID)
	}
}

func TestRunReconcilesByPriority(t *testing.T) {
	records := []perimeters.SourceRecord{
		{
			ID:        1,
			FireLabel: perimeters.Ptr("Spring Creek"),
			Year:      2018,
			Agency:    perimeters.Ptr("BLM"),
			Source:    perimeters.BLMColorado,
			Priority:  5,
			Geometry:  square(0, 0, 100),
		},
		{
			ID:        2,
			FireID:    perimeters.Ptr("CO3726910484520180627"),
			FireLabel: perimeters.Ptr("Spring Creek"),
			Year:      2018,
			Source:    perimeters.MTBS,
			Priority:  1,
			Geometry:  square(50, 0, 100),
		},
	}

	result, err := newPipeline(t).Run(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, result.Perimeters, 1)
	p := result.Perimeters[0]

	require.NotNil(t, p.FireID)
	assert.Equal(t, "CO3726910484520180627", *p.FireID)
	require.NotNil(t, p.Source)
	assert.Equal(t, perimeters.MTBS, *p.Source)
	require.NotNil(t, p.Agency)
	assert.Equal(t, "BLM", *p.Agency)
	assert.Zero(t, result.Report.SynthesizedIDs)

	// Acres come from the dissolved footprint, not any source value.
	require.NotNil(t, p.Acres)
	assert.Greater(t, *p.Acres, 0.0)
}

func TestRunSynthesizesFireID(t *testing.T) {
	center := orb.Point{-105.654321, 39.123456}
	size := 0.001
	records := []perimeters.SourceRecord{
		{
			ID:         1,
			FireLabel:  perimeters.Ptr("Lost Creek"),
			Year:       2020,
			StartMonth: perimeters.Ptr(7),
			StartDay:   perimeters.Ptr(4),
			Source:     perimeters.WFIGSInteragency,
			Priority:   2,
			Geometry:   square(center.X()-size/2, center.Y()-size/2, size),
		},
	}

	result, err := newPipeline(t).Run(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, result.Perimeters, 1)
	p := result.Perimeters[0]
	require.NotNil(t, p.FireID)
	assert.Regexp(t, regexp.MustCompile(`^CO\d{6}\d{5}20200704$`), *p.FireID)
	assert.Len(t, *p.FireID, 21)
	assert.Equal(t, 1, result.Report.SynthesizedIDs)
}

func TestRunCleansReconciledNameAndType(t *testing.T) {
	records := []perimeters.SourceRecord{
		{
			ID:        1,
			FireName:  perimeters.Ptr("Badger Flats Unit 2"),
			FireLabel: perimeters.Ptr("Badger Flats Unit 2"),
			Year:      2015,
			FireType:  perimeters.Ptr(perimeters.FireTypeWildlandFireUse),
			Source:    perimeters.USFSFacts,
			Priority:  6,
			Geometry:  square(0, 0, 100),
		},
	}

	result, err := newPipeline(t).Run(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, result.Perimeters, 1)
	p := result.Perimeters[0]
	require.NotNil(t, p.FireName)
	assert.Equal(t, "Badger Flats", *p.FireName)
	require.NotNil(t, p.FireType)
	assert.Equal(t, perimeters.FireTypeWildfire, *p.FireType)
}

func TestRunNeverMergesPlaceholderNames(t *testing.T) {
	// Two nearby same-year records both carry the "Unknown" placeholder.
	// The scrub removes the placeholders before labels are normalized, so
	// identical placeholder text never counts as a name match.
	records := []perimeters.SourceRecord{
		{
			ID:        1,
			FireName:  perimeters.Ptr("Unknown"),
			FireLabel: perimeters.Ptr("Unknown"),
			Year:      2020,
			Agency:    perimeters.Ptr("N/A"),
			Source:    perimeters.MTBS,
			Priority:  1,
			Geometry:  square(0, 0, 100),
		},
		{
			ID:        2,
			FireName:  perimeters.Ptr("UNKNOWN"),
			FireLabel: perimeters.Ptr("UNKNOWN"),
			Year:      2020,
			Source:    perimeters.GeoMAC,
			Priority:  4,
			Geometry:  square(400, 0, 100),
		},
	}

	result, err := newPipeline(t).Run(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, result.Perimeters, 2)
	assert.NotEqual(t, result.Perimeters[0].ProvenanceID, result.Perimeters[1].ProvenanceID)

	// Placeholder values never survive into the reconciled output.
	for _, p := range result.Perimeters {
		assert.Nil(t, p.FireName)
		assert.Nil(t, p.FireLabel)
		assert.Nil(t, p.Agency)
	}
}

func TestRunFiltersYearRange(t *testing.T) {
	records := []perimeters.SourceRecord{
		{ID: 1, FireLabel: perimeters.Ptr("In Range"), Year: 2010, Source: perimeters.MTBS, Priority: 1, Geometry: square(0, 0, 100)},
		{ID: 2, FireLabel: perimeters.Ptr("Too Early"), Year: 1970, Source: perimeters.GeoMAC, Priority: 4, Geometry: square(5000, 0, 100)},
		{ID: 3, FireLabel: perimeters.Ptr("No Year"), Source: perimeters.BLMColorado, Priority: 5, Geometry: square(10000, 0, 100)},
	}

	result, err := newPipeline(t).Run(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Report.InputRecords)
	require.Len(t, result.Perimeters, 1)
	require.NotNil(t, result.Perimeters[0].FireLabel)
	assert.Equal(t, "In Range", *result.Perimeters[0].FireLabel)
	require.Len(t, result.Provenance, 1)
}

func TestRunRejectsMissingIdentifiers(t *testing.T) {
	records := []perimeters.SourceRecord{
		{Year: 2020, Geometry: square(0, 0, 100)},
	}

	_, err := newPipeline(t).Run(context.Background(), records)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMissingIdentifier)
}

func TestRunRejectsDuplicateIdentifiers(t *testing.T) {
	records := []perimeters.SourceRecord{
		{ID: 1, Year: 2020, Geometry: square(0, 0, 100)},
		{ID: 1, Year: 2020, Geometry: square(900, 0, 100)},
	}

	_, err := newPipeline(t).Run(context.Background(), records)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMissingIdentifier)
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newPipeline(t).Run(ctx, []perimeters.SourceRecord{
		{ID: 1, Year: 2020, Geometry: square(0, 0, 100)},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunProvenanceIsTotal(t *testing.T) {
	records := []perimeters.SourceRecord{
		{ID: 4, FireLabel: perimeters.Ptr("One"), Year: 2001, Source: perimeters.MTBS, Priority: 1, Geometry: square(0, 0, 100)},
		{ID: 9, FireLabel: perimeters.Ptr("Two"), Year: 2002, Source: perimeters.GeoMAC, Priority: 4, Geometry: square(5000, 0, 100)},
		{ID: 11, Year: 2003, Source: perimeters.BLMColorado, Priority: 5, Geometry: square(10000, 0, 100)},
	}

	result, err := newPipeline(t).Run(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, result.Provenance, len(records))
	seen := make(map[int]bool)
	for _, entry := range result.Provenance {
		seen[entry.ProvenanceID] = true
	}
	assert.Len(t, seen, 3)
	assert.Len(t, result.Perimeters, 3)
}
