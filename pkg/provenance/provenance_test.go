package provenance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coloradofire/perimeters/pkg/perimeters"
	"github.com/coloradofire/perimeters/pkg/provenance"
)

func TestBuildOneEntryPerRecord(t *testing.T) {
	records := []perimeters.SourceRecord{
		{ID: 1, Year: 2020, Source: perimeters.MTBS, SourceRecordID: perimeters.Ptr("CO-001")},
		{ID: 2, Year: 2020, Source: perimeters.GeoMAC, SourceRecordID: perimeters.Ptr("GM-17")},
		{ID: 3, Year: 2019, Source: perimeters.USFSFacts},
	}
	groups := map[int]int{1: 1, 2: 1, 3: 4}
	labels := map[int]string{1: "CAMERONPEAK", 2: "CAMERONPEAK", 3: ""}

	entries := provenance.Build(records, groups, labels)

	require.Len(t, entries, len(records))
	assert.Equal(t, 1, entries[0].ProvenanceID)
	assert.Equal(t, "CO-001", *entries[0].OriginalID)
	assert.Equal(t, perimeters.MTBS, entries[0].Source)
	assert.Equal(t, "CAMERONPEAK", entries[0].NormalizedLabel)
	assert.Equal(t, 2020, entries[0].FireYear)

	assert.Equal(t, 1, entries[1].ProvenanceID)
	assert.Equal(t, 4, entries[2].ProvenanceID)
	assert.Nil(t, entries[2].OriginalID)
}

func TestTracker(t *testing.T) {
	tr := provenance.NewTracker()
	tr.Track(perimeters.ProvenanceEntry{ProvenanceID: 1, Source: perimeters.MTBS})
	tr.Track(perimeters.ProvenanceEntry{ProvenanceID: 2, Source: perimeters.GeoMAC})
	tr.Track(perimeters.ProvenanceEntry{ProvenanceID: 1, Source: perimeters.BLMColorado})

	assert.Equal(t, 3, tr.Len())
	assert.Len(t, tr.ByProvenanceID(1), 2)
	assert.Len(t, tr.ByProvenanceID(2), 1)
	assert.Nil(t, tr.ByProvenanceID(99))

	// Entries returns a copy; mutating it must not affect the tracker.
	entries := tr.Entries()
	entries[0].ProvenanceID = 42
	assert.Equal(t, 1, tr.Entries()[0].ProvenanceID)
}
