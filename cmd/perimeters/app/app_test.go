package app

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coloradofire/perimeters/pkg/logging"
)

func testApp(t *testing.T) *App {
	t.Helper()
	return &App{
		config: &Config{
			DatabasePath:       defaultDatabasePath,
			ProximityThreshold: defaultProximityThreshold,
			NameSimilarity:     defaultNameSimilarity,
			StartYear:          defaultStartYear,
			EndYear:            defaultEndYear,
		},
		logger:  logging.Default(),
		version: "test",
		commit:  "none",
		date:    "today",
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, defaultProximityThreshold, config.ProximityThreshold)
	assert.Equal(t, defaultNameSimilarity, config.NameSimilarity)
	assert.NotEmpty(t, config.LogFormat)
}

func TestNormalizeCommand(t *testing.T) {
	a := testApp(t)
	root := a.rootCommand()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"normalize", "Spring Fire", "Badger Flats Unit 2"})

	require.NoError(t, root.Execute())

	out := buf.String()
	assert.Contains(t, out, "SPRING")
	assert.Contains(t, out, "BADGERFLATS")
}

func TestVersionCommand(t *testing.T) {
	a := testApp(t)
	root := a.rootCommand()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "perimeters test")
}

func TestRunCommandRequiresInputs(t *testing.T) {
	a := testApp(t)
	root := a.rootCommand()
	root.SetArgs([]string{"run"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--input")
}

func TestLoadRecordsRejectsBadInputSpecs(t *testing.T) {
	a := testApp(t)

	_, err := a.loadRecords([]string{"mtbs.geojson"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SOURCE=PATH")

	_, err = a.loadRecords([]string{"calfire=perimeters.geojson"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source")
}

func TestLoadRecordsMapsGeoJSON(t *testing.T) {
	a := testApp(t)

	const collection = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {
        "incidentname": "WALDO CANYON",
        "fireyear": 2012,
        "agency": "USFS",
        "uniquefireidentifier": "2012-COPSF-000379"
      },
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 1], [0, 0]]]
      }
    }
  ]
}`
	path := filepath.Join(t.TempDir(), "geomac.geojson")
	require.NoError(t, os.WriteFile(path, []byte(collection), 0o644))

	records, err := a.loadRecords([]string{"geomac=" + path})
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, 1, r.ID)
	require.NotNil(t, r.FireName)
	assert.Equal(t, "WALDO CANYON", *r.FireName)
	assert.Equal(t, 2012, r.Year)
	require.NotNil(t, r.Geometry)
}

func TestSourceAliasesSorted(t *testing.T) {
	aliases := sourceAliases()
	require.Len(t, aliases, 6)
	assert.True(t, sort.StringsAreSorted(aliases))
}
