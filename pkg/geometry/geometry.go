// Package geometry defines the engine interface the reconciliation core
// uses for spatial work (neighbor search, dissolve, centroid, area) and a
// default planar implementation built on github.com/paulmach/orb.
//
// The core never computes distances itself; it consumes neighbor pairs and
// merged geometries produced here. Engine calls are synchronous and
// blocking; the core treats per-record failures as non-fatal.
package geometry

import (
	"context"

	"github.com/paulmach/orb"

	"github.com/coloradofire/perimeters/pkg/perimeters"
)

// Pair is an unordered pair of record identifiers known to lie within the
// configured distance threshold of each other.
type Pair struct {
	A int
	B int
}

// Engine is the external geometry collaborator. Implementations must be
// safe for use by one pipeline run at a time; no retry contract is
// required of them.
type Engine interface {
	// NearPairs returns the unordered record-id pairs whose geometries lie
	// within threshold distance of each other. Threshold is in the units
	// of the input coordinates. Self-pairs are never returned. Records
	// without geometry participate in no pair.
	NearPairs(ctx context.Context, records []perimeters.SourceRecord, threshold float64) ([]Pair, error)

	// Centroid returns the latitude and longitude of the geometry centroid.
	Centroid(g orb.Geometry) (lat, lon float64, err error)

	// Union dissolves a set of geometries into one multi-part geometry.
	Union(gs []orb.Geometry) (orb.Geometry, error)

	// AreaAcres returns the geometry area in acres.
	AreaAcres(g orb.Geometry) (float64, error)
}
