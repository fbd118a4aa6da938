package geometry

import (
	"context"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/coloradofire/perimeters/pkg/errors"
	"github.com/coloradofire/perimeters/pkg/perimeters"
)

// squareMetersPerAcre converts projected areas to acres.
const squareMetersPerAcre = 4046.8564224

// PlanarEngine is the default Engine: planar math over projected
// coordinates. Distances and areas are computed in coordinate units, so
// inputs are expected in a meter-based projection. Neighbor search uses a
// bounding-box prefilter and minimum vertex-to-boundary distance, which is
// exact for disjoint perimeters and close enough for touching ones.
type PlanarEngine struct{}

// NewPlanarEngine creates the default orb-backed engine.
func NewPlanarEngine() *PlanarEngine {
	return &PlanarEngine{}
}

// NearPairs returns unordered pairs of records within threshold distance.
func (e *PlanarEngine) NearPairs(ctx context.Context, records []perimeters.SourceRecord, threshold float64) ([]Pair, error) {
	type candidate struct {
		id    int
		geom  orb.Geometry
		bound orb.Bound
	}

	candidates := make([]candidate, 0, len(records))
	for _, r := range records {
		if r.Geometry == nil {
			continue
		}
		candidates = append(candidates, candidate{
			id:    r.ID,
			geom:  r.Geometry,
			bound: expand(r.Geometry.Bound(), threshold),
		})
	}

	var pairs []Pair
	for i := 0; i < len(candidates); i++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewGeometryError("near", 0, err)
		}
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			if !a.bound.Intersects(b.bound) {
				continue
			}
			if minDistance(a.geom, b.geom) <= threshold {
				pairs = append(pairs, Pair{A: a.id, B: b.id})
			}
		}
	}
	return pairs, nil
}

// Centroid returns the latitude and longitude of the geometry centroid.
func (e *PlanarEngine) Centroid(g orb.Geometry) (float64, float64, error) {
	if g == nil {
		return 0, 0, errors.NewGeometryError("centroid", 0, errors.New("nil geometry"))
	}
	point, _ := planar.CentroidArea(g)
	return point.Y(), point.X(), nil
}

// Union dissolves polygons into a single multi-part perimeter.
func (e *PlanarEngine) Union(gs []orb.Geometry) (orb.Geometry, error) {
	var mp orb.MultiPolygon
	for _, g := range gs {
		switch v := g.(type) {
		case nil:
			continue
		case orb.Polygon:
			mp = append(mp, v)
		case orb.MultiPolygon:
			mp = append(mp, v...)
		default:
			return nil, errors.NewGeometryError("union", 0,
				errors.New("unsupported geometry type "+g.GeoJSONType()))
		}
	}
	if len(mp) == 0 {
		return nil, errors.NewGeometryError("union", 0, errors.New("no geometries to union"))
	}
	if len(mp) == 1 {
		return mp[0], nil
	}
	return mp, nil
}

// AreaAcres returns the geometry area in acres.
func (e *PlanarEngine) AreaAcres(g orb.Geometry) (float64, error) {
	if g == nil {
		return 0, errors.NewGeometryError("area", 0, errors.New("nil geometry"))
	}
	return math.Abs(planar.Area(g)) / squareMetersPerAcre, nil
}

// expand grows a bound by d in every direction.
func expand(b orb.Bound, d float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.Min[0] - d, b.Min[1] - d},
		Max: orb.Point{b.Max[0] + d, b.Max[1] + d},
	}
}

// minDistance approximates the minimum distance between two geometries as
// the smallest vertex-to-geometry distance in either direction. Zero when
// a vertex of one lies on the boundary of the other.
func minDistance(a, b orb.Geometry) float64 {
	min := math.Inf(1)
	for _, v := range vertices(b) {
		if d := planar.DistanceFrom(a, v); d < min {
			min = d
		}
	}
	for _, v := range vertices(a) {
		if d := planar.DistanceFrom(b, v); d < min {
			min = d
		}
	}
	return min
}

// vertices flattens a geometry into its coordinate points.
func vertices(g orb.Geometry) []orb.Point {
	switch v := g.(type) {
	case orb.Point:
		return []orb.Point{v}
	case orb.MultiPoint:
		return v
	case orb.LineString:
		return v
	case orb.MultiLineString:
		var pts []orb.Point
		for _, ls := range v {
			pts = append(pts, ls...)
		}
		return pts
	case orb.Ring:
		return v
	case orb.Polygon:
		var pts []orb.Point
		for _, r := range v {
			pts = append(pts, r...)
		}
		return pts
	case orb.MultiPolygon:
		var pts []orb.Point
		for _, p := range v {
			pts = append(pts, vertices(p)...)
		}
		return pts
	case orb.Collection:
		var pts []orb.Point
		for _, g := range v {
			pts = append(pts, vertices(g)...)
		}
		return pts
	default:
		return nil
	}
}
