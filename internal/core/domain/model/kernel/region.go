package kernel

import (
	"math"

	"freight/internal/pkg/errs"
)

// Region is an area that can answer approximate containment queries.
//
// Containment is APPROXIMATE: circles use great-circle distance to the centre
// and polygons use planar ray casting on raw latitude/longitude, which is fine
// for city and regional boundaries but not near the poles or across the
// antimeridian. Points exactly on a polygon edge may fall on either side.
type Region interface {
	Contains(p Coordinate) bool
}

// CircleRegion is a centre plus a radius in kilometres.
type CircleRegion struct {
	center   Coordinate
	radiusKm float64
}

// NewCircleRegion validates the centre and a non-negative finite radius.
func NewCircleRegion(center Coordinate, radiusKm float64) (CircleRegion, error) {
	if err := center.Validate(); err != nil {
		return CircleRegion{}, err
	}
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm < 0 {
		return CircleRegion{}, errs.NewValueIsOutOfRangeError("radiusKm", radiusKm, 0, math.Inf(1))
	}
	return CircleRegion{center: center, radiusKm: radiusKm}, nil
}

// Center returns the circle centre.
func (r CircleRegion) Center() Coordinate {
	return r.center
}

// RadiusKm returns the radius in kilometres.
func (r CircleRegion) RadiusKm() float64 {
	return r.radiusKm
}

// Contains reports whether p lies within the radius, boundary included.
func (r CircleRegion) Contains(p Coordinate) bool {
	return HaversineKm(r.center, p) <= r.radiusKm
}

// BoundingBox returns the latitude/longitude rectangle enclosing the circle.
// Repositories use it as an index-friendly prefilter before the exact check.
func (r CircleRegion) BoundingBox() (minLat, maxLat, minLon, maxLon float64) {
	dLat := r.radiusKm / EarthRadiusKm * 180 / math.Pi
	minLat = math.Max(MinLatitude, r.center.latitude-dLat)
	maxLat = math.Min(MaxLatitude, r.center.latitude+dLat)

	cosLat := math.Cos(degreesToRadians(r.center.latitude))
	if cosLat < 1e-9 {
		return minLat, maxLat, MinLongitude, MaxLongitude
	}
	dLon := dLat / cosLat
	minLon = math.Max(MinLongitude, r.center.longitude-dLon)
	maxLon = math.Min(MaxLongitude, r.center.longitude+dLon)
	return minLat, maxLat, minLon, maxLon
}

// PolygonRegion is a closed ring of vertices; the last vertex connects to the first.
type PolygonRegion struct {
	vertices []Coordinate
}

// NewPolygonRegion requires at least three constructed vertices.
func NewPolygonRegion(vertices []Coordinate) (PolygonRegion, error) {
	if len(vertices) < 3 {
		return PolygonRegion{}, errs.NewValueIsOutOfRangeError("vertices", len(vertices), 3, math.MaxInt)
	}
	for _, v := range vertices {
		if err := v.Validate(); err != nil {
			return PolygonRegion{}, err
		}
	}
	return PolygonRegion{vertices: append([]Coordinate(nil), vertices...)}, nil
}

// Contains applies the even-odd ray casting rule with longitude as x and latitude as y.
func (r PolygonRegion) Contains(p Coordinate) bool {
	inside := false
	n := len(r.vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := r.vertices[i], r.vertices[j]
		if (vi.latitude > p.latitude) != (vj.latitude > p.latitude) {
			crossLon := (vj.longitude-vi.longitude)*(p.latitude-vi.latitude)/(vj.latitude-vi.latitude) + vi.longitude
			if p.longitude < crossLon {
				inside = !inside
			}
		}
	}
	return inside
}

// PointInRegion validates p and asks region for approximate containment.
func PointInRegion(p Coordinate, region Region) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}
	if region == nil {
		return false, errs.NewValueIsRequiredError("region")
	}
	return region.Contains(p), nil
}
