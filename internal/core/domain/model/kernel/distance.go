package kernel

import (
	"errors"
	"math"

	"freight/internal/pkg/errs"
)

const (
	// EarthRadiusKm is the mean Earth radius used by the haversine formula.
	EarthRadiusKm = 6371.0
	// DefaultAverageSpeedKmh is the average speed of a medium truck.
	DefaultAverageSpeedKmh = 60.0
	// KmPerMile is the exact length of the international mile in kilometres.
	KmPerMile = 1.609344
)

// DistanceResult is a great-circle distance with its estimated driving duration.
type DistanceResult struct {
	distanceKm      float64
	durationMinutes int
}

// NewDistanceResult builds a result from an already computed distance and duration.
// Negative or non-finite values are rejected.
func NewDistanceResult(distanceKm float64, durationMinutes int) (DistanceResult, error) {
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) || distanceKm < 0 {
		return DistanceResult{}, errs.NewValueIsOutOfRangeError("distanceKm", distanceKm, 0, math.Inf(1))
	}
	if durationMinutes < 0 {
		return DistanceResult{}, errs.NewValueIsOutOfRangeError("durationMinutes", durationMinutes, 0, math.MaxInt)
	}
	return DistanceResult{distanceKm: distanceKm, durationMinutes: durationMinutes}, nil
}

// DistanceKm returns the distance in kilometres.
func (d DistanceResult) DistanceKm() float64 {
	return d.distanceKm
}

// DurationMinutes returns the estimated duration rounded to the nearest minute.
func (d DistanceResult) DurationMinutes() int {
	return d.durationMinutes
}

// DistanceMiles returns the distance in international miles.
func (d DistanceResult) DistanceMiles() float64 {
	return KmToMiles(d.distanceKm)
}

// Distance returns the haversine distance between a and b and the duration at
// DefaultAverageSpeedKmh. It is symmetric and Distance(a, a) is zero.
func Distance(a Coordinate, b Coordinate) (DistanceResult, error) {
	return DistanceAtSpeed(a, b, DefaultAverageSpeedKmh)
}

// DistanceAtSpeed is Distance with an explicit average speed, typically taken
// from the vehicle class pricing parameters.
func DistanceAtSpeed(a Coordinate, b Coordinate, speedKmh float64) (DistanceResult, error) {
	if err := errors.Join(a.Validate(), b.Validate()); err != nil {
		return DistanceResult{}, err
	}
	if math.IsNaN(speedKmh) || math.IsInf(speedKmh, 0) || speedKmh <= 0 {
		return DistanceResult{}, errs.NewValueIsOutOfRangeError("speedKmh", speedKmh, 0, math.Inf(1))
	}

	km := HaversineKm(a, b)
	return DistanceResult{distanceKm: km, durationMinutes: EstimateDurationMinutes(km, speedKmh)}, nil
}

// HaversineKm is the raw great-circle distance in kilometres.
// Callers are expected to pass constructed coordinates.
func HaversineKm(a Coordinate, b Coordinate) float64 {
	lat1 := degreesToRadians(a.latitude)
	lat2 := degreesToRadians(b.latitude)
	dLat := lat2 - lat1
	dLon := degreesToRadians(b.longitude - a.longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	// rounding can push h marginally above 1 for antipodal points
	h = math.Min(1, h)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// EstimateDurationMinutes converts a distance into minutes at speedKmh,
// rounded to the nearest minute. A non-positive speed yields zero.
func EstimateDurationMinutes(distanceKm float64, speedKmh float64) int {
	if speedKmh <= 0 || distanceKm <= 0 {
		return 0
	}
	return int(math.Round(distanceKm / speedKmh * 60))
}

// KmToMiles converts kilometres to international miles.
func KmToMiles(km float64) float64 {
	return km / KmPerMile
}

// MilesToKm converts international miles to kilometres.
func MilesToKm(miles float64) float64 {
	return miles * KmPerMile
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
