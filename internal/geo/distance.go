// Package geo computes great-circle distances between coordinates.
package geo

import "math"

const earthRadiusKm = 6371

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// Haversine returns the great-circle distance in kilometers.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := deg2rad(lat2 - lat1)
	dLon := deg2rad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// DistanceTo returns the distance from p to (lat, lon) rounded to one decimal.
func (p Point) DistanceTo(lat, lon float64) float64 {
	return Round1(Haversine(p.Lat, p.Lng, lat, lon))
}

// DistanceFrom returns the rounded distance from ref, or 0 when either
// coordinate is missing.
func DistanceFrom(ref Point, lat, lon float64) float64 {
	if lat == 0 || lon == 0 {
		return 0
	}
	return ref.DistanceTo(lat, lon)
}

// Round1 rounds half away from zero to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
