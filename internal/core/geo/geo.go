// Package geo contains pure distance and coordinate validity functions.
// This is part of the Functional Core - no I/O, only pure functions.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// ValidLat reports whether lat is within [-90, 90].
func ValidLat(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// ValidLon reports whether lon is within [-180, 180].
func ValidLon(lon float64) bool {
	return lon >= -180 && lon <= 180
}

// ValidCoordinates reports whether the pair is a usable coordinate.
func ValidCoordinates(lat, lon float64) bool {
	return ValidLat(lat) && ValidLon(lon)
}

// Haversine returns the great-circle distance in kilometres between two
// latitude/longitude points on a sphere of Earth's radius.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}
