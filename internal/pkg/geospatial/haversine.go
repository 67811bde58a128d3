package geospatial

import "math"

const earthRadiusKm = 6371.0

// HaversineKm calculates the great-circle distance in kilometers between
// two points. It is symmetric in its arguments and zero only when both
// points coincide. Inputs are assumed to be valid WGS 84 degrees; range
// checking belongs to the callers that accept external input.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
