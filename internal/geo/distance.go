// Package geo provides great-circle distance and centroid math for
// clustering nearby citizen reports.
package geo

import (
	"math"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// DistanceKm returns the haversine great-circle distance between two points
// in kilometers.
func DistanceKm(a, b model.GeoPoint) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// Centroid returns the arithmetic mean of the given points. Reports cluster
// within a few kilometers, so the planar mean is indistinguishable from the
// spherical one at this scale.
func Centroid(points []model.GeoPoint) model.GeoPoint {
	if len(points) == 0 {
		return model.GeoPoint{}
	}

	var lat, lon float64
	for _, p := range points {
		lat += p.Lat
		lon += p.Lon
	}

	n := float64(len(points))
	return model.GeoPoint{Lat: lat / n, Lon: lon / n}
}

// MinDistanceKm returns the smallest distance from p to any of the points.
// Returns +Inf for an empty slice.
func MinDistanceKm(p model.GeoPoint, points []model.GeoPoint) float64 {
	min := math.Inf(1)
	for _, q := range points {
		if d := DistanceKm(p, q); d < min {
			min = d
		}
	}
	return min
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
