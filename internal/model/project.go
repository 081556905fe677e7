package model

import "time"

// UnknownArea is the sentinel area name used when reverse geocoding fails.
const UnknownArea = "Unknown"

// ProjectRecord is a stored project need, aggregating every near-duplicate
// observation merged into it. Location is always the centroid of Members.
type ProjectRecord struct {
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ID        string     `json:"id"` // Assigned by the store
	Name      string     `json:"name"`
	Sector    string     `json:"sector"`
	Area      string     `json:"area"`
	Location  GeoPoint   `json:"location"`
	Members   []GeoPoint `json:"members"` // Every observation coordinate merged into this record
	Count     int        `json:"count"`   // Occurrence count, >= 1
}

// Centroid returns the arithmetic mean of the member coordinates. A record
// with no members falls back to its representative location.
func (p *ProjectRecord) Centroid() GeoPoint {
	if len(p.Members) == 0 {
		return p.Location
	}
	var lat, lon float64
	for _, m := range p.Members {
		lat += m.Lat
		lon += m.Lon
	}
	n := float64(len(p.Members))
	return GeoPoint{Lat: lat / n, Lon: lon / n}
}
