// Package model defines the core domain types shared across the application.
package model

import "time"

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Observation is one incoming citizen submission. It is consumed by the
// matcher and deduplicator and never persisted itself.
type Observation struct {
	ReceivedAt time.Time
	ID         string // Assigned at the boundary
	Text       string
	Location   *GeoPoint // Optional; nil when the submission carried no coordinates
}

// HasLocation reports whether the submission carried coordinates.
func (o *Observation) HasLocation() bool {
	return o.Location != nil
}
