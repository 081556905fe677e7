package geocode

import (
	"context"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
)

// Disabled is the geocoder used when reverse geocoding is turned off. Every
// lookup resolves to the unknown area.
type Disabled struct{}

// ReverseGeocode implements the geocoder contract without calling out.
func (Disabled) ReverseGeocode(_ context.Context, _ model.GeoPoint) string {
	return model.UnknownArea
}
