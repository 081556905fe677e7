package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name   string
		a      model.GeoPoint
		b      model.GeoPoint
		wantKm float64
		tolKm  float64
	}{
		{
			name:   "same point",
			a:      model.GeoPoint{Lat: 12.97, Lon: 77.59},
			b:      model.GeoPoint{Lat: 12.97, Lon: 77.59},
			wantKm: 0,
			tolKm:  0.001,
		},
		{
			name:   "one degree of latitude",
			a:      model.GeoPoint{Lat: 0, Lon: 0},
			b:      model.GeoPoint{Lat: 1, Lon: 0},
			wantKm: 111.19,
			tolKm:  0.5,
		},
		{
			name:   "nearby city reports",
			a:      model.GeoPoint{Lat: 12.97, Lon: 77.59},
			b:      model.GeoPoint{Lat: 12.971, Lon: 77.591},
			wantKm: 0.155,
			tolKm:  0.01,
		},
		{
			name:   "bengaluru to chennai",
			a:      model.GeoPoint{Lat: 12.9716, Lon: 77.5946},
			b:      model.GeoPoint{Lat: 13.0827, Lon: 80.2707},
			wantKm: 290,
			tolKm:  5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.a, tt.b)
			assert.InDelta(t, tt.wantKm, got, tt.tolKm)

			// Distance is symmetric.
			assert.InDelta(t, got, DistanceKm(tt.b, tt.a), 1e-9)
		})
	}
}

func TestCentroid(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, model.GeoPoint{}, Centroid(nil))
	})

	t.Run("single point is itself", func(t *testing.T) {
		p := model.GeoPoint{Lat: 12.97, Lon: 77.59}
		assert.Equal(t, p, Centroid([]model.GeoPoint{p}))
	})

	t.Run("collinear points stay in hull", func(t *testing.T) {
		points := []model.GeoPoint{
			{Lat: 0, Lon: 0},
			{Lat: 0, Lon: 1},
			{Lat: 0, Lon: 2},
		}
		c := Centroid(points)
		assert.InDelta(t, 0, c.Lat, 1e-9)
		assert.GreaterOrEqual(t, c.Lon, 0.0)
		assert.LessOrEqual(t, c.Lon, 2.0)
		assert.InDelta(t, 1.0, c.Lon, 1e-9)
	})
}

func TestMinDistanceKm(t *testing.T) {
	p := model.GeoPoint{Lat: 0, Lon: 0}

	t.Run("empty slice is infinite", func(t *testing.T) {
		assert.True(t, math.IsInf(MinDistanceKm(p, nil), 1))
	})

	t.Run("picks nearest member", func(t *testing.T) {
		points := []model.GeoPoint{
			{Lat: 5, Lon: 5},
			{Lat: 0, Lon: 0.001},
			{Lat: -3, Lon: 2},
		}
		got := MinDistanceKm(p, points)
		assert.InDelta(t, DistanceKm(p, points[1]), got, 1e-9)
	})
}
