package dedup

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/service"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/storage"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/testutil"
)

func TestUpsert_CreatesNewRecord(t *testing.T) {
	store := testutil.SetupTestDB(t)
	geocoder := &testutil.StubGeocoder{Area: "Indiranagar"}
	d := New(store, geocoder)
	ctx := context.Background()

	record, err := d.Upsert(ctx, "school", "education", model.GeoPoint{Lat: 12.97, Lon: 77.59})
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "school", record.Name)
	assert.Equal(t, "education", record.Sector)
	assert.Equal(t, 1, record.Count)
	assert.Equal(t, "Indiranagar", record.Area)
	require.Len(t, record.Members, 1)
	assert.InDelta(t, 12.97, record.Location.Lat, 1e-9)
}

func TestUpsert_MergesNearbyObservation(t *testing.T) {
	store := testutil.SetupTestDB(t)
	d := New(store, &testutil.StubGeocoder{Area: "Indiranagar"})
	ctx := context.Background()

	first, err := d.Upsert(ctx, "school", "education", model.GeoPoint{Lat: 12.97, Lon: 77.59})
	require.NoError(t, err)

	// ~150 m away, well within the 5 km radius.
	second, err := d.Upsert(ctx, "school", "education", model.GeoPoint{Lat: 12.971, Lon: 77.591})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Count)
	require.Len(t, second.Members, 2)

	// Representative location shifts toward the midpoint.
	assert.InDelta(t, 12.9705, second.Location.Lat, 1e-6)
	assert.InDelta(t, 77.5905, second.Location.Lon, 1e-6)

	records, err := store.GetProjects(ctx, service.ProjectFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestUpsert_IdempotentUnderProximity(t *testing.T) {
	store := testutil.SetupTestDB(t)
	d := New(store, &testutil.StubGeocoder{})
	ctx := context.Background()
	loc := model.GeoPoint{Lat: 12.97, Lon: 77.59}

	_, err := d.Upsert(ctx, "school", "education", loc)
	require.NoError(t, err)

	record, err := d.Upsert(ctx, "school", "education", loc)
	require.NoError(t, err)

	// Centroid of two identical points is that point.
	assert.Equal(t, 2, record.Count)
	assert.InDelta(t, loc.Lat, record.Location.Lat, 1e-9)
	assert.InDelta(t, loc.Lon, record.Location.Lon, 1e-9)
}

func TestUpsert_FarObservationCreatesSecondRecord(t *testing.T) {
	store := testutil.SetupTestDB(t)
	d := New(store, &testutil.StubGeocoder{})
	ctx := context.Background()

	_, err := d.Upsert(ctx, "school", "education", model.GeoPoint{Lat: 12.97, Lon: 77.59})
	require.NoError(t, err)

	// Chennai is ~290 km from Bengaluru.
	_, err = d.Upsert(ctx, "school", "education", model.GeoPoint{Lat: 13.0827, Lon: 80.2707})
	require.NoError(t, err)

	records, err := store.GetProjects(ctx, service.ProjectFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, 1, r.Count)
	}
}

func TestUpsert_CentroidStaysInConvexHull(t *testing.T) {
	store := testutil.SetupTestDB(t)
	// Wide radius so all three observations merge.
	d := NewWithConfig(store, &testutil.StubGeocoder{}, Config{
		RadiusKm:       200,
		FilterByName:   true,
		FilterBySector: true,
	})
	ctx := context.Background()

	var record *model.ProjectRecord
	var err error
	for _, lon := range []float64{0, 1, 2} {
		record, err = d.Upsert(ctx, "bridge", "infrastructure", model.GeoPoint{Lat: 0, Lon: lon})
		require.NoError(t, err)
	}

	assert.Equal(t, 3, record.Count)
	assert.InDelta(t, 0, record.Location.Lat, 1e-9)
	assert.GreaterOrEqual(t, record.Location.Lon, 0.0)
	assert.LessOrEqual(t, record.Location.Lon, 2.0)
}

func TestUpsert_DifferentSectorsKeptApart(t *testing.T) {
	store := testutil.SetupTestDB(t)
	d := New(store, &testutil.StubGeocoder{})
	ctx := context.Background()
	loc := model.GeoPoint{Lat: 12.97, Lon: 77.59}

	_, err := d.Upsert(ctx, "school", "education", loc)
	require.NoError(t, err)
	_, err = d.Upsert(ctx, "hospital", "healthcare", loc)
	require.NoError(t, err)

	records, err := store.GetProjects(ctx, service.ProjectFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestUpsert_GeocodingFailureDegradesToUnknown(t *testing.T) {
	store := testutil.SetupTestDB(t)
	d := New(store, &testutil.StubGeocoder{Fail: true})
	ctx := context.Background()

	record, err := d.Upsert(ctx, "school", "education", model.GeoPoint{Lat: 12.97, Lon: 77.59})
	require.NoError(t, err)
	assert.Equal(t, model.UnknownArea, record.Area)
}

func TestUpsert_MergeKeepsKnownAreaWhenGeocoderFails(t *testing.T) {
	store := testutil.SetupTestDB(t)
	geocoder := &testutil.StubGeocoder{Area: "Indiranagar"}
	d := New(store, geocoder)
	ctx := context.Background()

	_, err := d.Upsert(ctx, "school", "education", model.GeoPoint{Lat: 12.97, Lon: 77.59})
	require.NoError(t, err)

	geocoder.Fail = true
	record, err := d.Upsert(ctx, "school", "education", model.GeoPoint{Lat: 12.971, Lon: 77.591})
	require.NoError(t, err)

	// A failed refresh must not clobber a previously resolved area.
	assert.Equal(t, "Indiranagar", record.Area)
}

func TestUpsert_CollapsesDisjointCloseClusters(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	// Seed two disjoint clusters 6 km apart that both sit within 4 km of
	// the incoming observation.
	older := &model.ProjectRecord{
		CreatedAt: time.Now().UTC().Add(-time.Hour),
		ID:        "older",
		Name:      "school",
		Sector:    "education",
		Area:      "North Ward",
		Location:  model.GeoPoint{Lat: 12.997, Lon: 77.59},
		Members:   []model.GeoPoint{{Lat: 12.997, Lon: 77.59}},
		Count:     2,
	}
	newer := &model.ProjectRecord{
		CreatedAt: time.Now().UTC(),
		ID:        "newer",
		Name:      "school",
		Sector:    "education",
		Area:      "South Ward",
		Location:  model.GeoPoint{Lat: 12.943, Lon: 77.59},
		Members:   []model.GeoPoint{{Lat: 12.943, Lon: 77.59}},
		Count:     1,
	}
	_, err := store.UpsertProject(ctx, older)
	require.NoError(t, err)
	_, err = store.UpsertProject(ctx, newer)
	require.NoError(t, err)

	d := New(store, &testutil.StubGeocoder{Area: "Central Ward"})
	record, err := d.Upsert(ctx, "school", "education", model.GeoPoint{Lat: 12.97, Lon: 77.59})
	require.NoError(t, err)

	// The earliest-created record survives with summed counts and merged
	// member lists.
	assert.Equal(t, "older", record.ID)
	assert.Equal(t, 4, record.Count)
	assert.Len(t, record.Members, 3)

	records, err := store.GetProjects(ctx, service.ProjectFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

// Two concurrent submissions of the same nearby need must converge on one
// record with both occurrences counted. The engine holds the per-(name,
// sector) key lock across each read-compute-write sequence.
func TestUpsert_ConcurrentSubmissionsUnderKeyLock(t *testing.T) {
	store := testutil.SetupTestDB(t)
	d := New(store, &testutil.StubGeocoder{})
	ctx := context.Background()
	key := storage.LockKey("school", "education")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			unlock := store.Lock(key)
			defer unlock()
			_, errs[i] = d.Upsert(ctx, "school", "education", model.GeoPoint{Lat: 12.97, Lon: 77.59})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	records, err := store.GetProjects(ctx, service.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].Count)
}

func TestUpsert_FullClusterMatchUsesMemberCoordinates(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	// A stretched cluster: the centroid is ~6 km from the new observation
	// but the nearest member is ~2 km away.
	seed := &model.ProjectRecord{
		ID:       "stretched",
		Name:     "road",
		Sector:   "infrastructure",
		Area:     "East Ward",
		Location: model.GeoPoint{Lat: 13.024, Lon: 77.59},
		Members: []model.GeoPoint{
			{Lat: 12.988, Lon: 77.59},
			{Lat: 13.06, Lon: 77.59},
		},
		Count: 2,
	}
	_, err := store.UpsertProject(ctx, seed)
	require.NoError(t, err)

	obs := model.GeoPoint{Lat: 12.97, Lon: 77.59}

	centroidOnly := NewWithConfig(store, &testutil.StubGeocoder{}, Config{
		RadiusKm: 5, FilterByName: true, FilterBySector: true,
	})
	fullCluster := NewWithConfig(store, &testutil.StubGeocoder{}, Config{
		RadiusKm: 5, FilterByName: true, FilterBySector: true, FullClusterMatch: true,
	})

	// Against the centroid alone the observation is out of range.
	record, err := centroidOnly.Upsert(ctx, "road", "infrastructure", obs)
	require.NoError(t, err)
	assert.NotEqual(t, "stretched", record.ID)
	require.NoError(t, store.DeleteProject(ctx, record.ID))

	// Against member coordinates it merges.
	record, err = fullCluster.Upsert(ctx, "road", "infrastructure", obs)
	require.NoError(t, err)
	assert.Equal(t, "stretched", record.ID)
	assert.Equal(t, 3, record.Count)
}
