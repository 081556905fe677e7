package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/anomaly"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/common"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/dedup"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/lexicon"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/scoring"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/service"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/testutil"
)

type engineFixture struct {
	engine    *Engine
	store     service.Storage
	extractor *MockExtractor
}

func newTestEngine(t *testing.T) *engineFixture {
	t.Helper()

	store := testutil.SetupTestDB(t)
	extractor := &MockExtractor{}
	eng := New(
		store,
		store,
		lexicon.NewMatcher(lexicon.Default()),
		dedup.New(store, &testutil.StubGeocoder{Area: "Indiranagar"}),
		scoring.NewScorer(scoring.DefaultWeights()),
		anomaly.NewDetector(anomaly.DefaultMarketRates()),
		extractor,
	)

	return &engineFixture{engine: eng, store: store, extractor: extractor}
}

func TestProcessSubmission(t *testing.T) {
	ctx := context.Background()

	t.Run("new school request creates a record", func(t *testing.T) {
		f := newTestEngine(t)

		result, err := f.engine.ProcessSubmission(ctx, model.Observation{
			Text:     "need a new school",
			Location: &model.GeoPoint{Lat: 12.97, Lon: 77.59},
		})
		require.NoError(t, err)

		assert.Equal(t, "school", result.Phrase)
		assert.Equal(t, "education", result.Sector)
		assert.Equal(t, 1, result.Record.Count)
		assert.False(t, result.Merged)
	})

	t.Run("nearby duplicate merges", func(t *testing.T) {
		f := newTestEngine(t)

		first, err := f.engine.ProcessSubmission(ctx, model.Observation{
			Text:     "need a new school",
			Location: &model.GeoPoint{Lat: 12.97, Lon: 77.59},
		})
		require.NoError(t, err)

		second, err := f.engine.ProcessSubmission(ctx, model.Observation{
			Text:     "Please build a SCHOOL here",
			Location: &model.GeoPoint{Lat: 12.971, Lon: 77.591},
		})
		require.NoError(t, err)

		assert.Equal(t, first.Record.ID, second.Record.ID)
		assert.Equal(t, 2, second.Record.Count)
		assert.True(t, second.Merged)

		// Representative location shifted toward the midpoint.
		assert.InDelta(t, 12.9705, second.Record.Location.Lat, 1e-6)
	})

	t.Run("empty text rejected", func(t *testing.T) {
		f := newTestEngine(t)

		_, err := f.engine.ProcessSubmission(ctx, model.Observation{
			Text:     "   ",
			Location: &model.GeoPoint{Lat: 12.97, Lon: 77.59},
		})
		assert.ErrorIs(t, err, common.ErrEmptyText)
	})

	t.Run("unclassifiable text rejected", func(t *testing.T) {
		f := newTestEngine(t)

		_, err := f.engine.ProcessSubmission(ctx, model.Observation{
			Text:     "thank you very much",
			Location: &model.GeoPoint{Lat: 12.97, Lon: 77.59},
		})
		assert.ErrorIs(t, err, common.ErrNoProjectDetected)
	})

	t.Run("missing coordinates rejected", func(t *testing.T) {
		f := newTestEngine(t)

		_, err := f.engine.ProcessSubmission(ctx, model.Observation{Text: "need a new school"})
		assert.ErrorIs(t, err, common.ErrMissingCoordinates)
	})
}

func TestProcessSubmission_ConcurrentSameNeed(t *testing.T) {
	f := newTestEngine(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := 0; i < len(errs); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.engine.ProcessSubmission(ctx, model.Observation{
				Text:     "need a new school",
				Location: &model.GeoPoint{Lat: 12.97, Lon: 77.59},
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	records, err := f.store.GetProjects(ctx, service.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, len(errs), records[0].Count)
}

func TestIngestDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("extracted plan joins the ranking", func(t *testing.T) {
		f := newTestEngine(t)
		f.extractor.Result = model.ExtractedPlan{
			ProjectName:   "Ward Clinic",
			Category:      "Healthcare",
			EstimatedCost: 1_200_000,
			DurationYears: 2,
		}

		plan, ranking, err := f.engine.IngestDocument(ctx, "annual plan report text")
		require.NoError(t, err)
		assert.Equal(t, "Ward Clinic", plan.Name)
		require.Len(t, ranking, 1)
		assert.Equal(t, 1, ranking[0].Rank)
		// Degenerate batch of one: composite is half the category weight.
		assert.InDelta(t, 5.0, ranking[0].Priority, 1e-9)
	})

	t.Run("duration derived from year range", func(t *testing.T) {
		f := newTestEngine(t)
		f.extractor.Result = model.ExtractedPlan{
			ProjectName:   "Bridge Repair",
			Category:      "Infrastructure",
			EstimatedCost: 3_000_000,
			StartYear:     2025,
			EndYear:       2028,
		}

		plan, _, err := f.engine.IngestDocument(ctx, "report")
		require.NoError(t, err)
		assert.InDelta(t, 3, plan.DurationYears, 1e-9)
	})

	t.Run("failed extraction is a rejected request", func(t *testing.T) {
		f := newTestEngine(t)
		f.extractor.Result = model.ExtractedPlan{} // Extraction came back empty

		_, _, err := f.engine.IngestDocument(ctx, "unreadable scan")
		assert.ErrorIs(t, err, common.ErrNoProjectDetected)

		plans, storeErr := f.store.GetPlans(ctx)
		require.NoError(t, storeErr)
		assert.Empty(t, plans)
	})

	t.Run("ranking is replaced wholesale", func(t *testing.T) {
		f := newTestEngine(t)

		f.extractor.Result = model.ExtractedPlan{ProjectName: "A", Category: "Tourism", EstimatedCost: 100, DurationYears: 1}
		_, _, err := f.engine.IngestDocument(ctx, "report a")
		require.NoError(t, err)

		f.extractor.Result = model.ExtractedPlan{ProjectName: "B", Category: "Healthcare", EstimatedCost: 100, DurationYears: 1}
		_, ranking, err := f.engine.IngestDocument(ctx, "report b")
		require.NoError(t, err)

		require.Len(t, ranking, 2)
		assert.Equal(t, "B", ranking[0].Name)

		stored, err := f.store.GetRanking(ctx)
		require.NoError(t, err)
		require.Len(t, stored, 2)
		assert.Equal(t, "B", stored[0].Name)
	})
}

func TestRecordSpend(t *testing.T) {
	ctx := context.Background()

	t.Run("normal disbursement recorded", func(t *testing.T) {
		f := newTestEngine(t)

		result, err := f.engine.RecordSpend(ctx, "Ward 12 MLA", "Road Construction", 1_000_000)
		require.NoError(t, err)
		assert.False(t, result.Check.Suspicious)
		assert.InDelta(t, 49_000_000, result.Usage.Remaining, 1e-6)
	})

	t.Run("overshoot beyond threshold rejected", func(t *testing.T) {
		f := newTestEngine(t)

		_, err := f.engine.RecordSpend(ctx, "Ward 12 MLA", "Road Construction", 1_500_000)
		assert.ErrorIs(t, err, common.ErrSuspiciousAmount)

		usage, usageErr := f.engine.FundUsage(ctx)
		require.NoError(t, usageErr)
		assert.Zero(t, usage.Used)
	})

	t.Run("insufficient funds rejected", func(t *testing.T) {
		store := testutil.SetupTestDB(t)
		eng := NewWithConfig(
			store, store,
			lexicon.NewMatcher(lexicon.Default()),
			dedup.New(store, &testutil.StubGeocoder{}),
			scoring.NewScorer(nil),
			anomaly.NewDetector(nil),
			&MockExtractor{},
			Config{TotalFund: 1_000_000},
		)

		_, err := eng.RecordSpend(ctx, "Ward 12 MLA", "Park Development", 550_000)
		require.NoError(t, err)

		_, err = eng.RecordSpend(ctx, "Ward 12 MLA", "Park Development", 550_000)
		assert.ErrorIs(t, err, common.ErrInsufficientFunds)
	})

	t.Run("unknown project type accepted without market check", func(t *testing.T) {
		f := newTestEngine(t)

		result, err := f.engine.RecordSpend(ctx, "Ward 12 MLA", "Space Elevator", 100)
		require.NoError(t, err)
		assert.False(t, result.Check.Known)
	})
}

func TestReset(t *testing.T) {
	f := newTestEngine(t)
	ctx := context.Background()

	_, err := f.engine.ProcessSubmission(ctx, model.Observation{
		Text:     "need a new school",
		Location: &model.GeoPoint{Lat: 12.97, Lon: 77.59},
	})
	require.NoError(t, err)

	require.NoError(t, f.engine.Reset(ctx))

	records, err := f.store.GetProjects(ctx, service.ProjectFilter{})
	require.NoError(t, err)
	assert.Empty(t, records)
}
