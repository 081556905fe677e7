package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/anomaly"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/dedup"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/engine"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/lexicon"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/scoring"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/testutil"
)

type apiFixture struct {
	server    *httptest.Server
	extractor *engine.MockExtractor
}

func newTestServer(t *testing.T) *apiFixture {
	t.Helper()

	store := testutil.SetupTestDB(t)
	extractor := &engine.MockExtractor{}
	eng := engine.New(
		store,
		store,
		lexicon.NewMatcher(lexicon.Default()),
		dedup.New(store, &testutil.StubGeocoder{Area: "Indiranagar"}),
		scoring.NewScorer(scoring.DefaultWeights()),
		anomaly.NewDetector(anomaly.DefaultMarketRates()),
		extractor,
	)

	server := httptest.NewServer(NewServer(eng, store))
	t.Cleanup(server.Close)

	return &apiFixture{server: server, extractor: extractor}
}

func (f *apiFixture) post(t *testing.T, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(f.server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp, decodeJSON(t, resp)
}

func (f *apiFixture) get(t *testing.T, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(f.server.URL + path)
	require.NoError(t, err)
	return resp, decodeJSON(t, resp)
}

func decodeJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func TestSubmissions(t *testing.T) {
	t.Run("valid submission", func(t *testing.T) {
		f := newTestServer(t)

		resp, payload := f.post(t, "/api/v1/submissions",
			`{"text":"need a new school","lat":12.97,"lon":77.59}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, payload["ok"])
		assert.Equal(t, "school", payload["phrase"])
		assert.Equal(t, "education", payload["sector"])
		assert.Equal(t, false, payload["merged"])
	})

	t.Run("duplicate is merged", func(t *testing.T) {
		f := newTestServer(t)

		f.post(t, "/api/v1/submissions", `{"text":"need a new school","lat":12.97,"lon":77.59}`)
		resp, payload := f.post(t, "/api/v1/submissions",
			`{"text":"build a school please","lat":12.971,"lon":77.591}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, payload["merged"])
	})

	t.Run("unclassifiable text rejected", func(t *testing.T) {
		f := newTestServer(t)

		resp, payload := f.post(t, "/api/v1/submissions",
			`{"text":"thank you","lat":12.97,"lon":77.59}`)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, false, payload["ok"])
	})

	t.Run("missing coordinates rejected", func(t *testing.T) {
		f := newTestServer(t)

		resp, _ := f.post(t, "/api/v1/submissions", `{"text":"need a new school"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		f := newTestServer(t)

		resp, _ := f.post(t, "/api/v1/submissions", `{not json`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("GET not allowed", func(t *testing.T) {
		f := newTestServer(t)

		resp, err := http.Get(f.server.URL + "/api/v1/submissions")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestProjects(t *testing.T) {
	f := newTestServer(t)

	f.post(t, "/api/v1/submissions", `{"text":"need a new school","lat":12.97,"lon":77.59}`)
	f.post(t, "/api/v1/submissions", `{"text":"we need a hospital","lat":12.98,"lon":77.60}`)

	_, payload := f.get(t, "/api/v1/projects")
	projects := payload["projects"].([]any)
	assert.Len(t, projects, 2)

	_, payload = f.get(t, "/api/v1/projects?sector=healthcare")
	projects = payload["projects"].([]any)
	require.Len(t, projects, 1)
	record := projects[0].(map[string]any)
	assert.Equal(t, "hospital", record["name"])
}

func TestDocumentsAndPriorities(t *testing.T) {
	f := newTestServer(t)

	f.extractor.Result = model.ExtractedPlan{
		ProjectName:   "Ward Clinic",
		Category:      "Healthcare",
		EstimatedCost: 1_200_000,
		DurationYears: 2,
	}
	resp, payload := f.post(t, "/api/v1/documents", `{"text":"annual plan report"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, payload["ok"])

	f.extractor.Result = model.ExtractedPlan{
		ProjectName:   "Heritage Walk",
		Category:      "Tourism",
		EstimatedCost: 900_000,
		DurationYears: 1,
	}
	f.post(t, "/api/v1/documents", `{"text":"tourism plan report"}`)

	_, payload = f.get(t, "/api/v1/priorities")
	ranking := payload["priorities"].([]any)
	require.Len(t, ranking, 2)
	first := ranking[0].(map[string]any)
	assert.Equal(t, "Ward Clinic", first["name"])
	assert.Equal(t, float64(1), first["rank"])

	_, payload = f.get(t, "/api/v1/priorities?top=1")
	assert.Len(t, payload["priorities"].([]any), 1)
}

func TestDocuments_ExtractionFailure(t *testing.T) {
	f := newTestServer(t)
	f.extractor.Result = model.ExtractedPlan{}

	resp, payload := f.post(t, "/api/v1/documents", `{"text":"unreadable scan"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, false, payload["ok"])
}

func TestFundTransactions(t *testing.T) {
	t.Run("valid disbursement", func(t *testing.T) {
		f := newTestServer(t)

		resp, payload := f.post(t, "/api/v1/funds/transactions",
			`{"authority":"Ward 12 MLA","project_type":"Road Construction","amount":1000000}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, payload["ok"])

		_, funds := f.get(t, "/api/v1/funds")
		usage := funds["usage"].(map[string]any)
		assert.InDelta(t, 1_000_000, usage["used"], 1e-6)
		assert.Len(t, funds["transactions"].([]any), 1)
	})

	t.Run("overshoot rejected", func(t *testing.T) {
		f := newTestServer(t)

		resp, _ := f.post(t, "/api/v1/funds/transactions",
			`{"authority":"Ward 12 MLA","project_type":"Road Construction","amount":1500000}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		f := newTestServer(t)

		resp, _ := f.post(t, "/api/v1/funds/transactions",
			`{"authority":"Ward 12 MLA","project_type":"Road Construction","amount":0}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestReset(t *testing.T) {
	f := newTestServer(t)

	f.post(t, "/api/v1/submissions", `{"text":"need a new school","lat":12.97,"lon":77.59}`)

	resp, payload := f.post(t, "/api/v1/reset", ``)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, payload["ok"])

	_, listed := f.get(t, "/api/v1/projects")
	assert.Empty(t, listed["projects"])
}

func TestHealth(t *testing.T) {
	f := newTestServer(t)

	resp, payload := f.get(t, "/api/v1/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", payload["status"])
}
