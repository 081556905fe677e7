// Package httpapi exposes the engine over a JSON HTTP API.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/common"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/engine"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/service"
)

// Server routes HTTP requests to the engine.
type Server struct {
	engine *engine.Engine
	store  service.Storage
}

// NewServer builds the API handler.
func NewServer(eng *engine.Engine, store service.Storage) http.Handler {
	s := &Server{engine: eng, store: store}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/submissions", s.handleSubmissions)
	mux.HandleFunc("/api/v1/documents", s.handleDocuments)
	mux.HandleFunc("/api/v1/projects", s.handleProjects)
	mux.HandleFunc("/api/v1/priorities", s.handlePriorities)
	mux.HandleFunc("/api/v1/funds", s.handleFunds)
	mux.HandleFunc("/api/v1/funds/transactions", s.handleFundTransactions)
	mux.HandleFunc("/api/v1/reset", s.handleReset)
	mux.HandleFunc("/api/v1/health", s.handleHealth)
	return logRequests(mux)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("Handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps engine errors onto HTTP statuses. Rejected requests come
// back as 4xx with the reason; everything else is an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case common.IsInputError(err):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	default:
		slog.Error("Request failed", "error", err)
	}

	var userErr *common.UserError
	if errors.As(err, &userErr) {
		message = userErr.UserMessage
	}

	writeJSON(w, status, map[string]any{
		"ok":    false,
		"error": message,
	})
}

func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return io.EOF
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Text string   `json:"text"`
		Lat  *float64 `json:"lat"`
		Lon  *float64 `json:"lon"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid JSON body"})
		return
	}

	obs := model.Observation{Text: req.Text}
	if req.Lat != nil && req.Lon != nil {
		obs.Location = &model.GeoPoint{Lat: *req.Lat, Lon: *req.Lon}
	}

	result, err := s.engine.ProcessSubmission(r.Context(), obs)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"record": result.Record,
		"phrase": result.Phrase,
		"sector": result.Sector,
		"merged": result.Merged,
	})
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid JSON body"})
		return
	}

	plan, ranking, err := s.engine.IngestDocument(r.Context(), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"plan":    plan,
		"ranking": ranking,
	})
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	filter := service.ProjectFilter{
		Name:   strings.TrimSpace(r.URL.Query().Get("name")),
		Sector: strings.TrimSpace(r.URL.Query().Get("sector")),
	}
	records, err := s.store.GetProjects(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": records})
}

func (s *Server) handlePriorities(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	ranking, err := s.store.GetRanking(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if top := parseInt(r.URL.Query().Get("top"), 0); top > 0 && top < len(ranking) {
		ranking = ranking[:top]
	}
	writeJSON(w, http.StatusOK, map[string]any{"priorities": ranking})
}

func (s *Server) handleFunds(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	usage, err := s.engine.FundUsage(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	transactions, err := s.store.GetFundTransactions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"usage":        usage,
		"transactions": transactions,
	})
}

func (s *Server) handleFundTransactions(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Authority   string  `json:"authority"`
		ProjectType string  `json:"project_type"`
		Amount      float64 `json:"amount"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid JSON body"})
		return
	}
	if req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "amount must be positive"})
		return
	}

	result, err := s.engine.RecordSpend(r.Context(), req.Authority, req.ProjectType, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"transaction": result.Transaction,
		"check":       result.Check,
		"usage":       result.Usage,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	if err := s.engine.Reset(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func parseInt(value string, def int) int {
	if strings.TrimSpace(value) == "" {
		return def
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return v
}
