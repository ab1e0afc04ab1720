package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"youthpolicy/internal/config"
	"youthpolicy/internal/dataset"
	"youthpolicy/internal/models"
	"youthpolicy/internal/saved"
	"youthpolicy/internal/session"
)

// Recommender is the upstream scoring surface the handlers call.
type Recommender interface {
	Fetch(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationView, error)
	Detail(ctx context.Context, policyID string) (models.PolicyDetail, error)
}

// Handler bundles the HTTP surface with its injected collaborators; there
// are no package-level stores.
type Handler struct {
	sessions *session.Store
	saved    *saved.Store
	client   Recommender
	dataset  *dataset.Loader
}

func NewHandler(sessions *session.Store, savedStore *saved.Store, client Recommender, loader *dataset.Loader) *Handler {
	return &Handler{
		sessions: sessions,
		saved:    savedStore,
		client:   client,
		dataset:  loader,
	}
}

// RegisterRoutes wires all API routes onto the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/session", h.Session)
	mux.HandleFunc("/api/session/field", h.SetField)
	mux.HandleFunc("/api/session/next", h.Next)
	mux.HandleFunc("/api/session/back", h.Back)
	mux.HandleFunc("/api/session/reset", h.Reset)

	mux.HandleFunc("/api/recommend", h.Recommend)
	mux.HandleFunc("/api/results", h.Results)
	mux.HandleFunc("/api/policy/", h.PolicyDetail)
	mux.HandleFunc("/api/policies", h.Policies)

	mux.HandleFunc("/api/saved", h.Saved)
	mux.HandleFunc("/api/saved/report", h.SavedReport)
	mux.HandleFunc("/api/saved/", h.SavedDelete)

	mux.HandleFunc("/api/parse-income", h.ParseIncome)
	mux.HandleFunc("/api/health", h.Health)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	// No caching - session data is ephemeral
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	_, datasetErr := h.dataset.Records()
	status := map[string]interface{}{
		"status":         "ok",
		"dataset_loaded": datasetErr == nil,
		"min_score":      config.Cfg.RecommendMinScore,
		"max_results":    config.Cfg.RecommendMaxResults,
	}
	writeJSON(w, http.StatusOK, status)
}
