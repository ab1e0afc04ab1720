package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"youthpolicy/internal/models"
	sentryutil "youthpolicy/internal/sentry"
)

// Saved loads the persisted list (GET) or merges a batch into it (POST).
func (h *Handler) Saved(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items := h.saved.Load()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"total": len(items),
			"items": items,
		})

	case http.MethodPost:
		var req struct {
			Items []models.RecommendationItem `json:"items"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "요청 본문이 올바르지 않습니다")
			return
		}
		defer r.Body.Close()

		merged, err := h.saved.SaveBatch(req.Items)
		if err != nil {
			sentryutil.CaptureError(err, map[string]string{"handler": "saved", "phase": "write"})
			writeError(w, http.StatusInternalServerError, "저장에 실패했습니다")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"total": len(merged),
			"items": merged,
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// SavedDelete removes exactly one saved item by id: DELETE /api/saved/{id}.
func (h *Handler) SavedDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/saved/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "정책 ID가 올바르지 않습니다")
		return
	}

	removed, err := h.saved.Remove(id)
	if err != nil {
		sentryutil.CaptureError(err, map[string]string{"handler": "saved-delete"})
		writeError(w, http.StatusInternalServerError, "삭제에 실패했습니다")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "저장된 정책이 아닙니다")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"removed": id,
		"items":   h.saved.Load(),
	})
}
