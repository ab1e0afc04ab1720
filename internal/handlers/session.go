package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"youthpolicy/internal/config"
	"youthpolicy/internal/session"
	"youthpolicy/internal/wizard"
)

// Session creates a wizard session (POST) or returns its snapshot (GET ?id=).
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		sess := h.sessions.Create()
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"session_id": sess.ID,
			"step":       sess.Step,
			"profile":    sess.Profile,
		})
	case http.MethodGet:
		snap, err := h.sessions.Get(r.URL.Query().Get("id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "세션을 찾을 수 없습니다")
			return
		}
		writeJSON(w, http.StatusOK, snap)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type sessionRef struct {
	SessionID string `json:"session_id"`
}

type fieldRequest struct {
	SessionID string `json:"session_id"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

// SetField replaces one profile field.
func (h *Handler) SetField(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req fieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "요청 본문이 올바르지 않습니다")
		return
	}
	defer r.Body.Close()

	switch err := h.sessions.SetField(req.SessionID, req.Key, req.Value); {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "세션을 찾을 수 없습니다")
	case errors.Is(err, session.ErrUnknownField):
		writeError(w, http.StatusBadRequest, "알 수 없는 입력 항목입니다: "+req.Key)
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		snap, _ := h.sessions.Get(req.SessionID)
		writeJSON(w, http.StatusOK, snap)
	}
}

// Next validates the current step and, only when it passes, advances the
// wizard by one step. Field errors come back as a map, never as a failure
// of the HTTP call itself.
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req sessionRef
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "요청 본문이 올바르지 않습니다")
		return
	}
	defer r.Body.Close()

	snap, err := h.sessions.Get(req.SessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "세션을 찾을 수 없습니다")
		return
	}

	opts := wizard.Options{RequireIncome: config.Cfg.IncomeStepEnabled}
	if errs := wizard.Validate(snap.Step, snap.Profile, opts); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"step":   snap.Step,
			"errors": errs,
		})
		return
	}

	step, err := h.sessions.Advance(req.SessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "세션을 찾을 수 없습니다")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"step": step})
}

// Back retreats one step. No validation gates backward movement.
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req sessionRef
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "요청 본문이 올바르지 않습니다")
		return
	}
	defer r.Body.Close()

	step, err := h.sessions.Retreat(req.SessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "세션을 찾을 수 없습니다")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"step": step})
}

// Reset restores profile and step to their initial values.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req sessionRef
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "요청 본문이 올바르지 않습니다")
		return
	}
	defer r.Body.Close()

	if err := h.sessions.Reset(req.SessionID); err != nil {
		writeError(w, http.StatusNotFound, "세션을 찾을 수 없습니다")
		return
	}
	snap, _ := h.sessions.Get(req.SessionID)
	writeJSON(w, http.StatusOK, snap)
}
