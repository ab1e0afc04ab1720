package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"youthpolicy/internal/config"
	"youthpolicy/internal/models"
	"youthpolicy/internal/recommend"
	"youthpolicy/internal/search"
	sentryutil "youthpolicy/internal/sentry"
	"youthpolicy/internal/session"
	"youthpolicy/internal/transform"
	"youthpolicy/internal/wizard"
)

// Recommend builds the scoring request from the session's profile, calls
// the orchestrator once, and stores the mapped result in the session. The
// profile is never touched by a failure, so retry is a plain re-invoke.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var ref sessionRef
	if err := json.NewDecoder(r.Body).Decode(&ref); err != nil {
		writeError(w, http.StatusBadRequest, "요청 본문이 올바르지 않습니다")
		return
	}
	defer r.Body.Close()

	snap, err := h.sessions.Get(ref.SessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "세션을 찾을 수 없습니다")
		return
	}

	// The profile must pass every gated step before submission.
	opts := wizard.Options{RequireIncome: config.Cfg.IncomeStepEnabled}
	for _, step := range []int{models.StepBasic, models.StepStatus} {
		if errs := wizard.Validate(step, snap.Profile, opts); len(errs) > 0 {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"step":   step,
				"errors": errs,
			})
			return
		}
	}

	gen, err := h.sessions.BeginRecommend(ref.SessionID)
	if errors.Is(err, session.ErrInFlight) {
		writeError(w, http.StatusConflict, "이미 추천 요청이 진행 중입니다")
		return
	}
	if err != nil {
		writeError(w, http.StatusNotFound, "세션을 찾을 수 없습니다")
		return
	}

	// Release the in-flight slot on every exit, including a panic caught by
	// the recovery middleware; the session must never stay wedged at 409.
	applied := false
	defer func() {
		if !applied {
			h.sessions.CompleteRecommend(ref.SessionID, gen, nil)
		}
	}()

	req := transform.BuildRequest(snap.Profile, time.Now().Year(), transform.Options{
		MinScore:   config.Cfg.RecommendMinScore,
		MaxResults: config.Cfg.RecommendMaxResults,
	})

	view, err := h.client.Fetch(r.Context(), req)
	if err != nil {
		// Release before the response goes out so a prompt retry never
		// races the deferred cleanup.
		applied = true
		h.sessions.CompleteRecommend(ref.SessionID, gen, nil)

		var svcErr *recommend.ServiceError
		if errors.As(err, &svcErr) {
			sentryutil.CaptureError(err, map[string]string{"handler": "recommend", "phase": "service"})
			msg := svcErr.Message
			if msg == "" {
				msg = "추천 서비스에서 오류가 발생했습니다"
			}
			writeError(w, http.StatusBadGateway, msg)
			return
		}
		sentryutil.CaptureError(err, map[string]string{"handler": "recommend", "phase": "network"})
		writeError(w, http.StatusBadGateway, "추천 서비스에 연결할 수 없습니다. 잠시 후 다시 시도해주세요.")
		return
	}

	applied = true
	if !h.sessions.CompleteRecommend(ref.SessionID, gen, view) {
		// The user reset or left while the call was in flight; the result
		// is stale and must not be applied.
		writeError(w, http.StatusGone, "세션 상태가 변경되어 결과가 적용되지 않았습니다")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Results returns the session's last recommendation view, filtered by the
// q parameter over title and tags.
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	view, err := h.sessions.Results(r.URL.Query().Get("session_id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "세션을 찾을 수 없습니다")
		return
	}
	if view == nil {
		writeError(w, http.StatusNotFound, "추천 결과가 아직 없습니다")
		return
	}

	filtered := *view
	filtered.Items = search.FilterItems(view.Items, r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, filtered)
}

// PolicyDetail proxies the upstream detail endpoint. When the upstream
// fails and the session already holds detail data for the policy, the known
// data is served instead of an error.
func (h *Handler) PolicyDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	policyID := strings.TrimPrefix(r.URL.Path, "/api/policy/")
	if policyID == "" || strings.Contains(policyID, "/") {
		writeError(w, http.StatusBadRequest, "정책 ID가 올바르지 않습니다")
		return
	}
	sessionID := r.URL.Query().Get("session_id")

	detail, err := h.client.Detail(r.Context(), policyID)
	if err != nil {
		if known, ok := h.sessions.KnownDetail(sessionID, policyID); ok {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"policy": known,
				"stale":  true,
			})
			return
		}
		sentryutil.CaptureError(err, map[string]string{"handler": "policy-detail"})
		writeError(w, http.StatusBadGateway, "정책 정보를 불러올 수 없습니다")
		return
	}

	if sessionID != "" {
		h.sessions.RememberDetail(sessionID, detail)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"policy": detail})
}
