package handlers

import (
	"errors"
	"net/http"

	"youthpolicy/internal/dataset"
	"youthpolicy/internal/models"
	"youthpolicy/internal/search"
)

// policyRow is the flattened view of one raw dataset record, with each
// semantic field resolved through its candidate-key chain.
type policyRow struct {
	Title       string `json:"title"`
	Region      string `json:"region"`
	Description string `json:"description"`
	Period      string `json:"period"`
	URL         string `json:"url"`
}

func toRow(record models.RawPolicyRecord) policyRow {
	return policyRow{
		Title:       search.TitleField.Resolve(record),
		Region:      search.RecordRegion(record),
		Description: search.DescriptionField.Resolve(record),
		Period:      search.PeriodField.Resolve(record),
		URL:         search.URLField.Resolve(record),
	}
}

// Policies serves search over the bulk dataset. Until the dataset loads the
// endpoint reports unavailable; a failed parse is a hard error with no
// partial rows.
func (h *Handler) Policies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := h.dataset.Search(r.URL.Query().Get("q"))
	if err != nil {
		if errors.Is(err, dataset.ErrNotLoaded) {
			writeError(w, http.StatusServiceUnavailable, "정책 데이터를 준비 중입니다. 잠시 후 다시 시도해주세요.")
			return
		}
		var parseErr *dataset.ParseError
		if errors.As(err, &parseErr) {
			writeError(w, http.StatusBadGateway, "정책 데이터 파일을 읽을 수 없습니다")
			return
		}
		writeError(w, http.StatusBadGateway, "정책 데이터를 불러올 수 없습니다")
		return
	}

	rows := make([]policyRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, toRow(record))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":    len(rows),
		"policies": rows,
	})
}
