package search

import (
	"testing"

	"youthpolicy/internal/models"
)

func TestFilterItems_Substring(t *testing.T) {
	items := []models.RecommendationItem{
		{ID: "a", Title: "청년 월세 지원", Tags: []string{}},
		{ID: "b", Title: "청년 도약 계좌", Tags: []string{}},
	}

	got := FilterItems(items, "월세")
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("월세 should match only the first item, got %v", got)
	}

	got = FilterItems(items, "")
	if len(got) != 2 {
		t.Errorf("empty term should return all, got %d", len(got))
	}

	got = FilterItems(items, "없는말")
	if len(got) != 0 {
		t.Errorf("non-matching term should return none, got %d", len(got))
	}
}

func TestFilterItems_CaseInsensitive(t *testing.T) {
	items := []models.RecommendationItem{
		{ID: "a", Title: "K-Digital Training"},
	}
	for _, term := range []string{"digital", "DIGITAL", "k-dig"} {
		if got := FilterItems(items, term); len(got) != 1 {
			t.Errorf("term %q should match, got %d items", term, len(got))
		}
	}
}

func TestFilterItems_TagMatch(t *testing.T) {
	items := []models.RecommendationItem{
		{ID: "a", Title: "청년내일채움공제", Tags: []string{"일자리", "고용노동부"}},
		{ID: "b", Title: "행복주택", Tags: []string{"주거"}},
	}
	got := FilterItems(items, "고용")
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("tag substring should match item a, got %v", got)
	}
}

func TestFieldResolve_FallbackChain(t *testing.T) {
	// First non-blank candidate wins.
	record := models.RawPolicyRecord{"정책명": "", "사업명": "  ", "정책사업명": "청년 주거 바우처"}
	if got := TitleField.Resolve(record); got != "청년 주거 바우처" {
		t.Errorf("Resolve = %q, want 청년 주거 바우처", got)
	}

	// Earlier candidate shadows later ones.
	record = models.RawPolicyRecord{"정책명": "첫번째", "사업명": "두번째"}
	if got := TitleField.Resolve(record); got != "첫번째" {
		t.Errorf("Resolve = %q, want 첫번째", got)
	}

	// No candidate present resolves to empty.
	if got := TitleField.Resolve(models.RawPolicyRecord{"무관": "x"}); got != "" {
		t.Errorf("Resolve = %q, want empty", got)
	}
}

func TestRecordRegion_Composition(t *testing.T) {
	cases := []struct {
		record models.RawPolicyRecord
		want   string
	}{
		{models.RawPolicyRecord{"시도명": "경기", "시군구명": "수원시"}, "경기 수원시"},
		{models.RawPolicyRecord{"시도명": "서울"}, "서울"},
		{models.RawPolicyRecord{"시군구명": "전주시"}, "전주시"},
		{models.RawPolicyRecord{}, RegionFallback},
		{models.RawPolicyRecord{"시도명": "  "}, RegionFallback},
	}
	for _, tc := range cases {
		if got := RecordRegion(tc.record); got != tc.want {
			t.Errorf("RecordRegion(%v) = %q, want %q", tc.record, got, tc.want)
		}
	}
}

func TestFilterRecords_MultiField(t *testing.T) {
	records := []models.RawPolicyRecord{
		{"정책명": "청년 월세 지원", "시도명": "서울", "정책소개": "주거비 부담 경감"},
		{"사업명": "창업 지원금", "시도명": "부산", "사업내용": "초기 창업자 대상"},
		{"정책명": "무지역 정책"},
	}

	// Title match
	if got := FilterRecords(records, "월세"); len(got) != 1 {
		t.Errorf("월세: got %d records, want 1", len(got))
	}
	// Region match
	if got := FilterRecords(records, "부산"); len(got) != 1 {
		t.Errorf("부산: got %d records, want 1", len(got))
	}
	// Description match through alias key
	if got := FilterRecords(records, "초기 창업"); len(got) != 1 {
		t.Errorf("description alias: got %d records, want 1", len(got))
	}
	// Region fallback label is searchable too
	if got := FilterRecords(records, "전국"); len(got) != 1 {
		t.Errorf("fallback region: got %d records, want 1", len(got))
	}
	// Empty term returns everything
	if got := FilterRecords(records, ""); len(got) != len(records) {
		t.Errorf("empty term: got %d records, want %d", len(got), len(records))
	}
}
