// Package search implements case-insensitive multi-field substring filtering
// with schema-tolerant field resolution: one semantic field may live under
// any of several historically-used column names.
package search

import (
	"strings"

	"youthpolicy/internal/models"
)

// Field names one semantic value and the ordered candidate keys it may be
// stored under. The first non-blank candidate wins.
type Field struct {
	Name string
	Keys []string
}

// Resolve extracts the field's value from a loosely-keyed record. A record
// carrying none of the candidates (or only blank values) resolves to "".
func (f Field) Resolve(record models.RawPolicyRecord) string {
	for _, key := range f.Keys {
		if v := strings.TrimSpace(record[key]); v != "" {
			return v
		}
	}
	return ""
}

// matches reports whether term is a substring of any of the given values,
// case-insensitively. An empty term matches everything.
func matches(term string, values ...string) bool {
	if term == "" {
		return true
	}
	t := strings.ToLower(term)
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), t) {
			return true
		}
	}
	return false
}

// FilterItems returns the recommendation items whose title or any tag
// contains the term. The full collection is scanned on every call; the
// field set is small enough that no index is needed at this scale.
func FilterItems(items []models.RecommendationItem, term string) []models.RecommendationItem {
	term = strings.TrimSpace(term)
	out := make([]models.RecommendationItem, 0, len(items))
	for _, item := range items {
		values := append([]string{item.Title}, item.Tags...)
		if matches(term, values...) {
			out = append(out, item)
		}
	}
	return out
}

// Candidate key chains for the bulk policy dataset. Exported so callers and
// tests share one definition of the schema-tolerance contract.
var (
	TitleField = Field{Name: "title", Keys: []string{"정책명", "사업명", "정책사업명", "title"}}

	regionPrimary   = Field{Name: "region", Keys: []string{"시도명", "시도", "지역"}}
	regionSecondary = Field{Name: "district", Keys: []string{"시군구명", "시군구"}}

	DescriptionField = Field{Name: "description", Keys: []string{"정책소개", "사업내용", "정책내용", "설명"}}

	PeriodField = Field{Name: "period", Keys: []string{"신청기간", "사업신청기간", "접수기간", "사업기간"}}

	URLField = Field{Name: "url", Keys: []string{"신청URL", "신청사이트", "사이트주소", "URL"}}
)

// RegionFallback labels records that carry no region information at all.
const RegionFallback = "전국/기타"

// RecordRegion composes the display region from the primary and secondary
// region fields, falling back to RegionFallback when both are absent.
func RecordRegion(record models.RawPolicyRecord) string {
	primary := regionPrimary.Resolve(record)
	secondary := regionSecondary.Resolve(record)
	switch {
	case primary != "" && secondary != "":
		return primary + " " + secondary
	case primary != "":
		return primary
	case secondary != "":
		return secondary
	default:
		return RegionFallback
	}
}

// FilterRecords returns the raw dataset rows whose title, region, or
// description contains the term.
func FilterRecords(records []models.RawPolicyRecord, term string) []models.RawPolicyRecord {
	term = strings.TrimSpace(term)
	out := make([]models.RawPolicyRecord, 0, len(records))
	for _, record := range records {
		if matches(term,
			TitleField.Resolve(record),
			RecordRegion(record),
			DescriptionField.Resolve(record),
		) {
			out = append(out, record)
		}
	}
	return out
}
