package transform

import (
	"strconv"
	"strings"

	"youthpolicy/internal/models"
)

// employmentMap translates the wizard's employment labels into the enum the
// scoring service understands. The two label sets diverged historically and
// cannot be unified without breaking stored profiles.
var employmentMap = map[string]string{
	"재직중":  "재직자",
	"미취업":  "구직자",
	"자영업":  "자영업",
	"대학생":  "학생",
	"대학원생": "학생",
	"프리랜서": "자영업",
}

// EmploymentFallback is the enum value used for any wizard label missing
// from employmentMap. Unknown statuses are scored as job seekers rather
// than rejected.
const EmploymentFallback = "구직자"

// interestMap translates wizard interest labels into service categories.
// Unlike employment, an unmapped interest passes through verbatim: the
// service accepts free-form interests, and dropping the user's wording
// would lose signal. Keep the two fallback policies asymmetric.
var interestMap = map[string]string{
	"취업지원": "일자리",
	"주거지원": "주거",
	"창업지원": "창업",
	"금융지원": "금융",
	"복지문화": "복지",
	"교육훈련": "교육",
}

// Options carries the deployment's scoring policy knobs, sourced from
// configuration so there is a single place to change them.
type Options struct {
	MinScore   float64
	MaxResults int
}

// BuildRequest maps a completed profile into a scoring request.
//
// Age is derived from the birth year at build time, so the same profile
// yields a different age across calendar years; that staleness is accepted.
// A nonsensical birth year produces a nonsensical age without guarding;
// the wizard validator is the gate, not this function.
func BuildRequest(p models.Profile, nowYear int, opts Options) models.RecommendationRequest {
	// Form input may carry padding; parse the trimmed value, the same value
	// the validator accepted.
	birthYear, _ := strconv.Atoi(strings.TrimSpace(p.BirthYear))
	// Non-numeric or empty income silently normalizes to zero.
	income, err := strconv.Atoi(strings.TrimSpace(p.Income))
	if err != nil {
		income = 0
	}

	return models.RecommendationRequest{
		Age:        nowYear - birthYear,
		Region:     p.Region,
		Income:     income,
		Employment: mapEmployment(p.EmploymentStatus),
		Interest:   mapInterest(p.Interest),
		MinScore:   opts.MinScore,
		MaxResults: opts.MaxResults,
	}
}

func mapEmployment(label string) string {
	if v, ok := employmentMap[label]; ok {
		return v
	}
	return EmploymentFallback
}

// mapInterest returns nil for "no preference" (empty input); an unmapped
// non-empty label is passed through unchanged.
func mapInterest(label string) *string {
	if label == "" {
		return nil
	}
	if v, ok := interestMap[label]; ok {
		return &v
	}
	return &label
}
