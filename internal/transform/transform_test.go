package transform

import (
	"testing"

	"youthpolicy/internal/models"
)

var testOpts = Options{MinScore: 30.0, MaxResults: 20}

func TestBuildRequest_EndToEnd(t *testing.T) {
	p := models.Profile{
		BirthYear:        "1998",
		Region:           "서울",
		Income:           "3000",
		EmploymentStatus: "미취업",
		Interest:         "",
	}
	req := BuildRequest(p, 2024, testOpts)

	if req.Age != 26 {
		t.Errorf("age = %d, want 26", req.Age)
	}
	if req.Region != "서울" {
		t.Errorf("region = %q, want 서울", req.Region)
	}
	if req.Income != 3000 {
		t.Errorf("income = %d, want 3000", req.Income)
	}
	if req.Employment != "구직자" {
		t.Errorf("employment = %q, want 구직자", req.Employment)
	}
	if req.Interest != nil {
		t.Errorf("interest = %v, want nil", *req.Interest)
	}
	if req.MinScore != 30.0 || req.MaxResults != 20 {
		t.Errorf("policy knobs = %.1f/%d, want 30.0/20", req.MinScore, req.MaxResults)
	}
}

func TestBuildRequest_AgeIsExactArithmetic(t *testing.T) {
	cases := []struct {
		year string
		now  int
		age  int
	}{
		{"1998", 2024, 26},
		{"1998", 2026, 28}, // same profile, later year: accepted staleness
		{"2010", 2024, 14},
		{"2030", 2024, -6}, // nonsensical input passes through unguarded
		{"", 2024, 2024},   // unparsable year behaves as zero
	}
	for _, tc := range cases {
		req := BuildRequest(models.Profile{BirthYear: tc.year}, tc.now, testOpts)
		if req.Age != tc.age {
			t.Errorf("BuildRequest(%q, %d).Age = %d, want %d", tc.year, tc.now, req.Age, tc.age)
		}
	}
}

func TestBuildRequest_PaddedFieldsParseLikeValidated(t *testing.T) {
	// The validator trims before parsing, so a padded value it accepted must
	// not collapse to zero here.
	p := models.Profile{BirthYear: " 1998", Income: " 3000 "}
	req := BuildRequest(p, 2026, testOpts)
	if req.Age != 28 {
		t.Errorf("age = %d, want 28", req.Age)
	}
	if req.Income != 3000 {
		t.Errorf("income = %d, want 3000", req.Income)
	}
}

func TestBuildRequest_IncomeNormalizesToZero(t *testing.T) {
	for _, raw := range []string{"", "abc", "3,000", "삼천"} {
		req := BuildRequest(models.Profile{Income: raw}, 2024, testOpts)
		if req.Income != 0 {
			t.Errorf("income %q = %d, want 0", raw, req.Income)
		}
	}
}

func TestBuildRequest_EmploymentMapping(t *testing.T) {
	cases := map[string]string{
		"재직중":  "재직자",
		"미취업":  "구직자",
		"자영업":  "자영업",
		"대학생":  "학생",
		"프리랜서": "자영업",
	}
	for label, want := range cases {
		req := BuildRequest(models.Profile{EmploymentStatus: label}, 2024, testOpts)
		if req.Employment != want {
			t.Errorf("employment %q = %q, want %q", label, req.Employment, want)
		}
	}
}

func TestBuildRequest_UnknownEmploymentFallsBack(t *testing.T) {
	// Any label missing from the table maps to the job-seeker fallback;
	// the mapping is total and never fails.
	for _, label := range []string{"", "휴직중", "군복무", "unknown"} {
		req := BuildRequest(models.Profile{EmploymentStatus: label}, 2024, testOpts)
		if req.Employment != EmploymentFallback {
			t.Errorf("employment %q = %q, want fallback %q", label, req.Employment, EmploymentFallback)
		}
	}
}

func TestBuildRequest_InterestAsymmetricFallback(t *testing.T) {
	// Mapped label translates.
	req := BuildRequest(models.Profile{Interest: "취업지원"}, 2024, testOpts)
	if req.Interest == nil || *req.Interest != "일자리" {
		t.Errorf("interest 취업지원 = %v, want 일자리", req.Interest)
	}

	// Unknown label passes through verbatim, unlike employment.
	req = BuildRequest(models.Profile{Interest: "해외취업"}, 2024, testOpts)
	if req.Interest == nil || *req.Interest != "해외취업" {
		t.Errorf("interest 해외취업 = %v, want passthrough", req.Interest)
	}

	// No preference stays absent, not defaulted.
	req = BuildRequest(models.Profile{Interest: ""}, 2024, testOpts)
	if req.Interest != nil {
		t.Errorf("empty interest = %v, want nil", *req.Interest)
	}
}
