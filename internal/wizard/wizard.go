package wizard

import (
	"strconv"
	"strings"

	"youthpolicy/internal/models"
)

// Accepted birth-year window for the youth target group.
const (
	BirthYearMin = 1980
	BirthYearMax = 2010
)

// Regions is the closed set of top-level administrative regions offered by
// the wizard. Membership is advisory: a region outside the set still passes
// as long as it is non-empty, so the list can evolve without stranding users.
var Regions = []string{
	"서울", "부산", "대구", "인천", "광주", "대전", "울산", "세종",
	"경기", "강원", "충북", "충남", "전북", "전남", "경북", "경남", "제주",
}

// Options controls deployment-specific validation behavior.
type Options struct {
	// RequireIncome makes the income field mandatory on the basic step.
	// The literal "0" passes; an empty or blank string does not, so
	// "no income" stays distinguishable from "not yet answered".
	RequireIncome bool
}

// Validate checks the profile against the rules of one wizard step and
// returns field name to error message. An empty map means the step is valid
// and the caller may advance. Validation never gates Retreat or Reset.
func Validate(step int, p models.Profile, opts Options) map[string]string {
	errs := make(map[string]string)
	switch step {
	case models.StepBasic:
		validateBasic(p, opts, errs)
	case models.StepStatus:
		if strings.TrimSpace(p.EmploymentStatus) == "" {
			errs["employment_status"] = "고용 상태를 선택해주세요"
		}
	case models.StepInterest:
		// interest is always optional
	}
	return errs
}

func validateBasic(p models.Profile, opts Options, errs map[string]string) {
	year := strings.TrimSpace(p.BirthYear)
	if year == "" {
		errs["birth_year"] = "출생연도를 입력해주세요"
	} else if n, err := strconv.Atoi(year); err != nil || len(year) != 4 {
		errs["birth_year"] = "출생연도는 4자리 숫자로 입력해주세요"
	} else if n < BirthYearMin || n > BirthYearMax {
		errs["birth_year"] = "지원 대상 출생연도는 1980년부터 2010년까지입니다"
	}

	if strings.TrimSpace(p.Region) == "" {
		errs["region"] = "거주 지역을 선택해주세요"
	}

	if opts.RequireIncome && strings.TrimSpace(p.Income) == "" {
		errs["income"] = "연소득을 입력해주세요 (없으면 0)"
	}
}
