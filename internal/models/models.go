package models

import "time"

// Profile holds the in-progress user input collected by the wizard.
// All fields arrive as strings from the form layer; parsing happens at
// request-build time, not here.
type Profile struct {
	BirthYear        string `json:"birth_year"`
	Region           string `json:"region"`
	EmploymentStatus string `json:"employment_status"`
	Income           string `json:"income"`
	Interest         string `json:"interest"`
}

// Wizard steps. Progression is linear; bounds are enforced by the caller,
// not by the session store.
const (
	StepBasic    = 1
	StepStatus   = 2
	StepInterest = 3
)

// RecommendationRequest is the outbound scoring query sent to the
// orchestrator service. Immutable once built.
type RecommendationRequest struct {
	Age        int     `json:"age"`
	Region     string  `json:"region"`
	Income     int     `json:"income"`
	Employment string  `json:"employment"`
	Interest   *string `json:"interest"`
	MinScore   float64 `json:"min_score"`
	MaxResults int     `json:"max_results"`
}

// RecommendationItem is the view model for one scored policy.
// MatchReasons and Tags are never nil.
type RecommendationItem struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Amount       string   `json:"amount"`
	Score        float64  `json:"score"`
	Explanation  string   `json:"explanation"`
	MatchReasons []string `json:"match_reasons"`
	Tags         []string `json:"tags"`
	Deadline     string   `json:"deadline"`
}

// RecommendationView is what the client renders after a successful
// recommendation run.
type RecommendationView struct {
	Message        string               `json:"message"`
	ProfileSummary string               `json:"profile_summary,omitempty"`
	Items          []RecommendationItem `json:"items"`
}

// SavedItem is a recommendation the user chose to keep beyond the session.
type SavedItem struct {
	RecommendationItem
	SavedAt time.Time `json:"saved_at"`
}

// PolicyDetail is the per-policy detail shape served by the upstream
// detail endpoint.
type PolicyDetail struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Category         string   `json:"category"`
	TargetAge        string   `json:"target_age"`
	TargetRegion     []string `json:"target_region"`
	TargetEmployment []string `json:"target_employment"`
	Deadline         string   `json:"deadline"`
	ApplicationURL   string   `json:"application_url"`
}

// RawPolicyRecord is one row of the bulk policy dataset: column name to
// cell value, with no schema guarantees. Read-only.
type RawPolicyRecord map[string]string
