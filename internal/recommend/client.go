package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"youthpolicy/internal/models"
)

// NetworkError is a transport-level failure: the orchestrator was never
// reached or the connection broke mid-flight.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("recommend: %s: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// ServiceError is an upstream-reported failure: a non-2xx status or an
// explicit success:false envelope. Message carries the upstream text when
// one was provided.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("recommend: service error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("recommend: service error (HTTP %d)", e.StatusCode)
}

// ongoingDeadline is the display string substituted for the upstream's
// rolling-admission sentinel.
const ongoingDeadline = "상시 모집"

// Client calls the external recommendation orchestrator.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// New creates a client for the orchestrator at baseURL.
func New(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
	}
}

// Upstream response envelope (orchestrator). Only the fields the view
// model needs are decoded.
type orchestratorResponse struct {
	Success              bool   `json:"success"`
	Message              string `json:"message"`
	RecommendationResult struct {
		Success            bool         `json:"success"`
		Message            string       `json:"message"`
		UserProfileSummary string       `json:"user_profile_summary"`
		Recommendations    []policyCard `json:"recommendations"`
	} `json:"recommendation_result"`
	ErrorDetail string `json:"error_detail"`
}

type policyCard struct {
	PolicyID     string   `json:"policy_id"`
	PolicyName   string   `json:"policy_name"`
	Benefit      string   `json:"benefit"`
	Score        float64  `json:"score"`
	Explanation  string   `json:"explanation"`
	MatchReasons []string `json:"match_reasons"`
	Tags         []string `json:"tags"`
	Deadline     string   `json:"deadline"`
}

// Fetch performs exactly one orchestrator call and maps the response into
// the view model. No retries: a failure surfaces immediately and the caller
// may re-invoke.
func (c *Client) Fetch(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationView, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("recommend: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orchestrator", bytes.NewReader(body))
	if err != nil {
		return nil, &NetworkError{Op: "build request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Op: "POST /api/orchestrator", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &NetworkError{Op: "read response", Err: err}
	}

	var decoded orchestratorResponse
	if resp.StatusCode != http.StatusOK {
		// Try to salvage the upstream message for the error
		_ = json.Unmarshal(data, &decoded)
		msg := decoded.Message
		if msg == "" {
			msg = decoded.ErrorDetail
		}
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: msg}
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: "응답을 해석할 수 없습니다"}
	}
	if !decoded.Success {
		msg := decoded.Message
		if msg == "" {
			msg = decoded.ErrorDetail
		}
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: msg}
	}

	items := make([]models.RecommendationItem, 0, len(decoded.RecommendationResult.Recommendations))
	for _, card := range decoded.RecommendationResult.Recommendations {
		items = append(items, mapCard(card))
	}

	return &models.RecommendationView{
		Message:        decoded.RecommendationResult.Message,
		ProfileSummary: decoded.RecommendationResult.UserProfileSummary,
		Items:          items,
	}, nil
}

// mapCard turns an upstream policy card into the view model. Absent optional
// lists become empty slices so downstream rendering and filtering stay total.
func mapCard(card policyCard) models.RecommendationItem {
	reasons := card.MatchReasons
	if reasons == nil {
		reasons = []string{}
	}
	tags := card.Tags
	if tags == nil {
		tags = []string{}
	}
	deadline := card.Deadline
	if deadline == "상시" {
		deadline = ongoingDeadline
	}
	return models.RecommendationItem{
		ID:           card.PolicyID,
		Title:        card.PolicyName,
		Amount:       card.Benefit,
		Score:        card.Score,
		Explanation:  card.Explanation,
		MatchReasons: reasons,
		Tags:         tags,
		Deadline:     deadline,
	}
}

type detailResponse struct {
	Success bool                `json:"success"`
	Policy  models.PolicyDetail `json:"policy"`
	Message string              `json:"message"`
}

// Detail fetches one policy's detail record. On success:false or transport
// failure the caller is expected to fall back to state it already holds.
func (c *Client) Detail(ctx context.Context, policyID string) (models.PolicyDetail, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/policy/"+policyID, nil)
	if err != nil {
		return models.PolicyDetail{}, &NetworkError{Op: "build request", Err: err}
	}
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return models.PolicyDetail{}, &NetworkError{Op: "GET /api/policy/" + policyID, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return models.PolicyDetail{}, &NetworkError{Op: "read response", Err: err}
	}

	var decoded detailResponse
	if err := json.Unmarshal(data, &decoded); err != nil || !decoded.Success {
		msg := decoded.Message
		return models.PolicyDetail{}, &ServiceError{StatusCode: resp.StatusCode, Message: msg}
	}
	return decoded.Policy, nil
}
