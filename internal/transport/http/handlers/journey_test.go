package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"appraise/internal/app/server"
	"appraise/internal/platform/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error any             `json:"error"`
}

func testConfig(dbURL string) config.Config {
	return config.Config{
		Addr:              ":0",
		DatabaseURL:       dbURL,
		JWTSecret:         "test-secret",
		TokenTTL:          time.Hour,
		Environment:       "test",
		SeedAdminEmail:    "admin@test.local",
		SeedAdminPassword: "ChangeMe123!",
		RunMigrations:     true,
		RunSeed:           true,
		MigrationsDir:     "../../../../migrations",
		MaxBodyBytes:      1048576,
	}
}

func TestAppraisalJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	cycleID := createCycle(t, client, ts.URL, token)
	templateID := createTemplate(t, client, ts.URL, token)
	sectionID := createSection(t, client, ts.URL, token, templateID)
	firstCriterion := createCriterion(t, client, ts.URL, token, sectionID, "Delivery", 60, 1)
	secondCriterion := createCriterion(t, client, ts.URL, token, sectionID, "Teamwork", 40, 2)

	weights := getJSON(t, client, ts.URL+"/api/v1/templates/"+templateID+"/weights", token)
	var summary struct {
		TotalWeight int  `json:"totalWeight"`
		Balanced    bool `json:"balanced"`
	}
	if err := json.Unmarshal(weights.Data, &summary); err != nil {
		t.Fatalf("failed to decode weight summary: %v", err)
	}
	if summary.TotalWeight != 100 || !summary.Balanced {
		t.Fatalf("expected balanced template, got %+v", summary)
	}

	employeeID := fmt.Sprintf("emp-%d", time.Now().UnixNano())
	resp := postJSON(t, client, ts.URL+"/api/v1/appraisals", token, map[string]any{
		"employeeId": employeeID,
		"cycleId":    cycleID,
		"templateId": templateID,
	})
	var created struct {
		ID        string `json:"id"`
		Reference string `json:"reference"`
		Status    string `json:"status"`
	}
	if err := json.Unmarshal(resp.Data, &created); err != nil {
		t.Fatalf("failed to decode appraisal: %v", err)
	}
	if created.Status != "draft" {
		t.Fatalf("expected draft, got %s", created.Status)
	}
	if !strings.HasPrefix(created.Reference, "APR-2026-") {
		t.Fatalf("unexpected reference %s", created.Reference)
	}
	appraisalID := created.ID

	// Out-of-order actions are rejected before any write.
	postJSONStatus(t, client, ts.URL+"/api/v1/appraisals/"+appraisalID+"/approve", token, map[string]any{}, http.StatusConflict)

	advance(t, client, ts.URL, token, appraisalID, "start-self-assessment", nil, "self_assessment")

	// Ratings upsert in place: two writes to one criterion leave one row.
	putRating(t, client, ts.URL, token, appraisalID, firstCriterion, "self", 3, "first pass")
	putRating(t, client, ts.URL, token, appraisalID, firstCriterion, "self", 4, "revised")
	putRating(t, client, ts.URL, token, appraisalID, secondCriterion, "self", 4, "")

	ratings := getJSON(t, client, ts.URL+"/api/v1/appraisals/"+appraisalID+"/ratings", token)
	var ratingRows []map[string]any
	if err := json.Unmarshal(ratings.Data, &ratingRows); err != nil {
		t.Fatalf("failed to decode ratings: %v", err)
	}
	if len(ratingRows) != 2 {
		t.Fatalf("expected 2 rating rows, got %d", len(ratingRows))
	}

	advance(t, client, ts.URL, token, appraisalID, "submit-self-assessment", map[string]any{
		"achievements": "Shipped the reporting revamp",
		"challenges":   "Capacity",
	}, "manager_review")

	// Self-stage ratings are locked once the appraisal moves on.
	putRatingStatus(t, client, ts.URL, token, appraisalID, firstCriterion, "self", 5, http.StatusConflict)

	putRating(t, client, ts.URL, token, appraisalID, firstCriterion, "manager", 5, "excellent")
	putRating(t, client, ts.URL, token, appraisalID, secondCriterion, "manager", 5, "")

	managerResult := postJSON(t, client, ts.URL+"/api/v1/appraisals/"+appraisalID+"/submit-manager-review", token, map[string]any{
		"strengths": "Consistent delivery",
	})
	var submitted struct {
		Appraisal struct {
			Status           string  `json:"status"`
			PercentageScore  *int    `json:"percentageScore"`
			PerformanceLevel *string `json:"performanceLevel"`
			Recommendation   *string `json:"recommendation"`
		} `json:"appraisal"`
		Score struct {
			Percentage int `json:"percentage"`
		} `json:"score"`
	}
	if err := json.Unmarshal(managerResult.Data, &submitted); err != nil {
		t.Fatalf("failed to decode manager review: %v", err)
	}
	if submitted.Appraisal.Status != "committee_review" {
		t.Fatalf("expected committee_review, got %s", submitted.Appraisal.Status)
	}
	if submitted.Score.Percentage != 100 {
		t.Fatalf("expected 100%%, got %d", submitted.Score.Percentage)
	}
	if submitted.Appraisal.PerformanceLevel == nil || *submitted.Appraisal.PerformanceLevel != "Outstanding" {
		t.Fatalf("expected Outstanding, got %v", submitted.Appraisal.PerformanceLevel)
	}
	if submitted.Appraisal.Recommendation == nil || *submitted.Appraisal.Recommendation != "promote" {
		t.Fatalf("expected promote, got %v", submitted.Appraisal.Recommendation)
	}

	putRating(t, client, ts.URL, token, appraisalID, firstCriterion, "committee", 4, "")
	putRating(t, client, ts.URL, token, appraisalID, secondCriterion, "committee", 4, "")

	committeeResult := postJSON(t, client, ts.URL+"/api/v1/appraisals/"+appraisalID+"/submit-committee-review", token, map[string]any{
		"comments": "Agreed with adjustments",
	})
	if err := json.Unmarshal(committeeResult.Data, &submitted); err != nil {
		t.Fatalf("failed to decode committee review: %v", err)
	}
	if submitted.Appraisal.Status != "pending_approval" {
		t.Fatalf("expected pending_approval, got %s", submitted.Appraisal.Status)
	}
	if submitted.Score.Percentage != 80 {
		t.Fatalf("expected 80%%, got %d", submitted.Score.Percentage)
	}

	advance(t, client, ts.URL, token, appraisalID, "approve", map[string]any{"comments": "ok"}, "approved")
	advance(t, client, ts.URL, token, appraisalID, "communicate", nil, "communicated")

	letterReq, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/appraisals/"+appraisalID+"/letter", nil)
	if err != nil {
		t.Fatalf("failed to create letter request: %v", err)
	}
	letterReq.Header.Set("Authorization", "Bearer "+token)
	letterResp, err := client.Do(letterReq)
	if err != nil {
		t.Fatalf("letter request failed: %v", err)
	}
	defer letterResp.Body.Close()
	if letterResp.StatusCode != http.StatusOK {
		t.Fatalf("expected letter 200, got %d", letterResp.StatusCode)
	}
	if ct := letterResp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %s", ct)
	}

	advance(t, client, ts.URL, token, appraisalID, "acknowledge", map[string]any{"feedback": "understood"}, "completed")
}

func TestProbationExtensionCap(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	employeeID := fmt.Sprintf("emp-%d", time.Now().UnixNano())
	resp := postJSON(t, client, ts.URL+"/api/v1/probations", token, map[string]any{
		"employeeId":   employeeID,
		"startDate":    "2026-01-01",
		"periodMonths": 6,
	})
	var record struct {
		ID             string `json:"id"`
		Status         string `json:"status"`
		ExtensionCount int    `json:"extensionCount"`
	}
	if err := json.Unmarshal(resp.Data, &record); err != nil {
		t.Fatalf("failed to decode probation: %v", err)
	}
	probationID := record.ID

	for i := 1; i <= 2; i++ {
		resp := postJSON(t, client, ts.URL+"/api/v1/probations/"+probationID+"/extend", token, map[string]any{
			"months": 1,
			"reason": "performance concerns",
		})
		if err := json.Unmarshal(resp.Data, &record); err != nil {
			t.Fatalf("failed to decode extension %d: %v", i, err)
		}
		if record.Status != "extended" {
			t.Fatalf("extension %d: expected extended, got %s", i, record.Status)
		}
		if record.ExtensionCount != i {
			t.Fatalf("extension %d: expected count %d, got %d", i, i, record.ExtensionCount)
		}
	}

	postJSONStatus(t, client, ts.URL+"/api/v1/probations/"+probationID+"/extend", token, map[string]any{
		"months": 1,
		"reason": "one more",
	}, http.StatusConflict)

	extensions := getJSON(t, client, ts.URL+"/api/v1/probations/"+probationID+"/extensions", token)
	var rows []map[string]any
	if err := json.Unmarshal(extensions.Data, &rows); err != nil {
		t.Fatalf("failed to decode extensions: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected exactly 2 extension rows, got %d", len(rows))
	}

	confirmResp := postJSON(t, client, ts.URL+"/api/v1/probations/"+probationID+"/confirm", token, map[string]any{})
	if err := json.Unmarshal(confirmResp.Data, &record); err != nil {
		t.Fatalf("failed to decode confirmation: %v", err)
	}
	if record.Status != "confirmed" {
		t.Fatalf("expected confirmed, got %s", record.Status)
	}

	// Closed records accept no further transitions.
	postJSONStatus(t, client, ts.URL+"/api/v1/probations/"+probationID+"/terminate", token, map[string]any{
		"reason": "late",
	}, http.StatusConflict)
}

func TestImprovementPlanCheckInSequence(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	employeeID := fmt.Sprintf("emp-%d", time.Now().UnixNano())
	resp := postJSON(t, client, ts.URL+"/api/v1/pips", token, map[string]any{
		"employeeId":    employeeID,
		"reason":        "missed targets two quarters running",
		"startDate":     "2026-02-01",
		"durationWeeks": 8,
	})
	var plan struct {
		ID        string  `json:"id"`
		Reference string  `json:"reference"`
		Status    string  `json:"status"`
		Outcome   *string `json:"outcome"`
	}
	if err := json.Unmarshal(resp.Data, &plan); err != nil {
		t.Fatalf("failed to decode plan: %v", err)
	}
	if !strings.HasPrefix(plan.Reference, "PIP-2026-") {
		t.Fatalf("unexpected reference %s", plan.Reference)
	}
	planID := plan.ID

	activated := postJSON(t, client, ts.URL+"/api/v1/pips/"+planID+"/activate", token, map[string]any{})
	if err := json.Unmarshal(activated.Data, &plan); err != nil {
		t.Fatalf("failed to decode activation: %v", err)
	}
	if plan.Status != "active" {
		t.Fatalf("expected active, got %s", plan.Status)
	}

	postJSONStatus(t, client, ts.URL+"/api/v1/pips/"+planID+"/check-ins", token, map[string]any{
		"rating": 9,
		"notes":  "off the scale",
	}, http.StatusBadRequest)

	for i := 1; i <= 3; i++ {
		resp := postJSON(t, client, ts.URL+"/api/v1/pips/"+planID+"/check-ins", token, map[string]any{
			"rating": 3,
			"notes":  fmt.Sprintf("week %d", i),
		})
		var checkIn struct {
			CheckInNumber int `json:"checkInNumber"`
		}
		if err := json.Unmarshal(resp.Data, &checkIn); err != nil {
			t.Fatalf("failed to decode check-in %d: %v", i, err)
		}
		if checkIn.CheckInNumber != i {
			t.Fatalf("expected check-in number %d, got %d", i, checkIn.CheckInNumber)
		}
	}

	completed := postJSON(t, client, ts.URL+"/api/v1/pips/"+planID+"/complete", token, map[string]any{
		"outcome": "success",
	})
	if err := json.Unmarshal(completed.Data, &plan); err != nil {
		t.Fatalf("failed to decode completion: %v", err)
	}
	if plan.Status != "success" || plan.Outcome == nil || *plan.Outcome != "success" {
		t.Fatalf("expected success outcome, got %+v", plan)
	}

	// Terminal plans refuse both new check-ins and re-completion.
	postJSONStatus(t, client, ts.URL+"/api/v1/pips/"+planID+"/check-ins", token, map[string]any{
		"rating": 3,
	}, http.StatusConflict)
	postJSONStatus(t, client, ts.URL+"/api/v1/pips/"+planID+"/complete", token, map[string]any{
		"outcome": "failure",
	}, http.StatusConflict)
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if payload.Token == "" {
		t.Fatal("expected token")
	}
	return payload.Token
}

func createCycle(t *testing.T, client *http.Client, baseURL, token string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/cycles", token, map[string]any{
		"name":               "FY2026 Annual",
		"fiscalYear":         2026,
		"cycleType":          "annual",
		"selfAssessmentDue":  "2026-03-31",
		"managerReviewDue":   "2026-04-30",
		"committeeReviewDue": "2026-05-31",
		"finalApprovalDue":   "2026-06-30",
		"status":             "active",
	})
	return decodeID(t, resp, "cycle")
}

func createTemplate(t *testing.T, client *http.Client, baseURL, token string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/templates", token, map[string]any{
		"name":     "Annual Review",
		"type":     "annual",
		"isActive": true,
	})
	return decodeID(t, resp, "template")
}

func createSection(t *testing.T, client *http.Client, baseURL, token, templateID string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/templates/"+templateID+"/sections", token, map[string]any{
		"name":     "Core Competencies",
		"weight":   100,
		"position": 1,
	})
	return decodeID(t, resp, "section")
}

func createCriterion(t *testing.T, client *http.Client, baseURL, token, sectionID, name string, weight, position int) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/sections/"+sectionID+"/criteria", token, map[string]any{
		"name":     name,
		"weight":   weight,
		"position": position,
	})
	return decodeID(t, resp, "criterion")
}

func decodeID(t *testing.T, resp envelope, kind string) string {
	t.Helper()
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode %s response: %v", kind, err)
	}
	if payload.ID == "" {
		t.Fatalf("expected %s id", kind)
	}
	return payload.ID
}

func advance(t *testing.T, client *http.Client, baseURL, token, appraisalID, action string, body map[string]any, wantStatus string) {
	t.Helper()
	if body == nil {
		body = map[string]any{}
	}
	resp := postJSON(t, client, baseURL+"/api/v1/appraisals/"+appraisalID+"/"+action, token, body)
	var payload struct {
		Status    string `json:"status"`
		Appraisal struct {
			Status string `json:"status"`
		} `json:"appraisal"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode %s response: %v", action, err)
	}
	status := payload.Status
	if status == "" {
		status = payload.Appraisal.Status
	}
	if status != wantStatus {
		t.Fatalf("%s: expected status %s, got %s", action, wantStatus, status)
	}
}

func putRating(t *testing.T, client *http.Client, baseURL, token, appraisalID, criterionID, perspective string, value int, comment string) {
	t.Helper()
	putJSON(t, client, baseURL+"/api/v1/appraisals/"+appraisalID+"/ratings/"+criterionID, token, map[string]any{
		"perspective": perspective,
		"value":       value,
		"comment":     comment,
	})
}

func putRatingStatus(t *testing.T, client *http.Client, baseURL, token, appraisalID, criterionID, perspective string, value, want int) {
	t.Helper()
	doJSONStatus(t, client, http.MethodPut, baseURL+"/api/v1/appraisals/"+appraisalID+"/ratings/"+criterionID, token, map[string]any{
		"perspective": perspective,
		"value":       value,
	}, want)
}

func postJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPost, url, token, body)
}

func putJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPut, url, token, body)
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any) envelope {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.StatusCode >= 400 {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}
	return env
}

func postJSONStatus(t *testing.T, client *http.Client, url, token string, body any, want int) envelope {
	t.Helper()
	return doJSONStatus(t, client, http.MethodPost, url, token, body, want)
}

func doJSONStatus(t *testing.T, client *http.Client, method, url, token string, body any, want int) envelope {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, string(raw))
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}

func getJSON(t *testing.T, client *http.Client, url, token string) envelope {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.StatusCode >= 400 {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}
	return env
}
