package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benefitbuddy/go-leads-backend/internal/domain"
	"github.com/benefitbuddy/go-leads-backend/internal/services"
)

// chanWebhook signals each post on a channel so tests can wait for the
// background forward without sleeping.
type chanWebhook struct {
	posted chan string
}

func (c *chanWebhook) Post(_ context.Context, url string, _ any) error {
	c.posted <- url
	return nil
}

func submissionHandlers(db *gorm.DB, wh *chanWebhook) *Handlers {
	svc := &services.SubmissionService{DB: db}
	if wh != nil {
		svc.Webhook = wh
		svc.WebhookURL = "https://pipeline.example.com/submissions"
	}
	return &Handlers{Submissions: svc}
}

func screeningBody(overrides map[string]any) *bytes.Buffer {
	body := map[string]any{
		"full_name":            "Jamie Screener",
		"email":                "jamie@example.com",
		"age_range":            "65_plus",
		"zip_code":             "30301",
		"household_size":       "2",
		"monthly_income_range": "under_1000",
		"employment_status":    "retired",
		"veteran":              "no",
		"disability":           "no",
		"student":              "no",
		"pregnant_or_children": "no",
		"has_health_insurance": "no",
		"housing_status":       "rent",
	}
	for k, v := range overrides {
		body[k] = v
	}
	raw, _ := json.Marshal(body)
	return bytes.NewBuffer(raw)
}

func TestCreateSubmission_BadJSON_Honeypot_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlersDB(t)
	h := submissionHandlers(db, nil)

	r := gin.New()
	r.POST("/submissions", h.CreateSubmission)

	// bad JSON -> 400
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submissions", bytes.NewBufferString("{bad"))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad json -> %d", w.Code)
	}

	// honeypot -> plausible success, nothing persisted
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/submissions", screeningBody(map[string]any{"website": "http://spam"}))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("honeypot -> %d", w.Code)
	}
	var hp CreateSubmissionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &hp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if hp.ID != "blocked" || len(hp.MatchedBenefits) != 0 {
		t.Fatalf("unexpected honeypot response: %+v", hp)
	}
	var count int64
	db.Model(&domain.Submission{}).Count(&count)
	if count != 0 {
		t.Fatalf("honeypot persisted %d submissions", count)
	}

	// validation failure -> 400 listing every bad field
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/submissions",
		screeningBody(map[string]any{"age_range": "toddler", "veteran": "maybe", "zip_code": "12"}))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("validation -> %d", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json: %v", err)
	}
	if er.Code != ErrCodeValidation || len(er.Details) < 3 {
		t.Fatalf("expected 3+ field details, got: %+v", er)
	}
}

func TestCreateSubmission_Success_ForwardsNonPIIEvent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlersDB(t)
	wh := &chanWebhook{posted: make(chan string, 1)}
	h := submissionHandlers(db, wh)

	r := gin.New()
	r.POST("/submissions", h.CreateSubmission)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submissions", screeningBody(nil))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create -> %d body=%s", w.Code, w.Body.String())
	}

	var out CreateSubmissionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if _, err := uuid.Parse(out.ID); err != nil {
		t.Fatalf("id is not a UUID: %q", out.ID)
	}
	// retired + 65_plus + low income + no insurance matches several programs
	if len(out.MatchedBenefits) == 0 {
		t.Fatalf("expected matched benefits")
	}

	select {
	case url := <-wh.posted:
		if url != "https://pipeline.example.com/submissions" {
			t.Fatalf("webhook url = %q", url)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("background forward never fired")
	}
}

func TestPublicResults_NotFound_And_NoPII(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newHandlersDB(t)
	h := submissionHandlers(db, nil)

	r := gin.New()
	r.POST("/submissions", h.CreateSubmission)
	r.GET("/public-results/:id", h.PublicResults)

	// non-UUID id -> 404 without touching the DB
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/public-results/not-a-uuid", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("bad id -> %d", w.Code)
	}

	// unknown UUID -> 404
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/public-results/"+uuid.NewString(), nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown id -> %d", w.Code)
	}

	// seed through the public API, then fetch the shared view
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/submissions", screeningBody(nil))
	r.ServeHTTP(w, req)
	var created CreateSubmissionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("json: %v", err)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/public-results/"+created.ID, nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("results -> %d body=%s", w.Code, w.Body.String())
	}

	var view PublicResultsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("json: %v", err)
	}
	if view.ID != created.ID || view.AgeRange != "65_plus" || view.ZipCode != "30301" {
		t.Fatalf("unexpected view: %+v", view)
	}
	if len(view.MatchedBenefits) != len(created.MatchedBenefits) {
		t.Fatalf("matched programs mismatch: %d vs %d", len(view.MatchedBenefits), len(created.MatchedBenefits))
	}
	// contact fields must never appear in the shared view
	body := w.Body.String()
	if strings.Contains(body, "jamie@example.com") || strings.Contains(body, "Jamie Screener") {
		t.Fatalf("PII leaked into public results: %s", body)
	}
}
