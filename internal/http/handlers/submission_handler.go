// Public screening endpoints.
//
//   - POST /api/submissions        (questionnaire intake)
//   - GET  /api/public-results/:id (shareable, non-PII results view)
//
// The intake endpoint carries a honeypot: bots filling the hidden `website`
// field receive a plausible success response and nothing is persisted.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/benefitbuddy/go-leads-backend/internal/benefits"
	"github.com/benefitbuddy/go-leads-backend/internal/http/middleware"
	"github.com/benefitbuddy/go-leads-backend/internal/services"
)

// CreateSubmissionResponse is returned after a successful screening intake.
type CreateSubmissionResponse struct {
	ID              string   `json:"id"`
	MatchedBenefits []string `json:"matched_benefits"`
}

// PublicResultsResponse is the shareable results view. It carries no contact
// fields, only the screening shape and the full matched program metadata.
type PublicResultsResponse struct {
	ID              string             `json:"id"`
	AgeRange        string             `json:"age_range"`
	ZipCode         string             `json:"zip_code"`
	MatchedBenefits []benefits.Program `json:"matched_benefits"`
	CreatedAt       string             `json:"created_at"`
}

// CreateSubmission godoc
// @ID          createSubmission
// @Summary     Submit a benefit screening
// @Description Validates the questionnaire, runs the benefit matcher, stores the submission, and returns the matched program IDs.
// @Tags        Screening
// @Accept      json
// @Produce     json
//
// @Param       body  body  services.SubmissionInput  true  "Screening answers"
//
// @Success     201  {object}  handlers.CreateSubmissionResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /submissions [post]
func (h *Handlers) CreateSubmission(c *gin.Context) {
	var in services.SubmissionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	// Honeypot: pretend success, persist nothing.
	if in.Website != "" {
		ok(c, http.StatusCreated, CreateSubmissionResponse{ID: "blocked", MatchedBenefits: []string{}})
		return
	}

	sub, err := h.Submissions.Create(c.Request.Context(), in)
	if err != nil {
		if ve, isVal := services.AsValidation(err); isVal {
			failValidation(c, ve)
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not save submission")
		return
	}

	middleware.CountSubmission()
	ok(c, http.StatusCreated, CreateSubmissionResponse{ID: sub.ID, MatchedBenefits: sub.MatchedBenefits})
}

// PublicResults godoc
// @ID          publicResults
// @Summary     Shareable screening results
// @Description Returns a non-PII view of a submission with full matched benefit metadata.
// @Tags        Screening
// @Produce     json
//
// @Param       id  path  string  true  "Submission ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.PublicResultsResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /public-results/{id} [get]
func (h *Handlers) PublicResults(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "results not found")
		return
	}

	sub, err := h.Submissions.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "results not found")
		return
	}

	matched := make([]benefits.Program, 0, len(sub.MatchedBenefits))
	for _, pid := range sub.MatchedBenefits {
		if p, found := benefits.ByID(pid); found {
			matched = append(matched, p)
		}
	}

	ok(c, http.StatusOK, PublicResultsResponse{
		ID:              sub.ID,
		AgeRange:        sub.AgeRange,
		ZipCode:         sub.ZipCode,
		MatchedBenefits: matched,
		CreatedAt:       sub.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}
