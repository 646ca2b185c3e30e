// Admin submission endpoints (key-gated).
//
//   - GET    /api/admin/submissions      (search + status filter, paginated)
//   - GET    /api/admin/submissions/:id
//   - PATCH  /api/admin/submissions/:id  (status only)
//   - DELETE /api/admin/submissions/:id
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/benefitbuddy/go-leads-backend/internal/domain"
	"github.com/benefitbuddy/go-leads-backend/internal/services"
)

// ListSubmissionsResponse wraps a page of submissions.
type ListSubmissionsResponse struct {
	Submissions []domain.Submission `json:"submissions"`
	Pagination  Pagination          `json:"pagination"`
}

// UpdateStatusRequest is the payload for status-only PATCH endpoints.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"contacted"`
}

// ListSubmissions godoc
// @ID          adminListSubmissions
// @Summary     List screening submissions
// @Description Returns a page of submissions, optionally filtered by a search term (name, email, ZIP) and status.
// @Tags        Admin
// @Produce     json
//
// @Param       key        query  string  false "Admin key"
// @Param       search     query  string  false "Search term"
// @Param       status     query  string  false "Status filter"  Enums(new, contacted, closed)
// @Param       page       query  int     false "Page number"    minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page" minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListSubmissionsResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/submissions [get]
func (h *Handlers) ListSubmissions(c *gin.Context) {
	page, pageSize := clampPagination(c)
	items, total, err := h.Submissions.ListPage(c.Request.Context(), c.Query("search"), c.Query("status"), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list submissions")
		return
	}
	ok(c, http.StatusOK, ListSubmissionsResponse{
		Submissions: items,
		Pagination:  paginate(page, pageSize, total),
	})
}

// GetSubmission godoc
// @ID          adminGetSubmission
// @Summary     Get one submission
// @Tags        Admin
// @Produce     json
//
// @Param       key  query  string  false "Admin key"
// @Param       id   path   string  true  "Submission ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Submission
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /admin/submissions/{id} [get]
func (h *Handlers) GetSubmission(c *gin.Context) {
	sub, err := h.Submissions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "submission not found")
		return
	}
	ok(c, http.StatusOK, sub)
}

// UpdateSubmission godoc
// @ID          adminUpdateSubmission
// @Summary     Update a submission's workflow status
// @Tags        Admin
// @Accept      json
// @Produce     json
//
// @Param       key   query  string                          false "Admin key"
// @Param       id    path   string                          true  "Submission ID (UUID)"  format(uuid)
// @Param       body  body   handlers.UpdateStatusRequest    true  "New status"
//
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid status"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /admin/submissions/{id} [patch]
func (h *Handlers) UpdateSubmission(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status required")
		return
	}
	err := h.Submissions.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	switch {
	case errors.Is(err, services.ErrInvalidStatus):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be one of new, contacted, closed")
	case errors.Is(err, services.ErrSubmissionNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "submission not found")
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not update submission")
	default:
		noContent(c)
	}
}

// DeleteSubmission godoc
// @ID          adminDeleteSubmission
// @Summary     Delete a submission
// @Tags        Admin
// @Produce     json
//
// @Param       key  query  string  false "Admin key"
// @Param       id   path   string  true  "Submission ID (UUID)"  format(uuid)
//
// @Success     204  {string}  string  "No Content"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /admin/submissions/{id} [delete]
func (h *Handlers) DeleteSubmission(c *gin.Context) {
	err := h.Submissions.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrSubmissionNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "submission not found")
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not delete submission")
	default:
		noContent(c)
	}
}
