// Admin advisor endpoints (key-gated).
//
//   - GET    /api/admin/advisors
//   - POST   /api/admin/advisors
//   - PATCH  /api/admin/advisors/:id
//   - DELETE /api/admin/advisors/:id
//
// Setting is_default on create or update clears the flag on every other
// advisor; at most one default exists at a time.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/benefitbuddy/go-leads-backend/internal/domain"
	"github.com/benefitbuddy/go-leads-backend/internal/services"
)

// CreateAdvisorRequest is the payload for registering a benefits advisor.
type CreateAdvisorRequest struct {
	Name        string   `json:"name" binding:"required"`
	Phone       string   `json:"phone" binding:"required"`
	Email       string   `json:"email"`
	ZipPrefixes []string `json:"zip_prefixes"`
	IsDefault   bool     `json:"is_default"`
	Active      *bool    `json:"active"`
}

// UpdateAdvisorRequest carries the patchable advisor fields.
type UpdateAdvisorRequest struct {
	Name        *string   `json:"name"`
	Phone       *string   `json:"phone"`
	Email       *string   `json:"email"`
	ZipPrefixes *[]string `json:"zip_prefixes"`
	IsDefault   *bool     `json:"is_default"`
	Active      *bool     `json:"active"`
}

// ListAdvisors godoc
// @ID          adminListAdvisors
// @Summary     List benefits advisors
// @Tags        Admin
// @Produce     json
//
// @Param       key  query  string  false "Admin key"
//
// @Success     200  {array}   domain.Advisor
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/advisors [get]
func (h *Handlers) ListAdvisors(c *gin.Context) {
	advisors, err := h.Advisors.ListAdvisors(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list advisors")
		return
	}
	ok(c, http.StatusOK, advisors)
}

// CreateAdvisor godoc
// @ID          adminCreateAdvisor
// @Summary     Register a benefits advisor
// @Tags        Admin
// @Accept      json
// @Produce     json
//
// @Param       key   query  string                        false "Admin key"
// @Param       body  body   handlers.CreateAdvisorRequest true  "Advisor payload"
//
// @Success     201  {object}  domain.Advisor
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/advisors [post]
func (h *Handlers) CreateAdvisor(c *gin.Context) {
	var req CreateAdvisorRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Phone) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "advisor name and phone required")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	advisor := &domain.Advisor{
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		Email:       req.Email,
		ZipPrefixes: req.ZipPrefixes,
		IsDefault:   req.IsDefault,
		Active:      active,
	}
	if advisor.ZipPrefixes == nil {
		advisor.ZipPrefixes = []string{}
	}

	if err := h.Advisors.CreateAdvisor(c.Request.Context(), advisor); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not create advisor")
		return
	}
	ok(c, http.StatusCreated, advisor)
}

// UpdateAdvisor godoc
// @ID          adminUpdateAdvisor
// @Summary     Update a benefits advisor
// @Tags        Admin
// @Accept      json
// @Produce     json
//
// @Param       key   query  string                        false "Admin key"
// @Param       id    path   string                        true  "Advisor ID (UUID)"  format(uuid)
// @Param       body  body   handlers.UpdateAdvisorRequest true  "Fields to update"
//
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /admin/advisors/{id} [patch]
func (h *Handlers) UpdateAdvisor(c *gin.Context) {
	var req UpdateAdvisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	cols := map[string]any{}
	if req.Name != nil {
		cols["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		cols["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		cols["email"] = *req.Email
	}
	if req.ZipPrefixes != nil {
		cols["zip_prefixes"] = *req.ZipPrefixes
	}
	if req.IsDefault != nil {
		cols["is_default"] = *req.IsDefault
	}
	if req.Active != nil {
		cols["active"] = *req.Active
	}
	if len(cols) == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "no fields to update")
		return
	}

	err := h.Advisors.UpdateAdvisor(c.Request.Context(), c.Param("id"), cols)
	switch {
	case errors.Is(err, services.ErrAdvisorNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "advisor not found")
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not update advisor")
	default:
		noContent(c)
	}
}

// DeleteAdvisor godoc
// @ID          adminDeleteAdvisor
// @Summary     Delete a benefits advisor
// @Tags        Admin
// @Produce     json
//
// @Param       key  query  string  false "Admin key"
// @Param       id   path   string  true  "Advisor ID (UUID)"  format(uuid)
//
// @Success     204  {string}  string  "No Content"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /admin/advisors/{id} [delete]
func (h *Handlers) DeleteAdvisor(c *gin.Context) {
	err := h.Advisors.DeleteAdvisor(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrAdvisorNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "advisor not found")
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not delete advisor")
	default:
		noContent(c)
	}
}
