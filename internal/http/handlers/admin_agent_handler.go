// Admin agent endpoints (key-gated).
//
//   - GET    /api/admin/agents
//   - POST   /api/admin/agents
//   - PATCH  /api/admin/agents/:id
//   - DELETE /api/admin/agents/:id
//   - PUT    /api/admin/agents/:id/credits       (set balance)
//   - POST   /api/admin/agents/:id/credits/adjust (signed delta)
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/benefitbuddy/go-leads-backend/internal/domain"
	"github.com/benefitbuddy/go-leads-backend/internal/services"
)

// CreateAgentRequest is the payload for registering a licensed agent.
type CreateAgentRequest struct {
	Name        string   `json:"name" binding:"required"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	WebhookURL  string   `json:"webhook_url"`
	State       string   `json:"state"`
	CoveredZips []string `json:"covered_zips"`
	IsActive    *bool    `json:"is_active"`
	Credits     int      `json:"credits_remaining"`
}

// UpdateAgentRequest carries the patchable agent fields. Pointer fields
// distinguish "absent" from zero values.
type UpdateAgentRequest struct {
	Name        *string   `json:"name"`
	Phone       *string   `json:"phone"`
	Email       *string   `json:"email"`
	WebhookURL  *string   `json:"webhook_url"`
	State       *string   `json:"state"`
	CoveredZips *[]string `json:"covered_zips"`
	IsActive    *bool     `json:"is_active"`
}

// SetCreditsRequest sets an agent's credit balance outright.
type SetCreditsRequest struct {
	Credits int `json:"credits" example:"25"`
}

// AdjustCreditsRequest applies a signed delta to an agent's balance.
type AdjustCreditsRequest struct {
	Delta int `json:"delta" example:"-1"`
}

// CreditsResponse reports an agent's balance after a credits operation.
type CreditsResponse struct {
	AgentID string `json:"agent_id"`
	Credits int    `json:"credits_remaining"`
}

// ListAgents godoc
// @ID          adminListAgents
// @Summary     List licensed agents
// @Tags        Admin
// @Produce     json
//
// @Param       key  query  string  false "Admin key"
//
// @Success     200  {array}   domain.Agent
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/agents [get]
func (h *Handlers) ListAgents(c *gin.Context) {
	agents, err := h.Agents.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list agents")
		return
	}
	ok(c, http.StatusOK, agents)
}

// CreateAgent godoc
// @ID          adminCreateAgent
// @Summary     Register a licensed agent
// @Tags        Admin
// @Accept      json
// @Produce     json
//
// @Param       key   query  string                      false "Admin key"
// @Param       body  body   handlers.CreateAgentRequest true  "Agent payload"
//
// @Success     201  {object}  domain.Agent
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/agents [post]
func (h *Handlers) CreateAgent(c *gin.Context) {
	var req CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "agent name required")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	agent := &domain.Agent{
		Name:             strings.TrimSpace(req.Name),
		Phone:            req.Phone,
		Email:            req.Email,
		WebhookURL:       req.WebhookURL,
		State:            req.State,
		CoveredZips:      req.CoveredZips,
		IsActive:         active,
		CreditsRemaining: max(req.Credits, 0),
	}
	if agent.CoveredZips == nil {
		agent.CoveredZips = []string{}
	}

	if err := h.Agents.Create(c.Request.Context(), agent); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not create agent")
		return
	}
	ok(c, http.StatusCreated, agent)
}

// UpdateAgent godoc
// @ID          adminUpdateAgent
// @Summary     Update a licensed agent
// @Tags        Admin
// @Accept      json
// @Produce     json
//
// @Param       key   query  string                      false "Admin key"
// @Param       id    path   string                      true  "Agent ID (UUID)"  format(uuid)
// @Param       body  body   handlers.UpdateAgentRequest true  "Fields to update"
//
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /admin/agents/{id} [patch]
func (h *Handlers) UpdateAgent(c *gin.Context) {
	var req UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	cols := map[string]any{}
	if req.Name != nil {
		cols["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		cols["phone"] = *req.Phone
	}
	if req.Email != nil {
		cols["email"] = *req.Email
	}
	if req.WebhookURL != nil {
		cols["webhook_url"] = *req.WebhookURL
	}
	if req.State != nil {
		cols["state"] = *req.State
	}
	if req.CoveredZips != nil {
		cols["covered_zips"] = *req.CoveredZips
	}
	if req.IsActive != nil {
		cols["is_active"] = *req.IsActive
	}
	if len(cols) == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "no fields to update")
		return
	}

	err := h.Agents.Update(c.Request.Context(), c.Param("id"), cols)
	switch {
	case errors.Is(err, services.ErrAgentNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "agent not found")
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not update agent")
	default:
		noContent(c)
	}
}

// DeleteAgent godoc
// @ID          adminDeleteAgent
// @Summary     Delete a licensed agent
// @Tags        Admin
// @Produce     json
//
// @Param       key  query  string  false "Admin key"
// @Param       id   path   string  true  "Agent ID (UUID)"  format(uuid)
//
// @Success     204  {string}  string  "No Content"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /admin/agents/{id} [delete]
func (h *Handlers) DeleteAgent(c *gin.Context) {
	err := h.Agents.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrAgentNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "agent not found")
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not delete agent")
	default:
		noContent(c)
	}
}

// SetAgentCredits godoc
// @ID          adminSetAgentCredits
// @Summary     Set an agent's credit balance
// @Description Overwrites the balance, flooring at zero, and stamps credits_updated_at.
// @Tags        Admin
// @Accept      json
// @Produce     json
//
// @Param       key   query  string                       false "Admin key"
// @Param       id    path   string                       true  "Agent ID (UUID)"  format(uuid)
// @Param       body  body   handlers.SetCreditsRequest   true  "New balance"
//
// @Success     200  {object}  handlers.CreditsResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /admin/agents/{id}/credits [put]
func (h *Handlers) SetAgentCredits(c *gin.Context) {
	var req SetCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	id := c.Param("id")
	err := h.Agents.SetCredits(c.Request.Context(), id, req.Credits)
	switch {
	case errors.Is(err, services.ErrAgentNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "agent not found")
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not set credits")
	default:
		ok(c, http.StatusOK, CreditsResponse{AgentID: id, Credits: max(req.Credits, 0)})
	}
}

// AdjustAgentCredits godoc
// @ID          adminAdjustAgentCredits
// @Summary     Adjust an agent's credit balance
// @Description Applies a signed delta, flooring at zero, and returns the new balance.
// @Tags        Admin
// @Accept      json
// @Produce     json
//
// @Param       key   query  string                        false "Admin key"
// @Param       id    path   string                        true  "Agent ID (UUID)"  format(uuid)
// @Param       body  body   handlers.AdjustCreditsRequest true  "Signed delta"
//
// @Success     200  {object}  handlers.CreditsResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /admin/agents/{id}/credits/adjust [post]
func (h *Handlers) AdjustAgentCredits(c *gin.Context) {
	var req AdjustCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	id := c.Param("id")
	balance, err := h.Agents.AdjustCredits(c.Request.Context(), id, req.Delta)
	switch {
	case errors.Is(err, services.ErrAgentNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "agent not found")
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not adjust credits")
	default:
		ok(c, http.StatusOK, CreditsResponse{AgentID: id, Credits: balance})
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
