// Admin lead endpoints (key-gated).
//
//   - GET    /api/admin/leads                     (status/priority filter, paginated)
//   - GET    /api/admin/leads/:id
//   - PATCH  /api/admin/leads/:id                 (status only)
//   - DELETE /api/admin/leads/:id
//   - POST   /api/admin/leads/:id/retry-delivery  (reset + re-send a channel)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/benefitbuddy/go-leads-backend/internal/domain"
	"github.com/benefitbuddy/go-leads-backend/internal/repo"
	"github.com/benefitbuddy/go-leads-backend/internal/services"
)

// ListLeadsResponse wraps a page of leads.
type ListLeadsResponse struct {
	Leads      []domain.Lead `json:"leads"`
	Pagination Pagination    `json:"pagination"`
}

// RetryDeliveryResponse reports the delivery state after an admin retry.
type RetryDeliveryResponse struct {
	Success  bool                 `json:"success"`
	Channel  string               `json:"channel"`
	Delivery domain.DeliveryState `json:"delivery"`
}

// ListLeads godoc
// @ID          adminListLeads
// @Summary     List Medicare leads
// @Tags        Admin
// @Produce     json
//
// @Param       key        query  string  false "Admin key"
// @Param       status     query  string  false "Status filter"
// @Param       priority   query  string  false "Priority filter"  Enums(cold, warm, hot)
// @Param       page       query  int     false "Page number"      minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"   minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListLeadsResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/leads [get]
func (h *Handlers) ListLeads(c *gin.Context) {
	page, pageSize := clampPagination(c)
	items, total, err := h.Leads.ListPage(c.Request.Context(), c.Query("status"), c.Query("priority"), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list leads")
		return
	}
	ok(c, http.StatusOK, ListLeadsResponse{
		Leads:      items,
		Pagination: paginate(page, pageSize, total),
	})
}

// GetLead godoc
// @ID          adminGetLead
// @Summary     Get one lead
// @Tags        Admin
// @Produce     json
//
// @Param       key  query  string  false "Admin key"
// @Param       id   path   string  true  "Lead ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Lead
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /admin/leads/{id} [get]
func (h *Handlers) GetLead(c *gin.Context) {
	lead, err := h.Leads.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "lead not found")
		return
	}
	ok(c, http.StatusOK, lead)
}

// UpdateLead godoc
// @ID          adminUpdateLead
// @Summary     Update a lead's workflow status
// @Tags        Admin
// @Accept      json
// @Produce     json
//
// @Param       key   query  string                        false "Admin key"
// @Param       id    path   string                        true  "Lead ID (UUID)"  format(uuid)
// @Param       body  body   handlers.UpdateStatusRequest  true  "New status"
//
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid status"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /admin/leads/{id} [patch]
func (h *Handlers) UpdateLead(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status required")
		return
	}
	err := h.Leads.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	switch {
	case errors.Is(err, services.ErrInvalidStatus):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid lead status")
	case errors.Is(err, services.ErrLeadNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "lead not found")
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not update lead")
	default:
		noContent(c)
	}
}

// DeleteLead godoc
// @ID          adminDeleteLead
// @Summary     Delete a lead
// @Tags        Admin
// @Produce     json
//
// @Param       key  query  string  false "Admin key"
// @Param       id   path   string  true  "Lead ID (UUID)"  format(uuid)
//
// @Success     204  {string}  string  "No Content"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /admin/leads/{id} [delete]
func (h *Handlers) DeleteLead(c *gin.Context) {
	err := h.Leads.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrLeadNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "lead not found")
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not delete lead")
	default:
		noContent(c)
	}
}

// RetryDelivery godoc
// @ID          adminRetryDelivery
// @Summary     Retry webhook delivery for a lead
// @Description Resets the attempt counter for the requested channel and re-sends. A channel that already delivered returns 400.
// @Tags        Admin
// @Produce     json
//
// @Param       key      query  string  false "Admin key"
// @Param       id       path   string  true  "Lead ID (UUID)"  format(uuid)
// @Param       channel  query  string  false "Delivery channel"  Enums(pipeline, agent_delivery)  default(pipeline)
//
// @Success     200  {object}  handlers.RetryDeliveryResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Already sent / unknown channel"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /admin/leads/{id}/retry-delivery [post]
func (h *Handlers) RetryDelivery(c *gin.Context) {
	channel := c.DefaultQuery("channel", repo.ChannelPipeline)

	lead, err := h.Delivery.Retry(c.Request.Context(), c.Param("id"), channel)
	switch {
	case errors.Is(err, services.ErrLeadNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "lead not found")
		return
	case errors.Is(err, services.ErrUnknownChannel):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown delivery channel")
		return
	case errors.Is(err, services.ErrDeliveryAlreadySent):
		fail(c, http.StatusBadRequest, ErrCodeAlreadySent, "delivery already succeeded for this channel")
		return
	case errors.Is(err, services.ErrNoDestination):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "no webhook destination configured for this channel")
		return
	}

	// A failed re-attempt still returns the recorded state; the admin reads
	// the outcome from the delivery block.
	if lead == nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not retry delivery")
		return
	}

	st := lead.Pipeline
	if channel == repo.ChannelAgent {
		st = lead.AgentDelivery
	}
	ok(c, http.StatusOK, RetryDeliveryResponse{
		Success:  st.Sent,
		Channel:  channel,
		Delivery: st,
	})
}
