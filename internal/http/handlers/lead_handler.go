// Medicare lead endpoints.
//
//   - POST /api/leads          (landing-page call request)
//   - GET  /api/agent/lead/:id (token-gated agent receipt view)
//
// Lead capture shares the honeypot behavior of the screening intake; webhook
// delivery outcomes never change the caller's response.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/benefitbuddy/go-leads-backend/internal/domain"
	"github.com/benefitbuddy/go-leads-backend/internal/http/middleware"
	"github.com/benefitbuddy/go-leads-backend/internal/services"
)

// CreateLeadResponse is returned after a Medicare lead is captured.
type CreateLeadResponse struct {
	Success      bool   `json:"success"`
	ID           string `json:"id"`
	LeadPriority string `json:"lead_priority"`
	Message      string `json:"message"`
}

// leadCapturedMessage is shown to the visitor after a successful capture.
const leadCapturedMessage = "Thank you! A licensed agent will contact you shortly."

// AgentLeadView is the PII-light lead view served to an assigned agent
// holding a valid receipt token.
type AgentLeadView struct {
	ID              string   `json:"id"`
	FullName        string   `json:"full_name"`
	Phone           string   `json:"phone"`
	ZipCode         string   `json:"zip_code"`
	State           string   `json:"state,omitempty"`
	LeadPriority    string   `json:"lead_priority"`
	MatchedPrograms []string `json:"matched_programs"`
	CreatedAt       string   `json:"created_at"`
	Agent           struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"agent"`
}

// CreateLead godoc
// @ID          createLead
// @Summary     Capture a Medicare lead
// @Description Validates the call request, derives priority, assigns a covering agent for hot leads, and triggers webhook delivery.
// @Tags        Leads
// @Accept      json
// @Produce     json
//
// @Param       body  body  services.LeadInput  true  "Lead payload"
//
// @Success     201  {object}  handlers.CreateLeadResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /leads [post]
func (h *Handlers) CreateLead(c *gin.Context) {
	var in services.LeadInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	// Honeypot: pretend success, persist nothing.
	if in.Website != "" {
		ok(c, http.StatusCreated, CreateLeadResponse{
			Success:      true,
			ID:           "blocked",
			LeadPriority: domain.PriorityCold,
			Message:      leadCapturedMessage,
		})
		return
	}

	lead, err := h.Leads.Create(c.Request.Context(), in, c.ClientIP())
	if err != nil {
		if ve, isVal := services.AsValidation(err); isVal {
			failValidation(c, ve)
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not save lead")
		return
	}

	middleware.CountLead(lead.LeadPriority)
	ok(c, http.StatusCreated, CreateLeadResponse{
		Success:      true,
		ID:           lead.ID,
		LeadPriority: lead.LeadPriority,
		Message:      leadCapturedMessage,
	})
}

// AgentLeadReceipt godoc
// @ID          agentLeadReceipt
// @Summary     Agent receipt view of a lead
// @Description Serves the lead details to the assigned agent. Access requires the HMAC receipt token delivered with the agent webhook.
// @Tags        Leads
// @Produce     json
//
// @Param       id     path   string  true  "Lead ID (UUID)"  format(uuid)
// @Param       token  query  string  true  "Receipt token"
//
// @Success     200  {object}  handlers.AgentLeadView
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid token"
// @Failure     403  {object}  handlers.ErrorResponse  "Lead not assigned"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /agent/lead/{id} [get]
func (h *Handlers) AgentLeadReceipt(c *gin.Context) {
	id := c.Param("id")
	lead, err := h.Leads.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "lead not found")
		return
	}
	if lead.AssignedAgentID == nil {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "lead is not assigned to an agent")
		return
	}

	presented := c.Query("token")
	if presented == "" || !h.Receipt.Verify(presented, lead.ID, *lead.AssignedAgentID, lead.CreatedAt) {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid receipt token")
		return
	}

	view := AgentLeadView{
		ID:              lead.ID,
		FullName:        lead.FullName,
		Phone:           lead.PhoneDisplay,
		ZipCode:         lead.ZipCode,
		State:           lead.State,
		LeadPriority:    lead.LeadPriority,
		MatchedPrograms: lead.MatchedPrograms,
		CreatedAt:       lead.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	view.Agent.ID = *lead.AssignedAgentID
	view.Agent.Name = lead.AssignedAgentName
	ok(c, http.StatusOK, view)
}
