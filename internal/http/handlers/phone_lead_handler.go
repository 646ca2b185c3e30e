// Advisor callback endpoint.
//
// POST /api/phone-leads stores a callback request, assigns a benefits
// advisor by ZIP prefix, and notifies both sides by SMS. SMS outcomes are
// recorded on the row and never fail the request.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/benefitbuddy/go-leads-backend/internal/services"
)

// CreatePhoneLeadResponse is returned after a callback request is stored.
type CreatePhoneLeadResponse struct {
	Success         bool   `json:"success"`
	LeadID          string `json:"lead_id"`
	Status          string `json:"status"`
	AssignedAdvisor *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"assigned_advisor,omitempty"`
}

// CreatePhoneLead godoc
// @ID          createPhoneLead
// @Summary     Request a callback from a benefits advisor
// @Description Stores the request, assigns an advisor by ZIP prefix (falling back to the default advisor), and sends SMS notifications.
// @Tags        Leads
// @Accept      json
// @Produce     json
//
// @Param       body  body  services.AdvisorLeadInput  true  "Callback request"
//
// @Success     201  {object}  handlers.CreatePhoneLeadResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /phone-leads [post]
func (h *Handlers) CreatePhoneLead(c *gin.Context) {
	var in services.AdvisorLeadInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	lead, advisor, err := h.Advisors.CreateLead(c.Request.Context(), in)
	if err != nil {
		if ve, isVal := services.AsValidation(err); isVal {
			failValidation(c, ve)
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not save lead")
		return
	}

	resp := CreatePhoneLeadResponse{Success: true, LeadID: lead.ID, Status: lead.Status}
	if advisor != nil {
		resp.AssignedAdvisor = &struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}{ID: advisor.ID, Name: advisor.Name}
	}
	ok(c, http.StatusCreated, resp)
}
