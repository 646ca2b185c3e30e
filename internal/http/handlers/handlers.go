// Handler wiring shared by every endpoint group.
//
// Handlers are transport-thin: they validate and bind input, call the
// application services, and translate results (including sentinel errors)
// into HTTP responses. Business rules live in internal/services.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/benefitbuddy/go-leads-backend/internal/config"
	"github.com/benefitbuddy/go-leads-backend/internal/services"
	"github.com/benefitbuddy/go-leads-backend/internal/token"
	"github.com/benefitbuddy/go-leads-backend/internal/utils"
)

// Handlers groups the HTTP endpoints for submissions, leads, agents,
// advisors, and the voice flow.
type Handlers struct {
	Submissions *services.SubmissionService
	Leads       *services.LeadService
	Delivery    *services.DeliveryService
	Agents      *services.AgentService
	Advisors    *services.AdvisorService
	PhoneLeads  *services.PhoneLeadService
	Receipt     *token.Receipt
	Cfg         config.Config
}

// New constructs a Handlers instance bound to the given services.
func New(
	subs *services.SubmissionService,
	leads *services.LeadService,
	delivery *services.DeliveryService,
	agents *services.AgentService,
	advisors *services.AdvisorService,
	phoneLeads *services.PhoneLeadService,
	receipt *token.Receipt,
	cfg config.Config,
) *Handlers {
	return &Handlers{
		Submissions: subs,
		Leads:       leads,
		Delivery:    delivery,
		Agents:      agents,
		Advisors:    advisors,
		PhoneLeads:  phoneLeads,
		Receipt:     receipt,
		Cfg:         cfg,
	}
}

// Pagination carries pagination metadata for admin list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// paginate builds the metadata block for a page of total items.
func paginate(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// clampPagination parses and bounds page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	return utils.ClampPage(
		utils.AtoiDefault(c.Query("page"), 1),
		utils.AtoiDefault(c.Query("page_size"), 20),
		20, 100,
	)
}
