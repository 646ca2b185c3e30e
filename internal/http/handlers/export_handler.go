// Admin CSV export (key-gated).
//
// GET /api/admin/export streams every submission as an RFC 4180 CSV
// attachment with a fixed column set. encoding/csv handles quoting of
// commas, quotes, and newlines embedded in free-text fields.
package handlers

import (
	"encoding/csv"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/benefitbuddy/go-leads-backend/internal/domain"
	"github.com/benefitbuddy/go-leads-backend/internal/http/middleware"
	"github.com/benefitbuddy/go-leads-backend/internal/repo"
)

// exportColumns is the fixed CSV header row, in output order.
var exportColumns = []string{
	"ID", "Created At", "Full Name", "Email", "Phone",
	"Age Range", "ZIP Code", "Household Size", "Monthly Income",
	"Employment Status", "Veteran", "Disability", "Student",
	"Pregnant/Children", "Housing Status", "Has Health Insurance",
	"Matched Benefits", "Status",
}

// exportRow flattens one submission into the fixed column order.
func exportRow(s domain.Submission) []string {
	return []string{
		s.ID,
		s.CreatedAt.UTC().Format(time.RFC3339),
		s.FullName,
		s.Email,
		s.Phone,
		s.AgeRange,
		s.ZipCode,
		s.HouseholdSize,
		s.MonthlyIncomeRange,
		s.EmploymentStatus,
		s.Veteran,
		s.Disability,
		s.Student,
		s.PregnantOrChildren,
		s.HousingStatus,
		s.HasHealthInsurance,
		strings.Join(s.MatchedBenefits, "; "),
		s.Status,
	}
}

// ExportSubmissions godoc
// @ID          adminExportSubmissions
// @Summary     Export submissions as CSV
// @Description Streams every submission as a CSV attachment with a fixed column set.
// @Tags        Admin
// @Produce     text/csv
//
// @Param       key  query  string  false "Admin key"
//
// @Success     200  {string}  string  "CSV data"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/export [get]
func (h *Handlers) ExportSubmissions(c *gin.Context) {
	subs, err := repo.ListAllSubmissions(c.Request.Context(), h.Submissions.DB)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not export submissions")
		return
	}

	filename := "benefitbuddy-submissions-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	if err := w.Write(exportColumns); err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Msg("csv header write failed")
		return
	}
	for _, s := range subs {
		if err := w.Write(exportRow(s)); err != nil {
			middleware.LoggerFrom(c).Error().Err(err).Msg("csv row write failed")
			return
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Msg("csv flush failed")
	}
}
