package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "santimsentry/internal/errors"
	"santimsentry/internal/services"
)

// ReportHandler serves calendar-month spending reports.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetMonthlyReport returns the per-category breakdown for one month
// @Summary     Monthly category report
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       month  query int false "Month 1-12, defaults to current"
// @Param       year   query int false "Year, defaults to current"
// @Param       userId query int false "Target user, defaults to caller"
// @Success     200 {object} services.MonthlyReport "Category breakdown"
// @Failure     400 {object} ErrorResponse "Invalid month or year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/monthly [get]
func (h *ReportHandler) GetMonthlyReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// The userId override predates authentication on this route and is
	// kept for client compatibility.
	if raw := c.Query("userId"); raw != "" {
		override, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid userId"))
			return
		}
		userID = uint(override)
	}

	now := time.Now()
	month := int(now.Month())
	year := now.Year()

	if raw := c.Query("month"); raw != "" {
		month, err = strconv.Atoi(raw)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid month"))
			return
		}
	}
	if raw := c.Query("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid year"))
			return
		}
	}

	report, err := h.reportService.MonthlyBreakdown(userID, month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
