package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "santimsentry/internal/errors"
	"santimsentry/internal/models"
)

// reportService builds calendar-month category breakdowns.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// MonthlyBreakdown sums the user's transactions per category for one
// calendar month. The month is bounded by [first day, first day of next
// month), not a rolling 30-day window.
func (s *reportService) MonthlyBreakdown(userID uint, month, year int) (*MonthlyReport, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}
	if year < 1970 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid year")
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	nextMonth := monthStart.AddDate(0, 1, 0)

	breakdown := []CategoryBreakdown{}
	err := s.db.Model(&models.Transaction{}).
		Select("categories.name AS category_name, categories.type AS type, "+
			"SUM(transactions.amount) AS total_amount, COUNT(transactions.id) AS transaction_count").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.transaction_date >= ? AND transactions.transaction_date < ?",
			userID, monthStart, nextMonth).
		Group("categories.name, categories.type").
		Order("total_amount DESC").
		Scan(&breakdown).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report := &MonthlyReport{
		Breakdown: breakdown,
		Month:     month,
		Year:      year,
	}
	for _, row := range breakdown {
		if row.Type == models.CategoryTypeExpense {
			report.TotalExpense += row.TotalAmount
		}
	}

	return report, nil
}
