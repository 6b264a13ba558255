package services

import (
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "santimsentry/internal/errors"
	"santimsentry/internal/models"
	"santimsentry/internal/money"
)

// trendMonths is the size of the trailing calendar-month window, current
// month included.
const trendMonths = 6

// summaryService derives aggregate financial views over a user's
// transactions. All sums are computed in cents; nothing here touches
// floating point.
type summaryService struct {
	db *gorm.DB
}

// NewSummaryService creates a new SummaryServicer.
func NewSummaryService(db *gorm.DB) SummaryServicer {
	return &summaryService{db: db}
}

// GetSummary computes totals, category breakdown, the six-month trend, and
// the wallet balance. The four reads are independent, so they fan out on the
// shared connection pool.
func (s *summaryService) GetSummary(userID uint) (*Summary, error) {
	summary := &Summary{
		Categorization: []CategoryTotal{},
	}

	var g errgroup.Group

	g.Go(func() error {
		income, expense, err := s.totals(userID)
		if err != nil {
			return err
		}
		summary.TotalIncome = income
		summary.TotalExpense = expense
		return nil
	})

	g.Go(func() error {
		rows, err := s.categorization(userID)
		if err != nil {
			return err
		}
		summary.Categorization = rows
		return nil
	})

	g.Go(func() error {
		trends, err := s.monthlyTrends(userID, time.Now())
		if err != nil {
			return err
		}
		summary.MonthlyTrends = trends
		return nil
	})

	g.Go(func() error {
		balance, err := s.walletBalance(userID)
		if err != nil {
			return err
		}
		summary.WalletBalance = balance
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.CurrentBalance = summary.TotalIncome - summary.TotalExpense
	return summary, nil
}

func (s *summaryService) totals(userID uint) (money.Amount, money.Amount, error) {
	var row struct {
		TotalIncome  money.Amount
		TotalExpense money.Amount
	}
	err := s.db.Raw(`
		SELECT
			COALESCE(SUM(CASE WHEN categories.type = 'income' THEN transactions.amount ELSE 0 END), 0) AS total_income,
			COALESCE(SUM(CASE WHEN categories.type = 'expense' THEN transactions.amount ELSE 0 END), 0) AS total_expense
		FROM transactions
		JOIN categories ON categories.id = transactions.category_id
		WHERE transactions.user_id = ?`, userID).Scan(&row).Error
	if err != nil {
		return 0, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return row.TotalIncome, row.TotalExpense, nil
}

func (s *summaryService) categorization(userID uint) ([]CategoryTotal, error) {
	rows := []CategoryTotal{}
	err := s.db.Raw(`
		SELECT categories.name AS category, categories.type AS type, SUM(transactions.amount) AS total
		FROM transactions
		JOIN categories ON categories.id = transactions.category_id
		WHERE transactions.user_id = ?
		GROUP BY categories.id, categories.name, categories.type
		ORDER BY total DESC`, userID).Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, nil
}

// monthlyTrends buckets the window's transactions by calendar month in Go
// rather than in SQL, which keeps the query identical across postgres and
// the sqlite test driver.
func (s *summaryService) monthlyTrends(userID uint, now time.Time) ([]MonthlyTrend, error) {
	windowStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(trendMonths - 1), 0)

	var rows []struct {
		Amount money.Amount
		Type   models.CategoryType
		Date   time.Time `gorm:"column:transaction_date"`
	}
	err := s.db.Model(&models.Transaction{}).
		Select("transactions.amount, categories.type AS type, transactions.transaction_date").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.transaction_date >= ?", userID, windowStart).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	type bucket struct{ income, expense money.Amount }
	buckets := map[string]*bucket{}

	trends := make([]MonthlyTrend, 0, trendMonths)
	for i := 0; i < trendMonths; i++ {
		monthStart := windowStart.AddDate(0, i, 0)
		key := monthStart.Format("2006-01")
		buckets[key] = &bucket{}
		trends = append(trends, MonthlyTrend{Month: monthStart.Format("Jan")})
	}

	for _, row := range rows {
		b, ok := buckets[row.Date.In(windowStart.Location()).Format("2006-01")]
		if !ok {
			// Future-dated transactions fall outside the window.
			continue
		}
		switch row.Type {
		case models.CategoryTypeIncome:
			b.income += row.Amount
		case models.CategoryTypeExpense:
			b.expense += row.Amount
		}
	}

	for i := range trends {
		key := windowStart.AddDate(0, i, 0).Format("2006-01")
		trends[i].Income = buckets[key].income
		trends[i].Expense = buckets[key].expense
	}

	return trends, nil
}

func (s *summaryService) walletBalance(userID uint) (money.Amount, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrUserNotFound
		}
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user.WalletBalance, nil
}
