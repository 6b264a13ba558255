package services

import (
	"testing"
	"time"

	"santimsentry/internal/models"
	"santimsentry/internal/testutil"
)

func TestMonthlyBreakdown(t *testing.T) {
	t.Run("groups_by_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategory(t, db, "Food", models.CategoryTypeExpense)
		salary := testutil.CreateTestCategory(t, db, "Salary", models.CategoryTypeIncome)

		march := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.Local)
		testutil.CreateTestTransactionAt(t, db, user.ID, food.ID, 30000, march)
		testutil.CreateTestTransactionAt(t, db, user.ID, food.ID, 15000, march.AddDate(0, 0, 5))
		testutil.CreateTestTransactionAt(t, db, user.ID, salary.ID, 500000, march)

		report, err := svc.MonthlyBreakdown(user.ID, 3, 2026)
		testutil.AssertNoError(t, err)

		if len(report.Breakdown) != 2 {
			t.Fatalf("expected 2 breakdown rows, got %d", len(report.Breakdown))
		}
		if report.Breakdown[0].CategoryName != salary.Name {
			t.Errorf("expected largest total first, got %q", report.Breakdown[0].CategoryName)
		}
		var foodRow *CategoryBreakdown
		for i := range report.Breakdown {
			if report.Breakdown[i].CategoryName == food.Name {
				foodRow = &report.Breakdown[i]
			}
		}
		if foodRow == nil {
			t.Fatal("expected a food row")
		}
		if foodRow.TotalAmount != 45000 {
			t.Errorf("expected food total 45000, got %d", foodRow.TotalAmount)
		}
		if foodRow.TransactionCount != 2 {
			t.Errorf("expected 2 food transactions, got %d", foodRow.TransactionCount)
		}
		if report.TotalExpense != 45000 {
			t.Errorf("expected total expense 45000 (income excluded), got %d", report.TotalExpense)
		}
	})

	t.Run("bounded_by_calendar_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategory(t, db, "Food", models.CategoryTypeExpense)

		testutil.CreateTestTransactionAt(t, db, user.ID, food.ID, 10000,
			time.Date(2026, time.February, 28, 23, 0, 0, 0, time.Local))
		testutil.CreateTestTransactionAt(t, db, user.ID, food.ID, 20000,
			time.Date(2026, time.March, 1, 0, 30, 0, 0, time.Local))
		testutil.CreateTestTransactionAt(t, db, user.ID, food.ID, 40000,
			time.Date(2026, time.April, 1, 0, 0, 0, 0, time.Local))

		report, err := svc.MonthlyBreakdown(user.ID, 3, 2026)
		testutil.AssertNoError(t, err)

		if report.TotalExpense != 20000 {
			t.Errorf("expected only March's 20000, got %d", report.TotalExpense)
		}
	})

	t.Run("empty_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		report, err := svc.MonthlyBreakdown(user.ID, 1, 2026)
		testutil.AssertNoError(t, err)

		if len(report.Breakdown) != 0 {
			t.Errorf("expected empty breakdown, got %d rows", len(report.Breakdown))
		}
		if report.TotalExpense != 0 {
			t.Errorf("expected zero expense, got %d", report.TotalExpense)
		}
		if report.Month != 1 || report.Year != 2026 {
			t.Errorf("expected month/year echoed back, got %d/%d", report.Month, report.Year)
		}
	})

	t.Run("invalid_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)

		_, err := svc.MonthlyBreakdown(1, 0, 2026)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.MonthlyBreakdown(1, 13, 2026)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_year", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)

		_, err := svc.MonthlyBreakdown(1, 3, 1900)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
