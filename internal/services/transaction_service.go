package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "santimsentry/internal/errors"
	"santimsentry/internal/models"
)

// transactionService handles transaction CRUD.
type transactionService struct {
	db            *gorm.DB
	notifications NotificationServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, notifications NotificationServicer) TransactionServicer {
	return &transactionService{
		db:            db,
		notifications: notifications,
	}
}

// ListTransactions returns all of a user's transactions, newest first, each
// enriched with its category's name, type, and icon via join.
func (s *transactionService) ListTransactions(userID uint) ([]TransactionView, error) {
	var views []TransactionView
	err := s.db.Model(&models.Transaction{}).
		Select("transactions.id, transactions.user_id, transactions.category_id, transactions.amount, "+
			"transactions.description, transactions.is_telebirr, transactions.transaction_date, "+
			"transactions.created_at, categories.name AS category, categories.type AS type, "+
			"categories.icon_slug AS icon").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ?", userID).
		Order("transactions.transaction_date DESC").
		Scan(&views).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return views, nil
}

// ListCategories returns the fixed category catalog, alphabetical by name.
func (s *transactionService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// validateInput checks the shared create/update invariants: a positive
// amount and a category that actually exists.
func (s *transactionService) validateInput(in *TransactionInput) error {
	if in.Amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be a positive number")
	}

	var count int64
	if err := s.db.Model(&models.Category{}).Where("id = ?", in.CategoryID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "categoryId does not reference an existing category")
	}

	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	return nil
}

// CreateTransaction validates and persists a transaction, then records a
// best-effort success notification.
func (s *transactionService) CreateTransaction(userID uint, in TransactionInput) (*models.Transaction, error) {
	if err := s.validateInput(&in); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Amount:      in.Amount,
		Description: in.Description,
		IsTelebirr:  in.IsTelebirr,
		Date:        in.Date,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.notifications.Notify(userID,
		fmt.Sprintf("New transaction of %s ETB added.", in.Amount),
		models.NotificationKindSuccess)

	return transaction, nil
}

// UpdateTransaction applies the same validation as create. The predicate
// matches both the transaction id and the owning user; zero rows matched is
// reported as not-found, never as silent success.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, in TransactionInput) (*models.Transaction, error) {
	if err := s.validateInput(&in); err != nil {
		return nil, err
	}

	result := s.db.Model(&models.Transaction{}).
		Where("id = ? AND user_id = ?", transactionID, userID).
		Updates(map[string]interface{}{
			"category_id":      in.CategoryID,
			"amount":           in.Amount,
			"description":      in.Description,
			"is_telebirr":      in.IsTelebirr,
			"transaction_date": in.Date,
		})
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrTransactionNotFound
	}

	var transaction models.Transaction
	if err := s.db.First(&transaction, transactionID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// DeleteTransaction removes a transaction owned by the user.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", transactionID, userID).Delete(&models.Transaction{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}
