package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "santimsentry/internal/errors"
	"santimsentry/internal/logger"
	"santimsentry/internal/models"
	"santimsentry/internal/money"
)

// AIInsightCost is the fixed wallet price of one AI insight generation,
// in cents (10.00 ETB).
const AIInsightCost = money.Amount(1000)

// TopUpDelay approximates the latency of a real Telebirr round trip.
const TopUpDelay = 1500 * time.Millisecond

// walletService simulates the Telebirr mobile-money wallet. No real payment
// network is involved; top-ups always succeed after the simulated delay.
type walletService struct {
	db            *gorm.DB
	notifications NotificationServicer
	delay         time.Duration
}

// NewWalletService creates a new WalletServicer. The delay is applied to
// every top-up; tests pass zero.
func NewWalletService(db *gorm.DB, notifications NotificationServicer, delay time.Duration) WalletServicer {
	return &walletService{
		db:            db,
		notifications: notifications,
		delay:         delay,
	}
}

// TopUp credits the user's wallet after the simulated provider delay. The
// credit is a single atomic UPDATE, and the returned reference is unique
// per call.
func (s *walletService) TopUp(userID uint, amount money.Amount, phoneNumber string) (*TopUpReceipt, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount and Phone Number required")
	}
	if phoneNumber == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount and Phone Number required")
	}

	logger.Get().Infow("telebirr mock: initiating top-up",
		"user_id", userID,
		"amount", amount.String(),
		"phone", phoneNumber,
	)

	time.Sleep(s.delay)

	result := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("wallet_balance", gorm.Expr("wallet_balance + ?", amount))
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrPaymentFailed, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrUserNotFound
	}

	balance, err := s.currentBalance(userID)
	if err != nil {
		return nil, err
	}

	s.notifications.Notify(userID,
		fmt.Sprintf("Telebirr top-up of %s ETB completed.", amount),
		models.NotificationKindSuccess)

	return &TopUpReceipt{
		Success:       true,
		Message:       "Payment Initiated Successfully",
		Reference:     newTelebirrReference(),
		WalletBalance: balance,
	}, nil
}

// ChargeAIInsights debits the fixed insight cost. The balance check and the
// debit are one conditional UPDATE, so two concurrent charges can never both
// succeed against a balance that only covers one.
func (s *walletService) ChargeAIInsights(userID uint) (money.Amount, error) {
	result := s.db.Model(&models.User{}).
		Where("id = ? AND wallet_balance >= ?", userID, AIInsightCost).
		UpdateColumn("wallet_balance", gorm.Expr("wallet_balance - ?", AIInsightCost))
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		// Either the user is gone or the balance fell short; look once to
		// tell the two apart.
		if _, err := s.currentBalance(userID); err != nil {
			return 0, err
		}
		return 0, apperrors.ErrInsufficientFunds
	}

	balance, err := s.currentBalance(userID)
	if err != nil {
		return 0, err
	}

	s.notifications.Notify(userID,
		fmt.Sprintf("%s ETB charged for AI financial insights.", AIInsightCost),
		models.NotificationKindInfo)

	return balance, nil
}

func (s *walletService) currentBalance(userID uint) (money.Amount, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrUserNotFound
		}
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user.WalletBalance, nil
}

// newTelebirrReference produces a human-distinguishable receipt code like
// "TB-4F1A9C2B".
func newTelebirrReference() string {
	return "TB-" + strings.ToUpper(uuid.New().String()[:8])
}
