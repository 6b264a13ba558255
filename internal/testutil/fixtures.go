package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"santimsentry/internal/models"
	"santimsentry/internal/money"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	hashStr := string(hash)

	user := &models.User{
		Name:         fmt.Sprintf("Test User %d", nextID()),
		Email:        email,
		PasswordHash: &hashStr,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestUserWithBalance creates a user with the given wallet balance (in cents).
func CreateTestUserWithBalance(t *testing.T, db *gorm.DB, balance money.Amount) *models.User {
	t.Helper()

	user := CreateTestUser(t, db)
	if err := db.Model(user).UpdateColumn("wallet_balance", balance).Error; err != nil {
		t.Fatalf("failed to set test wallet balance: %v", err)
	}
	user.WalletBalance = balance
	return user
}

// CreateTestGuest creates a passwordless guest profile with the given username.
func CreateTestGuest(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Name:  username,
		Email: fmt.Sprintf("guest%d@guest.local", nextID()),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test guest: %v", err)
	}
	return user
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, name string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name: fmt.Sprintf("%s %d", name, nextID()),
		Type: categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction dated now.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, categoryID uint, amount money.Amount) *models.Transaction {
	t.Helper()
	return CreateTestTransactionAt(t, db, userID, categoryID, amount, time.Now())
}

// CreateTestTransactionAt creates a transaction with the given date.
func CreateTestTransactionAt(t *testing.T, db *gorm.DB, userID, categoryID uint, amount money.Amount, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Description: fmt.Sprintf("Test transaction %d", nextID()),
		Date:        date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestNotification creates an unread notification of the given kind.
func CreateTestNotification(t *testing.T, db *gorm.DB, userID uint, kind models.NotificationKind) *models.Notification {
	t.Helper()

	notification := &models.Notification{
		UserID:  userID,
		Message: fmt.Sprintf("Test notification %d", nextID()),
		Kind:    kind,
	}
	if err := db.Create(notification).Error; err != nil {
		t.Fatalf("failed to create test notification: %v", err)
	}
	return notification
}
