package services

import (
	"time"

	"santimsentry/internal/models"
	"santimsentry/internal/money"
)

// UserServicer defines the contract for registered-user business logic.
type UserServicer interface {
	Register(name, email, password string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	UpdateUser(id uint, name, email, password *string) (*models.User, error)
	DeleteUser(id uint) error
	RecordSession(userID uint, tokenHash string, expiresAt time.Time) error
}

// ProfileServicer defines the contract for anonymous guest profiles.
type ProfileServicer interface {
	CreateOrGetGuest(username string) (*models.User, bool, error)
	GetGuestByUsername(username string) (*models.User, error)
}

// TransactionView is a transaction enriched with its category's name, type,
// and icon. The type lives only on the category; this is the join surface
// the client sees.
type TransactionView struct {
	ID          uint                `json:"id"`
	UserID      uint                `json:"user_id"`
	CategoryID  uint                `json:"category_id"`
	Amount      money.Amount        `json:"amount"`
	Description string              `json:"description"`
	IsTelebirr  bool                `json:"is_telebirr"`
	Date        time.Time           `gorm:"column:transaction_date" json:"transaction_date"`
	Category    string              `json:"category"`
	Type        models.CategoryType `json:"type"`
	Icon        string              `json:"icon"`
	CreatedAt   time.Time           `json:"created_at"`
}

// TransactionInput carries the validated fields for create and update.
type TransactionInput struct {
	CategoryID  uint
	Amount      money.Amount
	Description string
	IsTelebirr  bool
	Date        time.Time
}

// TransactionServicer defines the contract for transaction CRUD.
type TransactionServicer interface {
	ListTransactions(userID uint) ([]TransactionView, error)
	ListCategories() ([]models.Category, error)
	CreateTransaction(userID uint, in TransactionInput) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, in TransactionInput) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// CategoryTotal is one categorization row of the summary.
type CategoryTotal struct {
	Category string              `json:"category"`
	Type     models.CategoryType `json:"type"`
	Total    money.Amount        `json:"total"`
}

// MonthlyTrend is one calendar month of the trailing six-month window.
type MonthlyTrend struct {
	Month   string       `json:"month"`
	Income  money.Amount `json:"income"`
	Expense money.Amount `json:"expense"`
}

// Summary is the aggregated financial view over a user's transactions.
type Summary struct {
	TotalIncome    money.Amount    `json:"totalIncome"`
	TotalExpense   money.Amount    `json:"totalExpense"`
	CurrentBalance money.Amount    `json:"currentBalance"`
	WalletBalance  money.Amount    `json:"walletBalance"`
	Categorization []CategoryTotal `json:"categorization"`
	MonthlyTrends  []MonthlyTrend  `json:"monthlyTrends"`
}

// SummaryServicer derives aggregate financial views.
type SummaryServicer interface {
	GetSummary(userID uint) (*Summary, error)
}

// TopUpReceipt is the result of a mocked Telebirr top-up.
type TopUpReceipt struct {
	Success       bool         `json:"success"`
	Message       string       `json:"message"`
	Reference     string       `json:"telebirr_ref"`
	WalletBalance money.Amount `json:"wallet_balance"`
}

// WalletServicer defines the contract for the mocked mobile-money wallet.
type WalletServicer interface {
	TopUp(userID uint, amount money.Amount, phoneNumber string) (*TopUpReceipt, error)
	ChargeAIInsights(userID uint) (money.Amount, error)
}

// NotificationServicer defines the contract for the per-user activity log.
type NotificationServicer interface {
	Notify(userID uint, message string, kind models.NotificationKind)
	List(userID uint) ([]models.Notification, error)
	MarkRead(userID, notificationID uint) (*models.Notification, error)
	MarkAllRead(userID uint) error
}

// CategoryBreakdown is one category row of a monthly report.
type CategoryBreakdown struct {
	CategoryName     string              `json:"category_name"`
	Type             models.CategoryType `json:"type"`
	TotalAmount      money.Amount        `json:"total_amount"`
	TransactionCount int64               `json:"transaction_count"`
}

// MonthlyReport is the per-category breakdown for one calendar month.
type MonthlyReport struct {
	Breakdown    []CategoryBreakdown `json:"breakdown"`
	TotalExpense money.Amount        `json:"totalExpense"`
	Month        int                 `json:"month"`
	Year         int                 `json:"year"`
}

// ReportServicer builds calendar-month reports.
type ReportServicer interface {
	MonthlyBreakdown(userID uint, month, year int) (*MonthlyReport, error)
}

// AdvisorServicer relays a user's summary to the external generative-text
// API and returns its recommendations.
type AdvisorServicer interface {
	GenerateInsights(userID uint) ([]string, error)
}

// FaydaServicer handles the national-ID OIDC login flow.
type FaydaServicer interface {
	AuthorizeURL() (string, error)
	HandleCallback(code string) (string, error)
}
