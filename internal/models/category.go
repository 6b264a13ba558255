package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category is a fixed reference row seeded by migration. The application
// never creates or mutates categories; a transaction's income/expense type
// is always derived through this table.
type Category struct {
	Base
	Name     string       `gorm:"uniqueIndex;not null" json:"name"`
	Type     CategoryType `gorm:"not null" json:"type"`
	IconSlug string       `json:"icon_slug"`

	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}
