package models

import (
	"time"
)

// FinanceEntryType distinguishes ledger entry directions
type FinanceEntryType string

const (
	FinanceIncome  FinanceEntryType = "income"
	FinanceExpense FinanceEntryType = "expense"
)

// FinanceEntry represents one entry in the organization's ledger.
// Amounts are stored in cents to avoid floating point drift.
type FinanceEntry struct {
	BaseModel
	Type         FinanceEntryType `gorm:"size:10;not null;index" json:"type"`
	AmountCents  int64            `gorm:"not null" json:"amountCents"`
	Category     string           `gorm:"size:100;index" json:"category"`
	Description  string           `gorm:"type:text" json:"description"`
	EntryDate    time.Time        `gorm:"index" json:"entryDate"`
	DepartmentID *string          `gorm:"size:36;index" json:"departmentId,omitempty"`
	RecordedByID string           `gorm:"size:36" json:"recordedById"`

	// Relations
	Department *Department `gorm:"foreignKey:DepartmentID" json:"-"`
	RecordedBy User        `gorm:"foreignKey:RecordedByID" json:"-"`
}
