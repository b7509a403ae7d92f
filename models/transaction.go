package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes manual contributions from ones created by
// the monthly simulation.
type TransactionKind string

const (
	TransactionManual TransactionKind = "manual"
	TransactionAuto   TransactionKind = "auto"
)

// Transaction is one savings-ledger entry for a child. Rows are append-only
// and never mutated; a child's savings balance is the sum of its rows.
type Transaction struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	ChildID   uint            `gorm:"index;not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Kind      TransactionKind `gorm:"size:16;not null"`
	Date      time.Time       `gorm:"index;not null"`
}
