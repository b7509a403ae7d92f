package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalType categorises what the savings goal is for.
type GoalType string

const (
	GoalUniversity GoalType = "university"
	GoalCar        GoalType = "car"
	GoalWedding    GoalType = "wedding"
	GoalBusiness   GoalType = "business"
	GoalGeneral    GoalType = "general"
)

// Valid reports whether t is one of the known goal types.
func (t GoalType) Valid() bool {
	switch t {
	case GoalUniversity, GoalCar, GoalWedding, GoalBusiness, GoalGeneral:
		return true
	}
	return false
}

// Goal is a savings target for a child. It is linked to its child through a
// GoalOwner association row rather than a direct foreign key, so the goal
// can be claimed by an owner identity other than the child's parent.
type Goal struct {
	ID                  uint `gorm:"primaryKey"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	GoalType            GoalType        `gorm:"size:32;not null"`
	TargetAmount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TargetDate          time.Time       `gorm:"not null"`
	MonthlyContribution decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Paused              bool            `gorm:"default:false;not null"`
}
