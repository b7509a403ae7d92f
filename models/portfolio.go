package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioClass selects the fixed nominal annual growth rate applied by the
// monthly simulation.
type PortfolioClass string

const (
	PortfolioConservative PortfolioClass = "conservative"
	PortfolioBalanced     PortfolioClass = "balanced"
	PortfolioGrowth       PortfolioClass = "growth"
)

// Valid reports whether c is one of the known portfolio classes.
func (c PortfolioClass) Valid() bool {
	switch c {
	case PortfolioConservative, PortfolioBalanced, PortfolioGrowth:
		return true
	}
	return false
}

// AnnualRate returns the nominal annual growth rate for the class:
// 4% conservative, 7% balanced, 10% growth.
func (c PortfolioClass) AnnualRate() decimal.Decimal {
	switch c {
	case PortfolioConservative:
		return decimal.NewFromFloat(0.04)
	case PortfolioBalanced:
		return decimal.NewFromFloat(0.07)
	case PortfolioGrowth:
		return decimal.NewFromFloat(0.10)
	}
	return decimal.Zero
}

// InvestmentPortfolio holds the investment side of a child's savings.
// At most one portfolio exists per child. AllocationPercent is the share of
// each contribution diverted to the portfolio instead of the cash ledger.
// CurrentValue changes only through investment deposits and monthly growth.
type InvestmentPortfolio struct {
	ID                uint `gorm:"primaryKey"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ChildID           uint            `gorm:"uniqueIndex;not null"`
	Class             PortfolioClass  `gorm:"size:32;not null"`
	AllocationPercent int             `gorm:"not null"`
	CurrentValue      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}
