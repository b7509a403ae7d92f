package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"amanah/models"
	"amanah/pkg/savings"
)

// gormStore adapts *gorm.DB to the savings.Store interface. Atomic maps to a
// database transaction so the portfolio update and the ledger insert of one
// contribution commit together or not at all.
type gormStore struct {
	db *gorm.DB
}

func newStore(db *gorm.DB) *gormStore {
	return &gormStore{db: db}
}

func (s *gormStore) ChildrenByParent(parentID uint) ([]models.Child, error) {
	var children []models.Child
	if err := s.db.Where("parent_id = ?", parentID).Order("id").Find(&children).Error; err != nil {
		return nil, err
	}
	return children, nil
}

func (s *gormStore) GoalByChild(childID uint) (*models.Goal, error) {
	var owner models.GoalOwner
	if err := s.db.Where("child_id = ?", childID).First(&owner).Error; err != nil {
		return nil, translateErr(err)
	}
	var goal models.Goal
	if err := s.db.First(&goal, owner.GoalID).Error; err != nil {
		return nil, translateErr(err)
	}
	return &goal, nil
}

func (s *gormStore) PortfolioByChild(childID uint) (*models.InvestmentPortfolio, error) {
	var p models.InvestmentPortfolio
	if err := s.db.Where("child_id = ?", childID).First(&p).Error; err != nil {
		return nil, translateErr(err)
	}
	return &p, nil
}

func (s *gormStore) SavingsBalance(childID uint) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.db.Model(&models.Transaction{}).
		Where("child_id = ?", childID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&balance).Error
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (s *gormStore) CreateTransaction(tx *models.Transaction) error {
	return translateErr(s.db.Create(tx).Error)
}

func (s *gormStore) SavePortfolio(p *models.InvestmentPortfolio) error {
	return translateErr(s.db.Save(p).Error)
}

func (s *gormStore) Atomic(fn func(savings.Store) error) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
	return translateErr(err)
}

func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return savings.ErrNotFound
	}
	if isConcurrencyError(err) {
		return fmt.Errorf("%w: %v", savings.ErrConflict, err)
	}
	return err
}

// isConcurrencyError reports whether err is a Postgres serialization failure
// or deadlock, both of which are safe for the client to retry.
func isConcurrencyError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 40001") ||
		strings.Contains(msg, "SQLSTATE 40P01") ||
		strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "deadlock detected")
}
