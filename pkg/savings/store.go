// Package savings implements the financial core of the family savings
// backend: splitting contributions between the cash ledger and a child's
// investment portfolio, deriving suggested monthly contributions, projecting
// goal completion and advancing every active goal by one simulated month.
// Persistence is delegated to a Store so the arithmetic stays testable.
package savings

import (
	"github.com/shopspring/decimal"

	"amanah/models"
)

// Store is the persistence surface the engine needs. Lookups return
// ErrNotFound (possibly wrapped) when the row does not exist.
type Store interface {
	// ChildrenByParent lists the children owned by a parent user.
	ChildrenByParent(parentID uint) ([]models.Child, error)
	// GoalByChild resolves a child's goal through its owner association.
	GoalByChild(childID uint) (*models.Goal, error)
	// PortfolioByChild returns the child's investment portfolio, if any.
	PortfolioByChild(childID uint) (*models.InvestmentPortfolio, error)
	// SavingsBalance sums the child's transaction ledger.
	SavingsBalance(childID uint) (decimal.Decimal, error)
	CreateTransaction(tx *models.Transaction) error
	SavePortfolio(p *models.InvestmentPortfolio) error
	// Atomic runs fn inside a single transactional unit: every write fn
	// performs through the passed Store commits together or not at all.
	Atomic(fn func(Store) error) error
}
