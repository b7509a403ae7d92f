package savings

import (
	"errors"

	"github.com/shopspring/decimal"

	"amanah/models"
)

// Grow applies one month of compound growth to a portfolio value:
// round2(value * (1 + annualRate/12)). A zero value stays zero.
func Grow(value decimal.Decimal, class models.PortfolioClass) decimal.Decimal {
	return Round2(value.Mul(MonthlyGrowthFactor(class.AnnualRate())))
}

// RunMonthlyTick advances every active goal owned by a parent's children by
// exactly one simulated month: the goal's monthly contribution is applied as
// an auto transaction (split against the portfolio allocation), then the
// portfolio gains one month of growth. The deposit lands before growth is
// applied, so a same-month contribution benefits from that month's growth.
//
// Each goal is one atomic unit: the deposit and its growth commit together
// or not at all, so a crash mid-goal never leaves a contribution on the
// ledger without the matching growth.
//
// Goals that are paused or have a non-positive monthly contribution are
// skipped. The returned count is the number of goals processed.
//
// The tick is deliberately not idempotent: calling it twice applies two
// months of contribution and growth. At-most-once-per-month semantics are
// the calling scheduler's responsibility.
func RunMonthlyTick(store Store, parentID uint) (int, error) {
	children, err := store.ChildrenByParent(parentID)
	if err != nil {
		return 0, err
	}
	processed := 0
	for _, child := range children {
		goal, err := store.GoalByChild(child.ID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return processed, err
		}
		if goal.Paused || !goal.MonthlyContribution.IsPositive() {
			continue
		}
		childID := child.ID
		err = store.Atomic(func(s Store) error {
			if _, err := Contribute(s, childID, goal.MonthlyContribution, models.TransactionAuto); err != nil {
				return err
			}
			portfolio, err := s.PortfolioByChild(childID)
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			portfolio.CurrentValue = Grow(portfolio.CurrentValue, portfolio.Class)
			return s.SavePortfolio(portfolio)
		})
		if err != nil {
			return processed, err
		}
		processed++
	}
	return processed, nil
}
