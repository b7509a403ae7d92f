package savings

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"amanah/models"
)

// Contribute records one contribution for a child, splitting it between the
// cash ledger and the child's investment portfolio when one exists.
//
// The invested portion is round2(amount * allocation/100) and the savings
// portion is the remainder, so the two always sum to amount exactly. The
// portfolio update and the transaction insert run inside one atomic unit; a
// crash between the two never leaves the ledger inconsistent with the
// portfolio value.
//
// Only the savings leg becomes a Transaction row; the investment leg is
// reflected solely in the portfolio's running value.
func Contribute(store Store, childID uint, amount decimal.Decimal, kind models.TransactionKind) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var created *models.Transaction
	err := store.Atomic(func(s Store) error {
		savingsAmount := amount
		portfolio, err := s.PortfolioByChild(childID)
		switch {
		case errors.Is(err, ErrNotFound):
			// no portfolio, everything goes to savings
		case err != nil:
			return err
		default:
			ratio := AllocationRatio(portfolio.AllocationPercent)
			investAmount := Round2(amount.Mul(ratio))
			savingsAmount = amount.Sub(investAmount)
			portfolio.CurrentValue = portfolio.CurrentValue.Add(investAmount)
			if err := s.SavePortfolio(portfolio); err != nil {
				return err
			}
		}
		tx := &models.Transaction{
			ChildID: childID,
			Amount:  savingsAmount,
			Kind:    kind,
			Date:    time.Now(),
		}
		if err := s.CreateTransaction(tx); err != nil {
			return err
		}
		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
