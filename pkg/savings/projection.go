package savings

import (
	"time"

	"github.com/shopspring/decimal"

	"amanah/models"
)

// SuggestMonthly derives the level monthly contribution needed to reach
// targetAmount by targetDate from the child's current savings balance.
//
// A target date in the past or the current month means the full amount is due
// now, so targetAmount is returned unchanged. A balance at or above the
// target returns zero. Otherwise the remainder is divided over the months
// left and rounded up, so the suggestion never under-shoots the goal.
func SuggestMonthly(store Store, childID uint, targetAmount decimal.Decimal, targetDate time.Time, now time.Time) (decimal.Decimal, error) {
	months := WholeMonths(now, targetDate)
	if months <= 0 {
		return targetAmount, nil
	}
	balance, err := store.SavingsBalance(childID)
	if err != nil {
		return decimal.Zero, err
	}
	remaining := targetAmount.Sub(balance)
	if !remaining.IsPositive() {
		return decimal.Zero, nil
	}
	return Ceil2(remaining.Div(decimal.NewFromInt(int64(months)))), nil
}

// ProjectCompletion forward-projects when a goal will be reached at its
// current monthly contribution. The projection is only defined for a
// positive contribution and a positive remaining amount; otherwise ok is
// false. It is independent of the goal's target date: the contractual date
// and the funding-rate projection are reported side by side so a caller can
// see whether the goal is ahead of or behind schedule.
func ProjectCompletion(goal *models.Goal, balance decimal.Decimal, now time.Time) (time.Time, bool) {
	if !goal.MonthlyContribution.IsPositive() {
		return time.Time{}, false
	}
	remaining := goal.TargetAmount.Sub(balance)
	if !remaining.IsPositive() {
		return time.Time{}, false
	}
	monthsNeeded := remaining.Div(goal.MonthlyContribution).Ceil().IntPart()
	return now.AddDate(0, int(monthsNeeded), 0), true
}

// MonthsRemaining is the display value for how far away the target date is,
// floored at zero.
func MonthsRemaining(goal *models.Goal, now time.Time) int {
	months := WholeMonths(now, goal.TargetDate)
	if months < 0 {
		return 0
	}
	return months
}
