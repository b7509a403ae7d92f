package savings

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rounding policy: anything persisted or returned to a caller carries two
// fractional digits. Intermediate ratios keep more digits so two divisions in
// a row don't compound rounding error.

// ratioPrecision is the scale used when turning an allocation percentage into
// a multiplier.
const ratioPrecision = 4

// ratePrecision is the scale used when deriving a monthly growth rate from an
// annual one; 7%/12 does not terminate in decimal, so the quotient is kept at
// ten digits before the final two-digit rounding.
const ratePrecision = 10

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// Round2 rounds to two fractional digits, half up.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Ceil2 rounds up to two fractional digits. Used for suggested monthly
// contributions so a suggestion never under-funds the goal.
func Ceil2(d decimal.Decimal) decimal.Decimal {
	return d.Shift(2).Ceil().Shift(-2)
}

// AllocationRatio converts a 0-100 allocation percentage into a multiplier at
// four-digit precision.
func AllocationRatio(percent int) decimal.Decimal {
	return decimal.NewFromInt(int64(percent)).DivRound(hundred, ratioPrecision)
}

// MonthlyGrowthFactor returns 1 + annualRate/12 with the monthly rate held at
// ten-digit precision.
func MonthlyGrowthFactor(annualRate decimal.Decimal) decimal.Decimal {
	return one.Add(annualRate.DivRound(twelve, ratePrecision))
}

// WholeMonths returns the number of whole calendar months from one date to
// another, truncating any partial month: 29 days apart counts as 0, a month
// and a day as 1. The count is negative when to precedes from.
func WholeMonths(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	switch {
	case months > 0:
		// Strict truncation: Jan 31 to Feb 28 is a partial month, not a
		// whole one, even though February has no day 31.
		if to.Day() < from.Day() {
			months--
		}
	case months < 0:
		if to.Day() > from.Day() {
			months++
		}
	}
	return months
}
