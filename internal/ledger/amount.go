package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// AmountScale is the number of decimal places money is kept to.
	AmountScale = 2
	maxExponent = 12
	minExponent = -18
)

// MaxAmount bounds any single amount entering the ledger.
var MaxAmount = decimal.NewFromInt(1_000_000_000_000)

// ValidateAmount rejects amounts with sub-cent precision or a magnitude above
// MaxAmount. The exponent is checked before any comparison: comparing
// rescales both operands, so 1e200000000 must never reach one.
func ValidateAmount(d decimal.Decimal) error {
	if d.IsZero() {
		return nil
	}
	exp := d.Exponent()
	if exp > maxExponent {
		return fmt.Errorf("%w: exceeds %s", ErrInvalidAmount, MaxAmount)
	}
	if exp < minExponent || (exp < -AmountScale && !d.Equal(d.Truncate(AmountScale))) {
		return fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, AmountScale)
	}
	if d.Abs().GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: exceeds %s", ErrInvalidAmount, MaxAmount)
	}
	return nil
}

// checkPositive is ValidateAmount plus the amount > 0 rule of transfers and
// loans.
func checkPositive(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrInvalidAmount
	}
	return ValidateAmount(d)
}
