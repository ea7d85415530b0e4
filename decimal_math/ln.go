package decimal_math

import (
	"errors"

	"github.com/shopspring/decimal"
)

// LnPrecision is the number of decimal places kept by Ln.
const LnPrecision = 18

// Ln is the natural logarithm of a positive decimal.
func Ln(x decimal.Decimal) (decimal.Decimal, error) {
	if !x.IsPositive() {
		return decimal.Zero, errors.New("ln of non-positive decimal")
	}
	return x.Ln(LnPrecision)
}

// QuoTrunc divides and drops the fractional part.
func QuoTrunc(x, y decimal.Decimal) decimal.Decimal {
	q, _ := x.QuoRem(y, 0)
	return q
}
