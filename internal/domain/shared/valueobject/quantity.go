package valueobject

import "github.com/shopspring/decimal"

// QuantityTolerance is the absolute tolerance applied to all quantity
// comparisons. Quantities are stored as decimal(18,4) but arrive from
// callers as floating-point input, so comparisons absorb rounding noise up
// to a thousandth of a unit.
var QuantityTolerance = decimal.NewFromFloat(0.001)

// ApproxZero reports whether q is zero within tolerance.
func ApproxZero(q decimal.Decimal) bool {
	return q.Abs().LessThanOrEqual(QuantityTolerance)
}

// ApproxEqual reports whether a and b are equal within tolerance.
func ApproxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(QuantityTolerance)
}

// FitsWithin reports whether requested fits inside available, allowing the
// request to exceed availability by at most the tolerance.
func FitsWithin(requested, available decimal.Decimal) bool {
	return requested.LessThanOrEqual(available.Add(QuantityTolerance))
}

// Covers reports whether achieved reaches target within tolerance, e.g. a
// dispatched-so-far quantity covering an ordered quantity.
func Covers(achieved, target decimal.Decimal) bool {
	return achieved.GreaterThanOrEqual(target.Sub(QuantityTolerance))
}
