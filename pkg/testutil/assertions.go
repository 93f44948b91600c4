package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// AssertDecimalEqual compares decimals by value, so 1.50 equals 1.5.
func AssertDecimalEqual(t *testing.T, expected, actual decimal.Decimal, msgAndArgs ...interface{}) bool {
	t.Helper()
	if expected.Equal(actual) {
		return true
	}
	return assert.Fail(t, "decimals differ: expected "+expected.String()+", actual "+actual.String(), msgAndArgs...)
}

// AssertDecimalWithin checks |expected-actual| <= tolerance.
func AssertDecimalWithin(t *testing.T, expected, actual, tolerance decimal.Decimal, msgAndArgs ...interface{}) bool {
	t.Helper()
	if expected.Sub(actual).Abs().LessThanOrEqual(tolerance) {
		return true
	}
	return assert.Fail(t, "decimals differ by more than "+tolerance.String()+
		": expected "+expected.String()+", actual "+actual.String(), msgAndArgs...)
}
