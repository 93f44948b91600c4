package testutil

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// FixedTime is a deterministic creation timestamp for tests.
var FixedTime = time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)

// Dec parses s as a decimal and fails the test on malformed input.
func Dec(t testing.TB, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal literal %q: %v", s, err)
	}
	return d
}
