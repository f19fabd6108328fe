package v1_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// decimalFromString builds a decimal or fails the test.
func decimalFromString(t *testing.T, s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	require.Nil(t, err)
	return d
}
