// internal/pkg/money/money_test.go
package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundPrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "half rounds up", input: "10.005", expected: "10.01"},
		{name: "below half rounds down", input: "10.004", expected: "10.00"},
		{name: "already at scale", input: "10.01", expected: "10.01"},
		{name: "zero", input: "0", expected: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decimal.RequireFromString(tt.input)
			assert.Equal(t, tt.expected, RoundPrice(d).StringFixed(2))
		})
	}
}

func TestFloorAtZero(t *testing.T) {
	assert.True(t, FloorAtZero(decimal.RequireFromString("-5.30")).IsZero())
	assert.Equal(t, "1.25", FloorAtZero(decimal.RequireFromString("1.25")).String())
	assert.True(t, FloorAtZero(decimal.Zero).IsZero())
}

func TestTruncateToWholeUnits(t *testing.T) {
	assert.Equal(t, "1234", TruncateToWholeUnits(decimal.RequireFromString("1234.99")).String())
	assert.Equal(t, "1234", TruncateToWholeUnits(decimal.RequireFromString("1234.01")).String())
	assert.Equal(t, "0", TruncateToWholeUnits(decimal.RequireFromString("0.99")).String())
}

func TestRoundDownToThousand(t *testing.T) {
	assert.Equal(t, "12000", RoundDownToThousand(decimal.RequireFromString("12999.50")).String())
	assert.Equal(t, "12000", RoundDownToThousand(decimal.RequireFromString("12000")).String())
	assert.Equal(t, "0", RoundDownToThousand(decimal.RequireFromString("999.99")).String())
}

func TestIsSupportedCurrency(t *testing.T) {
	assert.True(t, IsSupportedCurrency(CurrencyCZK))
	assert.True(t, IsSupportedCurrency(CurrencyEUR))
	assert.False(t, IsSupportedCurrency("USD"))
	assert.False(t, IsSupportedCurrency("czk"))
}
