package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		in       string
		expected Currency
		ok       bool
	}{
		{"altın", Gold, true},
		{"ALTIN", Gold, true},
		{"gümüş", Silver, true},
		{"Bakır", Copper, true},
		{"elmas", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseCurrency(tt.in)
		assert.Equal(t, tt.ok, ok, "ParseCurrency(%q)", tt.in)
		assert.Equal(t, tt.expected, got, "ParseCurrency(%q)", tt.in)
	}
}

func TestBalanceAdd(t *testing.T) {
	b := Balance{Gold: 150}
	got := b.Add(Cost(100, Gold).Negate())
	assert.Equal(t, Balance{Gold: 50}, got)

	// Deltas sum regardless of denomination mixing.
	got = Balance{Gold: 10, Silver: 5}.Add(Balance{Gold: -3, Copper: 7})
	assert.Equal(t, Balance{Gold: 7, Silver: 5, Copper: 7}, got)
}

func TestBalanceCovers(t *testing.T) {
	b := Balance{Gold: 100, Silver: 20}
	assert.True(t, b.Covers(Cost(100, Gold)))
	assert.False(t, b.Covers(Cost(101, Gold)))
	// No cross-denomination conversion: gold cannot pay a copper price.
	assert.False(t, b.Covers(Cost(1, Copper)))
}

func TestCost(t *testing.T) {
	assert.Equal(t, Balance{Silver: 25}, Cost(25, Silver))
	assert.Equal(t, Balance{}, Cost(25, Currency("elmas")))
}
