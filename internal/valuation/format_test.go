package valuation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "PKR 12,750,000", FormatAmount("PKR", 12_750_000))
	assert.Equal(t, "PKR 1,000", FormatAmount("PKR", 999.6))
	assert.Equal(t, "950", FormatAmount("", 950))
}

func TestNewDisplay(t *testing.T) {
	d := NewDisplay("PKR", 33_125_000)

	assert.Equal(t, "PKR 33,125,000", d.Formatted)
	assert.Equal(t, 3.31, d.Crore)
	assert.Equal(t, 331.0, d.Lakh)
}

func TestNewDisplay_RoundsHalfAwayFromZero(t *testing.T) {
	d := NewDisplay("PKR", 33_150_000)

	assert.Equal(t, 3.32, d.Crore)
	assert.Equal(t, 332.0, d.Lakh)

	d = NewDisplay("PKR", 35_062_500)
	assert.Equal(t, 3.51, d.Crore)
	assert.Equal(t, 351.0, d.Lakh)
}

func TestNewDisplay_NonFinite(t *testing.T) {
	for _, amount := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		assert.NotPanics(t, func() {
			d := NewDisplay("PKR", amount)
			assert.Equal(t, Display{Formatted: "PKR n/a"}, d)
		})
		assert.Equal(t, "n/a", FormatAmount("", amount))
	}
}
