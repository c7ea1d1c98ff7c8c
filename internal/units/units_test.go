package units

import (
	"math"
	"testing"

	"github.com/dmitrijs2005/hydrokeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip_AllUnits(t *testing.T) {
	values := []float64{0, 0.001, 1, 8, 16.9, 150, 1234.5678, 1e6}

	for _, u := range All() {
		for _, x := range values {
			d, err := ToDisplay(x, u)
			require.NoError(t, err)
			back, err := ToCanonical(d, u)
			require.NoError(t, err)

			tol := 1e-9 * math.Max(1, math.Abs(x))
			assert.InDelta(t, x, back, tol, "unit=%s x=%v", u, x)
		}
	}
}

func TestToDisplay_KnownRates(t *testing.T) {
	tests := []struct {
		unit Unit
		in   float64
		want float64
	}{
		{Ounces, 16, 16},
		{Milliliters, 1, 29.5735},
		{Liters, 100, 2.95735},
		{Cups, 8, 1},
		{Pints, 16, 1},
		{Gallons, 128, 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.unit), func(t *testing.T) {
			got, err := ToDisplay(tt.in, tt.unit)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestToCanonical_Cups(t *testing.T) {
	got, err := ToCanonical(2, Cups)
	require.NoError(t, err)
	assert.InDelta(t, 16.0, got, 1e-12)
}

func TestUnknownUnit(t *testing.T) {
	_, err := ToDisplay(1, Unit("barrels"))
	require.ErrorIs(t, err, common.ErrInvalidUnit)

	_, err = ToCanonical(1, Unit(""))
	require.ErrorIs(t, err, common.ErrInvalidUnit)
}

func TestParse(t *testing.T) {
	for in, want := range map[string]Unit{
		"oz":      Ounces,
		"ML":      Milliliters,
		" l ":     Liters,
		"Cups":    Cups,
		"pints":   Pints,
		"GALLONS": Gallons,
	} {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Parse("spoon")
	require.ErrorIs(t, err, common.ErrInvalidUnit)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "16 oz", Format(16, Ounces))
	assert.Equal(t, "473.2 mL", Format(16, Milliliters))
	assert.Equal(t, "2 cups", Format(16, Cups))
	assert.Equal(t, "3 oz", Format(3, Unit("nope")))
}

func TestAll_ReturnsCopy(t *testing.T) {
	a := All()
	a[0] = "changed"
	assert.Equal(t, Ounces, All()[0])
	assert.True(t, Canonical.Valid())
}
