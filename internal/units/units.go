// Package units converts volumes between the canonical storage unit (US fluid
// ounces) and the display units a user can choose.
//
// All functions are pure. No rounding is applied; Format is the only place
// where values are rounded, and it is meant for presentation.
package units

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/hydrokeeper/internal/common"
)

// Unit is a display unit identifier.
type Unit string

const (
	Ounces      Unit = "oz"
	Milliliters Unit = "mL"
	Liters      Unit = "L"
	Cups        Unit = "cups"
	Gallons     Unit = "gallons"
	Pints       Unit = "pints"
)

// Canonical is the unit every amount is stored in.
const Canonical = Ounces

// rates maps a unit to the number of display units in one canonical ounce.
var rates = map[Unit]float64{
	Ounces:      1,
	Milliliters: 29.5735,
	Liters:      0.0295735,
	Cups:        0.125,
	Gallons:     0.0078125,
	Pints:       0.0625,
}

var order = []Unit{Ounces, Milliliters, Liters, Cups, Gallons, Pints}

// All returns the supported units in a stable order.
func All() []Unit {
	out := make([]Unit, len(order))
	copy(out, order)
	return out
}

// Valid reports whether u is a supported unit.
func (u Unit) Valid() bool {
	_, ok := rates[u]
	return ok
}

func (u Unit) String() string { return string(u) }

// Parse resolves a unit name case-insensitively ("ml", "ML" and "mL" are the
// same unit).
func Parse(s string) (Unit, error) {
	s = strings.TrimSpace(s)
	for _, u := range order {
		if strings.EqualFold(string(u), s) {
			return u, nil
		}
	}
	return "", fmt.Errorf("%w: %q", common.ErrInvalidUnit, s)
}

// ToDisplay converts a canonical amount into unit u.
func ToDisplay(amount float64, u Unit) (float64, error) {
	r, ok := rates[u]
	if !ok {
		return 0, fmt.Errorf("%w: %q", common.ErrInvalidUnit, string(u))
	}
	return amount * r, nil
}

// ToCanonical converts an amount expressed in unit u into canonical ounces.
func ToCanonical(amount float64, u Unit) (float64, error) {
	r, ok := rates[u]
	if !ok {
		return 0, fmt.Errorf("%w: %q", common.ErrInvalidUnit, string(u))
	}
	return amount * (1 / r), nil
}

// Format renders a canonical amount in unit u with one decimal place,
// e.g. "473.2 mL". Trailing ".0" is dropped.
func Format(amount float64, u Unit) string {
	v, err := ToDisplay(amount, u)
	if err != nil {
		return strconv.FormatFloat(amount, 'f', -1, 64) + " " + string(Canonical)
	}
	s := strconv.FormatFloat(v, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s + " " + string(u)
}
