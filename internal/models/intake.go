// Package models defines the domain records of HydroKeeper. All amounts are
// in the canonical unit (see internal/units).
package models

import "time"

// IntakeEvent is one recorded drink. Events are immutable once stored.
type IntakeEvent struct {
	// ID is the surrogate key assigned by the store; it grows monotonically.
	ID int64

	// Amount is the raw volume in canonical ounces.
	Amount float64

	// DrinkType is the name of the drink type the event was recorded with.
	DrinkType string

	// HydrationAmount is Amount multiplied by the drink type's hydration factor
	// at write time. It is not recomputed if the factor changes later.
	HydrationAmount float64

	// Timestamp is the creation time. It orders events and decides which
	// local calendar day an event belongs to.
	Timestamp time.Time
}

// DayTotal is a derived per-day aggregate. It is never persisted.
type DayTotal struct {
	// Date is local midnight of the day.
	Date  time.Time
	Total float64
}

// DayProgress compares a day's total with the daily goal.
type DayProgress struct {
	Date      time.Time
	Total     float64
	Goal      float64
	Fraction  float64
	Remaining float64
	Met       bool
}
