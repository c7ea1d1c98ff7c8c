package models

// DrinkType is catalog reference data.
type DrinkType struct {
	ID   int64
	Name string
	// HydrationFactor is the effective hydration per unit volume, by
	// convention in (0, 1].
	HydrationFactor float64
}

// QuickAddPreset is a user-defined shortcut amount in canonical units.
type QuickAddPreset struct {
	ID     int64
	Amount float64
}
