package models

import "github.com/dmitrijs2005/hydrokeeper/internal/units"

// Settings holds user preferences. Only DailyGoal and MeasurementUnit are read
// by the ledger side; the notification fields are kept for the front end.
type Settings struct {
	// DailyGoal is in canonical units.
	DailyGoal       float64
	MeasurementUnit units.Unit

	NotificationsEnabled bool
	SoundEnabled         bool
	VibrationEnabled     bool
	// NotificationStart and NotificationEnd are "HH:MM" in local time.
	NotificationStart string
	NotificationEnd   string
	// NotificationDelay is the reminder interval in minutes.
	NotificationDelay int

	// InstallationID identifies this local database. Assigned once.
	InstallationID string
}

// DefaultSettings returns the settings of a fresh installation.
func DefaultSettings() Settings {
	return Settings{
		DailyGoal:            150,
		MeasurementUnit:      units.Ounces,
		NotificationsEnabled: false,
		SoundEnabled:         true,
		VibrationEnabled:     true,
		NotificationStart:    "08:00",
		NotificationEnd:      "20:00",
		NotificationDelay:    60,
	}
}
