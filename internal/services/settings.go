package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/hydrokeeper/internal/common"
	"github.com/dmitrijs2005/hydrokeeper/internal/dbx"
	"github.com/dmitrijs2005/hydrokeeper/internal/logging"
	"github.com/dmitrijs2005/hydrokeeper/internal/models"
	"github.com/dmitrijs2005/hydrokeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/hydrokeeper/internal/units"
	"github.com/google/uuid"
)

// Keys of the settings table.
const (
	keyDailyGoal       = "daily_goal"
	keyMeasurementUnit = "measurement_unit"
	keyNotifications   = "notifications_enabled"
	keySound           = "sound_enabled"
	keyVibration       = "vibration_enabled"
	keyNotifyStart     = "notification_start"
	keyNotifyEnd       = "notification_end"
	keyNotifyDelay     = "notification_delay"
	keyInstallationID  = "installation_id"
)

// userKeys are the keys removed by Reset. Internal markers survive.
var userKeys = []string{
	keyDailyGoal, keyMeasurementUnit, keyNotifications, keySound,
	keyVibration, keyNotifyStart, keyNotifyEnd, keyNotifyDelay,
}

// Settings stores user preferences. Missing keys read as
// models.DefaultSettings.
type Settings struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	logger logging.Logger
}

func NewSettings(db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) *Settings {
	return &Settings{db: db, rm: rm, logger: logger.With("component", "settings")}
}

// Get returns the current settings. A stored value that cannot be parsed is
// logged and replaced by its default.
func (s *Settings) Get(ctx context.Context) (models.Settings, error) {
	out := models.DefaultSettings()
	if s.db == nil {
		return out, common.ErrNotInitialized
	}
	kv, err := s.rm.Settings(s.db).List(ctx)
	if err != nil {
		return out, dbx.StorageError("get settings", err)
	}

	for k, v := range kv {
		var perr error
		switch k {
		case keyDailyGoal:
			var f float64
			if f, perr = strconv.ParseFloat(v, 64); perr == nil && !validAmount(f) {
				perr = fmt.Errorf("daily goal %v: %w", f, common.ErrInvalidAmount)
			}
			if perr == nil {
				out.DailyGoal = f
			}
		case keyMeasurementUnit:
			var u units.Unit
			if u, perr = units.Parse(v); perr == nil {
				out.MeasurementUnit = u
			}
		case keyNotifications:
			out.NotificationsEnabled, perr = parseBool(v, out.NotificationsEnabled)
		case keySound:
			out.SoundEnabled, perr = parseBool(v, out.SoundEnabled)
		case keyVibration:
			out.VibrationEnabled, perr = parseBool(v, out.VibrationEnabled)
		case keyNotifyStart, keyNotifyEnd:
			// The window is checked as a pair below.
		case keyNotifyDelay:
			var n int
			if n, perr = strconv.Atoi(v); perr == nil && n <= 0 {
				perr = fmt.Errorf("notification delay %d: %w", n, common.ErrInvalidValue)
			}
			if perr == nil {
				out.NotificationDelay = n
			}
		case keyInstallationID:
			out.InstallationID = v
		}
		if perr != nil {
			s.logger.Warn(ctx, "ignoring malformed setting", "key", k, "value", v, "error", perr)
		}
	}

	start, end := out.NotificationStart, out.NotificationEnd
	if v, ok := kv[keyNotifyStart]; ok {
		start = v
	}
	if v, ok := kv[keyNotifyEnd]; ok {
		end = v
	}
	if _, _, err := parseWindow(start, end); err != nil {
		s.logger.Warn(ctx, "ignoring malformed setting", "key", "notification_window",
			"value", start+"-"+end, "error", err)
	} else {
		out.NotificationStart, out.NotificationEnd = start, end
	}
	return out, nil
}

// SetDailyGoal stores the goal in canonical units.
func (s *Settings) SetDailyGoal(ctx context.Context, goal float64) error {
	if !validAmount(goal) {
		return fmt.Errorf("daily goal %v: %w", goal, common.ErrInvalidAmount)
	}
	return s.set(ctx, keyDailyGoal, strconv.FormatFloat(goal, 'f', -1, 64))
}

func (s *Settings) SetMeasurementUnit(ctx context.Context, u units.Unit) error {
	if !u.Valid() {
		return fmt.Errorf("unit %q: %w", u, common.ErrInvalidUnit)
	}
	return s.set(ctx, keyMeasurementUnit, string(u))
}

func (s *Settings) SetNotifications(ctx context.Context, enabled bool) error {
	return s.set(ctx, keyNotifications, strconv.FormatBool(enabled))
}

func (s *Settings) SetSound(ctx context.Context, enabled bool) error {
	return s.set(ctx, keySound, strconv.FormatBool(enabled))
}

func (s *Settings) SetVibration(ctx context.Context, enabled bool) error {
	return s.set(ctx, keyVibration, strconv.FormatBool(enabled))
}

// SetNotificationWindow stores the daily reminder window as "HH:MM" times.
// start must be before end.
func (s *Settings) SetNotificationWindow(ctx context.Context, start, end string) error {
	ts, te, err := parseWindow(start, end)
	if err != nil {
		return err
	}
	return dbx.StorageError("set settings", dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Settings(tx)
		if err := repo.Set(ctx, keyNotifyStart, ts.Format("15:04")); err != nil {
			return err
		}
		return repo.Set(ctx, keyNotifyEnd, te.Format("15:04"))
	}))
}

// SetNotificationDelay stores the reminder interval in minutes.
func (s *Settings) SetNotificationDelay(ctx context.Context, minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("notification delay %d: %w", minutes, common.ErrInvalidValue)
	}
	return s.set(ctx, keyNotifyDelay, strconv.Itoa(minutes))
}

// Reset restores every user preference to its default.
func (s *Settings) Reset(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Settings(tx)
		for _, k := range userKeys {
			if err := repo.Delete(ctx, k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return dbx.StorageError("reset settings", err)
	}
	s.logger.Info(ctx, "settings reset")
	return nil
}

// EnsureInstallationID returns the installation id, generating and storing a
// new UUID the first time.
func (s *Settings) EnsureInstallationID(ctx context.Context) (id string, err error) {
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Settings(tx)
		v, ok, err := repo.Get(ctx, keyInstallationID)
		if err != nil {
			return err
		}
		if ok {
			id = v
			return nil
		}
		id = uuid.NewString()
		return repo.Set(ctx, keyInstallationID, id)
	})
	if err != nil {
		return "", dbx.StorageError("installation id", err)
	}
	return id, nil
}

func (s *Settings) set(ctx context.Context, key, value string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.rm.Settings(tx).Set(ctx, key, value)
	})
	if err != nil {
		return dbx.StorageError("set "+key, err)
	}
	s.logger.Debug(ctx, "setting stored", "key", key, "value", value)
	return nil
}

// parseWindow parses an "HH:MM" reminder window; start must be before end.
func parseWindow(start, end string) (time.Time, time.Time, error) {
	ts, err := time.Parse("15:04", start)
	if err != nil {
		return ts, ts, fmt.Errorf("notification start %q: %w", start, common.ErrInvalidValue)
	}
	te, err := time.Parse("15:04", end)
	if err != nil {
		return ts, te, fmt.Errorf("notification end %q: %w", end, common.ErrInvalidValue)
	}
	if !ts.Before(te) {
		return ts, te, fmt.Errorf("notification window %s-%s: %w", start, end, common.ErrInvalidValue)
	}
	return ts, te, nil
}

func parseBool(v string, def bool) (bool, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, err
	}
	return b, nil
}
