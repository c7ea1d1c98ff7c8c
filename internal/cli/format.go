package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/hydrokeeper/internal/common"
	"github.com/dmitrijs2005/hydrokeeper/internal/models"
	"github.com/dmitrijs2005/hydrokeeper/internal/units"
)

// parseAmount parses a user-typed amount in unit u and converts it to the
// canonical unit.
func parseAmount(s string, u units.Unit) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, common.ErrInvalidAmount)
	}
	return units.ToCanonical(v, u)
}

func parseFactor(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("hydration factor %q: %w", s, common.ErrInvalidAmount)
	}
	return v, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id %q: %w", s, common.ErrInvalidValue)
	}
	return id, nil
}

// parseDate parses YYYY-MM-DD in loc. An empty string means today.
func parseDate(s string, now time.Time, loc *time.Location) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return now.In(loc), nil
	case "yesterday":
		return now.In(loc).AddDate(0, 0, -1), nil
	}
	d, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q (want YYYY-MM-DD): %w", s, common.ErrInvalidValue)
	}
	return d, nil
}

// parseMonth parses YYYY-MM. An empty string means the month of now.
func parseMonth(s string, now time.Time) (int, time.Month, error) {
	if strings.TrimSpace(s) == "" {
		return now.Year(), now.Month(), nil
	}
	d, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("month %q (want YYYY-MM): %w", s, common.ErrInvalidValue)
	}
	return d.Year(), d.Month(), nil
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("%q (want on or off): %w", s, common.ErrInvalidValue)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func printProgress(w io.Writer, p models.DayProgress, u units.Unit) {
	pct := int(math.Round(p.Fraction * 100))
	fmt.Fprintf(w, "%s: %s of %s (%d%%)", p.Date.Format("Mon 2006-01-02"),
		units.Format(p.Total, u), units.Format(p.Goal, u), pct)
	if p.Met {
		fmt.Fprintln(w, ", goal reached")
	} else {
		fmt.Fprintf(w, ", %s to go\n", units.Format(p.Remaining, u))
	}
}

func printEvents(w io.Writer, events []models.IntakeEvent, u units.Unit) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No drinks recorded.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tDRINK\tAMOUNT\tHYDRATION")
	for _, ev := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ev.Timestamp.Format("15:04"), ev.DrinkType,
			units.Format(ev.Amount, u), units.Format(ev.HydrationAmount, u))
	}
	_ = tw.Flush()
}

// bar renders fraction (0..1) as a fixed-width bar. NaN renders empty.
func bar(fraction float64, width int) string {
	if !(fraction > 0) {
		fraction = 0
	}
	n := int(math.Round(min(fraction, 1) * float64(width)))
	return strings.Repeat("#", n) + strings.Repeat(".", width-n)
}
