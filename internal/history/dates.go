package history

import (
	"fmt"
	"time"
)

// DateFormat is the calendar-date layout used throughout the diary.
const DateFormat = "2006-01-02"

// LocalDateString formats a time as YYYY-MM-DD in its own location.
func LocalDateString(t time.Time) string {
	return t.Format(DateFormat)
}

// FilterToDate returns the events played on the given calendar date
// (YYYY-MM-DD), evaluated in each event's local timezone. Order is
// preserved.
func FilterToDate(events []PlayEvent, date string) []PlayEvent {
	var filtered []PlayEvent
	for _, e := range events {
		if LocalDateString(e.PlayedAt) == date {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// FormatTimeSince renders the elapsed time between then and now as a
// short human phrase: "3 hours ago", "1 minute ago" or "just now".
func FormatTimeSince(then, now time.Time) string {
	elapsed := now.Sub(then)
	hours := int(elapsed.Hours())
	minutes := int(elapsed.Minutes())

	switch {
	case hours > 1:
		return fmt.Sprintf("%d hours ago", hours)
	case hours == 1:
		return "1 hour ago"
	case minutes > 1:
		return fmt.Sprintf("%d minutes ago", minutes)
	case minutes == 1:
		return "1 minute ago"
	default:
		return "just now"
	}
}
