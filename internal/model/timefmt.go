package model

import (
	"fmt"
	"time"
)

// FormatDate renders a timestamp for display ("Jan 2, 2006").
// Zero timestamps render as "No date".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "No date"
	}
	return t.Format("Jan 2, 2006")
}

// RelativeTime renders a timestamp relative to now (Today, Yesterday,
// N days/weeks/months/years ago). Zero timestamps render as "No date".
func RelativeTime(t time.Time) string {
	if t.IsZero() {
		return "No date"
	}
	days := int(time.Since(t).Hours() / 24)
	if days < 0 {
		days = -days
	}
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	case days < 365:
		return fmt.Sprintf("%d months ago", days/30)
	default:
		return fmt.Sprintf("%d years ago", days/365)
	}
}
