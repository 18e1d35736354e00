// README: Opening-hours evaluation against a target meeting instant.
package venue

import (
	"time"
)

// category thresholds: nightlife needs a longer remaining window than food.
const (
	defaultRequiredMinutes   = 60
	nightlifeRequiredMinutes = 120
)

// RequiredOpenMinutes returns the minimum remaining open time for a venue
// category at the meeting instant.
func RequiredOpenMinutes(category string) int {
	switch category {
	case "bar", "night_club", "pub":
		return nightlifeRequiredMinutes
	default:
		return defaultRequiredMinutes
	}
}

// openWindow reports whether any period covers the instant t and, if so,
// the remaining minutes and close time of the longest-remaining covering
// period. Overlapping periods from sloppy provider data are tolerated by
// taking the maximum.
func openWindow(t time.Time, periods []OpeningPeriod) (int, time.Time, bool) {
	bestMinutes := -1
	var bestClose time.Time

	for _, p := range periods {
		openAt := weekdayTime(t, p.Open)

		var closeAt time.Time
		if p.Close != nil {
			closeAt = weekdayTime(t, *p.Close)
			if !closeAt.After(openAt) {
				// close marker not strictly after open within the week:
				// the period spans past local midnight
				closeAt = closeAt.Add(24 * time.Hour)
			}
		} else {
			closeAt = openAt.Add(24 * time.Hour)
		}

		if openAt.After(t) || !closeAt.After(t) {
			continue
		}
		minutes := int(closeAt.Sub(t) / time.Minute)
		if minutes > bestMinutes {
			bestMinutes = minutes
			bestClose = closeAt
		}
	}

	if bestMinutes < 0 {
		return 0, time.Time{}, false
	}
	return bestMinutes, bestClose, true
}

// weekdayTime resolves a weekly day+time marker to a concrete instant in
// the week of base. Both sides use time.Weekday numbering (Sunday = 0).
func weekdayTime(base time.Time, dt DayTime) time.Time {
	deltaDays := int(dt.Day) - int(base.Weekday())
	d := base.AddDate(0, 0, deltaDays)
	return time.Date(d.Year(), d.Month(), d.Day(), dt.Hour, dt.Minute, 0, 0, base.Location())
}

// evaluateHours annotates v against the meeting instant. Venues confirmed
// closed at the instant are reported via the keep return; venues without
// hours data pass through with unknown status.
func evaluateHours(v *Venue, meetingTime time.Time, requiredMinutes int) (keep bool) {
	if len(v.Hours) == 0 {
		return true // unknown, rank after confirmed-open
	}

	left, closeAt, open := openWindow(meetingTime, v.Hours)
	if !open {
		return false
	}

	enough := left >= requiredMinutes
	v.OpenMinutesLeft = &left
	v.OpenEnough = &enough
	v.ClosesAt = closeAt.Format("15:04")
	return true
}
