package utils

import (
	"time"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
)

// WIB is the fixed civil timezone (UTC+7) used for every window boundary
// calculation. It has no daylight saving, so constant-offset arithmetic is
// exact.
var WIB = time.FixedZone("WIB", 7*60*60)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

// Window is a concrete [Start, End] instant pair within which at most one
// completion (or one achievement lifecycle phase) is valid. Both bounds are
// inclusive; End is the last representable millisecond of the window's final
// civil day.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// DayStart returns civil midnight of t's day in WIB.
func DayStart(t time.Time) time.Time {
	t = t.In(WIB)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, WIB)
}

// DailyWindow returns the window covering now's civil day in WIB:
// [00:00:00.000, 23:59:59.999].
func DailyWindow(now time.Time) Window {
	start := DayStart(now)
	return Window{Start: start, End: start.Add(day - time.Millisecond)}
}

// WeeklyWindow returns the 7-day window of the weekly cadence anchored at
// anchor's WIB midnight that contains now. The anchor fixes the cadence:
// windows run [anchor, anchor+6d 23:59:59.999], then [anchor+7d, ...], and so
// on, independent of calendar weeks. An anchor of "now" degenerates to the
// window starting today.
func WeeklyWindow(anchor, now time.Time) Window {
	start := DayStart(anchor)
	if now.After(start) {
		cycles := int64(now.Sub(start) / week)
		start = start.Add(time.Duration(cycles) * week)
	}
	return Window{Start: start, End: start.Add(week - time.Millisecond)}
}

// CurrentWindow computes the effective window for a frequency at now.
// For weekly frequencies the anchor fixes the cadence; daily windows ignore
// it. The round-trip property Start <= now <= End holds whenever anchor is
// not in the future.
func CurrentWindow(freq models.Frequency, anchor, now time.Time) Window {
	if freq == models.FrequencyWeekly {
		return WeeklyWindow(anchor, now)
	}
	return DailyWindow(now)
}

// PeriodKey renders the canonical identity of a window for the one-completion
// uniqueness index, e.g. "d:2024-05-13" or "w:2024-05-13".
func PeriodKey(freq models.Frequency, w Window) string {
	prefix := "d:"
	if freq == models.FrequencyWeekly {
		prefix = "w:"
	}
	return prefix + w.Start.In(WIB).Format("2006-01-02")
}

// FormatWIB renders an instant as a civil date+time string in WIB for
// presentation. Pure projection, no bearing on window correctness.
func FormatWIB(t time.Time) string {
	return t.In(WIB).Format("2006-01-02 15:04:05") + " WIB"
}
