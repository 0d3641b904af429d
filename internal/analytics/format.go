package analytics

import (
	"fmt"
	"math"
	"time"
)

// FormatDuration renders a second count as the largest applicable unit pair:
// "2Hr 5 Mins", "45 Mins" or "30 Secs". Hours never combine with seconds.
func FormatDuration(seconds float64) string {
	total := int(math.Floor(seconds))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	if h > 0 {
		return fmt.Sprintf("%dHr %d Mins", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%d Mins", m)
	}
	return fmt.Sprintf("%d Secs", s)
}

func FormatDistance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1f KM", meters/1000)
	}
	return fmt.Sprintf("%.0f M", meters)
}

func FormatSpeed(kmh float64) string {
	return fmt.Sprintf("%.1f KM/H", kmh)
}

// FormatCoordinate renders "12.9716° N, 77.5946° E" style coordinates with
// hemisphere suffixes instead of signs.
func FormatCoordinate(lat, lon float64) string {
	latDir := "N"
	if lat < 0 {
		latDir = "S"
	}
	lonDir := "E"
	if lon < 0 {
		lonDir = "W"
	}
	return fmt.Sprintf("%.4f° %s, %.4f° %s", math.Abs(lat), latDir, math.Abs(lon), lonDir)
}

// FormatTimeRange renders "09:15:00 AM to 09:45:30 AM" on a 12-hour clock.
func FormatTimeRange(start, end time.Time) string {
	const clock = "03:04:05 PM"
	return start.Format(clock) + " to " + end.Format(clock)
}
