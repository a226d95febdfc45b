package service

import "time"

// Availability derives a 0-100 availability percentage from the up/down
// transition logs. The open pair (service still up) is closed with now.
// Pairs where the down time precedes the up time are skipped rather than
// corrected; the stored history is never touched. A non-positive observation
// window yields 0. Deterministic for a fixed now.
func Availability(upTime, downTime []time.Time, now time.Time) float64 {
	if len(upTime) == 0 {
		return 0
	}
	down := downTime
	if len(down) < len(upTime) {
		down = append(append([]time.Time(nil), downTime...), now)
	}

	var totalUp time.Duration
	var lastEnd time.Time
	for i, up := range upTime {
		if i >= len(down) {
			break
		}
		d := down[i]
		if d.Before(up) {
			// inverted pair, skip leniently
			continue
		}
		totalUp += d.Sub(up)
		lastEnd = d
	}
	if lastEnd.IsZero() {
		lastEnd = now
	}
	window := lastEnd.Sub(upTime[0])
	if window <= 0 {
		return 0
	}
	pct := float64(totalUp) / float64(window) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
