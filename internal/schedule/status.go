package schedule

import (
	"strings"
	"time"
)

// defaultSnapshot is what an unknown state resolves to. A character whose
// schedule is missing, empty or unreadable must appear online rather than
// ever blocking interaction.
func defaultSnapshot() StatusSnapshot {
	return StatusSnapshot{Status: StatusOnline}
}

// ResolveStatus maps a weekly schedule and a point in time to a live
// presence snapshot. Blocks are scanned in stored (parse) order and the
// first one containing now under [start, end) wins; the data is not
// guaranteed sorted or non-overlapping, so first-match-wins is load
// bearing, not an optimization. A block whose end precedes its start never
// matches; wraparound intervals are preserved as parsed but stay inert.
//
// Pure and total: never fails, safe for unsynchronized concurrent use.
func ResolveStatus(ws *WeeklySchedule, day time.Weekday, now ClockTime) StatusSnapshot {
	if ws == nil {
		return defaultSnapshot()
	}

	blocks := ws.Days[strings.ToLower(day.String())]
	if len(blocks) == 0 {
		return defaultSnapshot()
	}

	for _, b := range blocks {
		if b.Start <= now && now < b.End {
			snap := StatusSnapshot{Status: b.Status}
			if b.Activity != "" {
				activity := b.Activity
				snap.Activity = &activity
			}
			end := b.End
			snap.NextChange = &end
			return snap
		}
	}

	// Off-schedule gap. We deliberately do not hunt for the next upcoming
	// block to report a richer countdown here.
	return defaultSnapshot()
}

// ResolveAt resolves the snapshot for a concrete instant, using the
// instant's own location for day-of-week and time-of-day.
func ResolveAt(ws *WeeklySchedule, t time.Time) StatusSnapshot {
	now, _ := MakeClock(t.Hour(), t.Minute())
	return ResolveStatus(ws, t.Weekday(), now)
}
