package schedule

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is a character's simulated availability.
type Status string

const (
	StatusOnline  Status = "online"
	StatusAway    Status = "away"
	StatusBusy    Status = "busy"
	StatusOffline Status = "offline"
)

// ParseStatus matches a status token case-insensitively.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "online":
		return StatusOnline, true
	case "away":
		return StatusAway, true
	case "busy":
		return StatusBusy, true
	case "offline":
		return StatusOffline, true
	}
	return "", false
}

// ClockTime is a wall-clock time with minute resolution, stored as minutes
// from midnight. It carries no timezone; it is interpreted in whatever zone
// the caller's "now" uses.
type ClockTime int

// ParseClock parses "HH:MM" (hour may be one digit) into a ClockTime.
func ParseClock(s string) (ClockTime, bool) {
	var h, m int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &h, &m); err != nil {
		return 0, false
	}
	return MakeClock(h, m)
}

// MakeClock validates hour/minute ranges.
func MakeClock(hour, minute int) (ClockTime, bool) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return ClockTime(hour*60 + minute), true
}

func (t ClockTime) Hour() int   { return int(t) / 60 }
func (t ClockTime) Minute() int { return int(t) % 60 }

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// MarshalJSON encodes the time as "HH:MM" so stored schedules survive
// round-trips through the database unchanged.
func (t ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParseClock(s)
	if !ok {
		return fmt.Errorf("invalid clock time: %q", s)
	}
	*t = parsed
	return nil
}

// TimeBlock is one contiguous interval of a single day during which the
// character holds one status and optionally has an activity description.
// Start and End are never equal; End < Start is preserved as parsed and
// simply never matches during resolution (see ResolveStatus).
type TimeBlock struct {
	Start    ClockTime `json:"start"`
	End      ClockTime `json:"end"`
	Status   Status    `json:"status"`
	Activity string    `json:"activity,omitempty"`
}

// ResponseDelay describes how long the reply simulator should wait before
// answering while the character holds a given status.
type ResponseDelay struct {
	MinSeconds int  `json:"minSeconds"`
	MaxSeconds int  `json:"maxSeconds"`
	NoReply    bool `json:"noReply,omitempty"`
}

// WeeklySchedule maps lowercase day names to that day's blocks, in parse
// order. Days without any recovered block are absent. The response delay
// table is emitted alongside every parse result as static constants.
type WeeklySchedule struct {
	Days           map[string][]TimeBlock   `json:"days"`
	ResponseDelays map[Status]ResponseDelay `json:"responseDelays"`
}

// StatusSnapshot is what the presence engine reports for one point in time.
type StatusSnapshot struct {
	Status     Status     `json:"status"`
	Activity   *string    `json:"activity"`
	NextChange *ClockTime `json:"nextChange"`
}

// dayNames are the canonical section headers, in week order.
var dayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// defaultResponseDelays returns a fresh copy of the static delay table so a
// parsed schedule owns its own map.
func defaultResponseDelays() map[Status]ResponseDelay {
	return map[Status]ResponseDelay{
		StatusOnline:  {MinSeconds: 30, MaxSeconds: 120},
		StatusAway:    {MinSeconds: 300, MaxSeconds: 1200},
		StatusBusy:    {MinSeconds: 900, MaxSeconds: 3600},
		StatusOffline: {NoReply: true},
	}
}
