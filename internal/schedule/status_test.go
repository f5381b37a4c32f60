package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(t *testing.T, s string) ClockTime {
	t.Helper()
	ct, ok := ParseClock(s)
	require.True(t, ok, "bad clock literal %q", s)
	return ct
}

func TestResolveStatusDefaultsToOnline(t *testing.T) {
	noon := ClockTime(12 * 60)

	tests := []struct {
		name string
		ws   *WeeklySchedule
	}{
		{"nil schedule", nil},
		{"empty schedule", &WeeklySchedule{Days: map[string][]TimeBlock{}}},
		{"day without blocks", &WeeklySchedule{Days: map[string][]TimeBlock{
			"tuesday": {{Start: 9 * 60, End: 10 * 60, Status: StatusBusy}},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := ResolveStatus(tt.ws, time.Monday, noon)
			assert.Equal(t, StatusOnline, snap.Status)
			assert.Nil(t, snap.Activity)
			assert.Nil(t, snap.NextChange)
		})
	}
}

func TestResolveStatusHalfOpenInterval(t *testing.T) {
	ws := &WeeklySchedule{Days: map[string][]TimeBlock{
		"monday": {{Start: 9 * 60, End: 17 * 60, Status: StatusBusy, Activity: "work"}},
	}}

	// start is inclusive
	snap := ResolveStatus(ws, time.Monday, ClockTime(9*60))
	assert.Equal(t, StatusBusy, snap.Status)

	// end is exclusive -> falls through to the default
	snap = ResolveStatus(ws, time.Monday, ClockTime(17*60))
	assert.Equal(t, StatusOnline, snap.Status)
	assert.Nil(t, snap.NextChange)
}

func TestResolveStatusFirstMatchWins(t *testing.T) {
	// Overlapping blocks in parse order: the first one containing now must
	// win regardless of start times.
	ws := &WeeklySchedule{Days: map[string][]TimeBlock{
		"friday": {
			{Start: 10 * 60, End: 20 * 60, Status: StatusAway, Activity: "errands"},
			{Start: 9 * 60, End: 21 * 60, Status: StatusBusy, Activity: "deep work"},
		},
	}}

	snap := ResolveStatus(ws, time.Friday, ClockTime(12*60))
	assert.Equal(t, StatusAway, snap.Status)
	require.NotNil(t, snap.Activity)
	assert.Equal(t, "errands", *snap.Activity)
	require.NotNil(t, snap.NextChange)
	assert.Equal(t, ClockTime(20*60), *snap.NextChange)
}

func TestResolveStatusWraparoundBlockNeverMatches(t *testing.T) {
	// A block with end < start denotes a midnight crossing, but resolution
	// keeps the literal non-wraparound comparison, so it stays inert both
	// inside and outside the nominal interval.
	ws := &WeeklySchedule{Days: map[string][]TimeBlock{
		"saturday": {{Start: 23 * 60, End: 2 * 60, Status: StatusOffline, Activity: "sleeping"}},
	}}

	for _, at := range []string{"23:30", "01:00", "12:00"} {
		snap := ResolveStatus(ws, time.Saturday, clock(t, at))
		assert.Equal(t, StatusOnline, snap.Status, "at %s", at)
	}
}

func TestResolveStatusEndToEnd(t *testing.T) {
	text := "MONDAY\n09:00-17:00 ONLINE working\n17:00-23:00 BUSY dinner with friends.\nTUESDAY\n00:00-23:59 OFFLINE"
	ws := ParseWeek(text)

	snap := ResolveStatus(ws, time.Monday, clock(t, "18:00"))
	assert.Equal(t, StatusBusy, snap.Status)
	require.NotNil(t, snap.Activity)
	assert.Equal(t, "dinner with friends", *snap.Activity)
	require.NotNil(t, snap.NextChange)
	assert.Equal(t, "23:00", snap.NextChange.String())

	snap = ResolveStatus(ws, time.Tuesday, clock(t, "12:00"))
	assert.Equal(t, StatusOffline, snap.Status)
	assert.Nil(t, snap.Activity)
	require.NotNil(t, snap.NextChange)
	assert.Equal(t, "23:59", snap.NextChange.String())
}

func TestResolveAt(t *testing.T) {
	ws := ParseWeek("WEDNESDAY\n09:00-17:00 BUSY in the office")

	at := time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC) // a Wednesday
	snap := ResolveAt(ws, at)
	assert.Equal(t, StatusBusy, snap.Status)

	at = time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC) // Thursday
	snap = ResolveAt(ws, at)
	assert.Equal(t, StatusOnline, snap.Status)
}

func TestSnapshotJSONContract(t *testing.T) {
	ws := ParseWeek("MONDAY\n09:00-17:00 BUSY working")

	data, err := json.Marshal(ResolveStatus(ws, time.Monday, clock(t, "10:00")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"busy","activity":"working","nextChange":"17:00"}`, string(data))

	data, err = json.Marshal(ResolveStatus(nil, time.Monday, clock(t, "10:00")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"online","activity":null,"nextChange":null}`, string(data))
}

func TestWeeklyScheduleRoundTrip(t *testing.T) {
	ws := ParseWeek("MONDAY\n09:00-17:00 ONLINE working\n23:00-02:00 OFFLINE sleeping")

	data, err := json.Marshal(ws)
	require.NoError(t, err)

	var restored WeeklySchedule
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, ws.Days, restored.Days)
	assert.Equal(t, ws.ResponseDelays, restored.ResponseDelays)
}
