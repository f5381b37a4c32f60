package scheduler

import (
	"testing"
	"time"

	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/config"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/database"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/schedule"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/signaling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A Wednesday. 2026-01-07 14:30 local time.
var wednesdayAfternoon = time.Date(2026, 1, 7, 14, 30, 0, 0, time.Local)

func TestResolveCharacterEmptyData(t *testing.T) {
	snap, err := resolveCharacter(nil, wednesdayAfternoon)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusOnline, snap.Status)
	assert.Nil(t, snap.Activity)
	assert.Nil(t, snap.NextChange)
}

func TestResolveCharacterCorruptData(t *testing.T) {
	_, err := resolveCharacter([]byte("{not json"), wednesdayAfternoon)
	assert.Error(t, err)
}

func TestResolveCharacterMatchesStoredBlock(t *testing.T) {
	data := []byte(`{
		"days": {
			"wednesday": [
				{"start": "14:00", "end": "16:00", "status": "busy", "activity": "gym"}
			]
		},
		"responseDelays": {}
	}`)

	snap, err := resolveCharacter(data, wednesdayAfternoon)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusBusy, snap.Status)
	require.NotNil(t, snap.Activity)
	assert.Equal(t, "gym", *snap.Activity)
	require.NotNil(t, snap.NextChange)
	assert.Equal(t, "16:00", snap.NextChange.String())
}

func TestResolveCharacterOffHoursDefaultsOnline(t *testing.T) {
	data := []byte(`{
		"days": {
			"wednesday": [
				{"start": "20:00", "end": "23:00", "status": "away"}
			]
		},
		"responseDelays": {}
	}`)

	snap, err := resolveCharacter(data, wednesdayAfternoon)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusOnline, snap.Status)
}

type sweepStore struct {
	characters  []database.Character
	updated     map[string]string
	likerTokens []string
	cleared     []string
}

func (f *sweepStore) GetActiveCharacters() ([]database.Character, error) {
	return f.characters, nil
}

func (f *sweepStore) UpdateCharacterStatus(id, status string) error {
	if f.updated == nil {
		f.updated = map[string]string{}
	}
	f.updated[id] = status
	return nil
}

func (f *sweepStore) GetLikerDeviceTokens(characterID string) ([]string, error) {
	return f.likerTokens, nil
}

func (f *sweepStore) ClearDeviceToken(token string) error {
	f.cleared = append(f.cleared, token)
	return nil
}

type sweepPusher struct {
	validTokens map[string]bool
	sent        []string
}

func (f *sweepPusher) ValidateToken(token string) bool {
	return f.validTokens[token]
}

func (f *sweepPusher) SendOnlineNotification(token, characterName, activity string) error {
	f.sent = append(f.sent, token)
	return nil
}

type sweepHub struct {
	events []signaling.PresenceEvent
}

func (f *sweepHub) Broadcast(ev signaling.PresenceEvent) {
	f.events = append(f.events, ev)
}

func newSweepScheduler(store *sweepStore, pusher *sweepPusher, hub *sweepHub) *Scheduler {
	return NewScheduler(&config.Config{PresenceInterval: 60}, store, pusher, hub)
}

func TestSweepTransitionNotifiesValidatedLikersOnly(t *testing.T) {
	// No stored schedule resolves to online, so a character last seen
	// offline transitions regardless of when the sweep runs.
	store := &sweepStore{
		characters: []database.Character{
			{ID: "char-1", Name: "Luna", LastStatus: "offline"},
		},
		likerTokens: []string{"tok-good", "tok-stale"},
	}
	pusher := &sweepPusher{validTokens: map[string]bool{"tok-good": true}}
	hub := &sweepHub{}

	newSweepScheduler(store, pusher, hub).sweep()

	assert.Equal(t, "online", store.updated["char-1"])

	require.Len(t, hub.events, 1)
	assert.Equal(t, "presence_update", hub.events[0].Type)
	assert.Equal(t, "char-1", hub.events[0].CharacterID)
	assert.Equal(t, "online", hub.events[0].Status)

	assert.Equal(t, []string{"tok-good"}, pusher.sent, "a token that fails validation must not be pushed to")
}

func TestSweepSkipsUnchangedStatus(t *testing.T) {
	store := &sweepStore{
		characters: []database.Character{
			{ID: "char-1", Name: "Luna", LastStatus: "online"},
		},
		likerTokens: []string{"tok-good"},
	}
	pusher := &sweepPusher{validTokens: map[string]bool{"tok-good": true}}
	hub := &sweepHub{}

	newSweepScheduler(store, pusher, hub).sweep()

	assert.Empty(t, store.updated)
	assert.Empty(t, hub.events)
	assert.Empty(t, pusher.sent)
}

func TestSweepNilPusherStillBroadcasts(t *testing.T) {
	store := &sweepStore{
		characters: []database.Character{
			{ID: "char-1", Name: "Luna", LastStatus: "offline"},
		},
	}
	hub := &sweepHub{}

	sch := NewScheduler(&config.Config{PresenceInterval: 60}, store, nil, hub)
	sch.sweep()

	assert.Equal(t, "online", store.updated["char-1"])
	require.Len(t, hub.events, 1)
}
