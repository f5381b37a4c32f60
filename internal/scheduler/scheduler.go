package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/config"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/database"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/push"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/schedule"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/signaling"
)

// CharacterStore is the slice of the database the sweep needs.
type CharacterStore interface {
	GetActiveCharacters() ([]database.Character, error)
	UpdateCharacterStatus(id, status string) error
	GetLikerDeviceTokens(characterID string) ([]string, error)
	ClearDeviceToken(token string) error
}

// Pusher delivers presence notifications to a device.
type Pusher interface {
	ValidateToken(token string) bool
	SendOnlineNotification(token, characterName, activity string) error
}

// Broadcaster fans presence events out to connected feed clients.
type Broadcaster interface {
	Broadcast(ev signaling.PresenceEvent)
}

// Scheduler sweeps every scheduled character at a fixed interval, resolves
// the live presence snapshot and reacts to status transitions: the last
// status is persisted, feed clients get a websocket event, and users who
// liked a character are pushed when it comes online.
type Scheduler struct {
	cfg         *config.Config
	db          CharacterStore
	pushService Pusher
	hub         Broadcaster
	stopChan    chan struct{}
}

func NewScheduler(cfg *config.Config, db CharacterStore, pushService Pusher, hub Broadcaster) *Scheduler {
	return &Scheduler{
		cfg:         cfg,
		db:          db,
		pushService: pushService,
		hub:         hub,
		stopChan:    make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	interval := time.Duration(s.cfg.PresenceInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("⏰ Presence scheduler started (sweep every %v)", interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Scheduler) Stop() {
	close(s.stopChan)
}

func (s *Scheduler) sweep() {
	characters, err := s.db.GetActiveCharacters()
	if err != nil {
		log.Printf("❌ Presence sweep failed to load characters: %v", err)
		return
	}

	now := time.Now()
	transitions := 0

	for _, c := range characters {
		snap, err := resolveCharacter(c.ScheduleData, now)
		if err != nil {
			// Unreadable stored schedule resolves like a missing one.
			log.Printf("⚠️  Stored schedule unreadable for %s: %v", c.Name, err)
			snap = schedule.StatusSnapshot{Status: schedule.StatusOnline}
		}

		newStatus := string(snap.Status)
		if newStatus == c.LastStatus {
			continue
		}

		if err := s.db.UpdateCharacterStatus(c.ID, newStatus); err != nil {
			log.Printf("❌ Failed to record status for %s: %v", c.Name, err)
			continue
		}
		transitions++

		s.broadcast(c, snap)

		if snap.Status == schedule.StatusOnline && c.LastStatus != "" {
			s.notifyLikers(c, snap)
		}
	}

	if transitions > 0 {
		log.Printf("✅ Presence sweep done: %d transition(s) across %d character(s)", transitions, len(characters))
	}
}

// resolveCharacter deserializes the opaque schedule JSON and resolves it
// for the given instant.
func resolveCharacter(data []byte, now time.Time) (schedule.StatusSnapshot, error) {
	if len(data) == 0 {
		return schedule.StatusSnapshot{Status: schedule.StatusOnline}, nil
	}

	var ws schedule.WeeklySchedule
	if err := json.Unmarshal(data, &ws); err != nil {
		return schedule.StatusSnapshot{}, fmt.Errorf("failed to decode schedule: %w", err)
	}

	return schedule.ResolveAt(&ws, now), nil
}

func (s *Scheduler) broadcast(c database.Character, snap schedule.StatusSnapshot) {
	ev := signaling.PresenceEvent{
		Type:        "presence_update",
		CharacterID: c.ID,
		Name:        c.Name,
		Status:      string(snap.Status),
		Activity:    snap.Activity,
		Timestamp:   time.Now().Unix(),
	}
	if snap.NextChange != nil {
		next := snap.NextChange.String()
		ev.NextChange = &next
	}

	s.hub.Broadcast(ev)
}

// notifyLikers pushes to every user who liked the character. Tokens are
// validated before sending; a token FCM reports as dead is cleared so
// later sweeps stop retrying it.
func (s *Scheduler) notifyLikers(c database.Character, snap schedule.StatusSnapshot) {
	if s.pushService == nil {
		return
	}

	tokens, err := s.db.GetLikerDeviceTokens(c.ID)
	if err != nil {
		log.Printf("❌ Failed to load liker tokens for %s: %v", c.Name, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	activity := ""
	if snap.Activity != nil {
		activity = *snap.Activity
	}

	sent := 0
	for _, token := range tokens {
		if !s.pushService.ValidateToken(token) {
			log.Printf("⚠️  Skipping invalid device token for %s", c.Name)
			continue
		}

		if err := s.pushService.SendOnlineNotification(token, c.Name, activity); err != nil {
			if push.IsInvalidTokenError(err) {
				if clearErr := s.db.ClearDeviceToken(token); clearErr != nil {
					log.Printf("❌ Failed to clear dead token: %v", clearErr)
				}
			}
			log.Printf("❌ Failed to notify token: %v", err)
			continue
		}
		sent++
	}

	log.Printf("📲 %s came online, notified %d/%d liker(s)", c.Name, sent, len(tokens))
}
