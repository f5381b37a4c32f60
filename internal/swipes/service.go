// Package swipes enforces the daily swipe budget and fires the match
// notification a right swipe produces.
package swipes

import (
	"fmt"
	"log"

	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/database"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/push"
)

var validDirections = map[string]bool{
	"left":  true,
	"right": true,
}

// Store is the slice of the database the swipe flow needs.
type Store interface {
	CountSwipesToday(userID string) (int, error)
	RecordSwipe(userID, characterID, direction string) error
	GetCharacter(id string) (*database.Character, error)
	GetUserDeviceToken(userID string) (string, error)
	ClearDeviceToken(token string) error
}

// MatchNotifier pushes the it's-a-match notification to a device.
type MatchNotifier interface {
	ValidateToken(token string) bool
	SendMatchNotification(token, characterName string) error
}

type Service struct {
	db         Store
	dailyLimit int
	notifier   MatchNotifier
}

// NewService builds the swipe service. notifier may be nil; matches are
// then recorded without a push.
func NewService(db Store, dailyLimit int, notifier MatchNotifier) *Service {
	return &Service{db: db, dailyLimit: dailyLimit, notifier: notifier}
}

// Remaining returns how many swipes the user still has today. The counter
// resets at the database's local midnight.
func (s *Service) Remaining(userID string) (int, error) {
	used, err := s.db.CountSwipesToday(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to check swipe budget: %w", err)
	}

	remaining := s.dailyLimit - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Record validates and stores one swipe against the budget. A right swipe
// is a match with the character and notifies the user's device.
func (s *Service) Record(userID, characterID, direction string) error {
	if !validDirections[direction] {
		return fmt.Errorf("invalid swipe direction: %q", direction)
	}

	remaining, err := s.Remaining(userID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		return ErrBudgetExhausted
	}

	if err := s.db.RecordSwipe(userID, characterID, direction); err != nil {
		return fmt.Errorf("failed to record swipe: %w", err)
	}

	log.Printf("👆 Swipe %s recorded for user %s (%d left today)", direction, userID, remaining-1)

	if direction == "right" {
		s.notifyMatch(userID, characterID)
	}
	return nil
}

// notifyMatch is best effort: a failed push never fails the swipe.
func (s *Service) notifyMatch(userID, characterID string) {
	if s.notifier == nil {
		return
	}

	token, err := s.db.GetUserDeviceToken(userID)
	if err != nil || token == "" {
		return
	}

	if !s.notifier.ValidateToken(token) {
		log.Printf("⚠️  Skipping match push for user %s: invalid device token", userID)
		return
	}

	c, err := s.db.GetCharacter(characterID)
	if err != nil {
		return
	}

	if err := s.notifier.SendMatchNotification(token, c.Name); err != nil {
		if push.IsInvalidTokenError(err) {
			if clearErr := s.db.ClearDeviceToken(token); clearErr != nil {
				log.Printf("❌ Failed to clear dead token: %v", clearErr)
			}
		}
		log.Printf("❌ Failed to send match push for user %s: %v", userID, err)
	}
}
