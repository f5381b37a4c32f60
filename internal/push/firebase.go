package push

import (
	"context"
	"fmt"
	"log"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type FirebaseService struct {
	client *messaging.Client
	ctx    context.Context
}

// NewFirebaseService initializes the FCM client from a credentials file.
func NewFirebaseService(credentialsPath string) (*FirebaseService, error) {
	ctx := context.Background()

	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Messaging client: %w", err)
	}

	log.Println("✅ Firebase service initialized successfully")

	return &FirebaseService{
		client: client,
		ctx:    ctx,
	}, nil
}

// SendOnlineNotification tells a user that a character they liked just came
// online.
func (s *FirebaseService) SendOnlineNotification(deviceToken, characterName, activity string) error {
	if deviceToken == "" {
		return fmt.Errorf("device token is empty")
	}

	body := fmt.Sprintf("%s is online now", characterName)
	if activity != "" {
		body = fmt.Sprintf("%s is online now: %s", characterName, activity)
	}

	message := &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: "💘 Someone you like is around",
			Body:  body,
		},
		Data: map[string]string{
			"type":           "character_online",
			"character_name": characterName,
			"timestamp":      fmt.Sprintf("%d", time.Now().Unix()),
		},
		Android: &messaging.AndroidConfig{
			Priority: "normal",
			Notification: &messaging.AndroidNotification{
				Sound:        "default",
				ChannelID:    "cupid_presence",
				DefaultSound: true,
			},
		},
	}

	response, err := s.client.Send(s.ctx, message)
	if err != nil {
		return fmt.Errorf("error sending online push: %w", err)
	}

	log.Printf("📲 Online notification sent for %s: %s", characterName, response)
	return nil
}

// SendMatchNotification announces a fresh match.
func (s *FirebaseService) SendMatchNotification(deviceToken, characterName string) error {
	if deviceToken == "" {
		return fmt.Errorf("device token is empty")
	}

	message := &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: "💘 It's a match!",
			Body:  fmt.Sprintf("You matched with %s", characterName),
		},
		Data: map[string]string{
			"type":           "new_match",
			"character_name": characterName,
			"timestamp":      fmt.Sprintf("%d", time.Now().Unix()),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:        "default",
				Priority:     messaging.PriorityHigh,
				ChannelID:    "cupid_matches",
				DefaultSound: true,
			},
		},
	}

	response, err := s.client.Send(s.ctx, message)
	if err != nil {
		return fmt.Errorf("error sending match push: %w", err)
	}

	log.Printf("💘 Match notification sent: %s", response)
	return nil
}

// ValidateToken checks a device token with a silent data message.
func (s *FirebaseService) ValidateToken(deviceToken string) bool {
	if deviceToken == "" {
		return false
	}

	message := &messaging.Message{
		Token: deviceToken,
		Data: map[string]string{
			"type": "token_validation",
		},
		Android: &messaging.AndroidConfig{
			Priority: "normal",
		},
	}

	if _, err := s.client.Send(s.ctx, message); err != nil {
		log.Printf("❌ ValidateToken failed: %v", err)
		return false
	}
	return true
}

// IsInvalidTokenError reports whether the FCM error means the token should
// be dropped from the database.
func IsInvalidTokenError(err error) bool {
	return messaging.IsRegistrationTokenNotRegistered(err) || messaging.IsSenderIDMismatch(err)
}
