package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/database"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/email"
)

// MatchDigestWorker emails opted-in users a daily list of newly added
// characters.
type MatchDigestWorker struct {
	db           *database.DB
	emailService *email.EmailService
}

func NewMatchDigestWorker(db *database.DB, emailService *email.EmailService) *MatchDigestWorker {
	return &MatchDigestWorker{db: db, emailService: emailService}
}

func (w *MatchDigestWorker) Name() string {
	return "Match Digest"
}

func (w *MatchDigestWorker) Interval() time.Duration {
	return 24 * time.Hour
}

func (w *MatchDigestWorker) Run(ctx context.Context) error {
	if w.emailService == nil {
		return nil
	}

	recent, err := w.db.GetCharactersCreatedSince(time.Now().Add(-24 * time.Hour))
	if err != nil {
		return fmt.Errorf("failed to load recent characters: %w", err)
	}
	if len(recent) == 0 {
		return nil
	}

	names := make([]string, 0, len(recent))
	for _, c := range recent {
		names = append(names, c.Name)
	}

	recipients, err := w.db.GetDigestRecipients()
	if err != nil {
		return fmt.Errorf("failed to load digest recipients: %w", err)
	}

	sent := 0
	for _, u := range recipients {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := w.emailService.SendMatchDigest(u.Email, names); err != nil {
			continue
		}
		sent++
	}

	log.Printf("📧 Match digest: %d new character(s), %d email(s) sent", len(names), sent)
	return nil
}
