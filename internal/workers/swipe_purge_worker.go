package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/database"
)

// SwipePurgeWorker trims old swipe rows. Only today's swipes count toward
// the daily budget, so anything past the retention window is dead weight.
type SwipePurgeWorker struct {
	db *database.DB
}

func NewSwipePurgeWorker(db *database.DB) *SwipePurgeWorker {
	return &SwipePurgeWorker{db: db}
}

func (w *SwipePurgeWorker) Name() string {
	return "Swipe Purge"
}

func (w *SwipePurgeWorker) Interval() time.Duration {
	return 12 * time.Hour
}

func (w *SwipePurgeWorker) Run(ctx context.Context) error {
	purged, err := w.db.PurgeOldSwipes(30 * 24 * time.Hour)
	if err != nil {
		return fmt.Errorf("failed to purge swipes: %w", err)
	}

	if purged > 0 {
		log.Printf("🧹 Purged %d old swipe(s)", purged)
	}
	return nil
}
