package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/config"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/database"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/llm"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/schedule"
)

// ScheduleRefreshWorker regenerates weekly schedules once they age out, so
// characters do not repeat the same week forever. Regeneration is driven
// purely by age: a schedule that parsed to nothing is stored as-is and not
// re-requested, the character simply appears online until the next refresh.
type ScheduleRefreshWorker struct {
	cfg *config.Config
	db  *database.DB
	llm *llm.Client
}

func NewScheduleRefreshWorker(cfg *config.Config, db *database.DB, llmClient *llm.Client) *ScheduleRefreshWorker {
	return &ScheduleRefreshWorker{cfg: cfg, db: db, llm: llmClient}
}

func (w *ScheduleRefreshWorker) Name() string {
	return "Schedule Refresh"
}

func (w *ScheduleRefreshWorker) Interval() time.Duration {
	return 6 * time.Hour
}

func (w *ScheduleRefreshWorker) Run(ctx context.Context) error {
	maxAge := time.Duration(w.cfg.ScheduleMaxAgeDays) * 24 * time.Hour

	stale, err := w.db.GetStaleScheduleCharacters(maxAge, 20)
	if err != nil {
		return fmt.Errorf("failed to list stale schedules: %w", err)
	}

	if len(stale) == 0 {
		return nil
	}

	log.Printf("🗓️ Refreshing schedules for %d character(s)...", len(stale))

	refreshed := 0
	for _, c := range stale {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		text, err := w.llm.GenerateScheduleText(ctx, c.Name)
		if err != nil {
			log.Printf("❌ Schedule generation failed for %s: %v", c.Name, err)
			continue
		}

		ws := schedule.ParseWeek(text)
		if err := w.db.SaveCharacterSchedule(c.ID, ws); err != nil {
			log.Printf("❌ Failed to save schedule for %s: %v", c.Name, err)
			continue
		}

		if len(ws.Days) == 0 {
			log.Printf("⚠️  Regenerated schedule for %s parsed empty; character will appear online", c.Name)
		}
		refreshed++
	}

	log.Printf("✅ Schedule refresh done: %d/%d updated", refreshed, len(stale))
	return nil
}
