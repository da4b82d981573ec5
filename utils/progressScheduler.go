package utils

import (
	"log"

	"github.com/Rwigenzadavy/techlearnhub/services/progress"
	"github.com/robfig/cron/v3"
)

// InitializeProgressScheduler starts the reconciliation job that replays
// enrollment writes which failed at lesson-completion time.
func InitializeProgressScheduler() {
	log.Println("[PROGRESS-SYNC] Initializing progress reconciliation scheduler...")

	c := cron.New()

	c.AddFunc("@every 1m", func() {
		progress.SyncPending()
	})

	c.Start()
	log.Println("[PROGRESS-SYNC] Scheduler started - replays pending writes every minute")
}
