package utils

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Reaper kills downloads that have been running for too long
type Reaper interface {
	ReapOlderThan(maxAge time.Duration) int
	Count() int
}

// StartReaper schedules the stale download sweep
func StartReaper(schedule string, maxAge time.Duration, r Reaper) (*cron.Cron, error) {
	c := cron.New()

	if _, err := c.AddFunc(schedule, func() {
		ReapDownloads(maxAge, r)
	}); err != nil {
		return nil, fmt.Errorf("invalid reaper schedule %q: %w", schedule, err)
	}

	c.Start()

	log.Printf("[Reaper] Scheduler started (%s, max age %v)\n", schedule, maxAge)
	return c, nil
}

// ReapDownloads kills downloads older than maxAge
func ReapDownloads(maxAge time.Duration, r Reaper) int {
	killed := r.ReapOlderThan(maxAge)
	if killed > 0 {
		log.Printf("[Reaper] Killed %d stale downloads, %d still active\n", killed, r.Count())
	}
	return killed
}
