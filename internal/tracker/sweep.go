package tracker

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Sweeper runs the ready sweep on a one-second schedule, standing in for the
// original's per-card countdown timers. A single shared tick keeps every
// countdown and the ready transition on the same clock.
type Sweeper struct {
	c *cron.Cron
}

// NewSweeper schedules AdvanceDue on tr every second.
func NewSweeper(tr *Tracker) (*Sweeper, error) {
	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc("* * * * * *", func() {
		if _, err := tr.AdvanceDue(context.Background()); err != nil {
			log.Printf("tracker: ready sweep: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("tracker: schedule ready sweep: %w", err)
	}
	return &Sweeper{c: c}, nil
}

// Start begins the schedule in its own goroutine.
func (s *Sweeper) Start() {
	s.c.Start()
}

// Stop halts the schedule and waits for any in-flight sweep to finish.
func (s *Sweeper) Stop() {
	<-s.c.Stop().Done()
}
