// Package notify pushes brew-ready notifications to chat platforms. A
// headless tracker has no card to flip to "Ready!", so the ready transition
// pings the brewer instead.
package notify

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Event describes a brew that just finished conditioning.
type Event struct {
	TrackingID  string
	Name        string
	Style       string
	KegNickname string
	ReadyAt     time.Time
}

// Notifier is the interface platform-specific implementations satisfy.
type Notifier interface {
	// BrewReady delivers a ready notification for one brew.
	BrewReady(ctx context.Context, ev Event) error
}

// Message renders the notification text for an event.
func Message(ev Event) string {
	name := ev.Name
	if ev.KegNickname != "" {
		name = fmt.Sprintf("%s (%q)", ev.Name, ev.KegNickname)
	}
	if ev.Style != "" {
		return fmt.Sprintf("🍺 %s is ready to pour — %s, conditioned and done.", name, ev.Style)
	}
	return fmt.Sprintf("🍺 %s is ready to pour.", name)
}

// Multi fans an event out to several notifiers. Delivery is best-effort:
// failures are logged and never propagate, so a down webhook cannot stall
// the ready sweep.
type Multi []Notifier

// BrewReady sends the event to every notifier.
func (m Multi) BrewReady(ctx context.Context, ev Event) error {
	for _, n := range m {
		if err := n.BrewReady(ctx, ev); err != nil {
			log.Printf("notify: %v", err)
		}
	}
	return nil
}
