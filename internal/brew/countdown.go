package brew

import "time"

// Countdown is the remaining time to an expiry, decomposed into display
// units. Each unit is floored from the remaining millisecond difference,
// never rounded, matching the card timers.
type Countdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Until decomposes the time remaining from now to expiry. A past or reached
// expiry yields the zero Countdown.
func Until(now, expiry time.Time) Countdown {
	ms := expiry.Sub(now).Milliseconds()
	if ms <= 0 {
		return Countdown{}
	}
	return Countdown{
		Days:    int(ms / (1000 * 60 * 60 * 24)),
		Hours:   int(ms / (1000 * 60 * 60) % 24),
		Minutes: int(ms / 1000 / 60 % 60),
		Seconds: int(ms / 1000 % 60),
	}
}

// Expired reports whether the countdown has reached zero in every unit.
func (c Countdown) Expired() bool {
	return c == Countdown{}
}
