package app

import "time"

// Clock schedules the round timers. Tests swap in a manual clock.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is the part of *time.Timer sessions rely on.
type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Timing holds the round pacing.
type Timing struct {
	SpinDuration time.Duration
	RevealDelay  time.Duration
	TickInterval time.Duration
	FetchTimeout time.Duration
	Countdown    int
	FullTurns    int
}

// DefaultTiming is the pacing of the party game: a 5s spin, a 2.5s winner
// announcement and a 25 second answer countdown.
func DefaultTiming() Timing {
	return Timing{
		SpinDuration: 5 * time.Second,
		RevealDelay:  2500 * time.Millisecond,
		TickInterval: time.Second,
		FetchTimeout: 8 * time.Second,
		Countdown:    25,
		FullTurns:    14,
	}
}

func (t Timing) withDefaults() Timing {
	def := DefaultTiming()
	if t.SpinDuration <= 0 {
		t.SpinDuration = def.SpinDuration
	}
	if t.RevealDelay <= 0 {
		t.RevealDelay = def.RevealDelay
	}
	if t.TickInterval <= 0 {
		t.TickInterval = def.TickInterval
	}
	if t.FetchTimeout <= 0 {
		t.FetchTimeout = def.FetchTimeout
	}
	if t.Countdown <= 0 {
		t.Countdown = def.Countdown
	}
	if t.FullTurns <= 0 {
		t.FullTurns = def.FullTurns
	}
	return t
}
