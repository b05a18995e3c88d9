// Package wpm tracks typing speed across inactivity-delimited sessions.
package wpm

import (
	"sync"
	"time"
)

// Standard typing measurement: five characters make one word.
const charsPerWord = 5.0

// minSessionAge is how old an open session must be before its WPM is
// meaningful.
const minSessionAge = time.Second

// Session is one closed typing burst.
type Session struct {
	StartedAt time.Time
	Duration  time.Duration
	Chars     int
}

// WPM returns the session's words per minute.
func (s Session) WPM() float64 {
	minutes := s.Duration.Minutes()
	if minutes <= 0 {
		return 0
	}
	return float64(s.Chars) / charsPerWord / minutes
}

// Stats is a snapshot of tracker state for display.
type Stats struct {
	CurrentWPM     float64
	AverageWPM     float64
	CharsPerSecond float64
	SessionCount   int
	CurrentChars   int
}

// Tracker accumulates printable keystrokes into sessions. A session closes
// when the gap since the last keystroke exceeds the die time; averages use
// closed sessions only.
type Tracker struct {
	dieTime time.Duration
	onClose func(Session)

	mu       sync.Mutex
	sessions []Session
	start    time.Time
	chars    int
	lastAt   time.Time
	lastKey  string
}

// NewTracker builds a Tracker with the given die time. onClose, if non-nil,
// is invoked with each session as it closes (outside locks held by callers,
// inside the tracker's own).
func NewTracker(dieTime time.Duration, onClose func(Session)) *Tracker {
	return &Tracker{dieTime: dieTime, onClose: onClose}
}

// Add records one key press at the given time. Repeated presses of the same
// key refresh the inactivity clock but add no characters (spam prevention).
func (t *Tracker) Add(key string, printable bool, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.lastKey == key && !t.lastAt.IsZero() {
		t.lastAt = now
		return
	}

	if t.lastAt.IsZero() || now.Sub(t.lastAt) > t.dieTime {
		t.closeLocked()
		t.start = now
		t.chars = 0
	}

	if printable {
		t.chars++
	}
	t.lastAt = now
	t.lastKey = key
}

// CloseIdle closes the open session once the inactivity gap exceeds the die
// time. It reports whether a session was closed; the 100ms timer calls this.
func (t *Tracker) CloseIdle(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastAt.IsZero() || now.Sub(t.lastAt) <= t.dieTime {
		return false
	}
	closed := t.closeLocked()
	t.start = time.Time{}
	t.lastAt = time.Time{}
	t.lastKey = ""
	t.chars = 0
	return closed
}

// Flush closes whatever session is open regardless of gap. Used on shutdown.
func (t *Tracker) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeLocked()
	t.start = time.Time{}
	t.lastAt = time.Time{}
	t.lastKey = ""
	t.chars = 0
}

// closeLocked appends the open session to the closed list if it holds any
// characters and positive duration. Caller holds t.mu.
func (t *Tracker) closeLocked() bool {
	if t.start.IsZero() || t.chars == 0 || t.lastAt.IsZero() {
		return false
	}
	duration := t.lastAt.Sub(t.start)
	if duration <= 0 {
		return false
	}
	s := Session{StartedAt: t.start, Duration: duration, Chars: t.chars}
	t.sessions = append(t.sessions, s)
	if t.onClose != nil {
		t.onClose(s)
	}
	return true
}

// CurrentWPM returns the words per minute of the open session, or 0 when no
// session is open or it is younger than a second.
func (t *Tracker) CurrentWPM(now time.Time) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentWPMLocked(now)
}

func (t *Tracker) currentWPMLocked(now time.Time) float64 {
	if t.start.IsZero() || t.chars == 0 {
		return 0
	}
	elapsed := now.Sub(t.start)
	if elapsed < minSessionAge {
		return 0
	}
	return float64(t.chars) / charsPerWord / elapsed.Minutes()
}

// AverageWPM aggregates closed sessions: total words over total minutes.
func (t *Tracker) AverageWPM() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.averageWPMLocked()
}

func (t *Tracker) averageWPMLocked() float64 {
	var words, minutes float64
	for _, s := range t.sessions {
		words += float64(s.Chars) / charsPerWord
		minutes += s.Duration.Minutes()
	}
	if minutes <= 0 {
		return 0
	}
	return words / minutes
}

// Stats snapshots current and aggregate typing speed.
func (t *Tracker) Stats(now time.Time) Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	cps := 0.0
	if !t.start.IsZero() && t.chars > 0 {
		if elapsed := now.Sub(t.start); elapsed >= minSessionAge {
			cps = float64(t.chars) / elapsed.Seconds()
		}
	}
	return Stats{
		CurrentWPM:     t.currentWPMLocked(now),
		AverageWPM:     t.averageWPMLocked(),
		CharsPerSecond: cps,
		SessionCount:   len(t.sessions),
		CurrentChars:   t.chars,
	}
}
