package keys

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/barkeep/internal/wpm"
)

const comboSeparator = " + "

// Unit is one displayed key combination with its repeat count.
type Unit struct {
	Key   string
	Count int
}

// Options configures the accumulator.
type Options struct {
	// Timeout clears the buffer after this much inactivity; zero disables.
	Timeout time.Duration
	// MaxUnits caps the buffer; the oldest unit is evicted beyond it.
	MaxUnits int
	// MinUnits pads single-key output to this many display cells.
	MinUnits int
	Mode     Mode
}

// Accumulator maintains the rolling buffer of recent key combinations.
// One mutex guards all state shared between the event loop and the timer
// goroutine.
type Accumulator struct {
	opts    Options
	tracker *wpm.Tracker

	mu           sync.Mutex
	pressed      map[string]struct{}
	capsLock     bool
	units        []Unit
	lastActivity time.Time
}

// NewAccumulator builds an Accumulator. tracker may be nil to disable
// typing-speed tracking.
func NewAccumulator(opts Options, tracker *wpm.Tracker) *Accumulator {
	if opts.MaxUnits <= 0 {
		opts.MaxUnits = 3
	}
	if opts.Mode == "" {
		opts.Mode = ModeCompose
	}
	return &Accumulator{
		opts:    opts,
		tracker: tracker,
		pressed: make(map[string]struct{}),
	}
}

// Tracker returns the WPM tracker, or nil when tracking is disabled.
func (a *Accumulator) Tracker() *wpm.Tracker { return a.tracker }

// HandleEvent feeds one key event at the given time and reports whether the
// display changed. Blocked keys are ignored entirely.
func (a *Accumulator) HandleEvent(ev Event, now time.Time) bool {
	if Blocked(ev.KeyName) {
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	switch ev.StateName {
	case StatePressed:
		return a.handlePress(ev.KeyName, now)
	case StateReleased:
		return a.handleRelease(ev.KeyName, now)
	default:
		return false
	}
}

func (a *Accumulator) handlePress(keyName string, now time.Time) bool {
	if a.tracker != nil && !strings.HasPrefix(keyName, "BTN_") {
		a.tracker.Add(keyName, IsPrintable(keyName), now)
	}

	a.pressed[keyName] = struct{}{}
	if keyName == "KEY_CAPSLOCK" {
		a.capsLock = !a.capsLock
	}

	combo := a.combination()
	if combo == "" {
		return false
	}

	increment, replace := false, false
	if len(a.units) > 0 {
		recent := a.units[0].Key
		switch {
		case recent == combo:
			increment = true
		case !strings.Contains(recent, comboSeparator) && strings.Contains(combo, comboSeparator):
			// A single key grew into a compound holding it.
			for _, part := range strings.Split(combo, comboSeparator) {
				if part == recent {
					replace = true
					break
				}
			}
		case strings.Contains(recent, comboSeparator) && strings.Contains(combo, comboSeparator):
			// Two compounds sharing any part are the same chord evolving.
			recentParts := strings.Split(recent, comboSeparator)
			comboParts := make(map[string]struct{})
			for _, part := range strings.Split(combo, comboSeparator) {
				comboParts[part] = struct{}{}
			}
			for _, part := range recentParts {
				if _, ok := comboParts[part]; ok {
					replace = true
					break
				}
			}
		}
	}

	switch {
	case increment:
		a.units[0].Count++
	case replace:
		a.units[0] = Unit{Key: combo, Count: 1}
	default:
		a.units = append([]Unit{{Key: combo, Count: 1}}, a.units...)
		if len(a.units) > a.opts.MaxUnits {
			a.units = a.units[:a.opts.MaxUnits]
		}
	}

	a.lastActivity = now
	return true
}

func (a *Accumulator) handleRelease(keyName string, now time.Time) bool {
	delete(a.pressed, keyName)
	if len(a.pressed) == 0 {
		return false
	}

	combo := a.combination()
	if combo == "" || !strings.Contains(combo, comboSeparator) {
		return false
	}
	if len(a.units) > 0 {
		a.units[0] = Unit{Key: combo, Count: 1}
	} else {
		a.units = []Unit{{Key: combo, Count: 1}}
	}
	a.lastActivity = now
	return true
}

// ExpireIfIdle clears the buffer once inactivity exceeds the timeout and
// reports whether anything was cleared. A zero timeout never expires.
func (a *Accumulator) ExpireIfIdle(now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.opts.Timeout <= 0 || len(a.units) == 0 {
		return false
	}
	if now.Sub(a.lastActivity) < a.opts.Timeout {
		return false
	}
	a.units = nil
	return true
}

// Units returns a snapshot of the buffer, most recent first.
func (a *Accumulator) Units() []Unit {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Unit, len(a.units))
	copy(out, a.units)
	return out
}

// combination renders the currently pressed keys for the configured mode.
// Caller holds a.mu.
func (a *Accumulator) combination() string {
	if len(a.pressed) == 0 {
		return ""
	}

	shiftPressed := a.shiftPressed()
	var modifiers, regular []string
	for key := range a.pressed {
		if isModifier(key) {
			modifiers = append(modifiers, cleanKeyName(key, a.opts.Mode, shiftPressed, a.capsLock))
		} else {
			regular = append(regular, key)
		}
	}

	var combo string
	switch a.opts.Mode {
	case ModeRaw:
		all := make([]string, 0, len(a.pressed))
		for key := range a.pressed {
			all = append(all, cleanKeyName(key, ModeRaw, shiftPressed, a.capsLock))
		}
		sort.Strings(all)
		combo = strings.Join(all, comboSeparator)

	case ModeCompact:
		switch {
		case len(regular) == 1:
			combo = cleanKeyName(regular[0], ModeCompact, shiftPressed, a.capsLock)
		case len(regular) == 0:
			combo = strings.Join(sortedUnique(modifiers), comboSeparator)
		default:
			combo = strings.Join(append(sortedUnique(modifiers), a.cleanSorted(regular, shiftPressed)...), comboSeparator)
		}

	default: // compose
		switch {
		case len(regular) == 0:
			combo = strings.Join(sortedUnique(modifiers), comboSeparator)
		case len(regular) == 1:
			key := cleanKeyName(regular[0], ModeCompose, shiftPressed, a.capsLock)
			if len(modifiers) > 0 {
				combo = strings.Join(append(sortedUnique(modifiers), key), comboSeparator)
			} else {
				combo = key
			}
		default:
			combo = strings.Join(append(sortedUnique(modifiers), a.cleanSorted(regular, shiftPressed)...), comboSeparator)
		}
	}

	if a.opts.MinUnits > 1 && !strings.Contains(combo, comboSeparator) {
		if pad := a.opts.MinUnits - runewidth.StringWidth(combo); pad > 0 {
			combo += strings.Repeat(" ", pad)
		}
	}
	return combo
}

func (a *Accumulator) shiftPressed() bool {
	_, left := a.pressed["KEY_LEFTSHIFT"]
	_, right := a.pressed["KEY_RIGHTSHIFT"]
	return left || right
}

func (a *Accumulator) cleanSorted(keyNames []string, shiftPressed bool) []string {
	out := make([]string, 0, len(keyNames))
	for _, key := range keyNames {
		out = append(out, cleanKeyName(key, a.opts.Mode, shiftPressed, a.capsLock))
	}
	sort.Strings(out)
	return out
}

func sortedUnique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
