package keys

import (
	"testing"
	"time"
)

func press(key string) Event   { return Event{KeyName: key, StateName: StatePressed} }
func release(key string) Event { return Event{KeyName: key, StateName: StateReleased} }

func newTestAccumulator(opts Options) *Accumulator {
	return NewAccumulator(opts, nil)
}

func tap(a *Accumulator, key string, now time.Time) {
	a.HandleEvent(press(key), now)
	a.HandleEvent(release(key), now)
}

func TestRepeatIncrementsCount(t *testing.T) {
	a := newTestAccumulator(Options{})
	now := time.Now()
	tap(a, "KEY_A", now)
	tap(a, "KEY_A", now)
	tap(a, "KEY_A", now)

	units := a.Units()
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %v", units)
	}
	if units[0].Key != "a" || units[0].Count != 3 {
		t.Fatalf("unexpected head unit: %+v", units[0])
	}
}

func TestSingleKeyGrowsIntoCompound(t *testing.T) {
	a := newTestAccumulator(Options{})
	now := time.Now()
	a.HandleEvent(press("KEY_LEFTCTRL"), now)
	a.HandleEvent(press("KEY_C"), now)

	units := a.Units()
	if len(units) != 1 {
		t.Fatalf("compound must replace the single key, got %v", units)
	}
	if units[0].Key != "⌃ + c" {
		t.Fatalf("unexpected compound: %q", units[0].Key)
	}
}

func TestCompoundsSharingPartsReplace(t *testing.T) {
	a := newTestAccumulator(Options{})
	now := time.Now()
	a.HandleEvent(press("KEY_LEFTCTRL"), now)
	a.HandleEvent(press("KEY_C"), now)
	a.HandleEvent(release("KEY_C"), now)
	a.HandleEvent(press("KEY_V"), now)

	units := a.Units()
	if len(units) != 1 {
		t.Fatalf("evolving chord must replace the head, got %v", units)
	}
	if units[0].Key != "⌃ + v" {
		t.Fatalf("unexpected compound: %q", units[0].Key)
	}
}

func TestDistinctKeysPushAndEvict(t *testing.T) {
	a := newTestAccumulator(Options{MaxUnits: 2})
	now := time.Now()
	tap(a, "KEY_A", now)
	tap(a, "KEY_B", now)
	tap(a, "KEY_C", now)

	units := a.Units()
	if len(units) != 2 {
		t.Fatalf("expected eviction to cap at 2 units, got %v", units)
	}
	if units[0].Key != "c" || units[1].Key != "b" {
		t.Fatalf("unexpected order: %v", units)
	}
}

func TestReleaseLeavingCompoundReplacesHead(t *testing.T) {
	a := newTestAccumulator(Options{})
	now := time.Now()
	a.HandleEvent(press("KEY_LEFTCTRL"), now)
	a.HandleEvent(press("KEY_LEFTSHIFT"), now)
	a.HandleEvent(press("KEY_T"), now)
	a.HandleEvent(release("KEY_LEFTSHIFT"), now)

	units := a.Units()
	if len(units) != 1 {
		t.Fatalf("expected single head unit, got %v", units)
	}
	// Shift is no longer held, so the recomputed combination is lowercase.
	if units[0].Key != "⌃ + t" {
		t.Fatalf("unexpected head after release: %q", units[0].Key)
	}
}

func TestReleaseLastKeyKeepsDisplay(t *testing.T) {
	a := newTestAccumulator(Options{})
	now := time.Now()
	a.HandleEvent(press("KEY_A"), now)
	if a.HandleEvent(release("KEY_A"), now) {
		t.Fatalf("releasing the last key must not change the display")
	}
	if units := a.Units(); len(units) != 1 {
		t.Fatalf("expected the key to stay displayed, got %v", units)
	}
}

func TestExpireIfIdle(t *testing.T) {
	a := newTestAccumulator(Options{Timeout: time.Second})
	now := time.Now()
	tap(a, "KEY_A", now)

	if a.ExpireIfIdle(now.Add(500 * time.Millisecond)) {
		t.Fatalf("must not expire before timeout")
	}
	if !a.ExpireIfIdle(now.Add(1100 * time.Millisecond)) {
		t.Fatalf("expected expiry after timeout")
	}
	if units := a.Units(); len(units) != 0 {
		t.Fatalf("expected cleared buffer, got %v", units)
	}
	if a.ExpireIfIdle(now.Add(2 * time.Second)) {
		t.Fatalf("expiry of an empty buffer must report no change")
	}
}

func TestZeroTimeoutNeverExpires(t *testing.T) {
	a := newTestAccumulator(Options{})
	now := time.Now()
	tap(a, "KEY_A", now)
	if a.ExpireIfIdle(now.Add(time.Hour)) {
		t.Fatalf("zero timeout must never expire")
	}
}

func TestMinUnitsPadsSingleKeys(t *testing.T) {
	a := newTestAccumulator(Options{MinUnits: 4})
	now := time.Now()
	tap(a, "KEY_A", now)

	units := a.Units()
	if units[0].Key != "a   " {
		t.Fatalf("expected padded key, got %q", units[0].Key)
	}
}

func TestCapsLockFlipsLetterCase(t *testing.T) {
	a := newTestAccumulator(Options{})
	now := time.Now()
	tap(a, "KEY_CAPSLOCK", now)
	tap(a, "KEY_A", now)

	units := a.Units()
	if units[0].Key != "A" {
		t.Fatalf("expected uppercase after caps lock, got %q", units[0].Key)
	}
}

func TestBlockedKeyIgnored(t *testing.T) {
	a := newTestAccumulator(Options{})
	if a.HandleEvent(press("KEY_CAMERA"), time.Now()) {
		t.Fatalf("blocked key must be ignored")
	}
}
