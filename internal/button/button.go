// Package button turns a noisy digital input line into a clean stream of
// semantic click events: press-release (popup), single click, double click,
// multi click and long click.
//
// The package is pure: it has NO external dependencies, performs no I/O
// beyond one call to the configured level reader per scan, allocates
// nothing, and carries no clock of its own. Time is measured in ticks — one
// tick is one call to Scan — so the caller owns timing correctness and must
// poll at a fixed, known cadence for the configured thresholds to correspond
// to real durations.
package button

// Level is a raw digital line level. Only the low bit is meaningful; the
// debounce filter operates bitwise on it.
type Level uint8

const (
	Low  Level = 0
	High Level = 1
)

// ReadFunc returns the current raw sample of the physical line. It is an
// external collaborator supplied by the caller.
type ReadFunc func() Level

// Config describes one physical button. It is immutable after construction.
type Config struct {
	// ReadLevel samples the raw line once per scan.
	ReadLevel ReadFunc

	// ActiveLevel is the raw level that means "pressed".
	ActiveLevel Level

	// UpMaxCnt is the number of consecutive released ticks that closes a
	// click window and finalizes the click count.
	UpMaxCnt uint32

	// LongMinCnt is the number of consecutive pressed ticks that turns a
	// hold into a long click.
	LongMinCnt uint32
}

// state is the classifier state. The original firmware swapped function
// pointers on every transition; an enum dispatched through one switch keeps
// invalid states unrepresentable.
type state uint8

const (
	stateIdle state = iota
	stateUp
	stateDown
	stateDownShort
	stateUpSuspense
	stateDownLong
)

// edge is the per-tick logical input to the classifier, derived by comparing
// the debounced level against the configured active level.
type edge uint8

const (
	released edge = iota
	pressed
)

// Button is one debounced physical button. Each instance is an independently
// owned value with no shared state, so multiple buttons coexist without
// aliasing concerns. A Button is not safe for concurrent scans; the caller
// must serialize ticks (single goroutine, single interrupt priority, or an
// equivalent critical section).
type Button struct {
	cfg     Config
	cb      Callback
	enabled bool

	// debounce state
	previous Level
	asserted Level

	// classification state
	state   state
	counter uint32
	clicks  uint32
}

// New constructs a Button from cfg and an optional event callback.
//
// A nil cfg yields a disabled instance: Scan is a permanent no-op that
// returns None and never invokes cb. Threshold values are deliberately not
// validated — a zero LongMinCnt classifies every press as a long click,
// which is degenerate but safe.
func New(cfg *Config, cb Callback) Button {
	if cfg == nil {
		return Button{}
	}
	inactive := (cfg.ActiveLevel ^ High) & 1
	return Button{
		cfg:      *cfg,
		cb:       cb,
		enabled:  true,
		previous: inactive,
		asserted: inactive,
		state:    stateIdle,
	}
}

// Enabled reports whether the instance was constructed with a configuration.
func (b *Button) Enabled() bool {
	return b.enabled
}

// Pressed reports whether the debounced level currently equals the active
// level. It reflects the state as of the last Scan and reads nothing.
func (b *Button) Pressed() bool {
	return b.enabled && b.asserted == b.cfg.ActiveLevel
}

// Scan advances the button by one tick: it samples the line, debounces the
// sample, feeds the resulting edge into the classifier and returns the event
// produced, if any. At most one event is produced per tick. If the event is
// non-None and a callback is registered, the callback runs synchronously
// inside Scan with the event type and the current click count.
func (b *Button) Scan() EventType {
	if !b.enabled || b.cfg.ReadLevel == nil {
		return None
	}

	var ev EventType
	if b.debounce(b.cfg.ReadLevel()) == b.cfg.ActiveLevel {
		ev = b.step(pressed)
	} else {
		ev = b.step(released)
	}

	if ev != None && b.cb != nil {
		b.cb(Event{Type: ev, Clicks: b.clicks})
	}
	return ev
}

// debounce folds one raw sample into the stable level:
//
//	a' = (a OR (p AND r)) AND (p OR r)
//	p' = r
//
// The output asserts only after two consecutive asserted samples and drops
// on the first deasserted one, so single-tick glitches never reach the
// classifier. It runs every tick regardless of classifier state.
func (b *Button) debounce(raw Level) Level {
	raw &= 1
	b.asserted |= b.previous & raw
	b.asserted &= b.previous | raw
	b.previous = raw
	return b.asserted
}

// step runs one classifier transition. Counters are tick counts with no
// overflow guard; thresholds must be sized below the uint32 range.
func (b *Button) step(in edge) EventType {
	switch b.state {
	case stateIdle:
		if in == pressed {
			b.counter = 0
			b.clicks = 1
			b.state = stateDown
		} else {
			b.state = stateUp
		}

	case stateUp:
		if in == pressed {
			b.counter = 0
			b.clicks = 1
			b.state = stateDown
		}

	case stateDown:
		if in == released {
			b.counter = 0
			b.state = stateUpSuspense
			return Popup
		}
		b.counter++
		if b.counter >= b.cfg.LongMinCnt {
			b.counter = 0
			b.state = stateDownLong
			return LongClick
		}

	case stateDownShort:
		if in == released {
			b.counter = 0
			b.state = stateUpSuspense
			return Popup
		}
		b.counter++
		if b.counter >= b.cfg.UpMaxCnt {
			// Held past the window while re-pressed: the click count
			// finalizes now and the hold continues as a long press.
			b.counter = 0
			b.state = stateDownLong
			return classify(b.clicks)
		}

	case stateUpSuspense:
		if in == pressed {
			b.counter = 0
			b.clicks++
			b.state = stateDownShort
		} else {
			b.counter++
			if b.counter >= b.cfg.UpMaxCnt {
				b.counter = 0
				b.state = stateUp
				return classify(b.clicks)
			}
		}

	case stateDownLong:
		if in == released {
			b.state = stateUp
			return Popup
		}
	}

	return None
}

// classify maps an accumulated click count to its event type.
func classify(clicks uint32) EventType {
	switch clicks {
	case 0:
		return None
	case 1:
		return SingleClick
	case 2:
		return DoubleClick
	default:
		return MoreClick
	}
}
