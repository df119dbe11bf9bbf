package button

// EventType identifies the semantic event produced by a single scan.
type EventType uint8

const (
	// None means the scan produced no event.
	None EventType = iota
	// Popup marks the instant of release, regardless of hold duration.
	// It fires before the click type is known, so consumers get a
	// low-latency "released" signal.
	Popup
	// SingleClick is one press/release finalized after the click window
	// closed with no further press.
	SingleClick
	// DoubleClick is two presses within one click window.
	DoubleClick
	// MoreClick is three or more presses within one click window.
	MoreClick
	// LongClick is a press held continuously past the long-press threshold.
	LongClick
)

func (e EventType) String() string {
	switch e {
	case None:
		return "NONE"
	case Popup:
		return "POPUP"
	case SingleClick:
		return "SINGLE_CLICK"
	case DoubleClick:
		return "DOUBLE_CLICK"
	case MoreClick:
		return "MORE_CLICK"
	case LongClick:
		return "LONG_CLICK"
	default:
		return "UNKNOWN"
	}
}

// Event is what the callback receives when a scan produces a non-None event.
type Event struct {
	Type EventType
	// Clicks is the click count accumulated in the current window at the
	// time the event fired. Meaningful for the click-type events; for
	// Popup and LongClick it reflects the count so far.
	Clicks uint32
}

// Callback receives events synchronously from inside Scan. It runs on the
// caller's execution context and must not block.
type Callback func(Event)
