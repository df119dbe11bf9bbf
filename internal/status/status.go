// Package status provides a thread-safe status tracker for the buttond
// daemon. It is read by the HTTP status server and folded into MQTT system
// event payloads.
package status

import (
	"sync"
	"time"

	"github.com/swilson/buttond/internal/button"
)

// Counts tracks the number of each event kind since startup.
type Counts struct {
	Popup  int
	Single int
	Double int
	More   int
	Long   int
}

// LastEvent describes the most recent non-None event.
type LastEvent struct {
	Time   time.Time
	Type   string
	Clicks uint32
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	WindowTicks uint32
	LongTicks   uint32
	HeartbeatMs int64
	Pin         int
	ActiveLow   bool
	Broker      string
	HTTPAddr    string
	ConfPath    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Pressed       bool // current stable level equals the active level
	Counts        Counts
	Last          *LastEvent
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// RecordEvent counts one classified event and remembers it as the latest.
// Called from the poll loop whenever a scan fires.
func (t *Tracker) RecordEvent(at time.Time, typ button.EventType, clicks uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch typ {
	case button.Popup:
		t.snap.Counts.Popup++
	case button.SingleClick:
		t.snap.Counts.Single++
	case button.DoubleClick:
		t.snap.Counts.Double++
	case button.MoreClick:
		t.snap.Counts.More++
	case button.LongClick:
		t.snap.Counts.Long++
	default:
		return
	}
	t.snap.Last = &LastEvent{Time: at, Type: typ.String(), Clicks: clicks}
}

// SetPressed sets the current debounced pressed state.
func (t *Tracker) SetPressed(pressed bool) {
	t.mu.Lock()
	t.snap.Pressed = pressed
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetConfig replaces the displayed config, e.g. after a live reload.
func (t *Tracker) SetConfig(cfg Config) {
	t.mu.Lock()
	t.snap.Config = cfg
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}

// CountsSnapshot returns the current event counts.
func (t *Tracker) CountsSnapshot() Counts {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap.Counts
}
