package button

import "testing"

// scripted is a button whose ReadLevel returns whatever the script staged
// for the current tick.
type scripted struct {
	*Button
	level *Level
}

// scriptedButton builds a button fed from a staged level variable.
func scriptedButton(t *testing.T, active Level, upMax, longMin uint32, cb Callback) scripted {
	t.Helper()
	lv := new(Level)
	b := New(&Config{
		ReadLevel:   func() Level { return *lv },
		ActiveLevel: active,
		UpMaxCnt:    upMax,
		LongMinCnt:  longMin,
	}, cb)
	return scripted{Button: &b, level: lv}
}

// scanScript drives one Scan per character of raw ('0' or '1') and returns
// the event type produced at each tick.
func scanScript(t *testing.T, s scripted, raw string) []EventType {
	t.Helper()
	out := make([]EventType, len(raw))
	for i, c := range raw {
		if c != '0' && c != '1' {
			t.Fatalf("bad script char %q at %d", c, i)
		}
		*s.level = Level(c - '0')
		out[i] = s.Scan()
	}
	return out
}

// onlyEvents filters out None ticks, keeping (index, type) pairs.
type firing struct {
	tick int
	ev   EventType
}

func firings(events []EventType) []firing {
	var f []firing
	for i, ev := range events {
		if ev != None {
			f = append(f, firing{i, ev})
		}
	}
	return f
}

func TestDebounceFormula(t *testing.T) {
	// a' = (a OR (p AND r)) AND (p OR r), exhaustively over all inputs.
	tests := []struct {
		asserted, previous, raw Level
		want                    Level
	}{
		{0, 0, 0, 0},
		{0, 0, 1, 0},
		{0, 1, 0, 0},
		{0, 1, 1, 1},
		{1, 0, 0, 0},
		{1, 0, 1, 1},
		{1, 1, 0, 1},
		{1, 1, 1, 1},
	}

	for _, tt := range tests {
		b := scriptedButton(t, High, 3, 5, nil)
		b.asserted = tt.asserted
		b.previous = tt.previous
		got := b.debounce(tt.raw)
		if got != tt.want {
			t.Errorf("debounce(a=%d p=%d r=%d): got %d, want %d",
				tt.asserted, tt.previous, tt.raw, got, tt.want)
		}
		if b.previous != tt.raw {
			t.Errorf("debounce(a=%d p=%d r=%d): previous not updated to raw",
				tt.asserted, tt.previous, tt.raw)
		}
	}
}

func TestDebounceTwoSampleConfirm(t *testing.T) {
	b := scriptedButton(t, High, 3, 5, nil)

	// From deasserted, a lone 1 never asserts; two consecutive 1s do.
	seq := []Level{1, 0, 1, 0, 0, 1, 1}
	want := []Level{0, 0, 0, 0, 0, 0, 1}
	for i, r := range seq {
		if got := b.debounce(r); got != want[i] {
			t.Errorf("sample %d (raw=%d): got %d, want %d", i, r, got, want[i])
		}
	}

	// Once asserted, a lone 0 is a glitch; two consecutive 0s deassert.
	seq = []Level{0, 1, 1, 0, 0}
	want = []Level{1, 1, 1, 1, 0}
	for i, r := range seq {
		if got := b.debounce(r); got != want[i] {
			t.Errorf("post-assert sample %d (raw=%d): got %d, want %d", i, r, got, want[i])
		}
	}
}

func TestSingleClick(t *testing.T) {
	var got []Event
	b := scriptedButton(t, High, 3, 5, func(e Event) { got = append(got, e) })

	// Press for two stable ticks, release, hold released past the window.
	events := scanScript(t, b, "11100000")

	want := []firing{
		{4, Popup},
		{7, SingleClick},
	}
	checkFirings(t, events, want)

	if len(got) != 2 {
		t.Fatalf("callback count: got %d, want 2", len(got))
	}
	if got[0].Type != Popup || got[0].Clicks != 1 {
		t.Errorf("callback 0: got %s/%d, want POPUP/1", got[0].Type, got[0].Clicks)
	}
	if got[1].Type != SingleClick || got[1].Clicks != 1 {
		t.Errorf("callback 1: got %s/%d, want SINGLE_CLICK/1", got[1].Type, got[1].Clicks)
	}
}

func TestDoubleClick(t *testing.T) {
	var got []Event
	b := scriptedButton(t, High, 3, 8, func(e Event) { got = append(got, e) })

	// Two quick presses, second one inside the click window.
	events := scanScript(t, b, "11001100000")

	want := []firing{
		{3, Popup},
		{7, Popup},
		{10, DoubleClick},
	}
	checkFirings(t, events, want)

	last := got[len(got)-1]
	if last.Type != DoubleClick || last.Clicks != 2 {
		t.Errorf("final callback: got %s/%d, want DOUBLE_CLICK/2", last.Type, last.Clicks)
	}
}

func TestTripleClickIsMoreClick(t *testing.T) {
	var got []Event
	b := scriptedButton(t, High, 4, 10, func(e Event) { got = append(got, e) })

	events := scanScript(t, b, "1100110011000000")

	want := []firing{
		{3, Popup},
		{7, Popup},
		{11, Popup},
		{15, MoreClick},
	}
	checkFirings(t, events, want)

	last := got[len(got)-1]
	if last.Type != MoreClick || last.Clicks != 3 {
		t.Errorf("final callback: got %s/%d, want MORE_CLICK/3", last.Type, last.Clicks)
	}
}

func TestLongClick(t *testing.T) {
	var got []Event
	b := scriptedButton(t, High, 3, 5, func(e Event) { got = append(got, e) })

	// Hold until the long threshold, then release. No click-type event
	// may fire for this interaction.
	events := scanScript(t, b, "111111100000")

	want := []firing{
		{6, LongClick},
		{8, Popup},
	}
	checkFirings(t, events, want)

	for _, e := range got {
		switch e.Type {
		case SingleClick, DoubleClick, MoreClick:
			t.Errorf("unexpected click-type event %s after long press", e.Type)
		}
	}
}

func TestGlitchDuringHoldIsSuppressed(t *testing.T) {
	b := scriptedButton(t, High, 3, 6, nil)

	// Single-tick low sample mid-hold must not produce a Popup.
	events := scanScript(t, b, "111011110000")

	for i, ev := range events[:8] {
		if ev == Popup {
			t.Errorf("tick %d: Popup fired on a suppressed glitch", i)
		}
	}
}

func TestWindowTimeoutWhilePressed(t *testing.T) {
	var got []Event
	b := scriptedButton(t, High, 3, 20, func(e Event) { got = append(got, e) })

	// Press, release, press again and keep holding: the window closes
	// while the button is still down, finalizing the count and entering
	// the long-hold state. Release then emits only a Popup.
	events := scanScript(t, b, "110011111100")

	want := []firing{
		{3, Popup},
		{8, DoubleClick},
		{11, Popup},
	}
	checkFirings(t, events, want)

	if got[1].Clicks != 2 {
		t.Errorf("clicks at timeout classification: got %d, want 2", got[1].Clicks)
	}
}

func TestActiveLowPolarity(t *testing.T) {
	var got []Event
	b := scriptedButton(t, Low, 3, 5, func(e Event) { got = append(got, e) })

	// Line idles high (pull-up); pressing drives it low.
	events := scanScript(t, b, "00011111")

	want := []firing{
		{4, Popup},
		{7, SingleClick},
	}
	checkFirings(t, events, want)
}

func TestDisabledInstance(t *testing.T) {
	called := false
	b := New(nil, func(Event) { called = true })

	if b.Enabled() {
		t.Error("nil config must produce a disabled instance")
	}
	for i := 0; i < 50; i++ {
		if ev := b.Scan(); ev != None {
			t.Fatalf("scan %d on disabled instance: got %s, want NONE", i, ev)
		}
	}
	if called {
		t.Error("callback invoked on disabled instance")
	}
}

func TestNilReadLevel(t *testing.T) {
	called := false
	b := New(&Config{ActiveLevel: High, UpMaxCnt: 3, LongMinCnt: 5},
		func(Event) { called = true })

	for i := 0; i < 10; i++ {
		if ev := b.Scan(); ev != None {
			t.Fatalf("scan %d without ReadLevel: got %s, want NONE", i, ev)
		}
	}
	if called {
		t.Error("callback invoked without a level reader")
	}
}

func TestNoEventTicksDoNotMutateClicks(t *testing.T) {
	calls := 0
	b := scriptedButton(t, High, 5, 20, func(Event) { calls++ })

	// Press once, then sit inside the open window.
	scanScript(t, b, "1100")
	clicksAfterPopup := b.clicks

	events := scanScript(t, b, "000") // three released ticks, window still open
	for i, ev := range events {
		if ev != None {
			t.Fatalf("tick %d: got %s, want NONE", i, ev)
		}
	}
	if b.clicks != clicksAfterPopup {
		t.Errorf("clicks mutated on no-event ticks: %d -> %d", clicksAfterPopup, b.clicks)
	}
	if calls != 1 {
		t.Errorf("callback count: got %d, want 1 (the Popup)", calls)
	}
}

func TestCallbackMatchesReturnValue(t *testing.T) {
	var fromCB []EventType
	b := scriptedButton(t, High, 3, 5, func(e Event) { fromCB = append(fromCB, e.Type) })

	events := scanScript(t, b, "110011000001111111100")
	var returned []EventType
	for _, ev := range events {
		if ev != None {
			returned = append(returned, ev)
		}
	}

	if len(returned) != len(fromCB) {
		t.Fatalf("callback fired %d times for %d non-None returns", len(fromCB), len(returned))
	}
	for i := range returned {
		if returned[i] != fromCB[i] {
			t.Errorf("event %d: returned %s, callback saw %s", i, returned[i], fromCB[i])
		}
	}
}

func TestDegenerateLongThreshold(t *testing.T) {
	// LongMinCnt=1 long-clicks on the first held tick. Degenerate but
	// well-defined; thresholds are deliberately not validated.
	b := scriptedButton(t, High, 3, 1, nil)

	events := scanScript(t, b, "111")
	if events[2] != LongClick {
		t.Errorf("tick 2: got %s, want LONG_CLICK", events[2])
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		clicks uint32
		want   EventType
	}{
		{0, None},
		{1, SingleClick},
		{2, DoubleClick},
		{3, MoreClick},
		{7, MoreClick},
	}
	for _, tt := range tests {
		if got := classify(tt.clicks); got != tt.want {
			t.Errorf("classify(%d): got %s, want %s", tt.clicks, got, tt.want)
		}
	}
}

func TestEventTypeString(t *testing.T) {
	tests := []struct {
		ev   EventType
		want string
	}{
		{None, "NONE"},
		{Popup, "POPUP"},
		{SingleClick, "SINGLE_CLICK"},
		{DoubleClick, "DOUBLE_CLICK"},
		{MoreClick, "MORE_CLICK"},
		{LongClick, "LONG_CLICK"},
		{EventType(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("String(%d): got %q, want %q", tt.ev, got, tt.want)
		}
	}
}

func checkFirings(t *testing.T, events []EventType, want []firing) {
	t.Helper()
	got := firings(events)
	if len(got) != len(want) {
		t.Fatalf("event count: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: got %s at tick %d, want %s at tick %d",
				i, got[i].ev, got[i].tick, want[i].ev, want[i].tick)
		}
	}
}
