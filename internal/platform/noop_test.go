package platform

import (
	"testing"

	"github.com/miraines/macroforge/internal/key"
)

func TestNoOpSourceInjectDeliversToRegisteredHandler(t *testing.T) {
	s := &NoOpSource{}
	var got []RawEvent
	if err := s.Start(func(ev RawEvent) { got = append(got, ev) }); err != nil {
		t.Fatalf("Start: %v", err)
	}

	s.Inject(RawEvent{Key: key.InputF1, Kind: RawKeyDown})
	s.Inject(RawEvent{Key: key.InputF1, Kind: RawKeyUp})

	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
}

func TestNoOpSourceStopStopsDelivery(t *testing.T) {
	s := &NoOpSource{}
	var count int
	s.Start(func(ev RawEvent) { count++ })
	s.Stop()
	s.Inject(RawEvent{Key: key.InputF1, Kind: RawKeyDown})
	if count != 0 {
		t.Fatalf("event delivered after Stop: count=%d", count)
	}
}

func TestNoOpSinkRecordsCalls(t *testing.T) {
	sink := &NoOpSink{}
	if err := sink.KeyToggle(key.OutputA, key.ModShift, Down); err != nil {
		t.Fatalf("KeyToggle: %v", err)
	}
	if err := sink.KeyTap(key.OutputB, key.ModNone); err != nil {
		t.Fatalf("KeyTap: %v", err)
	}
	if err := sink.Scroll("down", 3); err != nil {
		t.Fatalf("Scroll: %v", err)
	}

	toggles, taps, scrolls := sink.Snapshot()
	if len(toggles) != 1 || toggles[0].Base != key.OutputA || toggles[0].Dir != Down {
		t.Fatalf("unexpected toggles: %+v", toggles)
	}
	if len(taps) != 1 || taps[0].Base != key.OutputB {
		t.Fatalf("unexpected taps: %+v", taps)
	}
	if len(scrolls) != 1 || scrolls[0].Magnitude != 3 {
		t.Fatalf("unexpected scrolls: %+v", scrolls)
	}
}

func TestMouseInputKeyMapping(t *testing.T) {
	cases := []struct {
		button uint16
		want   key.InputKey
		ok     bool
	}{
		{buttonMiddle, key.InputMiddleClick, true},
		{buttonX1, key.InputX1Click, true},
		{buttonX2, key.InputX2Click, true},
		{99, 0, false},
	}
	for _, c := range cases {
		got, ok := mouseInputKey(c.button)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("mouseInputKey(%d) = (%v, %v), want (%v, %v)", c.button, got, ok, c.want, c.ok)
		}
	}
}
