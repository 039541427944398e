package store

import "testing"

func TestSetNotifiesOnChangeOnly(t *testing.T) {
	s := New()
	calls := 0
	s.Subscribe(KeyHoveredSchool, func(v any, _ Snapshot) {
		calls++
		if v != "Michigan" {
			t.Errorf("expected value Michigan, got %v", v)
		}
	})

	s.Set(KeyHoveredSchool, "Michigan")
	s.Set(KeyHoveredSchool, "Michigan") // unchanged, must not notify
	if calls != 1 {
		t.Errorf("expected exactly 1 notification, got %d", calls)
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	s := New()
	var got []string
	unsubA := s.Subscribe(KeyConferenceFilter, func(v any, _ Snapshot) {
		got = append(got, "a:"+v.(string))
	})
	s.Subscribe(KeyConferenceFilter, func(v any, _ Snapshot) {
		got = append(got, "b:"+v.(string))
	})

	s.SetConferenceFilter("SEC")
	unsubA()
	unsubA() // second call is a no-op
	s.SetConferenceFilter("Big Ten")

	want := []string{"a:SEC", "b:SEC", "b:Big Ten"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSubscriberPanicDoesNotStopOthers(t *testing.T) {
	s := New()
	reached := false
	s.Subscribe(KeySelectedSchool, func(any, Snapshot) {
		panic("boom")
	})
	s.Subscribe(KeySelectedSchool, func(any, Snapshot) {
		reached = true
	})

	s.SelectSchool("Texas")
	if !reached {
		t.Error("second subscriber was not notified after first panicked")
	}
	if s.SelectedSchool() != "Texas" {
		t.Errorf("selection lost: %q", s.SelectedSchool())
	}
}

func TestSetManyAppliesInOrder(t *testing.T) {
	s := New()
	var order []Key
	s.Subscribe(KeyHoveredSchool, func(any, Snapshot) { order = append(order, KeyHoveredSchool) })
	s.Subscribe(KeySelectedSchool, func(any, Snapshot) { order = append(order, KeySelectedSchool) })

	s.SetMany([]Update{
		{KeySelectedSchool, "Oregon"},
		{KeyHoveredSchool, "Auburn"},
	})
	if len(order) != 2 || order[0] != KeySelectedSchool || order[1] != KeyHoveredSchool {
		t.Errorf("unexpected notification order: %v", order)
	}
}

func TestReentrantSetCascades(t *testing.T) {
	s := New()
	s.Subscribe(KeySelectedSchool, func(v any, _ Snapshot) {
		// Selecting a school also clears any hover, from inside the callback.
		s.HoverSchool("")
	})
	hoverSeen := ""
	s.Subscribe(KeyHoveredSchool, func(v any, snap Snapshot) {
		hoverSeen = v.(string)
		// The clear arrives from inside the selection callback; its snapshot
		// must already carry the selection that triggered it.
		if v.(string) == "" && snap[KeySelectedSchool] != "Clemson" {
			t.Errorf("stale snapshot: %v", snap[KeySelectedSchool])
		}
	})

	s.HoverSchool("Clemson")
	s.SelectSchool("Clemson")
	if hoverSeen != "" {
		t.Errorf("re-entrant clear did not propagate, hover = %q", hoverSeen)
	}
}

func TestUnsubscribeDuringNotification(t *testing.T) {
	s := New()
	var unsubB func()
	aCalls, bCalls := 0, 0
	s.Subscribe(KeyCurrentSection, func(any, Snapshot) {
		aCalls++
		if unsubB != nil {
			unsubB()
			unsubB = nil
		}
	})
	unsubB = s.Subscribe(KeyCurrentSection, func(any, Snapshot) { bCalls++ })

	s.SetSection(1) // b still notified this round: registration list is copied
	s.SetSection(2)
	if aCalls != 2 {
		t.Errorf("a notified %d times, want 2", aCalls)
	}
	if bCalls != 1 {
		t.Errorf("b notified %d times, want 1", bCalls)
	}
}

func TestDefaults(t *testing.T) {
	s := New()
	if s.ConferenceFilter() != FilterAll {
		t.Errorf("default filter = %q", s.ConferenceFilter())
	}
	if s.MatrixSort() != SortConference {
		t.Errorf("default sort = %q", s.MatrixSort())
	}
	if s.CurrentSection() != 0 {
		t.Errorf("default section = %d", s.CurrentSection())
	}
	if got := s.Get(Key("never_set")); got != nil {
		t.Errorf("unset key = %v, want nil", got)
	}
}
