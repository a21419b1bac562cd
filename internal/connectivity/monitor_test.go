package connectivity

import "testing"

func TestMonitorInitialState(t *testing.T) {
	if NewMonitor(true).State() != Online {
		t.Error("monitor seeded online reports offline")
	}
	if NewMonitor(false).State() != Offline {
		t.Error("monitor seeded offline reports online")
	}
}

func TestDeliverCollapsesDuplicates(t *testing.T) {
	m := NewMonitor(false)

	var transitions []State
	m.Subscribe(func(s State) {
		transitions = append(transitions, s)
	})

	m.Deliver(true)
	m.Deliver(true)
	m.Deliver(true)
	m.Deliver(false)
	m.Deliver(false)

	want := []State{Online, Offline}
	if len(transitions) != len(want) {
		t.Fatalf("expected %d notifications, got %d", len(want), len(transitions))
	}
	for i, s := range want {
		if transitions[i] != s {
			t.Errorf("transition %d: expected %v, got %v", i, s, transitions[i])
		}
	}
}

func TestStateReadableDuringNotification(t *testing.T) {
	m := NewMonitor(false)

	m.Subscribe(func(s State) {
		if m.State() != s {
			t.Errorf("State() returned %v during %v notification", m.State(), s)
		}
	})
	m.Deliver(true)
}

func TestSubscribeNeverFiresRetroactively(t *testing.T) {
	m := NewMonitor(false)
	m.Deliver(true)

	fired := false
	m.Subscribe(func(State) { fired = true })
	if fired {
		t.Error("subscription fired for a transition that predates it")
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	m := NewMonitor(false)

	count := 0
	unsubscribe := m.Subscribe(func(State) { count++ })

	m.Deliver(true)
	unsubscribe()
	m.Deliver(false)

	if count != 1 {
		t.Errorf("expected 1 notification, got %d", count)
	}
}
