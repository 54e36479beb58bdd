package keybind

import (
	"testing"
	"time"
)

func TestDispatcherRootBindingBypassesPrefix(t *testing.T) {
	d := NewDispatcher(Chord{Mod: ModCtrl, Key: KeyCode('b')})
	d.Root.Bind(Chord{Key: KeyF2}, "list-sessions")

	res := d.Handle(Chord{Key: KeyF2})
	if res.Command != "list-sessions" {
		t.Errorf("Command = %q, want list-sessions", res.Command)
	}
	if d.State() != Normal {
		t.Errorf("state = %v, want Normal (root bindings don't touch prefix state)", d.State())
	}
}

func TestDispatcherPrefixFlow(t *testing.T) {
	prefixChord := Chord{Mod: ModCtrl, Key: KeyCode('b')}
	d := NewDispatcher(prefixChord)
	d.Prefix.Bind(Chord{Key: KeyCode('c')}, "new-window")

	res := d.Handle(prefixChord)
	if res.Command != "" || res.Bell || res.Forward {
		t.Fatalf("prefix chord should just transition state, got %+v", res)
	}
	if d.State() != Prefixed {
		t.Fatalf("state = %v, want Prefixed", d.State())
	}

	res = d.Handle(Chord{Key: KeyCode('c')})
	if res.Command != "new-window" {
		t.Errorf("Command = %q, want new-window", res.Command)
	}
	if d.State() != Normal {
		t.Errorf("state = %v, want Normal after dispatch", d.State())
	}
}

func TestDispatcherUnknownChordInPrefixedBells(t *testing.T) {
	prefixChord := Chord{Mod: ModCtrl, Key: KeyCode('b')}
	d := NewDispatcher(prefixChord)
	d.Handle(prefixChord)

	res := d.Handle(Chord{Key: KeyCode('z')})
	if !res.Bell {
		t.Errorf("expected bell for unbound chord in Prefixed state")
	}
	if d.State() != Normal {
		t.Errorf("state = %v, want Normal after unknown chord", d.State())
	}
}

func TestDispatcherForwardsUnboundNormalChord(t *testing.T) {
	d := NewDispatcher(Chord{Mod: ModCtrl, Key: KeyCode('b')})
	res := d.Handle(Chord{Key: KeyCode('x')})
	if !res.Forward {
		t.Errorf("expected unbound chord in Normal state to forward as input")
	}
}

func TestChordString(t *testing.T) {
	c := Chord{Mod: ModCtrl, Key: KeyCode('b')}
	if got := c.String(); got != "C-b" {
		t.Errorf("String() = %q, want C-b", got)
	}
	if got := (Chord{Key: KeyF2}).String(); got != "F2" {
		t.Errorf("String() = %q, want F2", got)
	}
}

func TestEscapeTimerFiresOnTimeout(t *testing.T) {
	fired := make(chan struct{}, 1)
	timer := NewEscapeTimer(10*time.Millisecond, func() { fired <- struct{}{} })
	timer.Start()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatalf("expected timeout callback to fire")
	}
}

func TestEscapeTimerCancelSuppressesCallback(t *testing.T) {
	fired := make(chan struct{}, 1)
	timer := NewEscapeTimer(20*time.Millisecond, func() { fired <- struct{}{} })
	timer.Start()
	timer.Cancel()

	select {
	case <-fired:
		t.Fatalf("callback should not fire after Cancel")
	case <-time.After(60 * time.Millisecond):
	}
}
