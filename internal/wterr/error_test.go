package wterr

import (
	"errors"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	e := New(TargetNotFound, "session %q not found", "foo")
	if got, want := e.Error(), `session "foo" not found`; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestWrapUnwrap(t *testing.T) {
	underlying := errors.New("boom")
	e := Wrap(SpawnFailed, underlying, "spawn pane")
	if !errors.Is(e, underlying) {
		t.Fatalf("expected Wrap to preserve errors.Is chain")
	}
	if got, want := e.Error(), "spawn pane: boom"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestAs(t *testing.T) {
	e := New(Conflict, "name taken")
	got, ok := As(error(e))
	if !ok || got.Kind != Conflict {
		t.Fatalf("As() = %v, %v, want Conflict error", got, ok)
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		ParseError:     "ParseError",
		TargetNotFound: "TargetNotFound",
		Conflict:       "Conflict",
		SpawnFailed:    "SpawnFailed",
		IpcError:       "IpcError",
		Internal:       "Internal",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
