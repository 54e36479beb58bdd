package paste

import "testing"

func TestPushAndTop(t *testing.T) {
	var s Stack
	s.Push("", []byte("first"))
	s.Push("", []byte("second"))

	top, err := s.Top()
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if string(top.Body) != "second" {
		t.Errorf("Top().Body = %q, want %q", top.Body, "second")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (Top does not remove)", s.Len())
	}
}

func TestTopEmptyErrors(t *testing.T) {
	var s Stack
	if _, err := s.Top(); err == nil {
		t.Fatalf("expected error popping an empty stack")
	}
}

func TestNamedLookupMostRecent(t *testing.T) {
	var s Stack
	s.Push("clip", []byte("old"))
	s.Push("clip", []byte("new"))

	got, err := s.Named("clip")
	if err != nil {
		t.Fatalf("Named: %v", err)
	}
	if string(got.Body) != "new" {
		t.Errorf("Named(\"clip\").Body = %q, want %q", got.Body, "new")
	}
}

func TestDeleteRemovesMostRecent(t *testing.T) {
	var s Stack
	s.Push("a", []byte("1"))
	s.Push("a", []byte("2"))
	if err := s.Delete("a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := s.Named("a")
	if err != nil {
		t.Fatalf("Named: %v", err)
	}
	if string(got.Body) != "1" {
		t.Errorf("Named(\"a\").Body = %q, want %q (most recent deleted)", got.Body, "1")
	}
}
