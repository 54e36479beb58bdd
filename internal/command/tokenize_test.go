package command

import "testing"

func TestTokenizeQuotesAndEscapes(t *testing.T) {
	got, err := Tokenize(`new-session -s "my session" -c 'echo \"hi\"'`)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	want := []string{"new-session", "-s", "my session", "-c", `echo \"hi\"`}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
