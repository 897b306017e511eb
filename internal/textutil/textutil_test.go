package textutil

import "testing"

func TestLen(t *testing.T) {
	tests := map[string]int{
		"":        0,
		"abc":     3,
		"日本語":     3,
		"Démarrer": 8,
	}
	for in, want := range tests {
		if got := Len(in); got != want {
			t.Errorf("Len(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("こんにちは世界", 5); got != "こんにちは..." {
		t.Errorf("Truncate = %q", got)
	}
}
