package normalize

import "testing"

func TestUsername(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"alice", "alice"},
		{"ALICE", "alice"},
		{"  MixedCase  ", "mixedcase"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Username(tt.input); got != tt.want {
				t.Errorf("Username(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIdentity(t *testing.T) {
	if got := Identity("  user_AbC  "); got != "user_AbC" {
		t.Errorf("Identity kept case and trimmed: got %q", got)
	}
}
