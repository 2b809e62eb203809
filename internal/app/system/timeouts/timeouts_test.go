package timeouts

import (
	"testing"
	"time"
)

func TestConfigure_IgnoresZeroValues(t *testing.T) {
	defer Reset()

	Configure(Config{Short: 7 * time.Second})

	if Short() != 7*time.Second {
		t.Errorf("Short: got %v, want 7s", Short())
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium: got %v, want default %v", Medium(), DefaultMedium)
	}
}

func TestConfigureFromEnv(t *testing.T) {
	defer Reset()

	t.Setenv("THREADHUB_TIMEOUT_PING", "500ms")
	t.Setenv("THREADHUB_TIMEOUT_MEDIUM", "not-a-duration")
	t.Setenv("THREADHUB_TIMEOUT_LONG", "-3s")

	if n := ConfigureFromEnv(); n != 1 {
		t.Fatalf("configured: got %d, want 1", n)
	}

	got := Current()
	want := Config{Ping: 500 * time.Millisecond, Short: DefaultShort, Medium: DefaultMedium, Long: DefaultLong}
	if got != want {
		t.Errorf("Current: got %+v, want %+v", got, want)
	}
}
