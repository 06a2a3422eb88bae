package ops

import (
	"testing"
	"time"

	"mentorcore/internal/config"
)

func TestGenerateID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := generateID()
		if err != nil {
			t.Fatalf("generateID failed: %v", err)
		}
		if len(id) != 26 {
			t.Fatalf("id length = %d, want 26 (ULID)", len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate id: %s", id)
		}
		seen[id] = true
	}
}

func TestClampTimeout(t *testing.T) {
	cfg := config.DefaultConfig()

	if got := clampTimeout(cfg, 0); got != cfg.DefaultTimeout() {
		t.Errorf("clampTimeout(0) = %v, want default", got)
	}
	if got := clampTimeout(cfg, -5); got != cfg.DefaultTimeout() {
		t.Errorf("clampTimeout(-5) = %v, want default", got)
	}
	if got := clampTimeout(cfg, 30); got != 30*time.Second {
		t.Errorf("clampTimeout(30) = %v, want 30s", got)
	}
	if got := clampTimeout(cfg, 99999); got != cfg.MaxTimeout() {
		t.Errorf("clampTimeout(99999) = %v, want ceiling", got)
	}
}

func TestLimitsFrom(t *testing.T) {
	cfg := config.DefaultConfig()
	limits := limitsFrom(cfg)

	if limits.MaxEntryBytes != cfg.MaxEntryBytes ||
		limits.MaxArchiveBytes != cfg.MaxArchiveBytes ||
		limits.MaxReadBytes != cfg.MaxReadBytes ||
		limits.MaxOutputBytes != cfg.MaxOutputBytes {
		t.Errorf("limits = %+v", limits)
	}
}
