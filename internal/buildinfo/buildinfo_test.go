package buildinfo

import "testing"

func TestVersion(t *testing.T) {
	hash, built := CommitHash, BuildTime
	t.Cleanup(func() { CommitHash, BuildTime = hash, built })

	CommitHash, BuildTime = "", ""
	if got := Version(); got != "dev" {
		t.Errorf("unstamped Version() = %q, want dev", got)
	}

	CommitHash = "abc1234"
	if got := Version(); got != "abc1234" {
		t.Errorf("Version() = %q, want abc1234", got)
	}

	BuildTime = "2024-05-01T10:00:00Z"
	if got := Version(); got != "abc1234 (2024-05-01T10:00:00Z)" {
		t.Errorf("Version() = %q", got)
	}
}
