package version

import "testing"

func TestString(t *testing.T) {
	origVersion, origSHA, origTime := Version, GitSHA, BuildTime
	defer func() { Version, GitSHA, BuildTime = origVersion, origSHA, origTime }()

	Version, GitSHA, BuildTime = "1.2.0", "abc123", "2026-10-01T00:00:00Z"
	want := "launchtimer 1.2.0 (commit abc123, built 2026-10-01T00:00:00Z)"
	if got := String("launchtimer"); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
