package cache

import (
	"time"
)

// Policy decides when a cached grade snapshot may be shown and when it
// should be refreshed in the background.
//
// The primary rule is login-based: a snapshot written for a session is
// valid indefinitely and is only replaced by a fresh credential-backed
// sync. The refresh window only governs the opportunistic
// stale-while-revalidate path, and that path requires live upstream
// credentials.
type Policy struct {
	RefreshWindow time.Duration
}

func NewPolicy(refreshWindow time.Duration) Policy {
	if refreshWindow <= 0 {
		refreshWindow = 5 * time.Minute
	}
	return Policy{RefreshWindow: refreshWindow}
}

// Valid reports whether an existing snapshot may be displayed. There is
// no expiry: existing means valid.
func (Policy) Valid(lastSync time.Time) bool {
	return !lastSync.IsZero()
}

// ShouldRefresh reports whether a background resync should be enqueued.
// Never without credentials; always when no snapshot exists yet;
// otherwise only when the snapshot has outlived the refresh window.
func (p Policy) ShouldRefresh(hasCredentials bool, lastSync time.Time) bool {
	if !hasCredentials {
		return false
	}
	if lastSync.IsZero() {
		return true
	}
	return time.Since(lastSync) > p.RefreshWindow
}
