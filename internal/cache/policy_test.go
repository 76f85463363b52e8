package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidIsLoginBasedNotTimeBased(t *testing.T) {
	p := NewPolicy(5 * time.Minute)

	assert.False(t, p.Valid(time.Time{}))
	assert.True(t, p.Valid(time.Now()))
	// A week-old snapshot is still valid; only a fresh sync replaces it.
	assert.True(t, p.Valid(time.Now().Add(-7*24*time.Hour)))
}

func TestShouldRefresh(t *testing.T) {
	p := NewPolicy(5 * time.Minute)

	tests := []struct {
		name           string
		hasCredentials bool
		lastSync       time.Time
		want           bool
	}{
		{"no credentials, stale cache", false, time.Now().Add(-time.Hour), false},
		{"no credentials, no cache", false, time.Time{}, false},
		{"credentials, no cache", true, time.Time{}, true},
		{"credentials, fresh cache", true, time.Now().Add(-time.Minute), false},
		{"credentials, stale cache", true, time.Now().Add(-10 * time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ShouldRefresh(tt.hasCredentials, tt.lastSync))
		})
	}
}

func TestNewPolicyDefaultsWindow(t *testing.T) {
	p := NewPolicy(0)
	assert.Equal(t, 5*time.Minute, p.RefreshWindow)
}
