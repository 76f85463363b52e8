package model

import "time"

// CachedGrades is the last-synced course snapshot for one user. A
// snapshot stays valid until the user performs a fresh credential-backed
// sync; LastSync only matters to the opportunistic background-refresh
// policy.
type CachedGrades struct {
	UserID   string    `json:"user_id"`
	Courses  []Course  `json:"courses"`
	LastSync time.Time `json:"last_sync"`
}

// Credentials for the upstream school information system. The password
// is stored with reversible obfuscation only; real encryption lives
// behind the out-of-process trust boundary.
type Credentials struct {
	UserID      string `json:"user_id"`
	DistrictURL string `json:"district_url"`
	Username    string `json:"username"`
	Password    string `json:"password"`
}

type RefreshJob struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}
