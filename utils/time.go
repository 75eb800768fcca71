package utils

import (
	"time"
)

// UTCNow returns the current time in UTC. All persisted timestamps,
// including lock leases, go through this so expiry comparisons never
// depend on the server's local zone.
func UTCNow() time.Time {
	return time.Now().UTC()
}

// UTCNowAdd returns the current UTC time plus the given duration.
func UTCNowAdd(d time.Duration) time.Time {
	return UTCNow().Add(d)
}

// IsExpired reports whether t is in the past.
func IsExpired(t time.Time) bool {
	return UTCNow().After(t)
}
