package utils

import (
	"time"
)

// Token time constants
const (
	// AccessTokenTTL is the default time-to-live for access tokens
	AccessTokenTTL = 24 * time.Hour
)

// Ticket numbering constants
const (
	// TicketNumberSequence is the sequence counter name backing ticket numbers
	TicketNumberSequence = "ticketNumber"

	// TicketLeaseTTL is how long a reserved ticket number is held before abandonment
	TicketLeaseTTL = 3 * time.Minute

	// AllocationMaxAttempts bounds the retry loop of a single Allocate call
	AllocationMaxAttempts = 5

	// AllocationBackoffMin and AllocationBackoffMax bound the jitter between attempts
	AllocationBackoffMin = 50 * time.Millisecond
	AllocationBackoffMax = 150 * time.Millisecond

	// LockReaperInterval is how often expired pending locks are swept
	LockReaperInterval = 30 * time.Second
)

// Cache key constants
const (
	// ActiveReservationCacheKey prefixes the per-operator active reservation entry
	ActiveReservationCacheKey = "reservation:active:"
)
