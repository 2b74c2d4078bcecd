package entitlement

import (
	"time"

	"edustream-app/internal/domain/accounts"
)

// HasAccess decides whether the given identity may watch protected content at
// the given instant. It is evaluated against the *effective* identity, so an
// admin who is viewing as another account gets that account's answer, not the
// admin bypass.
//
// Rules, in order: no identity -> no; admin -> yes; active -> within the paid
// window; trial -> within the trial window; none/expired -> no. A missing
// timestamp on an active or trial record is a data anomaly and degrades to
// "no access" rather than an error.
//
// The result is time-dependent and must never be cached.
func HasAccess(a *accounts.Account, now time.Time) bool {
	if a == nil {
		return false
	}
	if a.Role == accounts.RoleAdmin {
		return true
	}

	switch a.SubscriptionStatus {
	case accounts.StatusActive:
		return a.SubscriptionEndsAt != nil && !now.After(*a.SubscriptionEndsAt)
	case accounts.StatusTrial:
		return a.TrialEndsAt != nil && !now.After(*a.TrialEndsAt)
	}
	return false
}

// Snapshot is the derived access view handed to DTO builders. It carries the
// boolean decision plus the window the dashboard renders.
type Snapshot struct {
	HasAccess     bool
	Status        string
	TrialEndsAt   *time.Time
	TrialTimeLeft time.Duration // zero unless status is trial and the window is open
	EndsAt        *time.Time    // paid window end, only while status is active
}

func Evaluate(a *accounts.Account, now time.Time) Snapshot {
	s := Snapshot{HasAccess: HasAccess(a, now)}
	if a == nil {
		s.Status = accounts.StatusNone
		return s
	}

	s.Status = a.SubscriptionStatus
	switch a.SubscriptionStatus {
	case accounts.StatusTrial:
		s.TrialEndsAt = a.TrialEndsAt
		if a.TrialEndsAt != nil && now.Before(*a.TrialEndsAt) {
			s.TrialTimeLeft = a.TrialEndsAt.Sub(now)
		}
	case accounts.StatusActive:
		s.EndsAt = a.SubscriptionEndsAt
	}
	return s
}
