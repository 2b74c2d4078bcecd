package subscription

import (
	"errors"
	"time"

	"edustream-app/internal/domain/accounts"
)

// ErrInvalidDuration rejects activations shorter than one day.
var ErrInvalidDuration = errors.New("subscription duration must be at least 1 day")

// TrialLength is the fixed entitlement window granted at account creation.
const TrialLength = 24 * time.Hour

// The lifecycle commands return the field set to write to the account record.
// Writes go through the document store as plain updates, last writer wins:
// activations are human-paced admin actions, not contended operations.

// Activate grants a paid window starting at startDate and running durationDays
// calendar days. Valid from any state; activating an already-active account
// replaces its window. The caller supplies startDate explicitly, so backdated
// and future-dated activations both work.
func Activate(startDate time.Time, durationDays int) (map[string]any, error) {
	if durationDays < 1 {
		return nil, ErrInvalidDuration
	}

	endsAt := startDate.Add(time.Duration(durationDays) * 24 * time.Hour)
	return map[string]any{
		"subscription_status":  accounts.StatusActive,
		"subscription_ends_at": endsAt,
		"trial_ends_at":        nil,
	}, nil
}

// Deactivate marks the account expired from any state. TrialEndsAt is left
// alone; deactivating a trial account is not a normal path and the status
// write alone is enough.
func Deactivate() map[string]any {
	return map[string]any{
		"subscription_status":  accounts.StatusExpired,
		"subscription_ends_at": nil,
	}
}

// StartTrial yields the trial fields for a freshly created account. Invoked
// exactly once, at creation; there is no re-trial path.
func StartTrial(createdAt time.Time) map[string]any {
	return map[string]any{
		"subscription_status":  accounts.StatusTrial,
		"trial_ends_at":        createdAt.Add(TrialLength),
		"subscription_ends_at": nil,
	}
}

// ApplyToAccount mirrors a lifecycle field set onto an in-memory account
// snapshot. The store applies the same map to the persisted record.
func ApplyToAccount(a *accounts.Account, fields map[string]any) {
	if v, ok := fields["subscription_status"].(string); ok {
		a.SubscriptionStatus = v
	}
	if v, ok := fields["subscription_ends_at"]; ok {
		a.SubscriptionEndsAt = asTimePtr(v)
	}
	if v, ok := fields["trial_ends_at"]; ok {
		a.TrialEndsAt = asTimePtr(v)
	}
}

func asTimePtr(v any) *time.Time {
	switch t := v.(type) {
	case time.Time:
		return &t
	case *time.Time:
		return t
	default:
		return nil
	}
}
