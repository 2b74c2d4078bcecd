package entitlement

import (
	"testing"
	"time"

	"edustream-app/internal/domain/accounts"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func ts(t time.Time) *time.Time { return &t }

func TestHasAccess_NoIdentity(t *testing.T) {
	assert.False(t, HasAccess(nil, now))
}

func TestHasAccess_AdminAlwaysAllowed(t *testing.T) {
	statuses := []string{
		accounts.StatusNone,
		accounts.StatusTrial,
		accounts.StatusActive,
		accounts.StatusExpired,
	}
	for _, status := range statuses {
		a := &accounts.Account{Role: accounts.RoleAdmin, SubscriptionStatus: status}
		assert.True(t, HasAccess(a, now), "admin with status %s", status)
		assert.True(t, HasAccess(a, now.AddDate(10, 0, 0)), "admin with status %s far in the future", status)
	}
}

func TestHasAccess_ActiveWindow(t *testing.T) {
	ends := now.Add(24 * time.Hour)
	a := &accounts.Account{
		Role:               accounts.RoleTeacher,
		SubscriptionStatus: accounts.StatusActive,
		SubscriptionEndsAt: ts(ends),
	}

	assert.True(t, HasAccess(a, now))
	assert.True(t, HasAccess(a, ends), "boundary instant is still inside the window")
	assert.False(t, HasAccess(a, ends.Add(time.Millisecond)))
}

func TestHasAccess_ActiveWithoutEndDate(t *testing.T) {
	// Data anomaly: active record with no window. Degrades to no access,
	// never to an error.
	a := &accounts.Account{
		Role:               accounts.RoleTeacher,
		SubscriptionStatus: accounts.StatusActive,
	}
	assert.False(t, HasAccess(a, now))
}

func TestHasAccess_TrialWindow(t *testing.T) {
	t0 := now
	trialEnds := t0.Add(24 * time.Hour)
	a := &accounts.Account{
		Role:               accounts.RoleTeacher,
		SubscriptionStatus: accounts.StatusTrial,
		TrialEndsAt:        ts(trialEnds),
	}

	assert.True(t, HasAccess(a, t0.Add(23*time.Hour)))
	assert.False(t, HasAccess(a, t0.Add(25*time.Hour)))
}

func TestHasAccess_TrialWithoutEndDate(t *testing.T) {
	a := &accounts.Account{
		Role:               accounts.RoleTeacher,
		SubscriptionStatus: accounts.StatusTrial,
	}
	assert.False(t, HasAccess(a, now))
}

func TestHasAccess_NoneAndExpired(t *testing.T) {
	for _, status := range []string{accounts.StatusNone, accounts.StatusExpired} {
		a := &accounts.Account{Role: accounts.RoleTeacher, SubscriptionStatus: status}
		assert.False(t, HasAccess(a, now), "status %s", status)
		assert.False(t, HasAccess(a, now.AddDate(-5, 0, 0)), "status %s in the past", status)
	}
}

func TestEvaluate_TrialSnapshot(t *testing.T) {
	trialEnds := now.Add(3 * time.Hour)
	a := &accounts.Account{
		Role:               accounts.RoleTeacher,
		SubscriptionStatus: accounts.StatusTrial,
		TrialEndsAt:        ts(trialEnds),
	}

	s := Evaluate(a, now)
	assert.True(t, s.HasAccess)
	assert.Equal(t, accounts.StatusTrial, s.Status)
	assert.Equal(t, 3*time.Hour, s.TrialTimeLeft)
}

func TestEvaluate_ExpiredTrialSnapshot(t *testing.T) {
	trialEnds := now.Add(-time.Hour)
	a := &accounts.Account{
		Role:               accounts.RoleTeacher,
		SubscriptionStatus: accounts.StatusTrial,
		TrialEndsAt:        ts(trialEnds),
	}

	s := Evaluate(a, now)
	assert.False(t, s.HasAccess)
	assert.Zero(t, s.TrialTimeLeft)
}

func TestEvaluate_NilIdentity(t *testing.T) {
	s := Evaluate(nil, now)
	assert.False(t, s.HasAccess)
	assert.Equal(t, accounts.StatusNone, s.Status)
}
