package session

import (
	"context"
	"testing"
	"time"

	"edustream-app/internal/domain/accounts"
	"edustream-app/internal/domain/entitlement"
	"edustream-app/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *store.MemoryAccountStore, a accounts.Account) string {
	t.Helper()
	id, err := s.Add(context.Background(), a)
	require.NoError(t, err)
	return id
}

func TestResolve_LoadsRealIdentity(t *testing.T) {
	accts := store.NewMemoryAccountStore()
	m := NewManager(accts)
	ctx := context.Background()

	id := seed(t, accts, accounts.Account{Email: "t@example.com", Role: accounts.RoleTeacher, SubscriptionStatus: accounts.StatusNone})

	sess, err := m.Resolve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "t@example.com", sess.Real().Email)
	assert.Equal(t, sess.Real(), sess.Effective())
}

func TestResolve_MissingAccountIsFatal(t *testing.T) {
	accts := store.NewMemoryAccountStore()
	m := NewManager(accts)

	_, err := m.Resolve(context.Background(), "ghost-principal")
	assert.ErrorIs(t, err, ErrAccountMissing)
}

func TestBeginImpersonation_RequiresAdmin(t *testing.T) {
	accts := store.NewMemoryAccountStore()
	m := NewManager(accts)
	ctx := context.Background()

	teacherID := seed(t, accts, accounts.Account{Email: "t@example.com", Role: accounts.RoleTeacher, SubscriptionStatus: accounts.StatusNone})
	otherID := seed(t, accts, accounts.Account{Email: "o@example.com", Role: accounts.RoleTeacher, SubscriptionStatus: accounts.StatusNone})

	sess, err := m.Resolve(ctx, teacherID)
	require.NoError(t, err)

	err = sess.BeginImpersonation(ctx, otherID)
	assert.ErrorIs(t, err, ErrNotAdmin)

	_, impersonating := sess.Impersonating()
	assert.False(t, impersonating, "rejected attempt leaves overlay unchanged")
}

func TestBeginImpersonation_TargetMustExist(t *testing.T) {
	accts := store.NewMemoryAccountStore()
	m := NewManager(accts)
	ctx := context.Background()

	adminID := seed(t, accts, accounts.Account{Email: "a@example.com", Role: accounts.RoleAdmin, SubscriptionStatus: accounts.StatusNone})

	sess, err := m.Resolve(ctx, adminID)
	require.NoError(t, err)

	assert.ErrorIs(t, sess.BeginImpersonation(ctx, "nope"), ErrTargetNotFound)
}

func TestEffectiveIdentity_Precedence(t *testing.T) {
	accts := store.NewMemoryAccountStore()
	m := NewManager(accts)
	ctx := context.Background()

	adminID := seed(t, accts, accounts.Account{Email: "a@example.com", Role: accounts.RoleAdmin, SubscriptionStatus: accounts.StatusNone})
	teacherID := seed(t, accts, accounts.Account{Email: "t@example.com", Role: accounts.RoleTeacher, SubscriptionStatus: accounts.StatusExpired})

	sess, err := m.Resolve(ctx, adminID)
	require.NoError(t, err)
	require.NoError(t, sess.BeginImpersonation(ctx, teacherID))

	assert.Equal(t, "t@example.com", sess.Effective().Email)
	assert.Equal(t, "a@example.com", sess.Real().Email, "real identity is never lost")

	sess.EndImpersonation()
	assert.Equal(t, "a@example.com", sess.Effective().Email)
}

func TestImpersonatedExpiredTeacher_HasNoAccess(t *testing.T) {
	// The entitlement check runs on the effective identity, so an admin
	// viewing as an expired teacher sees what that teacher sees: nothing.
	accts := store.NewMemoryAccountStore()
	m := NewManager(accts)
	ctx := context.Background()

	adminID := seed(t, accts, accounts.Account{Email: "a@example.com", Role: accounts.RoleAdmin, SubscriptionStatus: accounts.StatusNone})
	teacherID := seed(t, accts, accounts.Account{Email: "t@example.com", Role: accounts.RoleTeacher, SubscriptionStatus: accounts.StatusExpired})

	sess, err := m.Resolve(ctx, adminID)
	require.NoError(t, err)

	effective := sess.Effective()
	assert.True(t, entitlement.HasAccess(&effective, time.Now()))

	require.NoError(t, sess.BeginImpersonation(ctx, teacherID))
	effective = sess.Effective()
	assert.False(t, entitlement.HasAccess(&effective, time.Now()))
}

func TestBeginImpersonation_ReplacesTarget(t *testing.T) {
	accts := store.NewMemoryAccountStore()
	m := NewManager(accts)
	ctx := context.Background()

	adminID := seed(t, accts, accounts.Account{Email: "a@example.com", Role: accounts.RoleAdmin, SubscriptionStatus: accounts.StatusNone})
	firstID := seed(t, accts, accounts.Account{Email: "one@example.com", Role: accounts.RoleTeacher, SubscriptionStatus: accounts.StatusNone})
	secondID := seed(t, accts, accounts.Account{Email: "two@example.com", Role: accounts.RoleTeacher, SubscriptionStatus: accounts.StatusNone})

	sess, err := m.Resolve(ctx, adminID)
	require.NoError(t, err)

	require.NoError(t, sess.BeginImpersonation(ctx, firstID))
	require.NoError(t, sess.BeginImpersonation(ctx, secondID))

	target, ok := sess.Impersonating()
	require.True(t, ok)
	assert.Equal(t, "two@example.com", target.Email)
}

func TestEndImpersonation_Idempotent(t *testing.T) {
	accts := store.NewMemoryAccountStore()
	m := NewManager(accts)
	ctx := context.Background()

	adminID := seed(t, accts, accounts.Account{Email: "a@example.com", Role: accounts.RoleAdmin, SubscriptionStatus: accounts.StatusNone})
	teacherID := seed(t, accts, accounts.Account{Email: "t@example.com", Role: accounts.RoleTeacher, SubscriptionStatus: accounts.StatusNone})

	sess, err := m.Resolve(ctx, adminID)
	require.NoError(t, err)
	require.NoError(t, sess.BeginImpersonation(ctx, teacherID))

	sess.EndImpersonation()
	after := sess.Effective()
	sess.EndImpersonation()
	assert.Equal(t, after, sess.Effective())
}

func TestResolve_RefreshesOverlaySnapshot(t *testing.T) {
	accts := store.NewMemoryAccountStore()
	m := NewManager(accts)
	ctx := context.Background()

	adminID := seed(t, accts, accounts.Account{Email: "a@example.com", Role: accounts.RoleAdmin, SubscriptionStatus: accounts.StatusNone})
	teacherID := seed(t, accts, accounts.Account{Email: "t@example.com", Role: accounts.RoleTeacher, SubscriptionStatus: accounts.StatusNone})

	sess, err := m.Resolve(ctx, adminID)
	require.NoError(t, err)
	require.NoError(t, sess.BeginImpersonation(ctx, teacherID))

	// Activation while impersonating shows up on the next resolve.
	ends := time.Now().Add(30 * 24 * time.Hour)
	require.NoError(t, accts.Update(ctx, teacherID, map[string]any{
		"subscription_status":  accounts.StatusActive,
		"subscription_ends_at": ends,
		"trial_ends_at":        nil,
	}))

	sess, err = m.Resolve(ctx, adminID)
	require.NoError(t, err)
	assert.Equal(t, accounts.StatusActive, sess.Effective().SubscriptionStatus)

	// Deleting the target ends the overlay.
	require.NoError(t, accts.Delete(ctx, teacherID))
	sess, err = m.Resolve(ctx, adminID)
	require.NoError(t, err)
	_, impersonating := sess.Impersonating()
	assert.False(t, impersonating)
}

func TestSignOut_DestroysOverlay(t *testing.T) {
	accts := store.NewMemoryAccountStore()
	m := NewManager(accts)
	ctx := context.Background()

	adminID := seed(t, accts, accounts.Account{Email: "a@example.com", Role: accounts.RoleAdmin, SubscriptionStatus: accounts.StatusNone})
	teacherID := seed(t, accts, accounts.Account{Email: "t@example.com", Role: accounts.RoleTeacher, SubscriptionStatus: accounts.StatusNone})

	sess, err := m.Resolve(ctx, adminID)
	require.NoError(t, err)
	require.NoError(t, sess.BeginImpersonation(ctx, teacherID))

	m.SignOut(adminID)

	sess, err = m.Resolve(ctx, adminID)
	require.NoError(t, err)
	_, impersonating := sess.Impersonating()
	assert.False(t, impersonating, "fresh session after sign-out")
}
