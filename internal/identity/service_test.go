package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUp_ValidatesInput(t *testing.T) {
	s := NewMemoryService()
	ctx := context.Background()

	_, err := s.SignUp(ctx, "not-an-email", "secret123")
	assert.ErrorIs(t, err, ErrBadEmail)

	_, err = s.SignUp(ctx, "a@example.com", "short1")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = s.SignUp(ctx, "a@example.com", "lettersonly")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = s.SignUp(ctx, "a@example.com", "12345678")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	s := NewMemoryService()
	ctx := context.Background()

	_, err := s.SignUp(ctx, "a@example.com", "secret123")
	require.NoError(t, err)

	_, err = s.SignUp(ctx, "a@example.com", "another456")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignIn(t *testing.T) {
	s := NewMemoryService()
	ctx := context.Background()

	created, err := s.SignUp(ctx, "a@example.com", "secret123")
	require.NoError(t, err)

	p, err := s.SignIn(ctx, "a@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, p.ID)

	_, err = s.SignIn(ctx, "a@example.com", "wrongpass1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.SignIn(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordReset_RoundTrip(t *testing.T) {
	s := NewMemoryService()
	ctx := context.Background()

	_, err := s.SignUp(ctx, "a@example.com", "secret123")
	require.NoError(t, err)

	token, err := s.SendPasswordReset(ctx, "a@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, s.ResetPassword(ctx, token, "fresh4567"))

	_, err = s.SignIn(ctx, "a@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "old password no longer valid")

	_, err = s.SignIn(ctx, "a@example.com", "fresh4567")
	assert.NoError(t, err)

	// Token is single use.
	assert.ErrorIs(t, s.ResetPassword(ctx, token, "again8901"), ErrBadResetToken)
}

func TestPasswordReset_UnknownEmail(t *testing.T) {
	s := NewMemoryService()
	_, err := s.SendPasswordReset(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindOrCreateGoogle(t *testing.T) {
	s := NewMemoryService()
	ctx := context.Background()

	p1, created, err := s.FindOrCreateGoogle(ctx, "sub-1", "g@example.com")
	require.NoError(t, err)
	assert.True(t, created)

	p2, created, err := s.FindOrCreateGoogle(ctx, "sub-1", "g@example.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, p1.ID, p2.ID)

	// Google sign-in cannot be used with a password.
	_, err = s.SignIn(ctx, "g@example.com", "whatever1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestFindOrCreateGoogle_LinksExistingLocal(t *testing.T) {
	s := NewMemoryService()
	ctx := context.Background()

	local, err := s.SignUp(ctx, "a@example.com", "secret123")
	require.NoError(t, err)

	linked, created, err := s.FindOrCreateGoogle(ctx, "sub-9", "a@example.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, local.ID, linked.ID)

	// Local password still works after linking.
	_, err = s.SignIn(ctx, "a@example.com", "secret123")
	assert.NoError(t, err)
}
