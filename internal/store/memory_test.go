package store

import (
	"context"
	"testing"
	"time"

	"edustream-app/internal/domain/accounts"
	"edustream-app/internal/domain/videos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryVideoStore_OrdersByTitle(t *testing.T) {
	s := NewMemoryVideoStore()
	ctx := context.Background()

	for _, title := range []string{"Zeta", "Alpha", "Mid"} {
		_, err := s.Add(ctx, videos.Video{Title: title, Description: "d", SourceURL: "s", ThumbnailURL: "t"})
		require.NoError(t, err)
	}

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Alpha", all[0].Title)
	assert.Equal(t, "Mid", all[1].Title)
	assert.Equal(t, "Zeta", all[2].Title)
}

func TestMemoryVideoStore_WatchDeliversInitialAndChanges(t *testing.T) {
	s := NewMemoryVideoStore()
	ctx := context.Background()

	var got [][]videos.Video
	cancel := s.Watch(func(snapshot []videos.Video) {
		got = append(got, snapshot)
	})
	defer cancel()

	require.Len(t, got, 1, "initial snapshot delivered on subscribe")
	assert.Empty(t, got[0])

	id, err := s.Add(ctx, videos.Video{Title: "Intro", Description: "d", SourceURL: "s", ThumbnailURL: "t"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Intro", got[1][0].Title)

	require.NoError(t, s.Update(ctx, id, map[string]any{"title": "Intro v2"}))
	require.Len(t, got, 3)
	assert.Equal(t, "Intro v2", got[2][0].Title)

	require.NoError(t, s.Delete(ctx, id))
	require.Len(t, got, 4)
	assert.Empty(t, got[3])
}

func TestMemoryVideoStore_WatchCancelStopsDelivery(t *testing.T) {
	s := NewMemoryVideoStore()
	ctx := context.Background()

	calls := 0
	cancel := s.Watch(func([]videos.Video) { calls++ })
	cancel()

	_, err := s.Add(ctx, videos.Video{Title: "x", Description: "d", SourceURL: "s", ThumbnailURL: "t"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "only the initial snapshot before cancel")
}

func TestMemoryAccountStore_UpdateAppliesLifecycleFields(t *testing.T) {
	s := NewMemoryAccountStore()
	ctx := context.Background()

	trialEnds := time.Now().Add(24 * time.Hour)
	id, err := s.Add(ctx, accounts.Account{
		Email:              "t@example.com",
		Role:               accounts.RoleTeacher,
		SubscriptionStatus: accounts.StatusTrial,
		TrialEndsAt:        &trialEnds,
	})
	require.NoError(t, err)

	ends := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	err = s.Update(ctx, id, map[string]any{
		"subscription_status":  accounts.StatusActive,
		"subscription_ends_at": ends,
		"trial_ends_at":        nil,
	})
	require.NoError(t, err)

	a, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, accounts.StatusActive, a.SubscriptionStatus)
	require.NotNil(t, a.SubscriptionEndsAt)
	assert.Equal(t, ends, *a.SubscriptionEndsAt)
	assert.Nil(t, a.TrialEndsAt)
}

func TestMemoryAccountStore_NotFound(t *testing.T) {
	s := NewMemoryAccountStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetByEmail(ctx, "nope@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, "nope", map[string]any{}), ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "nope"), ErrNotFound)
}
