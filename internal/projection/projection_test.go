package projection

import (
	"context"
	"testing"

	"edustream-app/internal/domain/accounts"
	"edustream-app/internal/domain/videos"
	"edustream-app/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogue_TracksStoreInTitleOrder(t *testing.T) {
	vs := store.NewMemoryVideoStore()
	as := store.NewMemoryAccountStore()
	stop := Init(vs, as)
	defer stop()

	ctx := context.Background()
	assert.Empty(t, Catalogue.Videos())

	_, err := vs.Add(ctx, videos.Video{Title: "Derivadas", Description: "d", SourceURL: "s", ThumbnailURL: "t"})
	require.NoError(t, err)
	_, err = vs.Add(ctx, videos.Video{Title: "Algebra", Description: "d", SourceURL: "s", ThumbnailURL: "t"})
	require.NoError(t, err)

	got := Catalogue.Videos()
	require.Len(t, got, 2)
	assert.Equal(t, "Algebra", got[0].Title)
	assert.Equal(t, "Derivadas", got[1].Title)
}

func TestCatalogue_StopsOnCancel(t *testing.T) {
	vs := store.NewMemoryVideoStore()
	as := store.NewMemoryAccountStore()
	stop := Init(vs, as)

	ctx := context.Background()
	_, err := vs.Add(ctx, videos.Video{Title: "One", Description: "d", SourceURL: "s", ThumbnailURL: "t"})
	require.NoError(t, err)
	require.Len(t, Catalogue.Videos(), 1)

	stop()

	_, err = vs.Add(ctx, videos.Video{Title: "Two", Description: "d", SourceURL: "s", ThumbnailURL: "t"})
	require.NoError(t, err)
	assert.Len(t, Catalogue.Videos(), 1, "no updates after release")
}

func TestDirectory_OnlyLiveAfterEnsure(t *testing.T) {
	vs := store.NewMemoryVideoStore()
	as := store.NewMemoryAccountStore()
	stop := Init(vs, as)
	defer stop()

	ctx := context.Background()
	_, err := as.Add(ctx, accounts.Account{Email: "t@example.com", Role: accounts.RoleTeacher, SubscriptionStatus: accounts.StatusNone})
	require.NoError(t, err)

	assert.Empty(t, Directory.Accounts(), "no feed before an admin surface asks")

	Directory.Ensure()
	require.Len(t, Directory.Accounts(), 1)

	_, err = as.Add(ctx, accounts.Account{Email: "u@example.com", Role: accounts.RoleTeacher, SubscriptionStatus: accounts.StatusNone})
	require.NoError(t, err)
	assert.Len(t, Directory.Accounts(), 2)

	Directory.Ensure() // idempotent
	assert.Len(t, Directory.Accounts(), 2)
}

func TestDirectory_StopReleasesFeed(t *testing.T) {
	vs := store.NewMemoryVideoStore()
	as := store.NewMemoryAccountStore()
	stop := Init(vs, as)
	defer stop()

	ctx := context.Background()
	Directory.Ensure()

	_, err := as.Add(ctx, accounts.Account{Email: "t@example.com", Role: accounts.RoleTeacher, SubscriptionStatus: accounts.StatusNone})
	require.NoError(t, err)
	require.Len(t, Directory.Accounts(), 1)

	Directory.Stop()

	_, err = as.Add(ctx, accounts.Account{Email: "u@example.com", Role: accounts.RoleTeacher, SubscriptionStatus: accounts.StatusNone})
	require.NoError(t, err)
	assert.Len(t, Directory.Accounts(), 1)
}
