package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daykeep/daykeep/internal/profile"
	"github.com/daykeep/daykeep/store"
	"github.com/daykeep/daykeep/store/storetest"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New(storetest.NewMemoryDriver(), &profile.Profile{Mode: "dev"})
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestBuildProfileTextSkipsEmptyAnswers(t *testing.T) {
	text := store.BuildProfileText(&store.Onboarding{
		Occupation: "student",
		Traits:     "organized,curious",
	})
	require.Equal(t, "- Occupation: student\n- Traits: organized,curious", text)

	require.Empty(t, store.BuildProfileText(&store.Onboarding{}))
}

func TestUpsertOnboardingRegeneratesProfile(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	first, err := st.UpsertOnboarding(ctx, &store.Onboarding{
		UserID:     1,
		Occupation: "student",
		Profile:    "caller-supplied garbage",
	})
	require.NoError(t, err)
	require.Equal(t, "- Occupation: student", first.Profile)

	// A re-upsert replaces the answers wholesale; nothing from the first
	// round survives unless resubmitted.
	second, err := st.UpsertOnboarding(ctx, &store.Onboarding{
		UserID:   1,
		Location: "Berlin",
	})
	require.NoError(t, err)
	require.Equal(t, "- Location: Berlin", second.Profile)

	got, err := st.GetOnboarding(ctx, &store.FindOnboarding{UserID: 1})
	require.NoError(t, err)
	require.Equal(t, "- Location: Berlin", got.Profile)
	require.Empty(t, got.Occupation)
}

func TestGetOnboardingMissingUser(t *testing.T) {
	st := newTestStore(t)

	got, err := st.GetOnboarding(context.Background(), &store.FindOnboarding{UserID: 42})
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestUserCacheFollowsUpdates(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	user, err := st.CreateUser(ctx, &store.User{UID: "user-1", Nickname: "Sam", Timezone: "UTC"})
	require.NoError(t, err)

	nickname := "Sammy"
	_, err = st.UpdateUser(ctx, &store.UpdateUser{ID: user.ID, Nickname: &nickname})
	require.NoError(t, err)

	got, err := st.GetUser(ctx, &store.FindUser{ID: &user.ID})
	require.NoError(t, err)
	require.Equal(t, "Sammy", got.Nickname)
}
