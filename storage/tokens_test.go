package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/fitbit-discord-bot/storage"
	"github.com/jrsteele09/fitbit-discord-bot/storage/memstore"
	"github.com/stretchr/testify/require"
)

func TestTokens_DiscordTokens(t *testing.T) {
	ctx := context.Background()
	tokens := storage.NewTokens(memstore.New())

	_, found, err := tokens.GetDiscordTokens(ctx, "D456")
	require.NoError(t, err)
	require.False(t, found)

	want := storage.DiscordTokens{AccessToken: "access", RefreshToken: "refresh", ExpiresAt: 1700000000000}
	require.NoError(t, tokens.PutDiscordTokens(ctx, "D456", want))

	got, found, err := tokens.GetDiscordTokens(ctx, "D456")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, want, got)

	require.NoError(t, tokens.DeleteDiscordTokens(ctx, "D456"))
	_, found, err = tokens.GetDiscordTokens(ctx, "D456")
	require.NoError(t, err)
	require.False(t, found)
}

func TestTokens_FitbitTokensAndLink(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	tokens := storage.NewTokens(store)

	want := storage.FitbitTokens{
		CodeVerifier:  "verifier",
		AccessToken:   "access",
		RefreshToken:  "refresh",
		ExpiresAt:     1700000000000,
		DiscordUserID: "D456",
	}
	require.NoError(t, tokens.PutFitbitTokens(ctx, "F123", want))
	require.NoError(t, tokens.SetLinkedFitbitUserID(ctx, "D456", "F123"))

	got, found, err := tokens.GetFitbitTokens(ctx, "F123")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, want, got)

	fitbitUserID, found, err := tokens.GetLinkedFitbitUserID(ctx, "D456")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "F123", fitbitUserID)

	require.ElementsMatch(t, []string{"fitbit-F123", "discord-link-D456"}, store.Keys())

	require.NoError(t, tokens.DeleteLinkedFitbitUser(ctx, "D456"))
	_, found, err = tokens.GetLinkedFitbitUserID(ctx, "D456")
	require.NoError(t, err)
	require.False(t, found)
}

func TestTokens_State(t *testing.T) {
	ctx := context.Background()
	tokens := storage.NewTokens(memstore.New())
	data := storage.StateData{CodeVerifier: "verifier", DiscordUserID: "D456"}

	t.Run("consumed once", func(t *testing.T) {
		require.NoError(t, tokens.PutState(ctx, "state-1", data))

		got, found, err := tokens.ConsumeState(ctx, "state-1")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, data, got)

		_, found, err = tokens.ConsumeState(ctx, "state-1")
		require.NoError(t, err)
		require.False(t, found)
	})

	t.Run("expires after the state ttl", func(t *testing.T) {
		now := time.Now()
		memstore.NowTimeFunc = func() time.Time { return now }
		defer func() { memstore.NowTimeFunc = time.Now }()

		require.NoError(t, tokens.PutState(ctx, "state-2", data))
		now = now.Add(storage.StateTTL)

		_, found, err := tokens.ConsumeState(ctx, "state-2")
		require.NoError(t, err)
		require.False(t, found)
	})
}
