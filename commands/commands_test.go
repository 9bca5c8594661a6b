package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jrsteele09/fitbit-discord-bot/commands"
	"github.com/jrsteele09/fitbit-discord-bot/discord"
	apperrors "github.com/jrsteele09/fitbit-discord-bot/internal/errors"
	"github.com/stretchr/testify/require"
)

const verificationURL = "https://bot.example.com/verified-role"

type fakeLinker struct {
	disconnectErr error
	metadata      discord.Metadata
	profileErr    error
	disconnected  []string
}

func (f *fakeLinker) Disconnect(_ context.Context, discordUserID string) error {
	f.disconnected = append(f.disconnected, discordUserID)
	return f.disconnectErr
}

func (f *fakeLinker) ProfileMetadata(_ context.Context, _ string) (discord.Metadata, error) {
	return f.metadata, f.profileErr
}

type fakeLister struct {
	calls int
	cmds  []discord.ApplicationCommand
	err   error
}

func (f *fakeLister) Commands(_ context.Context) ([]discord.ApplicationCommand, error) {
	f.calls++
	return f.cmds, f.err
}

func interaction(name string) *discord.Interaction {
	return &discord.Interaction{
		Type:   discord.InteractionTypeApplicationCommand,
		Data:   &discord.InteractionData{Name: name},
		Member: &discord.Member{User: &discord.User{ID: "D456"}},
	}
}

func newRegistry(linker *fakeLinker, lister *fakeLister) *commands.Registry {
	return commands.New(linker, commands.NewCache(lister), verificationURL)
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(&fakeLinker{}, &fakeLister{})

	require.Equal(t, []string{"connect", "disconnect", "get-profile", "help"}, r.Names())

	defs := r.Definitions()
	require.Len(t, defs, 4)
	require.Equal(t, "connect", defs[0].Name)
	require.Equal(t, "help", defs[3].Name)

	resp, err := r.Execute(ctx, interaction("CONNECT"))
	require.NoError(t, err)
	require.Equal(t, "Visit https://bot.example.com/verified-role to connect your Fitbit account.", resp.Data.Content)

	_, err = r.Execute(ctx, interaction("dance"))
	require.ErrorIs(t, err, apperrors.ErrUnknownCommand)
}

func TestDisconnect(t *testing.T) {
	ctx := context.Background()

	t.Run("disconnected", func(t *testing.T) {
		linker := &fakeLinker{}
		resp, err := newRegistry(linker, &fakeLister{}).Execute(ctx, interaction("disconnect"))
		require.NoError(t, err)
		require.Equal(t, "Fitbit account disconnected.", resp.Data.Content)
		require.Equal(t, []string{"D456"}, linker.disconnected)
	})

	t.Run("no connection", func(t *testing.T) {
		linker := &fakeLinker{disconnectErr: apperrors.ErrNotFound}
		resp, err := newRegistry(linker, &fakeLister{}).Execute(ctx, interaction("disconnect"))
		require.NoError(t, err)
		require.Equal(t, "🥴 no Fitbit connection info found.  Visit https://bot.example.com/verified-role to set it up.", resp.Data.Content)
	})

	t.Run("failure", func(t *testing.T) {
		linker := &fakeLinker{disconnectErr: errors.New("boom")}
		_, err := newRegistry(linker, &fakeLister{}).Execute(ctx, interaction("disconnect"))
		require.Error(t, err)
	})
}

func TestGetProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("fenced json", func(t *testing.T) {
		steps := "9000"
		linker := &fakeLinker{metadata: discord.Metadata{discord.MetadataAverageDailySteps: &steps, discord.MetadataIsCoach: nil}}
		resp, err := newRegistry(linker, &fakeLister{}).Execute(ctx, interaction("get-profile"))
		require.NoError(t, err)
		require.Equal(t, "```json\n{\n  \"averagedailysteps\": \"9000\",\n  \"iscoach\": null\n}```", resp.Data.Content)
	})

	t.Run("no connection", func(t *testing.T) {
		linker := &fakeLinker{profileErr: apperrors.ErrNotFound}
		resp, err := newRegistry(linker, &fakeLister{}).Execute(ctx, interaction("get-profile"))
		require.NoError(t, err)
		require.Contains(t, resp.Data.Content, "no Fitbit connection info found")
	})
}

func TestHelp(t *testing.T) {
	ctx := context.Background()
	lister := &fakeLister{cmds: []discord.ApplicationCommand{
		{ID: "111", Name: "connect", Description: "Connect your Fitbit account to your Discord account."},
		{ID: "222", Name: "help", Description: "Get help with the bot."},
	}}
	r := newRegistry(&fakeLinker{}, lister)

	resp, err := r.Execute(ctx, interaction("help"))
	require.NoError(t, err)
	require.Equal(t, discord.InteractionResponseChannelMessageWithSource, resp.Type)
	require.Equal(t, discord.MessageFlagEphemeral, resp.Data.Flags)
	require.Len(t, resp.Data.Embeds, 1)

	embed := resp.Data.Embeds[0]
	require.Equal(t, "Oh hai, I'm the Discord FitBit Bot.", embed.Title)
	require.Equal(t, 0xa245ff, embed.Color)
	require.Contains(t, embed.Description, "- </connect:111>: Connect your Fitbit account to your Discord account.")
	require.Contains(t, embed.Description, "- </help:222>: Get help with the bot.")

	_, err = r.Execute(ctx, interaction("help"))
	require.NoError(t, err)
	require.Equal(t, 1, lister.calls)
}

func TestCache(t *testing.T) {
	ctx := context.Background()

	t.Run("load failure is retried on get", func(t *testing.T) {
		lister := &fakeLister{err: errors.New("discord down")}
		cache := commands.NewCache(lister)
		cache.Load(ctx)

		lister.err = nil
		lister.cmds = []discord.ApplicationCommand{{ID: "1", Name: "help"}}
		cmds, err := cache.Get(ctx)
		require.NoError(t, err)
		require.Len(t, cmds, 1)
		require.Equal(t, 2, lister.calls)
	})

	t.Run("refresh replaces", func(t *testing.T) {
		lister := &fakeLister{cmds: []discord.ApplicationCommand{{ID: "1", Name: "help"}}}
		cache := commands.NewCache(lister)
		cache.Load(ctx)

		lister.cmds = []discord.ApplicationCommand{{ID: "1", Name: "help"}, {ID: "2", Name: "connect"}}
		cmds, err := cache.Get(ctx)
		require.NoError(t, err)
		require.Len(t, cmds, 1)

		_, err = cache.Refresh(ctx)
		require.NoError(t, err)
		cmds, err = cache.Get(ctx)
		require.NoError(t, err)
		require.Len(t, cmds, 2)
	})
}
