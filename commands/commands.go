package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jrsteele09/fitbit-discord-bot/discord"
	"github.com/jrsteele09/fitbit-discord-bot/internal/errors"
)

const helpColour = 0xa245ff

// Linker is the part of linking.Service the commands use
type Linker interface {
	Disconnect(ctx context.Context, discordUserID string) error
	ProfileMetadata(ctx context.Context, discordUserID string) (discord.Metadata, error)
}

// New returns the registry with connect, disconnect, get-profile and help.
func New(linker Linker, cache *Cache, verificationURL string) *Registry {
	return NewRegistry(
		Connect(verificationURL),
		Disconnect(linker, verificationURL),
		GetProfile(linker, verificationURL),
		Help(cache),
	)
}

// NoConnection is the reply for users without a linked Fitbit account.
func NoConnection(verificationURL string) *discord.InteractionResponse {
	return discord.Message(fmt.Sprintf("🥴 no Fitbit connection info found.  Visit %s to set it up.", verificationURL))
}

func Connect(verificationURL string) Command {
	return Command{
		Name:        "connect",
		Description: "Connect your Fitbit account to your Discord account.",
		Execute: func(_ context.Context, _ *discord.Interaction) (*discord.InteractionResponse, error) {
			return discord.Message(fmt.Sprintf("Visit %s to connect your Fitbit account.", verificationURL)), nil
		},
	}
}

// Disconnect pushes empty metadata and revokes both accounts' tokens.
func Disconnect(linker Linker, verificationURL string) Command {
	return Command{
		Name:        "disconnect",
		Description: "Clear all associated Fitbit data and disconnect your account.",
		Execute: func(ctx context.Context, interaction *discord.Interaction) (*discord.InteractionResponse, error) {
			err := linker.Disconnect(ctx, interaction.UserID())
			if errors.Is(err, errors.ErrNotFound) {
				return NoConnection(verificationURL), nil
			}
			if err != nil {
				return nil, err
			}
			return discord.Message("Fitbit account disconnected."), nil
		},
	}
}

func GetProfile(linker Linker, verificationURL string) Command {
	return Command{
		Name:        "get-profile",
		Description: "Get your Fitbit profile.",
		Execute: func(ctx context.Context, interaction *discord.Interaction) (*discord.InteractionResponse, error) {
			metadata, err := linker.ProfileMetadata(ctx, interaction.UserID())
			if errors.Is(err, errors.ErrNotFound) {
				return NoConnection(verificationURL), nil
			}
			if err != nil {
				return nil, err
			}

			data, err := json.MarshalIndent(metadata, "", "  ")
			if err != nil {
				return nil, errors.Wrapf(err, "marshal profile metadata")
			}
			return discord.Message("```json\n" + string(data) + "```"), nil
		},
	}
}

// Help lists the registered commands as clickable command mentions.
func Help(cache *Cache) Command {
	return Command{
		Name:        "help",
		Description: "Get help with the bot.",
		Execute: func(ctx context.Context, _ *discord.Interaction) (*discord.InteractionResponse, error) {
			cmds, err := cache.Get(ctx)
			if err != nil {
				return nil, errors.Wrapf(err, "load commands for help")
			}

			refs := make([]string, 0, len(cmds))
			for _, cmd := range cmds {
				refs = append(refs, fmt.Sprintf("- </%s:%s>: %s", cmd.Name, cmd.ID, cmd.Description))
			}
			return &discord.InteractionResponse{
				Type: discord.InteractionResponseChannelMessageWithSource,
				Data: &discord.ResponseData{
					Flags: discord.MessageFlagEphemeral,
					Embeds: []discord.Embed{{
						Title:       "Oh hai, I'm the Discord FitBit Bot.",
						Description: "I do a bunch of things with the FitBit API.\n\n" + strings.Join(refs, "\n"),
						Color:       helpColour,
					}},
				},
			}, nil
		},
	}
}
