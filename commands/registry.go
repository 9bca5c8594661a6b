// Package commands implements the bot's slash commands.
package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jrsteele09/fitbit-discord-bot/discord"
	"github.com/jrsteele09/fitbit-discord-bot/internal/errors"
)

// ExecuteFunc runs a command for an interaction
type ExecuteFunc func(ctx context.Context, interaction *discord.Interaction) (*discord.InteractionResponse, error)

type Command struct {
	Name        string
	Description string
	Execute     ExecuteFunc
}

// Registry looks commands up by case-insensitive name.
type Registry struct {
	commands map[string]Command
	order    []string
}

func NewRegistry(cmds ...Command) *Registry {
	r := &Registry{commands: make(map[string]Command, len(cmds))}
	for _, cmd := range cmds {
		r.Register(cmd)
	}
	return r
}

func (r *Registry) Register(cmd Command) {
	key := strings.ToLower(cmd.Name)
	if _, exists := r.commands[key]; !exists {
		r.order = append(r.order, key)
	}
	r.commands[key] = cmd
}

func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.commands[strings.ToLower(name)]
	return cmd, ok
}

// Execute runs the command named by the interaction's data.
func (r *Registry) Execute(ctx context.Context, interaction *discord.Interaction) (*discord.InteractionResponse, error) {
	if interaction.Data == nil {
		return nil, errors.ErrUnknownCommand
	}
	cmd, ok := r.Get(interaction.Data.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownCommand, interaction.Data.Name)
	}
	return cmd.Execute(ctx, interaction)
}

// Definitions returns the commands in registration order, ready for
// discord.Client.RegisterCommands.
func (r *Registry) Definitions() []discord.ApplicationCommand {
	defs := make([]discord.ApplicationCommand, 0, len(r.order))
	for _, key := range r.order {
		cmd := r.commands[key]
		defs = append(defs, discord.ApplicationCommand{Name: cmd.Name, Description: cmd.Description, Type: 1})
	}
	return defs
}

// Names returns the registered names sorted
func (r *Registry) Names() []string {
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}
