package discord

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/fitbit-discord-bot/internal/apiclient"
)

// ApplicationCommand is a registered slash command. ID and ApplicationID are
// assigned by Discord.
type ApplicationCommand struct {
	ID            string `json:"id,omitempty"`
	ApplicationID string `json:"application_id,omitempty"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Type          int    `json:"type,omitempty"`
}

func (c *Client) commandsPath() string {
	return "/applications/" + c.cfg.ClientID + "/commands"
}

// Commands lists the application's global commands.
func (c *Client) Commands(ctx context.Context) ([]ApplicationCommand, error) {
	var cmds []ApplicationCommand
	err := c.api.Do(ctx, apiclient.Request{
		Method:        http.MethodGet,
		Path:          c.commandsPath(),
		Authorization: c.botAuthorization(),
	}, &cmds)
	if err != nil {
		return nil, fmt.Errorf("get discord commands: %w", err)
	}
	return cmds, nil
}

// RegisterCommands overwrites the application's global commands. Propagation
// can take minutes.
func (c *Client) RegisterCommands(ctx context.Context, defs []ApplicationCommand) ([]ApplicationCommand, error) {
	var cmds []ApplicationCommand
	err := c.api.Do(ctx, apiclient.Request{
		Method:        http.MethodPut,
		Path:          c.commandsPath(),
		Authorization: c.botAuthorization(),
		JSON:          defs,
	}, &cmds)
	if err != nil {
		return nil, fmt.Errorf("register discord commands: %w", err)
	}
	return cmds, nil
}
