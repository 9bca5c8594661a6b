package discord

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/fitbit-discord-bot/internal/apiclient"
	"github.com/jrsteele09/fitbit-discord-bot/storage"
)

// Metadata is the role connection metadata pushed for a user. A nil value is
// sent as JSON null. An empty map clears the user's verified role.
type Metadata map[string]*string

// Metadata keys registered in the application's role connection schema
const (
	MetadataAverageDailySteps = "averagedailysteps"
	MetadataAmbassador        = "ambassador"
	MetadataMemberSince       = "membersince"
	MetadataIsCoach           = "iscoach"
)

// MetadataType is the comparison Discord applies to a metadata field
type MetadataType int

const (
	MetadataIntegerLessThanOrEqual MetadataType = iota + 1
	MetadataIntegerGreaterThanOrEqual
	MetadataIntegerEqual
	MetadataIntegerNotEqual
	MetadataDatetimeLessThanOrEqual
	MetadataDatetimeGreaterThanOrEqual
	MetadataBooleanEqual
	MetadataBooleanNotEqual
)

type MetadataField struct {
	Key         string       `json:"key"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Type        MetadataType `json:"type"`
}

// MetadataSchema is the schema registered once for the application
var MetadataSchema = []MetadataField{
	{
		Key:         MetadataAverageDailySteps,
		Name:        "Average Daily Steps",
		Description: "Average Daily Steps Greater Than",
		Type:        MetadataIntegerGreaterThanOrEqual,
	},
	{
		Key:         MetadataAmbassador,
		Name:        "Fitbit Ambassador",
		Description: "Is a Fitbit Ambassador",
		Type:        MetadataBooleanEqual,
	},
	{
		Key:         MetadataMemberSince,
		Name:        "Member Since",
		Description: "Days since becoming a member",
		Type:        MetadataDatetimeGreaterThanOrEqual,
	},
	{
		Key:         MetadataIsCoach,
		Name:        "Is Coach",
		Description: "Is a Fitbit coach",
		Type:        MetadataBooleanEqual,
	},
}

// NullMetadata has every schema key present with a null value.
func NullMetadata() Metadata {
	md := make(Metadata, len(MetadataSchema))
	for _, f := range MetadataSchema {
		md[f.Key] = nil
	}
	return md
}

// RoleConnection is the body of the user role connection endpoint
type RoleConnection struct {
	PlatformName     string   `json:"platform_name,omitempty"`
	PlatformUsername string   `json:"platform_username,omitempty"`
	Metadata         Metadata `json:"metadata"`
}

func (c *Client) roleConnectionPath() string {
	return "/users/@me/applications/" + c.cfg.ClientID + "/role-connection"
}

func (c *Client) schemaPath() string {
	return "/applications/" + c.cfg.ClientID + "/role-connections/metadata"
}

// PushMetadata replaces the user's role connection metadata.
func (c *Client) PushMetadata(ctx context.Context, userID string, rec *storage.DiscordTokens, metadata Metadata) error {
	accessToken, err := c.AccessToken(ctx, userID, rec)
	if err != nil {
		return err
	}
	if metadata == nil {
		metadata = Metadata{}
	}

	err = c.api.Do(ctx, apiclient.Request{
		Method:        http.MethodPut,
		Path:          c.roleConnectionPath(),
		Authorization: apiclient.Bearer(accessToken),
		JSON:          RoleConnection{PlatformName: PlatformName, Metadata: metadata},
	}, nil)
	if err != nil {
		return fmt.Errorf("push discord metadata: %w", err)
	}
	return nil
}

// Metadata fetches the role connection currently stored for the user.
func (c *Client) Metadata(ctx context.Context, userID string, rec *storage.DiscordTokens) (*RoleConnection, error) {
	accessToken, err := c.AccessToken(ctx, userID, rec)
	if err != nil {
		return nil, err
	}

	var conn RoleConnection
	err = c.api.Do(ctx, apiclient.Request{
		Method:        http.MethodGet,
		Path:          c.roleConnectionPath(),
		Authorization: apiclient.Bearer(accessToken),
	}, &conn)
	if err != nil {
		return nil, fmt.Errorf("get discord metadata: %w", err)
	}
	return &conn, nil
}

// MetadataSchema fetches the registered schema. Uses the bot token.
func (c *Client) MetadataSchema(ctx context.Context) ([]MetadataField, error) {
	var fields []MetadataField
	err := c.api.Do(ctx, apiclient.Request{
		Method:        http.MethodGet,
		Path:          c.schemaPath(),
		Authorization: c.botAuthorization(),
	}, &fields)
	if err != nil {
		return nil, fmt.Errorf("get metadata schema: %w", err)
	}
	return fields, nil
}

// RegisterMetadataSchema registers MetadataSchema for the application. This is a
// one time administrative action.
func (c *Client) RegisterMetadataSchema(ctx context.Context) ([]MetadataField, error) {
	var fields []MetadataField
	err := c.api.Do(ctx, apiclient.Request{
		Method:        http.MethodPut,
		Path:          c.schemaPath(),
		Authorization: c.botAuthorization(),
		JSON:          MetadataSchema,
	}, &fields)
	if err != nil {
		return nil, fmt.Errorf("register metadata schema: %w", err)
	}
	return fields, nil
}
