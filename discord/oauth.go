package discord

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/jrsteele09/fitbit-discord-bot/internal/apiclient"
	"github.com/jrsteele09/fitbit-discord-bot/internal/oauthutil"
	"github.com/jrsteele09/fitbit-discord-bot/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// User is the Discord account behind an access token
type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
}

// CurrentAuthorization is the response of GET /oauth2/@me
type CurrentAuthorization struct {
	Scopes  []string `json:"scopes"`
	Expires string   `json:"expires"`
	User    *User    `json:"user,omitempty"`
}

// AuthorizationURL builds the consent dialog URL. The returned state must be
// kept by the caller and compared with the state Discord sends back.
func (c *Client) AuthorizationURL() (string, string) {
	state := uuid.New().String()
	return c.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "consent")), state
}

// ExchangeCode trades the code from the consent redirect for tokens.
func (c *Client) ExchangeCode(ctx context.Context, code string) (oauthutil.TokenResult, error) {
	tok, err := c.oauth.Exchange(oauthutil.WithHTTPClient(ctx, c.httpClient), code)
	if err != nil {
		return oauthutil.TokenResult{}, fmt.Errorf("exchange discord code: %w", oauthutil.AsAuthError(providerName, err))
	}
	return oauthutil.FromToken(tok, c.nowFunc()), nil
}

// UserData fetches the authorization, including the user, behind accessToken.
func (c *Client) UserData(ctx context.Context, accessToken string) (*CurrentAuthorization, error) {
	var me CurrentAuthorization
	err := c.api.Do(ctx, apiclient.Request{
		Method:        http.MethodGet,
		Path:          "/oauth2/@me",
		Authorization: apiclient.Bearer(accessToken),
	}, &me)
	if err != nil {
		return nil, fmt.Errorf("get discord user data: %w", err)
	}
	if me.User == nil || me.User.ID == "" {
		return nil, fmt.Errorf("get discord user data: response has no user")
	}
	return &me, nil
}

// AccessToken returns rec's access token while it is valid. Once expired it
// performs a refresh-token grant, stores the refreshed record and updates rec
// before returning the new token.
func (c *Client) AccessToken(ctx context.Context, userID string, rec *storage.DiscordTokens) (string, error) {
	if !oauthutil.Expired(c.nowFunc(), rec.ExpiresAt) {
		return rec.AccessToken, nil
	}

	res, err := c.refresher.Do(userID, func() (oauthutil.TokenResult, error) {
		log.Info().Str("discordUserId", userID).Msg("Discord access token expired, refreshing")

		src := c.oauth.TokenSource(oauthutil.WithHTTPClient(ctx, c.httpClient), &oauth2.Token{RefreshToken: rec.RefreshToken})
		tok, err := src.Token()
		if err != nil {
			return oauthutil.TokenResult{}, fmt.Errorf("refresh discord token: %w", oauthutil.AsAuthError(providerName, err))
		}

		res := oauthutil.FromToken(tok, c.nowFunc())
		updated := storage.DiscordTokens{
			AccessToken:  res.AccessToken,
			RefreshToken: res.RefreshToken,
			ExpiresAt:    res.ExpiresAt,
		}
		if err := c.tokens.PutDiscordTokens(ctx, userID, updated); err != nil {
			return oauthutil.TokenResult{}, fmt.Errorf("store refreshed discord token: %w", err)
		}
		return res, nil
	})
	if err != nil {
		return "", err
	}

	rec.AccessToken = res.AccessToken
	rec.RefreshToken = res.RefreshToken
	rec.ExpiresAt = res.ExpiresAt
	return rec.AccessToken, nil
}

// RevokeAccess revokes the user's refresh token and deletes the stored tokens.
// The revoke call is best effort, the local record is always removed.
func (c *Client) RevokeAccess(ctx context.Context, userID string) error {
	rec, found, err := c.tokens.GetDiscordTokens(ctx, userID)
	if err != nil {
		return fmt.Errorf("load discord tokens: %w", err)
	}

	if found {
		err := c.api.Do(ctx, apiclient.Request{
			Method: http.MethodPost,
			Path:   "/oauth2/token/revoke",
			Form: url.Values{
				"client_id":       {c.cfg.ClientID},
				"client_secret":   {c.cfg.ClientSecret},
				"token":           {rec.RefreshToken},
				"token_type_hint": {"refresh_token"},
			},
		}, nil)
		if err != nil {
			log.Warn().Err(err).Str("discordUserId", userID).Msg("Discord token revoke failed")
		}
	}

	if err := c.tokens.DeleteDiscordTokens(ctx, userID); err != nil {
		return fmt.Errorf("delete discord tokens: %w", err)
	}
	return nil
}
