package fitbit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jrsteele09/fitbit-discord-bot/internal/apiclient"
	"github.com/jrsteele09/fitbit-discord-bot/internal/oauthutil"
	"github.com/jrsteele09/fitbit-discord-bot/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const stateBytes = 20

// GeneratePKCEPair returns a code verifier and its S256 challenge,
// base64url(sha256(verifier)) without padding.
func GeneratePKCEPair() (string, string) {
	verifier := oauth2.GenerateVerifier()
	return verifier, oauth2.S256ChallengeFromVerifier(verifier)
}

// AuthorizationURL builds the Fitbit consent URL along with the state and the
// code verifier the caller must keep for the token exchange.
func (c *Client) AuthorizationURL() (authURL, state, verifier string, err error) {
	raw := make([]byte, stateBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", "", fmt.Errorf("generate fitbit state: %w", err)
	}
	state = hex.EncodeToString(raw)

	verifier, _ = GeneratePKCEPair()
	authURL = c.oauth.AuthCodeURL(state,
		oauth2.S256ChallengeOption(verifier),
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	return authURL, state, verifier, nil
}

// ExchangeCode trades an authorization code and its PKCE verifier for tokens.
// The Fitbit user id is taken from the token response.
func (c *Client) ExchangeCode(ctx context.Context, code, verifier string) (oauthutil.TokenResult, error) {
	tok, err := c.oauth.Exchange(oauthutil.WithHTTPClient(ctx, c.httpClient), code,
		oauth2.VerifierOption(verifier),
		oauth2.SetAuthURLParam("client_id", c.cfg.ClientID),
	)
	if err != nil {
		return oauthutil.TokenResult{}, fmt.Errorf("exchange fitbit code: %w", oauthutil.AsAuthError(providerName, err))
	}
	res := oauthutil.FromToken(tok, c.nowFunc())
	if res.UserID == "" {
		return oauthutil.TokenResult{}, fmt.Errorf("exchange fitbit code: token response has no user_id")
	}
	return res, nil
}

// AccessToken returns a usable access token for the Fitbit user, refreshing and
// storing rec first when it has expired.
func (c *Client) AccessToken(ctx context.Context, userID string, rec *storage.FitbitTokens) (string, error) {
	if !oauthutil.Expired(c.nowFunc(), rec.ExpiresAt) {
		return rec.AccessToken, nil
	}

	res, err := c.refresher.Do(userID, func() (oauthutil.TokenResult, error) {
		log.Info().Str("fitbitUserId", userID).Msg("Fitbit access token expired, refreshing")

		src := c.oauth.TokenSource(oauthutil.WithHTTPClient(ctx, c.httpClient), &oauth2.Token{RefreshToken: rec.RefreshToken})
		tok, err := src.Token()
		if err != nil {
			return oauthutil.TokenResult{}, fmt.Errorf("refresh fitbit token: %w", oauthutil.AsAuthError(providerName, err))
		}

		res := oauthutil.FromToken(tok, c.nowFunc())
		updated := *rec
		updated.AccessToken = res.AccessToken
		updated.RefreshToken = res.RefreshToken
		updated.ExpiresAt = res.ExpiresAt
		if err := c.tokens.PutFitbitTokens(ctx, userID, updated); err != nil {
			return oauthutil.TokenResult{}, fmt.Errorf("store refreshed fitbit token: %w", err)
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
// A failed revoke is logged and does not stop the local delete.
func (c *Client) RevokeAccess(ctx context.Context, userID string) error {
	rec, found, err := c.tokens.GetFitbitTokens(ctx, userID)
	if err != nil {
		return fmt.Errorf("load fitbit tokens: %w", err)
	}

	if found {
		err := c.api.Do(ctx, apiclient.Request{
			Method:        http.MethodPost,
			Path:          "/oauth2/revoke",
			BasicUser:     c.cfg.ClientID,
			BasicPassword: c.cfg.ClientSecret,
			Form:          url.Values{"token": {rec.RefreshToken}},
		}, nil)
		if err != nil {
			log.Warn().Err(err).Str("fitbitUserId", userID).Msg("Fitbit token revoke failed")
		}
	}

	if err := c.tokens.DeleteFitbitTokens(ctx, userID); err != nil {
		return fmt.Errorf("delete fitbit tokens: %w", err)
	}
	return nil
}
