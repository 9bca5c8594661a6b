// Package linking runs the Discord to Fitbit account linking flow and keeps the
// Discord role connection metadata in sync with the Fitbit profile.
package linking

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/jrsteele09/fitbit-discord-bot/discord"
	"github.com/jrsteele09/fitbit-discord-bot/fitbit"
	"github.com/jrsteele09/fitbit-discord-bot/internal/errors"
	"github.com/jrsteele09/fitbit-discord-bot/internal/oauthutil"
	"github.com/jrsteele09/fitbit-discord-bot/storage"
	"github.com/rs/zerolog/log"
)

// DiscordAPI is the part of *discord.Client the service uses
type DiscordAPI interface {
	AuthorizationURL() (string, string)
	ExchangeCode(ctx context.Context, code string) (oauthutil.TokenResult, error)
	UserData(ctx context.Context, accessToken string) (*discord.CurrentAuthorization, error)
	PushMetadata(ctx context.Context, userID string, rec *storage.DiscordTokens, metadata discord.Metadata) error
	RevokeAccess(ctx context.Context, userID string) error
}

// FitbitAPI is the part of *fitbit.Client the service uses
type FitbitAPI interface {
	AuthorizationURL() (authURL, state, verifier string, err error)
	ExchangeCode(ctx context.Context, code, verifier string) (oauthutil.TokenResult, error)
	CreateSubscription(ctx context.Context, userID string, rec *storage.FitbitTokens) error
	Profile(ctx context.Context, userID string, rec *storage.FitbitTokens) (*fitbit.Profile, error)
	RecentActivities(ctx context.Context, userID string, rec *storage.FitbitTokens) ([]fitbit.Activity, error)
	RevokeAccess(ctx context.Context, userID string) error
}

var (
	_ DiscordAPI = (*discord.Client)(nil)
	_ FitbitAPI  = (*fitbit.Client)(nil)
)

type Service struct {
	discord DiscordAPI
	fitbit  FitbitAPI
	tokens  *storage.Tokens
}

func NewService(discordAPI DiscordAPI, fitbitAPI FitbitAPI, tokens *storage.Tokens) *Service {
	return &Service{
		discord: discordAPI,
		fitbit:  fitbitAPI,
		tokens:  tokens,
	}
}

// StartLink returns the Discord consent URL and the state the caller must hold
// on to until the Discord callback.
func (s *Service) StartLink() (string, string) {
	return s.discord.AuthorizationURL()
}

// CompleteDiscordLogin handles the Discord redirect. It stores the user's
// Discord tokens, opens a Fitbit linking attempt and returns the Fitbit consent
// URL. Nothing is written when the returned state does not match.
func (s *Service) CompleteDiscordLogin(ctx context.Context, code, returnedState, expectedState string) (string, error) {
	if expectedState == "" || subtle.ConstantTimeCompare([]byte(returnedState), []byte(expectedState)) != 1 {
		return "", errors.ErrStateMismatch
	}

	tokens, err := s.discord.ExchangeCode(ctx, code)
	if err != nil {
		return "", err
	}

	me, err := s.discord.UserData(ctx, tokens.AccessToken)
	if err != nil {
		return "", err
	}
	discordUserID := me.User.ID

	err = s.tokens.PutDiscordTokens(ctx, discordUserID, storage.DiscordTokens{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
	})
	if err != nil {
		return "", errors.Wrapf(err, "store discord tokens for %s", discordUserID)
	}

	fitbitURL, state, verifier, err := s.fitbit.AuthorizationURL()
	if err != nil {
		return "", err
	}
	err = s.tokens.PutState(ctx, state, storage.StateData{
		CodeVerifier:  verifier,
		DiscordUserID: discordUserID,
	})
	if err != nil {
		return "", errors.Wrapf(err, "store fitbit state for %s", discordUserID)
	}

	log.Info().Str("discordUserId", discordUserID).Msg("Discord login complete, sending user to Fitbit")
	return fitbitURL, nil
}

// CompleteFitbitLogin handles the Fitbit redirect: it stores the Fitbit tokens,
// subscribes to the user's updates, pushes their metadata and records the link.
// Running it again for the same accounts overwrites the previous records.
func (s *Service) CompleteFitbitLogin(ctx context.Context, code, state string) (string, error) {
	stateData, found, err := s.tokens.ConsumeState(ctx, state)
	if err != nil {
		return "", errors.Wrapf(err, "load fitbit state")
	}
	if !found {
		return "", errors.ErrStateNotFound
	}

	tokens, err := s.fitbit.ExchangeCode(ctx, code, stateData.CodeVerifier)
	if err != nil {
		return "", err
	}
	fitbitUserID := tokens.UserID

	rec := storage.FitbitTokens{
		CodeVerifier:  stateData.CodeVerifier,
		AccessToken:   tokens.AccessToken,
		RefreshToken:  tokens.RefreshToken,
		ExpiresAt:     tokens.ExpiresAt,
		DiscordUserID: stateData.DiscordUserID,
	}
	if err := s.tokens.PutFitbitTokens(ctx, fitbitUserID, rec); err != nil {
		return "", errors.Wrapf(err, "store fitbit tokens for %s", fitbitUserID)
	}

	if err := s.fitbit.CreateSubscription(ctx, fitbitUserID, &rec); err != nil {
		return "", err
	}

	if err := s.UpdateMetadata(ctx, fitbitUserID); err != nil {
		return "", err
	}

	if err := s.tokens.SetLinkedFitbitUserID(ctx, stateData.DiscordUserID, fitbitUserID); err != nil {
		return "", errors.Wrapf(err, "store link for %s", stateData.DiscordUserID)
	}

	log.Info().
		Str("discordUserId", stateData.DiscordUserID).
		Str("fitbitUserId", fitbitUserID).
		Msg("Fitbit account linked")
	return fitbitUserID, nil
}

// UpdateMetadata pushes the Fitbit user's profile metadata to the linked Discord
// account. When the profile cannot be read every metadata value is pushed as
// null, so a revoked Fitbit consent does not leave a stale role behind.
func (s *Service) UpdateMetadata(ctx context.Context, fitbitUserID string) error {
	fitbitTokens, found, err := s.tokens.GetFitbitTokens(ctx, fitbitUserID)
	if err != nil {
		return errors.Wrapf(err, "load fitbit tokens for %s", fitbitUserID)
	}
	if !found {
		return errors.Wrapf(errors.ErrNotFound, "fitbit user %s", fitbitUserID)
	}

	discordUserID := fitbitTokens.DiscordUserID
	discordTokens, found, err := s.tokens.GetDiscordTokens(ctx, discordUserID)
	if err != nil {
		return errors.Wrapf(err, "load discord tokens for %s", discordUserID)
	}
	if !found {
		return errors.Wrapf(errors.ErrNotFound, "discord user %s", discordUserID)
	}

	var metadata discord.Metadata
	profile, err := s.fitbit.Profile(ctx, fitbitUserID, &fitbitTokens)
	if err != nil {
		log.Error().
			Err(fmt.Errorf("%w: %w", errors.ErrProfileFetch, err)).
			Str("fitbitUserId", fitbitUserID).
			Msg("Clearing Discord metadata")
		metadata = discord.NullMetadata()
	} else {
		metadata = ProfileToMetadata(profile)
	}

	return s.discord.PushMetadata(ctx, discordUserID, &discordTokens, metadata)
}

// ProfileMetadata returns the metadata the Discord user's linked Fitbit profile
// currently maps to. errors.ErrNotFound means there is no linked account.
func (s *Service) ProfileMetadata(ctx context.Context, discordUserID string) (discord.Metadata, error) {
	fitbitUserID, found, err := s.tokens.GetLinkedFitbitUserID(ctx, discordUserID)
	if err != nil {
		return nil, errors.Wrapf(err, "load link for %s", discordUserID)
	}
	if !found {
		return nil, errors.ErrNotFound
	}

	fitbitTokens, found, err := s.tokens.GetFitbitTokens(ctx, fitbitUserID)
	if err != nil {
		return nil, errors.Wrapf(err, "load fitbit tokens for %s", fitbitUserID)
	}
	if !found {
		return nil, errors.ErrNotFound
	}

	profile, err := s.fitbit.Profile(ctx, fitbitUserID, &fitbitTokens)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrProfileFetch, err)
	}
	return ProfileToMetadata(profile), nil
}

// Disconnect clears the user's verified role and revokes both providers'
// tokens. errors.ErrNotFound means there was nothing to disconnect.
func (s *Service) Disconnect(ctx context.Context, discordUserID string) error {
	cleanedUp := false

	discordTokens, found, err := s.tokens.GetDiscordTokens(ctx, discordUserID)
	if err != nil {
		return errors.Wrapf(err, "load discord tokens for %s", discordUserID)
	}
	if found {
		cleanedUp = true
		if err := s.discord.PushMetadata(ctx, discordUserID, &discordTokens, discord.Metadata{}); err != nil {
			return err
		}
		if err := s.discord.RevokeAccess(ctx, discordUserID); err != nil {
			return err
		}
	}

	fitbitUserID, found, err := s.tokens.GetLinkedFitbitUserID(ctx, discordUserID)
	if err != nil {
		return errors.Wrapf(err, "load link for %s", discordUserID)
	}
	if found {
		cleanedUp = true
		if err := s.fitbit.RevokeAccess(ctx, fitbitUserID); err != nil {
			return err
		}
		if err := s.tokens.DeleteLinkedFitbitUser(ctx, discordUserID); err != nil {
			return errors.Wrapf(err, "delete link for %s", discordUserID)
		}
	}

	if !cleanedUp {
		return errors.ErrNotFound
	}
	log.Info().Str("discordUserId", discordUserID).Msg("Fitbit account disconnected")
	return nil
}
