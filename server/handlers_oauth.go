package server

import (
	"fmt"
	"net/http"

	"github.com/jrsteele09/fitbit-discord-bot/internal/errors"
	"github.com/rs/zerolog/log"
)

// VerifiedRoleHandler starts the linking flow. It is the linked roles
// verification URL configured for the Discord application.
func (s *Server) VerifiedRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authURL, state := s.linker.StartLink()
		if err := s.setStateCookie(w, r, state); err != nil {
			log.Error().Err(err).Msg("Failed to set state cookie")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// DiscordOAuthCallbackHandler is Discord's redirect URI. It checks the state
// against the clientState cookie and sends the user on to Fitbit.
func (s *Server) DiscordOAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.FormValue("code")
		state := r.FormValue("state")

		fitbitURL, err := s.linker.CompleteDiscordLogin(r.Context(), code, state, s.stateFromCookie(r))
		if errors.Is(err, errors.ErrStateMismatch) {
			log.Error().Msg("State verification failed")
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("Discord callback failed")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		clearStateCookie(w)
		http.Redirect(w, r, fitbitURL, http.StatusFound)
	}
}

// FitbitOAuthCallbackHandler is Fitbit's redirect URI. It completes the link
// and renders the success page.
func (s *Server) FitbitOAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.FormValue("code")
		state := r.FormValue("state")

		_, err := s.linker.CompleteFitbitLogin(r.Context(), code, state)
		if errors.Is(err, errors.ErrStateNotFound) {
			log.Warn().Msg("Fitbit callback with an unknown or expired state")
			msg := fmt.Sprintf("This link has expired or was already used. Visit %s to start again.", s.restartURL())
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("Fitbit callback failed")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		s.renderSuccess(w)
	}
}

func (s *Server) restartURL() string {
	if u := s.config.GetVerificationURL(); u != "" {
		return u
	}
	return RouteVerifiedRole
}
