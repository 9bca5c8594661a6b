package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/fitbit-discord-bot/fitbit"
	"github.com/rs/zerolog/log"
)

const maxWebhookBody = 1 << 20

// FitbitWebhookVerifyHandler answers Fitbit's subscriber verification: 204 for
// the configured verification code, 404 for anything else.
func (s *Server) FitbitWebhookVerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expected := s.config.GetFitbitSubscriberVerify()
		if expected != "" && r.URL.Query().Get("verify") == expected {
			log.Info().Msg("Fitbit subscriber verified")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}
}

// FitbitWebhookHandler receives Fitbit subscription notifications.
func (s *Server) FitbitWebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var events []fitbit.WebhookEvent
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWebhookBody)).Decode(&events); err != nil {
			http.Error(w, "Invalid notification body", http.StatusBadRequest)
			return
		}

		if err := s.linker.HandleWebhook(r.Context(), events); err != nil {
			log.Error().Err(err).Msg("Fitbit webhook failed")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
