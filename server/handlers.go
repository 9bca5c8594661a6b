package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/fitbit-discord-bot/discord"
	"github.com/jrsteele09/fitbit-discord-bot/internal/errors"
	"github.com/rs/zerolog/log"
)

// IndexHandler is the liveness check
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("👋"))
	}
}

// InteractionsHandler answers Discord PINGs and runs slash commands. The request
// signature has already been checked by VerifyInteractionMiddleware.
func (s *Server) InteractionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var interaction discord.Interaction
		if err := json.NewDecoder(r.Body).Decode(&interaction); err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid interaction")
			return
		}

		switch interaction.Type {
		case discord.InteractionTypePing:
			writeJSON(w, http.StatusOK, discord.InteractionResponse{Type: discord.InteractionResponsePong})

		case discord.InteractionTypeApplicationCommand:
			resp, err := s.commands.Execute(r.Context(), &interaction)
			if errors.Is(err, errors.ErrUnknownCommand) {
				log.Error().Err(err).Msg("Unknown command")
				writeJSONError(w, http.StatusBadRequest, "Unknown Type")
				return
			}
			if err != nil {
				log.Error().Err(err).Str("discordUserId", interaction.UserID()).Msg("Command failed")
				writeJSONError(w, http.StatusInternalServerError, "Command failed")
				return
			}
			writeJSON(w, http.StatusOK, resp)

		default:
			log.Error().Err(errors.ErrUnknownInteraction).Int("type", int(interaction.Type)).Msg("Unknown interaction")
			writeJSONError(w, http.StatusBadRequest, "Unknown Type")
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to write response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
