package server

import (
	"bytes"
	"io"
	"net/http"

	"github.com/jrsteele09/fitbit-discord-bot/discord"
	"github.com/rs/zerolog/log"
)

const (
	headerSignature = "X-Signature-Ed25519"
	headerTimestamp = "X-Signature-Timestamp"

	maxInteractionBody = 1 << 20
)

// VerifyInteractionMiddleware rejects requests that are not signed with the
// application's Discord public key. The body is restored for the next handler.
func (s *Server) VerifyInteractionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxInteractionBody))
		if err != nil {
			http.Error(w, "Bad request signature", http.StatusUnauthorized)
			return
		}

		signature := r.Header.Get(headerSignature)
		timestamp := r.Header.Get(headerTimestamp)
		if !discord.VerifyInteraction(s.publicKey, signature, timestamp, body) {
			log.Warn().Msg("Rejected interaction with a bad signature")
			http.Error(w, "Bad request signature", http.StatusUnauthorized)
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		next(w, r)
	}
}
