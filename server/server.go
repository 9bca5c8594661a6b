package server

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/jrsteele09/fitbit-discord-bot/discord"
	"github.com/jrsteele09/fitbit-discord-bot/fitbit"
	"github.com/jrsteele09/fitbit-discord-bot/internal/config"
	"github.com/jrsteele09/fitbit-discord-bot/token"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Linker runs the account linking flow and webhook syncs
type Linker interface {
	StartLink() (string, string)
	CompleteDiscordLogin(ctx context.Context, code, returnedState, expectedState string) (string, error)
	CompleteFitbitLogin(ctx context.Context, code, state string) (string, error)
	HandleWebhook(ctx context.Context, events []fitbit.WebhookEvent) error
}

// CommandRunner executes slash commands
type CommandRunner interface {
	Execute(ctx context.Context, interaction *discord.Interaction) (*discord.InteractionResponse, error)
}

type Server struct {
	env         string // Environment (e.g., "DEV", "PROD")
	mux         *http.ServeMux
	routes      []string
	config      config.Config
	linker      Linker
	commands    CommandRunner
	publicKey   ed25519.PublicKey
	stateSigner *token.HMACSigner
	limiter     *RateLimiter
	successPage *template.Template
}

func New(cfg config.Config, linker Linker, commands CommandRunner) (*Server, error) {
	s := &Server{
		env:      cfg.GetEnv(),
		mux:      http.NewServeMux(),
		config:   cfg,
		linker:   linker,
		commands: commands,
		limiter:  NewRateLimiter(rate.Limit(cfg.GetRateLimitPerSecond()), cfg.GetRateLimitBurst()),
	}

	if key := cfg.GetDiscordPublicKey(); key != "" {
		publicKey, err := discord.ParsePublicKey(key)
		if err != nil {
			return nil, fmt.Errorf("[Server New] %w", err)
		}
		s.publicKey = publicKey
	} else {
		log.Warn().Msg("DISCORD_PUBLIC_KEY is not set, interactions will be rejected")
	}

	secret := []byte(cfg.GetCookieSecret())
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("[Server New] failed to generate cookie secret: %w", err)
		}
		log.Warn().Msg("COOKIE_SECRET is not set, using a random secret for this process")
	}
	s.stateSigner = token.NewHMACSigner(secret)

	successPage, err := ParseTemplate("success.html")
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse success template: %w", err)
	}
	s.successPage = successPage

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Debug().Msgf("[%-19s] %s", colouredMethod(method), path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
