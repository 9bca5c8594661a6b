// Package discord talks to Discord's OAuth2 and REST APIs on behalf of linked
// users (role connection metadata) and of the application itself (commands,
// metadata schema).
package discord

import (
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/fitbit-discord-bot/internal/apiclient"
	"github.com/jrsteele09/fitbit-discord-bot/internal/oauthutil"
	"github.com/jrsteele09/fitbit-discord-bot/storage"
	"golang.org/x/oauth2"
)

const (
	DefaultAPIBaseURL = "https://discord.com/api/v10"
	authorizeURL      = "https://discord.com/api/oauth2/authorize"

	providerName = "discord"

	// PlatformName is shown on the user's profile next to the verified role.
	PlatformName = "Fitbit Discord Bot"
)

// Scopes requested from the user on the consent screen.
var Scopes = []string{"role_connections.write", "identify"}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	BotToken     string
}

type Client struct {
	cfg        Config
	baseURL    string
	oauth      *oauth2.Config
	api        *apiclient.Requester
	httpClient *http.Client
	tokens     *storage.Tokens
	refresher  oauthutil.Refresher
	nowFunc    func() time.Time
}

type Option func(*Client)

// WithBaseURL points the client at a different API root, token endpoints included.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithNowFunc overrides the clock used for token expiry checks.
func WithNowFunc(nowFunc func() time.Time) Option {
	return func(c *Client) {
		c.nowFunc = nowFunc
	}
}

func New(cfg Config, tokens *storage.Tokens, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		baseURL:    DefaultAPIBaseURL,
		httpClient: apiclient.NewHTTPClient(),
		tokens:     tokens,
		nowFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.oauth = &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   authorizeURL,
			TokenURL:  c.baseURL + "/oauth2/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	c.api = &apiclient.Requester{
		Provider:   providerName,
		BaseURL:    c.baseURL,
		HTTPClient: c.httpClient,
	}
	return c
}

func (c *Client) botAuthorization() string {
	return "Bot " + c.cfg.BotToken
}
