// Package fitbit is the Fitbit Web API client: OAuth2 with PKCE, token refresh,
// subscriptions and profile reads.
package fitbit

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
	DefaultAPIBaseURL = "https://api.fitbit.com"
	DefaultAuthURL    = "https://www.fitbit.com/oauth2/authorize"

	providerName = "fitbit"
)

// Scopes requested on the Fitbit consent screen
var Scopes = []string{
	"activity",
	"heartrate",
	"location",
	"settings",
	"sleep",
	"weight",
	"nutrition",
	"oxygen_saturation",
	"profile",
}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

type Client struct {
	cfg        Config
	baseURL    string
	authURL    string
	oauth      *oauth2.Config
	api        *apiclient.Requester
	httpClient *http.Client
	tokens     *storage.Tokens
	refresher  oauthutil.Refresher
	nowFunc    func() time.Time
}

type Option func(*Client)

// WithBaseURL points the API and token endpoints at baseURL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithAuthURL overrides the consent page the user is sent to.
func WithAuthURL(authURL string) Option {
	return func(c *Client) {
		c.authURL = authURL
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithNowFunc(nowFunc func() time.Time) Option {
	return func(c *Client) {
		c.nowFunc = nowFunc
	}
}

func New(cfg Config, tokens *storage.Tokens, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		baseURL:    DefaultAPIBaseURL,
		authURL:    DefaultAuthURL,
		httpClient: apiclient.NewHTTPClient(),
		tokens:     tokens,
		nowFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Fitbit authenticates token calls with HTTP Basic client credentials.
	c.oauth = &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.authURL,
			TokenURL:  c.baseURL + "/oauth2/token",
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
	c.api = &apiclient.Requester{
		Provider:   providerName,
		BaseURL:    c.baseURL,
		HTTPClient: c.httpClient,
	}
	return c
}
