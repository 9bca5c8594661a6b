package config

type DiscordConfig interface {
	GetDiscordToken() string
	GetDiscordClientID() string
	GetDiscordClientSecret() string
	GetDiscordPublicKey() string
	GetDiscordRedirectURI() string
}

type FitbitConfig interface {
	GetFitbitClientID() string
	GetFitbitClientSecret() string
	GetFitbitRedirectURI() string
	GetFitbitSubscriberVerify() string
}

type Discord struct {
	Token        string `validate:"required"`
	ClientID     string `validate:"required"`
	ClientSecret string
	PublicKey    string `validate:"omitempty,hexadecimal,len=64"`
	RedirectURI  string `validate:"omitempty,url"`
}

var _ DiscordConfig = Discord{}

func loadDiscord() Discord {
	return Discord{
		Token:        GetEnv("DISCORD_TOKEN", ""),
		ClientID:     GetEnv("DISCORD_CLIENT_ID", ""),
		ClientSecret: GetEnv("DISCORD_CLIENT_SECRET", ""),
		PublicKey:    GetEnv("DISCORD_PUBLIC_KEY", ""),
		RedirectURI:  GetEnv("DISCORD_REDIRECT_URI", ""),
	}
}

// GetDiscordToken returns the bot token used for application level calls.
func (d Discord) GetDiscordToken() string {
	return d.Token
}

func (d Discord) GetDiscordClientID() string {
	return d.ClientID
}

func (d Discord) GetDiscordClientSecret() string {
	return d.ClientSecret
}

// GetDiscordPublicKey returns the hex encoded Ed25519 key interactions are signed with.
func (d Discord) GetDiscordPublicKey() string {
	return d.PublicKey
}

func (d Discord) GetDiscordRedirectURI() string {
	return d.RedirectURI
}

type Fitbit struct {
	ClientID         string
	ClientSecret     string
	RedirectURI      string `validate:"omitempty,url"`
	SubscriberVerify string
}

var _ FitbitConfig = Fitbit{}

func loadFitbit() Fitbit {
	return Fitbit{
		ClientID:         GetEnv("FITBIT_CLIENT_ID", ""),
		ClientSecret:     GetEnv("FITBIT_CLIENT_SECRET", ""),
		RedirectURI:      GetEnv("FITBIT_REDIRECT_URI", ""),
		SubscriberVerify: GetEnv("FITBIT_SUBSCRIBER_VERIFY", ""),
	}
}

func (f Fitbit) GetFitbitClientID() string {
	return f.ClientID
}

func (f Fitbit) GetFitbitClientSecret() string {
	return f.ClientSecret
}

func (f Fitbit) GetFitbitRedirectURI() string {
	return f.RedirectURI
}

// GetFitbitSubscriberVerify returns the code Fitbit echoes when verifying the webhook subscriber.
func (f Fitbit) GetFitbitSubscriberVerify() string {
	return f.SubscriberVerify
}
