package storage

// DiscordTokens is stored under discord-{discordUserId}.
type DiscordTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"` // epoch milliseconds
}

// FitbitTokens is stored under fitbit-{fitbitUserId}. DiscordUserID points back
// at the Discord account the Fitbit account was linked from.
type FitbitTokens struct {
	CodeVerifier  string `json:"code_verifier"`
	AccessToken   string `json:"access_token"`
	RefreshToken  string `json:"refresh_token"`
	ExpiresAt     int64  `json:"expires_at"` // epoch milliseconds
	DiscordUserID string `json:"discord_user_id"`
}

// StateData bridges the Discord callback to the Fitbit callback. It is stored
// under state-{state} for at most StateTTL.
type StateData struct {
	CodeVerifier  string `json:"codeVerifier"`
	DiscordUserID string `json:"discordUserId"`
}
