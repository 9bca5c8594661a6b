package server

// Route path constants
const (
	RouteRoot                 = "/{$}"
	RouteVerifiedRole         = "/verified-role"
	RouteDiscordOAuthCallback = "/discord-oauth-callback"
	RouteFitbitOAuthCallback  = "/fitbit-oauth-callback"
	RouteFitbitWebhook        = "/fitbit-webhook"
)
