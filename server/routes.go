package server

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteRoot, ChainMiddleware(s.IndexHandler(), s.StdMiddleware()...))

	// Discord interactions
	s.RegisterRouteHandler("POST "+RouteRoot, ChainMiddleware(s.InteractionsHandler(), s.StdMiddleware(s.VerifyInteractionMiddleware)...))

	// Linking flow
	s.RegisterRouteHandler("GET "+RouteVerifiedRole, ChainMiddleware(s.VerifiedRoleHandler(), s.PublicMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteDiscordOAuthCallback, ChainMiddleware(s.DiscordOAuthCallbackHandler(), s.PublicMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteFitbitOAuthCallback, ChainMiddleware(s.FitbitOAuthCallbackHandler(), s.PublicMiddleware()...))

	// Fitbit subscriber endpoint. Fitbit delivers every user's notifications from
	// a few addresses, so it is not rate limited per IP.
	s.RegisterRouteHandler("GET "+RouteFitbitWebhook, ChainMiddleware(s.FitbitWebhookVerifyHandler(), s.StdMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteFitbitWebhook, ChainMiddleware(s.FitbitWebhookHandler(), s.StdMiddleware()...))
}
