package server

import "github.com/prometheus/client_golang/prometheus/promhttp"

func (s *Server) initRoutes() {
	// OAuth gateway
	s.RegisterRouteHandler("GET "+RouteGitHubLogin, ChainMiddleware(s.GitHubLoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteGitHubCallback, ChainMiddleware(s.GitHubCallbackHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteGitHubLogout, ChainMiddleware(s.GitHubLogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteGitHubRefresh, ChainMiddleware(s.GitHubRefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteGitHubProfile, ChainMiddleware(s.GitHubProfileHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthStatus, ChainMiddleware(s.AuthStatusHandler(), s.APIMiddleware()...))

	// Agent and operations
	s.RegisterRouteHandler("POST "+RouteChat, ChainMiddleware(s.ChatHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteOperations, ChainMiddleware(s.ExecuteOperationHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteOperations, ChainMiddleware(s.ListOperationsHandler(), s.APIMiddleware()...))

	// Probes carry no session
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.ProbeMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteMetrics, ChainMiddleware(promhttp.Handler().ServeHTTP, s.ProbeMiddleware()...))
}
