package server

// Route path constants
const (
	// OAuth gateway
	RouteGitHubLogin    = "/auth/github"
	RouteGitHubCallback = "/auth/github/callback"
	RouteGitHubLogout   = "/auth/github/logout"
	RouteGitHubRefresh  = "/auth/github/refresh"
	RouteGitHubProfile  = "/auth/github/profile"
	RouteAuthStatus     = "/auth/status"

	// Agent and direct operations
	RouteChat       = "/chat"
	RouteOperations = "/api/github/operations"

	// Probes
	RouteHealth  = "/health"
	RouteMetrics = "/metrics"
)
