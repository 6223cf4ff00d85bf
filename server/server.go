package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/gh-agent-gateway/agent"
	"github.com/jrsteele09/gh-agent-gateway/githubauth"
	"github.com/jrsteele09/gh-agent-gateway/internal/config"
	"github.com/jrsteele09/gh-agent-gateway/operations"
	"github.com/jrsteele09/gh-agent-gateway/sessions"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env        string // Environment (e.g., "DEV", "production")
	mux        *http.ServeMux
	handler    http.Handler
	routes     []string
	config     config.Config
	sessions   *sessions.Manager
	github     *githubauth.Client
	dispatcher *operations.Dispatcher
	agent      agent.Agent
	validate   *validator.Validate
}

func New(cfg config.Config, manager *sessions.Manager, gh *githubauth.Client, dispatcher *operations.Dispatcher, ag agent.Agent) *Server {
	s := &Server{
		env:        cfg.GetEnv(),
		mux:        http.NewServeMux(),
		config:     cfg,
		sessions:   manager,
		github:     gh,
		dispatcher: dispatcher,
		agent:      ag,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}

	// Preflight requests are answered before they reach the mux.
	s.handler = cors.Handler(cors.Options{
		AllowedOrigins:   cfg.GetAllowedOrigins().List(),
		AllowedMethods:   cfg.GetAllowedMethods(),
		AllowedHeaders:   cfg.GetAllowedHeaders(),
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	})(s.mux)

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
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
	log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}
