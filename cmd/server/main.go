package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/gh-agent-gateway/agent"
	"github.com/jrsteele09/gh-agent-gateway/githubauth"
	"github.com/jrsteele09/gh-agent-gateway/internal/config"
	apperrors "github.com/jrsteele09/gh-agent-gateway/internal/errors"
	"github.com/jrsteele09/gh-agent-gateway/operations"
	"github.com/jrsteele09/gh-agent-gateway/server"
	"github.com/jrsteele09/gh-agent-gateway/sessions"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const janitorInterval = time.Minute

var (
	portFlag string
	envFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "gh-agent-gateway",
	Short: "GitHub OAuth gateway and operation dispatcher for a conversational agent",
	Long: `gh-agent-gateway signs users in with GitHub, keeps their credential in a
server-side session and runs GitHub operations on their behalf, either
directly or through the chat agent.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		overrides := map[string]any{}
		if cmd.Flags().Changed("port") {
			overrides["port"] = portFlag
		}
		if cmd.Flags().Changed("env") {
			overrides["env"] = envFlag
		}
		return run(config.NewWithOverrides(overrides))
	},
}

func init() {
	rootCmd.Flags().StringVar(&portFlag, "port", "", "port to listen on (overrides PORT)")
	rootCmd.Flags().StringVar(&envFlag, "env", "", "environment name, DEV or production (overrides ENV)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	log.Info().Msg("Server stopped")
}

func run(c config.Config) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	setupLogging(c)
	displayAppname(c.GetAppName())

	ctx := context.Background()
	store, err := openStore(ctx, c)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("session store close failed")
		}
	}()

	gh, err := githubauth.New(githubauth.Config{
		ClientID:     c.GetGitHubClientID(),
		ClientSecret: c.GetGitHubClientSecret(),
		RedirectURI:  c.GetGitHubRedirectURI(),
		Scope:        c.GetGitHubScope(),
		AuthURL:      c.GetGitHubAuthorizerURL(),
		TokenURL:     c.GetGitHubTokenURL(),
		APIURL:       c.GetGitHubAPIURL(),
	})
	if err != nil {
		return apperrors.Wrapf(err, "github client")
	}

	dispatcher := operations.NewDispatcher(gh.API)
	handler := server.New(c, sessions.NewManager(store, c.GetSessionMaxAge()), gh, dispatcher, agent.NewCommandAgent(dispatcher.Catalogue()))

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(httpServer) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// openStore connects to Redis when REDIS_URL is set and falls back to the
// in-memory store otherwise.
func openStore(ctx context.Context, c config.Config) (sessions.Store, error) {
	redisURL := c.GetRedisURL()
	if redisURL == "" {
		log.Warn().Msg("REDIS_URL not set, sessions are kept in memory")
		store := sessions.NewInMemoryStore()
		store.StartJanitor(janitorInterval)
		return store, nil
	}

	store, err := sessions.NewRedisStore(ctx, sessions.RedisConfig{
		URL:       redisURL,
		KeyPrefix: c.GetSessionKeyPrefix(),
	})
	if err != nil {
		return nil, apperrors.Wrapf(err, "session store")
	}
	log.Info().Msg("Connected to Redis session store")
	return store, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
