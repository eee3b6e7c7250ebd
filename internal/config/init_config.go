package config

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Siddiha/Amp/internal/agent"
	"github.com/Siddiha/Amp/internal/api"
	"github.com/Siddiha/Amp/internal/api/handlers"
	"github.com/Siddiha/Amp/internal/cache"
	apperror "github.com/Siddiha/Amp/internal/error"
	"github.com/Siddiha/Amp/internal/history"
	"github.com/Siddiha/Amp/internal/llm"
	"github.com/Siddiha/Amp/internal/logging"
	"github.com/Siddiha/Amp/internal/player"
	"github.com/Siddiha/Amp/internal/retry"
)

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewLogger() (*zap.Logger, error) {
	if err := logging.Init(c.LogLevel, c.LogFile); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logging.Logger, nil
}

// ------------------------------------------------------------------------------------------------------
// NewCache builds the process-wide cache shared by the player's memoized
// lookups and the stats endpoint.
func (c *Config) NewCache() *cache.Cache {
	return cache.New(c.CacheTTL(), c.CacheMaxSize)
}

// ------------------------------------------------------------------------------------------------------
// RetryConfig builds the retry policy used around model and player calls.
func (c *Config) RetryConfig(logger *zap.Logger) retry.Config {
	return retry.Config{
		MaxAttempts:     c.RetryMaxAttempts,
		BaseDelay:       time.Duration(c.RetryBaseDelayMs) * time.Millisecond,
		MaxDelay:        time.Duration(c.RetryMaxDelayMs) * time.Millisecond,
		ExponentialBase: c.RetryExponentialBase,
		Jitter:          c.RetryJitter,
		Retryable:       apperror.Retryable,
		OnRetry: func(err error, attempt int) {
			logger.Warn("Retrying after failure",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		},
	}
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewLLMClient(logger *zap.Logger) llm.Client {
	return llm.NewClaudeClient(c.AnthropicAPIKey, c.AnthropicBaseURL, c.Model, c.MaxTokens, logger)
}

// ------------------------------------------------------------------------------------------------------
// NewHistoryStore opens the play-history database. A failure disables
// history instead of aborting startup.
func (c *Config) NewHistoryStore(logger *zap.Logger) *history.Store {
	if c.HistoryPath == "" {
		return nil
	}
	store, err := history.NewStore(c.HistoryPath, c.HistoryMaxRows)
	if err != nil {
		logger.Warn("Failed to open play history, continuing without it",
			zap.String("path", c.HistoryPath),
			zap.Error(err),
		)
		return nil
	}
	return store
}

// ------------------------------------------------------------------------------------------------------
// NewTrackCache connects the optional shared Redis track cache.
func (c *Config) NewTrackCache(logger *zap.Logger) *player.TrackCache {
	if c.RedisAddr == "" {
		return nil
	}
	trackCache, err := player.NewTrackCache(c.RedisAddr, c.RedisPassword, c.CacheTTL(), logger)
	if err != nil {
		logger.Warn("Failed to connect to Redis, continuing without track cache",
			zap.Error(err),
		)
		return nil
	}
	logger.Info("Connected to Redis")
	return trackCache
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewPlayer(store *cache.Cache, trackCache *player.TrackCache, recorder player.Recorder, logger *zap.Logger) player.Controller {
	return player.NewSpotifyClient(player.SpotifyOptions{
		ClientID:     c.SpotifyClientID,
		ClientSecret: c.SpotifyClientSecret,
		RefreshToken: c.SpotifyRefreshToken,
		Cache:        store,
		TrackCache:   trackCache,
		Recorder:     recorder,
		Retry:        c.RetryConfig(logger),
		CacheTTL:     c.CacheTTL(),
	}, logger)
}

// ------------------------------------------------------------------------------------------------------
// NewAgent assembles the full conversation stack: shared cache, history
// recorder, Spotify player and Claude client behind one agent.
func (c *Config) NewAgent(logger *zap.Logger) (*agent.Agent, *cache.Cache, *history.Store) {
	store := c.NewCache()
	plays := c.NewHistoryStore(logger)
	trackCache := c.NewTrackCache(logger)

	var recorder player.Recorder
	if plays != nil {
		recorder = plays
	}

	controller := c.NewPlayer(store, trackCache, recorder, logger)
	client := c.NewLLMClient(logger)

	return agent.NewAgent(client, controller, c.RetryConfig(logger), logger), store, plays
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewHandler(a *agent.Agent, store *cache.Cache, plays *history.Store, logger *zap.Logger) *handlers.Handler {
	return handlers.NewHandler(a, store, plays, logger)
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewRouter(handler *handlers.Handler, logger *zap.Logger) *mux.Router {
	return api.SetupRouter(handler, logger)
}

// ------------------------------------------------------------------------------------------------------
func (c *Config) NewHTTPServer(router *mux.Router) *http.Server {
	return &http.Server{
		Addr:         ":" + c.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
