package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Siddiha/Amp/internal/cli"
	"github.com/Siddiha/Amp/internal/config"
	"github.com/Siddiha/Amp/internal/logging"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "amp",
		Short: "AMP - a conversational Spotify assistant",
		Long:  "AMP translates natural-language commands into Spotify playback actions, mediated by Claude.",
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a YAML config file")

	rootCmd.AddCommand(chatCmd(), serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ------------------------------------------------------------------------------------------------------
func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logging.Sync()

			agent, store, plays := cfg.NewAgent(logger)
			if plays != nil {
				defer plays.Close()
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			repl := cli.New(agent, store, plays, os.Stdin, os.Stdout, logger)
			if err := repl.Run(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}
}

// ------------------------------------------------------------------------------------------------------
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logging.Sync()

			logger.Info("Starting AMP server",
				zap.String("port", cfg.Port),
				zap.String("model", cfg.Model),
			)

			agent, store, plays := cfg.NewAgent(logger)
			if plays != nil {
				defer plays.Close()
			}

			handler := cfg.NewHandler(agent, store, plays, logger)
			router := cfg.NewRouter(handler, logger)
			srv := cfg.NewHTTPServer(router)

			go func() {
				logger.Info("Server starting", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal("Server failed", zap.Error(err))
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			logger.Info("Shutting down server...")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Server forced to shutdown", zap.Error(err))
			}

			logger.Info("Server stopped")
			return nil
		},
	}
}

// ------------------------------------------------------------------------------------------------------
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}
