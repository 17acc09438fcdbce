package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/healthportal/portal/internal/config"
	"github.com/healthportal/portal/internal/domain/analytics"
	"github.com/healthportal/portal/internal/platform/logging"
	"github.com/healthportal/portal/internal/platform/middleware"
	"github.com/healthportal/portal/internal/platform/usage"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "portal-server",
		Short:        "Health portal analytics API server",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the analytics API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the analytics pipeline once and print the overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			timeRange, _ := cmd.Flags().GetString("range")
			seed, _ := cmd.Flags().GetInt64("seed")
			format, _ := cmd.Flags().GetString("format")
			if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
				color.NoColor = true
			}

			// Warnings such as an unknown range go to stderr so stdout stays parseable.
			logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
				Level(zerolog.WarnLevel).With().Timestamp().Logger()

			svc := analytics.NewService(analytics.Options{Seed: seed}, logger)
			ov, err := svc.DeriveHealthAnalytics(cmd.Context(), timeRange)
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}
			return writeOverview(cmd.OutOrStdout(), ov, format)
		},
	}
	cmd.Flags().String("range", string(analytics.Range7d), "time range: 7d, 30d or 90d")
	cmd.Flags().Int64("seed", 0, "random seed (0 picks a fresh one)")
	cmd.Flags().String("format", formatTable, "output format: json, yaml or table")
	cmd.Flags().Bool("no-color", false, "disable coloured table output")
	return cmd
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Console: cfg.IsDev(),
	})

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	e := newServer(cfg, logger)

	// Graceful shutdown
	go func() {
		addr := cfg.Addr()
		logger.Info().
			Str("addr", addr).
			Str("env", cfg.Env).
			Str("default_range", cfg.AnalyticsDefaultRange).
			Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newServer builds the echo instance with middleware and routes wired.
func newServer(cfg *config.Config, logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type", "Accept", middleware.RequestIDHeader},
	}))

	tracker := usage.NewTracker(cfg.UsageBufferSize)
	e.Use(usage.Middleware(tracker))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	rateLimit := middleware.RateLimit(rateLimitCfg)
	timeout := middleware.RequestTimeout(cfg.RequestTimeout)

	svc := analytics.NewService(analytics.Options{
		Seed:         cfg.AnalyticsSeed,
		DefaultRange: cfg.AnalyticsDefaultRange,
	}, logger)
	analyticsHandler := analytics.NewHandler(svc)

	// The portal front-end calls the bare paths; /api/v1 is the versioned alias.
	analyticsHandler.RegisterRoutes(e.Group("", rateLimit, timeout))
	analyticsHandler.RegisterRoutes(e.Group("/api/v1", rateLimit, timeout))

	usage.NewHandler(tracker).RegisterRoutes(e.Group("/admin"))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	return e
}
