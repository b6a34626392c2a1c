package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/EasterCompany/dex-sprint-service/config"
	"github.com/EasterCompany/dex-sprint-service/endpoints"
	"github.com/EasterCompany/dex-sprint-service/internal/agent"
	"github.com/EasterCompany/dex-sprint-service/internal/insights"
	"github.com/EasterCompany/dex-sprint-service/internal/ollama"
	"github.com/EasterCompany/dex-sprint-service/internal/portfolio"
	"github.com/EasterCompany/dex-sprint-service/internal/report"
	"github.com/EasterCompany/dex-sprint-service/internal/roadmap"
	"github.com/EasterCompany/dex-sprint-service/internal/store"
	"github.com/EasterCompany/dex-sprint-service/utils"
)

const shutdownTimeout = 5 * time.Second

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCmd constructs the root command. Running it without a
// subcommand starts the service.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           ServiceName,
		Short:         "Learning sprint tracker with progress analytics",
		Long:          "Serves the sprint roadmap, persists learner state and derives progress, habit, goal and feasibility insights.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv("SPRINT_CONFIG"), "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format (text, json)")

	serve := newServeCmd(opts)
	cmd.RunE = serve.RunE
	cmd.Flags().AddFlagSet(serve.Flags())

	cmd.AddCommand(serve)
	cmd.AddCommand(newInsightsCmd(opts))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version of " + ServiceName,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), utils.GetVersion().Str)
		},
	})
	return cmd
}

// load reads the configuration and installs the default logger.
func (o *rootOptions) load(cmd *cobra.Command) (*config.ServiceConfig, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logFormat != "" {
		cfg.LogFormat = o.logFormat
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, logger)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.ServiceConfig, logger *slog.Logger) error {
	utils.SetHealthStatus(utils.HealthStarting, "Service is initializing")

	backend, closeBackend, err := store.NewBackend(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to initialize state store: %w", err)
	}
	defer func() {
		if err := closeBackend(); err != nil {
			logger.Warn("Storage: close failed", "error", err)
		}
	}()
	logger.Info("Storage: connected", "kind", cfg.Store.Kind)

	loader := roadmap.NewLoader(cfg.Roadmap.Path, logger)
	if _, err := loader.Load(); err != nil {
		return err
	}

	deps := &endpoints.Deps{
		Store:     store.NewStore(backend, logger),
		Roadmap:   loader,
		Portfolio: portfolio.NewClient(cfg.Portfolio.BaseURL, cfg.Portfolio.Token, cfg.Portfolio.Timeout, logger),
		Planner: agent.NewPlanner(
			ollama.NewClient(cfg.Agent.OllamaURL, cfg.Agent.Timeout),
			cfg.Agent.Model, cfg.Agent.Timeout, logger,
		),
		Config: *cfg,
		Logger: logger,
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      endpoints.NewRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Agent.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Core Logic: Starting...")
		return RunCoreLogic(gctx, deps.Store, cfg.Core.HealthInterval, logger)
	})

	if cfg.Roadmap.Watch {
		g.Go(func() error {
			// A missing watcher only costs cache freshness.
			if err := loader.Watch(gctx); err != nil {
				logger.Warn("Roadmap: watcher stopped", "error", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting "+ServiceName, "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server crashed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down service...")
		utils.SetHealthStatus(utils.HealthShuttingDown, "Service is shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Service exited cleanly")
	return nil
}

func newInsightsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Print the current insights report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return runInsights(cmd, cfg, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the insights document as JSON")
	return cmd
}

func runInsights(cmd *cobra.Command, cfg *config.ServiceConfig, asJSON bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	backend, closeBackend, err := store.NewBackend(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to initialize state store: %w", err)
	}
	defer func() { _ = closeBackend() }()

	state, err := store.NewStore(backend, slog.Default()).Load(ctx)
	if err != nil {
		return err
	}
	rm, err := roadmap.NewLoader(cfg.Roadmap.Path, slog.Default()).Load()
	if err != nil {
		return err
	}

	ins := insights.Build(state, rm, time.Now())
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ins)
	}
	_, err = fmt.Fprint(out, report.Render(rm.Title, ins))
	return err
}
