package serve

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/atrium/internal/api"
	"github.com/hashicorp-forge/atrium/internal/cmd/base"
	"github.com/hashicorp-forge/atrium/internal/config"
	"github.com/hashicorp-forge/atrium/internal/db"
	"github.com/hashicorp-forge/atrium/internal/server"
	"github.com/hashicorp-forge/atrium/pkg/analytics"
	"github.com/hashicorp-forge/atrium/pkg/notifications/backends"
)

type Command struct {
	*base.Command

	flagConfig string
}

func NewCommand(b *base.Command) *Command {
	return &Command{Command: b}
}

func (c *Command) Synopsis() string {
	return "Run the Atrium server"
}

func (c *Command) Help() string {
	return `Usage: atrium serve [-config=config.hcl]

  Run the Atrium workspace settings server.

  Without -config, a zero-config development setup is used: SQLite storage
  in the working directory and log-only analytics.
`
}

func (c *Command) flags() *flag.FlagSet {
	f := flag.NewFlagSet("serve", flag.ContinueOnError)
	f.StringVar(&c.flagConfig, "config", "", "Path to the HCL config file")
	f.SetOutput(os.Stderr)
	return f
}

func (c *Command) Run(args []string) int {
	if err := c.flags().Parse(args); err != nil {
		return 1
	}

	cfg := config.Default()
	if c.flagConfig != "" {
		var err error
		cfg, err = config.NewConfig(c.flagConfig)
		if err != nil {
			c.UI.Error(fmt.Sprintf("error loading config: %v", err))
			return 1
		}
	}

	log := c.Log
	if level := hclog.LevelFromString(cfg.LogLevel); level != hclog.NoLevel {
		log.SetLevel(level)
	}

	database, err := db.NewDB(cfg, log)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error initializing database: %v", err))
		return 1
	}

	sink, closeSink, err := buildAnalyticsSink(cfg, log)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error initializing analytics: %v", err))
		return 1
	}
	defer closeSink()

	srv := &server.Server{
		Config:        cfg,
		DB:            database,
		Logger:        log,
		Analytics:     sink,
		Notifications: backends.NewRegistry(cfg.Notifications, log),
	}

	mux := http.NewServeMux()
	mux.Handle("/health", healthHandler())
	mux.Handle("/api/v1/workspaces/list", api.WorkspacesListHandler(srv))
	mux.Handle("/api/v1/workspaces/get", api.WorkspacesGetHandler(srv))
	mux.Handle("/api/v1/workspaces/update", api.WorkspacesUpdateHandler(srv))
	mux.Handle("/api/v1/notifications/try", api.NotificationsTryHandler(srv))

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.ListenAddr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.UI.Error(fmt.Sprintf("server error: %v", err))
			return 1
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			c.UI.Error(fmt.Sprintf("error during shutdown: %v", err))
			return 1
		}
	}

	return 0
}

func buildAnalyticsSink(cfg *config.Config, log hclog.Logger) (analytics.Sink, func(), error) {
	noop := func() {}

	if cfg.Analytics == nil {
		return analytics.NewLogSink(log), noop, nil
	}

	switch cfg.Analytics.Backend {
	case "", "log":
		return analytics.NewLogSink(log), noop, nil

	case "none":
		return analytics.NopSink{}, noop, nil

	case "kafka":
		sink, err := analytics.NewKafkaSink(analytics.KafkaConfig{
			Brokers: cfg.Analytics.KafkaBrokers,
			Topic:   cfg.Analytics.KafkaTopic,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return sink, func() {
			if err := sink.Close(); err != nil {
				log.Warn("error closing analytics sink", "error", err)
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown analytics backend: %s", cfg.Analytics.Backend)
	}
}

func healthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
}
