package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/spf13/cobra"

	"github.com/c360studio/semmap/config"
	rulesapi "github.com/c360studio/semmap/processor/rules-api"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

func serveCmd(opts *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the rules API",
		Long: `Serve runs the rules API over HTTP and, when nats.url is set, answers
rule documents sent on nats.subject. Documents are kept in memory unless
nats.kv is enabled, in which case they are stored in the SEMMAP_RULES
JetStream bucket. Prometheus metrics are served at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return serve(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var natsClient *natsclient.Client
	if cfg.NATS.URL != "" {
		client, err := connectToNATS(ctx, cfg.NATS.URL, logger)
		if err != nil {
			return err
		}
		defer client.Close(context.Background())
		natsClient = client
	}

	comp, err := newRulesAPI(cfg, natsClient, logger)
	if err != nil {
		return err
	}
	if err := comp.Initialize(); err != nil {
		return fmt.Errorf("initialize rules-api: %w", err)
	}
	if err := comp.Start(ctx); err != nil {
		return fmt.Errorf("start rules-api: %w", err)
	}
	defer comp.Stop(shutdownTimeout)

	if natsClient != nil {
		if err := comp.ServeNATS(ctx, natsClient.GetConnection(), cfg.NATS.Subject); err != nil {
			return err
		}
	}

	mux := http.NewServeMux()
	comp.RegisterHTTPHandlers(cfg.Server.Prefix, mux)
	mux.Handle("/metrics", comp.MetricsHandler())

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Rules API listening",
			"addr", cfg.Server.Addr,
			"prefix", cfg.Server.Prefix,
			"project", cfg.Project)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error stopping HTTP server", "error", err)
	}
	logger.Info("Semmap shutdown complete")
	return nil
}

// newRulesAPI builds the rules-api component through its registered factory
// so the command line and the component registry share one config path.
func newRulesAPI(cfg *config.Config, natsClient *natsclient.Client, logger *slog.Logger) (*rulesapi.Component, error) {
	raw, err := json.Marshal(rulesapi.Config{
		Project:  cfg.Project,
		Prefixes: cfg.Prefixes,
		UseKV:    cfg.NATS.KV,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal rules-api config: %w", err)
	}

	d, err := rulesapi.NewComponent(raw, component.Dependencies{
		NATSClient: natsClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create rules-api: %w", err)
	}
	comp, ok := d.(*rulesapi.Component)
	if !ok {
		return nil, fmt.Errorf("unexpected rules-api component type %T", d)
	}
	return comp, nil
}
