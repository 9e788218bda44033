package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/c360studio/semstreams/natsclient"
	"github.com/spf13/cobra"

	"github.com/c360studio/semmap/config"
	"github.com/c360studio/semmap/editor"
	"github.com/c360studio/semmap/status"
	"github.com/c360studio/semmap/transport"
)

// newTransport builds the transport selected by the editor config. The
// returned close function releases any connection it opened.
func newTransport(ctx context.Context, cfg *config.Config, logger *slog.Logger) (transport.Transport, func(), error) {
	switch cfg.Editor.Transport {
	case config.TransportNATS:
		client, err := connectToNATS(ctx, cfg.NATS.URL, logger)
		if err != nil {
			return nil, nil, err
		}
		t := transport.NewNATSTransport(client.GetConnection(), cfg.NATS.Subject, logger).WithProject(cfg.Project)
		return t, func() { _ = client.Close(context.Background()) }, nil
	default:
		t := transport.NewHTTPTransport(cfg.Editor.APIURL, nil, logger).WithProject(cfg.Project)
		return t, func() {}, nil
	}
}

func newSession(cfg *config.Config, t transport.Transport, prefixes map[string]string, logger *slog.Logger, onStatus func(status.Summary)) *editor.Session {
	return editor.NewSession(t, editor.Options{
		SaveDelay:   cfg.Editor.SaveDelay,
		SaveTimeout: cfg.Editor.SaveTimeout,
		Prefixes:    cfg.PrefixTable().Merge(prefixes),
		Logger:      logger,
		OnStatus:    onStatus,
	})
}

func pushCmd(opts *globalOptions) *cobra.Command {
	var open string

	cmd := &cobra.Command{
		Use:   "push <snapshot>",
		Short: "Serialize a snapshot and save it to the rules API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			snap, rs, err := loadSnapshot(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Editor.SaveTimeout)
			defer cancel()

			t, closeTransport, err := newTransport(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeTransport()

			session := newSession(cfg, t, snap.Prefixes, logger, nil)
			defer session.Close()
			session.Load(rs)

			out := cmd.OutOrStdout()
			if open != "" {
				path, err := session.SaveAndOpen(ctx, open)
				if err != nil {
					printMessages(cmd.ErrOrStderr(), args[0], session.Status().Messages)
					return err
				}
				fmt.Fprintln(out, path)
				return nil
			}

			sum, err := session.Save(ctx)
			if err != nil {
				printMessages(cmd.ErrOrStderr(), args[0], sum.Messages)
				return err
			}
			fmt.Fprintf(out, "%s: saved %d rules to project %s\n", args[0], len(rs), cfg.Project)
			return nil
		},
	}

	cmd.Flags().StringVar(&open, "open", "", "After saving, print the editor path of this rule")
	return cmd
}

func watchCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <snapshot>",
		Short: "Save a snapshot to the rules API whenever it changes",
		Long: `Watch loads a snapshot and saves it after each change, once the file has
been quiet for editor.save_delay. Pending changes are saved on exit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			path := args[0]
			snap, rs, err := loadSnapshot(path)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			t, closeTransport, err := newTransport(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeTransport()

			session := newSession(cfg, t, snap.Prefixes, logger, func(sum status.Summary) {
				logStatus(logger, path, sum)
			})
			defer session.Close()
			session.Load(rs)

			watcher, err := editor.NewSnapshotWatcher([]string{path}, logger)
			if err != nil {
				return err
			}
			go watcher.Run(ctx)
			defer watcher.Close()

			logger.Info("Watching snapshot", "path", path, "save_delay", cfg.Editor.SaveDelay)
			return watchLoop(ctx, watcher.Changes(), session, cfg.Editor.SaveTimeout, logger)
		},
	}
}

// watchLoop feeds snapshot changes into the session until ctx is done, then
// saves anything still unsaved.
func watchLoop(ctx context.Context, changes <-chan string, session *editor.Session, saveTimeout time.Duration, logger *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return flushOnExit(session, saveTimeout, logger)
		case path, ok := <-changes:
			if !ok {
				return flushOnExit(session, saveTimeout, logger)
			}
			_, rs, err := loadSnapshot(path)
			if err != nil {
				logger.Warn("Ignoring unreadable snapshot", "path", path, "error", err)
				continue
			}
			session.Update(rs)
		}
	}
}

func flushOnExit(session *editor.Session, saveTimeout time.Duration, logger *slog.Logger) error {
	if !session.Dirty() {
		return nil
	}
	logger.Info("Saving pending changes before exit")
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	_, err := session.Save(ctx)
	return err
}

func logStatus(logger *slog.Logger, path string, sum status.Summary) {
	switch sum.State {
	case status.StatePending:
		logger.Debug("Save scheduled", "path", path)
	case status.StateValid:
		logger.Info("Rules saved", "path", path)
	default:
		texts := make([]string, len(sum.Messages))
		for i, m := range sum.Messages {
			texts[i] = m.Text
		}
		logger.Warn("Rules not saved",
			"path", path,
			"state", sum.State,
			"count", sum.Badge(),
			"messages", strings.Join(texts, "; "))
	}
}

func connectToNATS(ctx context.Context, url string, logger *slog.Logger) (*natsclient.Client, error) {
	if url == "" {
		url = "nats://localhost:4222"
	}
	logger.Info("Connecting to NATS", "url", url)

	client, err := natsclient.NewClient(url,
		natsclient.WithName(appName),
		natsclient.WithMaxReconnects(-1),
		natsclient.WithReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create NATS client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, wrapNATSError(err, url)
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.WaitForConnection(connCtx); err != nil {
		return nil, wrapNATSError(err, url)
	}

	logger.Info("Connected to NATS", "url", url)
	return client, nil
}

// wrapNATSError provides guidance when the NATS connection fails.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

Set nats.url in semmap.yaml or the SEMMAP_NATS_URL environment variable
to point to your NATS server.`, err, url)
	}
	return fmt.Errorf("NATS connection failed: %w", err)
}
