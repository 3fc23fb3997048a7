package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/video-digest/internal/health"
	"github.com/nguyentantai21042004/video-digest/internal/httpserver"
	"github.com/nguyentantai21042004/video-digest/internal/observe"
	"github.com/nguyentantai21042004/video-digest/internal/watcher"
)

const version = "dev"

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the web form, probes and metrics; optionally watch the inbox",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			provider, err := observe.InitProvider("video-digest", version)
			if err != nil {
				return err
			}
			defer provider.Shutdown(context.WithoutCancel(ctx))

			a, err := newApp(ctx, *configPath, provider.Metrics)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			srv := httpserver.New(a.cfg, a.proc, health.New(a.readinessChecks()...), provider.Handler, a.log)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.ListenAndServe(gctx)
			})
			if a.cfg.Server.WatchInbox {
				g.Go(func() error {
					return watchInbox(gctx, a)
				})
			}

			a.log.Info(ctx, "Press Ctrl+C to stop")
			return g.Wait()
		},
	}
}

func newWatchCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Process URL files dropped into the inbox directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, *configPath, nil)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			return watchInbox(ctx, a)
		},
	}
}

// watchInbox runs the inbox watcher until ctx is cancelled.
func watchInbox(ctx context.Context, a *app) error {
	w, err := watcher.New(a.cfg.Paths.Inbox, a.proc.ProcessFile, a.log, a.cfg.Performance.MaxConcurrent)
	if err != nil {
		return err
	}
	defer w.Stop()

	a.log.Info(ctx, "Monitoring: %s", a.cfg.Paths.Inbox)
	a.log.Info(ctx, "Output: %s", a.cfg.Paths.Output)

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
