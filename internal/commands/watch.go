package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zero-coolio/ofc/internal/log"
	"github.com/zero-coolio/ofc/internal/stream"
)

func newWatchCommand(opts *options) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the ledger, re-rendering on pushes and periodic reloads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}

			src, err := stream.New(stream.Config{
				Type:     stream.Type(rt.cfg.Stream),
				WSURL:    rt.cfg.WSURL,
				APIKey:   rt.cfg.APIKey,
				AMQPURL:  rt.cfg.AMQPURL,
				Exchange: rt.cfg.AMQPExchange,
				Queue:    rt.cfg.AMQPQueue,
			}, rt.logger.WithComponent(log.ComponentStream))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Watch shows the recent window, matching list's default.
			spec, err := buildFilter("", "", "", "", "", days)
			if err != nil {
				return err
			}
			rt.view.ApplyFilter(spec)

			rt.logger.Info("watching ledger", log.FieldStreamType, rt.cfg.Stream)
			if err := rt.view.Load(ctx); err != nil {
				return fmt.Errorf("initial load: %w", err)
			}
			renderSnapshot(cmd.OutOrStdout(), rt.view.Snapshot(), rt.notices.Active())

			return runWatch(ctx, rt, src, cmd)
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "window of recent days to show; 0 shows everything")

	return cmd
}

// runWatch drives the three watch loops: push consumption with reconnect,
// periodic reload, and rendering. All three stop when ctx ends.
func runWatch(ctx context.Context, rt *runtime, src stream.Source, cmd *cobra.Command) error {
	redraw := make(chan struct{}, 1)
	requestRedraw := func() {
		select {
		case redraw <- struct{}{}:
		default:
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			err := src.Run(ctx, func(rec map[string]any) {
				rt.view.ApplyPush(rec)
				requestRedraw()
			})
			if ctx.Err() != nil {
				return nil
			}
			rt.logger.Warn("push channel lost, reconnecting", log.FieldError, err.Error())
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(5 * time.Second):
			}
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(rt.cfg.RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := rt.view.Load(ctx); err != nil {
					rt.logger.Warn("periodic reload failed", log.FieldError, err.Error())
					continue
				}
				requestRedraw()
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-redraw:
				renderSnapshot(cmd.OutOrStdout(), rt.view.Snapshot(), rt.notices.Active())
			}
		}
	})

	return g.Wait()
}
