package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/mindmates/internal/api"
)

func newStudyCommand(a *app) *cobra.Command {
	var stopAfter time.Duration

	cmd := &cobra.Command{
		Use:   "study <roomId>",
		Short: "Track a study session until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t := a.tracker()

			if err := t.Start(ctx, args[0]); err != nil {
				return a.fail(ctx, api.OpStartStudy, err)
			}
			a.printf(cmd, "studying in %s, press Ctrl+C to stop\n", args[0])

			waitCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			if stopAfter > 0 {
				var cancel context.CancelFunc
				waitCtx, cancel = context.WithTimeout(waitCtx, stopAfter)
				defer cancel()
			}
			<-waitCtx.Done()

			// The interrupt cancelled waitCtx; stopping must still reach the backend.
			stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
			defer cancel()
			d, err := t.Stop(stopCtx, args[0])
			if err != nil {
				return a.fail(ctx, api.OpStopStudy, err)
			}
			a.printf(cmd, "session ended after %s\n", d)
			return nil
		},
	}
	cmd.Flags().DurationVar(&stopAfter, "for", 0, "Stop automatically after this long")
	return cmd
}
