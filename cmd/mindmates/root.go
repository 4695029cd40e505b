package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/mindmates/internal/config"
	"github.com/Skotchmaster/mindmates/internal/logging"
)

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "mindmates",
		Short:         "Study rooms, tracking and achievements from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if err := a.open(ctx, config.Load()); err != nil {
				return err
			}
			cmd.SetContext(logging.IntoContext(ctx, a.log))
			return nil
		},
	}
	cmd.PersistentFlags().BoolVar(&a.asJSON, "json", false, "Print results as JSON")

	cmd.AddCommand(
		newLoginCommand(a),
		newRegisterCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newRoomsCommand(a),
		newStudyCommand(a),
		newAnalyticsCommand(a),
		newAchievementsCommand(a),
		newStatsCommand(a),
		newServeCommand(a),
	)
	return cmd
}
