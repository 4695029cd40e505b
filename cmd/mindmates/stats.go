package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/mindmates/internal/achievements"
	"github.com/Skotchmaster/mindmates/internal/api"
)

const maxBar = 48

// hoursBar draws two marks per hour, clamped to [0, maxBar].
func hoursBar(hours float64) string {
	if !(hours > 0) {
		return ""
	}
	n := min(hours*2, maxBar)
	return strings.Repeat("#", int(n))
}

func newAnalyticsCommand(a *app) *cobra.Command {
	var rng string

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show study analytics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out, err := a.api.Tracking.Analytics(ctx, rng)
			if err != nil {
				return a.fail(ctx, api.OpAnalytics, err)
			}
			if a.asJSON {
				return a.printJSON(cmd, out)
			}

			var b strings.Builder
			fmt.Fprintf(&b, "total hours:  %.1f\n", out.Stats.TotalHours)
			fmt.Fprintf(&b, "avg session:  %.1f h\n", out.Stats.AvgSession)
			fmt.Fprintf(&b, "streak:       %d days\n", out.Stats.Streak)
			for _, p := range out.DailyData {
				fmt.Fprintf(&b, "  %-8s %5.1f h %s\n", p.Name, p.Hours, hoursBar(p.Hours))
			}
			a.printf(cmd, "%s", b.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&rng, "range", api.DefaultRange, "Time range: "+strings.Join(api.Ranges, ", "))
	return cmd
}

func newAchievementsCommand(a *app) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "Show earned and locked badges",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if check {
				if _, err := a.api.Achievements.Check(ctx); err != nil {
					return a.fail(ctx, api.OpAchievements, err)
				}
			}

			list, err := a.api.Achievements.List(ctx)
			if err != nil {
				return a.fail(ctx, api.OpAchievements, err)
			}
			s := achievements.Summarize(api.EarnedKeys(list))
			if a.asJSON {
				return a.printJSON(cmd, s)
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%s\n", s)
			for _, badge := range s.Earned {
				fmt.Fprintf(&b, "  [x] %s: %s\n", badge.Title, badge.Description)
			}
			for _, badge := range s.Locked {
				fmt.Fprintf(&b, "  [ ] %s: %s\n", badge.Title, badge.Description)
			}
			a.printf(cmd, "%s", b.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Ask the backend to evaluate badges first")
	return cmd
}

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := a.api.Achievements.Stats(ctx)
			if err != nil {
				return a.fail(ctx, api.OpDashboard, err)
			}
			if a.asJSON {
				return a.printJSON(cmd, st)
			}
			a.printf(cmd, "%.1f hours studied, %d subjects covered, %d badges earned\n", st.Hours, st.Subjects, st.Badges)
			return nil
		},
	}
}
