package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"trade-journal/internal/journal"
	"trade-journal/internal/logging"
	"trade-journal/internal/risk"
)

// addRiskCommands adds daily risk monitoring commands.
func addRiskCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Monitor daily loss and drawdown limits",
		Long: `Check today's trades against the configured loss limits.

The daily loss alert fires once per day and the drawdown alert fires once
until 'journal risk reset'. Limits are set in the [risk] section of the
config file; a limit of 0 disables its check.`,
	}

	cmd.AddCommand(newRiskStatusCmd(app))
	cmd.AddCommand(newRiskWatchCmd(app))
	cmd.AddCommand(newRiskResetCmd(app))

	rootCmd.AddCommand(cmd)
}

func newRiskStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's risk status",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}
			eval, err := svc.RiskStatus(ctx)
			if err != nil {
				return err
			}

			if output.IsStructured() {
				return output.Structured(eval)
			}
			printRiskStatus(output, eval)
			return nil
		},
	}
}

func newRiskWatchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-check risk limits on a schedule",
		Long: `Re-check risk limits on a cron schedule until interrupted.

Alerts go to the configured notification channels. The schedule accepts
standard five-field cron expressions and descriptors such as "@every 30s".`,
		Example: `  journal risk watch
  journal risk watch --schedule "*/5 9-17 * * 1-5" --for 8h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}

			schedule, _ := cmd.Flags().GetString("schedule")
			if schedule == "" {
				schedule = app.Config.Risk.WatchSchedule
			}
			limit, _ := cmd.Flags().GetDuration("for")
			logger := logging.WithOperation(app.Logger, "risk_watch")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if limit > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, limit)
				defer cancel()
			}

			check := func() {
				checkCtx, cancel := context.WithTimeout(ctx, commandTimeout)
				defer cancel()
				if err := watchOnce(checkCtx, svc, output); err != nil {
					logger.Error().Err(err).Msg("Risk check failed")
				}
			}

			c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
			if _, err := c.AddFunc(schedule, check); err != nil {
				return fmt.Errorf("invalid schedule %q: %w", schedule, err)
			}

			if !output.IsStructured() {
				output.Info("Watching risk limits (%s). Press Ctrl+C to stop.", schedule)
			}
			check()

			c.Start()
			logger.Info().Str("schedule", schedule).Msg("Risk watch started")
			<-ctx.Done()
			<-c.Stop().Done()
			logger.Info().Msg("Risk watch stopped")
			return nil
		},
	}

	cmd.Flags().String("schedule", "", "Cron schedule (default from config)")
	cmd.Flags().Duration("for", 0, "Stop after this long (0 = until interrupted)")
	return cmd
}

func newRiskResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Re-arm risk alerts that have already fired",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}
			if err := svc.ResetAlerts(ctx); err != nil {
				return err
			}

			if output.IsStructured() {
				return output.Structured(map[string]bool{"reset": true})
			}
			output.Success("Risk alerts re-armed")
			return nil
		},
	}
}

// watchOnce runs one scheduled check. Alerts reach the user through the
// notifier; structured output gets one document per check.
func watchOnce(ctx context.Context, svc *journal.Service, output *Output) error {
	eval, err := svc.RiskStatus(ctx)
	if err != nil {
		return err
	}
	if output.IsStructured() {
		return output.Structured(eval)
	}
	output.Dim("[%s] day %s, total %s",
		time.Now().Format("15:04:05"),
		output.FormatPnL(eval.Snapshot.CurrentDayPnL),
		output.FormatPnL(eval.Snapshot.TotalNetPL))
	return nil
}

func printRiskStatus(output *Output, eval risk.Evaluation) {
	snap := eval.Snapshot
	output.Bold("Risk Status %s", snap.Date)
	output.Printf("  Today's Trades:   %d\n", snap.CurrentDayTrades)
	output.Printf("  Today's P&L:      %s\n", output.FormatPnL(snap.CurrentDayPnL))
	output.Printf("  Total Net P&L:    %s\n", output.FormatPnL(snap.TotalNetPL))
	output.Printf("  Win Streak:       %d\n", snap.WinStreak)
	output.Println()

	output.Printf("  Daily Loss Limit: %s  %s\n", limitString(output, eval.Thresholds.DailyLossLimit), breachLabel(output, eval.Thresholds.DailyLossLimit, eval.DailyLossBreached))
	output.Printf("  Drawdown Limit:   %s  %s\n", limitString(output, eval.Thresholds.DrawdownLimit), breachLabel(output, eval.Thresholds.DrawdownLimit, eval.DrawdownBreached))

	for _, a := range eval.Alerts {
		output.Println()
		output.Warning("%s", a.Message)
	}
}

func breachLabel(output *Output, limit float64, breached bool) string {
	switch {
	case limit <= 0:
		return ""
	case breached:
		return output.Red("BREACHED")
	default:
		return output.Green("ok")
	}
}
