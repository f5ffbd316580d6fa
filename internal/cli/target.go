package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"trade-journal/internal/errors"
	"trade-journal/internal/targets"
	"trade-journal/pkg/utils"
)

// addTargetCommands adds monthly target commands.
func addTargetCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "target",
		Short: "Track monthly targets",
		Long: `Track progress against monthly P&L, trade count and win rate goals.

The current month's target is created from the configured defaults the first
time it is needed. Once all goals are met the target stays completed until it
is reset.`,
	}

	cmd.AddCommand(newTargetShowCmd(app))
	cmd.AddCommand(newTargetSetCmd(app))
	cmd.AddCommand(newTargetResetCmd(app))
	cmd.AddCommand(newTargetListCmd(app))

	rootCmd.AddCommand(cmd)
}

func newTargetShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show progress for a month (default: current month)",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}

			raw, _ := cmd.Flags().GetString("month")
			year, month, err := ParseMonth(raw, svc.Today())
			if err != nil {
				return err
			}

			var status targets.TargetStatus
			curYear, curMonth, _ := utils.YearMonth(svc.Today())
			if year == curYear && month == curMonth {
				status, err = svc.CurrentTarget(ctx)
				if err != nil {
					return err
				}
			} else {
				t, err := svc.Target(ctx, year, month)
				if err != nil {
					if errors.Is(err, errors.ErrTargetNotFound) {
						return fmt.Errorf("no target for %s: %w", utils.MonthKey(year, month), err)
					}
					return err
				}
				status = targets.TargetStatus{Target: t, State: targets.StateOf(&t)}
			}

			if output.IsStructured() {
				return output.Structured(status)
			}
			printTarget(output, status)
			return nil
		},
	}

	cmd.Flags().StringP("month", "m", "", "Month YYYY-MM")
	return cmd
}

func newTargetSetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the goals of a month",
		Long:  "Set the goals of a month. Goals not given keep their current value, or the configured default for a new target.",
		Example: `  journal target set --pnl 2000 --trades 30 --win-rate 55
  journal target set --month 2024-07 --pnl 1500`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}

			raw, _ := cmd.Flags().GetString("month")
			year, month, err := ParseMonth(raw, svc.Today())
			if err != nil {
				return err
			}

			goals := app.Config.Targets
			existing, err := svc.Target(ctx, year, month)
			switch {
			case err == nil:
				goals = existing.Goals()
			case !errors.Is(err, errors.ErrTargetNotFound):
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("pnl") {
				goals.PnLTarget, _ = flags.GetFloat64("pnl")
			}
			if flags.Changed("trades") {
				goals.TradesTarget, _ = flags.GetInt("trades")
			}
			if flags.Changed("win-rate") {
				goals.WinRateTarget, _ = flags.GetFloat64("win-rate")
			}

			t, err := svc.SetTarget(ctx, year, month, goals)
			if err != nil {
				return err
			}

			if output.IsStructured() {
				return output.Structured(t)
			}
			output.Success("Target set for %s", t.Key())
			printTarget(output, targets.TargetStatus{Target: t, State: targets.StateOf(&t)})
			return nil
		},
	}

	cmd.Flags().StringP("month", "m", "", "Month YYYY-MM (default: current month)")
	cmd.Flags().Float64("pnl", 0, "Net P&L goal")
	cmd.Flags().Int("trades", 0, "Trade count goal")
	cmd.Flags().Float64("win-rate", 0, "Win rate goal in percent")
	return cmd
}

func newTargetResetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear a month's completion so it can complete again",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}

			raw, _ := cmd.Flags().GetString("month")
			year, month, err := ParseMonth(raw, svc.Today())
			if err != nil {
				return err
			}

			t, err := svc.ResetTarget(ctx, year, month)
			if err != nil {
				return err
			}

			if output.IsStructured() {
				return output.Structured(t)
			}
			output.Success("Target %s reset", t.Key())
			return nil
		},
	}

	cmd.Flags().StringP("month", "m", "", "Month YYYY-MM (default: current month)")
	return cmd
}

func newTargetListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all monthly targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}
			list, err := svc.Targets(ctx)
			if err != nil {
				return err
			}

			if output.IsStructured() {
				return output.Structured(list)
			}
			if len(list) == 0 {
				output.Info("No targets yet. Run 'journal target show' to create this month's.")
				return nil
			}

			table := NewTable(output, "Month", "P&L", "Trades", "Win Rate", "Status")
			for _, t := range list {
				status := "in progress"
				if t.IsCompleted {
					status = output.Green("completed")
				}
				table.AddRow(
					t.Key(),
					fmt.Sprintf("%s / %s", output.FormatPnL(t.CurrentPnL), output.Money(t.PnLTarget)),
					fmt.Sprintf("%d / %d", t.CurrentTrades, t.TradesTarget),
					fmt.Sprintf("%s / %s", FormatWinRate(t.CurrentWinRate), FormatWinRate(t.WinRateTarget)),
					status,
				)
			}
			table.Render()
			return nil
		},
	}
}

func printTarget(output *Output, status targets.TargetStatus) {
	t := status.Target
	output.Bold("Target %s", t.Key())
	if status.Created {
		output.Dim("Created from configured defaults")
	}

	output.Progress("P&L", t.CurrentPnL, t.PnLTarget,
		fmt.Sprintf("%s / %s", output.FormatPnL(t.CurrentPnL), output.Money(t.PnLTarget)))
	output.Progress("Trades", float64(t.CurrentTrades), float64(t.TradesTarget),
		fmt.Sprintf("%d / %d", t.CurrentTrades, t.TradesTarget))
	output.Progress("Win Rate", t.CurrentWinRate, t.WinRateTarget,
		fmt.Sprintf("%s / %s", FormatWinRate(t.CurrentWinRate), FormatWinRate(t.WinRateTarget)))

	switch {
	case status.JustCompleted:
		output.Success("All goals met. Target completed!")
	case status.State == targets.Completed:
		output.Success("Completed")
	case t.CompletedAt != nil:
		output.Warning("Completed on %s; progress has since dropped below the goals", t.CompletedAt.Format(utils.DateLayout))
	}
}
