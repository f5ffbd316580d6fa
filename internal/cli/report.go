package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"trade-journal/internal/analytics"
)

// addReportCommands adds the analytics commands.
func addReportCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newStatsCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
	rootCmd.AddCommand(newSymbolsCmd(app))
	rootCmd.AddCommand(newMonthsCmd(app))
	rootCmd.AddCommand(newCalendarCmd(app))
}

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show overall trading statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}
			stats, err := svc.Summary(ctx, account(cmd))
			if err != nil {
				return err
			}

			if output.IsStructured() {
				return output.Structured(stats)
			}
			if stats.TotalTrades == 0 {
				output.Info("No trades recorded yet.")
				return nil
			}
			output.Bold("Trading Statistics")
			printStats(output, stats)
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show a historical performance report",
		Long: `Show a historical performance report for a date range.

The report includes summary statistics, per-period results, the best symbols,
maximum drawdown, win and loss streaks and consistency (the share of periods
with a positive net P&L).`,
		Example: `  journal history
  journal history --timeframe weekly --from 2024-01-01 --to 2024-03-31`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}

			rawTF, _ := cmd.Flags().GetString("timeframe")
			tf, err := analytics.ParseTimeframe(rawTF)
			if err != nil {
				return err
			}
			r, err := dateRange(cmd, svc.Today())
			if err != nil {
				return err
			}

			report, err := svc.History(ctx, tf, r, account(cmd))
			if err != nil {
				return err
			}

			if output.IsStructured() {
				return output.Structured(report)
			}
			printHistory(output, report)
			return nil
		},
	}

	cmd.Flags().StringP("timeframe", "t", string(analytics.Monthly), "Grouping: daily, weekly, monthly or yearly")
	cmd.Flags().String("from", "", "Start date YYYY-MM-DD (default: January 1 of this year)")
	cmd.Flags().String("to", "", "End date YYYY-MM-DD (default: today)")
	return cmd
}

func newSymbolsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symbols",
		Short: "Rank symbols by net P&L",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}
			top, _ := cmd.Flags().GetInt("top")
			symbols, err := svc.Symbols(ctx, account(cmd), top)
			if err != nil {
				return err
			}

			if output.IsStructured() {
				return output.Structured(symbols)
			}
			if len(symbols) == 0 {
				output.Info("No trades recorded yet.")
				return nil
			}
			printSymbols(output, symbols)
			return nil
		},
	}

	cmd.Flags().IntP("top", "n", analytics.TopSymbolCount, "Number of symbols to show (0 = all)")
	return cmd
}

func newMonthsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "months",
		Short: "Show results of the last N months",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}
			n, _ := cmd.Flags().GetInt("last")
			months, err := svc.RecentMonths(ctx, n, account(cmd))
			if err != nil {
				return err
			}

			if output.IsStructured() {
				return output.Structured(months)
			}
			printPeriods(output, "Month", months)
			return nil
		},
	}

	cmd.Flags().Int("last", 6, "Number of months including the current one")
	return cmd
}

func newCalendarCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show day-by-day results for a date range",
		Example: `  journal calendar
  journal calendar --from 2024-03-01 --to 2024-03-31`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}

			today := svc.Today()
			from, _ := cmd.Flags().GetString("from")
			if from == "" {
				from = today[:8] + "01"
			}
			to, _ := cmd.Flags().GetString("to")
			if to == "" {
				to = today
			}

			days, err := svc.Calendar(ctx, analytics.DateRange{Start: from, End: to}, account(cmd))
			if err != nil {
				return err
			}

			if output.IsStructured() {
				return output.Structured(days)
			}
			printPeriods(output, "Day", days)
			return nil
		},
	}

	cmd.Flags().String("from", "", "Start date YYYY-MM-DD (default: first day of this month)")
	cmd.Flags().String("to", "", "End date YYYY-MM-DD (default: today)")
	return cmd
}

// dateRange reads --from and --to, defaulting to the year to date.
func dateRange(cmd *cobra.Command, today string) (analytics.DateRange, error) {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	if from == "" {
		from = today[:4] + "-01-01"
	}
	if to == "" {
		to = today
	}
	r := analytics.DateRange{Start: from, End: to}
	return r, r.Validate()
}

func printStats(output *Output, s analytics.StatsSummary) {
	output.Printf("  Total Trades:   %d (%d W / %d L / %d BE)\n", s.TotalTrades, s.WinningTrades, s.LosingTrades, s.BreakEvenTrades)
	output.Printf("  Win Rate:       %s\n", FormatWinRate(s.WinRate))
	output.Printf("  Net P&L:        %s\n", output.FormatPnL(s.TotalNetPL))
	output.Printf("  Gross P&L:      %s\n", output.FormatPnL(s.TotalGrossPL))
	output.Printf("  Fees:           %s\n", output.Money(s.TotalFees))
	output.Printf("  Average Trade:  %s\n", output.FormatPnL(s.AverageNetPL))
	output.Printf("  Average Win:    %s\n", output.FormatPnL(s.AverageWin))
	output.Printf("  Average Loss:   %s\n", output.FormatPnL(s.AverageLoss))
	output.Printf("  Best Trade:     %s\n", output.FormatPnL(s.BestTrade))
	output.Printf("  Worst Trade:    %s\n", output.FormatPnL(s.WorstTrade))
	output.Printf("  Profit Factor:  %s\n", profitFactor(s))
}

func profitFactor(s analytics.StatsSummary) string {
	if s.GrossLoss == 0 {
		if s.GrossProfit > 0 {
			return "∞"
		}
		return "-"
	}
	return fmt.Sprintf("%.2f", s.ProfitFactor)
}

func printHistory(output *Output, r analytics.HistoricalReport) {
	output.Bold("History %s to %s (%s)", r.Range.Start, r.Range.End, r.Timeframe)
	if r.Stats.TotalTrades == 0 {
		output.Info("No trades in this range.")
		return
	}
	printStats(output, r.Stats)
	output.Println()

	output.Bold("Activity")
	output.Printf("  Trading Days:   %d (%d profitable)\n", r.TradingDays, r.ProfitableDays)
	output.Printf("  Trades / Day:   %.2f\n", r.AverageTradesPerDay)
	output.Printf("  Max Drawdown:   %s\n", output.Money(r.MaxDrawdown))
	output.Printf("  Longest Streak: %d wins, %d losses\n", r.LongestWinStreak, r.LongestLossStreak)
	output.Printf("  Consistency:    %s of periods profitable\n", FormatWinRate(r.Consistency))
	output.Println()

	printPeriods(output, "Period", r.Periods)

	if len(r.TopSymbols) > 0 {
		output.Println()
		output.Bold("Top Symbols")
		printSymbols(output, r.TopSymbols)
	}

	if len(r.MonthlyBreakdown) > 0 {
		output.Println()
		output.Bold("Monthly Breakdown")
		printPeriods(output, "Month", r.MonthlyBreakdown)
	}
}

func printPeriods(output *Output, label string, periods []analytics.PeriodStats) {
	if len(periods) == 0 {
		output.Info("No periods to show.")
		return
	}
	table := NewTable(output, label, "Trades", "Win Rate", "Net P&L")
	for _, p := range periods {
		rate := "-"
		if p.Stats.TotalTrades > 0 {
			rate = FormatWinRate(p.Stats.WinRate)
		}
		table.AddRow(p.Key, fmt.Sprintf("%d", p.Stats.TotalTrades), rate, output.FormatPnL(p.Stats.TotalNetPL))
	}
	table.Render()
}

func printSymbols(output *Output, symbols []analytics.SymbolPerformance) {
	table := NewTable(output, "#", "Symbol", "Trades", "Win Rate", "Net P&L")
	for i, s := range symbols {
		table.AddRow(
			fmt.Sprintf("%d", i+1),
			s.Symbol,
			fmt.Sprintf("%d", s.TradeCount),
			FormatWinRate(s.WinRate),
			output.FormatPnL(s.NetPL),
		)
	}
	table.Render()
}
