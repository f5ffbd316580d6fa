package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"trade-journal/internal/errors"
	"trade-journal/internal/models"
	"trade-journal/internal/store"
)

// addTradeCommands adds trade recording commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Record and manage trades",
		Long:  "Add, list, edit, delete, import and export journaled trades.",
	}

	cmd.AddCommand(newTradeAddCmd(app))
	cmd.AddCommand(newTradeListCmd(app))
	cmd.AddCommand(newTradeEditCmd(app))
	cmd.AddCommand(newTradeDeleteCmd(app))
	cmd.AddCommand(newTradeImportCmd(app))
	cmd.AddCommand(newTradeExportCmd(app))

	rootCmd.AddCommand(cmd)
}

func addTradeFlags(cmd *cobra.Command) {
	cmd.Flags().String("date", "", "Trade date YYYY-MM-DD (default: today)")
	cmd.Flags().StringP("symbol", "s", "", "Instrument symbol")
	cmd.Flags().StringP("direction", "d", "", "Direction: buy/long or sell/short")
	cmd.Flags().Float64("gross", 0, "Gross P&L (derived from prices and quantity when omitted)")
	cmd.Flags().Float64("fees", 0, "Fees and commissions")
	cmd.Flags().Float64("entry", 0, "Entry price")
	cmd.Flags().Float64("exit", 0, "Exit price")
	cmd.Flags().Float64("qty", 0, "Quantity")
	cmd.Flags().String("notes", "", "Free-form notes")
}

func newTradeAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a closed trade",
		Example: `  journal trade add -s EURUSD -d long --gross 120 --fees 4
  journal trade add -s AAPL -d short --entry 190 --exit 185 --qty 10 --date 2024-03-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}

			in := models.TradeInput{AccountID: account(cmd)}
			in.Date, _ = cmd.Flags().GetString("date")
			in.Symbol, _ = cmd.Flags().GetString("symbol")
			in.Direction, _ = cmd.Flags().GetString("direction")
			in.Fees, _ = cmd.Flags().GetFloat64("fees")
			in.EntryPrice, _ = cmd.Flags().GetFloat64("entry")
			in.ExitPrice, _ = cmd.Flags().GetFloat64("exit")
			in.Quantity, _ = cmd.Flags().GetFloat64("qty")
			in.Notes, _ = cmd.Flags().GetString("notes")
			if in.Date == "" {
				in.Date = svc.Today()
			}

			if cmd.Flags().Changed("gross") {
				in.GrossPL, _ = cmd.Flags().GetFloat64("gross")
			} else {
				if in.EntryPrice == 0 || in.ExitPrice == 0 || in.Quantity == 0 {
					return errors.NewValidationError("gross", nil, "--gross is required unless --entry, --exit and --qty are all given")
				}
				dir, err := models.ParseDirection(in.Direction)
				if err != nil {
					return err
				}
				in.GrossPL = models.DerivedGrossPL(dir, in.EntryPrice, in.ExitPrice, in.Quantity)
			}

			rec, err := svc.RecordTrade(ctx, in)
			if err != nil {
				return err
			}

			// Refresh the monthly target and risk alerts.
			if _, err := svc.CurrentTarget(ctx); err != nil {
				return err
			}
			eval, err := svc.RiskStatus(ctx)
			if err != nil {
				return err
			}

			if output.IsStructured() {
				return output.Structured(map[string]interface{}{
					"trade":  rec,
					"alerts": eval.Alerts,
				})
			}
			output.Success("Trade recorded: %s", rec.ID)
			printTrade(output, rec)
			return nil
		},
	}

	addTradeFlags(cmd)
	return cmd
}

func newTradeListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trades",
		Example: `  journal trade list
  journal trade list --from 2024-01-01 --to 2024-03-31 -s EURUSD`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}

			filter := store.TradeFilter{AccountID: account(cmd)}
			filter.Symbol, _ = cmd.Flags().GetString("symbol")
			filter.StartDate, _ = cmd.Flags().GetString("from")
			filter.EndDate, _ = cmd.Flags().GetString("to")
			filter.Limit, _ = cmd.Flags().GetInt("limit")
			if filter.Symbol != "" {
				filter.Symbol = models.NormalizeSymbol(filter.Symbol)
			}

			trades, err := svc.FindTrades(ctx, filter)
			if err != nil {
				return err
			}

			if output.IsStructured() {
				return output.Structured(trades)
			}
			if len(trades) == 0 {
				output.Info("No trades found.")
				return nil
			}

			table := NewTable(output, "ID", "Date", "Symbol", "Dir", "Gross", "Fees", "Net", "Account", "Notes")
			var total float64
			for _, t := range trades {
				total += t.NetPL
				table.AddRow(
					TruncateString(t.ID, 8),
					t.Date,
					t.Symbol,
					string(t.Direction),
					output.Money(t.GrossPL),
					output.Money(t.Fees),
					output.FormatPnL(t.NetPL),
					t.AccountID,
					TruncateString(t.Notes, 20),
				)
			}
			table.Render()
			output.Println()
			output.Printf("%d trades, net %s\n", len(trades), output.FormatPnL(total))
			return nil
		},
	}

	cmd.Flags().StringP("symbol", "s", "", "Filter by symbol")
	cmd.Flags().String("from", "", "Start date YYYY-MM-DD (inclusive)")
	cmd.Flags().String("to", "", "End date YYYY-MM-DD (inclusive)")
	cmd.Flags().Int("limit", 0, "Maximum number of trades (0 = all)")
	return cmd
}

func newTradeEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <trade-id>",
		Short:   "Edit a recorded trade",
		Long:    "Edit a trade. Only the flags given are changed; net P&L is recomputed.",
		Example: `  journal trade edit 3f2a... --fees 6 --notes "late exit"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}

			existing, err := svc.GetTrade(ctx, args[0])
			if err != nil {
				return err
			}
			update := existing.Update()

			flags := cmd.Flags()
			if flags.Changed("date") {
				update.Date, _ = flags.GetString("date")
			}
			if flags.Changed("symbol") {
				update.Symbol, _ = flags.GetString("symbol")
			}
			if flags.Changed("direction") {
				raw, _ := flags.GetString("direction")
				dir, err := models.ParseDirection(raw)
				if err != nil {
					return err
				}
				update.Direction = dir
			}
			if flags.Changed("gross") {
				update.GrossPL, _ = flags.GetFloat64("gross")
			}
			if flags.Changed("fees") {
				update.Fees, _ = flags.GetFloat64("fees")
			}
			if flags.Changed("entry") {
				update.EntryPrice, _ = flags.GetFloat64("entry")
			}
			if flags.Changed("exit") {
				update.ExitPrice, _ = flags.GetFloat64("exit")
			}
			if flags.Changed("qty") {
				update.Quantity, _ = flags.GetFloat64("qty")
			}
			if flags.Changed("notes") {
				update.Notes, _ = flags.GetString("notes")
			}
			if flags.Changed("account") {
				update.AccountID = account(cmd)
			}

			rec, err := svc.EditTrade(ctx, existing.ID, update)
			if err != nil {
				return err
			}
			if _, err := svc.CurrentTarget(ctx); err != nil {
				return err
			}

			if output.IsStructured() {
				return output.Structured(rec)
			}
			output.Success("Trade updated: %s", rec.ID)
			printTrade(output, rec)
			return nil
		},
	}

	addTradeFlags(cmd)
	return cmd
}

func newTradeDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trade-id>",
		Short: "Delete a recorded trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}
			if err := svc.DeleteTrade(ctx, args[0]); err != nil {
				return err
			}
			if _, err := svc.CurrentTarget(ctx); err != nil {
				return err
			}

			if output.IsStructured() {
				return output.Structured(map[string]string{"deleted": args[0]})
			}
			output.Success("Trade deleted: %s", args[0])
			return nil
		},
	}
}

func newTradeImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv|->",
		Short: "Import trades from CSV",
		Long: `Import trades from a CSV file with a header row.

Required columns: date, symbol, direction, gross_pl.
Optional columns: account, fees, entry_price, exit_price, quantity, notes.
Files written by 'trade export' can be imported directly. Use - for stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}

			var r io.Reader
			source := args[0]
			if source == "-" {
				r = cmd.InOrStdin()
			} else {
				f, err := os.Open(source)
				if err != nil {
					return fmt.Errorf("opening %s: %w", source, err)
				}
				defer f.Close()
				r = f
			}

			n, err := svc.ImportCSV(ctx, r, filepath.Base(source))
			if err != nil {
				return err
			}
			if _, err := svc.CurrentTarget(ctx); err != nil {
				return err
			}

			if output.IsStructured() {
				return output.Structured(map[string]int{"imported": n})
			}
			output.Success("Imported %d trades", n)
			return nil
		},
	}
}

func newTradeExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export trades to CSV",
		Example: `  journal trade export > trades.csv
  journal trade export -o trades.csv --account main`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}

			path, _ := cmd.Flags().GetString("output")
			w := cmd.OutOrStdout()
			if path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating %s: %w", path, err)
				}
				defer f.Close()
				w = f
			}

			n, err := svc.ExportCSV(ctx, w, account(cmd))
			if err != nil {
				return err
			}
			if path != "" {
				app.output(cmd).Success("Exported %d trades to %s", n, path)
			}
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")
	return cmd
}

func printTrade(output *Output, t models.TradeRecord) {
	output.Printf("  Date:      %s\n", t.Date)
	output.Printf("  Symbol:    %s %s\n", t.Symbol, t.Direction)
	output.Printf("  Gross:     %s\n", output.Money(t.GrossPL))
	output.Printf("  Fees:      %s\n", output.Money(t.Fees))
	output.Printf("  Net:       %s\n", output.FormatPnL(t.NetPL))
	if t.EntryPrice > 0 || t.ExitPrice > 0 {
		output.Printf("  Prices:    %g -> %g x %g\n", t.EntryPrice, t.ExitPrice, t.Quantity)
	}
	if t.AccountID != "" {
		output.Printf("  Account:   %s\n", t.AccountID)
	}
	if t.Notes != "" {
		output.Printf("  Notes:     %s\n", t.Notes)
	}
}
