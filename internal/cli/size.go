package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"trade-journal/internal/models"
	"trade-journal/internal/risk"
)

// addSizingCommands adds the position size calculator and risk profiles.
func addSizingCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newSizeCmd(app))

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage saved risk profiles",
		Long:  "Save, list and delete named sets of position size calculator inputs.",
	}
	profileCmd.AddCommand(newProfileSaveCmd(app))
	profileCmd.AddCommand(newProfileListCmd(app))
	profileCmd.AddCommand(newProfileDeleteCmd(app))
	rootCmd.AddCommand(profileCmd)
}

func newSizeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "size",
		Short: "Calculate a position size from a risk budget",
		Long: `Calculate the position size that loses the chosen share of the account
when the stop is hit.

Distances are in instrument units (pips or points) and the pip value is the
currency value of one unit per standard lot.`,
		Example: `  journal size --balance 10000 --risk 1 --stop 25
  journal size --balance 10000 --risk 2 --stop 50 --tp 150 --pip 10
  journal size --profile scalping --stop 15`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			stop, _ := flags.GetFloat64("stop")
			pip := app.Config.Risk.DefaultPipValue
			if flags.Changed("pip") {
				pip, _ = flags.GetFloat64("pip")
			}

			if name, _ := flags.GetString("profile"); name != "" {
				proj, err := svc.SizeWithProfile(ctx, name, stop, pip)
				if err != nil {
					return err
				}
				if output.IsStructured() {
					return output.Structured(proj)
				}
				output.Bold("Position Size (%s)", proj.Profile)
				printPosition(output, proj.Position)
				output.Printf("  Trades / Day:     %d\n", proj.TradesPerDay)
				output.Printf("  Daily Risk:       %s\n", output.Money(proj.DailyRiskAmount))
				if proj.DailyPotentialProfit != nil {
					output.Printf("  Daily Potential:  %s\n", output.Money(*proj.DailyPotentialProfit))
				}
				return nil
			}

			in := risk.PositionInput{
				StopLossDistance: stop,
				PipValue:         pip,
				RiskPercent:      app.Config.Risk.DefaultRiskPercent,
			}
			in.AccountBalance, _ = flags.GetFloat64("balance")
			if flags.Changed("risk") {
				in.RiskPercent, _ = flags.GetFloat64("risk")
			}
			if flags.Changed("tp") {
				tp, _ := flags.GetFloat64("tp")
				in.TakeProfitDistance = &tp
			}

			result, err := svc.Size(in)
			if err != nil {
				return err
			}
			if output.IsStructured() {
				return output.Structured(result)
			}
			output.Bold("Position Size")
			printPosition(output, result)
			return nil
		},
	}

	cmd.Flags().Float64P("balance", "b", 0, "Account balance")
	cmd.Flags().Float64P("risk", "r", 0, "Risk per trade in percent (default from config)")
	cmd.Flags().Float64("stop", 0, "Stop-loss distance")
	cmd.Flags().Float64("tp", 0, "Take-profit distance")
	cmd.Flags().Float64("pip", 0, "Pip value per standard lot (default from config)")
	cmd.Flags().StringP("profile", "p", "", "Use a saved risk profile")
	return cmd
}

func newProfileSaveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "save <name>",
		Short:   "Create or replace a risk profile",
		Example: `  journal profile save swing --balance 25000 --risk 1 --reward 3 --trades-per-day 2`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}

			p := models.RiskProfile{Name: args[0]}
			p.AccountBalance, _ = cmd.Flags().GetFloat64("balance")
			p.RiskPercent, _ = cmd.Flags().GetFloat64("risk")
			p.RewardRatio, _ = cmd.Flags().GetFloat64("reward")
			p.TradesPerDay, _ = cmd.Flags().GetInt("trades-per-day")

			saved, err := svc.SaveProfile(ctx, p)
			if err != nil {
				return err
			}
			if output.IsStructured() {
				return output.Structured(saved)
			}
			output.Success("Profile %q saved", saved.Name)
			return nil
		},
	}

	cmd.Flags().Float64P("balance", "b", 0, "Account balance")
	cmd.Flags().Float64P("risk", "r", 1, "Risk per trade in percent")
	cmd.Flags().Float64("reward", 0, "Reward-to-risk ratio (0 = none)")
	cmd.Flags().Int("trades-per-day", 1, "Planned trades per day")
	return cmd
}

func newProfileListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved risk profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}
			profiles, err := svc.Profiles(ctx)
			if err != nil {
				return err
			}

			if output.IsStructured() {
				return output.Structured(profiles)
			}
			if len(profiles) == 0 {
				output.Info("No saved profiles.")
				return nil
			}

			table := NewTable(output, "Name", "Balance", "Risk", "Reward", "Trades/Day")
			for _, p := range profiles {
				reward := "-"
				if p.RewardRatio > 0 {
					reward = fmt.Sprintf("1:%.2f", p.RewardRatio)
				}
				table.AddRow(
					p.Name,
					output.Money(p.AccountBalance),
					fmt.Sprintf("%.2f%%", p.RiskPercent),
					reward,
					fmt.Sprintf("%d", p.TradesPerDay),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newProfileDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved risk profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.service(cmd)
			if err != nil {
				return err
			}
			if err := svc.DeleteProfile(ctx, args[0]); err != nil {
				return err
			}

			if output.IsStructured() {
				return output.Structured(map[string]string{"deleted": args[0]})
			}
			output.Success("Profile %q deleted", args[0])
			return nil
		},
	}
}

func printPosition(output *Output, r risk.PositionResult) {
	output.Printf("  Risk Amount:      %s\n", output.Money(r.RiskAmount))
	output.Printf("  Position Size:    %s\n", FormatLots(r.PositionSize))
	if r.PotentialProfit != nil {
		output.Printf("  Potential Profit: %s\n", output.Money(*r.PotentialProfit))
	}
	output.Printf("  Risk/Reward:      %s\n", FormatRiskReward(r.RiskRewardRatio))
}
