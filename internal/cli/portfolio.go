// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// addPortfolioCommands adds the portfolio command group.
func addPortfolioCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Portfolio management",
		Long:  "Group trading days into portfolios (accounts, strategies, sim vs. live).",
	}

	cmd.AddCommand(newPortfolioListCmd(app))
	cmd.AddCommand(newPortfolioAddCmd(app))
	cmd.AddCommand(newPortfolioUpdateCmd(app))
	cmd.AddCommand(newPortfolioDeleteCmd(app))

	rootCmd.AddCommand(cmd)
}

func newPortfolioListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List portfolios",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if _, err := app.requireJournal(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			portfolios, err := app.Store.ListPortfolios(ctx)
			if err != nil {
				output.Error("Failed to list portfolios: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(portfolios)
			}
			if len(portfolios) == 0 {
				output.Info("No portfolios. Create one with 'tradejournal portfolio add'.")
				return nil
			}

			table := NewTable(output, "Name", "Days", "Trades", "P&L", "ID")
			for _, p := range portfolios {
				table.AddRow(
					p.Name,
					fmt.Sprintf("%d", p.DayCount),
					fmt.Sprintf("%d", p.TradeCount),
					output.FormatPnL(p.TotalPnL),
					output.DimText(p.ID),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newPortfolioAddCmd(app *App) *cobra.Command {
	var (
		description string
		color       string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a portfolio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if _, err := app.requireJournal(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			id, err := app.Store.CreatePortfolio(ctx, args[0], description, color)
			if err != nil {
				output.Error("Failed to create portfolio: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"id": id})
			}
			output.Success("✓ Portfolio created: %s", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "portfolio description")
	cmd.Flags().StringVar(&color, "color", "#4f8cff", "display color")
	return cmd
}

func newPortfolioUpdateCmd(app *App) *cobra.Command {
	var (
		name        string
		description string
		color       string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a portfolio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if _, err := app.requireJournal(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			current, err := app.Store.GetPortfolio(ctx, args[0])
			if err != nil {
				output.Error("Failed to load portfolio: %v", err)
				return err
			}
			if name == "" {
				name = current.Name
			}
			if description == "" {
				description = current.Description
			}
			if color == "" {
				color = current.Color
			}

			if err := app.Store.UpdatePortfolio(ctx, args[0], name, description, color); err != nil {
				output.Error("Failed to update portfolio: %v", err)
				return err
			}
			output.Success("✓ Portfolio updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&color, "color", "", "new display color")
	return cmd
}

func newPortfolioDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a portfolio",
		Long:  "Delete a portfolio. Its trading days remain, unassigned.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if _, err := app.requireJournal(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := app.Store.DeletePortfolio(ctx, args[0]); err != nil {
				output.Error("Failed to delete portfolio: %v", err)
				return err
			}
			output.Success("✓ Portfolio deleted")
			return nil
		},
	}
}
