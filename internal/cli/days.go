// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/models"
	"tradejournal/internal/store"
)

// addDayCommands adds trading-day browsing and editing commands.
func addDayCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newDaysCmd(app))
	rootCmd.AddCommand(newDayCmd(app))
	rootCmd.AddCommand(newTradeCmd(app))
}

func newDaysCmd(app *App) *cobra.Command {
	var (
		dateFrom    string
		dateTo      string
		portfolioID string
	)

	cmd := &cobra.Command{
		Use:   "days",
		Short: "List trading days",
		Long:  "List imported trading days with per-day trade counts and P&L.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if _, err := app.requireJournal(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			days, err := app.Store.ListDays(ctx, store.DayFilter{
				DateFrom:    dateFrom,
				DateTo:      dateTo,
				PortfolioID: portfolioID,
			})
			if err != nil {
				output.Error("Failed to list days: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(days)
			}
			if len(days) == 0 {
				output.Info("No trading days recorded.")
				return nil
			}

			table := NewTable(output, "Date", "Portfolio", "Trades", "Wins", "P&L", "ID")
			var totalPnL float64
			for _, d := range days {
				name := d.PortfolioName
				if name == "" {
					name = output.DimText("–")
				}
				table.AddRow(
					d.Date,
					name,
					fmt.Sprintf("%d", d.TradeCount),
					fmt.Sprintf("%d", d.Wins),
					output.FormatPnL(d.TotalPnL),
					output.DimText(d.ID),
				)
				totalPnL += d.TotalPnL
			}
			table.Render()
			output.Println()
			output.Printf("%d day(s), total P&L %s\n", len(days), output.FormatPnL(totalPnL))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFrom, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&dateTo, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&portfolioID, "portfolio", "", "filter by portfolio id")
	return cmd
}

func newDayCmd(app *App) *cobra.Command {
	var del bool

	cmd := &cobra.Command{
		Use:   "day <id>",
		Short: "Show one trading day",
		Long:  "Display a trading day's trades with fills and tags, or delete it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if _, err := app.requireJournal(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if del {
				if err := app.Store.DeleteDay(ctx, args[0]); err != nil {
					output.Error("Failed to delete day: %v", err)
					return err
				}
				output.Success("✓ Day deleted")
				return nil
			}

			day, err := app.Store.GetDayByID(ctx, args[0])
			if err != nil {
				output.Error("Failed to load day: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(day)
			}

			output.Bold("Trading Day %s", day.Date)
			output.Println()
			renderTrades(output, day.Trades)
			return nil
		},
	}

	cmd.Flags().BoolVar(&del, "delete", false, "delete the day and its trades")
	return cmd
}

func renderTrades(output *Output, trades []models.Trade) {
	if len(trades) == 0 {
		output.Info("No trades.")
		return
	}
	table := NewTable(output, "#", "Dir", "Qty", "Entry", "Exit", "P&L", "Time", "Status")
	var totalPnL float64
	wins := 0
	for _, t := range trades {
		status := output.DimText("closed")
		if t.Open {
			status = output.Yellow("open")
		}
		table.AddRow(
			fmt.Sprintf("%d", t.TradeNum),
			string(t.Direction),
			fmt.Sprintf("%d", t.Qty),
			FormatPrice(t.AvgEntry),
			FormatPrice(t.AvgExit),
			output.FormatPnL(t.PnL),
			t.EntryTime+"–"+t.ExitTime,
			status,
		)
		totalPnL += t.PnL
		if t.PnL > 0 {
			wins++
		}
	}
	table.Render()
	output.Println()
	output.Printf("Total: %s  Win rate: %s\n",
		output.FormatPnL(totalPnL), FormatWinRate(wins, len(trades)))
}

func newTradeCmd(app *App) *cobra.Command {
	var (
		notes   string
		setTags []string
	)

	cmd := &cobra.Command{
		Use:   "trade <id>",
		Short: "Show or annotate one trade",
		Long: `Display a trade with its fills and tags. Use --notes to set notes,
--tag group=tag1,tag2 to replace a tag group.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if _, err := app.requireJournal(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if notes != "" {
				if err := app.Store.UpdateTradeNotes(ctx, args[0], notes); err != nil {
					output.Error("Failed to update notes: %v", err)
					return err
				}
				output.Success("✓ Notes updated")
			}
			for _, spec := range setTags {
				groupID, tags, err := parseTagSpec(spec)
				if err != nil {
					output.Error("%v", err)
					return err
				}
				if err := app.Store.SetTradeTags(ctx, args[0], groupID, tags); err != nil {
					output.Error("Failed to set tags: %v", err)
					return err
				}
				output.Success("✓ Tags updated for group %s", groupID)
			}

			trade, err := app.Store.GetTradeByID(ctx, args[0])
			if err != nil {
				output.Error("Failed to load trade: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(trade)
			}

			output.Bold("Trade #%d  %s %d @ %s", trade.TradeNum, trade.Direction,
				trade.Qty, FormatPrice(trade.AvgEntry))
			output.Printf("Exit: %s  P&L: %s  %s–%s\n",
				FormatPrice(trade.AvgExit), output.FormatPnL(trade.PnL),
				trade.EntryTime, trade.ExitTime)
			if trade.Open {
				output.Warning("Position still open")
			}
			if trade.Notes != "" {
				output.Println()
				output.Dim("Notes: %s", trade.Notes)
			}

			if len(trade.Fills) > 0 {
				output.Println()
				output.Bold("Fills")
				table := NewTable(output, "Time", "Side", "Qty", "Price")
				for _, f := range trade.Fills {
					table.AddRow(f.Time, string(f.Side), fmt.Sprintf("%d", f.Qty), FormatPrice(f.Price))
				}
				table.Render()
			}

			if len(trade.Tags) > 0 {
				output.Println()
				output.Bold("Tags")
				for groupID, tags := range trade.Tags {
					output.Printf("  %s: %s\n", groupID, strings.Join(tags, ", "))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "set trade notes")
	cmd.Flags().StringArrayVar(&setTags, "tag", nil, "replace a tag group (group=tag1,tag2)")
	return cmd
}

func parseTagSpec(spec string) (string, []string, error) {
	parts := strings.SplitN(spec, "=", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", nil, fmt.Errorf("invalid tag spec %q, want group=tag1,tag2", spec)
	}
	var tags []string
	for _, t := range strings.Split(parts[1], ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return parts[0], tags, nil
}
