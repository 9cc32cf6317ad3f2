// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var dowNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// addAnalyticsCommands adds the analytics command.
func addAnalyticsCommands(rootCmd *cobra.Command, app *App) {
	var portfolioID string

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Journal analytics",
		Long: `Aggregate statistics across the journal: overall performance,
per-tag edge, time-of-day and day-of-week breakdowns, daily P&L
and win/loss streaks.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if _, err := app.requireJournal(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			a, err := app.Store.Analytics(ctx, portfolioID)
			if err != nil {
				output.Error("Failed to compute analytics: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(a)
			}

			output.Bold("Overall")
			output.Printf("Trades: %d  Wins: %d (%s)  Total P&L: %s  Avg: %s\n",
				a.Overall.TotalTrades,
				a.Overall.Wins,
				FormatWinRate(a.Overall.Wins, a.Overall.TotalTrades),
				output.FormatPnL(a.Overall.TotalPnL),
				output.FormatPnL(a.Overall.AvgPnL))
			output.Printf("Best: %s  Worst: %s\n",
				output.FormatPnL(a.Overall.BestTrade),
				output.FormatPnL(a.Overall.WorstTrade))

			output.Println()
			output.Bold("Streaks")
			if a.Streaks.CurrentType != "" {
				kind := "wins"
				if a.Streaks.CurrentType == "L" {
					kind = "losses"
				}
				output.Printf("Current: %d %s  Best win streak: %d  Worst loss streak: %d\n",
					a.Streaks.Current, kind, a.Streaks.BestWin, a.Streaks.WorstLoss)
				output.Dim("Last %d: %s", len(a.Streaks.History), FormatStreakHistory(a.Streaks.History))
			} else {
				output.Info("No trades yet.")
			}

			if len(a.TagStats) > 0 {
				output.Println()
				output.Bold("Tags")
				table := NewTable(output, "Group", "Tag", "Trades", "Win %", "Avg P&L", "Total P&L")
				for _, ts := range a.TagStats {
					table.AddRow(ts.GroupID, ts.Tag,
						fmt.Sprintf("%d", ts.Total),
						fmt.Sprintf("%.1f%%", ts.WinRate),
						output.FormatPnL(ts.AvgPnL),
						output.FormatPnL(ts.TotalPnL))
				}
				table.Render()
			}

			if len(a.TimeStats) > 0 {
				output.Println()
				output.Bold("By hour")
				table := NewTable(output, "Hour", "Trades", "Wins", "Avg P&L")
				for _, hs := range a.TimeStats {
					table.AddRow(fmt.Sprintf("%02d:00", hs.Hour),
						fmt.Sprintf("%d", hs.Total),
						fmt.Sprintf("%d", hs.Wins),
						output.FormatPnL(hs.AvgPnL))
				}
				table.Render()
			}

			if len(a.DOWStats) > 0 {
				output.Println()
				output.Bold("By day of week")
				table := NewTable(output, "Day", "Trades", "Wins", "Avg P&L", "Total P&L")
				for _, ds := range a.DOWStats {
					name := fmt.Sprintf("%d", ds.DOW)
					if ds.DOW >= 0 && ds.DOW < len(dowNames) {
						name = dowNames[ds.DOW]
					}
					table.AddRow(name,
						fmt.Sprintf("%d", ds.Total),
						fmt.Sprintf("%d", ds.Wins),
						output.FormatPnL(ds.AvgPnL),
						output.FormatPnL(ds.TotalPnL))
				}
				table.Render()
			}

			if len(a.Daily) > 0 {
				output.Println()
				output.Bold("Daily P&L")
				table := NewTable(output, "Date", "Trades", "Wins", "P&L")
				for _, d := range a.Daily {
					table.AddRow(d.Date,
						fmt.Sprintf("%d", d.Trades),
						fmt.Sprintf("%d", d.Wins),
						output.FormatPnL(d.PnL))
				}
				table.Render()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&portfolioID, "portfolio", "", "restrict to one portfolio")
	rootCmd.AddCommand(cmd)
}
