// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// addImportCommands adds the fill import command.
func addImportCommands(rootCmd *cobra.Command, app *App) {
	var portfolioID string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a broker fill export",
		Long: `Parse a CSV or Excel fill export, reconstruct round-trip trades
per calendar day and save them to the journal. Re-importing a file
replaces the affected days.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			svc, err := app.requireJournal()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			data, err := os.ReadFile(args[0])
			if err != nil {
				output.Error("Failed to read file: %v", err)
				return err
			}

			results, err := svc.ImportFile(ctx, args[0], data, portfolioID)
			if err != nil {
				output.Error("Import failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(results)
			}

			output.Success("✓ Imported %d day(s)", len(results))
			table := NewTable(output, "Date", "Trades", "Day ID")
			total := 0
			for _, r := range results {
				table.AddRow(r.Date, fmt.Sprintf("%d", r.TradeCount), output.DimText(r.DayID))
				total += r.TradeCount
			}
			table.Render()
			output.Println()
			output.Printf("Total trades: %d\n", total)
			return nil
		},
	}

	cmd.Flags().StringVar(&portfolioID, "portfolio", "", "portfolio id to file the days under")
	rootCmd.AddCommand(cmd)
}
