// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// addSettingsCommands adds the database-backed settings commands:
// raw key-value settings, plan distance defaults, instrument geometry
// and the tag taxonomy.
func addSettingsCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newSettingsCmd(app))
	rootCmd.AddCommand(newDefaultsCmd(app))
	rootCmd.AddCommand(newInstrumentsCmd(app))
	rootCmd.AddCommand(newTagsCmd(app))
}

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Database-backed settings",
		Long: `Raw key-value overrides stored in the journal database. Plan
distances use td_<field> keys, instrument geometry uses
inst_<SYMBOL>_dpp/_dpt/_tpp keys.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if _, err := app.requireJournal(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			settings, err := app.Store.AllSettings(ctx)
			if err != nil {
				output.Error("Failed to list settings: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(settings)
			}
			if len(settings) == 0 {
				output.Info("No settings stored.")
				return nil
			}

			keys := make([]string, 0, len(settings))
			for k := range settings {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			table := NewTable(output, "Key", "Value")
			for _, k := range keys {
				table.AddRow(k, settings[k])
			}
			table.Render()
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Get one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if _, err := app.requireJournal(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			value, err := app.Store.GetSetting(ctx, args[0])
			if err != nil {
				output.Error("Failed to get setting: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{args[0]: value})
			}
			output.Println(value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if _, err := app.requireJournal(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := app.Store.SetSetting(ctx, args[0], args[1]); err != nil {
				output.Error("Failed to set setting: %v", err)
				return err
			}
			output.Success("✓ %s = %s", args[0], args[1])
			return nil
		},
	})

	return cmd
}

func newDefaultsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Show effective plan distances",
		Long:  "Show the stop/take-profit distances used for new live trades, with database overrides applied.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			svc, err := app.requireJournal()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			d, err := svc.TradeDefaults(ctx)
			if err != nil {
				output.Error("Failed to load defaults: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(d)
			}
			table := NewTable(output, "Setting", "Points")
			table.AddRow("full_stop_points", FormatPrice(d.FullStopPoints))
			table.AddRow("full_tp_points", FormatPrice(d.FullTPPoints))
			table.AddRow("partial_stop_points", FormatPrice(d.PartialStopPoints))
			table.AddRow("partial_tp1_points", FormatPrice(d.PartialTP1Points))
			table.AddRow("partial_tp2_points", FormatPrice(d.PartialTP2Points))
			table.AddRow("partial_tp3_points", FormatPrice(d.PartialTP3Points))
			table.Render()
			output.Println()
			output.Dim("Override with: tradejournal settings set td_<setting> <points>")
			return nil
		},
	}
}

func newInstrumentsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "instruments",
		Short: "Show effective instrument geometry",
		Long:  "Show dollars-per-point and tick values per instrument, with database overrides applied.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			svc, err := app.requireJournal()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			insts, err := svc.Instruments(ctx)
			if err != nil {
				output.Error("Failed to load instruments: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(insts)
			}

			syms := make([]string, 0, len(insts))
			for sym := range insts {
				syms = append(syms, sym)
			}
			sort.Strings(syms)

			table := NewTable(output, "Symbol", "$/Point", "$/Tick", "Ticks/Point")
			for _, sym := range syms {
				spec := insts[sym]
				table.AddRow(sym,
					FormatMoney(spec.DollarsPerPoint),
					FormatMoney(spec.DollarsPerTick),
					fmt.Sprintf("%d", spec.TicksPerPoint))
			}
			table.Render()
			output.Println()
			output.Dim("Override with: tradejournal settings set inst_<SYMBOL>_dpp <value>")
			return nil
		},
	}
}

func newTagsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Tag taxonomy",
		Long:  "Show or customize the tag groups applied to journal trades.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the effective tag taxonomy",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			svc, err := app.requireJournal()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			groups, err := svc.TagGroups(ctx)
			if err != nil {
				output.Error("Failed to load tag groups: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(groups)
			}
			for _, g := range groups {
				kind := "single"
				if g.Multi {
					kind = "multi"
				}
				output.Bold("%s (%s, %s)", g.Label, g.ID, kind)
				output.Printf("  %s\n", strings.Join(g.Tags, ", "))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <group> <tag> [tag...]",
		Short: "Replace a group's tag list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if _, err := app.requireJournal(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := app.Store.SaveTagConfig(ctx, args[0], args[1:]); err != nil {
				output.Error("Failed to save tag config: %v", err)
				return err
			}
			output.Success("✓ Tag group %s updated", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset <group>",
		Short: "Reset a group to its built-in tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if _, err := app.requireJournal(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := app.Store.ResetTagConfig(ctx, args[0]); err != nil {
				output.Error("Failed to reset tag config: %v", err)
				return err
			}
			output.Success("✓ Tag group %s reset to defaults", args[0])
			return nil
		},
	})

	return cmd
}
