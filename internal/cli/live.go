// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/engine"
	"tradejournal/internal/models"
	"tradejournal/internal/store"
)

// addLiveCommands adds the live trade tracking command group.
func addLiveCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "Live trade tracking",
		Long:  "Plan, track and commit live trades with stop/take-profit risk math.",
	}

	cmd.AddCommand(newLiveNewCmd(app))
	cmd.AddCommand(newLiveListCmd(app))
	cmd.AddCommand(newLiveShowCmd(app))
	cmd.AddCommand(newLiveExecCmd(app))
	cmd.AddCommand(newLiveExecDeleteCmd(app))
	cmd.AddCommand(newLiveLevelsCmd(app))
	cmd.AddCommand(newLivePushCmd(app))
	cmd.AddCommand(newLiveCancelCmd(app))

	rootCmd.AddCommand(cmd)
}

func newLiveNewCmd(app *App) *cobra.Command {
	var (
		direction   string
		instrument  string
		entryPrice  float64
		qty         int
		mode        string
		portfolioID string
		notes       string
		entryTime   string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start tracking a live trade",
		Long: `Create a live trade and compute its stop/take-profit plan.
Full mode plans one stop and one target; partials mode splits the
position into three portions with laddered targets.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			svc, err := app.requireJournal()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			lt := &models.LiveTrade{
				PortfolioID: portfolioID,
				Direction:   models.Direction(direction),
				Instrument:  instrument,
				EntryPrice:  entryPrice,
				EntryTime:   entryTime,
				TotalQty:    qty,
				Mode:        models.Mode(mode),
				Notes:       notes,
			}
			created, err := svc.CreateLiveTrade(ctx, lt)
			if err != nil {
				output.Error("Failed to create live trade: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(created)
			}

			output.Success("✓ Live trade created: %s", created.ID)
			output.Printf("%s %d %s @ %s (%s)\n", created.Direction, created.TotalQty,
				created.Instrument, FormatPrice(created.EntryPrice), created.Mode)
			output.Println()
			renderLevels(output, created.Levels)
			return nil
		},
	}

	cmd.Flags().StringVar(&direction, "direction", "", "Long or Short (required)")
	cmd.Flags().StringVar(&instrument, "instrument", "MES", "instrument symbol")
	cmd.Flags().Float64Var(&entryPrice, "entry", 0, "entry price (required)")
	cmd.Flags().IntVar(&qty, "qty", 0, "total quantity (required)")
	cmd.Flags().StringVar(&mode, "mode", "full", "exit mode: full or partials")
	cmd.Flags().StringVar(&portfolioID, "portfolio", "", "portfolio id")
	cmd.Flags().StringVar(&notes, "notes", "", "trade notes")
	cmd.Flags().StringVar(&entryTime, "time", "", "entry time HH:MM:SS (default: now)")
	cmd.MarkFlagRequired("direction")
	cmd.MarkFlagRequired("entry")
	cmd.MarkFlagRequired("qty")
	return cmd
}

func newLiveListCmd(app *App) *cobra.Command {
	var (
		status   string
		dateFrom string
		dateTo   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List live trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if _, err := app.requireJournal(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			trades, err := app.Store.ListLiveTrades(ctx, store.LiveTradeFilter{
				Status:   models.LiveStatus(status),
				DateFrom: dateFrom,
				DateTo:   dateTo,
			})
			if err != nil {
				output.Error("Failed to list live trades: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}
			if len(trades) == 0 {
				output.Info("No live trades.")
				return nil
			}

			table := NewTable(output, "Created", "Dir", "Inst", "Qty", "Entry", "Mode", "Status", "Realized", "ID")
			for _, lt := range trades {
				table.AddRow(
					lt.CreatedAt,
					string(lt.Direction),
					lt.Instrument,
					fmt.Sprintf("%d", lt.TotalQty),
					FormatPrice(lt.EntryPrice),
					string(lt.Mode),
					liveStatusText(output, lt.Status),
					output.FormatPnL(lt.RealizedPnL),
					output.DimText(lt.ID),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (open/closed/cancelled)")
	cmd.Flags().StringVar(&dateFrom, "from", "", "created on or after (YYYY-MM-DD)")
	cmd.Flags().StringVar(&dateTo, "to", "", "created on or before (YYYY-MM-DD)")
	return cmd
}

func liveStatusText(output *Output, status models.LiveStatus) string {
	switch status {
	case models.LiveOpen:
		return output.Green(string(status))
	case models.LiveClosed:
		return output.DimText(string(status))
	default:
		return output.Yellow(string(status))
	}
}

func newLiveShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a live trade with its risk snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			svc, err := app.requireJournal()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			lt, snap, err := svc.Recalculate(ctx, args[0])
			if err != nil {
				output.Error("Failed to load live trade: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"trade":    lt,
					"snapshot": snap,
				})
			}

			output.Bold("%s %d %s @ %s (%s)", lt.Direction, lt.TotalQty,
				lt.Instrument, FormatPrice(lt.EntryPrice), lt.Mode)
			output.Printf("Status: %s  Created: %s\n", liveStatusText(output, lt.Status), lt.CreatedAt)
			if lt.Notes != "" {
				output.Dim("Notes: %s", lt.Notes)
			}
			output.Println()

			renderLevels(output, lt.Levels)

			if len(lt.Executions) > 0 {
				output.Println()
				output.Bold("Executions")
				table := NewTable(output, "Time", "Type", "Portion", "Qty", "Price", "P&L", "ID")
				for _, e := range lt.Executions {
					table.AddRow(
						e.ExecTime,
						string(e.ExecType),
						fmt.Sprintf("%d", e.Portion),
						fmt.Sprintf("%d", e.Qty),
						FormatPrice(e.Price),
						output.FormatPnL(e.PnL),
						output.DimText(e.ID),
					)
				}
				table.Render()
			}

			output.Println()
			renderSnapshot(output, snap)
			return nil
		},
	}
}

func renderLevels(output *Output, levels []models.Level) {
	if len(levels) == 0 {
		return
	}
	output.Bold("Levels")
	table := NewTable(output, "Type", "Portion", "Qty", "Price", "Risk", "Reward")
	for _, lv := range levels {
		table.AddRow(
			string(lv.LevelType),
			fmt.Sprintf("%d", lv.Portion),
			fmt.Sprintf("%d", lv.Qty),
			FormatPrice(lv.Price),
			FormatMoney(lv.RiskDollars),
			FormatMoney(lv.RewardDollars),
		)
	}
	table.Render()
}

func renderSnapshot(output *Output, snap *engine.Snapshot) {
	output.Bold("Risk")
	if snap.IsClosed {
		output.Printf("Fully exited. Realized P&L: %s\n", output.FormatPnL(snap.RealizedPnL))
		return
	}
	output.Printf("Remaining: %d  Exited: %d  Realized: %s\n",
		snap.RemainingQty, snap.ExitedQty, output.FormatPnL(snap.RealizedPnL))
	output.Printf("Current risk: %s  Potential reward: %s  Initial risk: %s\n",
		output.Red(FormatMoney(snap.CurrentRisk)),
		output.Green(FormatMoney(snap.PotentialReward)),
		FormatMoney(snap.InitialRisk))
	output.Printf("Net stop exposure: %s\n", output.FormatPnL(snap.NetStopExposure))

	if len(snap.ActivePortions) > 0 {
		output.Println()
		table := NewTable(output, "Portion", "Qty", "Stop", "Stop P&L", "Target", "Target P&L")
		for _, p := range snap.ActivePortions {
			tp, tpPnL := output.DimText("–"), output.DimText("–")
			if p.HasTP {
				tp = FormatPrice(p.TPPrice)
				tpPnL = output.FormatPnL(p.TPPnL)
			}
			table.AddRow(
				fmt.Sprintf("%d", p.Portion),
				fmt.Sprintf("%d", p.Qty),
				FormatPrice(p.StopPrice),
				output.FormatPnL(p.StopPnL),
				tp,
				tpPnL,
			)
		}
		table.Render()
	}
}

func newLiveExecCmd(app *App) *cobra.Command {
	var (
		execType string
		portion  int
		qty      int
		price    float64
		execTime string
	)

	cmd := &cobra.Command{
		Use:   "exec <id>",
		Short: "Log an exit execution",
		Long: `Record a stop hit, target hit or manual exit against a live trade.
P&L is computed against entry; a fully exited trade closes
automatically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			svc, err := app.requireJournal()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			exec := &models.Execution{
				ExecType: models.ExecType(execType),
				Portion:  portion,
				Qty:      qty,
				Price:    price,
				ExecTime: execTime,
			}
			snap, err := svc.LogExecution(ctx, args[0], exec)
			if err != nil {
				output.Error("Failed to log execution: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"exec_id":  exec.ID,
					"pnl":      exec.PnL,
					"snapshot": snap,
				})
			}

			output.Success("✓ Execution logged: %d @ %s, P&L %s",
				exec.Qty, FormatPrice(exec.Price), output.FormatPnL(exec.PnL))
			output.Println()
			renderSnapshot(output, snap)
			return nil
		},
	}

	cmd.Flags().StringVar(&execType, "type", "manual_exit", "stop_hit, tp_hit or manual_exit")
	cmd.Flags().IntVar(&portion, "portion", 1, "portion number (partials mode)")
	cmd.Flags().IntVar(&qty, "qty", 0, "quantity exited (required)")
	cmd.Flags().Float64Var(&price, "price", 0, "execution price (required)")
	cmd.Flags().StringVar(&execTime, "time", "", "execution time HH:MM:SS (default: now)")
	cmd.MarkFlagRequired("qty")
	cmd.MarkFlagRequired("price")
	return cmd
}

func newLiveExecDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "exec-delete <id> <exec-id>",
		Short: "Delete a logged execution",
		Long: `Remove an execution and recompute risk. A closed trade reopens if
quantity remains after the deletion.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			svc, err := app.requireJournal()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			snap, err := svc.DeleteExecution(ctx, args[0], args[1])
			if err != nil {
				output.Error("Failed to delete execution: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"snapshot": snap})
			}
			output.Success("✓ Execution deleted")
			output.Println()
			renderSnapshot(output, snap)
			return nil
		},
	}
}

func newLiveLevelsCmd(app *App) *cobra.Command {
	var levelSpecs []string

	cmd := &cobra.Command{
		Use:   "levels <id>",
		Short: "Replace a live trade's levels",
		Long: `Replace the stop/take-profit levels, e.g. after trailing a stop:

  tradejournal live levels <id> \
    --level stop:1:2:5005.00 --level tp:1:2:5020.00

Level spec is type:portion:qty:price.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			svc, err := app.requireJournal()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			var levels []models.Level
			for _, spec := range levelSpecs {
				lv, err := parseLevelSpec(spec)
				if err != nil {
					output.Error("%v", err)
					return err
				}
				levels = append(levels, lv)
			}

			snap, err := svc.ReplaceLevels(ctx, args[0], levels)
			if err != nil {
				output.Error("Failed to replace levels: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"snapshot": snap})
			}
			output.Success("✓ Levels replaced")
			output.Println()
			renderSnapshot(output, snap)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&levelSpecs, "level", nil, "level spec type:portion:qty:price (repeatable)")
	cmd.MarkFlagRequired("level")
	return cmd
}

func parseLevelSpec(spec string) (models.Level, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 4 {
		return models.Level{}, fmt.Errorf("invalid level spec %q, want type:portion:qty:price", spec)
	}
	levelType := models.LevelType(parts[0])
	if levelType != models.LevelStop && levelType != models.LevelTP {
		return models.Level{}, fmt.Errorf("invalid level type %q, want stop or tp", parts[0])
	}
	portion, err := strconv.Atoi(parts[1])
	if err != nil {
		return models.Level{}, fmt.Errorf("invalid portion %q: %v", parts[1], err)
	}
	qty, err := strconv.Atoi(parts[2])
	if err != nil {
		return models.Level{}, fmt.Errorf("invalid qty %q: %v", parts[2], err)
	}
	price, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return models.Level{}, fmt.Errorf("invalid price %q: %v", parts[3], err)
	}
	return models.Level{
		LevelType: levelType,
		Portion:   portion,
		Qty:       qty,
		Price:     price,
	}, nil
}

func newLivePushCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "push <id>",
		Short: "Commit a live trade to the journal",
		Long: `Save a live trade to the journal under today's date, synthesizing
fills from the entry and the execution log. The trade does not need
to be fully exited. Pushing the same trade twice is rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			svc, err := app.requireJournal()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			tradeID, err := svc.PushToJournal(ctx, args[0])
			if err != nil {
				output.Error("Failed to push to journal: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"journal_trade_id": tradeID})
			}
			output.Success("✓ Pushed to journal: trade %s", tradeID)
			return nil
		},
	}
}

func newLiveCancelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a live trade",
		Long:  "Mark a live trade cancelled without writing to the journal.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			svc, err := app.requireJournal()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := svc.CancelLiveTrade(ctx, args[0]); err != nil {
				output.Error("Failed to cancel live trade: %v", err)
				return err
			}
			output.Success("✓ Live trade cancelled")
			return nil
		},
	}
}
