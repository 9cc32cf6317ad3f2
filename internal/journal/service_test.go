package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/config"
	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
	"tradejournal/internal/store"
)

func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := &config.Config{
		Journal:     config.JournalConfig{ImportPointValue: 5},
		Instruments: config.DefaultInstruments(),
		Defaults:    config.DefaultTradeDefaults(),
	}
	return NewService(st, cfg, zerolog.Nop()), st
}

const exportCSV = `B/S,avgPrice,filledQty,Fill Time,Date
Buy,5000,1,1/15/2024 09:30:00,1/15/2024
Sell,5005,1,1/15/2024 09:35:00,1/15/2024
Sell,5010,2,1/15/2024 10:00:00,1/15/2024
Buy,5008,2,1/15/2024 10:15:00,1/15/2024
`

func TestImportFilePipeline(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	results, err := svc.ImportFile(ctx, "export.csv", []byte(exportCSV), "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "2024-01-15", results[0].Date)
	assert.Equal(t, 2, results[0].TradeCount)

	day, err := st.GetDayByID(ctx, results[0].DayID)
	require.NoError(t, err)
	require.Len(t, day.Trades, 2)

	long, short := day.Trades[0], day.Trades[1]
	assert.Equal(t, models.DirectionLong, long.Direction)
	assert.Equal(t, 25.0, long.PnL)
	assert.Equal(t, models.DirectionShort, short.Direction)
	assert.Equal(t, 20.0, short.PnL)
}

func TestImportFileReplacesExistingDay(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	first, err := svc.ImportFile(ctx, "export.csv", []byte(exportCSV), "")
	require.NoError(t, err)

	// Corrected export with a single trade.
	corrected := `B/S,avgPrice,filledQty,Fill Time,Date
Buy,5000,1,1/15/2024 09:30:00,1/15/2024
Sell,5001,1,1/15/2024 09:35:00,1/15/2024
`
	second, err := svc.ImportFile(ctx, "export.csv", []byte(corrected), "")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 1, second[0].TradeCount)

	// Old day is gone wholesale.
	_, err = st.GetDayByID(ctx, first[0].DayID)
	assert.ErrorIs(t, err, apperrors.ErrDayNotFound)

	days, err := st.ListDays(ctx, store.DayFilter{})
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, 1, days[0].TradeCount)
}

func TestImportFileKeepsOtherPortfolios(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	pid, err := st.CreatePortfolio(ctx, "Sim", "", "#fff")
	require.NoError(t, err)

	_, err = svc.ImportFile(ctx, "export.csv", []byte(exportCSV), "")
	require.NoError(t, err)
	_, err = svc.ImportFile(ctx, "export.csv", []byte(exportCSV), pid)
	require.NoError(t, err)

	days, err := st.ListDays(ctx, store.DayFilter{})
	require.NoError(t, err)
	assert.Len(t, days, 2, "same date under different portfolios stays separate")
}

func TestTradeDefaultsLayering(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	d, err := svc.TradeDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20.0, d.FullStopPoints)

	require.NoError(t, st.SetSetting(ctx, "td_full_stop_points", "12.5"))
	require.NoError(t, st.SetSetting(ctx, "td_partial_tp1_points", "garbage"))

	d, err = svc.TradeDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12.5, d.FullStopPoints)
	// Unparseable overrides fall back silently.
	assert.Equal(t, 5.0, d.PartialTP1Points)
	assert.Equal(t, 20.0, d.FullTPPoints)
}

func TestInstrumentLayeringAndFallback(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	spec, err := svc.Instrument(ctx, "ES")
	require.NoError(t, err)
	assert.Equal(t, 50.0, spec.DollarsPerPoint)

	// Unknown symbols fall back to MES geometry.
	spec, err = svc.Instrument(ctx, "NQ")
	require.NoError(t, err)
	assert.Equal(t, 5.0, spec.DollarsPerPoint)

	require.NoError(t, st.SetSetting(ctx, "inst_MES_dpp", "6"))
	spec, err = svc.Instrument(ctx, "MES")
	require.NoError(t, err)
	assert.Equal(t, 6.0, spec.DollarsPerPoint)
}

func TestTagGroupsCustomization(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	groups, err := svc.TagGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 6)
	assert.Equal(t, "with", groups[0].ID)

	require.NoError(t, st.SaveTagConfig(ctx, "volume", []string{"Thin", "Thick"}))

	groups, err = svc.TagGroups(ctx)
	require.NoError(t, err)
	for _, g := range groups {
		if g.ID == "volume" {
			assert.Equal(t, []string{"Thin", "Thick"}, g.Tags)
		}
		if g.ID == "setup" {
			assert.Len(t, g.Tags, 10, "untouched groups keep their defaults")
		}
	}
}

func TestCreateLiveTradePlansLevels(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	lt, err := svc.CreateLiveTrade(ctx, &models.LiveTrade{
		Direction:  models.DirectionLong,
		Instrument: "MES",
		EntryPrice: 5000,
		EntryTime:  "09:30:00",
		TotalQty:   2,
		Mode:       models.ModeFull,
	})
	require.NoError(t, err)
	require.Len(t, lt.Levels, 2)
	assert.Equal(t, 4980.0, lt.Levels[0].Price)
	assert.Equal(t, 5020.0, lt.Levels[1].Price)
	assert.Equal(t, models.LiveOpen, lt.Status)

	partials, err := svc.CreateLiveTrade(ctx, &models.LiveTrade{
		Direction:  models.DirectionShort,
		Instrument: "MES",
		EntryPrice: 5000,
		EntryTime:  "09:30:00",
		TotalQty:   7,
		Mode:       models.ModePartials,
	})
	require.NoError(t, err)
	assert.Len(t, partials.Levels, 6)
}

func TestCreateLiveTradeValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateLiveTrade(ctx, &models.LiveTrade{
		Direction: models.DirectionLong, EntryPrice: 5000, TotalQty: 0, Mode: models.ModeFull,
	})
	var vErr *apperrors.ValidationError
	assert.True(t, apperrors.As(err, &vErr))

	_, err = svc.CreateLiveTrade(ctx, &models.LiveTrade{
		Direction: "Sideways", EntryPrice: 5000, TotalQty: 1, Mode: models.ModeFull,
	})
	assert.True(t, apperrors.As(err, &vErr))
}

func TestLogExecutionComputesPnLAndAutoCloses(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	lt, err := svc.CreateLiveTrade(ctx, &models.LiveTrade{
		Direction:  models.DirectionLong,
		Instrument: "MES",
		EntryPrice: 5000,
		EntryTime:  "09:30:00",
		TotalQty:   2,
		Mode:       models.ModeFull,
	})
	require.NoError(t, err)

	exec := &models.Execution{ExecType: models.ExecManualExit, Portion: 1, Qty: 1, Price: 5010, ExecTime: "10:00:00"}
	snap, err := svc.LogExecution(ctx, lt.ID, exec)
	require.NoError(t, err)
	assert.Equal(t, 50.0, exec.PnL)
	assert.Equal(t, 1, snap.RemainingQty)
	assert.False(t, snap.IsClosed)

	reloaded, err := st.GetLiveTrade(ctx, lt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LiveOpen, reloaded.Status)

	// Second exit flattens the position and auto-closes.
	snap, err = svc.LogExecution(ctx, lt.ID, &models.Execution{
		ExecType: models.ExecTPHit, Portion: 1, Qty: 1, Price: 5020, ExecTime: "10:30:00",
	})
	require.NoError(t, err)
	assert.True(t, snap.IsClosed)
	assert.Equal(t, 150.0, snap.RealizedPnL)

	reloaded, err = st.GetLiveTrade(ctx, lt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LiveClosed, reloaded.Status)
	assert.NotEmpty(t, reloaded.ClosedAt)
	assert.Equal(t, 150.0, reloaded.RealizedPnL)
}

func TestDeleteExecutionReopensClosedTrade(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	lt, err := svc.CreateLiveTrade(ctx, &models.LiveTrade{
		Direction:  models.DirectionLong,
		Instrument: "MES",
		EntryPrice: 5000,
		EntryTime:  "09:30:00",
		TotalQty:   1,
		Mode:       models.ModeFull,
	})
	require.NoError(t, err)

	exec := &models.Execution{ExecType: models.ExecTPHit, Portion: 1, Qty: 1, Price: 5020, ExecTime: "10:00:00"}
	snap, err := svc.LogExecution(ctx, lt.ID, exec)
	require.NoError(t, err)
	require.True(t, snap.IsClosed)

	snap, err = svc.DeleteExecution(ctx, lt.ID, exec.ID)
	require.NoError(t, err)
	assert.False(t, snap.IsClosed)
	assert.Equal(t, 1, snap.RemainingQty)

	reloaded, err := st.GetLiveTrade(ctx, lt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LiveOpen, reloaded.Status)
	assert.Empty(t, reloaded.ClosedAt)
	assert.Empty(t, reloaded.JournalTradeID)
}

func TestPushToJournal(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	lt, err := svc.CreateLiveTrade(ctx, &models.LiveTrade{
		Direction:  models.DirectionLong,
		Instrument: "MES",
		EntryPrice: 5000,
		EntryTime:  "09:30:00",
		TotalQty:   2,
		Mode:       models.ModeFull,
		Notes:      "clean breakout",
	})
	require.NoError(t, err)

	tagged := `{"setup":["Initiative"],"with":["VWAP","Value"]}`
	require.NoError(t, st.UpdateLiveTrade(ctx, lt.ID, models.LiveTradeUpdate{TagsJSON: &tagged}))

	_, err = svc.LogExecution(ctx, lt.ID, &models.Execution{
		ExecType: models.ExecManualExit, Portion: 1, Qty: 1, Price: 5010, ExecTime: "10:00:00",
	})
	require.NoError(t, err)
	_, err = svc.LogExecution(ctx, lt.ID, &models.Execution{
		ExecType: models.ExecManualExit, Portion: 1, Qty: 1, Price: 5020, ExecTime: "10:30:00",
	})
	require.NoError(t, err)

	tradeID, err := svc.PushToJournal(ctx, lt.ID)
	require.NoError(t, err)

	trade, err := st.GetTradeByID(ctx, tradeID)
	require.NoError(t, err)
	assert.Equal(t, models.DirectionLong, trade.Direction)
	assert.Equal(t, 2, trade.Qty)
	assert.Equal(t, 5000.0, trade.AvgEntry)
	// Quantity-weighted exit: (5010 + 5020) / 2.
	assert.Equal(t, 5015.0, trade.AvgExit)
	assert.Equal(t, 150.0, trade.PnL)
	assert.Equal(t, "09:30:00", trade.EntryTime)
	assert.Equal(t, "10:30:00", trade.ExitTime)
	assert.False(t, trade.Open)
	assert.Equal(t, "clean breakout", trade.Notes)

	// One synthetic entry fill plus one per execution.
	require.Len(t, trade.Fills, 3)
	assert.Equal(t, models.SideBuy, trade.Fills[0].Side)
	assert.Equal(t, 2, trade.Fills[0].Qty)
	assert.Equal(t, models.SideSell, trade.Fills[1].Side)

	assert.Equal(t, []string{"Initiative"}, trade.Tags["setup"])
	assert.ElementsMatch(t, []string{"VWAP", "Value"}, trade.Tags["with"])

	reloaded, err := st.GetLiveTrade(ctx, lt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LiveClosed, reloaded.Status)
	assert.Equal(t, tradeID, reloaded.JournalTradeID)

	// Second push is rejected.
	_, err = svc.PushToJournal(ctx, lt.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyPushed)
}

func TestPushToJournalPartiallyExited(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	lt, err := svc.CreateLiveTrade(ctx, &models.LiveTrade{
		Direction:  models.DirectionShort,
		Instrument: "MES",
		EntryPrice: 5000,
		EntryTime:  "09:30:00",
		TotalQty:   3,
		Mode:       models.ModePartials,
	})
	require.NoError(t, err)

	_, err = svc.LogExecution(ctx, lt.ID, &models.Execution{
		ExecType: models.ExecTPHit, Portion: 1, Qty: 1, Price: 4995, ExecTime: "10:00:00",
	})
	require.NoError(t, err)

	tradeID, err := svc.PushToJournal(ctx, lt.ID)
	require.NoError(t, err)

	trade, err := st.GetTradeByID(ctx, tradeID)
	require.NoError(t, err)
	assert.True(t, trade.Open, "journal entry stays open while quantity remains")
	assert.Equal(t, 25.0, trade.PnL)
	assert.Equal(t, 4995.0, trade.AvgExit)
	// Entry fill is a Sell for shorts, exits are Buys.
	assert.Equal(t, models.SideSell, trade.Fills[0].Side)
	assert.Equal(t, models.SideBuy, trade.Fills[1].Side)
}

func TestPushToJournalNoExecutions(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	lt, err := svc.CreateLiveTrade(ctx, &models.LiveTrade{
		Direction:  models.DirectionLong,
		Instrument: "MES",
		EntryPrice: 5000,
		EntryTime:  "09:30:00",
		TotalQty:   1,
		Mode:       models.ModeFull,
	})
	require.NoError(t, err)

	tradeID, err := svc.PushToJournal(ctx, lt.ID)
	require.NoError(t, err)

	trade, err := st.GetTradeByID(ctx, tradeID)
	require.NoError(t, err)
	// No exits: avg exit mirrors entry, exit time mirrors entry time.
	assert.Equal(t, 5000.0, trade.AvgExit)
	assert.Equal(t, "09:30:00", trade.ExitTime)
	assert.Equal(t, 0.0, trade.PnL)
	assert.True(t, trade.Open)
	assert.Len(t, trade.Fills, 1)
}

// failingTagStore makes every tag write fail.
type failingTagStore struct {
	store.Store
}

func (f *failingTagStore) SetTradeTags(ctx context.Context, tradeID, groupID string, tags []string) error {
	return apperrors.NewStoreError("set_tags", tradeID, errors.New("disk full"))
}

func TestPushToJournalSurvivesTagWriteFailure(t *testing.T) {
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := &config.Config{
		Journal:     config.JournalConfig{ImportPointValue: 5},
		Instruments: config.DefaultInstruments(),
		Defaults:    config.DefaultTradeDefaults(),
	}
	svc := NewService(&failingTagStore{Store: st}, cfg, zerolog.Nop())
	ctx := context.Background()

	lt, err := svc.CreateLiveTrade(ctx, &models.LiveTrade{
		Direction:  models.DirectionLong,
		Instrument: "MES",
		EntryPrice: 5000,
		EntryTime:  "09:30:00",
		TotalQty:   1,
		Mode:       models.ModeFull,
	})
	require.NoError(t, err)

	tagged := `{"setup":["Initiative"]}`
	require.NoError(t, st.UpdateLiveTrade(ctx, lt.ID, models.LiveTradeUpdate{TagsJSON: &tagged}))

	tradeID, err := svc.PushToJournal(ctx, lt.ID)
	require.NoError(t, err, "tag carry-over is best effort, never aborts the commit")

	trade, err := st.GetTradeByID(ctx, tradeID)
	require.NoError(t, err)
	assert.Empty(t, trade.Tags)

	// The live trade is marked pushed, so a retry cannot duplicate it.
	reloaded, err := st.GetLiveTrade(ctx, lt.ID)
	require.NoError(t, err)
	assert.Equal(t, tradeID, reloaded.JournalTradeID)
	_, err = svc.PushToJournal(ctx, lt.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyPushed)
}

func TestPushToJournalMalformedTagsIgnored(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	lt, err := svc.CreateLiveTrade(ctx, &models.LiveTrade{
		Direction:  models.DirectionLong,
		Instrument: "MES",
		EntryPrice: 5000,
		EntryTime:  "09:30:00",
		TotalQty:   1,
		Mode:       models.ModeFull,
	})
	require.NoError(t, err)

	bad := `{not json`
	require.NoError(t, st.UpdateLiveTrade(ctx, lt.ID, models.LiveTradeUpdate{TagsJSON: &bad}))

	tradeID, err := svc.PushToJournal(ctx, lt.ID)
	require.NoError(t, err)

	trade, err := st.GetTradeByID(ctx, tradeID)
	require.NoError(t, err)
	assert.Empty(t, trade.Tags)
}

func TestCancelLiveTrade(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	lt, err := svc.CreateLiveTrade(ctx, &models.LiveTrade{
		Direction:  models.DirectionLong,
		Instrument: "MES",
		EntryPrice: 5000,
		EntryTime:  "09:30:00",
		TotalQty:   1,
		Mode:       models.ModeFull,
	})
	require.NoError(t, err)

	require.NoError(t, svc.CancelLiveTrade(ctx, lt.ID))

	reloaded, err := st.GetLiveTrade(ctx, lt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LiveCancelled, reloaded.Status)

	days, err := st.ListDays(ctx, store.DayFilter{})
	require.NoError(t, err)
	assert.Empty(t, days, "cancelling never writes to the journal")
}

func TestReplaceLevelsRecomputesRisk(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	lt, err := svc.CreateLiveTrade(ctx, &models.LiveTrade{
		Direction:  models.DirectionLong,
		Instrument: "MES",
		EntryPrice: 5000,
		EntryTime:  "09:30:00",
		TotalQty:   2,
		Mode:       models.ModeFull,
	})
	require.NoError(t, err)

	// Trail the stop above entry: downside risk disappears.
	snap, err := svc.ReplaceLevels(ctx, lt.ID, []models.Level{
		{LevelType: models.LevelStop, Portion: 1, Qty: 2, Price: 5002},
		{LevelType: models.LevelTP, Portion: 1, Qty: 2, Price: 5020},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, snap.CurrentRisk)
	assert.Equal(t, 20.0, snap.NetStopExposure)
}
