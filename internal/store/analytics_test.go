package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/models"
)

func seedAnalyticsDay(t *testing.T, st *SQLiteStore, date, portfolioID string, pnls []float64) []string {
	t.Helper()
	ctx := context.Background()

	dayID, err := st.UpsertDay(ctx, date, portfolioID)
	require.NoError(t, err)

	ids := make([]string, 0, len(pnls))
	for i, pnl := range pnls {
		tr := &models.Trade{
			TradeNum:  i + 1,
			Direction: models.DirectionLong,
			Qty:       1,
			AvgEntry:  5000,
			AvgExit:   5000 + pnl/5,
			PnL:       pnl,
			EntryTime: fmt.Sprintf("%02d:30:00", 9+i),
			ExitTime:  fmt.Sprintf("%02d:45:00", 9+i),
		}
		id, err := st.InsertTrade(ctx, dayID, tr)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestAnalyticsOverall(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	// Monday and Tuesday.
	seedAnalyticsDay(t, st, "2024-01-15", "", []float64{50, -20})
	seedAnalyticsDay(t, st, "2024-01-16", "", []float64{30})

	a, err := st.Analytics(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, 3, a.Overall.TotalTrades)
	assert.Equal(t, 60.0, a.Overall.TotalPnL)
	assert.Equal(t, 2, a.Overall.Wins)
	assert.Equal(t, 50.0, a.Overall.BestTrade)
	assert.Equal(t, -20.0, a.Overall.WorstTrade)
	assert.InDelta(t, 20.0, a.Overall.AvgPnL, 0.001)

	require.Len(t, a.Daily, 2)
	assert.Equal(t, "2024-01-15", a.Daily[0].Date)
	assert.Equal(t, 30.0, a.Daily[1].PnL)

	// 2024-01-15 is a Monday (dow 1), the 16th a Tuesday (dow 2).
	require.Len(t, a.DOWStats, 2)
	assert.Equal(t, 1, a.DOWStats[0].DOW)
	assert.Equal(t, 2, a.DOWStats[0].Total)
	assert.Equal(t, 2, a.DOWStats[1].DOW)

	// Entry hours 9 and 10 on day one, 9 on day two.
	require.Len(t, a.TimeStats, 2)
	assert.Equal(t, 9, a.TimeStats[0].Hour)
	assert.Equal(t, 2, a.TimeStats[0].Total)
}

func TestAnalyticsEmptyJournal(t *testing.T) {
	st := newTestStore(t)

	a, err := st.Analytics(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 0, a.Overall.TotalTrades)
	assert.Empty(t, a.Daily)
	assert.Empty(t, a.TagStats)
	assert.Equal(t, 0, a.Streaks.Current)
	assert.NotNil(t, a.Streaks.History)
	assert.Empty(t, a.Streaks.History)
}

func TestAnalyticsPortfolioFilter(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	pid, err := st.CreatePortfolio(ctx, "Sim", "", "#fff")
	require.NoError(t, err)

	seedAnalyticsDay(t, st, "2024-01-15", "", []float64{100})
	seedAnalyticsDay(t, st, "2024-01-15", pid, []float64{-40, -10})

	a, err := st.Analytics(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Overall.TotalTrades)
	assert.Equal(t, -50.0, a.Overall.TotalPnL)

	all, err := st.Analytics(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, all.Overall.TotalTrades)
}

func TestAnalyticsTagStats(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	ids := seedAnalyticsDay(t, st, "2024-01-15", "", []float64{50, -20, 30})
	require.NoError(t, st.SetTradeTags(ctx, ids[0], "setup", []string{"Initiative"}))
	require.NoError(t, st.SetTradeTags(ctx, ids[1], "setup", []string{"Initiative"}))
	require.NoError(t, st.SetTradeTags(ctx, ids[2], "setup", []string{"Responsive"}))
	require.NoError(t, st.SetTradeTags(ctx, ids[0], "with", []string{"VWAP"}))

	a, err := st.Analytics(ctx, "")
	require.NoError(t, err)
	require.Len(t, a.TagStats, 3)

	byTag := map[string]models.TagStat{}
	for _, ts := range a.TagStats {
		byTag[ts.GroupID+"/"+ts.Tag] = ts
	}

	ini := byTag["setup/Initiative"]
	assert.Equal(t, 2, ini.Total)
	assert.Equal(t, 1, ini.Wins)
	assert.Equal(t, 30.0, ini.TotalPnL)
	assert.InDelta(t, 15.0, ini.AvgPnL, 0.001)
	assert.InDelta(t, 50.0, ini.WinRate, 0.001)

	vwap := byTag["with/VWAP"]
	assert.Equal(t, 1, vwap.Total)
	assert.Equal(t, 50.0, vwap.TotalPnL)
}

func TestAnalyticsStreaks(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	// Chronological: W W L L L B W
	seedAnalyticsDay(t, st, "2024-01-15", "", []float64{10, 20, -5, -5, -5})
	seedAnalyticsDay(t, st, "2024-01-16", "", []float64{0, 15})

	a, err := st.Analytics(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, 1, a.Streaks.Current)
	assert.Equal(t, "W", a.Streaks.CurrentType)
	assert.Equal(t, 2, a.Streaks.BestWin)
	assert.Equal(t, 3, a.Streaks.WorstLoss)
	assert.Equal(t, []string{"W", "W", "L", "L", "L", "B", "W"}, a.Streaks.History)
}

func TestComputeStreaks(t *testing.T) {
	tests := []struct {
		name string
		pnls []float64
		want models.Streaks
	}{
		{
			name: "empty",
			pnls: nil,
			want: models.Streaks{History: []string{}},
		},
		{
			name: "all wins",
			pnls: []float64{1, 2, 3},
			want: models.Streaks{Current: 3, CurrentType: "W", BestWin: 3, History: []string{"W", "W", "W"}},
		},
		{
			name: "ends on loss",
			pnls: []float64{5, -1, -2},
			want: models.Streaks{Current: 2, CurrentType: "L", BestWin: 1, WorstLoss: 2, History: []string{"W", "L", "L"}},
		},
		{
			name: "breakeven resets current count",
			pnls: []float64{5, 5, 0},
			want: models.Streaks{Current: 0, CurrentType: "B", BestWin: 2, History: []string{"W", "W", "B"}},
		},
		{
			name: "breakeven splits runs",
			pnls: []float64{1, 1, 0, 1, 1, 1},
			want: models.Streaks{Current: 3, CurrentType: "W", BestWin: 3, History: []string{"W", "W", "B", "W", "W", "W"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, computeStreaks(tt.pnls))
		})
	}
}

func TestComputeStreaksHistoryCapped(t *testing.T) {
	pnls := make([]float64, 30)
	for i := range pnls {
		pnls[i] = 1
	}
	s := computeStreaks(pnls)
	assert.Len(t, s.History, 20)
	assert.Equal(t, 30, s.Current)
	assert.Equal(t, 30, s.BestWin)
}
