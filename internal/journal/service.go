// Package journal is the application service layer: it ties the import
// pipeline, the trade engine and the store together behind the
// operations the CLI exposes.
package journal

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"tradejournal/internal/config"
	"tradejournal/internal/engine"
	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/importer"
	"tradejournal/internal/logging"
	"tradejournal/internal/models"
	"tradejournal/internal/store"
)

// Service executes journal operations against a store using the
// layered configuration (file config plus database overrides).
type Service struct {
	store store.Store
	cfg   *config.Config
	log   zerolog.Logger
}

// NewService creates a journal service.
func NewService(st store.Store, cfg *config.Config, logger zerolog.Logger) *Service {
	return &Service{store: st, cfg: cfg, log: logger}
}

// Store exposes the underlying store for read-mostly callers that need
// raw queries (day listings, portfolio CRUD, analytics).
func (s *Service) Store() store.Store { return s.store }

// ============================================================================
// Import
// ============================================================================

// ImportResult summarizes one trading day produced by an import.
type ImportResult struct {
	Date       string `json:"date"`
	DayID      string `json:"day_id"`
	TradeCount int    `json:"trade_count"`
}

// ImportFile parses a broker fill export, reconstructs round-trip
// trades per calendar day and persists them. A day that already exists
// for the same (date, portfolio) pair is replaced wholesale, so
// re-importing a corrected export is safe.
func (s *Service) ImportFile(ctx context.Context, filename string, data []byte, portfolioID string) ([]ImportResult, error) {
	fills, err := importer.ParseFills(filename, data)
	if err != nil {
		return nil, err
	}

	days := engine.Reconstruct(fills, s.cfg.Journal.ImportPointValue)

	var results []ImportResult
	for _, day := range days {
		existing, err := s.store.GetDayByDatePortfolio(ctx, day.Date, portfolioID)
		if err != nil && !apperrors.Is(err, apperrors.ErrDayNotFound) {
			return nil, err
		}
		if existing != nil {
			if err := s.store.DeleteDay(ctx, existing.ID); err != nil {
				return nil, err
			}
		}

		dayID, err := s.store.UpsertDay(ctx, day.Date, portfolioID)
		if err != nil {
			return nil, err
		}
		for i := range day.Trades {
			if _, err := s.store.InsertTrade(ctx, dayID, &day.Trades[i]); err != nil {
				return nil, err
			}
		}
		results = append(results, ImportResult{
			Date:       day.Date,
			DayID:      dayID,
			TradeCount: len(day.Trades),
		})
	}

	logging.LogImport(s.log, filename, len(results), len(fills))
	return results, nil
}

// ============================================================================
// Layered settings
// ============================================================================

// Keys under which database overrides shadow the file configuration.
// Trade default distances use td_<field>, instrument geometry uses
// inst_<SYMBOL>_dpp / _dpt / _tpp. Unparseable stored values fall back
// to the file configuration silently.
func settingFloat(settings map[string]string, key string) *float64 {
	if raw, ok := settings[key]; ok {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return &v
		}
	}
	return nil
}

func settingInt(settings map[string]string, key string) *int {
	if raw, ok := settings[key]; ok {
		if v, err := strconv.Atoi(raw); err == nil {
			return &v
		}
	}
	return nil
}

// TradeDefaults returns the plan distances with database overrides
// applied over the file configuration.
func (s *Service) TradeDefaults(ctx context.Context) (config.TradeDefaults, error) {
	settings, err := s.store.AllSettings(ctx)
	if err != nil {
		return s.cfg.Defaults, err
	}
	return s.cfg.Defaults.Merge(config.TradeDefaultsOverride{
		FullStopPoints:    settingFloat(settings, "td_full_stop_points"),
		FullTPPoints:      settingFloat(settings, "td_full_tp_points"),
		PartialStopPoints: settingFloat(settings, "td_partial_stop_points"),
		PartialTP1Points:  settingFloat(settings, "td_partial_tp1_points"),
		PartialTP2Points:  settingFloat(settings, "td_partial_tp2_points"),
		PartialTP3Points:  settingFloat(settings, "td_partial_tp3_points"),
	}), nil
}

// Instruments returns every configured instrument with database
// overrides applied.
func (s *Service) Instruments(ctx context.Context) (map[string]config.InstrumentSpec, error) {
	settings, err := s.store.AllSettings(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]config.InstrumentSpec, len(s.cfg.Instruments))
	for sym, spec := range s.cfg.Instruments {
		out[sym] = spec.Merge(config.InstrumentOverride{
			DollarsPerPoint: settingFloat(settings, "inst_"+sym+"_dpp"),
			DollarsPerTick:  settingFloat(settings, "inst_"+sym+"_dpt"),
			TicksPerPoint:   settingInt(settings, "inst_"+sym+"_tpp"),
		})
	}
	return out, nil
}

// Instrument resolves one symbol, falling back to MES for unknown
// symbols the way the planner treats any unconfigured contract.
func (s *Service) Instrument(ctx context.Context, sym string) (config.InstrumentSpec, error) {
	insts, err := s.Instruments(ctx)
	if err != nil {
		return s.cfg.Instrument(sym), err
	}
	if spec, ok := insts[sym]; ok {
		return spec, nil
	}
	if spec, ok := insts["MES"]; ok {
		return spec, nil
	}
	return s.cfg.Instrument(sym), nil
}

// defaultTagGroups is the built-in tag taxonomy.
func defaultTagGroups() []models.TagGroup {
	return []models.TagGroup{
		{ID: "with", Label: "With", Multi: true,
			Tags: []string{"Value", "Market Internals", "ADH", "AVWAP", "VWAP"}},
		{ID: "against", Label: "Against", Multi: true,
			Tags: []string{"Value", "Market Internals", "ADH", "AVWAP", "VWAP"}},
		{ID: "volume", Label: "Volume", Multi: false,
			Tags: []string{"Avg", "Above Avg", "Below Avg"}},
		{ID: "exit", Label: "Exit", Multi: false,
			Tags: []string{"Planned — Monitored Continuation", "Fear / Anxious"}},
		{ID: "setup", Label: "Setup", Multi: false,
			Tags: []string{"With Value", "Recapture of VWAP", "Break out of Range", "Initiative",
				"Low Tempo fade", "Balance Fade", "Look out of balance failed",
				"Gap fill failed", "No Setup", "Intuitive / Gut Feel"}},
		{ID: "pre", Label: "Pre-Trade", Multi: true,
			Tags: []string{"Trade came to me", "Intuition / Mkt Feel", "Not sure about context",
				"Quick Profit Attitude", "Revenge Mindset", "Boredom", "Distracted"}},
	}
}

// TagGroups returns the tag taxonomy, with per-group database
// customizations layered over the built-in defaults.
func (s *Service) TagGroups(ctx context.Context) ([]models.TagGroup, error) {
	groups := defaultTagGroups()
	custom, err := s.store.GetTagConfig(ctx)
	if err != nil {
		return nil, err
	}
	if custom == nil {
		return groups, nil
	}
	for i := range groups {
		if tags, ok := custom[groups[i].ID]; ok {
			groups[i].Tags = tags
		}
	}
	return groups, nil
}

// ============================================================================
// Live trades
// ============================================================================

// CreateLiveTrade plans the stop/take-profit levels for a new live
// trade and persists trade and levels together.
func (s *Service) CreateLiveTrade(ctx context.Context, lt *models.LiveTrade) (*models.LiveTrade, error) {
	if lt.TotalQty <= 0 {
		return nil, apperrors.NewValidationError("qty", lt.TotalQty, "quantity must be positive")
	}
	if lt.EntryPrice <= 0 {
		return nil, apperrors.NewValidationError("entry_price", lt.EntryPrice, "entry price must be positive")
	}
	if lt.Direction != models.DirectionLong && lt.Direction != models.DirectionShort {
		return nil, apperrors.NewValidationError("direction", lt.Direction, "direction must be Long or Short")
	}
	if lt.Mode != models.ModeFull && lt.Mode != models.ModePartials {
		return nil, apperrors.NewValidationError("mode", lt.Mode, "mode must be full or partials")
	}
	if lt.EntryTime == "" {
		lt.EntryTime = time.Now().Format("15:04:05")
	}

	inst, err := s.Instrument(ctx, lt.Instrument)
	if err != nil {
		return nil, err
	}
	defaults, err := s.TradeDefaults(ctx)
	if err != nil {
		return nil, err
	}

	lt.Levels = engine.BuildPlan(engine.PlanInput{
		Direction:  lt.Direction,
		EntryPrice: lt.EntryPrice,
		TotalQty:   lt.TotalQty,
		Mode:       lt.Mode,
	}, inst, defaults)

	id, err := s.store.CreateLiveTrade(ctx, lt)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("live_trade_id", id).
		Str("direction", string(lt.Direction)).
		Str("instrument", lt.Instrument).
		Float64("entry", lt.EntryPrice).
		Int("qty", lt.TotalQty).
		Str("mode", string(lt.Mode)).
		Msg("live trade created")
	return s.store.GetLiveTrade(ctx, id)
}

// Recalculate returns the current risk snapshot for a live trade.
func (s *Service) Recalculate(ctx context.Context, liveTradeID string) (*models.LiveTrade, *engine.Snapshot, error) {
	lt, err := s.store.GetLiveTrade(ctx, liveTradeID)
	if err != nil {
		return nil, nil, err
	}
	inst, err := s.Instrument(ctx, lt.Instrument)
	if err != nil {
		return nil, nil, err
	}
	snap := engine.Recalculate(lt, inst.DollarsPerPoint)
	return lt, &snap, nil
}

// LogExecution records a partial or full exit against a live trade,
// computing its realized P&L against entry. When the trade becomes
// fully exited it is closed automatically.
func (s *Service) LogExecution(ctx context.Context, liveTradeID string, e *models.Execution) (*engine.Snapshot, error) {
	lt, err := s.store.GetLiveTrade(ctx, liveTradeID)
	if err != nil {
		return nil, err
	}
	if e.Qty <= 0 {
		return nil, apperrors.NewValidationError("qty", e.Qty, "quantity must be positive")
	}
	if e.ExecTime == "" {
		e.ExecTime = time.Now().Format("15:04:05")
	}

	inst, err := s.Instrument(ctx, lt.Instrument)
	if err != nil {
		return nil, err
	}
	e.PnL = engine.ExecutionPnL(lt.Direction, lt.EntryPrice, e.Price, e.Qty, inst.DollarsPerPoint)

	if _, err := s.store.AddExecution(ctx, liveTradeID, e); err != nil {
		return nil, err
	}
	logging.LogExecution(s.log, liveTradeID, string(e.ExecType), e.Qty, e.Price, e.PnL)

	lt, err = s.store.GetLiveTrade(ctx, liveTradeID)
	if err != nil {
		return nil, err
	}
	snap := engine.Recalculate(lt, inst.DollarsPerPoint)

	if snap.IsClosed && lt.Status == models.LiveOpen {
		closed := models.LiveClosed
		closedAt := time.Now().Format("2006-01-02")
		pnl := snap.RealizedPnL
		upd := models.LiveTradeUpdate{
			Status:      &closed,
			ClosedAt:    &closedAt,
			RealizedPnL: &pnl,
		}
		if err := s.store.UpdateLiveTrade(ctx, liveTradeID, upd); err != nil {
			return nil, err
		}
		s.log.Info().Str("live_trade_id", liveTradeID).
			Float64("realized_pnl", pnl).Msg("live trade fully exited, closed")
	}
	return &snap, nil
}

// DeleteExecution removes a logged execution and recomputes risk. A
// trade that had auto-closed reopens if the deletion makes it
// partially exited again; any journal link is severed since the pushed
// trade no longer reflects the execution log.
func (s *Service) DeleteExecution(ctx context.Context, liveTradeID, execID string) (*engine.Snapshot, error) {
	if err := s.store.DeleteExecution(ctx, execID); err != nil {
		return nil, err
	}
	lt, err := s.store.GetLiveTrade(ctx, liveTradeID)
	if err != nil {
		return nil, err
	}
	inst, err := s.Instrument(ctx, lt.Instrument)
	if err != nil {
		return nil, err
	}
	snap := engine.Recalculate(lt, inst.DollarsPerPoint)

	if lt.Status == models.LiveClosed && !snap.IsClosed {
		open := models.LiveOpen
		empty := ""
		upd := models.LiveTradeUpdate{
			Status:         &open,
			ClosedAt:       &empty,
			JournalTradeID: &empty,
		}
		if err := s.store.UpdateLiveTrade(ctx, liveTradeID, upd); err != nil {
			return nil, err
		}
		s.log.Info().Str("live_trade_id", liveTradeID).Msg("live trade reopened after execution delete")
	}
	return &snap, nil
}

// ReplaceLevels swaps in a user-edited level set (trailed stops, moved
// targets) and returns the recomputed snapshot.
func (s *Service) ReplaceLevels(ctx context.Context, liveTradeID string, levels []models.Level) (*engine.Snapshot, error) {
	if _, err := s.store.GetLiveTrade(ctx, liveTradeID); err != nil {
		return nil, err
	}
	if err := s.store.SetLiveTradeLevels(ctx, liveTradeID, levels); err != nil {
		return nil, err
	}
	_, snap, err := s.Recalculate(ctx, liveTradeID)
	return snap, err
}

// CancelLiveTrade marks a live trade cancelled without touching the
// journal.
func (s *Service) CancelLiveTrade(ctx context.Context, liveTradeID string) error {
	if _, err := s.store.GetLiveTrade(ctx, liveTradeID); err != nil {
		return err
	}
	cancelled := models.LiveCancelled
	closedAt := time.Now().Format("2006-01-02")
	return s.store.UpdateLiveTrade(ctx, liveTradeID, models.LiveTradeUpdate{
		Status:   &cancelled,
		ClosedAt: &closedAt,
	})
}
