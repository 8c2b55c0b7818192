// Package engine_v1 is the first engine implementation: a polling loop that
// drives the daily phase machine (IDLE -> MONITORING_RANGE -> ACTIVE) and the
// per-leg breakout state machines on top of it.
package engine_v1

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/trendlab/trendfollow/internal/broker"
	"github.com/trendlab/trendfollow/internal/config"
	"github.com/trendlab/trendfollow/internal/engine"
	"github.com/trendlab/trendfollow/internal/logger"
	"github.com/trendlab/trendfollow/internal/market"
	"github.com/trendlab/trendfollow/internal/statestore"
	"github.com/trendlab/trendfollow/internal/types"
	"github.com/trendlab/trendfollow/internal/version"
	"go.uber.org/zap"
)

// StrategyEngineV1 implements engine.StrategyEngine.
//
// All state mutations happen under mu from within the tick evaluation; the
// status surface reads through Snapshot which clones under a read lock.
type StrategyEngineV1 struct {
	config   engine.Config
	runID    string
	settings *config.Store
	data     market.DataSource
	executor *orderExecutor
	states   statestore.Store
	logger   *logger.Logger
	clock    Clock

	mu    sync.RWMutex
	state *types.RuntimeState
}

// NewStrategyEngineV1 creates the engine. The gateway may be nil when only
// paper trading is configured.
func NewStrategyEngineV1(
	cfg engine.Config,
	settings *config.Store,
	data market.DataSource,
	gateway broker.Gateway,
	states statestore.Store,
	log *logger.Logger,
) *StrategyEngineV1 {
	cfg.ApplyDefaults()

	clock := Clock(systemClock{})

	return &StrategyEngineV1{
		config:   cfg,
		runID:    uuid.NewString(),
		settings: settings,
		data:     data,
		executor: newOrderExecutor(gateway, cfg.OrderTimeout, clock, log),
		states:   states,
		logger:   log,
		clock:    clock,
		mu:       sync.RWMutex{},
		state:    types.NewRuntimeState(),
	}
}

// Run implements engine.StrategyEngine.
func (e *StrategyEngineV1) Run(ctx context.Context) error {
	e.logger.Info("Strategy engine started",
		zap.String("run_id", e.runID),
		zap.String("version", version.GetVersion()),
	)

	e.restoreState()

	var lastHeartbeat time.Time

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		cfg, err := e.settings.Load()
		if err != nil {
			e.logger.Error("Failed to load config", zap.Error(err))

			if !e.sleep(ctx, e.config.ErrorCooldown) {
				return ctx.Err()
			}

			continue
		}

		now := e.clock.Now()
		if now.Sub(lastHeartbeat) >= e.config.HeartbeatInterval {
			lastHeartbeat = now
			e.logger.Info("Strategy heartbeat",
				zap.String("run_id", e.runID),
				zap.Bool("running", cfg.IsRunning),
				zap.String("phase", string(e.Snapshot().Phase)),
			)
		}

		if !cfg.IsRunning {
			if !e.sleep(ctx, e.config.IdleInterval) {
				return ctx.Err()
			}

			continue
		}

		if err := e.tick(ctx, cfg.StrategySettings); err != nil {
			e.logger.Error("Tick failed", zap.Error(err))

			if !e.sleep(ctx, e.config.ErrorCooldown) {
				return ctx.Err()
			}

			continue
		}

		if !e.sleep(ctx, e.config.TickInterval) {
			return ctx.Err()
		}
	}
}

// Snapshot implements engine.StrategyEngine.
func (e *StrategyEngineV1) Snapshot() *types.RuntimeState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.state.Clone()
}

// tick runs one evaluation pass. Each scheduled task catches and logs its own
// errors so a failing task never starves the others; only a config that fails
// validation aborts the pass.
func (e *StrategyEngineV1) tick(ctx context.Context, settings types.StrategySettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	e.seedPlaceholderLegs(settings)

	now := e.clock.Now()

	if inWindow(now, settings.TimeRange.CheckCondition, settings.StrategyParameters.GapCheckWindowMinutes) {
		e.runGapCheck(ctx, settings)
	}

	if inWindow(now, settings.TimeRange.StrategyExit, settings.StrategyParameters.ExitCheckWindowMinutes) {
		e.runDailyExit(ctx, settings)
	}

	if e.phase() == types.PhaseIdle && inWindow(now, settings.TimeRange.Start, settings.BufferMinutes) {
		if err := e.selectStrikes(settings); err != nil {
			// Selection retries on the next tick while the window is open.
			e.logger.Error("Strike selection failed", zap.Error(err))
		}
	}

	if e.phase() == types.PhaseMonitoringRange && atOrAfter(now, settings.TimeRange.End) {
		e.activateLegs(settings)
	}

	if e.phase() == types.PhaseActive {
		e.monitorLegs(ctx, settings)
	}

	return nil
}

func (e *StrategyEngineV1) phase() types.Phase {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.state.Phase
}

// seedPlaceholderLegs fills the leg map with waiting placeholders so the
// status surface shows the configured legs before selection has run.
func (e *StrategyEngineV1) seedPlaceholderLegs(settings types.StrategySettings) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Phase != types.PhaseIdle || len(e.state.Legs) > 0 {
		return
	}

	for legKey, legSettings := range settings.Legs {
		e.state.Legs[legKey] = types.NewPlaceholderLeg(legSettings.Lots)
	}
}

// restoreState loads the last durable snapshot, if any, so a restart mid-day
// resumes where the previous process stopped.
func (e *StrategyEngineV1) restoreState() {
	loaded, err := e.states.Load()
	if err != nil {
		e.logger.Error("Failed to restore state, starting fresh", zap.Error(err))
		return
	}

	state, err := loaded.Take()
	if err != nil {
		e.logger.Info("No persisted state found, starting fresh")
		return
	}

	e.mu.Lock()
	e.state = state
	e.mu.Unlock()

	e.logger.Info("Runtime state restored",
		zap.String("phase", string(state.Phase)),
		zap.Int("legs", len(state.Legs)),
	)
}

// persist writes the current state to the durable store. Persistence is
// best-effort: a failed save is logged and the engine keeps running on its
// in-memory state.
func (e *StrategyEngineV1) persist() {
	e.mu.RLock()
	snapshot := e.state.Clone()
	e.mu.RUnlock()

	if err := e.states.Save(snapshot); err != nil {
		e.logger.Error("Failed to persist state", zap.Error(err))
	}
}

// sleep waits for the duration or until the context is cancelled. It returns
// false when the context ended first.
func (e *StrategyEngineV1) sleep(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// sortedLegKeys returns the leg identifiers in a stable order so per-leg
// processing and logging are deterministic.
func sortedLegKeys(legs map[string]*types.LegState) []string {
	keys := make([]string, 0, len(legs))
	for key := range legs {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

func sortedLegSettingKeys(legs map[string]types.LegSettings) []string {
	keys := make([]string, 0, len(legs))
	for key := range legs {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
