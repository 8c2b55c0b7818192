package engine_v1

import (
	"github.com/trendlab/trendfollow/internal/types"
	"go.uber.org/zap"
)

// activateLegs locks each leg's observed premium range for the monitoring
// window and advances the phase to ACTIVE. A leg with no ticks in the window
// keeps a zero range and is logged; it can still trigger on any price above
// its entry buffer.
func (e *StrategyEngineV1) activateLegs(settings types.StrategySettings) {
	now := e.clock.Now()
	rangeStart := clockAt(now, settings.TimeRange.Start)
	rangeEnd := clockAt(now, settings.TimeRange.End)

	e.mu.RLock()
	keys := sortedLegKeys(e.state.Legs)
	tokens := make(map[string]int64, len(keys))

	for _, legKey := range keys {
		leg := e.state.Legs[legKey]
		if leg.Status != types.LegStatusDone && leg.Token != 0 {
			tokens[legKey] = leg.Token
		}
	}
	e.mu.RUnlock()

	finalized := 0

	for _, legKey := range keys {
		token, ok := tokens[legKey]
		if !ok {
			continue
		}

		rangeOpt, err := e.data.RangeHighLow(token, rangeStart, rangeEnd)
		if err != nil {
			e.logger.Error("Range query failed", zap.String("leg", legKey), zap.Error(err))
			continue
		}

		highLow, err := rangeOpt.Take()
		if err != nil {
			e.logger.Warn("No ticks in range window", zap.String("leg", legKey), zap.Int64("token", token))
			continue
		}

		e.mu.Lock()

		var symbol string

		var entryTrigger float64

		leg, exists := e.state.Legs[legKey]
		if exists {
			leg.RangeHigh = highLow.High
			leg.RangeLow = highLow.Low

			if leg.Status == types.LegStatusWaitingRange {
				leg.Status = types.LegStatusWaitingEntry
			}

			symbol = leg.Symbol
			entryTrigger = leg.EntryTriggerPrice()
		}

		e.mu.Unlock()

		if exists {
			finalized++

			e.logger.Info("Range finalized",
				zap.String("leg", legKey),
				zap.String("symbol", symbol),
				zap.Float64("range_high", highLow.High),
				zap.Float64("range_low", highLow.Low),
				zap.Float64("entry_trigger", entryTrigger),
			)
		}
	}

	e.mu.Lock()
	e.state.Phase = types.PhaseActive
	e.mu.Unlock()

	e.persist()

	e.logger.Info("Legs activated", zap.Int("finalized", finalized), zap.Int("legs", len(keys)))
}
