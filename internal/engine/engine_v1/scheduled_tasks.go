package engine_v1

import (
	"context"

	"github.com/trendlab/trendfollow/internal/types"
	"go.uber.org/zap"
)

// runGapCheck handles overnight gaps: positions carried into the open whose
// premium has already blown through the stop-loss are force-closed.
func (e *StrategyEngineV1) runGapCheck(ctx context.Context, settings types.StrategySettings) {
	e.mu.RLock()
	keys := sortedLegKeys(e.state.Legs)
	e.mu.RUnlock()

	exited := 0

	for _, legKey := range keys {
		snapshot, ok := e.legSnapshot(legKey)
		if !ok || snapshot.Status != types.LegStatusActive || snapshot.Token == 0 {
			continue
		}

		priceOpt, err := e.data.LatestOptionPrice(snapshot.Token)
		if err != nil {
			e.logger.Error("Gap check price lookup failed", zap.String("leg", legKey), zap.Error(err))
			continue
		}

		price, err := priceOpt.Take()
		if err != nil {
			continue
		}

		if !snapshot.StopLossBreached(price) {
			continue
		}

		e.logger.Warn("Gap beyond stop-loss detected",
			zap.String("leg", legKey),
			zap.Float64("price", price),
			zap.Float64("stop_loss", snapshot.StopLossPrice),
		)

		if e.executeExit(ctx, settings, legKey, snapshot, price, types.ExitReasonGapStopLoss) {
			exited++
		}
	}

	if exited > 0 {
		e.persist()
	}
}

// runDailyExit squares off the day: open positions are closed with
// DAILY_SQUARE_OFF, waiting legs are marked DONE and the state resets to IDLE.
// If any closing order fails the reset is withheld so the square-off retries
// on the next tick inside the exit window.
func (e *StrategyEngineV1) runDailyExit(ctx context.Context, settings types.StrategySettings) {
	if e.phase() == types.PhaseIdle {
		return
	}

	e.mu.RLock()
	keys := sortedLegKeys(e.state.Legs)
	e.mu.RUnlock()

	allClosed := true

	for _, legKey := range keys {
		snapshot, ok := e.legSnapshot(legKey)
		if !ok {
			continue
		}

		switch snapshot.Status {
		case types.LegStatusActive:
			price := e.latestPriceOrZero(snapshot.Token)
			if !e.executeExit(ctx, settings, legKey, snapshot, price, types.ExitReasonSquareOff) {
				allClosed = false
			}
		case types.LegStatusIdle, types.LegStatusWaitingRange, types.LegStatusWaitingEntry, types.LegStatusWaitingReentry:
			e.mu.Lock()

			if leg, exists := e.state.Legs[legKey]; exists {
				leg.Status = types.LegStatusDone
			}

			e.mu.Unlock()
		}
	}

	if !allClosed {
		e.persist()
		e.logger.Warn("Square-off incomplete, retrying next tick")

		return
	}

	e.mu.Lock()
	e.state.Reset()
	e.state.ExitTriggered = true
	e.mu.Unlock()

	e.persist()

	e.logger.Info("Daily square-off complete, state reset")
}

// latestPriceOrZero returns the freshest premium for the token, or zero when
// no fresh tick exists. Square-off orders go out regardless; the recorded exit
// price is best-effort.
func (e *StrategyEngineV1) latestPriceOrZero(token int64) float64 {
	priceOpt, err := e.data.LatestOptionPrice(token)
	if err != nil {
		return 0
	}

	return priceOpt.TakeOr(0)
}
