package engine_v1

import (
	"context"
	"sync"

	"github.com/moznion/go-optional"
	"github.com/trendlab/trendfollow/internal/broker"
	"github.com/trendlab/trendfollow/internal/types"
	"go.uber.org/zap"
)

// monitorLegs evaluates every leg concurrently against its live premium. Legs
// are independent state machines, so a slow price read or order on one leg
// never delays the others.
func (e *StrategyEngineV1) monitorLegs(ctx context.Context, settings types.StrategySettings) {
	e.mu.RLock()
	keys := sortedLegKeys(e.state.Legs)
	e.mu.RUnlock()

	var wg sync.WaitGroup

	for _, key := range keys {
		wg.Add(1)

		go func(legKey string) {
			defer wg.Done()
			e.checkLeg(ctx, settings, legKey)
		}(key)
	}

	wg.Wait()
}

// checkLeg evaluates one leg's trigger conditions against the latest premium.
func (e *StrategyEngineV1) checkLeg(ctx context.Context, settings types.StrategySettings, legKey string) {
	snapshot, ok := e.legSnapshot(legKey)
	if !ok || snapshot.Token == 0 {
		return
	}

	switch snapshot.Status {
	case types.LegStatusWaitingEntry, types.LegStatusWaitingReentry, types.LegStatusActive:
	default:
		return
	}

	priceOpt, err := e.data.LatestOptionPrice(snapshot.Token)
	if err != nil {
		e.logger.Error("Price lookup failed", zap.String("leg", legKey), zap.Error(err))
		return
	}

	price, err := priceOpt.Take()
	if err != nil {
		// No fresh tick; the leg waits for the next one.
		return
	}

	switch snapshot.Status {
	case types.LegStatusWaitingEntry:
		if price > snapshot.EntryTriggerPrice() {
			e.executeEntry(ctx, settings, legKey, snapshot, price, types.EntryTagFirst)
		}
	case types.LegStatusWaitingReentry:
		if price > snapshot.ReentryTriggerPrice() {
			e.executeEntry(ctx, settings, legKey, snapshot, price, types.EntryTagReentry)
		}
	case types.LegStatusActive:
		if snapshot.StopLossBreached(price) {
			e.executeStopLoss(ctx, settings, legKey, snapshot, price)
		}
	}
}

func (e *StrategyEngineV1) legSnapshot(legKey string) (*types.LegState, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	leg, ok := e.state.Legs[legKey]
	if !ok {
		return nil, false
	}

	return leg.Clone(), true
}

// executeEntry places the entry order and opens the position. An order failure
// leaves the leg untouched so the same trigger re-fires on the next tick.
func (e *StrategyEngineV1) executeEntry(
	ctx context.Context,
	settings types.StrategySettings,
	legKey string,
	snapshot *types.LegState,
	price float64,
	tag string,
) {
	order := broker.Order{
		Symbol:   snapshot.Symbol,
		Token:    snapshot.Token,
		Side:     snapshot.Direction,
		Quantity: settings.Quantity(snapshot.Lots),
	}

	if _, err := e.executor.Place(ctx, order, settings.PaperTrading, tag); err != nil {
		e.logger.Error("Entry order failed, trigger stays armed",
			zap.String("leg", legKey),
			zap.String("tag", tag),
			zap.Error(err),
		)

		return
	}

	e.mu.Lock()

	if leg, ok := e.state.Legs[legKey]; ok {
		leg.Status = types.LegStatusActive
		leg.EntryPrice = price
		leg.StopLossPrice = leg.StopLossFor(price)
		leg.EntriesCount++
		leg.ExitPrice = optional.None[float64]()
		leg.ExitReason = optional.None[string]()
	}

	e.mu.Unlock()

	e.persist()

	e.logger.Info("Position opened",
		zap.String("leg", legKey),
		zap.String("tag", tag),
		zap.String("symbol", snapshot.Symbol),
		zap.Float64("entry_price", price),
		zap.Float64("stop_loss", snapshot.StopLossFor(price)),
	)
}

// executeStopLoss closes the position and decides whether the leg may re-enter
// or is done for the day.
func (e *StrategyEngineV1) executeStopLoss(
	ctx context.Context,
	settings types.StrategySettings,
	legKey string,
	snapshot *types.LegState,
	price float64,
) {
	if !e.executeExit(ctx, settings, legKey, snapshot, price, types.ExitReasonStopLoss) {
		return
	}

	e.mu.Lock()

	if leg, ok := e.state.Legs[legKey]; ok {
		if leg.EntriesCount >= types.MaxEntriesPerDay {
			leg.Status = types.LegStatusDone
		} else {
			leg.Status = types.LegStatusWaitingReentry
		}
	}

	e.mu.Unlock()

	e.persist()
}

// executeExit places the closing order and records the exit on the leg. On
// order failure the leg stays ACTIVE so the exit condition re-fires on the
// next tick; the return value reports whether the exit completed.
func (e *StrategyEngineV1) executeExit(
	ctx context.Context,
	settings types.StrategySettings,
	legKey string,
	snapshot *types.LegState,
	price float64,
	reason string,
) bool {
	order := broker.Order{
		Symbol:   snapshot.Symbol,
		Token:    snapshot.Token,
		Side:     snapshot.Direction.Reverse(),
		Quantity: settings.Quantity(snapshot.Lots),
	}

	if _, err := e.executor.Place(ctx, order, settings.PaperTrading, reason); err != nil {
		e.logger.Error("Exit order failed, will retry next tick",
			zap.String("leg", legKey),
			zap.String("reason", reason),
			zap.Error(err),
		)

		return false
	}

	e.mu.Lock()

	if leg, ok := e.state.Legs[legKey]; ok {
		leg.Status = types.LegStatusExited
		leg.ExitPrice = optional.Some(price)
		leg.ExitReason = optional.Some(reason)
	}

	e.mu.Unlock()

	e.logger.Info("Position closed",
		zap.String("leg", legKey),
		zap.String("reason", reason),
		zap.String("symbol", snapshot.Symbol),
		zap.Float64("exit_price", price),
	)

	return true
}
