package types

import (
	"testing"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStopLossFor(t *testing.T) {
	buyLeg := &LegState{Direction: DirectionBuy, StopLossPct: 20}
	assert.InDelta(t, 160.0, buyLeg.StopLossFor(200), 1e-9)

	sellLeg := &LegState{Direction: DirectionSell, StopLossPct: 20}
	assert.InDelta(t, 240.0, sellLeg.StopLossFor(200), 1e-9)
}

func TestStopLossBreached(t *testing.T) {
	buyLeg := &LegState{Direction: DirectionBuy, StopLossPrice: 160}
	assert.False(t, buyLeg.StopLossBreached(160.01))
	assert.True(t, buyLeg.StopLossBreached(160))
	assert.True(t, buyLeg.StopLossBreached(150))

	sellLeg := &LegState{Direction: DirectionSell, StopLossPrice: 240}
	assert.False(t, sellLeg.StopLossBreached(239.99))
	assert.True(t, sellLeg.StopLossBreached(240))
	assert.True(t, sellLeg.StopLossBreached(250))
}

func TestEntryTriggerPrice(t *testing.T) {
	leg := &LegState{RangeHigh: 250, EntryTriggerPct: 10}
	assert.InDelta(t, 275.0, leg.EntryTriggerPrice(), 1e-9)

	leg.ReentryTriggerPct = 20
	assert.InDelta(t, 300.0, leg.ReentryTriggerPrice(), 1e-9)
}

func TestUnrealizedPnL(t *testing.T) {
	buyLeg := &LegState{Status: LegStatusActive, Direction: DirectionBuy, EntryPrice: 100}
	pnl := buyLeg.UnrealizedPnL(110, 35)
	assert.True(t, pnl.Equal(decimal.NewFromInt(350)), "got %s", pnl)

	sellLeg := &LegState{Status: LegStatusActive, Direction: DirectionSell, EntryPrice: 100}
	pnl = sellLeg.UnrealizedPnL(110, 35)
	assert.True(t, pnl.Equal(decimal.NewFromInt(-350)), "got %s", pnl)

	// No open position, no PnL.
	waiting := &LegState{Status: LegStatusWaitingEntry, Direction: DirectionBuy, EntryPrice: 100}
	assert.True(t, waiting.UnrealizedPnL(110, 35).IsZero())
}

func TestDirectionReverse(t *testing.T) {
	assert.Equal(t, DirectionSell, DirectionBuy.Reverse())
	assert.Equal(t, DirectionBuy, DirectionSell.Reverse())
}

func TestLegClone(t *testing.T) {
	leg := &LegState{
		Symbol:     "BANKNIFTY26JAN59100CE",
		Status:     LegStatusActive,
		EntryPrice: 200,
		ExitPrice:  optional.Some(180.0),
		ExitReason: optional.Some(ExitReasonStopLoss),
	}

	clone := leg.Clone()
	clone.Status = LegStatusDone
	clone.EntryPrice = 0

	assert.Equal(t, LegStatusActive, leg.Status)
	assert.InDelta(t, 200.0, leg.EntryPrice, 1e-9)
	assert.Equal(t, 180.0, clone.ExitPrice.Unwrap())
}

func TestNewPlaceholderLeg(t *testing.T) {
	leg := NewPlaceholderLeg(2)
	assert.Equal(t, LegStatusIdle, leg.Status)
	assert.Equal(t, "Waiting...", leg.Symbol)
	assert.Equal(t, 2, leg.Lots)
	assert.True(t, leg.ExitPrice.IsNone())
}
