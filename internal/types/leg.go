package types

import (
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// MaxEntriesPerDay bounds how many times a leg may enter in one trading day.
const MaxEntriesPerDay = 2

// LegState is the durable runtime record of one option leg.
type LegState struct {
	Strike     float64   `json:"strike"`
	Token      int64     `json:"token"`
	Symbol     string    `json:"symbol"`
	Expiry     string    `json:"expiry"`
	Direction  Direction `json:"action"`
	RefPremium float64   `json:"ref_premium"`
	Status     LegStatus `json:"status"`
	RangeHigh  float64   `json:"range_high"`
	RangeLow   float64   `json:"range_low"`
	EntryPrice float64   `json:"entry_price"`
	// StopLossPrice is derived from EntryPrice and Direction at the moment of
	// entry and never recomputed afterward.
	StopLossPrice     float64                  `json:"sl_price"`
	EntriesCount      int                      `json:"entries_count"`
	StopLossPct       float64                  `json:"sl_pct"`
	EntryTriggerPct   float64                  `json:"entry_trigger_pct"`
	ReentryTriggerPct float64                  `json:"reentry_trigger_pct"`
	Lots              int                      `json:"lots"`
	ExitPrice         optional.Option[float64] `json:"exit_price"`
	ExitReason        optional.Option[string]  `json:"exit_reason"`
}

// NewPlaceholderLeg returns the empty leg shown on the status surface before
// strike selection has run.
func NewPlaceholderLeg(lots int) *LegState {
	return &LegState{
		Strike:            0,
		Token:             0,
		Symbol:            "Waiting...",
		Expiry:            "",
		Direction:         "",
		RefPremium:        0,
		Status:            LegStatusIdle,
		RangeHigh:         0,
		RangeLow:          0,
		EntryPrice:        0,
		StopLossPrice:     0,
		EntriesCount:      0,
		StopLossPct:       0,
		EntryTriggerPct:   0,
		ReentryTriggerPct: 0,
		Lots:              lots,
		ExitPrice:         optional.None[float64](),
		ExitReason:        optional.None[string](),
	}
}

// EntryTriggerPrice is the price the live premium must strictly exceed for the
// first entry.
func (l *LegState) EntryTriggerPrice() float64 {
	return l.RangeHigh * (1 + l.EntryTriggerPct/100)
}

// ReentryTriggerPrice is the price the live premium must strictly exceed for
// the re-entry after a stop-loss.
func (l *LegState) ReentryTriggerPrice() float64 {
	return l.RangeHigh * (1 + l.ReentryTriggerPct/100)
}

// StopLossFor computes the stop-loss price for an entry at the given price.
// BUY legs stop below the entry, SELL legs stop above it.
func (l *LegState) StopLossFor(entryPrice float64) float64 {
	if l.Direction == DirectionBuy {
		return entryPrice * (1 - l.StopLossPct/100)
	}

	return entryPrice * (1 + l.StopLossPct/100)
}

// StopLossBreached reports whether the live price has crossed the stop-loss
// for an open position.
func (l *LegState) StopLossBreached(price float64) bool {
	if l.Direction == DirectionBuy {
		return price <= l.StopLossPrice
	}

	return price >= l.StopLossPrice
}

// UnrealizedPnL computes the open position profit for the given live price and
// total quantity using decimal arithmetic.
func (l *LegState) UnrealizedPnL(price float64, quantity int) decimal.Decimal {
	if l.Status != LegStatusActive {
		return decimal.Zero
	}

	qty := decimal.NewFromInt(int64(quantity))
	entry := decimal.NewFromFloat(l.EntryPrice).Mul(qty)
	current := decimal.NewFromFloat(price).Mul(qty)

	if l.Direction == DirectionBuy {
		return current.Sub(entry)
	}

	return entry.Sub(current)
}

// Clone returns a deep copy of the leg.
func (l *LegState) Clone() *LegState {
	clone := *l
	return &clone
}
