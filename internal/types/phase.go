package types

// Phase is the top-level daily state of the strategy.
type Phase string

const (
	// PhaseIdle means the strategy is waiting for the start window.
	PhaseIdle Phase = "IDLE"
	// PhaseMonitoringRange means strikes are selected and the range is being observed.
	PhaseMonitoringRange Phase = "MONITORING_RANGE"
	// PhaseActive means ranges are finalized and legs are being monitored for triggers.
	PhaseActive Phase = "ACTIVE"
)

// LegStatus is the per-leg state machine status.
type LegStatus string

const (
	// LegStatusIdle is the placeholder status before strike selection runs.
	LegStatusIdle LegStatus = "IDLE"
	// LegStatusWaitingRange means the leg is selected and its range is being observed.
	LegStatusWaitingRange LegStatus = "WAITING_RANGE"
	// LegStatusWaitingEntry means the range is locked and the leg waits for the entry trigger.
	LegStatusWaitingEntry LegStatus = "WAITING_ENTRY"
	// LegStatusActive means a position is open.
	LegStatusActive LegStatus = "ACTIVE"
	// LegStatusWaitingReentry means the first stop-loss fired and the leg may re-enter once.
	LegStatusWaitingReentry LegStatus = "WAITING_REENTRY"
	// LegStatusExited means the leg was force-closed (square-off or gap exit).
	LegStatusExited LegStatus = "EXITED"
	// LegStatusDone means the leg is finished for the day and will not trade again.
	LegStatusDone LegStatus = "DONE"
)

// Direction is the side of a position.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// Reverse returns the opposite direction, used to close a position.
func (d Direction) Reverse() Direction {
	if d == DirectionBuy {
		return DirectionSell
	}

	return DirectionBuy
}

// OptionType is the option contract kind.
type OptionType string

const (
	OptionTypeCall OptionType = "CE"
	OptionTypePut  OptionType = "PE"
)

// ExpiryPreference selects which expiry a leg trades.
type ExpiryPreference string

const (
	ExpiryCurrent ExpiryPreference = "current"
	ExpiryNext    ExpiryPreference = "next"
)

// Exit reasons recorded on a leg when a position is closed.
const (
	ExitReasonStopLoss    = "SL_HIT"
	ExitReasonGapStopLoss = "GAP_SL_HIT"
	ExitReasonSquareOff   = "DAILY_SQUARE_OFF"
)

// Entry tags distinguish the first entry from the single allowed re-entry.
const (
	EntryTagFirst   = "ENTRY_1"
	EntryTagReentry = "ENTRY_2"
)
