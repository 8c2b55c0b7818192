package types

// RuntimeState is the single durable record of the strategy's runtime. It is
// mutated only from within the engine's tick evaluation and persisted after
// every mutation that affects phase, leg status or entry/exit prices.
type RuntimeState struct {
	Phase          Phase                `json:"status"`
	Instrument     string               `json:"instrument"`
	SelectedExpiry string               `json:"selected_expiry"`
	Legs           map[string]*LegState `json:"legs"`
	ExitTriggered  bool                 `json:"exit_triggered"`
}

// NewRuntimeState creates an empty IDLE state with no legs.
func NewRuntimeState() *RuntimeState {
	return &RuntimeState{
		Phase:          PhaseIdle,
		Instrument:     "",
		SelectedExpiry: "",
		Legs:           make(map[string]*LegState),
		ExitTriggered:  false,
	}
}

// Reset returns the state to IDLE with empty legs for a new trading day.
func (s *RuntimeState) Reset() {
	s.Phase = PhaseIdle
	s.Instrument = ""
	s.SelectedExpiry = ""
	s.Legs = make(map[string]*LegState)
	s.ExitTriggered = false
}

// Clone returns a deep copy safe to hand to the status surface while the
// engine keeps mutating the original.
func (s *RuntimeState) Clone() *RuntimeState {
	clone := &RuntimeState{
		Phase:          s.Phase,
		Instrument:     s.Instrument,
		SelectedExpiry: s.SelectedExpiry,
		Legs:           make(map[string]*LegState, len(s.Legs)),
		ExitTriggered:  s.ExitTriggered,
	}
	for key, leg := range s.Legs {
		clone.Legs[key] = leg.Clone()
	}

	return clone
}
