package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRuntimeState(t *testing.T) {
	state := NewRuntimeState()
	assert.Equal(t, PhaseIdle, state.Phase)
	assert.Empty(t, state.Legs)
	assert.False(t, state.ExitTriggered)
}

func TestRuntimeStateReset(t *testing.T) {
	state := NewRuntimeState()
	state.Phase = PhaseActive
	state.Instrument = "NIFTY BANK"
	state.SelectedExpiry = "26JAN"
	state.ExitTriggered = true
	state.Legs["leg_ce_1"] = &LegState{Status: LegStatusActive}

	state.Reset()

	assert.Equal(t, PhaseIdle, state.Phase)
	assert.Empty(t, state.Instrument)
	assert.Empty(t, state.SelectedExpiry)
	assert.Empty(t, state.Legs)
	assert.False(t, state.ExitTriggered)
}

func TestRuntimeStateClone(t *testing.T) {
	state := NewRuntimeState()
	state.Phase = PhaseMonitoringRange
	state.Legs["leg_pe_1"] = &LegState{Status: LegStatusWaitingRange, Strike: 59100}

	clone := state.Clone()
	clone.Phase = PhaseActive
	clone.Legs["leg_pe_1"].Status = LegStatusDone

	// The original must be untouched by mutations of the clone.
	assert.Equal(t, PhaseMonitoringRange, state.Phase)
	assert.Equal(t, LegStatusWaitingRange, state.Legs["leg_pe_1"].Status)
}
