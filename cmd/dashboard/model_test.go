package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/assert"
	"github.com/trendlab/trendfollow/internal/types"
)

func TestNewModel(t *testing.T) {
	m := NewModel(newAPIClient("http://127.0.0.1:8080"))

	assert.Nil(t, m.status)
	assert.Zero(t, m.spot)
	assert.NoError(t, m.err)
}

func TestFormatPriceWithColor(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		expected string
	}{
		{name: "no previous", current: 245.5, previous: 0, expected: "245.50"},
		{name: "up", current: 246, previous: 245, expected: "246.00 ▲"},
		{name: "down", current: 244, previous: 245, expected: "244.00 ▼"},
		{name: "flat", current: 245, previous: 245, expected: "245.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPriceWithColor(tt.current, tt.previous))
		})
	}
}

func TestUpdateLegRows(t *testing.T) {
	legs := map[string]*types.LegState{
		"leg_pe_1": {
			Symbol:     "BANKNIFTY26JAN58600PE",
			Status:     types.LegStatusWaitingEntry,
			RangeHigh:  48.5,
			RangeLow:   31.2,
			ExitPrice:  optional.None[float64](),
			ExitReason: optional.None[string](),
		},
		"leg_ce_1": {
			Symbol:        "BANKNIFTY26JAN59700CE",
			Status:        types.LegStatusActive,
			RangeHigh:     52,
			RangeLow:      40,
			EntryPrice:    58.3,
			StopLossPrice: 69.96,
			EntriesCount:  1,
			ExitPrice:     optional.None[float64](),
			ExitReason:    optional.None[string](),
		},
	}

	table := UpdateLegRows(NewLegTable(), legs)

	rows := table.Rows()
	assert.Len(t, rows, 2)
	// Rows are sorted by leg key.
	assert.Equal(t, "leg_ce_1", rows[0][0])
	assert.Equal(t, "leg_pe_1", rows[1][0])
	assert.Equal(t, "58.30", rows[0][4])
	assert.Equal(t, "-", rows[1][4])
}

func TestFormatExit(t *testing.T) {
	leg := &types.LegState{
		ExitPrice:  optional.Some(245.0),
		ExitReason: optional.Some(types.ExitReasonStopLoss),
	}
	assert.Equal(t, "SL_HIT @ 245.00", formatExit(leg))

	empty := &types.LegState{
		ExitPrice:  optional.None[float64](),
		ExitReason: optional.None[string](),
	}
	assert.Equal(t, "-", formatExit(empty))
}

func newStatusServer(t *testing.T) *httptest.Server {
	t.Helper()

	state := types.NewRuntimeState()
	state.Phase = types.PhaseActive
	state.Instrument = "NIFTY BANK"
	state.Legs["leg_ce_1"] = &types.LegState{
		Symbol:     "BANKNIFTY26JAN59700CE",
		Status:     types.LegStatusWaitingEntry,
		RangeHigh:  52,
		RangeLow:   40,
		ExitPrice:  optional.None[float64](),
		ExitReason: optional.None[string](),
	}

	payload := statusPayload{
		Config:        types.Config{IsRunning: true},
		StrategyState: state,
		Version:       "v0.3.0",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(payload)
	})
	mux.HandleFunc("/spot_price", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(spotPayload{Instrument: "NIFTY BANK", SpotPrice: 59137})
	})

	return httptest.NewServer(mux)
}

func TestDashboardRendersStatus(t *testing.T) {
	server := newStatusServer(t)
	defer server.Close()

	m := NewModel(newAPIClient(server.URL))
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("BANKNIFTY26JAN59700CE"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}
