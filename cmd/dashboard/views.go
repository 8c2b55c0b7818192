package main

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/trendlab/trendfollow/internal/types"
)

// NewLegTable creates the table displaying the per-leg state machines.
func NewLegTable() table.Model {
	columns := []table.Column{
		{Title: "Leg", Width: 10},
		{Title: "Symbol", Width: 24},
		{Title: "Status", Width: 16},
		{Title: "Range", Width: 18},
		{Title: "Entry", Width: 10},
		{Title: "SL", Width: 10},
		{Title: "Entries", Width: 8},
		{Title: "Exit", Width: 20},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// UpdateLegRows fills the table with the latest leg states in a stable order.
func UpdateLegRows(t table.Model, legs map[string]*types.LegState) table.Model {
	keys := make([]string, 0, len(legs))
	for key := range legs {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	rows := make([]table.Row, 0, len(legs))

	for _, key := range keys {
		leg := legs[key]

		rows = append(rows, table.Row{
			key,
			leg.Symbol,
			string(leg.Status),
			formatRange(leg),
			formatPrice(leg.EntryPrice),
			formatPrice(leg.StopLossPrice),
			fmt.Sprintf("%d", leg.EntriesCount),
			formatExit(leg),
		})
	}

	t.SetRows(rows)

	return t
}

func formatRange(leg *types.LegState) string {
	if leg.RangeHigh == 0 && leg.RangeLow == 0 {
		return "-"
	}

	return fmt.Sprintf("%.2f / %.2f", leg.RangeLow, leg.RangeHigh)
}

func formatPrice(price float64) string {
	if price == 0 {
		return "-"
	}

	return fmt.Sprintf("%.2f", price)
}

func formatExit(leg *types.LegState) string {
	price, priceErr := leg.ExitPrice.Take()
	reason, reasonErr := leg.ExitReason.Take()

	if priceErr != nil && reasonErr != nil {
		return "-"
	}

	if reasonErr != nil {
		return formatPrice(price)
	}

	return fmt.Sprintf("%s @ %s", reason, formatPrice(price))
}
