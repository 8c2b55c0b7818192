package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/trendlab/trendfollow/pkg/errors"
)

// TimeRange holds the day's clock boundaries as "HH:MM" strings.
type TimeRange struct {
	// Start opens the strike selection window and anchors the range.
	Start string `json:"start" validate:"required,datetime=15:04"`
	// End closes range monitoring and activates the legs.
	End string `json:"end" validate:"required,datetime=15:04"`
	// CheckCondition is the opening gap check time.
	CheckCondition string `json:"check_condition" validate:"required,datetime=15:04"`
	// StrategyExit is the daily square-off time.
	StrategyExit string `json:"strategy_exit" validate:"required,datetime=15:04"`
}

// StrategyParameters are the window widths around the configured clock times.
type StrategyParameters struct {
	GapCheckWindowMinutes  int     `json:"gap_check_window_minutes" validate:"required,gt=0"`
	ExitCheckWindowMinutes int     `json:"exit_check_window_minutes" validate:"required,gt=0"`
	DefaultBufferMinutes   int     `json:"default_buffer_minutes" validate:"required,gt=0"`
	DefaultStrikeStep      float64 `json:"default_strike_step" validate:"required,gt=0"`
}

// LegSettings is the configured definition of one option leg.
type LegSettings struct {
	Lots                 int              `json:"lots" validate:"required,gt=0"`
	PercentageOfStraddle float64          `json:"percentage_of_straddle" validate:"required,gt=0"`
	ExpiryType           ExpiryPreference `json:"expiry_type" validate:"required,oneof=current next"`
	Action               Direction        `json:"action" validate:"required,oneof=BUY SELL"`
	SLPercentage         float64          `json:"sl_percentage" validate:"required,gt=0"`
	EntryTriggerPct      float64          `json:"entry_trigger_percentage" validate:"gte=0"`
	ReentryTriggerPct    float64          `json:"reentry_trigger_percentage" validate:"gte=0"`
}

// StrategySettings is the typed day configuration, re-read every tick.
type StrategySettings struct {
	Instrument string  `json:"instrument" validate:"required"`
	StrikeStep float64 `json:"strike_step" validate:"required,gt=0"`
	// Lots is the global lot multiplier applied on top of each leg's lot count.
	Lots               int                    `json:"lots" validate:"required,gt=0"`
	LotSizes           map[string]int         `json:"lot_sizes" validate:"required,min=1"`
	PaperTrading       bool                   `json:"paper_trading"`
	BufferMinutes      int                    `json:"buffer_minutes" validate:"required,gt=0"`
	TimeRange          TimeRange              `json:"time_range"`
	StrategyParameters StrategyParameters     `json:"strategy_parameters"`
	InstrumentMap      map[string]string      `json:"instrument_map" validate:"required,min=1"`
	Legs               map[string]LegSettings `json:"legs" validate:"required,min=1,dive"`
}

// Config is the full on-disk configuration document: the run switch plus the
// strategy settings.
type Config struct {
	IsRunning        bool             `json:"is_running"`
	StrategySettings StrategySettings `json:"strategy_settings"`
}

// OptionTypeForLeg derives the contract kind from the leg identifier
// (e.g. "leg_ce_1" trades calls, "leg_pe_1" trades puts).
func OptionTypeForLeg(legKey string) (OptionType, error) {
	lower := strings.ToLower(legKey)

	switch {
	case strings.Contains(lower, "ce"):
		return OptionTypeCall, nil
	case strings.Contains(lower, "pe"):
		return OptionTypePut, nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidLegSettings,
			"leg key %q does not name an option type (expected 'ce' or 'pe')", legKey)
	}
}

// Validate checks the settings against the struct tags and the cross-field
// rules the tags cannot express.
func (s *StrategySettings) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid strategy settings", err)
	}

	// Every leg key must resolve to an option type.
	for legKey := range s.Legs {
		if _, err := OptionTypeForLeg(legKey); err != nil {
			return err
		}
	}

	// The traded instrument must have a lot size and a market symbol.
	if _, ok := s.LotSizes[s.Instrument]; !ok {
		return errors.Newf(errors.ErrCodeInvalidConfiguration,
			"no lot size configured for instrument %q", s.Instrument)
	}

	if _, ok := s.InstrumentMap[s.Instrument]; !ok {
		return errors.Newf(errors.ErrCodeInvalidConfiguration,
			"no market symbol mapping for instrument %q", s.Instrument)
	}

	return nil
}

// MarketSymbol resolves the market-facing symbol for the configured instrument
// (e.g. "NIFTY BANK" -> "BANKNIFTY").
func (s *StrategySettings) MarketSymbol() string {
	if mapped, ok := s.InstrumentMap[s.Instrument]; ok {
		return mapped
	}

	return s.Instrument
}

// Quantity computes the order quantity for a leg: leg lots times the global
// multiplier times the instrument lot size.
func (s *StrategySettings) Quantity(legLots int) int {
	return legLots * s.Lots * s.LotSizes[s.Instrument]
}
