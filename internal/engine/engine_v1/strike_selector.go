package engine_v1

import (
	"math"
	"time"

	"github.com/moznion/go-optional"
	"github.com/trendlab/trendfollow/internal/types"
	"github.com/trendlab/trendfollow/pkg/errors"
	"go.uber.org/zap"
)

// selectStrikes runs the once-per-day strike selection: it anchors the ATM
// straddle premium at the configured start time and picks, for every leg, the
// contract whose premium is closest to the leg's percentage of that straddle.
// On success the phase advances to MONITORING_RANGE.
func (e *StrategyEngineV1) selectStrikes(settings types.StrategySettings) error {
	now := e.clock.Now()

	// Prices are read as of the start time, not the current tick, so a late
	// process start still anchors on the same reference premiums.
	selectionTime := clockAt(now, settings.TimeRange.Start)
	if selectionTime.After(now) {
		selectionTime = now
	}

	marketSymbol := settings.MarketSymbol()

	spotOpt, err := e.data.SpotPriceAt(settings.Instrument, selectionTime)
	if err != nil {
		return err
	}

	spot, err := spotOpt.Take()
	if err != nil {
		return errors.Newf(errors.ErrCodeSpotUnavailable,
			"no spot price for %s at %s", settings.Instrument, selectionTime.Format("15:04:05"))
	}

	atmStrike := math.Round(spot/settings.StrikeStep) * settings.StrikeStep

	expiries, err := e.data.ActiveExpiries(marketSymbol)
	if err != nil {
		return err
	}

	if len(expiries) == 0 {
		return errors.Newf(errors.ErrCodeNoActiveExpiry, "no active expiries for %s", marketSymbol)
	}

	currentExpiry := expiries[0]

	straddle, err := e.straddlePremium(marketSymbol, atmStrike, currentExpiry, selectionTime)
	if err != nil {
		return err
	}

	e.logger.Info("Reference straddle computed",
		zap.Float64("spot", spot),
		zap.Float64("atm_strike", atmStrike),
		zap.String("expiry", currentExpiry),
		zap.Float64("straddle_premium", straddle),
	)

	selected := make(map[string]*types.LegState)

	for _, legKey := range sortedLegSettingKeys(settings.Legs) {
		legSettings := settings.Legs[legKey]

		optionType, err := types.OptionTypeForLeg(legKey)
		if err != nil {
			return err
		}

		legExpiry := resolveExpiry(expiries, legSettings.ExpiryType)
		targetPremium := straddle * legSettings.PercentageOfStraddle / 100

		quotes, err := e.data.AvailableStrikesAt(marketSymbol, legExpiry, optionType, selectionTime)
		if err != nil {
			return err
		}

		if len(quotes) == 0 {
			e.logger.Warn("No strikes available for leg",
				zap.String("leg", legKey),
				zap.String("expiry", legExpiry),
				zap.String("option_type", string(optionType)),
			)

			continue
		}

		best := closestToTarget(quotes, targetPremium)

		selected[legKey] = &types.LegState{
			Strike:            best.Strike,
			Token:             best.Token,
			Symbol:            best.Symbol,
			Expiry:            legExpiry,
			Direction:         legSettings.Action,
			RefPremium:        best.LastPrice,
			Status:            types.LegStatusWaitingRange,
			RangeHigh:         0,
			RangeLow:          0,
			EntryPrice:        0,
			StopLossPrice:     0,
			EntriesCount:      0,
			StopLossPct:       legSettings.SLPercentage,
			EntryTriggerPct:   legSettings.EntryTriggerPct,
			ReentryTriggerPct: legSettings.ReentryTriggerPct,
			Lots:              legSettings.Lots,
			ExitPrice:         optional.None[float64](),
			ExitReason:        optional.None[string](),
		}

		e.logger.Info("Leg selected",
			zap.String("leg", legKey),
			zap.String("symbol", best.Symbol),
			zap.Float64("strike", best.Strike),
			zap.Float64("target_premium", targetPremium),
			zap.Float64("premium", best.LastPrice),
		)
	}

	if len(selected) == 0 {
		return errors.New(errors.ErrCodeSelectionFailed, "no legs could be selected")
	}

	e.mu.Lock()
	for legKey, leg := range selected {
		e.state.Legs[legKey] = leg
	}
	e.state.Instrument = settings.Instrument
	e.state.SelectedExpiry = currentExpiry
	e.state.Phase = types.PhaseMonitoringRange
	e.state.ExitTriggered = false
	e.mu.Unlock()

	e.persist()

	e.logger.Info("Strike selection complete, monitoring range",
		zap.Int("legs", len(selected)),
		zap.String("range_end", settings.TimeRange.End),
	)

	return nil
}

// straddlePremium sums the ATM call and put premiums as of ts.
func (e *StrategyEngineV1) straddlePremium(marketSymbol string, atmStrike float64, expiry string, ts time.Time) (float64, error) {
	var total float64

	for _, optionType := range []types.OptionType{types.OptionTypeCall, types.OptionTypePut} {
		tokenOpt, err := e.data.TokenForStrike(marketSymbol, atmStrike, optionType, expiry)
		if err != nil {
			return 0, err
		}

		token, err := tokenOpt.Take()
		if err != nil {
			return 0, errors.Newf(errors.ErrCodePremiumUnavailable,
				"no %s contract at ATM strike %.0f for %s", optionType, atmStrike, expiry)
		}

		premiumOpt, err := e.data.OptionPriceAt(token, ts)
		if err != nil {
			return 0, err
		}

		premium, err := premiumOpt.Take()
		if err != nil {
			return 0, errors.Newf(errors.ErrCodePremiumUnavailable,
				"no %s premium at ATM strike %.0f for %s", optionType, atmStrike, expiry)
		}

		total += premium
	}

	return total, nil
}

// resolveExpiry maps an expiry preference onto the sorted active expiries.
// "next" falls back to the nearest expiry when only one is active.
func resolveExpiry(expiries []string, preference types.ExpiryPreference) string {
	if preference == types.ExpiryNext && len(expiries) > 1 {
		return expiries[1]
	}

	return expiries[0]
}

// closestToTarget picks the quote whose premium is closest to the target.
// Ties keep the earlier quote in the scan order.
func closestToTarget(quotes []types.StrikeQuote, target float64) types.StrikeQuote {
	best := quotes[0]
	bestDistance := math.Abs(best.LastPrice - target)

	for _, quote := range quotes[1:] {
		distance := math.Abs(quote.LastPrice - target)
		if distance < bestDistance {
			best = quote
			bestDistance = distance
		}
	}

	return best
}
