// Package market provides point-in-time and as-of price queries over the tick
// store that the streaming ingester keeps filled during market hours.
package market

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/trendlab/trendfollow/internal/types"
)

// Freshness thresholds for live price queries. Ticks older than these are
// treated as missing: trading on a stale price is worse than not trading.
const (
	SpotFreshness   = 10 * time.Minute
	OptionFreshness = 20 * time.Minute
)

// StrikeLookback is how far behind an as-of timestamp the strike scan reaches
// when listing contracts valid at that time.
const StrikeLookback = 15 * time.Minute

// DataSource answers the price and contract questions the strategy asks.
//
// "Latest" queries enforce the freshness thresholds above and return None for
// stale or missing data. "At" queries are historical: they return the newest
// tick at or before the given timestamp with no freshness bound.
type DataSource interface {
	// LatestSpotPrice returns the current spot price for the instrument.
	LatestSpotPrice(instrument string) (optional.Option[float64], error)
	// SpotPriceAt returns the spot price as of the given timestamp.
	SpotPriceAt(instrument string, ts time.Time) (optional.Option[float64], error)
	// LatestOptionPrice returns the current premium for the option token.
	LatestOptionPrice(token int64) (optional.Option[float64], error)
	// OptionPriceAt returns the option premium as of the given timestamp.
	OptionPriceAt(token int64, ts time.Time) (optional.Option[float64], error)
	// ActiveExpiries returns the instrument's expiry labels seen in the last
	// day, sorted chronologically.
	ActiveExpiries(instrument string) ([]string, error)
	// AvailableStrikesAt lists the contracts of the given option type that
	// traded in the lookback window ending at ts.
	AvailableStrikesAt(instrument, expiry string, optionType types.OptionType, ts time.Time) ([]types.StrikeQuote, error)
	// TokenForStrike resolves the instrument token of a specific contract.
	TokenForStrike(instrument string, strike float64, optionType types.OptionType, expiry string) (optional.Option[int64], error)
	// RangeHighLow returns the high/low of a contract between start and end.
	RangeHighLow(token int64, start, end time.Time) (optional.Option[types.HighLow], error)
	// Close releases the underlying store.
	Close() error
}
