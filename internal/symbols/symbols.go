// Package symbols parses and composes NFO option trading symbols of the form
// {NAME}{YY}{MMM}{STRIKE}{CE|PE}, e.g. BANKNIFTY26JAN54000CE.
package symbols

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/trendlab/trendfollow/internal/types"
)

var symbolPattern = regexp.MustCompile(`^([A-Z]+)(\d{2})([A-Z]{3})(\d+)([CP]E)$`)

// Parsed is the decomposition of a trading symbol.
type Parsed struct {
	Name       string
	Year       string
	Month      string
	Strike     float64
	OptionType types.OptionType
	// Expiry is the YYMMM label, e.g. "26JAN".
	Expiry string
}

// Parse decomposes a trading symbol. The second return value is false when the
// symbol does not match the NFO option format.
func Parse(symbol string) (Parsed, bool) {
	match := symbolPattern.FindStringSubmatch(symbol)
	if match == nil {
		return Parsed{}, false
	}

	strike, err := strconv.ParseFloat(match[4], 64)
	if err != nil {
		return Parsed{}, false
	}

	return Parsed{
		Name:       match[1],
		Year:       match[2],
		Month:      match[3],
		Strike:     strike,
		OptionType: types.OptionType(match[5]),
		Expiry:     match[2] + match[3],
	}, true
}

// Compose builds the trading symbol for an option contract. Integral strikes
// are rendered without a decimal point.
func Compose(instrument, expiry string, strike float64, optionType types.OptionType) string {
	return instrument + expiry + strconv.FormatFloat(strike, 'f', -1, 64) + string(optionType)
}

// ExpiryTime converts a YYMMM expiry label to a sortable time. Labels that do
// not parse sort last.
func ExpiryTime(expiry string) time.Time {
	if len(expiry) != 5 {
		return maxTime()
	}

	// "26JAN" -> "26Jan" so the stdlib layout matches.
	normalized := expiry[:2] + expiry[2:3] + strings.ToLower(expiry[3:])

	parsed, err := time.Parse("06Jan", normalized)
	if err != nil {
		return maxTime()
	}

	return parsed
}

// SortExpiries orders expiry labels chronologically in place.
func SortExpiries(expiries []string) {
	sort.SliceStable(expiries, func(i, j int) bool {
		return ExpiryTime(expiries[i]).Before(ExpiryTime(expiries[j]))
	})
}

func maxTime() time.Time {
	return time.Unix(1<<62, 0)
}
