package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trendlab/trendfollow/internal/types"
)

func TestParse(t *testing.T) {
	parsed, ok := Parse("BANKNIFTY26JAN54000CE")
	assert.True(t, ok)
	assert.Equal(t, "BANKNIFTY", parsed.Name)
	assert.Equal(t, "26JAN", parsed.Expiry)
	assert.InDelta(t, 54000.0, parsed.Strike, 1e-9)
	assert.Equal(t, types.OptionTypeCall, parsed.OptionType)

	parsed, ok = Parse("NIFTY26FEB22500PE")
	assert.True(t, ok)
	assert.Equal(t, "NIFTY", parsed.Name)
	assert.Equal(t, types.OptionTypePut, parsed.OptionType)
}

func TestParseRejectsNonOptionSymbols(t *testing.T) {
	for _, symbol := range []string{
		"BANKNIFTY",
		"banknifty26jan54000ce",
		"BANKNIFTY26JAN54000XX",
		"BANKNIFTY26JANCE",
		"",
	} {
		_, ok := Parse(symbol)
		assert.False(t, ok, "expected %q to be rejected", symbol)
	}
}

func TestCompose(t *testing.T) {
	assert.Equal(t, "BANKNIFTY26JAN54000CE", Compose("BANKNIFTY", "26JAN", 54000, types.OptionTypeCall))
	// Non-integral strikes keep their fraction.
	assert.Equal(t, "NIFTY26FEB22512.5PE", Compose("NIFTY", "26FEB", 22512.5, types.OptionTypePut))
}

func TestComposeParseRoundTrip(t *testing.T) {
	symbol := Compose("BANKNIFTY", "26MAR", 59100, types.OptionTypeCall)
	parsed, ok := Parse(symbol)
	assert.True(t, ok)
	assert.Equal(t, "26MAR", parsed.Expiry)
	assert.InDelta(t, 59100.0, parsed.Strike, 1e-9)
}

func TestSortExpiries(t *testing.T) {
	expiries := []string{"26MAR", "26JAN", "25DEC", "26FEB"}
	SortExpiries(expiries)
	assert.Equal(t, []string{"25DEC", "26JAN", "26FEB", "26MAR"}, expiries)
}

func TestSortExpiriesUnparseableLast(t *testing.T) {
	expiries := []string{"BOGUS", "26JAN"}
	SortExpiries(expiries)
	assert.Equal(t, []string{"26JAN", "BOGUS"}, expiries)
}
