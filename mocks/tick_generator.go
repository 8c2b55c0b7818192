package mocks

import (
	"math"
	"math/rand"
	"time"
)

// TickGenerator generates realistic premium tick series for testing and
// benchmarking the strategy against streamed-looking data.
type TickGenerator struct {
	rng *rand.Rand
}

// NewTickGenerator creates a new TickGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewTickGenerator(seed int64) *TickGenerator {
	return &TickGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// TickSeriesConfig configures how a tick series is generated.
type TickSeriesConfig struct {
	// Symbol is the trading symbol (e.g., "BANKNIFTY26JAN59100CE")
	Symbol string
	// Token is the instrument token recorded on every tick
	Token int64
	// StartTime is the beginning of the series
	StartTime time.Time
	// Interval is the duration between ticks
	Interval time.Duration
	// Count is the number of ticks to generate
	Count int
	// InitialPrice is the starting premium
	InitialPrice float64
	// Volatility controls tick-to-tick movement (0.01 = 1% per tick)
	Volatility float64
	// Trend is the drift factor across the whole series
	Trend float64
}

// DefaultTickSeriesConfig returns a sensible default configuration.
func DefaultTickSeriesConfig() TickSeriesConfig {
	return TickSeriesConfig{
		Symbol:       "TEST26JAN100CE",
		Token:        1,
		StartTime:    time.Date(2026, 1, 20, 9, 15, 0, 0, time.UTC),
		Interval:     2 * time.Second,
		Count:        1000,
		InitialPrice: 200.0,
		Volatility:   0.002,
		Trend:        0.0,
	}
}

// Tick is one generated last-traded-price observation.
type Tick struct {
	Symbol string
	Token  int64
	Price  float64
	Time   time.Time
}

// Series creates a tick series following a geometric Brownian motion model.
func (g *TickGenerator) Series(config TickSeriesConfig) []Tick {
	ticks := make([]Tick, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		// Box-Muller transform for a normally distributed step
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)
		next := currentPrice * (1 + config.Volatility*z + drift)

		// Premiums never go negative
		if next <= 0 {
			next = currentPrice * 0.99
		}

		ticks[i] = Tick{
			Symbol: config.Symbol,
			Token:  config.Token,
			Price:  math.Round(next*100) / 100,
			Time:   currentTime,
		}

		currentPrice = next
		currentTime = currentTime.Add(config.Interval)
	}

	return ticks
}

// HighLow returns the observed band of a series, matching what the range
// finalizer would compute over the same window.
func HighLow(ticks []Tick) (float64, float64) {
	if len(ticks) == 0 {
		return 0, 0
	}

	high := ticks[0].Price
	low := ticks[0].Price

	for _, tick := range ticks[1:] {
		high = math.Max(high, tick.Price)
		low = math.Min(low, tick.Price)
	}

	return high, low
}
