package engine_v1

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/trendlab/trendfollow/internal/broker"
	"github.com/trendlab/trendfollow/internal/config"
	"github.com/trendlab/trendfollow/internal/engine"
	"github.com/trendlab/trendfollow/internal/logger"
	"github.com/trendlab/trendfollow/internal/statestore"
	"github.com/trendlab/trendfollow/internal/types"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// fakeDataSource is an in-memory market.DataSource for engine tests.
type fakeDataSource struct {
	mu          sync.Mutex
	spot        map[string]float64
	spotAtCalls int
	latest      map[int64]float64
	optionAt    map[int64]float64
	expiries    []string
	strikes     map[string][]types.StrikeQuote
	tokens      map[string]int64
	// tokenStrikes records every strike passed to TokenForStrike.
	tokenStrikes []float64
	ranges       map[int64]types.HighLow
}

func newFakeDataSource() *fakeDataSource {
	return &fakeDataSource{
		mu:           sync.Mutex{},
		spot:         make(map[string]float64),
		spotAtCalls:  0,
		latest:       make(map[int64]float64),
		optionAt:     make(map[int64]float64),
		expiries:     nil,
		strikes:      make(map[string][]types.StrikeQuote),
		tokens:       make(map[string]int64),
		tokenStrikes: nil,
		ranges:       make(map[int64]types.HighLow),
	}
}

func strikeListKey(expiry string, optionType types.OptionType) string {
	return expiry + "|" + string(optionType)
}

func tokenKey(instrument, expiry string, strike float64, optionType types.OptionType) string {
	return fmt.Sprintf("%s|%s|%.0f|%s", instrument, expiry, strike, optionType)
}

func (f *fakeDataSource) LatestSpotPrice(instrument string) (optional.Option[float64], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if price, ok := f.spot[instrument]; ok {
		return optional.Some(price), nil
	}

	return optional.None[float64](), nil
}

func (f *fakeDataSource) SpotPriceAt(instrument string, _ time.Time) (optional.Option[float64], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.spotAtCalls++

	if price, ok := f.spot[instrument]; ok {
		return optional.Some(price), nil
	}

	return optional.None[float64](), nil
}

func (f *fakeDataSource) LatestOptionPrice(token int64) (optional.Option[float64], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if price, ok := f.latest[token]; ok {
		return optional.Some(price), nil
	}

	return optional.None[float64](), nil
}

func (f *fakeDataSource) OptionPriceAt(token int64, _ time.Time) (optional.Option[float64], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if price, ok := f.optionAt[token]; ok {
		return optional.Some(price), nil
	}

	return optional.None[float64](), nil
}

func (f *fakeDataSource) ActiveExpiries(_ string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.expiries, nil
}

func (f *fakeDataSource) AvailableStrikesAt(_, expiry string, optionType types.OptionType, _ time.Time) ([]types.StrikeQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.strikes[strikeListKey(expiry, optionType)], nil
}

func (f *fakeDataSource) TokenForStrike(instrument string, strike float64, optionType types.OptionType, expiry string) (optional.Option[int64], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.tokenStrikes = append(f.tokenStrikes, strike)

	if token, ok := f.tokens[tokenKey(instrument, expiry, strike, optionType)]; ok {
		return optional.Some(token), nil
	}

	return optional.None[int64](), nil
}

func (f *fakeDataSource) RangeHighLow(token int64, _, _ time.Time) (optional.Option[types.HighLow], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if highLow, ok := f.ranges[token]; ok {
		return optional.Some(highLow), nil
	}

	return optional.None[types.HighLow](), nil
}

func (f *fakeDataSource) Close() error {
	return nil
}

func (f *fakeDataSource) setLatest(token int64, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest[token] = price
}

// fakeGateway records placed orders and can be configured to delay or fail.
type fakeGateway struct {
	mu     sync.Mutex
	orders []broker.Order
	err    error
	delay  time.Duration
}

func (g *fakeGateway) PlaceOrder(ctx context.Context, order broker.Order) (string, error) {
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.err != nil {
		return "", g.err
	}

	g.orders = append(g.orders, order)

	return fmt.Sprintf("ORD-%d", len(g.orders)), nil
}

func (g *fakeGateway) Positions(_ context.Context) ([]broker.Position, error) {
	return nil, nil
}

func (g *fakeGateway) orderCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.orders)
}

// tradingDay returns the fixed test date at the given clock time.
func tradingDay(t *testing.T, clock string) time.Time {
	t.Helper()

	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		t.Fatalf("bad clock %q: %v", clock, err)
	}

	return time.Date(2026, 1, 20, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
}

func testSettings() types.StrategySettings {
	return types.StrategySettings{
		Instrument:    "NIFTY BANK",
		StrikeStep:    100,
		Lots:          1,
		LotSizes:      map[string]int{"NIFTY BANK": 35},
		PaperTrading:  true,
		BufferMinutes: 5,
		TimeRange: types.TimeRange{
			Start:          "09:40",
			End:            "10:00",
			CheckCondition: "09:20",
			StrategyExit:   "15:15",
		},
		StrategyParameters: types.StrategyParameters{
			GapCheckWindowMinutes:  5,
			ExitCheckWindowMinutes: 5,
			DefaultBufferMinutes:   5,
			DefaultStrikeStep:      100,
		},
		InstrumentMap: map[string]string{"NIFTY BANK": "BANKNIFTY"},
		Legs: map[string]types.LegSettings{
			"leg_ce_1": {
				Lots:                 1,
				PercentageOfStraddle: 10,
				ExpiryType:           types.ExpiryCurrent,
				Action:               types.DirectionSell,
				SLPercentage:         20,
				EntryTriggerPct:      10,
				ReentryTriggerPct:    10,
			},
			"leg_pe_1": {
				Lots:                 1,
				PercentageOfStraddle: 10,
				ExpiryType:           types.ExpiryCurrent,
				Action:               types.DirectionSell,
				SLPercentage:         20,
				EntryTriggerPct:      10,
				ReentryTriggerPct:    10,
			},
		},
	}
}

func newTestEngine(t *testing.T, data *fakeDataSource, gateway broker.Gateway) (*StrategyEngineV1, *fakeClock) {
	t.Helper()

	dir := t.TempDir()
	log := logger.NewNopLogger()

	configStore := config.NewStore(filepath.Join(dir, "config.json"), log)
	stateStore := statestore.NewFileStore(filepath.Join(dir, "state.json"), log)

	eng := NewStrategyEngineV1(engine.Config{}, configStore, data, gateway, stateStore, log)

	clock := &fakeClock{mu: sync.Mutex{}, now: tradingDay(t, "09:40")}
	eng.clock = clock
	eng.executor.clock = clock

	return eng, clock
}
