package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
	"github.com/trendlab/trendfollow/internal/config"
	"github.com/trendlab/trendfollow/internal/logger"
	"github.com/trendlab/trendfollow/internal/types"
)

type stubEngine struct {
	state *types.RuntimeState
}

func (e *stubEngine) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (e *stubEngine) Snapshot() *types.RuntimeState {
	return e.state.Clone()
}

// stubData answers spot queries from a fixed map and nothing else.
type stubData struct {
	spot map[string]float64
}

func (d *stubData) LatestSpotPrice(instrument string) (optional.Option[float64], error) {
	if price, ok := d.spot[instrument]; ok {
		return optional.Some(price), nil
	}

	return optional.None[float64](), nil
}

func (d *stubData) SpotPriceAt(string, time.Time) (optional.Option[float64], error) {
	return optional.None[float64](), nil
}

func (d *stubData) LatestOptionPrice(int64) (optional.Option[float64], error) {
	return optional.None[float64](), nil
}

func (d *stubData) OptionPriceAt(int64, time.Time) (optional.Option[float64], error) {
	return optional.None[float64](), nil
}

func (d *stubData) ActiveExpiries(string) ([]string, error) {
	return nil, nil
}

func (d *stubData) AvailableStrikesAt(string, string, types.OptionType, time.Time) ([]types.StrikeQuote, error) {
	return nil, nil
}

func (d *stubData) TokenForStrike(string, float64, types.OptionType, string) (optional.Option[int64], error) {
	return optional.None[int64](), nil
}

func (d *stubData) RangeHighLow(int64, time.Time, time.Time) (optional.Option[types.HighLow], error) {
	return optional.None[types.HighLow](), nil
}

func (d *stubData) Close() error {
	return nil
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
		},
	}
}

type ServerTestSuite struct {
	suite.Suite
	configStore *config.Store
	server      *Server
	ts          *httptest.Server
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (suite *ServerTestSuite) SetupTest() {
	log := logger.NewNopLogger()
	dir := suite.T().TempDir()

	suite.configStore = config.NewStore(filepath.Join(dir, "config.json"), log)
	suite.Require().NoError(suite.configStore.Update(types.Config{
		IsRunning:        false,
		StrategySettings: testSettings(),
	}))

	state := types.NewRuntimeState()
	state.Phase = types.PhaseMonitoringRange
	state.Instrument = "NIFTY BANK"
	state.Legs["leg_ce_1"] = types.NewPlaceholderLeg(1)

	data := &stubData{spot: map[string]float64{"NIFTY BANK": 59137}}

	suite.server = NewServer("127.0.0.1:0", &stubEngine{state: state}, suite.configStore, data, nil, log)
	suite.ts = httptest.NewServer(suite.server.Handler())
}

func (suite *ServerTestSuite) TearDownTest() {
	if suite.ts != nil {
		suite.ts.Close()
	}
}

func (suite *ServerTestSuite) getJSON(path string, target any) int {
	resp, err := http.Get(suite.ts.URL + path)
	suite.Require().NoError(err)

	defer resp.Body.Close()

	if target != nil {
		suite.Require().NoError(json.NewDecoder(resp.Body).Decode(target))
	}

	return resp.StatusCode
}

func (suite *ServerTestSuite) postJSON(path string, payload any) int {
	var body bytes.Buffer
	if payload != nil {
		suite.Require().NoError(json.NewEncoder(&body).Encode(payload))
	}

	resp, err := http.Post(suite.ts.URL+path, "application/json", &body)
	suite.Require().NoError(err)

	defer resp.Body.Close()

	return resp.StatusCode
}

func (suite *ServerTestSuite) TestHealth() {
	var body map[string]string

	suite.Equal(http.StatusOK, suite.getJSON("/health", &body))
	suite.Equal("ok", body["status"])
	suite.NotEmpty(body["version"])
}

func (suite *ServerTestSuite) TestGetConfig() {
	var cfg types.Config

	suite.Equal(http.StatusOK, suite.getJSON("/config", &cfg))
	suite.Equal("NIFTY BANK", cfg.StrategySettings.Instrument)
	suite.False(cfg.IsRunning)
}

func (suite *ServerTestSuite) TestUpdateConfig() {
	updated := types.Config{IsRunning: false, StrategySettings: testSettings()}
	updated.StrategySettings.Lots = 2

	suite.Equal(http.StatusOK, suite.postJSON("/config", updated))

	var cfg types.Config
	suite.getJSON("/config", &cfg)
	suite.Equal(2, cfg.StrategySettings.Lots)
}

func (suite *ServerTestSuite) TestUpdateConfigRejectedWhileRunning() {
	suite.Require().NoError(suite.configStore.SetRunning(true))

	updated := types.Config{IsRunning: true, StrategySettings: testSettings()}
	suite.Equal(http.StatusConflict, suite.postJSON("/config", updated))
}

func (suite *ServerTestSuite) TestUpdateConfigInvalidPayload() {
	resp, err := http.Post(suite.ts.URL+"/config", "application/json", strings.NewReader("{not json"))
	suite.Require().NoError(err)
	resp.Body.Close()

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (suite *ServerTestSuite) TestUpdateConfigInvalidSettings() {
	updated := types.Config{IsRunning: false, StrategySettings: testSettings()}
	updated.StrategySettings.Lots = 0

	suite.Equal(http.StatusBadRequest, suite.postJSON("/config", updated))
}

func (suite *ServerTestSuite) TestStatus() {
	var status statusResponse

	suite.Equal(http.StatusOK, suite.getJSON("/status", &status))
	suite.Equal(types.PhaseMonitoringRange, status.StrategyState.Phase)
	suite.Equal("NIFTY BANK", status.Config.StrategySettings.Instrument)
	suite.NotEmpty(status.Version)
}

func (suite *ServerTestSuite) TestControlStartStop() {
	suite.Equal(http.StatusOK, suite.postJSON("/control/start", nil))

	cfg, err := suite.configStore.Load()
	suite.Require().NoError(err)
	suite.True(cfg.IsRunning)

	suite.Equal(http.StatusOK, suite.postJSON("/control/stop", nil))

	cfg, err = suite.configStore.Load()
	suite.Require().NoError(err)
	suite.False(cfg.IsRunning)
}

func (suite *ServerTestSuite) TestSpotPrice() {
	var body map[string]any

	suite.Equal(http.StatusOK, suite.getJSON("/spot_price", &body))
	suite.Equal("NIFTY BANK", body["instrument"])
	suite.InDelta(59137, body["spot_price"].(float64), 1e-9)
}

func (suite *ServerTestSuite) TestSpotPriceUnknownInstrument() {
	suite.Equal(http.StatusNotFound, suite.getJSON("/spot_price?instrument=UNKNOWN", nil))
}

func (suite *ServerTestSuite) TestPositionsWithoutGateway() {
	suite.Equal(http.StatusServiceUnavailable, suite.getJSON("/positions", nil))
}

func (suite *ServerTestSuite) TestWebSocketStream() {
	wsURL := "ws" + strings.TrimPrefix(suite.ts.URL, "http") + "/ws"

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	suite.Require().NoError(err)

	if resp != nil {
		resp.Body.Close()
	}

	defer conn.Close()

	var status statusResponse
	suite.Require().NoError(conn.ReadJSON(&status))
	suite.Equal(types.PhaseMonitoringRange, status.StrategyState.Phase)
}
