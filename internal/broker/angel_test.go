package broker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/trendlab/trendfollow/internal/logger"
	"github.com/trendlab/trendfollow/internal/types"
	"github.com/trendlab/trendfollow/pkg/errors"
)

// testTOTPSecret is a valid base32 secret for TOTP generation in tests.
const testTOTPSecret = "JBSWY3DPEHPK3PXP"

type AngelGatewayTestSuite struct {
	suite.Suite
	server      *httptest.Server
	gateway     *AngelGateway
	loginCalls  atomic.Int64
	orderCalls  atomic.Int64
	rejectOrder bool
	expireOnce  atomic.Bool
}

func TestAngelGatewaySuite(t *testing.T) {
	suite.Run(t, new(AngelGatewayTestSuite))
}

func (suite *AngelGatewayTestSuite) SetupTest() {
	suite.loginCalls.Store(0)
	suite.orderCalls.Store(0)
	suite.rejectOrder = false
	suite.expireOnce.Store(false)

	mux := http.NewServeMux()
	mux.HandleFunc("/rest/auth/angelbroking/user/v1/loginByPassword", func(w http.ResponseWriter, r *http.Request) {
		suite.loginCalls.Add(1)

		var body map[string]string
		suite.Require().NoError(json.NewDecoder(r.Body).Decode(&body))
		suite.Equal("C12345", body["clientcode"])
		suite.NotEmpty(body["totp"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "SUCCESS",
			"data":    map[string]string{"jwtToken": "jwt-token-1"},
		})
	})
	mux.HandleFunc("/rest/secure/angelbroking/order/v1/placeOrder", func(w http.ResponseWriter, r *http.Request) {
		suite.orderCalls.Add(1)

		if suite.expireOnce.CompareAndSwap(true, false) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		suite.True(strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))

		var body map[string]string
		suite.Require().NoError(json.NewDecoder(r.Body).Decode(&body))
		suite.Equal("NFO", body["exchange"])
		suite.Equal("MARKET", body["ordertype"])
		suite.Equal("CARRYFORWARD", body["producttype"])
		suite.Equal("DAY", body["duration"])

		w.Header().Set("Content-Type", "application/json")

		if suite.rejectOrder {
			json.NewEncoder(w).Encode(map[string]any{
				"status":  false,
				"message": "insufficient margin",
			})

			return
		}

		json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "SUCCESS",
			"data":    map[string]string{"orderid": "230120000000001"},
		})
	})
	mux.HandleFunc("/rest/secure/angelbroking/order/v1/getPosition", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data": []map[string]string{
				{"tradingsymbol": "BANKNIFTY26JAN59100CE", "netqty": "35", "avgnetprice": "210.5", "pnl": "120.75"},
			},
		})
	})

	suite.server = httptest.NewServer(mux)

	gateway, err := NewAngelGateway(AngelConfig{
		APIKey:     "api-key",
		ClientCode: "C12345",
		PIN:        "1234",
		TOTPSecret: testTOTPSecret,
		BaseURL:    suite.server.URL,
	}, logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.gateway = gateway
}

func (suite *AngelGatewayTestSuite) TearDownTest() {
	if suite.server != nil {
		suite.server.Close()
	}
}

func (suite *AngelGatewayTestSuite) validOrder() Order {
	return Order{
		Symbol:   "BANKNIFTY26JAN59100CE",
		Token:    43125,
		Side:     types.DirectionBuy,
		Quantity: 35,
	}
}

func (suite *AngelGatewayTestSuite) TestPlaceOrderLogsInLazily() {
	orderID, err := suite.gateway.PlaceOrder(context.Background(), suite.validOrder())
	suite.Require().NoError(err)
	suite.Equal("230120000000001", orderID)
	suite.Equal(int64(1), suite.loginCalls.Load())

	// Second order reuses the session.
	_, err = suite.gateway.PlaceOrder(context.Background(), suite.validOrder())
	suite.Require().NoError(err)
	suite.Equal(int64(1), suite.loginCalls.Load())
}

func (suite *AngelGatewayTestSuite) TestPlaceOrderRejected() {
	suite.rejectOrder = true

	_, err := suite.gateway.PlaceOrder(context.Background(), suite.validOrder())
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeBrokerRejected))
}

func (suite *AngelGatewayTestSuite) TestPlaceOrderSessionExpiry() {
	// Establish a session first.
	_, err := suite.gateway.PlaceOrder(context.Background(), suite.validOrder())
	suite.Require().NoError(err)

	suite.expireOnce.Store(true)

	_, err = suite.gateway.PlaceOrder(context.Background(), suite.validOrder())
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeBrokerSessionLost))

	// The dropped session forces a fresh login on the next call.
	_, err = suite.gateway.PlaceOrder(context.Background(), suite.validOrder())
	suite.Require().NoError(err)
	suite.Equal(int64(2), suite.loginCalls.Load())
}

func (suite *AngelGatewayTestSuite) TestPlaceOrderInvalid() {
	order := suite.validOrder()
	order.Quantity = 0

	_, err := suite.gateway.PlaceOrder(context.Background(), order)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidOrder))
	// Validation failures never reach the wire.
	suite.Equal(int64(0), suite.orderCalls.Load())
}

func (suite *AngelGatewayTestSuite) TestPositions() {
	positions, err := suite.gateway.Positions(context.Background())
	suite.Require().NoError(err)
	suite.Require().Len(positions, 1)
	suite.Equal("BANKNIFTY26JAN59100CE", positions[0].Symbol)
	suite.Equal(35, positions[0].NetQuantity)
	suite.InDelta(210.5, positions[0].AveragePrice, 1e-9)
}

func TestAngelConfigValidate(t *testing.T) {
	config := AngelConfig{APIKey: "k", ClientCode: "c", PIN: "p", TOTPSecret: "s"}
	if err := config.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	config.APIKey = ""
	if err := config.Validate(); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
