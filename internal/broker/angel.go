package broker

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/pquerna/otp/totp"
	"github.com/trendlab/trendfollow/internal/logger"
	"github.com/trendlab/trendfollow/pkg/errors"
	"go.uber.org/zap"
)

const defaultAngelBaseURL = "https://apiconnect.angelbroking.com"

// AngelConfig contains the SmartAPI credentials.
type AngelConfig struct {
	APIKey     string `json:"api_key" validate:"required"`
	ClientCode string `json:"client_code" validate:"required"`
	PIN        string `json:"pin" validate:"required"`
	TOTPSecret string `json:"totp_secret" validate:"required"`
	// BaseURL overrides the SmartAPI endpoint, used by tests.
	BaseURL string `json:"base_url"`
}

// Validate validates the AngelConfig struct.
func (c *AngelConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid angel config", err)
	}

	return nil
}

// AngelGateway implements Gateway against the Angel One SmartAPI REST
// endpoints. Sessions are established lazily and refreshed when the API
// reports them expired.
type AngelGateway struct {
	config AngelConfig
	client *resty.Client
	logger *logger.Logger

	mu       sync.Mutex
	jwtToken string
}

// NewAngelGateway creates an AngelGateway. No network call is made until the
// first order or position request.
func NewAngelGateway(config AngelConfig, log *logger.Logger) (*AngelGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultAngelBaseURL
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("X-UserType", "USER").
		SetHeader("X-SourceID", "WEB").
		SetHeader("X-PrivateKey", config.APIKey)

	return &AngelGateway{
		config:   config,
		client:   client,
		logger:   log,
		mu:       sync.Mutex{},
		jwtToken: "",
	}, nil
}

type angelEnvelope struct {
	Status    bool   `json:"status"`
	Message   string `json:"message"`
	ErrorCode string `json:"errorcode"`
}

type loginResponse struct {
	angelEnvelope
	Data struct {
		JWTToken     string `json:"jwtToken"`
		RefreshToken string `json:"refreshToken"`
		FeedToken    string `json:"feedToken"`
	} `json:"data"`
}

type placeOrderResponse struct {
	angelEnvelope
	Data struct {
		Script  string `json:"script"`
		OrderID string `json:"orderid"`
	} `json:"data"`
}

type positionsResponse struct {
	angelEnvelope
	Data []Position `json:"data"`
}

// Login establishes a SmartAPI session using the configured credentials and a
// fresh TOTP.
func (g *AngelGateway) Login(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.login(ctx)
}

func (g *AngelGateway) login(ctx context.Context) error {
	code, err := totp.GenerateCode(g.config.TOTPSecret, time.Now())
	if err != nil {
		return errors.Wrap(errors.ErrCodeBrokerLoginFailed, "failed to generate totp", err)
	}

	var result loginResponse

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"clientcode": g.config.ClientCode,
			"password":   g.config.PIN,
			"totp":       code,
		}).
		SetResult(&result).
		Post("/rest/auth/angelbroking/user/v1/loginByPassword")
	if err != nil {
		return errors.Wrap(errors.ErrCodeBrokerLoginFailed, "login request failed", err)
	}

	if resp.IsError() || !result.Status {
		return errors.Newf(errors.ErrCodeBrokerLoginFailed, "login rejected: %s", result.Message)
	}

	g.jwtToken = result.Data.JWTToken
	g.logger.Info("Broker session established", zap.String("client_code", g.config.ClientCode))

	return nil
}

func (g *AngelGateway) sessionToken(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.jwtToken == "" {
		if err := g.login(ctx); err != nil {
			return "", err
		}
	}

	return g.jwtToken, nil
}

func (g *AngelGateway) dropSession() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.jwtToken = ""
}

// PlaceOrder implements Gateway. Orders are NFO market orders with DAY
// duration and CARRYFORWARD product type.
func (g *AngelGateway) PlaceOrder(ctx context.Context, order Order) (string, error) {
	if err := order.Validate(); err != nil {
		return "", err
	}

	token, err := g.sessionToken(ctx)
	if err != nil {
		return "", err
	}

	var result placeOrderResponse

	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(map[string]string{
			"variety":         "NORMAL",
			"tradingsymbol":   order.Symbol,
			"symboltoken":     strconv.FormatInt(order.Token, 10),
			"transactiontype": string(order.Side),
			"exchange":        "NFO",
			"ordertype":       "MARKET",
			"producttype":     "CARRYFORWARD",
			"duration":        "DAY",
			"quantity":        strconv.Itoa(order.Quantity),
		}).
		SetResult(&result).
		Post("/rest/secure/angelbroking/order/v1/placeOrder")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeOrderFailed, "place order request failed", err)
	}

	if resp.StatusCode() == 401 {
		// Session expired, force a fresh login on the next call.
		g.dropSession()

		return "", errors.New(errors.ErrCodeBrokerSessionLost, "session expired")
	}

	if resp.IsError() || !result.Status {
		return "", errors.Newf(errors.ErrCodeBrokerRejected, "order rejected: %s", result.Message)
	}

	g.logger.Info("Order placed",
		zap.String("symbol", order.Symbol),
		zap.String("side", string(order.Side)),
		zap.Int("quantity", order.Quantity),
		zap.String("order_id", result.Data.OrderID),
	)

	return result.Data.OrderID, nil
}

// Positions implements Gateway.
func (g *AngelGateway) Positions(ctx context.Context) ([]Position, error) {
	token, err := g.sessionToken(ctx)
	if err != nil {
		return nil, err
	}

	var result positionsResponse

	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&result).
		Get("/rest/secure/angelbroking/order/v1/getPosition")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePositionNotFound, "positions request failed", err)
	}

	if resp.StatusCode() == 401 {
		g.dropSession()

		return nil, errors.New(errors.ErrCodeBrokerSessionLost, "session expired")
	}

	if resp.IsError() || !result.Status {
		return nil, errors.Newf(errors.ErrCodePositionNotFound, "positions rejected: %s", result.Message)
	}

	return result.Data, nil
}
