// Package server exposes the strategy's control surface over HTTP: health,
// configuration, run control, live status and a websocket status stream.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/trendlab/trendfollow/internal/broker"
	"github.com/trendlab/trendfollow/internal/config"
	"github.com/trendlab/trendfollow/internal/engine"
	"github.com/trendlab/trendfollow/internal/logger"
	"github.com/trendlab/trendfollow/internal/market"
	"github.com/trendlab/trendfollow/internal/types"
	"github.com/trendlab/trendfollow/internal/version"
	"github.com/trendlab/trendfollow/pkg/errors"
	"go.uber.org/zap"
)

// statusPushInterval is how often the websocket stream pushes a fresh status.
const statusPushInterval = time.Second

// Server is the HTTP control surface. It reads engine state through snapshots
// and never mutates it directly; all control goes through the config store.
type Server struct {
	httpServer  *http.Server
	engine      engine.StrategyEngine
	configStore *config.Store
	data        market.DataSource
	gateway     broker.Gateway
	logger      *logger.Logger
	upgrader    websocket.Upgrader
}

// NewServer creates the control server. The gateway may be nil when only paper
// trading is configured; the positions endpoint then reports unavailable.
func NewServer(
	addr string,
	eng engine.StrategyEngine,
	configStore *config.Store,
	data market.DataSource,
	gateway broker.Gateway,
	log *logger.Logger,
) *Server {
	server := &Server{
		httpServer:  nil,
		engine:      eng,
		configStore: configStore,
		data:        data,
		gateway:     gateway,
		logger:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", server.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/config", server.handleGetConfig).Methods(http.MethodGet)
	router.HandleFunc("/config", server.handleUpdateConfig).Methods(http.MethodPost)
	router.HandleFunc("/status", server.handleStatus).Methods(http.MethodGet)
	router.HandleFunc("/control/start", server.handleStart).Methods(http.MethodPost)
	router.HandleFunc("/control/stop", server.handleStop).Methods(http.MethodPost)
	router.HandleFunc("/spot_price", server.handleSpotPrice).Methods(http.MethodGet)
	router.HandleFunc("/positions", server.handlePositions).Methods(http.MethodGet)
	router.HandleFunc("/ws", server.handleWebSocket).Methods(http.MethodGet)

	server.httpServer = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return server
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errs := make(chan error, 1)

	go func() {
		s.logger.Info("Control server listening", zap.String("addr", s.httpServer.Addr))
		errs <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return s.httpServer.Shutdown(shutdownCtx)
	}
}

type statusResponse struct {
	Config        types.Config        `json:"config"`
	StrategyState *types.RuntimeState `json:"strategy_state"`
	Version       string              `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.GetVersion(),
	})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, _ *http.Request) {
	cfg, err := s.configStore.Load()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg types.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config payload", err))
		return
	}

	if err := s.configStore.Update(cfg); err != nil {
		status := http.StatusBadRequest
		if errors.HasCode(err, errors.ErrCodeConfigLocked) {
			status = http.StatusConflict
		}

		s.writeError(w, status, err)

		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"message": "config updated"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	cfg, err := s.configStore.Load()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, s.buildStatus(cfg))
}

func (s *Server) buildStatus(cfg types.Config) statusResponse {
	return statusResponse{
		Config:        cfg,
		StrategyState: s.engine.Snapshot(),
		Version:       version.GetVersion(),
	}
}

func (s *Server) handleStart(w http.ResponseWriter, _ *http.Request) {
	if err := s.configStore.SetRunning(true); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.logger.Info("Strategy started via control surface")
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "strategy started"})
}

func (s *Server) handleStop(w http.ResponseWriter, _ *http.Request) {
	if err := s.configStore.SetRunning(false); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.logger.Info("Strategy stopped via control surface")
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "strategy stopped"})
}

func (s *Server) handleSpotPrice(w http.ResponseWriter, r *http.Request) {
	instrument := r.URL.Query().Get("instrument")
	if instrument == "" {
		cfg, err := s.configStore.Load()
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}

		instrument = cfg.StrategySettings.Instrument
	}

	priceOpt, err := s.data.LatestSpotPrice(instrument)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	price, takeErr := priceOpt.Take()
	if takeErr != nil {
		s.writeError(w, http.StatusNotFound,
			errors.Newf(errors.ErrCodeSpotUnavailable, "no fresh spot price for %s", instrument))

		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"instrument": instrument,
		"spot_price": price,
	})
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	if s.gateway == nil {
		s.writeError(w, http.StatusServiceUnavailable,
			errors.New(errors.ErrCodePositionNotFound, "no broker gateway configured"))

		return
	}

	positions, err := s.gateway.Positions(r.Context())
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"positions": positions})
}

// handleWebSocket streams the status payload every second until the client
// disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}

	defer conn.Close()

	ticker := time.NewTicker(statusPushInterval)
	defer ticker.Stop()

	for {
		cfg, err := s.configStore.Load()
		if err != nil {
			s.logger.Error("WebSocket status load failed", zap.Error(err))
			return
		}

		if err := conn.WriteJSON(s.buildStatus(cfg)); err != nil {
			return
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]any{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
