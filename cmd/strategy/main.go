package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/trendlab/trendfollow/internal/broker"
	"github.com/trendlab/trendfollow/internal/config"
	"github.com/trendlab/trendfollow/internal/engine"
	"github.com/trendlab/trendfollow/internal/engine/engine_v1"
	"github.com/trendlab/trendfollow/internal/logger"
	"github.com/trendlab/trendfollow/internal/market"
	"github.com/trendlab/trendfollow/internal/server"
	"github.com/trendlab/trendfollow/internal/statestore"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// appConfig is the process-level YAML configuration: wiring and timings, as
// opposed to the strategy day-config which lives in the JSON document.
type appConfig struct {
	ListenAddr string             `yaml:"listen_addr"`
	Database   string             `yaml:"database"`
	StateFile  string             `yaml:"state_file"`
	Engine     engine.Config      `yaml:"engine"`
	Broker     broker.AngelConfig `yaml:"broker"`
}

func defaultAppConfig() appConfig {
	return appConfig{
		ListenAddr: ":8080",
		Database:   "ticks.duckdb",
		StateFile:  "strategy_state.json",
		Engine:     engine.Config{},
		Broker:     broker.AngelConfig{},
	}
}

func loadAppConfig(path string) (appConfig, error) {
	cfg := defaultAppConfig()

	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read app config: %w", err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse app config: %w", err)
	}

	return cfg, nil
}

// brokerFromConfig builds the live gateway when credentials are present,
// falling back to environment variables for any missing field. A fully empty
// credential set means paper-only operation and returns nil.
func brokerFromConfig(cfg broker.AngelConfig, log *logger.Logger) (broker.Gateway, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("ANGEL_API_KEY")
	}

	if cfg.ClientCode == "" {
		cfg.ClientCode = os.Getenv("ANGEL_CLIENT_CODE")
	}

	if cfg.PIN == "" {
		cfg.PIN = os.Getenv("ANGEL_PIN")
	}

	if cfg.TOTPSecret == "" {
		cfg.TOTPSecret = os.Getenv("ANGEL_TOTP_SECRET")
	}

	if cfg.APIKey == "" && cfg.ClientCode == "" && cfg.PIN == "" && cfg.TOTPSecret == "" {
		return nil, nil
	}

	return broker.NewAngelGateway(cfg, log)
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	log, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	defer log.Sync() //nolint:errcheck

	appCfg, err := loadAppConfig(cmd.String("app-config"))
	if err != nil {
		return err
	}

	configStore := config.NewStore(cmd.String("config"), log)

	data, err := market.NewDuckDBDataSource(appCfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to open tick store: %w", err)
	}

	defer data.Close()

	gateway, err := brokerFromConfig(appCfg.Broker, log)
	if err != nil {
		return fmt.Errorf("failed to create broker gateway: %w", err)
	}

	if gateway == nil {
		log.Info("No broker credentials configured, live orders are disabled")
	}

	stateStore := statestore.NewFileStore(appCfg.StateFile, log)

	eng := engine_v1.NewStrategyEngineV1(appCfg.Engine, configStore, data, gateway, stateStore, log)
	srv := server.NewServer(appCfg.ListenAddr, eng, configStore, data, gateway, log)

	runCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- eng.Run(runCtx)
	}()

	go func() {
		errs <- srv.Start(runCtx)
	}()

	var firstErr error

	for i := 0; i < 2; i++ {
		err := <-errs
		if err != nil && !stderrors.Is(err, context.Canceled) && !stderrors.Is(err, http.ErrServerClosed) {
			if firstErr == nil {
				firstErr = err
			}

			cancel()
		}
	}

	if firstErr != nil {
		log.Error("Strategy process failed", zap.Error(firstErr))
		return firstErr
	}

	log.Info("Strategy process stopped")

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "strategy",
		Usage: "Run the intraday range-breakout strategy engine and its control API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the strategy day-config JSON document",
				Value:   "config.json",
			},
			&cli.StringFlag{
				Name:    "app-config",
				Aliases: []string{"a"},
				Usage:   "Path to the process YAML config (listen address, database, broker)",
			},
		},
		Action: runAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
