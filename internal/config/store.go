// Package config manages the JSON configuration document shared between the
// strategy engine and its control surface. The engine re-reads it every tick;
// the HTTP API mutates it, except while the run flag is set.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/trendlab/trendfollow/internal/logger"
	"github.com/trendlab/trendfollow/internal/types"
	"github.com/trendlab/trendfollow/pkg/errors"
)

// Store reads and writes the configuration file. All access is serialized so
// the engine's tick reads never observe a partially written document.
type Store struct {
	path   string
	mu     sync.Mutex
	logger *logger.Logger
}

// NewStore creates a Store for the given config file path.
func NewStore(path string, log *logger.Logger) *Store {
	return &Store{
		path:   path,
		mu:     sync.Mutex{},
		logger: log,
	}
}

// Load reads and parses the configuration document.
func (s *Store) Load() (types.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// Settings reads the configuration and returns just the strategy settings.
func (s *Store) Settings() (types.StrategySettings, error) {
	cfg, err := s.Load()
	if err != nil {
		return types.StrategySettings{}, err
	}

	return cfg.StrategySettings, nil
}

// Update replaces the configuration document. It is rejected while the run
// flag is set so a live strategy cannot have its parameters changed mid-day,
// and the incoming settings must validate.
func (s *Store) Update(cfg types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err == nil && current.IsRunning {
		return errors.New(errors.ErrCodeConfigLocked, "cannot update config while strategy is running")
	}

	if err := cfg.StrategySettings.Validate(); err != nil {
		return err
	}

	return s.write(cfg)
}

// SetRunning flips the run flag without touching the rest of the document.
func (s *Store) SetRunning(running bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if err != nil {
		return err
	}

	cfg.IsRunning = running

	return s.write(cfg)
}

func (s *Store) load() (types.Config, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return types.Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to read config file", err)
	}

	var cfg types.Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return types.Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config file", err)
	}

	return cfg, nil
}

// write persists the document atomically: write a temp file in the same
// directory, then rename over the target.
func (s *Store) write(cfg types.Config) error {
	raw, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to encode config", err)
	}

	dir := filepath.Dir(s.path)

	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to create temp config file", err)
	}

	tmpPath := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)

		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to write config", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)

		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to close temp config file", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)

		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to replace config file", err)
	}

	return nil
}
