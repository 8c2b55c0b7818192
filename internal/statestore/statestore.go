// Package statestore persists the strategy's runtime state so a process
// restart mid-day resumes from the last durable snapshot.
package statestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/trendlab/trendfollow/internal/logger"
	"github.com/trendlab/trendfollow/internal/types"
	"github.com/trendlab/trendfollow/internal/version"
	"github.com/trendlab/trendfollow/pkg/errors"
	"go.uber.org/zap"
)

// Store is the durable state boundary of the engine.
type Store interface {
	// Load returns the last persisted state, or None when no snapshot exists.
	Load() (optional.Option[*types.RuntimeState], error)
	// Save persists the state. Writes are atomic.
	Save(state *types.RuntimeState) error
}

// snapshot is the on-disk envelope around RuntimeState.
type snapshot struct {
	EngineVersion string              `json:"engine_version"`
	SavedAt       time.Time           `json:"saved_at"`
	State         *types.RuntimeState `json:"state"`
}

// FileStore persists RuntimeState as a JSON file.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *logger.Logger
}

// NewFileStore creates a FileStore writing to the given path.
func NewFileStore(path string, log *logger.Logger) *FileStore {
	return &FileStore{
		path:   path,
		mu:     sync.Mutex{},
		logger: log,
	}
}

// Load implements Store.
func (s *FileStore) Load() (optional.Option[*types.RuntimeState], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return optional.None[*types.RuntimeState](), nil
		}

		return optional.None[*types.RuntimeState](), errors.Wrap(errors.ErrCodeStateLoadFailed, "failed to read state file", err)
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return optional.None[*types.RuntimeState](), errors.Wrap(errors.ErrCodeStateLoadFailed, "failed to parse state file", err)
	}

	if snap.State == nil {
		return optional.None[*types.RuntimeState](), errors.New(errors.ErrCodeStateLoadFailed, "state file has no state record")
	}

	if err := version.CheckStateCompatibility(version.GetVersion(), snap.EngineVersion); err != nil {
		return optional.None[*types.RuntimeState](), errors.Wrap(errors.ErrCodeStateLoadFailed, "incompatible state snapshot", err)
	}

	if snap.State.Legs == nil {
		snap.State.Legs = make(map[string]*types.LegState)
	}

	s.logger.Info("Runtime state loaded",
		zap.String("path", s.path),
		zap.String("phase", string(snap.State.Phase)),
		zap.Time("saved_at", snap.SavedAt),
	)

	return optional.Some(snap.State), nil
}

// Save implements Store.
func (s *FileStore) Save(state *types.RuntimeState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		EngineVersion: version.GetVersion(),
		SavedAt:       time.Now(),
		State:         state,
	}

	raw, err := json.MarshalIndent(snap, "", "    ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStateSaveFailed, "failed to encode state", err)
	}

	dir := filepath.Dir(s.path)

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStateSaveFailed, "failed to create temp state file", err)
	}

	tmpPath := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)

		return errors.Wrap(errors.ErrCodeStateSaveFailed, "failed to write state", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)

		return errors.Wrap(errors.ErrCodeStateSaveFailed, "failed to close temp state file", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)

		return errors.Wrap(errors.ErrCodeStateSaveFailed, "failed to replace state file", err)
	}

	return nil
}
