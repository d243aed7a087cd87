package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/logger"
)

// Slot names. The state key carries a schema version so an incompatible
// snapshot layout starts fresh instead of half-loading.
const (
	StateKey   = "levain_app_state_v6"
	HistoryKey = "levain_bake_history"
)

// Compile-time interface check.
var _ domain.StateSaver = (*Snapshots)(nil)

// Snapshots serializes the process state and the bake history into two
// independent slots of a KVStore.
type Snapshots struct {
	kv  domain.KVStore
	log *logger.Logger
}

// NewSnapshots wraps a key-value store.
func NewSnapshots(kv domain.KVStore, log *logger.Logger) *Snapshots {
	return &Snapshots{kv: kv, log: log}
}

// SaveState writes the full state document.
func (s *Snapshots) SaveState(ctx context.Context, state domain.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	return s.kv.Put(ctx, StateKey, data)
}

// LoadState reads the state document. It returns nil when the slot is
// missing, unreadable or holds no steps; the caller starts fresh then.
func (s *Snapshots) LoadState(ctx context.Context) *domain.State {
	data, err := s.kv.Get(ctx, StateKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("reading saved state: %v", err)
		}
		return nil
	}

	var state domain.State
	if err := json.Unmarshal(data, &state); err != nil {
		s.log.Warn("saved state is corrupt, ignoring: %v", err)
		return nil
	}
	if len(state.Steps) == 0 {
		s.log.Warn("saved state has no steps, ignoring")
		return nil
	}
	return &state
}

// ClearState removes the saved state.
func (s *Snapshots) ClearState(ctx context.Context) error {
	return s.kv.Delete(ctx, StateKey)
}

// SaveHistory writes the bake history.
func (s *Snapshots) SaveHistory(ctx context.Context, logs []domain.BakeLog) error {
	data, err := ExportHistory(logs)
	if err != nil {
		return err
	}
	return s.kv.Put(ctx, HistoryKey, data)
}

// LoadHistory reads the bake history. A missing or corrupt slot yields an
// empty history.
func (s *Snapshots) LoadHistory(ctx context.Context) []domain.BakeLog {
	data, err := s.kv.Get(ctx, HistoryKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("reading bake history: %v", err)
		}
		return nil
	}
	logs, err := DecodeHistory(data)
	if err != nil {
		s.log.Warn("bake history is corrupt, ignoring: %v", err)
		return nil
	}
	return logs
}

// ExportHistory encodes the history as a portable JSON array. A nil
// history encodes as an empty array.
func ExportHistory(logs []domain.BakeLog) ([]byte, error) {
	if logs == nil {
		logs = []domain.BakeLog{}
	}
	data, err := json.MarshalIndent(logs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding history: %w", err)
	}
	return data, nil
}

// DecodeHistory parses an exported history document. Anything other than
// a JSON array of records is rejected with ErrInvalidDocument.
func DecodeHistory(data []byte) ([]domain.BakeLog, error) {
	var logs []domain.BakeLog
	if err := json.Unmarshal(data, &logs); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}
	if logs == nil {
		return nil, fmt.Errorf("%w: null document", domain.ErrInvalidDocument)
	}
	return logs, nil
}

// ExportFilename returns the download name for a history export made at t.
func ExportFilename(t time.Time) string {
	return "levain-journal-" + t.Format("2006-01-02") + ".json"
}
