// Package journal keeps the history of finished bakes.
package journal

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/logger"
	"github.com/hammamikhairi/levain/internal/storage"
)

// Store is the persistence the journal needs.
type Store interface {
	SaveHistory(ctx context.Context, logs []domain.BakeLog) error
	LoadHistory(ctx context.Context) []domain.BakeLog
}

// Option configures the journal.
type Option func(*Journal)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) {
		j.now = now
	}
}

// WithIDs overrides id generation. Used by tests.
func WithIDs(next func() string) Option {
	return func(j *Journal) {
		j.newID = next
	}
}

// Journal owns the BakeLog collection. It survives process resets and is
// only changed by Finalize, Delete and Import. Safe for concurrent use.
type Journal struct {
	mu    sync.Mutex
	logs  []domain.BakeLog
	store Store
	log   *logger.Logger
	now   func() time.Time
	newID func() string
}

// New creates a journal and loads the saved history.
func New(ctx context.Context, store Store, log *logger.Logger, opts ...Option) *Journal {
	j := &Journal{
		store: store,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(j)
	}
	j.logs = store.LoadHistory(ctx)
	log.Debug("journal loaded: %d bakes", len(j.logs))
	return j
}

// Finalize records a finished bake from the current process. The total
// duration is the sum of the completed steps; the rating is clamped to
// 1..5.
func (j *Journal) Finalize(ctx context.Context, state domain.State, rating int, notes, image string) (domain.BakeLog, error) {
	total := 0
	for _, s := range state.Steps {
		if s.Status == domain.StepCompleted {
			total += s.DurationMin
		}
	}

	entry := domain.BakeLog{
		ID:               j.newID(),
		Date:             j.now(),
		Rating:           min(max(rating, domain.MinRating), domain.MaxRating),
		FlourWeight:      state.FlourWeight,
		Hydration:        state.Hydration,
		Notes:            notes,
		DurationTotalMin: total,
		Image:            image,
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.commit(ctx, append([]domain.BakeLog{entry}, j.logs...)); err != nil {
		return entry, err
	}
	j.log.Info("bake %s logged: %d★, %dg at %.0f%%", entry.ID, entry.Rating, entry.FlourWeight, entry.Hydration)
	return entry, nil
}

// Delete removes the bake with the given id.
func (j *Journal) Delete(ctx context.Context, id string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	i := slices.IndexFunc(j.logs, func(b domain.BakeLog) bool { return b.ID == id })
	if i < 0 {
		return fmt.Errorf("bake %q: %w", id, domain.ErrNotFound)
	}
	return j.commit(ctx, slices.Delete(slices.Clone(j.logs), i, i+1))
}

// List returns the bakes, newest first.
func (j *Journal) List() []domain.BakeLog {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := slices.Clone(j.logs)
	slices.SortStableFunc(out, func(a, b domain.BakeLog) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// Len returns the number of bakes.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.logs)
}

// Export returns the full history as a portable document and its
// suggested filename.
func (j *Journal) Export() ([]byte, string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := storage.ExportHistory(j.logs)
	if err != nil {
		return nil, "", err
	}
	return data, storage.ExportFilename(j.now()), nil
}

// Import replaces the whole history with the bakes in doc. A document that
// is not a list of records is rejected and the history is left as it was.
func (j *Journal) Import(ctx context.Context, doc []byte) error {
	logs, err := storage.DecodeHistory(doc)
	if err != nil {
		j.log.Warn("import rejected: %v", err)
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.commit(ctx, logs); err != nil {
		return err
	}
	j.log.Info("imported %d bakes", len(logs))
	return nil
}

// commit saves logs and only then makes them the journal's history, so a
// failed save leaves the previous history in place.
func (j *Journal) commit(ctx context.Context, logs []domain.BakeLog) error {
	if err := j.store.SaveHistory(ctx, logs); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	j.logs = logs
	return nil
}
