package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/guttosm/stockdash/config"
	"github.com/guttosm/stockdash/internal/domain/models"
	"github.com/guttosm/stockdash/internal/logger"
	"github.com/guttosm/stockdash/internal/marketdata"
	"github.com/guttosm/stockdash/internal/snapshot"
	"github.com/guttosm/stockdash/internal/storage"
)

// ErrNoDatabase is returned when a snapshot is requested against the fixtures backend.
var ErrNoDatabase = errors.New("snapshot requires STATIC_STORE=postgres or sqlite")

// SnapshotJob copies live series for the configured symbols into the static store.
type SnapshotJob struct {
	fetcher marketdata.Fetcher
	store   snapshot.Store
	opts    snapshot.Options
}

// NewSnapshotJob opens the static store and returns a job bound to it,
// plus a cleanup that closes the database.
func NewSnapshotJob(cfg config.Config) (*SnapshotJob, func(), error) {
	period, err := models.ParsePeriod(cfg.Snapshot.Period)
	if err != nil {
		return nil, nil, fmt.Errorf("SNAPSHOT_PERIOD: %w", err)
	}

	db, dialect, err := storeOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize static store: %w", err)
	}
	if db == nil {
		return nil, nil, ErrNoDatabase
	}

	job := &SnapshotJob{
		fetcher: newFetcher(cfg),
		store:   storage.NewBarsRepository(db, dialect),
		opts: snapshot.Options{
			Symbols:  cfg.Snapshot.Symbols,
			Period:   period,
			Parallel: cfg.Snapshot.Parallel,
			MaxAge:   cfg.Snapshot.MaxAge,
		},
	}
	return job, func() { _ = db.Close() }, nil
}

// Run executes one snapshot. force ignores SNAPSHOT_MAX_AGE.
func (j *SnapshotJob) Run(ctx context.Context, force bool) (*snapshot.Result, error) {
	opts := j.opts
	opts.Force = force

	res, err := snapshot.Run(ctx, j.fetcher, j.store, opts)
	if err != nil {
		return nil, err
	}
	logger.Component("snapshot").Info().
		Strs("stored", res.Stored).
		Strs("skipped", res.Skipped).
		Strs("empty", res.Empty).
		Msg("snapshot completed")
	return res, nil
}

// Scheduled adapts Run to the scheduler's job signature.
func (j *SnapshotJob) Scheduled(ctx context.Context) error {
	_, err := j.Run(ctx, false)
	return err
}
