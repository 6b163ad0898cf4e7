package replication

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"voicelines/pkg/db"
)

// ErrEmptySource is returned when the source holds no characters.
// Publishing an empty dataset would wipe every target.
var ErrEmptySource = errors.New("source dataset is empty")

// Target is a named dataset destination.
type Target struct {
	Name  string
	Saver db.DatasetSaver
}

// Config wires the replication dependencies.
type Config struct {
	Source  db.DatasetLoader
	Targets []Target
	Log     *zap.Logger
}

// Replicator copies a whole dataset from one store into every target.
type Replicator struct {
	source  db.DatasetLoader
	targets []Target
	log     *zap.Logger
}

func NewReplicator(cfg Config) (*Replicator, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("source is required")
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("at least one target is required")
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Replicator{source: cfg.Source, targets: cfg.Targets, log: log.Named("replication")}, nil
}

// Replicate loads the source dataset and writes it to all targets in parallel.
// The first target failure cancels the rest.
func (r *Replicator) Replicate(ctx context.Context) error {
	ds, err := r.source.LoadDataset(ctx)
	if err != nil {
		return fmt.Errorf("load source: %w", err)
	}
	if ds.Len() == 0 {
		return ErrEmptySource
	}

	r.log.Info("loaded source dataset",
		zap.Int("characters", ds.Len()),
		zap.Int("lines", ds.TotalLines()))

	g, gctx := errgroup.WithContext(ctx)
	for _, target := range r.targets {
		g.Go(func() error {
			if err := target.Saver.SaveDataset(gctx, ds); err != nil {
				return fmt.Errorf("replicate to %s: %w", target.Name, err)
			}
			r.log.Info("replicated dataset", zap.String("target", target.Name))
			return nil
		})
	}
	return g.Wait()
}
