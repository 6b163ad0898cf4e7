package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize bounds concurrent requests against the wiki.
const DefaultBatchSize = 5

// Manager runs tasks in fixed-size batches: every task of a batch runs
// concurrently and the next batch starts only after the whole batch returned.
type Manager struct {
	batchSize int
	log       *zap.Logger
}

// NewManager creates a new batch manager
func NewManager(batchSize int, log *zap.Logger) *Manager {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{batchSize: batchSize, log: log.Named("worker")}
}

// BatchSize returns the configured batch size.
func (m *Manager) BatchSize() int {
	return m.batchSize
}

// Stats summarises a run.
type Stats struct {
	Succeeded int
	Failed    int
	Empty     int
}

// ProcessTitles runs task over titles and returns the kept results in title order.
// A nil result with a nil error means "nothing to keep". A failing task is
// logged and skipped; only context cancellation stops the run.
func ProcessTitles[T any](ctx context.Context, m *Manager, titles []string, task func(ctx context.Context, title string) (*T, error)) ([]T, Stats, error) {
	var stats Stats
	results := make([]*T, len(titles))
	batches := (len(titles) + m.batchSize - 1) / m.batchSize

	for start := 0; start < len(titles); start += m.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, stats, fmt.Errorf("batch processing cancelled: %w", err)
		}

		end := min(start+m.batchSize, len(titles))
		m.log.Info("processing batch",
			zap.Int("batch", start/m.batchSize+1),
			zap.Int("of", batches))

		// Each task owns results[i] and errs[i-start]; no locking needed.
		errs := make([]error, end-start)
		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				res, err := task(ctx, titles[i])
				if err != nil {
					errs[i-start] = err
					return nil
				}
				results[i] = res
				return nil
			})
		}
		_ = g.Wait()

		for i, err := range errs {
			title := titles[start+i]
			switch {
			case err != nil:
				stats.Failed++
				m.log.Warn("failed to process title", zap.String("title", title), zap.Error(err))
			case results[start+i] == nil:
				stats.Empty++
			default:
				stats.Succeeded++
			}
		}
	}

	out := make([]T, 0, stats.Succeeded)
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}

	m.log.Info("batch processing completed",
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("failed", stats.Failed),
		zap.Int("empty", stats.Empty),
		zap.Int("total", len(titles)))

	return out, stats, nil
}
