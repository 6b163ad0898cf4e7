package builder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voicelines/pkg/content"
	"voicelines/pkg/domain"
	"voicelines/pkg/filter"
	"voicelines/pkg/worker"
)

// DefaultMarker identifies voice-line pages among the category members.
const DefaultMarker = "Responses"

// ErrEnumeration marks a failed category listing; the build cannot continue.
var ErrEnumeration = errors.New("failed to enumerate voice-line pages")

// ErrEmptyDataset is returned when a run ends with no characters.
// Saving such a result would wipe the stored dataset.
var ErrEmptyDataset = errors.New("build produced no characters")

// CategoryLister enumerates the titles of a category.
type CategoryLister interface {
	CategoryMembers(ctx context.Context, category string) ([]string, error)
}

// Config holds the builder dependencies.
type Config struct {
	Lister    CategoryLister
	Pages     worker.PageSource
	Extractor content.Extractor
	Manager   *worker.Manager
	Category  string
	Marker    string
	Log       *zap.Logger

	// Only restricts runs to these titles when set.
	Only []string
}

// Service builds the voice-line dataset from the wiki.
type Service struct {
	lister   CategoryLister
	worker   *worker.Worker
	manager  *worker.Manager
	category string
	marker   string
	only     []string
	log      *zap.Logger
}

// Result describes one builder run.
type Result struct {
	RunID   uuid.UUID
	BuiltAt time.Time
	Dataset *domain.Dataset
	Stats   worker.Stats
	Titles  int
}

// NewService creates a new dataset builder
func NewService(cfg Config) *Service {
	if cfg.Marker == "" {
		cfg.Marker = DefaultMarker
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.Manager == nil {
		cfg.Manager = worker.NewManager(worker.DefaultBatchSize, cfg.Log)
	}
	return &Service{
		lister:   cfg.Lister,
		worker:   worker.NewWorker(cfg.Pages, cfg.Extractor, cfg.Marker),
		manager:  cfg.Manager,
		category: cfg.Category,
		marker:   cfg.Marker,
		only:     cfg.Only,
		log:      cfg.Log.Named("builder"),
	}
}

// Build enumerates every voice-line page and extracts its lines.
// Enumeration failures are fatal; page failures only drop that page.
func (s *Service) Build(ctx context.Context) (*Result, error) {
	s.log.Info("fetching category members", zap.String("category", s.category))
	members, err := s.lister.CategoryMembers(ctx, s.category)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnumeration, err)
	}

	titles, err := s.voiceLineTitles(ctx, members)
	if err != nil {
		return nil, err
	}
	s.log.Info("starting extraction",
		zap.Int("members", len(members)),
		zap.Int("pages", len(titles)))

	chars, stats, err := worker.ProcessTitles(ctx, s.manager, titles, s.worker.ProcessTitle)
	if err != nil {
		return nil, err
	}

	ds := s.dataset(chars)
	if ds.Len() == 0 {
		return nil, fmt.Errorf("%w: %d pages, %d failed", ErrEmptyDataset, len(titles), stats.Failed)
	}
	s.log.Info("extraction complete",
		zap.Int("characters", ds.Len()),
		zap.Int("lines", ds.TotalLines()))

	return &Result{
		RunID:   uuid.New(),
		BuiltAt: time.Now().UTC(),
		Dataset: ds,
		Stats:   stats,
		Titles:  len(titles),
	}, nil
}

type pageOutcome struct {
	hero string
	char *domain.Character
}

// Refresh re-extracts only the changed voice-line pages and merges them over
// existing. A changed page that now yields no lines removes its character;
// a page that fails keeps its previous lines.
func (s *Service) Refresh(ctx context.Context, existing *domain.Dataset, changed []string) (*Result, error) {
	titles, err := s.voiceLineTitles(ctx, changed)
	if err != nil {
		return nil, err
	}
	s.log.Info("refreshing changed pages", zap.Int("pages", len(titles)))

	outcomes, stats, err := worker.ProcessTitles(ctx, s.manager, titles, func(ctx context.Context, title string) (*pageOutcome, error) {
		char, err := s.worker.ProcessTitle(ctx, title)
		if err != nil {
			return nil, err
		}
		return &pageOutcome{hero: content.HeroName(title, s.marker), char: char}, nil
	})
	if err != nil {
		return nil, err
	}

	replaced := make(map[string]*domain.Character, len(outcomes))
	for _, o := range outcomes {
		replaced[o.hero] = o.char
	}

	records := make([]domain.Character, 0, existing.Len()+len(outcomes))
	for _, c := range existing.Characters() {
		if next, ok := replaced[c.Hero]; ok {
			if next != nil {
				records = append(records, *next)
			}
			delete(replaced, c.Hero)
			continue
		}
		records = append(records, c)
	}
	for _, o := range outcomes {
		if next, ok := replaced[o.hero]; ok && next != nil {
			records = append(records, *next)
		}
	}

	ds := s.dataset(records)
	if existing.Len() > 0 && ds.Len() == 0 {
		return nil, fmt.Errorf("%w: refresh removed all %d characters", ErrEmptyDataset, existing.Len())
	}
	s.log.Info("refresh complete",
		zap.Int("characters", ds.Len()),
		zap.Int("lines", ds.TotalLines()))

	return &Result{
		RunID:   uuid.New(),
		BuiltAt: time.Now().UTC(),
		Dataset: ds,
		Stats:   stats,
		Titles:  len(titles),
	}, nil
}

func (s *Service) voiceLineTitles(ctx context.Context, titles []string) ([]string, error) {
	filters := []filter.Filter{filter.NewContainsFilter(s.marker)}
	if len(s.only) > 0 {
		filters = append(filters, filter.NewTitleSetFilter(s.only))
	}
	filtered, err := filter.FilterTitles(ctx, titles, filters...)
	if err != nil {
		return nil, fmt.Errorf("failed to filter titles: %w", err)
	}
	return filtered, nil
}

func (s *Service) dataset(chars []domain.Character) *domain.Dataset {
	ds, dropped := domain.NewDataset(chars)
	for _, name := range dropped {
		s.log.Warn("duplicate character dropped", zap.String("hero", name))
	}
	return ds
}
