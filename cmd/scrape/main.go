package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"go.uber.org/zap"

	"voicelines/pkg/builder"
	"voicelines/pkg/config"
	"voicelines/pkg/content"
	"voicelines/pkg/db"
	"voicelines/pkg/httpclient"
	"voicelines/pkg/logger"
	"voicelines/pkg/wiki"
	"voicelines/pkg/worker"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to config file (default ./config/config.yaml)")
		out         = flag.String("out", "", "Dataset output path (overrides dataset.path)")
		batch       = flag.Int("batch", 0, "Pages fetched concurrently per batch (overrides wiki.batch_size)")
		changedOnly = flag.Bool("changed-only", false, "Only re-extract pages changed on the wiki and merge them into the existing dataset")
		since       = flag.Duration("since", 24*time.Hour, "Recent changes window used with -changed-only")
		publish     = flag.String("publish", "", "Comma separated publishers: mongo,postgres,supabase")
		pages       = flag.String("pages", "", "Comma separated page titles to restrict the run to")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *out != "" {
		cfg.Dataset.Path = *out
	}
	if *batch > 0 {
		cfg.Wiki.BatchSize = *batch
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	apiHTTP := httpclient.NewClient(httpclient.APIClient, cfg.Wiki.RequestTimeout)
	wikiClient := wiki.NewClient(cfg.Wiki.APIURL, apiHTTP, log)
	service := builder.NewService(builder.Config{
		Lister:    wikiClient,
		Pages:     wikiClient,
		Extractor: content.NewListItemExtractor(),
		Manager:   worker.NewManager(cfg.Wiki.BatchSize, log),
		Category:  cfg.Wiki.Category,
		Marker:    cfg.Wiki.TitleMarker,
		Log:       log,
		Only:      splitList(*pages),
	})
	store := db.NewFileStore(cfg.Dataset.Path)

	start := time.Now()
	var result *builder.Result
	if *changedOnly {
		result, err = refresh(ctx, cfg, service, store, apiHTTP, *since, log)
	} else {
		result, err = service.Build(ctx)
	}
	if errors.Is(err, builder.ErrEmptyDataset) {
		log.Fatal("build produced no characters, keeping the existing dataset", zap.String("path", store.Path()), zap.Error(err))
	}
	if err != nil {
		log.Fatal("build failed", zap.Error(err))
	}

	if err := store.SaveDataset(ctx, result.Dataset); err != nil {
		log.Fatal("failed to save dataset", zap.Error(err))
	}
	log.Info("dataset written",
		zap.String("run_id", result.RunID.String()),
		zap.String("path", store.Path()),
		zap.Int("pages", result.Titles),
		zap.Int("characters", result.Dataset.Len()),
		zap.Int("lines", result.Dataset.TotalLines()),
		zap.Int("failed", result.Stats.Failed),
		zap.Int("empty", result.Stats.Empty),
		zap.Duration("duration", time.Since(start)))

	if *publish != "" {
		if err := publishAll(ctx, cfg, splitList(*publish), result, log); err != nil {
			log.Fatal("publish failed", zap.Error(err))
		}
	}
}

func refresh(ctx context.Context, cfg *config.Config, service *builder.Service, store *db.FileStore, client *httpclient.HTTPClient, since time.Duration, log *zap.Logger) (*builder.Result, error) {
	existing, err := store.LoadDataset(ctx)
	if errors.Is(err, db.ErrDatasetNotFound) {
		log.Info("no existing dataset, running a full build", zap.String("path", store.Path()))
		return service.Build(ctx)
	}
	if err != nil {
		return nil, err
	}

	feedURL := cfg.Wiki.FeedURL
	if feedURL == "" {
		feedURL = wiki.DefaultFeedURL(cfg.Wiki.APIURL)
	}
	changed, err := wiki.NewRecentChanges(feedURL, client).ChangedTitles(ctx, time.Now().Add(-since))
	if err != nil {
		return nil, fmt.Errorf("recent changes: %w", err)
	}
	log.Info("recent changes", zap.Int("titles", len(changed)), zap.Duration("since", since))
	return service.Refresh(ctx, existing, changed)
}

func publishAll(ctx context.Context, cfg *config.Config, targets []string, result *builder.Result, log *zap.Logger) error {
	for _, target := range targets {
		target = strings.TrimSpace(target)
		var err error
		switch target {
		case "mongo":
			err = publishMongo(ctx, cfg, result)
		case "postgres":
			err = publishPostgres(ctx, cfg, result)
		case "supabase":
			err = publishSupabase(ctx, cfg, result)
		case "":
			continue
		default:
			err = fmt.Errorf("unknown publisher %q", target)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", target, err)
		}
		log.Info("dataset published", zap.String("target", target), zap.String("run_id", result.RunID.String()))
	}
	return nil
}

func publishMongo(ctx context.Context, cfg *config.Config, result *builder.Result) error {
	client := db.NewClient(cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer client.Close(ctx)
	return client.SaveDataset(ctx, result.Dataset)
}

func publishPostgres(ctx context.Context, cfg *config.Config, result *builder.Result) error {
	client := db.NewPostgresClient(postgresConfig(cfg))
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()
	return client.Store().SaveDataset(ctx, result.Dataset)
}

func publishSupabase(ctx context.Context, cfg *config.Config, result *builder.Result) error {
	client := db.NewSupabaseClient(db.SupabaseConfig{
		SupabaseURL: cfg.Supabase.URL,
		SupabaseKey: cfg.Supabase.Key,
		Password:    cfg.Supabase.Password,
	})
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()
	return client.SaveDataset(ctx, result.Dataset)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func postgresConfig(cfg *config.Config) db.PostgresConfig {
	return db.PostgresConfig{
		DSN:          cfg.Postgres.DSN,
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
		ConnMaxLife:  cfg.Postgres.ConnMaxLifetime,
	}
}
