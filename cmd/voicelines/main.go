package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"voicelines/pkg/cli"
	"voicelines/pkg/config"
	"voicelines/pkg/db"
	"voicelines/pkg/logger"
	"voicelines/pkg/playback"
	"voicelines/pkg/quiz"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to config file (default ./config/config.yaml)")
		dataset    = flag.String("dataset", "", "Dataset path (overrides dataset.path)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dataset != "" {
		cfg.Dataset.Path = *dataset
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ds, err := db.NewFileStore(cfg.Dataset.Path).LoadDataset(ctx)
	if err != nil {
		log.Error("failed to load dataset", zap.String("path", cfg.Dataset.Path), zap.Error(err))
		fmt.Fprintln(os.Stderr, "Failed to load voice lines.")
		os.Exit(1)
	}

	var items map[string]bool
	if cfg.Quiz.ItemsPath != "" {
		items, err = quiz.LoadItems(cfg.Quiz.ItemsPath)
		if err != nil {
			log.Fatal("failed to load item list", zap.Error(err))
		}
	}

	appCfg := cli.Config{
		Dataset:  ds,
		Backend:  playback.NewExecBackend(cfg.Player.PlayerCommand()),
		BaseHost: cfg.Wiki.BaseHost,
		In:       os.Stdin,
		Out:      os.Stdout,
		Log:      log,
	}
	index, err := quiz.NewIndex(ds, quiz.NewValidator(items))
	if err != nil {
		log.Warn("quiz disabled", zap.Error(err))
		appCfg.QuizErr = err
	} else {
		log.Debug("quiz index built", zap.Int("characters", index.Characters()), zap.Int("lines", index.Lines()))
		appCfg.Selector = quiz.NewSelector(index, nil, cfg.Wiki.BaseHost)
	}

	if err := cli.New(ctx, appCfg).Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("app stopped", zap.Error(err))
	}
}
