package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"voicelines/pkg/config"
	"voicelines/pkg/db"
	"voicelines/pkg/logger"
	"voicelines/pkg/replication"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to config file (default ./config/config.yaml)")
		mongoURI   = flag.String("mongo-uri", "", "MongoDB connection string (overrides mongo.uri)")
		pgDSN      = flag.String("pg-dsn", "", "Postgres DSN (overrides postgres.dsn)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *mongoURI != "" {
		cfg.Mongo.URI = *mongoURI
	}
	if *pgDSN != "" {
		cfg.Postgres.DSN = *pgDSN
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	mongoClient := db.NewClient(cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
	if err := mongoClient.Connect(ctx); err != nil {
		log.Fatal("failed to connect to mongo", zap.Error(err))
	}
	defer mongoClient.Close(ctx)

	pgClient := db.NewPostgresClient(db.PostgresConfig{
		DSN:          cfg.Postgres.DSN,
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
		ConnMaxLife:  cfg.Postgres.ConnMaxLifetime,
	})
	if err := pgClient.Connect(ctx); err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pgClient.Close()

	r, err := replication.NewReplicator(replication.Config{
		Source:  mongoClient,
		Targets: []replication.Target{{Name: "postgres", Saver: pgClient.Store()}},
		Log:     log,
	})
	if err != nil {
		log.Fatal("failed to create replicator", zap.Error(err))
	}

	start := time.Now()
	if err := r.Replicate(ctx); err != nil {
		log.Fatal("replication failed", zap.Error(err))
	}
	log.Info("replication done", zap.Duration("duration", time.Since(start)))
}
