package db

import (
	"context"
	"database/sql"
	"errors"

	"voicelines/pkg/domain"
)

// ErrEmptyDataset is returned by publishers asked to replace their content
// with a dataset that has no characters.
var ErrEmptyDataset = errors.New("refusing to publish an empty dataset")

// DBProvider is an interface for database clients that provide access to a sql.DB handle.
// This allows both PostgresClient and SupabaseClient to be used interchangeably.
type DBProvider interface {
	DB() *sql.DB
}

// DatasetSaver persists a built dataset.
type DatasetSaver interface {
	SaveDataset(ctx context.Context, ds *domain.Dataset) error
}

// DatasetLoader reads a dataset back.
type DatasetLoader interface {
	LoadDataset(ctx context.Context) (*domain.Dataset, error)
}
