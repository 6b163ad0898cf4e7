package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"voicelines/pkg/domain"
)

var ErrDatasetNotFound = errors.New("dataset file not found")

// FileStore keeps the dataset as a flat JSON array of {hero, lines} records.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// SaveDataset writes the dataset atomically (temp file + rename).
func (s *FileStore) SaveDataset(ctx context.Context, ds *domain.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(ds.Records())
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".voicelines-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close dataset file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to move dataset into place: %w", err)
	}
	return nil
}

// LoadDataset reads the file; duplicate names are reported via the second
// return of domain.NewDataset and silently dropped here. Use LoadRecords for
// the raw content.
func (s *FileStore) LoadDataset(ctx context.Context) (*domain.Dataset, error) {
	records, err := s.LoadRecords(ctx)
	if err != nil {
		return nil, err
	}
	ds, _ := domain.NewDataset(records)
	return ds, nil
}

// LoadRecords reads the raw records in file order.
func (s *FileStore) LoadRecords(ctx context.Context) ([]domain.Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var records []domain.Character
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return records, nil
}
