package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicelines/pkg/domain"
)

func TestFileStore_RoundTrip(t *testing.T) {
	records := []domain.Character{
		{Hero: "Zeus", Lines: []domain.Line{
			{Audio: "https://static.test/z2.mp3", Text: "Second by scrape order"},
			{Audio: "/z1.mp3", Text: "First by name, still second here"},
		}},
		{Hero: "Axe", Lines: []domain.Line{{Audio: "/a.mp3", Text: "Axe is ready!"}}},
	}
	ds, _ := domain.NewDataset(records)

	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "voicelines.json"))
	require.NoError(t, store.SaveDataset(context.Background(), ds))

	loaded, err := store.LoadDataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ds.Records(), loaded.Records())

	zeus, ok := loaded.Lookup("Zeus")
	require.True(t, ok)
	assert.Equal(t, records[0].Lines, zeus.Lines)
}

func TestFileStore_PersistedShape(t *testing.T) {
	ds, _ := domain.NewDataset([]domain.Character{
		{Hero: "Axe", Lines: []domain.Line{{Audio: "/a.mp3", Text: "Axe is ready!"}}},
	})
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, NewFileStore(path).SaveDataset(context.Background(), ds))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"hero":"Axe","lines":[{"audio":"/a.mp3","text":"Axe is ready!"}]}]`, string(raw))
}

func TestFileStore_Missing(t *testing.T) {
	_, err := NewFileStore(filepath.Join(t.TempDir(), "nope.json")).LoadDataset(context.Background())
	require.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path).LoadDataset(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDatasetNotFound)
}
