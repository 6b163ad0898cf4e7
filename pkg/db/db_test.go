package db

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicelines/pkg/domain"
)

func TestIntegration_MongoPublisher(t *testing.T) {
	uri := os.Getenv("VOICELINES_TEST_MONGO_URI")
	if testing.Short() || uri == "" {
		t.Skip("Skipping integration test (set VOICELINES_TEST_MONGO_URI)")
	}

	ctx := context.Background()
	client := NewClient(uri, "voicelines_test", "characters_"+uuid.NewString())
	require.NoError(t, client.Connect(ctx))
	defer func() {
		_ = client.collection.Drop(ctx)
		_ = client.Close(ctx)
	}()

	first, _ := domain.NewDataset([]domain.Character{
		{Hero: "Zeus", Lines: []domain.Line{{Audio: "/z1", Text: "Thunder"}}},
		{Hero: "Bane", Lines: []domain.Line{{Audio: "/b1", Text: "Nightmare"}}},
		{Hero: "Axe", Lines: []domain.Line{{Audio: "/a1", Text: "Axe is ready!"}}},
	})
	require.NoError(t, client.SaveDataset(ctx, first))

	loaded, err := client.LoadDataset(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Records(), loaded.Records())

	// Axe is updated in place, Bane is pruned, Lina is inserted.
	second, _ := domain.NewDataset([]domain.Character{
		{Hero: "Axe", Lines: []domain.Line{{Audio: "/a1", Text: "Axe is ready!"}, {Audio: "/a2", Text: "Let's get this over with."}}},
		{Hero: "Lina", Lines: []domain.Line{{Audio: "/l1", Text: "Fire!"}}},
		{Hero: "Zeus", Lines: []domain.Line{{Audio: "/z1", Text: "Thunder"}}},
	})
	require.NoError(t, client.SaveDataset(ctx, second))

	count, err := client.collection.CountDocuments(ctx, map[string]any{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, count, "upserts do not duplicate heroes")

	loaded, err = client.LoadDataset(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.Records(), loaded.Records())

	require.ErrorIs(t, client.SaveDataset(ctx, &domain.Dataset{}), ErrEmptyDataset)
	loaded, err = client.LoadDataset(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Len())
}

func TestMongoClient_NotConnected(t *testing.T) {
	c := &Client{}
	require.Error(t, c.Connect(context.Background()))
	_, err := c.LoadDataset(context.Background())
	require.Error(t, err)
	assert.NoError(t, c.Close(context.Background()))
}
