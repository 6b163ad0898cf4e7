package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"voicelines/pkg/domain"
)

// Client wraps the MongoDB client and the characters collection
type Client struct {
	mongoClient *mongo.Client
	database    *mongo.Database
	collection  *mongo.Collection
}

// characterDoc is the stored form of a character.
type characterDoc struct {
	Hero      string        `bson:"hero"`
	Lines     []domain.Line `bson:"lines"`
	Position  int           `bson:"position"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

// NewClient creates a new database client
func NewClient(connectionString, databaseName, collectionName string) *Client {
	clientOptions := options.Client().ApplyURI(connectionString)
	mongoClient, err := mongo.Connect(context.Background(), clientOptions)
	if err != nil {
		// Return client with nil - error will be caught during Connect()
		return &Client{}
	}

	database := mongoClient.Database(databaseName)
	collection := database.Collection(collectionName)

	return &Client{
		mongoClient: mongoClient,
		database:    database,
		collection:  collection,
	}
}

// Connect establishes connection to MongoDB
func (c *Client) Connect(ctx context.Context) error {
	if c.mongoClient == nil {
		return fmt.Errorf("mongo client not initialized")
	}
	return c.mongoClient.Ping(ctx, nil)
}

// Close closes the MongoDB connection
func (c *Client) Close(ctx context.Context) error {
	if c.mongoClient == nil {
		return nil
	}
	return c.mongoClient.Disconnect(ctx)
}

// SaveDataset upserts every character keyed by hero name and removes
// characters that are no longer part of the dataset.
func (c *Client) SaveDataset(ctx context.Context, ds *domain.Dataset) error {
	if ds.Len() == 0 {
		return ErrEmptyDataset
	}
	if c.collection == nil {
		return fmt.Errorf("collection not initialized")
	}

	now := time.Now().UTC()
	names := make([]string, 0, ds.Len())
	models := make([]mongo.WriteModel, 0, ds.Len())
	for i, char := range ds.Characters() {
		names = append(names, char.Hero)
		doc := characterDoc{Hero: char.Hero, Lines: char.Lines, Position: i, UpdatedAt: now}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"hero": char.Hero}).
			SetUpdate(bson.M{"$set": doc}).
			SetUpsert(true))
	}

	if len(models) > 0 {
		if _, err := c.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
			return fmt.Errorf("failed to upsert characters: %w", err)
		}
	}

	if _, err := c.collection.DeleteMany(ctx, bson.M{"hero": bson.M{"$nin": names}}); err != nil {
		return fmt.Errorf("failed to prune characters: %w", err)
	}
	return nil
}

// LoadDataset reads every stored character.
func (c *Client) LoadDataset(ctx context.Context) (*domain.Dataset, error) {
	if c.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}

	cursor, err := c.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query characters: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []characterDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	records := make([]domain.Character, 0, len(docs))
	for _, d := range docs {
		records = append(records, domain.Character{Hero: d.Hero, Lines: d.Lines})
	}
	ds, _ := domain.NewDataset(records)
	return ds, nil
}
