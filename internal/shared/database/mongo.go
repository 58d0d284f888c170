package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/config"
	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	ContentCollection  = "movies"
	SettingsCollection = "settings"
	FeedbackCollection = "feedback"
)

const connectTimeout = 10 * time.Second

// Mongo holds the client and the catalog database.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect dials MongoDB, verifies the connection and ensures indexes exist.
func Connect(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, oops.With("context", "connecting to mongodb").Wrap(err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, oops.With("context", "pinging mongodb").Wrap(err)
	}

	m := &Mongo{Client: client, DB: client.Database(cfg.DatabaseName)}
	if err := m.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	slog.Info("Connected to MongoDB", "database", cfg.DatabaseName)
	return m, nil
}

func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.DB.Collection(name)
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// Ping reports whether the server is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, nil)
}

func (m *Mongo) ensureIndexes(ctx context.Context) error {
	// One record per (tmdb_id, type) makes concurrent upserts converge.
	content := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "tmdb_id", Value: 1}, {Key: "type", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"tmdb_id": bson.M{"$exists": true}}),
		},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "poster_badge", Value: 1}}},
		{Keys: bson.D{{Key: "genres", Value: 1}}},
	}
	if _, err := m.Collection(ContentCollection).Indexes().CreateMany(ctx, content); err != nil {
		return oops.With("collection", ContentCollection).Wrap(err)
	}

	feedback := mongo.IndexModel{Keys: bson.D{{Key: "timestamp", Value: -1}}}
	if _, err := m.Collection(FeedbackCollection).Indexes().CreateOne(ctx, feedback); err != nil {
		return oops.With("collection", FeedbackCollection).Wrap(err)
	}
	return nil
}
