package repository

import (
	"context"

	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/settings/domain"
	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Mongo struct {
	col *mongo.Collection
}

func NewMongo(col *mongo.Collection) *Mongo {
	return &Mongo{col: col}
}

// Get returns empty settings when none were saved yet.
func (m *Mongo) Get(ctx context.Context) (*domain.AdSettings, error) {
	var s domain.AdSettings
	err := m.col.FindOne(ctx, bson.M{}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return &domain.AdSettings{}, nil
	}
	if err != nil {
		return nil, oops.With("collection", m.col.Name()).Wrap(err)
	}
	return &s, nil
}

// Save overwrites the singleton in place.
func (m *Mongo) Save(ctx context.Context, s *domain.AdSettings) error {
	_, err := m.col.UpdateOne(ctx, bson.M{}, bson.M{"$set": s}, options.Update().SetUpsert(true))
	return oops.With("collection", m.col.Name()).Wrap(err)
}
