package repository

import (
	"context"

	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/feedback/domain"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/errors"
	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Mongo struct {
	col *mongo.Collection
}

func NewMongo(col *mongo.Collection) *Mongo {
	return &Mongo{col: col}
}

func (m *Mongo) Create(ctx context.Context, f *domain.Feedback) error {
	res, err := m.col.InsertOne(ctx, f)
	if err != nil {
		return oops.With("category", f.Category).Wrap(err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		f.ID = id
	}
	return nil
}

// List returns all feedback, newest first.
func (m *Mongo) List(ctx context.Context) ([]*domain.Feedback, error) {
	cursor, err := m.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, oops.Wrap(err)
	}
	defer cursor.Close(ctx)

	var items []*domain.Feedback
	if err := cursor.All(ctx, &items); err != nil {
		return nil, oops.Wrap(err)
	}
	return items, nil
}

func (m *Mongo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return oops.With("feedback_id", id).Wrap(errors.ErrInvalidID)
	}
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return oops.With("feedback_id", id).Wrap(err)
	}
	if res.DeletedCount == 0 {
		return oops.With("feedback_id", id).Wrap(errors.ErrFeedbackNotFound)
	}
	return nil
}
