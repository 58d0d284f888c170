package repository

import (
	"context"

	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/feedback/domain"
)

// Repository defines the interface for feedback persistence
type Repository interface {
	Create(ctx context.Context, f *domain.Feedback) error
	List(ctx context.Context) ([]*domain.Feedback, error)
	Delete(ctx context.Context, id string) error
}
