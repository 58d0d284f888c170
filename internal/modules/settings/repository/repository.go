package repository

import (
	"context"

	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/settings/domain"
)

// Repository stores the singleton ad settings document.
type Repository interface {
	Get(ctx context.Context) (*domain.AdSettings, error)
	Save(ctx context.Context, s *domain.AdSettings) error
}
