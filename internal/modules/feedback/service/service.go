package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/feedback/domain"
	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/feedback/repository"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/errors"
	"github.com/samber/oops"
)

// Service handles contact form submissions
type Service struct {
	repo repository.Repository
	now  func() time.Time
}

// New creates a new feedback service
func New(repo repository.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ParseCategory accepts enum values as well as form labels like "Problem Report".
// Unknown values fall back to other.
func ParseCategory(s string) domain.FeedbackCategory {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
	if c, err := domain.ParseFeedbackCategory(normalized); err == nil {
		return c
	}
	return domain.FeedbackCategoryOther
}

// Submit stores a new feedback record.
func (s *Service) Submit(ctx context.Context, f *domain.Feedback) error {
	f.ContentTitle = strings.TrimSpace(f.ContentTitle)
	f.Message = strings.TrimSpace(f.Message)
	f.Email = strings.TrimSpace(f.Email)
	f.ReportedContentID = strings.TrimSpace(f.ReportedContentID)
	if !f.Category.IsValid() {
		f.Category = domain.FeedbackCategoryOther
	}
	if f.ContentTitle == "" && f.Message == "" {
		return oops.With("category", f.Category).Wrap(errors.ErrEmptyFeedback)
	}
	f.CreatedAt = s.now().UTC()

	if err := s.repo.Create(ctx, f); err != nil {
		return err
	}
	slog.Info("Feedback received", "feedback_id", f.IDHex(), "category", f.Category)
	return nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Feedback, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
