// Package services – ReviewService
//
// This file implements the ReviewService, which accepts public testimonials
// and runs the moderation workflow. Public submissions are always stored
// unpublished; only published reviews are visible on the site. Publish and
// unpublish may be repeated freely.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/victoria-clinic/internal/domain"
	"github.com/tbourn/victoria-clinic/internal/repo"
	"github.com/tbourn/victoria-clinic/internal/schema"
)

// LandingReviewsLimit is how many published reviews the landing page shows.
const LandingReviewsLimit = 10

// ReviewStats summarizes the moderation queue.
type ReviewStats struct {
	Total       int64 `json:"total"       example:"12"`
	Published   int64 `json:"published"   example:"9"`
	Unpublished int64 `json:"unpublished" example:"3"`
}

// ReviewService implements review submission and moderation.
type ReviewService struct {
	// DB is the database handle used for all review operations.
	DB *gorm.DB
}

// Create validates in and stores it unpublished.
func (s *ReviewService) Create(ctx context.Context, in schema.ReviewCreate) (*domain.Review, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	r := &domain.Review{
		Name:        in.Name,
		Rating:      in.Rating,
		Text:        in.Text,
		IsPublished: false,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repo.CreateReview(ctx, tx, r)
	})
	if err != nil {
		return nil, err
	}
	reviewsSubmitted.Inc()
	return r, nil
}

// ListPublished returns published reviews newest first; limit <= 0 means all.
func (s *ReviewService) ListPublished(ctx context.Context, limit int) ([]domain.Review, error) {
	return repo.ListPublishedReviews(ctx, s.DB, limit)
}

// ListAll returns every review newest first together with moderation stats.
func (s *ReviewService) ListAll(ctx context.Context) ([]domain.Review, ReviewStats, error) {
	items, err := repo.ListReviews(ctx, s.DB)
	if err != nil {
		return nil, ReviewStats{}, err
	}
	st := ReviewStats{Total: int64(len(items))}
	for _, r := range items {
		if r.IsPublished {
			st.Published++
		}
	}
	st.Unpublished = st.Total - st.Published
	return items, st, nil
}

// Stats returns moderation counts without loading the reviews.
func (s *ReviewService) Stats(ctx context.Context) (ReviewStats, error) {
	total, published, err := repo.ReviewCounts(ctx, s.DB)
	if err != nil {
		return ReviewStats{}, err
	}
	return ReviewStats{Total: total, Published: published, Unpublished: total - published}, nil
}

// Publish makes review id visible. Publishing twice is not an error.
func (s *ReviewService) Publish(ctx context.Context, id string) (*domain.Review, error) {
	return s.setPublished(ctx, id, true)
}

// Unpublish hides review id. Unpublishing twice is not an error.
func (s *ReviewService) Unpublish(ctx context.Context, id string) (*domain.Review, error) {
	return s.setPublished(ctx, id, false)
}

func (s *ReviewService) setPublished(ctx context.Context, id string, published bool) (*domain.Review, error) {
	var out *domain.Review
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.SetReviewPublished(ctx, tx, id, published); err != nil {
			return err
		}
		var err error
		out, err = repo.GetReview(ctx, tx, id)
		return err
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	action := "unpublish"
	if published {
		action = "publish"
	}
	reviewsModerated.WithLabelValues(action).Inc()
	return out, nil
}

// Delete removes review id permanently.
func (s *ReviewService) Delete(ctx context.Context, id string) error {
	err := repo.DeleteReview(ctx, s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReviewNotFound
	}
	if err != nil {
		return err
	}
	reviewsModerated.WithLabelValues("delete").Inc()
	return nil
}

// PublishAllPending publishes every unpublished review and returns how many
// were changed along with the resulting stats.
func (s *ReviewService) PublishAllPending(ctx context.Context) (int64, ReviewStats, error) {
	var n int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		n, err = repo.PublishPendingReviews(ctx, tx)
		return err
	})
	if err != nil {
		return 0, ReviewStats{}, err
	}
	if n > 0 {
		reviewsModerated.WithLabelValues("publish").Add(float64(n))
	}
	st, err := s.Stats(ctx)
	return n, st, err
}
