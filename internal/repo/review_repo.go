package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/victoria-clinic/internal/domain"
)

// CreateReview inserts r as given; callers decide IsPublished.
func CreateReview(ctx context.Context, db *gorm.DB, r *domain.Review) error {
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = now
	}
	return db.WithContext(ctx).Create(r).Error
}

// GetReview fetches one review by id.
func GetReview(ctx context.Context, db *gorm.DB, id string) (*domain.Review, error) {
	var r domain.Review
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// ListPublishedReviews returns published reviews newest first. A limit <= 0
// returns all of them.
func ListPublishedReviews(ctx context.Context, db *gorm.DB, limit int) ([]domain.Review, error) {
	var out []domain.Review
	q := db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// ListReviews returns every review, newest first.
func ListReviews(ctx context.Context, db *gorm.DB) ([]domain.Review, error) {
	var out []domain.Review
	err := db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

// SetReviewPublished sets the moderation flag on review id. Setting the flag
// to its current value still succeeds. ErrNotFound when no row matched.
func SetReviewPublished(ctx context.Context, db *gorm.DB, id string, published bool) error {
	res := db.WithContext(ctx).
		Model(&domain.Review{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_published": published, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteReview hard-deletes review id. ErrNotFound when no row matched.
func DeleteReview(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PublishPendingReviews publishes every unpublished review and returns how
// many rows changed.
func PublishPendingReviews(ctx context.Context, db *gorm.DB) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Review{}).
		Where("is_published = ?", false).
		Updates(map[string]any{"is_published": true, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}
